package capital

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func newTimeTicker(d time.Duration) ticker {
	return timeTicker{t: time.NewTicker(d)}
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// keepAlive is the handle of a running ping loop.
type keepAlive struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartKeepAlive pings the API every interval until StopKeepAlive or
// Close. It is a no-op while a loop is already running. A failed ping is
// logged and the loop carries on.
func (c *Client) StartKeepAlive() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.keepAlive != nil {
		return
	}

	ctx, cancel := context.WithCancel(c.ctx)
	ka := &keepAlive{cancel: cancel, done: make(chan struct{})}
	c.keepAlive = ka

	go c.pingLoop(ctx, c.newTicker(c.interval), ka.done)
	c.log.WithField("interval", c.interval).Debug("keep-alive started")
}

// StopKeepAlive halts the ping loop. When it returns no further ping will
// be sent; one in flight is cancelled. It is a no-op when nothing runs.
func (c *Client) StopKeepAlive() {
	c.mu.Lock()
	ka := c.keepAlive
	c.keepAlive = nil
	c.mu.Unlock()

	if ka == nil {
		return
	}
	ka.cancel()
	<-ka.done
	c.log.Debug("keep-alive stopped")
}

// Running reports whether the keep-alive loop is active.
func (c *Client) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keepAlive != nil
}

func (c *Client) pingLoop(ctx context.Context, t ticker, done chan<- struct{}) {
	defer close(done)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			if ctx.Err() != nil {
				return
			}
			_ = c.Ping(ctx)
		}
	}
}

// Ping sends one keep-alive request with the stored tokens. Any failure
// is reported as ErrCannotPing.
func (c *Client) Ping(ctx context.Context) error {
	log := c.log.WithField("op", "ping")

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaderMultiValues(c.Headers()).
		Get(c.url("ping"))
	if err == nil && !resp.IsSuccess() {
		err = newStatusError(resp.StatusCode(), resp.Status(), resp.Body())
	}
	c.recorder.Ping(err)
	if err != nil {
		log.WithError(err).Warn("ping failed")
		return ErrCannotPing
	}

	log.WithFields(logrus.Fields{"status": resp.StatusCode()}).Debug("ping service")
	return nil
}
