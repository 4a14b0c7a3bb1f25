// Package capital is a session client for the Capital.com REST API. It
// logs in, persists the session tokens, keeps the session alive with a
// periodic ping and reads trade history and open positions.
package capital

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/rustyeddy/capital/store"
)

const (
	// DemoURL is the base URL of the demo (paper trading) environment.
	DemoURL = "https://demo-api-capital.backend-capital.com/api/v1/"
	// LiveURL is the base URL of the live trading environment.
	LiveURL = "https://api-capital.backend-capital.com/api/v1/"

	// DefaultKeepAliveInterval is the ping period. Sessions expire after
	// ten minutes without traffic.
	DefaultKeepAliveInterval = 30 * time.Second

	// DefaultTimeout bounds every HTTP call.
	DefaultTimeout = 30 * time.Second
)

// BaseURL maps an environment name to its API base URL.
func BaseURL(env string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "demo", "practice", "":
		return DemoURL, nil
	case "live":
		return LiveURL, nil
	default:
		return "", fmt.Errorf("unknown capital env %q (want demo|live)", env)
	}
}

// Credentials is the login configuration. It is never mutated by the client.
type Credentials struct {
	APIKey            string
	BaseURL           string
	Identifier        string
	Password          string
	EncryptedPassword string
}

// Recorder receives operation outcomes. *metrics.Recorder implements it.
type Recorder interface {
	Auth(err error)
	Ping(err error)
	Fetch(endpoint string, err error)
}

type nopRecorder struct{}

func (nopRecorder) Auth(error)          {}
func (nopRecorder) Ping(error)          {}
func (nopRecorder) Fetch(string, error) {}

// Client talks to the API on behalf of one account.
type Client struct {
	creds    Credentials
	http     *resty.Client
	store    store.Store
	log      *logrus.Entry
	recorder Recorder
	limiter  *rate.Limiter
	interval time.Duration

	now       func() time.Time
	newTicker func(time.Duration) ticker

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	keepAlive *keepAlive
}

// Option configures a Client.
type Option func(*Client)

// WithStore sets the token store. The default is an in-memory store.
func WithStore(s store.Store) Option {
	return func(c *Client) { c.store = s }
}

// WithHTTPClient replaces the resty client.
func WithHTTPClient(h *resty.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout on the default resty client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithLogger sets the log entry operations derive from.
func WithLogger(l *logrus.Entry) Option {
	return func(c *Client) { c.log = l }
}

// WithRecorder sets the metrics sink.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithKeepAliveInterval sets the ping period.
func WithKeepAliveInterval(d time.Duration) Option {
	return func(c *Client) { c.interval = d }
}

// WithSessionRate limits how often a session may be created.
// A non-positive perSecond disables the limit.
func WithSessionRate(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithClock sets the time source used for default history bounds.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a client for creds. The base URL is normalized to end in "/".
func NewClient(creds Credentials, opts ...Option) *Client {
	if creds.BaseURL != "" && !strings.HasSuffix(creds.BaseURL, "/") {
		creds.BaseURL += "/"
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		creds:     creds,
		http:      resty.New().SetTimeout(DefaultTimeout),
		store:     store.NewMemory(),
		log:       logrus.NewEntry(logrus.StandardLogger()),
		recorder:  nopRecorder{},
		limiter:   rate.NewLimiter(rate.Limit(1), 1),
		interval:  DefaultKeepAliveInterval,
		now:       time.Now,
		newTicker: newTimeTicker,
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.recorder == nil {
		c.recorder = nopRecorder{}
	}
	if c.interval <= 0 {
		c.interval = DefaultKeepAliveInterval
	}
	return c
}

// Credentials returns the configuration the client was built with.
func (c *Client) Credentials() Credentials {
	return c.creds
}

// Close stops the keep-alive loop. The token store is owned by the caller
// and is left open.
func (c *Client) Close() error {
	c.StopKeepAlive()
	c.cancel()
	return nil
}

func (c *Client) url(path string) string {
	return c.creds.BaseURL + path
}
