package capital

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/capital/pkg/id"
	"github.com/rustyeddy/capital/store"
)

// Header names used by the API.
const (
	HeaderAPIKey        = "X-CAP-API-KEY"
	HeaderCST           = "CST"
	HeaderSecurityToken = "X-SECURITY-TOKEN"
	HeaderContentType   = "Content-Type"

	contentTypeJSON = "application/json"
)

// sessionRequest is the login body. Field order matches the API docs.
type sessionRequest struct {
	EncryptedPassword string `json:"encryptedPassword"`
	Identifier        string `json:"identifier"`
	Password          string `json:"password"`
}

// Authenticate creates a session, stores the CST and security token and
// starts the keep-alive loop. It returns the headers to attach to
// follow-up requests. A failure is returned unchanged: either the
// transport error or a *StatusError.
func (c *Client) Authenticate(ctx context.Context) (http.Header, error) {
	log := c.log.WithFields(logrus.Fields{"op": "authenticate", "op_id": id.New()})

	headers, err := c.authenticate(ctx)
	c.recorder.Auth(err)
	if err != nil {
		log.WithError(err).Warn("session request failed")
		return nil, err
	}
	log.Debug("session created")

	c.StartKeepAlive()
	return headers, nil
}

func (c *Client) authenticate(ctx context.Context) (http.Header, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(HeaderContentType, contentTypeJSON).
		SetHeader(HeaderAPIKey, c.creds.APIKey).
		SetBody(sessionRequest{
			EncryptedPassword: c.creds.EncryptedPassword,
			Identifier:        c.creds.Identifier,
			Password:          c.creds.Password,
		}).
		Post(c.url("session"))
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, newStatusError(resp.StatusCode(), resp.Status(), resp.Body())
	}

	cst := resp.Header().Get(HeaderCST)
	sec := resp.Header().Get(HeaderSecurityToken)

	if err := c.store.Set(store.KeyCST, cst); err != nil {
		return nil, errors.Wrap(err, "store cst")
	}
	if err := c.store.Set(store.KeySecurityToken, sec); err != nil {
		return nil, errors.Wrap(err, "store security token")
	}

	h := make(http.Header)
	h.Set(HeaderContentType, contentTypeJSON)
	h.Set(HeaderCST, cst)
	h.Set(HeaderSecurityToken, sec)
	return h, nil
}

// Headers returns the stored session tokens as request headers. Missing
// tokens are present with an empty value.
func (c *Client) Headers() http.Header {
	h := make(http.Header)
	h.Set(HeaderCST, c.storedToken(store.KeyCST))
	h.Set(HeaderSecurityToken, c.storedToken(store.KeySecurityToken))
	return h
}

func (c *Client) storedToken(key string) string {
	v, err := c.store.Get(key)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("read token")
		return ""
	}
	return v
}
