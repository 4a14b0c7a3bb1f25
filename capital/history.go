package capital

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/capital/pkg/id"
)

// TimestampLayout is the history query format: whole seconds, no zone.
const TimestampLayout = "2006-01-02T15:04:05"

// FormatTimestamp renders t in UTC, truncated to the second.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts a date (2006-01-02) or a TimestampLayout value
// and interprets it as UTC. An empty string yields the zero time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{TimestampLayout, time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("invalid timestamp %q (want YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS)", s)
}

type transactionsEnvelope struct {
	Transactions []json.RawMessage `json:"transactions"`
}

// GetTransactions authenticates and returns the trade transactions between
// from and to. A zero from or to means now. Every failure, whether of the
// login or of the fetch, is reported as ErrFetchTransactions.
func (c *Client) GetTransactions(ctx context.Context, from, to time.Time) ([]json.RawMessage, error) {
	now := c.now()
	if from.IsZero() {
		from = now
	}
	if to.IsZero() {
		to = now
	}

	log := c.log.WithFields(logrus.Fields{
		"op":    "transactions",
		"op_id": id.New(),
		"from":  FormatTimestamp(from),
		"to":    FormatTimestamp(to),
	})

	txs, err := c.getTransactions(ctx, from, to)
	c.recorder.Fetch("transactions", err)
	if err != nil {
		log.WithError(err).Error("fetch transactions")
		return nil, ErrFetchTransactions
	}
	log.WithField("count", len(txs)).Debug("fetched transactions")
	return txs, nil
}

func (c *Client) getTransactions(ctx context.Context, from, to time.Time) ([]json.RawMessage, error) {
	headers, err := c.Authenticate(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "authenticate")
	}

	path := fmt.Sprintf("history/transactions?type=TRADE&from=%s&to=%s",
		FormatTimestamp(from), FormatTimestamp(to))

	var env transactionsEnvelope
	if err := c.getJSON(ctx, path, headers, &env); err != nil {
		return nil, err
	}
	return env.Transactions, nil
}

// getJSON issues a GET and decodes a 2xx body into out.
func (c *Client) getJSON(ctx context.Context, path string, headers http.Header, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaderMultiValues(headers).
		Get(c.url(path))
	if err != nil {
		return errors.Wrapf(err, "get %s", path)
	}
	if !resp.IsSuccess() {
		return newStatusError(resp.StatusCode(), resp.Status(), resp.Body())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}
