package capital

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrCannotPing is reported for any failed keep-alive ping.
	ErrCannotPing = errors.New("Cannot ping service")
	// ErrFetchTransactions is returned by GetTransactions for every failure.
	ErrFetchTransactions = errors.New("An error occurred while fetching transactions.")
	// ErrFetchPositions is returned by GetOpenPositions for every failure.
	ErrFetchPositions = errors.New("An error occurred while fetching positions.")
)

// StatusError is a response outside the 2xx range.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("capital http %d", e.StatusCode)
	}
	return fmt.Sprintf("capital http %d: %s", e.StatusCode, body)
}

// maxErrorBody caps how much of a failed response is kept on a StatusError.
const maxErrorBody = 64 * 1024

func newStatusError(code int, status string, body []byte) *StatusError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return &StatusError{StatusCode: code, Status: status, Body: string(body)}
}
