// Package server exposes an authenticated session over a small HTTP API.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/capital/capital"
)

// Source is the part of *capital.Client the server needs.
type Source interface {
	GetTransactions(ctx context.Context, from, to time.Time) ([]json.RawMessage, error)
	GetOpenPositions(ctx context.Context) ([]json.RawMessage, error)
	Running() bool
}

// Handler serves positions, transactions, health and metrics.
type Handler struct {
	src Source
	log *logrus.Entry
}

// New builds the router. gatherer may be nil to omit /metrics.
func New(src Source, gatherer prometheus.Gatherer, log *logrus.Entry) http.Handler {
	h := &Handler{src: src, log: log}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", h.health)
	r.Get("/positions", h.positions)
	r.Get("/transactions", h.transactions)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"keepalive": h.src.Running(),
	})
}

func (h *Handler) positions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.src.GetOpenPositions(r.Context())
	if err != nil {
		h.fail(w, r, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"positions": nonNil(positions)})
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	from, err := capital.ParseTimestamp(r.URL.Query().Get("from"))
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, err)
		return
	}
	to, err := capital.ParseTimestamp(r.URL.Query().Get("to"))
	if err != nil {
		h.fail(w, r, http.StatusBadRequest, err)
		return
	}

	txs, err := h.src.GetTransactions(r.Context(), from, to)
	if err != nil {
		h.fail(w, r, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": nonNil(txs)})
}

func nonNil(v []json.RawMessage) []json.RawMessage {
	if v == nil {
		return []json.RawMessage{}
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	h.log.WithError(err).WithFields(logrus.Fields{
		"path":       r.URL.Path,
		"status":     status,
		"request_id": chimw.GetReqID(r.Context()),
	}).Warn("request failed")
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
