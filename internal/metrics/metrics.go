// Package metrics holds the Prometheus collectors for the session client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Recorder counts session, ping and fetch outcomes. A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	auth  *prometheus.CounterVec
	ping  *prometheus.CounterVec
	fetch *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		auth: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "capital",
			Name:      "session_auth_total",
			Help:      "Session authentication attempts by result.",
		}, []string{"result"}),
		ping: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "capital",
			Name:      "ping_total",
			Help:      "Keep-alive pings by result.",
		}, []string{"result"}),
		fetch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "capital",
			Name:      "fetch_total",
			Help:      "Data fetches by endpoint and result.",
		}, []string{"endpoint", "result"}),
	}
	for _, c := range []prometheus.Collector{r.auth, r.ping, r.fetch} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

func (r *Recorder) Auth(err error) {
	if r == nil {
		return
	}
	r.auth.WithLabelValues(result(err)).Inc()
}

func (r *Recorder) Ping(err error) {
	if r == nil {
		return
	}
	r.ping.WithLabelValues(result(err)).Inc()
}

func (r *Recorder) Fetch(endpoint string, err error) {
	if r == nil {
		return
	}
	r.fetch.WithLabelValues(endpoint, result(err)).Inc()
}
