package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/capital/capital"
	"github.com/rustyeddy/capital/config"
	"github.com/rustyeddy/capital/internal/logging"
	"github.com/rustyeddy/capital/internal/metrics"
	"github.com/rustyeddy/capital/store"
)

// session bundles a configured client with the resources it owns.
type session struct {
	cfg      *config.Config
	client   *capital.Client
	store    store.Store
	log      *logrus.Logger
	registry *prometheus.Registry
}

func openSession() (*session, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	creds, err := cfg.Credentials()
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Store.Type, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	reg := prometheus.NewRegistry()
	rec, err := metrics.New(reg)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	client := capital.NewClient(creds,
		capital.WithStore(st),
		capital.WithLogger(logrus.NewEntry(logger).WithField("component", "capital")),
		capital.WithRecorder(rec),
		capital.WithKeepAliveInterval(cfg.PingInterval()),
		capital.WithTimeout(cfg.Timeout()),
		capital.WithSessionRate(cfg.HTTP.SessionRate, 1),
	)

	return &session{
		cfg:      cfg,
		client:   client,
		store:    st,
		log:      logger,
		registry: reg,
	}, nil
}

func (s *session) Close() error {
	_ = s.client.Close()
	return s.store.Close()
}
