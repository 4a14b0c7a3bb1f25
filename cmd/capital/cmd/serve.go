package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/capital/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Keep a session alive and serve positions/transactions over HTTP",
	Long: `Authenticate, keep the session alive and expose:
  GET /healthz
  GET /positions
  GET /transactions?from=YYYY-MM-DD&to=YYYY-MM-DD
  GET /metrics

Example:
  capital serve --addr :8080`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	addr := s.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	if _, err := s.client.Authenticate(ctx); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(s.client, s.registry, logrus.NewEntry(s.log).WithField("component", "server")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}
