package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Log in and keep the session alive until interrupted",
	Long: `Authenticate, then ping the API every keepalive.interval until
SIGINT or SIGTERM.

Example:
  CAPITAL_PING_INTERVAL=3m capital ping`,
	RunE: runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := s.client.Authenticate(ctx); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	s.log.WithField("interval", s.cfg.PingInterval()).Info("keeping session alive, Ctrl-C to stop")

	<-ctx.Done()
	s.client.StopKeepAlive()
	s.log.Info("keep-alive stopped")
	return nil
}
