package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "capital",
	Short: "Session client for the Capital.com trading API",
	Long: `Capital logs in to the Capital.com REST API, keeps the session alive and
reads trade history and open positions.

Credentials come from a config file (--config) and/or the environment:
  CAPITAL_API_KEY, CAPITAL_IDENTIFIER, CAPITAL_PASSWORD,
  CAPITAL_ENCRYPTED_PASSWORD, CAPITAL_ENV (demo|live), CAPITAL_BASE_URL,
  CAPITAL_PING_INTERVAL
A .env file in the working directory is loaded first.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	cfgFile  string
	logLevel string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error (overrides config)")
}
