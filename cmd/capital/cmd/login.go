package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/capital/capital"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Create a session and store its tokens",
	Long: `Authenticate against the API and persist the CST and security token
in the configured store. Use a sqlite or badger store to keep them across runs.

Example:
  capital login --config capital.yaml`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	headers, err := s.client.Authenticate(cmd.Context())
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Session created (%s store)\n", s.cfg.Store.Type)
	fmt.Fprintf(cmd.OutOrStdout(), "  CST:              %s\n", present(headers.Get(capital.HeaderCST)))
	fmt.Fprintf(cmd.OutOrStdout(), "  X-SECURITY-TOKEN: %s\n", present(headers.Get(capital.HeaderSecurityToken)))
	return nil
}

func present(v string) string {
	if v == "" {
		return "missing"
	}
	return "received"
}
