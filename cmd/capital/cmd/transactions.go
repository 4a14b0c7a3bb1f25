package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/capital/capital"
)

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "Print trade transactions as JSON",
	Long: `Fetch TRADE transactions between --from and --to (UTC). Both default
to now. Dates may be YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS.

Example:
  capital transactions --from 2022-01-01 --to 2022-01-31`,
	RunE: runTransactions,
}

var (
	txFrom string
	txTo   string
)

func init() {
	rootCmd.AddCommand(transactionsCmd)

	transactionsCmd.Flags().StringVar(&txFrom, "from", "", "start of range (UTC)")
	transactionsCmd.Flags().StringVar(&txTo, "to", "", "end of range (UTC)")
}

func runTransactions(cmd *cobra.Command, args []string) error {
	from, err := capital.ParseTimestamp(txFrom)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	to, err := capital.ParseTimestamp(txTo)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	txs, err := s.client.GetTransactions(cmd.Context(), from, to)
	if err != nil {
		return err
	}
	return printJSON(cmd, txs)
}

func printJSON(cmd *cobra.Command, v []json.RawMessage) error {
	if v == nil {
		v = []json.RawMessage{}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
