package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/capital/capital"
)

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Print open positions",
	Long: `Fetch open positions. Prints the raw JSON array, or a table with --table.

Example:
  capital positions --table`,
	RunE: runPositions,
}

var positionsTable bool

func init() {
	rootCmd.AddCommand(positionsCmd)

	positionsCmd.Flags().BoolVar(&positionsTable, "table", false, "print a table instead of JSON")
}

func runPositions(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	raw, err := s.client.GetOpenPositions(cmd.Context())
	if err != nil {
		return err
	}
	if !positionsTable {
		return printJSON(cmd, raw)
	}

	positions, err := capital.DecodePositions(raw)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EPIC\tINSTRUMENT\tDIRECTION\tSIZE\tLEVEL\tUPL\tCURRENCY")
	for _, p := range positions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%g\t%.2f\t%s\n",
			p.Market.Epic, p.Market.InstrumentName, p.Position.Direction,
			p.Position.Size, p.Position.Level, p.Position.UPL, p.Position.Currency)
	}
	return tw.Flush()
}
