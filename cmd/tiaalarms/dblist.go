package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cdtdelta/tiaalarms/internal/dblist"
)

func (a *app) newDBListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dblist [file]",
		Short: "Parse a DB list and show its entries and rejected lines",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.DBList.Path
			if len(args) == 1 {
				path = args[0]
			}

			result, err := dblist.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading DB list: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DB\tBASE KEY")
			for _, e := range result.Entries {
				fmt.Fprintf(w, "%s\t%d\n", e.Name, e.BaseKey)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			for _, r := range result.Rejected {
				fmt.Fprintf(cmd.OutOrStdout(), "line %d rejected (%s): %q\n", r.Line, r.Reason, r.Text)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d entries, %d rejected\n", result.Count, len(result.Rejected))
			return nil
		},
	}
}
