package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cdtdelta/tiaalarms/internal/consolidate"
)

func (a *app) newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "List the staging locations found below the exports path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			locations, err := consolidate.DiscoverLocations(a.cfg.Exports.Path, a.cfg.Exports.StagingDir)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROJECT\tDOCUMENTS\tMODIFIED\tSTATUS\tPATH")
			for _, loc := range locations {
				docs := 0
				if loc.IsValid {
					paths, err := consolidate.Documents(loc.Path)
					if err != nil {
						a.logger.Warn("Cannot list staging location", zap.String("path", loc.Path), zap.Error(err))
					}
					docs = len(paths)
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
					loc.Name, docs, loc.LastModified.Format("2006-01-02 15:04"), loc.ValidationMessage, loc.Path)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d staging locations\n", len(locations))
			return nil
		},
	}
}
