package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cdtdelta/tiaalarms/internal/consolidate"
	"github.com/cdtdelta/tiaalarms/internal/database"
	"github.com/cdtdelta/tiaalarms/internal/dblist"
	"github.com/cdtdelta/tiaalarms/internal/export"
	"github.com/cdtdelta/tiaalarms/internal/extractor"
	"github.com/cdtdelta/tiaalarms/internal/model"
)

func (a *app) newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract, key and validate all alarm comments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.extract(cmd)
		},
	}

	f := cmd.Flags()
	f.String("output", "", "output directory (default <exports>/CompleteAlarmList)")
	f.String("staging-dir", "", "name of the staging folders to search")
	f.String("language", "", "comment language to extract")
	f.String("namespace", "", "namespace for documents that declare none")
	f.String("duplicates", "", "duplicate document policy: keep or first")

	a.bind(f.Lookup("output"), "output.dir")
	a.bind(f.Lookup("staging-dir"), "exports.staging_dir")
	a.bind(f.Lookup("language"), "extract.language")
	a.bind(f.Lookup("namespace"), "extract.namespace")
	a.bind(f.Lookup("duplicates"), "extract.duplicates")
	return cmd
}

func (a *app) extract(cmd *cobra.Command) error {
	cfg := a.cfg

	policy, err := consolidate.ParseDuplicatePolicy(cfg.Extract.Duplicates)
	if err != nil {
		return err
	}

	a.logger.Info("Loading DB list", zap.String("path", cfg.DBList.Path))
	list, err := dblist.ReadFile(cfg.DBList.Path)
	if err != nil {
		return fmt.Errorf("reading DB list: %w", err)
	}
	for _, r := range list.Rejected {
		a.logger.Warn("Invalid DB list line",
			zap.Int("line", r.Line), zap.String("text", r.Text), zap.String("reason", r.Reason))
	}
	if list.Count == 0 {
		return fmt.Errorf("no DB entries loaded from %s", cfg.DBList.Path)
	}
	a.logger.Info("Loaded DB list", zap.Int("entries", list.Count))

	locations, err := consolidate.DiscoverLocations(cfg.Exports.Path, cfg.Exports.StagingDir)
	if err != nil {
		return err
	}
	if len(locations) == 0 {
		a.logger.Warn("No staging locations found",
			zap.String("exports", cfg.Exports.Path), zap.String("dir", cfg.Exports.StagingDir))
	}

	ex := extractor.New(a.logger,
		extractor.WithLanguage(cfg.Extract.Language),
		extractor.WithFallbackNamespace(cfg.Extract.Namespace))
	result := consolidate.NewEngine(ex, a.logger, policy).Run(list.Entries, locations)

	run := database.NewRun(cfg.Exports.Path, cfg.DBList.Path)
	run.Documents = result.Documents
	run.Records = len(result.Records)
	run.Findings = len(result.Findings)

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := export.WriteAlarms(cfg.AlarmsPath(), result.Records); err != nil {
		return fmt.Errorf("writing alarms: %w", err)
	}
	if err := export.WriteFindings(cfg.FindingsPath(), result.Findings); err != nil {
		return fmt.Errorf("writing findings: %w", err)
	}
	report := export.NewReport(run.ID, run.Documents, run.Records, result.Findings)
	if err := export.WriteReport(cfg.ReportPath(), report); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if cfg.Store.Driver != "" {
		if err := a.storeRun(run, result); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:       %s\n", run.ID)
	fmt.Fprintf(out, "Documents: %d\n", run.Documents)
	fmt.Fprintf(out, "Records:   %d\n", run.Records)
	fmt.Fprintf(out, "Findings:  %d (%d missing, %d mismatched)\n", run.Findings,
		report.Totals[model.MismatchMissing], report.Totals[model.MismatchDetected])
	fmt.Fprintf(out, "Alarms:    %s\n", cfg.AlarmsPath())
	return nil
}

// storeRun writes the run, its records and its findings to the configured store.
func (a *app) storeRun(run *database.Run, result *consolidate.Result) error {
	store, err := database.CreateStore(a.cfg.Store.Driver, a.cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	if err := store.SaveRun(run); err != nil {
		return err
	}
	if _, err := store.InsertRecords(run.ID, result.Records); err != nil {
		return err
	}
	if _, err := store.InsertFindings(run.ID, result.Findings); err != nil {
		return err
	}

	a.logger.Info("Stored run", zap.String("run", run.ID), zap.String("store", store.Path()))
	return nil
}
