// Command tiaalarms consolidates the alarm and signal comments of exported
// PLC data blocks into an HMI alarm table and a list of comments to fix.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cdtdelta/tiaalarms/internal/config"
	"github.com/cdtdelta/tiaalarms/internal/logging"
)

// app holds the state shared by every command of one invocation.
type app struct {
	v        *viper.Viper
	cfg      *config.Configuration
	logger   *zap.Logger
	cfgFile  string
	logLevel string
	verbose  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree with fresh state.
func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	rootCmd := &cobra.Command{
		Use:   "tiaalarms",
		Short: "Consolidate PLC data block alarm comments into an HMI alarm list",
		Long: `tiaalarms reads the data blocks named in a DB list from every ExportedDBs
folder below the exports path, derives a custom key for each alarm and signal
comment, checks every comment against the DB.Structure.SubGroup.Number naming
convention, and writes the alarm table plus a report of missing comments.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./tiaalarms.yaml)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	pf.String("exports", "", "base path searched for staging folders")
	pf.String("dblist", "", "DB list file")
	pf.String("store-driver", "", "run store driver: sqlite or postgres")
	pf.String("store-dsn", "", "run store file path or connection string")

	a.bind(pf.Lookup("exports"), "exports.path")
	a.bind(pf.Lookup("dblist"), "dblist.path")
	a.bind(pf.Lookup("store-driver"), "store.driver")
	a.bind(pf.Lookup("store-dsn"), "store.dsn")

	rootCmd.AddCommand(
		a.newExtractCmd(),
		a.newDBListCmd(),
		a.newScanCmd(),
		a.newQueryCmd(),
		a.newRunsCmd(),
	)
	return rootCmd
}

// setup loads the configuration and builds the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.logLevel != "" {
		a.v.Set("logging.level", a.logLevel)
	}

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.Logging.Level
	if a.verbose {
		level = "debug"
	}
	a.logger, err = logging.New(level)
	if err != nil {
		return err
	}

	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("Using config file", zap.String("path", used))
	}
	return nil
}
