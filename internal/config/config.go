// Package config loads tiaalarms settings from defaults, an optional YAML
// file, TIAALARMS_ environment variables and bound command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. TIAALARMS_EXPORTS_PATH.
const EnvPrefix = "TIAALARMS"

// OutputDirName is the folder created under the exports path when no output dir is set.
const OutputDirName = "CompleteAlarmList"

// Configuration is the decoded settings of one invocation.
type Configuration struct {
	Exports struct {
		Path       string `mapstructure:"path"`
		StagingDir string `mapstructure:"staging_dir"`
	} `mapstructure:"exports"`
	DBList struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"dblist"`
	Output struct {
		Dir          string `mapstructure:"dir"`
		AlarmsFile   string `mapstructure:"alarms_file"`
		FindingsFile string `mapstructure:"findings_file"`
		ReportFile   string `mapstructure:"report_file"`
	} `mapstructure:"output"`
	Extract struct {
		Namespace  string `mapstructure:"namespace"`
		Language   string `mapstructure:"language"`
		Duplicates string `mapstructure:"duplicates"`
	} `mapstructure:"extract"`
	Store struct {
		Driver string `mapstructure:"driver"`
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"store"`
	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`
}

// New returns a viper instance carrying every default and the environment
// binding. Command line flags are bound to it before Load is called.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("exports.path", ".")
	v.SetDefault("exports.staging_dir", "ExportedDBs")
	v.SetDefault("dblist.path", filepath.Join("DBs", "DBs.txt"))
	v.SetDefault("output.dir", "")
	v.SetDefault("output.alarms_file", "Alarms.csv")
	v.SetDefault("output.findings_file", "MissingComments.csv")
	v.SetDefault("output.report_file", "MissingComments.yaml")
	v.SetDefault("extract.namespace", "")
	v.SetDefault("extract.language", "en-US")
	v.SetDefault("extract.duplicates", "keep")
	v.SetDefault("store.driver", "")
	v.SetDefault("store.dsn", "")
	v.SetDefault("logging.level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file into v and decodes the result. An explicit
// cfgFile must exist; without one, tiaalarms.yaml is looked up in the working
// directory and the user config dir and may be absent.
func Load(v *viper.Viper, cfgFile string) (*Configuration, error) {
	if cfgFile != "" {
		path, err := expandTilde(cfgFile)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
	} else {
		v.SetConfigName("tiaalarms")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "tiaalarms"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = filepath.Join(cfg.Exports.Path, OutputDirName)
	}

	return &cfg, nil
}

func (c *Configuration) expandPaths() error {
	for _, p := range []*string{&c.Exports.Path, &c.DBList.Path, &c.Output.Dir} {
		expanded, err := expandTilde(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

// AlarmsPath is the full path of the alarm table.
func (c *Configuration) AlarmsPath() string {
	return filepath.Join(c.Output.Dir, c.Output.AlarmsFile)
}

// FindingsPath is the full path of the missing comment table.
func (c *Configuration) FindingsPath() string {
	return filepath.Join(c.Output.Dir, c.Output.FindingsFile)
}

// ReportPath is the full path of the YAML diagnostics report.
func (c *Configuration) ReportPath() string {
	return filepath.Join(c.Output.Dir, c.Output.ReportFile)
}

func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
