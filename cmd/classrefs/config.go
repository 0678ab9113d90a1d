package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/classrefs/classfile"
	"github.com/wippyai/classrefs/scan"
)

// Config represents the classrefs configuration
type Config struct {
	Extension    string   `mapstructure:"extension"`
	ParentPolicy string   `mapstructure:"parent_policy"`
	LogLevel     string   `mapstructure:"log_level"`
	Include      []string `mapstructure:"include"`
	Workers      int      `mapstructure:"workers"`
	ParentOnly   bool     `mapstructure:"parent_only"`
	ExcludeSelf  bool     `mapstructure:"exclude_self"`
	Quote        bool     `mapstructure:"quote"`
	Progress     bool     `mapstructure:"progress"`
	FailOnError  bool     `mapstructure:"fail_on_error"`
}

// flagKeys maps command-line flags to configuration keys
var flagKeys = map[string]string{
	"workers":       "workers",
	"extension":     "extension",
	"include":       "include",
	"parent-policy": "parent_policy",
	"parent-only":   "parent_only",
	"exclude-self":  "exclude_self",
	"quote":         "quote",
	"progress":      "progress",
	"log-level":     "log_level",
	"fail-on-error": "fail_on_error",
}

func addConfigFlags(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.String("config", "", "config file (default ./classrefs.yaml)")
	fs.Int("workers", runtime.GOMAXPROCS(0), "concurrent decoders per archive")
	fs.String("extension", scan.DefaultExtension, "suffix of archive entries to decode")
	fs.StringSlice("include", nil, "glob patterns selecting archive entries, e.g. 'com/acme/**'")
	fs.String("parent-policy", classfile.ParentRootOnly.String(), "zero parent index handling: root-only, optional or required")
	fs.Bool("parent-only", false, "print only the parent of each class")
	fs.Bool("exclude-self", false, "omit each class's own name from its references")
	fs.Bool("quote", true, "quote archive and entry names")
	fs.Bool("progress", false, "show a progress bar on stderr")
	fs.String("log-level", "error", "log level: debug, info, warn or error")
	fs.Bool("fail-on-error", false, "exit with status 1 if any archive or entry failed")
}

// newViper binds the command's flags to a viper instance with defaults,
// CLASSREFS_ environment overrides and an optional config file.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()

	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, lookupFlag(cmd, flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	v.SetEnvPrefix("classrefs")
	v.AutomaticEnv()

	if f := lookupFlag(cmd, "config"); f != nil && f.Value.String() != "" {
		v.SetConfigFile(f.Value.String())
	} else {
		v.SetConfigName("classrefs")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return v, nil
}

// lookupFlag finds a flag defined on cmd or inherited from its parents
func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f
	}
	return cmd.InheritedFlags().Lookup(name)
}

// loadConfig reads and validates the configuration for cmd
func loadConfig(cmd *cobra.Command) (*Config, error) {
	v, err := newViper(cmd)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if _, err := classfile.ParseParentPolicy(c.ParentPolicy); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Extension == "" {
		return fmt.Errorf("extension must not be empty")
	}
	return c.ScanOptions().Validate()
}

// ScanOptions converts the configuration to scanner options
func (c *Config) ScanOptions() scan.Options {
	policy, _ := classfile.ParseParentPolicy(c.ParentPolicy)
	return scan.Options{
		Extension: c.Extension,
		Include:   c.Include,
		Workers:   c.Workers,
		Extract: classfile.ExtractOptions{
			Policy:      policy,
			ParentOnly:  c.ParentOnly,
			ExcludeSelf: c.ExcludeSelf,
		},
	}
}

// NewLogger builds a console logger on stderr at the configured level
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = true
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zc.Build()
}
