package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/treeviz/pkg/errors"
	"github.com/YuminosukeSato/treeviz/pkg/log"
)

type rootCmdConfig struct {
	configPath string
	logLevel   string
	logFormat  string
	verbose    bool

	file   fileConfig
	logger log.Logger
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{}
	rootCmd := &cobra.Command{
		Use:   "treeviz",
		Short: "treeviz grows decision trees one step at a time",
		Long: `A tool to grow classification trees breadth-first, replay every split and
leaf decision as an event log, and classify feature vectors with the result.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.setup(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVar(&config.configPath, "config", "", "path to a YAML file with build defaults (max_depth, min_samples_split, criterion, log_level, log_format)")
	rootCmd.PersistentFlags().StringVar(&config.logLevel, "log-level", "", "log level: debug, info, warn or error (defaults to info)")
	rootCmd.PersistentFlags().StringVar(&config.logFormat, "log-format", "", "log format: console, json or cloud (defaults to console)")
	rootCmd.PersistentFlags().BoolVarP(&config.verbose, "verbose", "v", false, "log every build event (same as --log-level debug)")
	rootCmd.AddCommand(versionCmd(), buildCmd(config), classifyCmd(config), demoCmd(config))
	return rootCmd
}

// setup loads the config file and installs the process-wide logger. Flags
// take precedence over file values.
func (rc *rootCmdConfig) setup(cmd *cobra.Command) error {
	if rc.configPath != "" {
		fc, err := loadFileConfig(rc.configPath)
		if err != nil {
			return err
		}
		rc.file = fc
	}

	levelName := rc.file.LogLevel
	if rc.logLevel != "" {
		levelName = rc.logLevel
	}
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return err
	}
	if rc.verbose {
		level = log.LevelDebug
	}

	format := rc.file.LogFormat
	if rc.logFormat != "" {
		format = rc.logFormat
	}
	logger, err := newLogger(cmd.ErrOrStderr(), format, level)
	if err != nil {
		return err
	}
	rc.logger = logger
	log.SetLogger(logger)
	return nil
}

func newLogger(w io.Writer, format string, level log.Level) (log.Logger, error) {
	switch format {
	case "", "console":
		return log.NewConsoleLogger(w, level), nil
	case "json":
		return log.NewZerologLogger(w, level), nil
	case "cloud":
		return log.NewSlogLogger(w, level, true), nil
	default:
		return nil, errors.NewValidationError("log-format", "must be console, json or cloud", format)
	}
}

func (rc *rootCmdConfig) Logf(format string, a ...interface{}) {
	if rc.logger == nil {
		return
	}
	rc.logger.Info(fmt.Sprintf(format, a...))
}
