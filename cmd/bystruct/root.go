/* Copyright (c) 2025 Voxgig Ltd. MIT LICENSE. */

package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jose-perigolo/bystruct/internal/codec"
	"github.com/jose-perigolo/bystruct/internal/config"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	restore func()
}

// rootCommand creates the root command
func (a *app) rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bystruct",
		Short: "Transform and validate JSON and YAML documents by example",
		Long: `bystruct transforms and validates tree data using specifications
that are written as examples of the output, with backtick references
into the source data and $DIRECTIVES.`,
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default ./bystruct.yaml or $HOME/bystruct.yaml)")
	flags.StringP("output", "o", string(codec.JSON), "output format: json, yaml or dump")
	flags.Int("indent", 2, "output indent, 0 for compact")
	flags.Bool("color", true, "colour diagnostics")
	flags.BoolP("verbose", "v", false, "debug logging")

	rootCmd.AddCommand(newTransformCommand(a))
	rootCmd.AddCommand(newValidateCommand(a))
	rootCmd.AddCommand(newGetPathCommand(a))
	rootCmd.AddCommand(newMergeCommand(a))
	rootCmd.AddCommand(newInjectCommand(a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	file, _ := cmd.Flags().GetString("config")

	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
	}

	cfg, err := config.Load(config.Options{
		File:  file,
		Paths: paths,
		Flags: cmd.Flags(),
	})
	if err != nil {
		return err
	}
	a.cfg = cfg

	color.NoColor = color.NoColor || !cfg.Color

	level := cfg.Log.Level
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}

	logger, err := newLogger(level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.logger = logger
	a.restore = zap.ReplaceGlobals(logger)

	logger.Debug("config loaded",
		zap.String("output", cfg.Output),
		zap.Int("indent", cfg.Indent))

	return nil
}

func (a *app) teardown() {
	if nil != a.logger {
		_ = a.logger.Sync()
		a.logger = nil
	}
	if nil != a.restore {
		a.restore()
		a.restore = nil
	}
}

// newLogger builds a development logger for debug, else a production
// logger at the given level. Logs go to stderr.
func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	var zcfg zap.Config
	if zapcore.DebugLevel == lvl {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.Sampling = nil
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{"stderr"}

	return zcfg.Build()
}

// newVersionCommand creates the version command
func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			titleColor := color.New(color.FgCyan, color.Bold)
			out := cmd.OutOrStdout()

			titleColor.Fprint(out, "bystruct version: ")
			fmt.Fprintln(out, Version)

			titleColor.Fprint(out, "Git commit: ")
			fmt.Fprintln(out, GitCommit)

			titleColor.Fprint(out, "Build date: ")
			fmt.Fprintln(out, BuildDate)
		},
	}
}
