// Package main provides the transmute command.
//
// transmute reshapes JSON or YAML records using declarative schema files:
//   - apply: run a schema over one record or a list of records
//   - check: validate schema files
//   - suggest: propose a schema from a sample record and target keys
//   - watch: re-apply a schema whenever it or its input changes
//   - transforms: list the builtin named transforms
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"transmute/internal/config"
	"transmute/internal/logging"
)

// app holds the state shared by all subcommands.
type app struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "transmute",
		Short: "Reshape records with declarative schemas",
		Long: `transmute builds target records from source records.

A schema is an ordered list of rules. Each rule names a target key and
either copies a source key or computes the value with a named transform or
an expression. Later rules overwrite earlier ones with the same target.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "transmute.yaml", "Config file (ignored when absent)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(newApplyCmd(a))
	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newSuggestCmd(a))
	root.AddCommand(newWatchCmd(a))
	root.AddCommand(newTransformsCmd(a))

	return root
}

// setup loads the configuration and builds the logger.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	a.cfg = cfg

	opts := logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}
	if a.verbose {
		opts.Level = zapcore.DebugLevel.String()
	}

	logger, err := logging.New(opts)
	if err != nil {
		return err
	}

	a.logger = logger

	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
