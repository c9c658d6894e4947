package main

import (
	"context"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"transmute/engine"
	"transmute/internal/batch"
	"transmute/internal/mapping"
)

type applyOptions struct {
	schema    string
	extra     string
	onMissing string
	workers   int
	output    string
	pretty    bool
	dump      bool
	input     string
}

type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func cmdStreams(cmd *cobra.Command) streams {
	return streams{in: cmd.InOrStdin(), out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
}

func newApplyCmd(a *app) *cobra.Command {
	var opts applyOptions

	cmd := &cobra.Command{
		Use:   "apply --schema FILE [INPUT|-]",
		Short: "Apply a schema to one record or a list of records",
		Long: `Apply reads a JSON or YAML document holding one object or a list of
objects and prints the target record(s) built by the schema. Without INPUT,
or with "-", the document is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.input = "-"
			if len(args) == 1 {
				opts.input = args[0]
			}

			return a.runApply(cmd.Context(), cmdStreams(cmd), opts)
		},
	}

	addApplyFlags(cmd, &opts)
	cmd.Flags().StringVar(&opts.onMissing, "on-missing", "", "Missing-value policy: null, omit or error (overrides schema and config)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Records processed in parallel (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output format: json or yaml (default from config)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Indent JSON output")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "Dump the results to stderr")

	return cmd
}

func addApplyFlags(cmd *cobra.Command, opts *applyOptions) {
	cmd.Flags().StringVarP(&opts.schema, "schema", "s", "", "Schema file (required)")
	cmd.Flags().StringVarP(&opts.extra, "extra", "e", "", "File holding the extra record passed to transforms")
	_ = cmd.MarkFlagRequired("schema")
}

func (a *app) runApply(ctx context.Context, s streams, opts applyOptions) error {
	sf, err := mapping.LoadFile(opts.schema)
	if err != nil {
		return err
	}

	compiler := mapping.NewCompiler(nil)

	prog, err := compiler.Compile(sf)
	if err != nil {
		return fmt.Errorf("%s: %w", opts.schema, err)
	}

	a.logger.Debug("schema compiled",
		zap.String("schema", opts.schema),
		zap.Int("rules", len(prog.Schema)),
		zap.Int("expressions", compiler.Exprs().Len()))

	runOpts, err := a.engineOptions(sf, opts.onMissing)
	if err != nil {
		return err
	}

	var extra engine.Record
	if opts.extra != "" {
		if extra, err = readRecord(opts.extra, s.in); err != nil {
			return err
		}
	}

	doc, err := readDocument(opts.input, s.in)
	if err != nil {
		return err
	}

	records, isList, err := toRecords(doc)
	if err != nil {
		return err
	}

	workers := opts.workers
	if workers <= 0 {
		workers = a.cfg.Workers
	}

	results, err := batch.Run(ctx, records, workers, func(_ context.Context, rec engine.Record) (engine.Record, error) {
		return prog.Run(rec, extra, runOpts...)
	})
	if err != nil {
		return err
	}

	a.logger.Info("schema applied",
		zap.String("schema", opts.schema),
		zap.Int("records", len(results)),
		zap.Int("workers", workers))

	if opts.dump {
		spew.Fdump(s.errOut, results)
	}

	var out any = results
	if !isList {
		out = results[0]
	}

	format := opts.output
	if format == "" {
		format = a.cfg.Output.Format
	}

	return writeOutput(s.out, format, opts.pretty || a.cfg.Output.Pretty, out)
}

// engineOptions resolves the missing policy (flag, then schema file, then
// config) and attaches a step logger at debug level.
func (a *app) engineOptions(sf *mapping.SchemaFile, override string) ([]engine.Option, error) {
	var opts []engine.Option

	switch {
	case override != "":
		p, err := engine.ParseMissingPolicy(override)
		if err != nil {
			return nil, fmt.Errorf("--on-missing: %w", err)
		}

		opts = append(opts, engine.WithMissing(p))
	case sf.OnMissing == "":
		opts = append(opts, engine.WithMissing(a.cfg.MissingPolicy()))
	}

	if a.logger.Core().Enabled(zapcore.DebugLevel) {
		opts = append(opts, engine.WithObserver(func(step engine.Step) {
			a.logger.Debug("rule applied",
				zap.Int("index", step.Index),
				zap.String("to", step.To),
				zap.String("from", step.From),
				zap.Stringer("variant", step.Variant),
				zap.Bool("missing", step.Missing),
				zap.Bool("omitted", step.Omitted))
		}))
	}

	return opts, nil
}
