package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"transmute/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var opts applyOptions

	cmd := &cobra.Command{
		Use:   "watch --schema FILE INPUT",
		Short: "Re-apply a schema whenever the schema or input changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.input = args[0]
			return a.runWatch(cmd.Context(), cmdStreams(cmd), opts)
		},
	}

	addApplyFlags(cmd, &opts)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output format: json or yaml (default from config)")

	return cmd
}

func (a *app) runWatch(ctx context.Context, s streams, opts applyOptions) error {
	if opts.input == "-" {
		return errors.New("watch needs an input file, not stdin")
	}

	files := []string{opts.schema, opts.input}
	if opts.extra != "" {
		files = append(files, opts.extra)
	}

	w, err := watch.New(files, watch.Options{Debounce: a.cfg.Watch.Debounce, Logger: a.logger})
	if err != nil {
		return err
	}

	apply := func() error {
		return a.runApply(ctx, s, opts)
	}

	if err := apply(); err != nil {
		a.logger.Error("apply failed", zap.Error(err))
	}

	a.logger.Info("watching for changes", zap.Strings("files", files))

	return w.Run(ctx, func(path string) error {
		a.logger.Info("file changed, re-applying", zap.String("file", path))
		return apply()
	})
}
