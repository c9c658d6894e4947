package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"transmute/internal/mapping"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check SCHEMA...",
		Short: "Validate schema files",
		Long: `Check loads each schema file and reports every problem it finds. For
transforms the schema documents but no builtin provides, a Go stub is printed.
The command fails when any file has errors; warnings alone do not fail it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd.OutOrStdout(), args)
		},
	}
}

func (a *app) runCheck(w io.Writer, paths []string) error {
	compiler := mapping.NewCompiler(nil)
	reg := compiler.Registry()
	failed := 0

	for _, path := range paths {
		sf, err := mapping.LoadFile(path)
		if err != nil {
			fmt.Fprintf(w, "%s: error: %v\n", path, err)

			failed++

			continue
		}

		diags := compiler.Validate(sf)
		for _, d := range diags.All() {
			fmt.Fprintf(w, "%s: %s: %s\n", path, d.Severity, d)
		}

		for i := range sf.Transforms {
			def := &sf.Transforms[i]
			if def.Name != "" && !reg.Has(def.Name) {
				fmt.Fprintf(w, "\n%s\n\n", mapping.GenerateStub(def))
			}
		}

		a.logger.Debug("schema checked",
			zap.String("schema", path),
			zap.Int("errors", len(diags.Errors)),
			zap.Int("warnings", len(diags.Warnings)))

		if diags.HasErrors() {
			failed++

			continue
		}

		fmt.Fprintf(w, "%s: ok\n", path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d schema files invalid", failed, len(paths))
	}

	return nil
}
