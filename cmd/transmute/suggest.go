package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"transmute/internal/mapping"
)

type suggestOptions struct {
	source  string
	targets []string
	write   string
}

func newSuggestCmd(a *app) *cobra.Command {
	var opts suggestOptions

	cmd := &cobra.Command{
		Use:   "suggest --source FILE --target KEY[,KEY...]",
		Short: "Propose a schema mapping a sample record onto target keys",
		Long: `Suggest matches every target key against the keys of a sample source
record (nested keys as dotted paths) and prints a schema with a rule for each
confident match. Targets without a confident match are reported on stderr
together with the closest candidates.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSuggest(cmdStreams(cmd), opts)
		},
	}

	cmd.Flags().StringVar(&opts.source, "source", "", "Sample source record, JSON or YAML (required, - for stdin)")
	cmd.Flags().StringSliceVarP(&opts.targets, "target", "t", nil, "Target keys (required)")
	cmd.Flags().StringVarP(&opts.write, "write", "w", "", "Write the schema to this file instead of stdout")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func (a *app) runSuggest(s streams, opts suggestOptions) error {
	doc, err := readDocument(opts.source, s.in)
	if err != nil {
		return err
	}

	records, _, err := toRecords(doc)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return errors.New("source holds no records")
	}

	sf, diags := mapping.Suggest(mapping.SampleKeys(records[0]), opts.targets, mapping.DefaultSuggestConfig())

	for _, d := range diags.All() {
		fmt.Fprintf(s.errOut, "%s: %s\n", d.Severity, d)
	}

	a.logger.Info("schema suggested",
		zap.Int("rules", len(sf.Rules)),
		zap.Int("unmatched", len(diags.Warnings)))

	if opts.write != "" {
		return mapping.WriteFile(sf, opts.write)
	}

	data, err := mapping.Marshal(sf)
	if err != nil {
		return err
	}

	_, err = s.out.Write(data)

	return err
}
