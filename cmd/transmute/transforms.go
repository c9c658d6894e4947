package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"transmute/internal/mapping"
)

func newTransformsCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "transforms",
		Short: "List the builtin named transforms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listTransforms(cmd.OutOrStdout(), mapping.DefaultRegistry())
		},
	}
}

func listTransforms(w io.Writer, reg *mapping.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, t := range reg.All() {
		fmt.Fprintf(tw, "%s\t%s\n", t.Name, t.Description)
	}

	return tw.Flush()
}
