package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Clark-Hu/ratings-dashboard/internal/pipeline"
)

func runViews(cmd *cobra.Command, _ []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL")
	for _, v := range pipeline.Views() {
		fmt.Fprintf(tw, "%s\t%s\n", v.ID, v.Label)
	}
	return tw.Flush()
}
