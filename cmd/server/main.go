package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRoot().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "ratings-dashboard",
		Short:         "MovieLens ratings pipeline and dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addCommands(root)
	return root
}

func addCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the dataset, build the pipeline and serve the dashboard",
		Args:  cobra.NoArgs,
		RunE:  runServe}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "export view",
		Short: "Write the tidy table behind a view to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport}
	cmd.Flags().StringP("format", "f", "csv", "output format: csv or json")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "views",
		Short: "List the available views",
		Args:  cobra.NoArgs,
		RunE:  runViews}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "import",
		Short: "Load the dataset files and copy them into postgres",
		Args:  cobra.NoArgs,
		RunE:  runImport}
	root.AddCommand(cmd)
}
