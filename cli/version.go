// ABOUTME: Version subcommand
// ABOUTME: Prints build version, commit, and date as JSON or YAML
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"
)

func addVersion(topLevel *cobra.Command, opts *rootOptions) {
	shortened := false

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the fomo version",
		Run: func(cmd *cobra.Command, _ []string) {
			output := opts.output
			if output != outputYAML {
				output = outputJSON
			}
			resp := goversion.FuncWithOutput(shortened, Version, Commit, Date, output)
			fmt.Fprint(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().BoolVarP(&shortened, "short", "s", false, "Print just the version number.")

	topLevel.AddCommand(cmd)
}
