package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/opsrun/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of opsrun",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, version.String())
		fmt.Fprintln(out, "OpenSees Analysis Runner")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
