package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ozwald build version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		v := rootCmd.Version
		if v == "" {
			v = "dev"
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
