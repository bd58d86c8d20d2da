package main

import (
	"fmt"

	"github.com/pthm/rigor"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the welcome banner with the version of rigor",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), rigor.Welcome())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
