package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/rail"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of rail",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "rail version %s\n", strings.TrimSpace(rail.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
