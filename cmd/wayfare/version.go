package main

import (
	"fmt"

	"github.com/aretw0/wayfare"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of wayfare",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wayfare version %s\n", wayfare.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
