package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leizi-shell/leizi/commands"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the shell version.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "Leizi Shell %s\n", commands.Version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
