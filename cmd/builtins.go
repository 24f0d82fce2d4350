package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leizi-shell/leizi/commands"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands and how they run.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, entry := range commands.ListBuiltins() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", entry.Name, entry.Class)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
