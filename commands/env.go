package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/leizi-shell/leizi/core/executor"
)

// Env prints the environment passed to child processes.
func Env(s *Shell, stdio executor.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "env",
		Short: "Print the environment for command invocation.",
	}

	return cmd.Run(stdio, args, func() int {
		env := os.Environ()
		sort.Strings(env)
		for _, envDef := range env {
			fmt.Fprintln(stdio.Stdout, envDef)
		}

		return 0
	})
}

var _ ShellBuiltinFunc = Env

func init() {
	addBuiltin("env", executor.PipeSafe, Env)
}
