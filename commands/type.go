package commands

import (
	"fmt"

	"github.com/leizi-shell/leizi/core/executor"
)

// Type describes how each name would be run.
func Type(s *Shell, stdio executor.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "type NAME ...",
		Short: "Display information about command type.",
	}

	return cmd.Run(stdio, args, func() int {
		status := 0
		for _, name := range cmd.Flags().Args() {
			if alias, ok := s.Config.Aliases[name]; ok {
				fmt.Fprintf(stdio.Stdout, "%s is aliased to %s\n", name, shellQuote(alias))
				continue
			}

			if class := Classify(name); class != executor.NotBuiltin {
				fmt.Fprintf(stdio.Stdout, "%s is a shell builtin (%s)\n", name, class)
				continue
			}

			path, err := s.Executor.Procs.LookPath(name)
			if err != nil {
				fmt.Fprintf(stdio.Stderr, "leizi: type: %s: not found\n", name)
				status = 1
				continue
			}
			fmt.Fprintf(stdio.Stdout, "%s is %s\n", name, path)
		}
		return status
	})
}

var _ ShellBuiltinFunc = Type

func init() {
	addBuiltin("type", executor.PipeSafe, Type)
}
