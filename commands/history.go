package commands

import (
	"fmt"
	"strconv"

	"github.com/leizi-shell/leizi/core/executor"
)

const defaultHistoryCount = 20

// History lists the most recent lines entered into the shell.
func History(s *Shell, stdio executor.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "history [-c] [N]",
		Short: "Display the last N lines of history, 20 by default.",
	}
	clearHistory := cmd.Flags().Bool('c', "clear the history list")

	return cmd.Run(stdio, args, func() int {
		if *clearHistory {
			s.history = nil
			return 0
		}

		count := defaultHistoryCount
		if rest := cmd.Flags().Args(); len(rest) > 0 {
			if n, err := strconv.Atoi(rest[0]); err == nil && n >= 0 {
				count = n
			}
		}

		start := 0
		if len(s.history) > count {
			start = len(s.history) - count
		}

		out := NewAutoColorPrinter(stdio.Stdout)
		for i := start; i < len(s.history); i++ {
			fmt.Fprintf(stdio.Stdout, "%s %s\n", out.Sprintf(ColorDim, "%4d", i+1), s.history[i])
		}
		return 0
	})
}

var _ ShellBuiltinFunc = History

func init() {
	addBuiltin("history", executor.PipeSafe, History)
}
