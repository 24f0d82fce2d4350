package commands

import (
	"fmt"

	"github.com/leizi-shell/leizi/core/executor"
)

// Clear implements the UNIX clear command.
func Clear(s *Shell, stdio executor.IO, args []string) int {
	// Assumes VT100 compatibility.
	fmt.Fprint(stdio.Stdout, "\033[2J\033[H")
	return 0
}

var _ ShellBuiltinFunc = Clear

func init() {
	addBuiltin("clear", executor.PipeSafe, Clear)
}
