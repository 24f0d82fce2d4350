package commands

import (
	"strconv"

	"github.com/leizi-shell/leizi/core/executor"
)

// Exit asks the shell to quit. A code that isn't a number exits with 255.
func Exit(s *Shell, stdio executor.IO, args []string) int {
	code := 0
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			n = 255
		}
		code = n
	}

	s.Quit = true
	return code
}

var _ ShellBuiltinFunc = Exit

func init() {
	addBuiltin("exit", executor.InProcess, Exit)
}
