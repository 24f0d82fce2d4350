package commands

import (
	"fmt"
	"strings"

	"github.com/anmitsu/go-shlex"

	"github.com/leizi-shell/leizi/core/executor"
)

const arrayUsage = "Usage: array name=(val1 val2 ...) or array name"

// Array creates or displays a ZSH-style array variable.
//
// The line has already been split into words, so the words after the command
// are joined back together before the element list is parsed.
func Array(s *Shell, stdio executor.IO, args []string) int {
	w := stdio.Stdout
	out := NewAutoColorPrinter(w)

	if len(args) < 2 {
		fmt.Fprintln(w, arrayUsage)
		return 1
	}

	definition := strings.Join(args[1:], " ")
	name, values, isAssignment := strings.Cut(definition, "=")

	if !isAssignment {
		v, ok := s.Vars.Get(name)
		if !ok || !v.IsArray {
			fmt.Fprintf(w, "Array %s not found\n", out.Sprintf(ColorRed, "%s", name))
			return 1
		}

		var quoted []string
		for _, element := range v.Array {
			quoted = append(quoted, `"`+out.Sprintf(ColorGreen, "%s", element)+`"`)
		}
		fmt.Fprintf(w, "%s=(%s)\n", out.Sprintf(ColorCyan, "%s", name), strings.Join(quoted, " "))
		return 0
	}

	if !validName.MatchString(name) || len(values) < 2 || !strings.HasPrefix(values, "(") || !strings.HasSuffix(values, ")") {
		fmt.Fprintln(w, "Error: Array syntax should be name=(val1 val2 ...)")
		return 1
	}

	elements, err := shlex.Split(values[1:len(values)-1], true)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "leizi: array: %v\n", err)
		return 1
	}

	s.Vars.SetArray(name, elements)
	fmt.Fprintf(w, "Array %s created with %s elements\n",
		out.Sprintf(ColorCyan, "%s", name),
		out.Sprintf(ColorYellow, "%d", len(elements)))
	return 0
}

var _ ShellBuiltinFunc = Array

func init() {
	addBuiltin("array", executor.InProcess, Array)
}
