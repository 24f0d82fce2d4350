package commands

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/leizi-shell/leizi/core/executor"
)

var validName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// shellQuote quotes a value so it can be pasted back into a shell.
func shellQuote(value string) string {
	quoted, err := syntax.Quote(value, syntax.LangBash)
	if err != nil {
		return fmt.Sprintf("%q", value)
	}
	return quoted
}

func printExports(w io.Writer) {
	env := os.Environ()
	sort.Strings(env)
	for _, envDef := range env {
		name, value, _ := strings.Cut(envDef, "=")
		fmt.Fprintf(w, "export %s=%s\n", name, shellQuote(value))
	}
}

// Export sets variables and publishes them to the environment of child
// processes.
func Export(s *Shell, stdio executor.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "export [-p] [NAME[=VALUE] ...]",
		Short: "Set the export attribute for shell variables.",
	}
	list := cmd.Flags().Bool('p', "list all exported variables")

	return cmd.Run(stdio, args, func() int {
		rest := cmd.Flags().Args()
		if *list || len(rest) == 0 {
			printExports(stdio.Stdout)
			return 0
		}

		status := 0
		for _, assignment := range rest {
			name, value, hasValue := strings.Cut(assignment, "=")
			if !validName.MatchString(name) {
				fmt.Fprintf(stdio.Stderr, "leizi: export: `%s': not a valid identifier\n", assignment)
				status = 1
				continue
			}

			if hasValue {
				s.Vars.Set(name, value)
			}
			if err := s.Vars.Export(name); err != nil {
				fmt.Fprintf(stdio.Stderr, "leizi: %v\n", err)
				status = 1
			}
		}
		return status
	})
}

// Unset removes shell variables and their environment entries.
func Unset(s *Shell, stdio executor.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "unset NAME ...",
		Short: "Unset values and attributes of shell variables.",
	}

	return cmd.Run(stdio, args, func() int {
		status := 0
		for _, name := range cmd.Flags().Args() {
			if err := s.Vars.Unset(name); err != nil {
				fmt.Fprintf(stdio.Stderr, "leizi: unset: %s: %v\n", name, err)
				status = 1
			}
		}
		return status
	})
}

var _ ShellBuiltinFunc = Export
var _ ShellBuiltinFunc = Unset

func init() {
	addBuiltin("export", executor.InProcess, Export)
	addBuiltin("unset", executor.InProcess, Unset)
}
