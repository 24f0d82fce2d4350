package commands

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/leizi-shell/leizi/core/executor"
)

var (
	unescapeOctal   = regexp.MustCompile(`\\0[0-8][0-8]?[0-8]?`)
	unescapeHex     = regexp.MustCompile(`\\x[0-9a-fA-F][0-9a-fA-F]?`)
	unescapeReplace = strings.NewReplacer(
		`\n`, "\n", // newline
		`\r`, "\r", // carriage return
		`\t`, "\t", // horizontal tab
		`\\`, `\`, // backslash literal
		`\b`, "\b", // backspace
		`\a`, "\a", // alert
		`\f`, "\f", // form feed
		`\v`, "\v", // vertical tab
		`\e`, "\033", // escape
	)
)

func unescape(s string) string {
	s = unescapeReplace.Replace(s)
	s = unescapeOctal.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseInt(arg[2:], 8, 8)
		if err != nil {
			return arg
		}
		return string(rune(out))
	})
	s = unescapeHex.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseInt(arg[2:], 16, 8)
		if err != nil {
			return arg
		}
		return string(rune(out))
	})
	return s
}

// isEchoFlag reports whether arg is a cluster of echo options like -n or -ne.
// Anything else, including a lone "-", is printed.
func isEchoFlag(arg string) bool {
	return len(arg) > 1 && arg[0] == '-' && strings.Trim(arg[1:], "neE") == ""
}

// Echo implements a limited echo command.
//
// Options are parsed by hand rather than with SimpleCommand because echo
// prints unknown options as text.
func Echo(s *Shell, stdio executor.IO, args []string) int {
	newline, escaped := true, false

	words := args[1:]
	for len(words) > 0 && isEchoFlag(words[0]) {
		for _, opt := range words[0][1:] {
			switch opt {
			case 'n':
				newline = false
			case 'e':
				escaped = true
			case 'E':
				escaped = false
			}
		}
		words = words[1:]
	}

	w := stdio.Stdout
	for i, arg := range words {
		if i > 0 {
			fmt.Fprint(w, " ")
		}

		if escaped {
			arg = unescape(arg)
		}

		fmt.Fprint(w, arg)
	}

	if newline {
		fmt.Fprintln(w)
	}

	return 0
}

var _ ShellBuiltinFunc = Echo

func init() {
	addBuiltin("echo", executor.PipeSafe, Echo)
}
