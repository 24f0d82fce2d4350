package shell

import (
	"fmt"
	"os"
)

// RedirectKind is the type of redirection applied to a stage.
type RedirectKind int

const (
	RedirectNone        RedirectKind = iota
	RedirectOutput                   // >
	RedirectAppend                   // >>
	RedirectInput                    // <
	RedirectError                    // 2>
	RedirectErrorAppend              // 2>>
	RedirectBoth                     // &>
)

var redirectOperators = map[string]RedirectKind{
	OpOutput:      RedirectOutput,
	OpAppend:      RedirectAppend,
	OpInput:       RedirectInput,
	OpError:       RedirectError,
	OpErrorAppend: RedirectErrorAppend,
	OpBoth:        RedirectBoth,
}

func (k RedirectKind) String() string {
	for op, kind := range redirectOperators {
		if kind == k {
			return op
		}
	}
	return ""
}

// Redirection describes where one of a stage's standard streams goes.
type Redirection struct {
	Kind   RedirectKind
	Target string
}

// Stdin reports whether the redirection replaces standard input.
func (r Redirection) Stdin() bool {
	return r.Kind == RedirectInput
}

// Stdout reports whether the redirection replaces standard output.
func (r Redirection) Stdout() bool {
	switch r.Kind {
	case RedirectOutput, RedirectAppend, RedirectBoth:
		return true
	}
	return false
}

// Stderr reports whether the redirection replaces standard error.
func (r Redirection) Stderr() bool {
	switch r.Kind {
	case RedirectError, RedirectErrorAppend, RedirectBoth:
		return true
	}
	return false
}

// OpenFlags returns the flags used to open the target file.
func (r Redirection) OpenFlags() int {
	switch r.Kind {
	case RedirectInput:
		return os.O_RDONLY
	case RedirectAppend, RedirectErrorAppend:
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND
	default:
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
}

// Open opens the target file (already expanded) with the right mode.
func (r Redirection) Open(target string) (*os.File, error) {
	if r.Kind == RedirectNone {
		return nil, fmt.Errorf("no redirection to open")
	}
	return os.OpenFile(target, r.OpenFlags(), 0644)
}

// ResolveRedirection finds the first redirection operator in the stage that
// is followed by another token, removes both tokens from the stage and
// returns the redirection. Later operators are left in place as ordinary
// arguments. An operator at the end of the stage is not a redirection.
func ResolveRedirection(stage *[]string) Redirection {
	args := *stage
	for i := 0; i+1 < len(args); i++ {
		kind, ok := redirectOperators[args[i]]
		if !ok {
			continue
		}

		out := Redirection{Kind: kind, Target: args[i+1]}
		*stage = append(args[:i:i], args[i+2:]...)
		return out
	}

	return Redirection{Kind: RedirectNone}
}
