package commands

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	getopt "github.com/pborman/getopt/v2"
	"golang.org/x/term"

	"github.com/leizi-shell/leizi/core/executor"
)

// ShellBuiltin is a command implemented by the shell.
type ShellBuiltin interface {
	Main(s *Shell, stdio executor.IO, args []string) int
}

// ShellBuiltinFunc adapts a function to a ShellBuiltin.
type ShellBuiltinFunc func(s *Shell, stdio executor.IO, args []string) int

// Main implements ShellBuiltin.
func (f ShellBuiltinFunc) Main(s *Shell, stdio executor.IO, args []string) int {
	return f(s, stdio, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// BuiltinEntry is a registered builtin.
type BuiltinEntry struct {
	Name    string
	Class   executor.Class
	Builtin ShellBuiltin
}

// AllBuiltins holds every registered shell builtin by name.
var AllBuiltins = make(map[string]BuiltinEntry)

// addBuiltin registers a builtin. Builtins that change shell state must be
// registered as executor.InProcess so they're rejected inside pipelines.
func addBuiltin(name string, class executor.Class, builtin ShellBuiltinFunc) {
	if _, ok := AllBuiltins[name]; ok {
		panic(fmt.Sprintf("builtin %q registered twice", name))
	}
	AllBuiltins[name] = BuiltinEntry{Name: name, Class: class, Builtin: builtin}
}

// Classify returns how the named command is run.
func Classify(name string) executor.Class {
	if entry, ok := AllBuiltins[name]; ok {
		return entry.Class
	}
	return executor.NotBuiltin
}

// ListBuiltins returns the registered builtins sorted by name.
func ListBuiltins() []BuiltinEntry {
	var out []BuiltinEntry
	for _, entry := range AllBuiltins {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool
	// NeverBail skips interacting with stdout/stderr on failure and
	// always runs the callback.
	NeverBail bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run parses args and, if flag parsing was successful, calls the callback.
func (s *SimpleCommand) Run(stdio executor.IO, args []string, callback func() int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	err := opts.Getopt(args, nil)
	if err != nil && !s.NeverBail {
		fmt.Fprintf(stdio.Stderr, "leizi: %s\n\n", err)

		s.PrintHelp(stdio.Stderr)
		return 2
	}

	if *s.ShowHelp {
		s.PrintHelp(stdio.Stdout)
		return 0
	}

	return callback()
}

const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

var (
	ColorBoldBlue  = color.New(color.FgBlue, color.Bold)
	ColorBoldGreen = color.New(color.FgGreen, color.Bold)
	ColorBoldCyan  = color.New(color.FgCyan, color.Bold)
	ColorBoldRed   = color.New(color.FgRed, color.Bold)
	ColorGreen     = color.New(color.FgGreen)
	ColorCyan      = color.New(color.FgCyan)
	ColorYellow    = color.New(color.FgYellow)
	ColorRed       = color.New(color.FgRed)
	ColorDim       = color.New(color.Faint)
)

// ColorPrinter colors output when it's going to a terminal, or when asked to
// with --color.
type ColorPrinter struct {
	value *string
	w     io.Writer
}

// Init sets up the flag and the writer used to determine the color output.
func (c *ColorPrinter) Init(flags *getopt.Set, w io.Writer) {
	c.w = w
	c.value = flags.EnumLong(
		"color",
		rune(0), // No short flag.
		[]string{colorAlways, colorAuto, colorNever},
		colorAuto,
		"colorize the output (always|auto|never)")
}

// NewAutoColorPrinter creates a printer that colors only terminal output.
func NewAutoColorPrinter(w io.Writer) *ColorPrinter {
	return &ColorPrinter{w: w}
}

func (c *ColorPrinter) ShouldColor() bool {
	value := colorAuto
	if c.value != nil {
		value = *c.value
	}

	switch value {
	case colorNever:
		return false
	case colorAlways:
		return true
	default:
		return isTerminal(c.w)
	}
}

func (c *ColorPrinter) Sprintf(color *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		return color.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
