package commands

import (
	"fmt"

	"github.com/leizi-shell/leizi/core/executor"
)

type helpEntry struct {
	usage       string
	description string
}

var helpEntries = []helpEntry{
	{"cd [dir]", "Change directory"},
	{"pwd", "Print working directory"},
	{"echo [-n] [-e] text", "Print text"},
	{"export var=value", "Export environment variable"},
	{"unset var", "Unset variable"},
	{"array name=(v1 v2)", "Create/display ZSH-style array"},
	{"history [n]", "Show command history"},
	{"jobs [-l|-p]", "List background jobs"},
	{"fg [job]", "Bring job to foreground"},
	{"bg [job]", "Resume job in background"},
	{"kill [-sig] pid|%job", "Send a signal to a process or job"},
	{"env", "Print the environment"},
	{"type name", "Show how a name would be run"},
	{"clear", "Clear screen"},
	{"help", "Show this help"},
	{"version", "Show version info"},
	{"exit [code]", "Exit shell"},
}

var helpFeatures = []string{
	"Pipelines with I/O redirection (<, >, >>, 2>, 2>>, &>)",
	"Background jobs (&) and job control (jobs, fg, bg, Ctrl+Z)",
	"ZSH-style array support",
	"Variable expansion ($var, ${var})",
	"Command history with persistent storage",
	"Aliases from the configuration file",
}

var helpVariables = []helpEntry{
	{"$var or ${var}", "Variable expansion"},
	{"$?", "Last exit code"},
	{"$$", "Process ID"},
	{"$PWD", "Current directory"},
	{"$HOME", "Home directory"},
}

// Help prints a summary of the shell's builtins and features.
func Help(s *Shell, stdio executor.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "help",
		Short: "Display information about builtin commands.",
	}
	var out ColorPrinter
	out.Init(cmd.Flags(), stdio.Stdout)

	return cmd.Run(stdio, args, func() int {
		w := stdio.Stdout
		fmt.Fprintf(w, "%s - A modern POSIX-compatible shell\n\n", out.Sprintf(ColorBoldCyan, "Leizi Shell %s", Version))

		fmt.Fprintln(w, out.Sprintf(ColorBoldCyan, "Built-in Commands:"))
		for _, entry := range helpEntries {
			fmt.Fprintf(w, "  %s %s\n", out.Sprintf(ColorGreen, "%-20s", entry.usage), entry.description)
		}
		fmt.Fprintln(w)

		fmt.Fprintln(w, out.Sprintf(ColorBoldCyan, "Features:"))
		for _, feature := range helpFeatures {
			fmt.Fprintf(w, "  * %s\n", feature)
		}
		fmt.Fprintln(w)

		fmt.Fprintln(w, out.Sprintf(ColorBoldCyan, "Variable Expansion:"))
		for _, entry := range helpVariables {
			fmt.Fprintf(w, "  %-20s %s\n", entry.usage, entry.description)
		}
		return 0
	})
}

// VersionInfo prints the shell version.
func VersionInfo(s *Shell, stdio executor.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "version",
		Short: "Display version information.",
	}
	var out ColorPrinter
	out.Init(cmd.Flags(), stdio.Stdout)

	return cmd.Run(stdio, args, func() int {
		w := stdio.Stdout
		fmt.Fprintln(w, out.Sprintf(ColorBoldCyan, "Leizi Shell %s", Version))
		fmt.Fprintln(w, "Features: POSIX pipelines, job control, ZSH arrays")
		fmt.Fprintf(w, "Readline support: %s\n", out.Sprintf(ColorGreen, "enabled"))
		fmt.Fprintln(w, "Repository: https://github.com/Leizi-the-Thunderbringer/leizi-shell")
		return 0
	})
}

var _ ShellBuiltinFunc = Help
var _ ShellBuiltinFunc = VersionInfo

func init() {
	addBuiltin("help", executor.PipeSafe, Help)
	addBuiltin("version", executor.PipeSafe, VersionInfo)
}
