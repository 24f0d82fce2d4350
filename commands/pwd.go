package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/leizi-shell/leizi/core/executor"
)

// Pwd implements the UNIX pwd command.
func Pwd(s *Shell, stdio executor.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "pwd",
		Short: "Print the name of the current working directory.",
	}

	return cmd.Run(stdio, args, func() int {
		pwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "leizi: pwd: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdio.Stdout, pwd)
		return 0
	})
}

// Cd changes the shell's working directory, defaulting to $HOME.
func Cd(s *Shell, stdio executor.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "cd [DIR]",
		Short: "Change the shell working directory. DIR may be - for the previous directory.",
	}

	return cmd.Run(stdio, args, func() int {
		dir := s.Vars.Getenv(EnvHome)
		printDir := false

		switch rest := cmd.Flags().Args(); {
		case len(rest) > 1:
			fmt.Fprintln(stdio.Stderr, "leizi: cd: too many arguments")
			return 1
		case len(rest) == 1 && rest[0] == "-":
			dir = s.Vars.Getenv(EnvOldPWD)
			if dir == "" {
				fmt.Fprintln(stdio.Stderr, "leizi: cd: OLDPWD not set")
				return 1
			}
			printDir = true
		case len(rest) == 1:
			dir = rest[0]
		}

		if dir == "" {
			fmt.Fprintln(stdio.Stderr, "leizi: cd: HOME not set")
			return 1
		}

		if err := os.Chdir(dir); err != nil {
			var pathErr *os.PathError
			if errors.As(err, &pathErr) {
				err = pathErr.Err
			}
			fmt.Fprintf(stdio.Stderr, "leizi: cd: %s: %v\n", dir, err)
			return 1
		}

		wd, err := os.Getwd()
		if err != nil {
			wd = dir
		}
		s.setExported(EnvOldPWD, s.Vars.Getenv(EnvPWD))
		s.setExported(EnvPWD, wd)

		if printDir {
			fmt.Fprintln(stdio.Stdout, wd)
		}
		return 0
	})
}

var _ ShellBuiltinFunc = Pwd
var _ ShellBuiltinFunc = Cd

func init() {
	addBuiltin("pwd", executor.PipeSafe, Pwd)
	addBuiltin("cd", executor.InProcess, Cd)
}
