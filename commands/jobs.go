package commands

import (
	"fmt"

	"github.com/leizi-shell/leizi/core/executor"
	"github.com/leizi-shell/leizi/core/jobs"
)

// Jobs lists the jobs in the job table.
func Jobs(s *Shell, stdio executor.IO, args []string) int {
	cmd := &SimpleCommand{
		Use:   "jobs [-l|-p]",
		Short: "Display the status of jobs.",
	}
	long := cmd.Flags().Bool('l', "list process IDs in addition to the normal information")
	pidsOnly := cmd.Flags().Bool('p', "list process IDs only")

	return cmd.Run(stdio, args, func() int {
		s.Jobs.Refresh()

		list := s.Jobs.List()
		if len(list) == 0 {
			if !*pidsOnly {
				fmt.Fprintln(stdio.Stdout, "No jobs running")
			}
			return 0
		}

		for _, job := range list {
			marker := "-"
			if job.Background {
				marker = "+"
			}

			switch {
			case *pidsOnly:
				fmt.Fprintln(stdio.Stdout, job.PID)
			case *long:
				fmt.Fprintf(stdio.Stdout, "[%d]%s  %d %s\t\t%s\n", job.ID, marker, job.PID, job.Status, job.Command)
			default:
				fmt.Fprintf(stdio.Stdout, "[%d]%s  %s\t\t%s\n", job.ID, marker, job.Status, job.Command)
			}
		}
		return 0
	})
}

// jobID resolves the optional job spec argument, falling back to the given
// default when none is given.
func jobID(args []string, fallback func() (int, error)) (int, error) {
	if len(args) > 1 {
		return jobs.ParseJobSpec(args[1])
	}
	return fallback()
}

// Fg resumes a job in the foreground and waits for it.
func Fg(s *Shell, stdio executor.IO, args []string) int {
	id, err := jobID(args, s.Jobs.Current)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "leizi: fg: %v\n", err)
		return 1
	}

	status, err := s.Jobs.Foreground(id)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "leizi: fg: %v\n", err)
	}
	return status
}

// Bg resumes a stopped job in the background.
func Bg(s *Shell, stdio executor.IO, args []string) int {
	id, err := jobID(args, s.Jobs.CurrentStopped)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "leizi: bg: %v\n", err)
		return 1
	}

	if err := s.Jobs.Background(id); err != nil {
		fmt.Fprintf(stdio.Stderr, "leizi: bg: %v\n", err)
		return 1
	}
	return 0
}

var _ ShellBuiltinFunc = Jobs
var _ ShellBuiltinFunc = Fg
var _ ShellBuiltinFunc = Bg

func init() {
	addBuiltin("jobs", executor.PipeSafe, Jobs)
	addBuiltin("fg", executor.InProcess, Fg)
	addBuiltin("bg", executor.InProcess, Bg)
}
