package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/leizi-shell/leizi/core/executor"
	"github.com/leizi-shell/leizi/core/jobs"
)

const killUsage = "usage: kill [-s sigspec | -signum | -sigspec] pid | jobspec ... or kill -l"

// parseSignal accepts a signal number or a name with or without the SIG
// prefix.
func parseSignal(spec string) (syscall.Signal, error) {
	if n, err := strconv.Atoi(spec); err == nil && n > 0 {
		return syscall.Signal(n), nil
	}

	name := strings.ToUpper(spec)
	if !strings.HasPrefix(name, "SIG") {
		name = "SIG" + name
	}
	if sig := unix.SignalNum(name); sig != 0 {
		return sig, nil
	}
	return 0, fmt.Errorf("%s: invalid signal specification", spec)
}

// Kill sends a signal to processes or to every process of a job.
//
// Options are parsed by hand because signals are given as -9 or -TERM.
func Kill(s *Shell, stdio executor.IO, args []string) int {
	sig := syscall.SIGTERM
	targets := args[1:]

	if len(targets) > 0 {
		switch opt := targets[0]; {
		case opt == "-l":
			for i := 1; i < 32; i++ {
				name := strings.TrimPrefix(unix.SignalName(syscall.Signal(i)), "SIG")
				if name != "" {
					fmt.Fprintf(stdio.Stdout, "%2d) %s\n", i, name)
				}
			}
			return 0
		case opt == "-s" && len(targets) > 1:
			parsed, err := parseSignal(targets[1])
			if err != nil {
				fmt.Fprintf(stdio.Stderr, "leizi: kill: %v\n", err)
				return 1
			}
			sig, targets = parsed, targets[2:]
		case strings.HasPrefix(opt, "-") && len(opt) > 1:
			parsed, err := parseSignal(opt[1:])
			if err != nil {
				fmt.Fprintf(stdio.Stderr, "leizi: kill: %v\n", err)
				return 1
			}
			sig, targets = parsed, targets[1:]
		}
	}

	if len(targets) == 0 {
		fmt.Fprintln(stdio.Stderr, killUsage)
		return 2
	}

	status := 0
	for _, target := range targets {
		if err := s.signalTarget(target, sig); err != nil {
			fmt.Fprintf(stdio.Stderr, "leizi: kill: %s: %v\n", target, err)
			status = 1
		}
	}
	return status
}

// signalTarget signals a pid or, for %N, every process in job N.
func (s *Shell) signalTarget(target string, sig syscall.Signal) error {
	procs := s.Executor.Procs

	if !strings.HasPrefix(target, "%") {
		pid, err := strconv.Atoi(target)
		if err != nil {
			return errors.New("arguments must be process or job IDs")
		}
		return procs.Signal(pid, sig)
	}

	id, err := jobs.ParseJobSpec(target)
	if err != nil {
		return err
	}
	job, ok := s.Jobs.Get(id)
	if !ok {
		return fmt.Errorf("job %d %w", id, jobs.ErrNotFound)
	}

	signalled := false
	for _, pid := range job.PIDs {
		// Stages that already exited have nothing to receive the signal.
		if err := procs.Signal(pid, sig); err == nil {
			signalled = true
		}
	}
	if !signalled {
		return jobs.ErrTerminated
	}
	return nil
}

var _ ShellBuiltinFunc = Kill

func init() {
	addBuiltin("kill", executor.PipeSafe, Kill)
}
