// Package proc creates, waits for and signals child processes.
package proc

import (
	"fmt"
	"os"
	"syscall"
)

// Attr holds the attributes of a process about to be started.
type Attr struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// NewProcessGroup puts the process in its own process group so signals
	// generated by the terminal for the shell's group don't reach it.
	NewProcessGroup bool
}

// State is the result of a wait on a child.
type State struct {
	Exited   bool
	Signaled bool
	Stopped  bool

	Code   int
	Signal syscall.Signal
}

// Exit creates a State for a normal exit.
func Exit(code int) State {
	return State{Exited: true, Code: code}
}

// Killed creates a State for termination by a signal.
func Killed(sig syscall.Signal) State {
	return State{Signaled: true, Signal: sig}
}

// Stop creates a State for a process stopped by a signal.
func Stop(sig syscall.Signal) State {
	return State{Stopped: true, Signal: sig}
}

// Done reports whether the process is gone.
func (s State) Done() bool {
	return s.Exited || s.Signaled
}

// Status converts the state to a shell exit status: the exit code, or 128 plus
// the number of the signal that terminated or stopped the process.
func (s State) Status() int {
	if s.Exited {
		return s.Code
	}
	return 128 + int(s.Signal)
}

func (s State) String() string {
	switch {
	case s.Exited:
		return fmt.Sprintf("exited %d", s.Code)
	case s.Signaled:
		return fmt.Sprintf("killed by %v", s.Signal)
	case s.Stopped:
		return fmt.Sprintf("stopped by %v", s.Signal)
	default:
		return "running"
	}
}

// Controller creates and manages child processes.
type Controller interface {
	// LookPath resolves a command name to an executable path.
	LookPath(file string) (string, error)
	// Start creates a process running path with the given argv and returns
	// its pid.
	Start(path string, argv []string, attr *Attr) (int, error)
	// Wait blocks until the process exits, is killed or, if untraced is set,
	// stops.
	Wait(pid int, untraced bool) (State, error)
	// Poll checks the process without blocking. The boolean is false if
	// nothing changed since the last wait.
	Poll(pid int) (State, bool, error)
	// Signal sends sig to the process.
	Signal(pid int, sig syscall.Signal) error
}
