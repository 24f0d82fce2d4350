package proc

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// OS is the Controller backed by the real operating system.
type OS struct{}

var _ Controller = OS{}

// LookPath implements Controller.LookPath. Like other shells, executables
// found through a relative PATH entry are allowed.
func (OS) LookPath(file string) (string, error) {
	path, err := exec.LookPath(file)
	if errors.Is(err, exec.ErrDot) {
		err = nil
	}
	return path, err
}

// Start implements Controller.Start.
func (OS) Start(path string, argv []string, attr *Attr) (int, error) {
	if attr == nil {
		attr = &Attr{}
	}

	p, err := os.StartProcess(path, argv, &os.ProcAttr{
		Files: []*os.File{
			orDefault(attr.Stdin, os.Stdin),
			orDefault(attr.Stdout, os.Stdout),
			orDefault(attr.Stderr, os.Stderr),
		},
		Sys: &syscall.SysProcAttr{
			Setpgid: attr.NewProcessGroup,
		},
	})
	if err != nil {
		return 0, err
	}

	pid := p.Pid
	// Children are reaped with wait4 directly, the handle isn't needed.
	if err := p.Release(); err != nil {
		return pid, fmt.Errorf("release %d: %w", pid, err)
	}
	return pid, nil
}

// Wait implements Controller.Wait.
func (OS) Wait(pid int, untraced bool) (State, error) {
	options := 0
	if untraced {
		options |= unix.WUNTRACED
	}

	for {
		var ws unix.WaitStatus
		_, err := unix.Wait4(pid, &ws, options, nil)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case err != nil:
			return State{}, fmt.Errorf("wait %d: %w", pid, err)
		}

		if state, ok := decode(ws); ok {
			return state, nil
		}
	}
}

// Poll implements Controller.Poll.
func (OS) Poll(pid int) (State, bool, error) {
	var ws unix.WaitStatus
	wpid, err := unix.Wait4(pid, &ws, unix.WNOHANG|unix.WUNTRACED, nil)
	switch {
	case err != nil:
		return State{}, false, fmt.Errorf("wait %d: %w", pid, err)
	case wpid == 0:
		return State{}, false, nil
	}

	state, ok := decode(ws)
	return state, ok, nil
}

// Signal implements Controller.Signal.
func (OS) Signal(pid int, sig syscall.Signal) error {
	return unix.Kill(pid, sig)
}

func decode(ws unix.WaitStatus) (State, bool) {
	switch {
	case ws.Exited():
		return Exit(ws.ExitStatus()), true
	case ws.Signaled():
		return Killed(ws.Signal()), true
	case ws.Stopped():
		return Stop(ws.StopSignal()), true
	default:
		// Continued, or a ptrace event.
		return State{}, false
	}
}

func orDefault(f, fallback *os.File) *os.File {
	if f != nil {
		return f
	}
	return fallback
}
