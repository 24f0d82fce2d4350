// Package proctest provides a scripted process controller for tests.
package proctest

import (
	"fmt"
	"os/exec"
	"sync"
	"syscall"

	"github.com/leizi-shell/leizi/core/proc"
)

// Running is a script step where the process hasn't changed state yet. Poll
// consumes it and reports no change, Wait skips over it.
var Running = proc.State{}

// Program describes how a fake command behaves.
type Program struct {
	// Output is written to the process's stdout when it starts.
	Output string
	// States is returned one at a time by Wait and Poll. After the script
	// runs out the process exits with status 0.
	States []proc.State
	// StartErr, if set, is returned when the program is started.
	StartErr error
}

// Process is a started fake process.
type Process struct {
	Pid             int
	Argv            []string
	NewProcessGroup bool

	states []proc.State
	reaped bool
}

// SentSignal records a call to Signal.
type SentSignal struct {
	Pid    int
	Signal syscall.Signal
}

// Controller implements proc.Controller without creating processes.
type Controller struct {
	mu sync.Mutex

	// Programs maps command names to their behavior, commands that aren't
	// listed aren't found by LookPath.
	Programs map[string]Program
	// StartErr, if set, is returned by Start.
	StartErr error

	nextPid   int
	processes map[int]*Process
	started   []*Process
	signals   []SentSignal
}

var _ proc.Controller = (*Controller)(nil)

// New creates a controller that knows the given programs.
func New(programs map[string]Program) *Controller {
	return &Controller{
		Programs:  programs,
		nextPid:   1000,
		processes: make(map[int]*Process),
	}
}

// LookPath implements proc.Controller.LookPath.
func (c *Controller) LookPath(file string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.Programs[file]; !ok {
		return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
	}
	return "/fake/bin/" + file, nil
}

// Start implements proc.Controller.Start.
func (c *Controller) Start(path string, argv []string, attr *proc.Attr) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.StartErr != nil {
		return 0, c.StartErr
	}

	program, ok := c.Programs[argv[0]]
	if !ok {
		return 0, fmt.Errorf("fork/exec %s: no such file or directory", path)
	}
	if program.StartErr != nil {
		return 0, program.StartErr
	}

	c.nextPid++
	p := &Process{
		Pid:    c.nextPid,
		Argv:   append([]string(nil), argv...),
		states: append([]proc.State(nil), program.States...),
	}
	if attr != nil {
		p.NewProcessGroup = attr.NewProcessGroup
		if attr.Stdout != nil && program.Output != "" {
			if _, err := attr.Stdout.WriteString(program.Output); err != nil {
				return 0, err
			}
		}
	}

	c.processes[p.Pid] = p
	c.started = append(c.started, p)
	return p.Pid, nil
}

func (c *Controller) lookup(pid int) (*Process, error) {
	p, ok := c.processes[pid]
	if !ok || p.reaped {
		return nil, fmt.Errorf("wait %d: %w", pid, syscall.ECHILD)
	}
	return p, nil
}

func (p *Process) next() proc.State {
	if len(p.states) == 0 {
		return proc.Exit(0)
	}
	out := p.states[0]
	p.states = p.states[1:]
	return out
}

// Wait implements proc.Controller.Wait.
func (c *Controller) Wait(pid int, untraced bool) (proc.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.lookup(pid)
	if err != nil {
		return proc.State{}, err
	}

	for {
		state := p.next()
		if state == Running || (state.Stopped && !untraced) {
			continue
		}
		p.reaped = state.Done()
		return state, nil
	}
}

// Poll implements proc.Controller.Poll.
func (c *Controller) Poll(pid int) (proc.State, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.lookup(pid)
	if err != nil {
		return proc.State{}, false, err
	}

	state := p.next()
	if state == Running {
		return proc.State{}, false, nil
	}
	p.reaped = state.Done()
	return state, true, nil
}

// Signal implements proc.Controller.Signal.
func (c *Controller) Signal(pid int, sig syscall.Signal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.lookup(pid); err != nil {
		return syscall.ESRCH
	}
	c.signals = append(c.signals, SentSignal{Pid: pid, Signal: sig})
	return nil
}

// Started returns the processes created so far, in order.
func (c *Controller) Started() []*Process {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Process(nil), c.started...)
}

// Signals returns the signals sent so far, in order.
func (c *Controller) Signals() []SentSignal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]SentSignal(nil), c.signals...)
}

// Script appends states to a running process's script.
func (c *Controller) Script(pid int, states ...proc.State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.processes[pid]; ok {
		p.states = append(p.states, states...)
	}
}
