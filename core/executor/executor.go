// Package executor runs pipelines of builtins and external programs.
package executor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/leizi-shell/leizi/core/jobs"
	"github.com/leizi-shell/leizi/core/proc"
	"github.com/leizi-shell/leizi/core/shell"
)

// Class says how a builtin may be run.
type Class int

const (
	// NotBuiltin names are resolved as external programs.
	NotBuiltin Class = iota
	// InProcess builtins change shell state and can't run inside a pipeline.
	InProcess
	// PipeSafe builtins only produce output.
	PipeSafe
)

func (c Class) String() string {
	switch c {
	case InProcess:
		return "in-process"
	case PipeSafe:
		return "pipe-safe"
	default:
		return "external"
	}
}

// IO holds the streams a builtin runs with.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Builtin is a command implemented by the shell itself.
type Builtin func(stdio IO, args []string) int

// BuiltinLookup resolves a command name to a builtin. It returns NotBuiltin
// for names that aren't builtins.
type BuiltinLookup func(name string) (Class, Builtin)

// Expander expands variable references in words.
type Expander interface {
	Expand(word string) string
	ExpandAll(words []string) []string
}

// Pipeline is a tokenized command line ready to run.
type Pipeline struct {
	// Text is shown in job notices, it defaults to the stages joined by " | ".
	Text       string
	Stages     [][]string
	Background bool
}

func (p Pipeline) text() string {
	if p.Text != "" {
		return p.Text
	}

	var stages []string
	for _, stage := range p.Stages {
		stages = append(stages, strings.Join(stage, " "))
	}
	return strings.Join(stages, " | ")
}

// Executor turns pipelines into processes.
type Executor struct {
	Procs      proc.Controller
	Jobs       *jobs.Table
	Foreground jobs.Foreground
	Vars       Expander
	Builtins   BuiltinLookup

	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// stage is a single command of a pipeline after redirection and expansion.
type stage struct {
	argv     []string
	redirect shell.Redirection
}

func (e *Executor) expand(word string) string {
	if e.Vars == nil {
		return word
	}
	return e.Vars.Expand(word)
}

func (e *Executor) lookupBuiltin(name string) (Class, Builtin) {
	if e.Builtins == nil {
		return NotBuiltin, nil
	}
	return e.Builtins(name)
}

func (e *Executor) prepare(p Pipeline) []stage {
	var out []stage
	for _, tokens := range p.Stages {
		args := append([]string(nil), tokens...)
		redirect := shell.ResolveRedirection(&args)

		argv := args
		if e.Vars != nil {
			argv = e.Vars.ExpandAll(args)
		}
		out = append(out, stage{argv: argv, redirect: redirect})
	}
	return out
}

// Run executes the pipeline and returns its exit status.
func (e *Executor) Run(p Pipeline) int {
	stages := e.prepare(p)

	// A redirection without a command still creates or truncates its
	// target, then the stage is dropped.
	kept := stages[:0]
	redirectFailed := false
	for _, s := range stages {
		if len(s.argv) > 0 {
			kept = append(kept, s)
			continue
		}
		fd, ok := e.openRedirect(s)
		closeAll([]*os.File{fd})
		redirectFailed = redirectFailed || !ok
	}
	stages = kept

	switch len(stages) {
	case 0:
		if redirectFailed {
			return 1
		}
		return 0
	case 1:
		if class, builtin := e.lookupBuiltin(stages[0].argv[0]); class != NotBuiltin {
			return e.runBuiltin(stages[0], builtin)
		}
	default:
		for _, s := range stages {
			if class, _ := e.lookupBuiltin(s.argv[0]); class == InProcess {
				fmt.Fprintf(e.Stderr, "leizi: %s: builtin command cannot be used in pipeline\n", s.argv[0])
				return 1
			}
		}
	}

	return e.runExternal(p, stages)
}

// openRedirect opens the stage's redirection target, reporting failures on
// stderr.
func (e *Executor) openRedirect(s stage) (*os.File, bool) {
	if s.redirect.Kind == shell.RedirectNone {
		return nil, true
	}

	target := e.expand(s.redirect.Target)
	fd, err := s.redirect.Open(target)
	if err != nil {
		fmt.Fprintf(e.Stderr, "leizi: %s: %v\n", target, unwrapPathError(err))
		return nil, false
	}
	return fd, true
}

// runBuiltin runs a lone builtin inside the shell. A redirection only
// replaces the streams handed to the builtin, the shell's own streams are
// left alone.
func (e *Executor) runBuiltin(s stage, builtin Builtin) int {
	fd, ok := e.openRedirect(s)
	if !ok {
		return 1
	}

	stdio := IO{Stdin: e.Stdin, Stdout: e.Stdout, Stderr: e.Stderr}
	if fd != nil {
		defer fd.Close()
		if s.redirect.Stdin() {
			stdio.Stdin = fd
		}
		if s.redirect.Stdout() {
			stdio.Stdout = fd
		}
		if s.redirect.Stderr() {
			stdio.Stderr = fd
		}
	}

	return builtin(stdio, s.argv)
}

type pipe struct {
	r, w *os.File
}

func closeAll(files []*os.File) {
	for _, f := range files {
		if f != nil {
			f.Close()
		}
	}
}

// runExternal starts every stage as a process connected by pipes and waits
// for them unless the pipeline runs in the background.
func (e *Executor) runExternal(p Pipeline, stages []stage) int {
	// Every pipe exists before any process starts so each child inherits
	// only the ends it's given.
	pipes := make([]pipe, len(stages)-1)
	var parentEnds []*os.File
	for i := range pipes {
		r, w, err := os.Pipe()
		if err != nil {
			closeAll(parentEnds)
			fmt.Fprintf(e.Stderr, "leizi: pipe: %v\n", err)
			return 1
		}
		pipes[i] = pipe{r: r, w: w}
		parentEnds = append(parentEnds, r, w)
	}

	var pids []int
	statuses := make([]int, len(stages))
	started := make([]bool, len(stages))

	for i, s := range stages {
		attr := &proc.Attr{
			Stdin:           e.Stdin,
			Stdout:          e.Stdout,
			Stderr:          e.Stderr,
			NewProcessGroup: p.Background,
		}
		if i > 0 {
			attr.Stdin = pipes[i-1].r
		}
		if i < len(pipes) {
			attr.Stdout = pipes[i].w
		}

		fd, ok := e.openRedirect(s)
		if !ok {
			statuses[i] = 1
			continue
		}
		if fd != nil {
			if s.redirect.Stdin() {
				attr.Stdin = fd
			}
			if s.redirect.Stdout() {
				attr.Stdout = fd
			}
			if s.redirect.Stderr() {
				attr.Stderr = fd
			}
		}

		path, err := e.Procs.LookPath(s.argv[0])
		if err != nil {
			fmt.Fprintf(attr.Stderr, "leizi: %s: command not found\n", s.argv[0])
			statuses[i] = 127
			closeAll([]*os.File{fd})
			continue
		}

		pid, err := e.Procs.Start(path, s.argv, attr)
		closeAll([]*os.File{fd})
		if err != nil {
			fmt.Fprintf(e.Stderr, "leizi: %s: %v\n", s.argv[0], err)
			closeAll(parentEnds)
			e.abort(pids)
			return 1
		}

		pids = append(pids, pid)
		started[i] = true
	}

	// Children hold their own copies, the parent's must be closed so readers
	// see EOF.
	closeAll(parentEnds)

	last := len(stages) - 1
	if len(pids) == 0 {
		return statuses[last]
	}

	if p.Background {
		e.Jobs.Add(pids, p.text(), true)
		return 0
	}

	result, err := jobs.WaitForeground(e.Procs, e.Foreground, pids)
	if err != nil {
		fmt.Fprintf(e.Stderr, "leizi: %v\n", err)
		return 1
	}

	if result.Stopped {
		e.Jobs.AddStopped(pids, result.Live, p.text())
		return result.State.Status()
	}

	if !started[last] {
		return statuses[last]
	}
	return result.States[pids[len(pids)-1]].Status()
}

// abort kills and reaps the stages of a pipeline that couldn't be fully
// started.
func (e *Executor) abort(pids []int) {
	for _, pid := range pids {
		_ = e.Procs.Signal(pid, syscall.SIGKILL)
	}
	for _, pid := range pids {
		_, _ = e.Procs.Wait(pid, false)
	}
}

func unwrapPathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
