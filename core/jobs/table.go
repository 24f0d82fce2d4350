package jobs

import (
	"fmt"
	"io"
	"sync"
	"syscall"
	"time"

	"github.com/leizi-shell/leizi/core/logger"
	"github.com/leizi-shell/leizi/core/proc"
)

// Foreground tracks which process currently owns the terminal.
type Foreground interface {
	SetForeground(pid int)
	ClearForeground()
}

// EventRecorder receives job state transitions.
type EventRecorder interface {
	Record(event string, data logger.Fields) error
}

// Table is the shell's job table. Job ids start at 1 and are never reused.
type Table struct {
	mu sync.Mutex

	procs  proc.Controller
	fg     Foreground
	out    io.Writer
	events EventRecorder
	now    func() time.Time

	nextID int
	jobs   []*entry
}

// NewTable creates an empty job table. Notices like "[1] 1234" are written to
// out.
func NewTable(procs proc.Controller, fg Foreground, out io.Writer) *Table {
	return &Table{
		procs:  procs,
		fg:     fg,
		out:    out,
		now:    time.Now,
		nextID: 1,
	}
}

// SetEventRecorder sets where job transitions are logged.
func (t *Table) SetEventRecorder(events EventRecorder) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = events
}

func (t *Table) record(event string, e *entry) {
	if t.events == nil {
		return
	}
	_ = t.events.Record(event, logger.Fields{
		"id":         e.ID,
		"pid":        e.PID,
		"command":    e.Command,
		"status":     e.Status.String(),
		"background": e.Background,
	})
}

func (t *Table) add(pids []int, command string, status Status, background bool) *entry {
	e := &entry{
		Job: Job{
			ID:         t.nextID,
			PID:        pids[len(pids)-1],
			PIDs:       append([]int(nil), pids...),
			Command:    command,
			Status:     status,
			Background: background,
			StartedAt:  t.now(),
		},
		live: append([]int(nil), pids...),
	}
	t.nextID++
	t.jobs = append(t.jobs, e)
	return e
}

// Add registers a running pipeline and returns its id. Background jobs are
// announced as "[id] pid".
func (t *Table) Add(pids []int, command string, background bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.add(pids, command, Running, background)
	if background {
		fmt.Fprintf(t.out, "[%d] %d\n", e.ID, e.PID)
	}
	t.record(logger.EventJobAdded, e)
	return e.ID
}

// AddStopped registers a foreground pipeline that was stopped by a signal.
// live holds the pids that haven't exited yet.
func (t *Table) AddStopped(pids, live []int, command string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.add(pids, command, Stopped, false)
	e.live = append([]int(nil), live...)
	fmt.Fprintf(t.out, "[%d]+ Stopped\t%s\n", e.ID, e.Command)
	t.record(logger.EventJobStopped, e)
	return e.ID
}

// Refresh probes every job without blocking, announcing background jobs that
// finished or stopped, and removes finished jobs from the table.
func (t *Table) Refresh() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refreshLocked(0)
}

// refreshLocked probes jobs and prunes Done entries other than keep.
func (t *Table) refreshLocked(keep int) {
	for _, e := range t.jobs {
		if e.Status == Done {
			continue
		}

		stopped := false
		for _, pid := range append([]int(nil), e.live...) {
			state, changed, err := t.procs.Poll(pid)
			switch {
			case err != nil:
				// Reaped elsewhere or never ours; there's nothing left to wait for.
				e.reaped(pid, proc.Exit(0))
			case !changed:
			case state.Done():
				e.reaped(pid, state)
			case state.Stopped:
				stopped = true
			}
		}

		switch {
		case e.Status == Done:
			if e.Background {
				fmt.Fprintf(t.out, "[%d]+ Done\t\t%s\n", e.ID, e.Command)
			}
			t.record(logger.EventJobDone, e)
		case stopped && e.Status != Stopped:
			e.Status = Stopped
			if e.Background {
				fmt.Fprintf(t.out, "[%d]+ Stopped\t%s\n", e.ID, e.Command)
			}
			t.record(logger.EventJobStopped, e)
		}
	}

	kept := t.jobs[:0]
	for _, e := range t.jobs {
		if e.Status != Done || e.ID == keep {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(t.jobs); i++ {
		t.jobs[i] = nil
	}
	t.jobs = kept
}

func (t *Table) find(id int) (int, *entry) {
	for i, e := range t.jobs {
		if e.ID == id {
			return i, e
		}
	}
	return -1, nil
}

func (t *Table) remove(id int) {
	if i, _ := t.find(id); i >= 0 {
		t.jobs = append(t.jobs[:i], t.jobs[i+1:]...)
	}
}

func (t *Table) resume(e *entry) error {
	for _, pid := range e.live {
		if err := t.procs.Signal(pid, syscall.SIGCONT); err != nil {
			return fmt.Errorf("continue %d: %w", pid, err)
		}
	}
	e.Status = Running
	t.record(logger.EventJobResumed, e)
	return nil
}

// Foreground resumes the job if it's stopped and waits for it as the
// foreground job. It returns the job's exit status: the exit code, or 128 plus
// the signal that killed or stopped it.
//
// The table lock isn't held while waiting so Refresh and List stay usable.
func (t *Table) Foreground(id int) (int, error) {
	t.mu.Lock()
	t.refreshLocked(id)

	_, e := t.find(id)
	switch {
	case e == nil:
		t.mu.Unlock()
		return 1, fmt.Errorf("job %d %w", id, ErrNotFound)
	case e.Status == Done:
		t.remove(id)
		t.mu.Unlock()
		return 1, ErrTerminated
	case e.Status == Stopped:
		if err := t.resume(e); err != nil {
			t.mu.Unlock()
			return 1, err
		}
	}
	e.Background = false
	live := append([]int(nil), e.live...)
	t.mu.Unlock()

	result, err := WaitForeground(t.procs, t.fg, live)

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, pid := range result.Reaped {
		e.reaped(pid, result.States[pid])
	}
	if err != nil {
		return 1, err
	}

	if result.Stopped {
		e.Status = Stopped
		fmt.Fprintf(t.out, "[%d]+ Stopped\t%s\n", e.ID, e.Command)
		t.record(logger.EventJobStopped, e)
		return result.State.Status(), nil
	}

	e.Status = Done
	t.record(logger.EventJobDone, e)
	t.remove(id)
	return e.last.Status(), nil
}

// Background resumes a stopped job without waiting for it.
func (t *Table) Background(id int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refreshLocked(0)

	_, e := t.find(id)
	switch {
	case e == nil:
		return fmt.Errorf("job %d %w", id, ErrNotFound)
	case e.Status != Stopped:
		return ErrNotStopped
	}

	if err := t.resume(e); err != nil {
		return err
	}
	e.Background = true
	fmt.Fprintf(t.out, "[%d]+ %s &\n", e.ID, e.Command)
	return nil
}

// List returns a snapshot of the jobs in the table, oldest first.
func (t *Table) List() []Job {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Job, 0, len(t.jobs))
	for _, e := range t.jobs {
		out = append(out, e.snapshot())
	}
	return out
}

// Get returns a snapshot of a single job.
func (t *Table) Get(id int) (Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, e := t.find(id); e != nil {
		return e.snapshot(), true
	}
	return Job{}, false
}

// Current returns the id of the most recently added job.
func (t *Table) Current() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refreshLocked(0)

	if len(t.jobs) == 0 {
		return 0, ErrNoCurrent
	}
	return t.jobs[len(t.jobs)-1].ID, nil
}

// CurrentStopped returns the id of the most recently added stopped job.
func (t *Table) CurrentStopped() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refreshLocked(0)

	for i := len(t.jobs) - 1; i >= 0; i-- {
		if t.jobs[i].Status == Stopped {
			return t.jobs[i].ID, nil
		}
	}
	return 0, ErrNoStopped
}

// Len returns the number of jobs in the table.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.jobs)
}
