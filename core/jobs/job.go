// Package jobs tracks background and stopped pipelines.
package jobs

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leizi-shell/leizi/core/proc"
)

// Status is the lifecycle state of a job.
type Status int

const (
	Running Status = iota
	Stopped
	Done
)

func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Stopped:
		return "Stopped"
	case Done:
		return "Done"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

var (
	ErrNotFound    = errors.New("not found")
	ErrTerminated  = errors.New("job has terminated")
	ErrNotStopped  = errors.New("job already running")
	ErrNoCurrent   = errors.New("no current job")
	ErrNoStopped   = errors.New("no stopped jobs")
	ErrInvalidSpec = errors.New("invalid job specification")
)

// Job is a snapshot of a pipeline tracked by the table.
type Job struct {
	ID int
	// PID is the process id of the last stage of the pipeline.
	PID int
	// PIDs holds every stage's process id, in pipeline order.
	PIDs       []int
	Command    string
	Status     Status
	Background bool
	StartedAt  time.Time
}

// entry is the table's mutable record of a job.
type entry struct {
	Job

	// live holds the pids that haven't been reaped yet.
	live []int
	// last is the final state of PID once it's been reaped.
	last proc.State
}

func (e *entry) snapshot() Job {
	out := e.Job
	out.PIDs = append([]int(nil), e.PIDs...)
	return out
}

func (e *entry) reaped(pid int, state proc.State) {
	for i, p := range e.live {
		if p == pid {
			e.live = append(e.live[:i:i], e.live[i+1:]...)
			break
		}
	}
	if pid == e.PID {
		e.last = state
	}
	if len(e.live) == 0 {
		e.Status = Done
	}
}

// ParseJobSpec parses "N" or "%N" into a job id.
func ParseJobSpec(spec string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(spec, "%"))
	if err != nil {
		return 0, ErrInvalidSpec
	}
	return id, nil
}
