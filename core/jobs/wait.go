package jobs

import (
	"github.com/leizi-shell/leizi/core/proc"
)

// WaitResult is the outcome of waiting for a foreground pipeline.
type WaitResult struct {
	// State is the stop state if the pipeline was stopped, otherwise the final
	// state of the last process.
	State   proc.State
	Stopped bool

	// Reaped lists the pids that finished, States holds their final states.
	Reaped []int
	States map[int]proc.State
	// Live lists the pids that are still around, only set when stopped.
	Live []int
}

// WaitForeground waits for each process in turn, making it the foreground
// process while it's waited on. Waiting ends early if a process stops.
func WaitForeground(procs proc.Controller, fg Foreground, pids []int) (WaitResult, error) {
	result := WaitResult{States: make(map[int]proc.State)}
	if fg != nil {
		defer fg.ClearForeground()
	}

	for i, pid := range pids {
		if fg != nil {
			fg.SetForeground(pid)
		}

		state, err := procs.Wait(pid, true)
		if err != nil {
			result.Live = append(result.Live, pids[i:]...)
			return result, err
		}

		if state.Stopped {
			result.State = state
			result.Stopped = true
			result.Live = append(result.Live, pids[i:]...)
			return result, nil
		}

		result.Reaped = append(result.Reaped, pid)
		result.States[pid] = state
		result.State = state
	}

	return result, nil
}
