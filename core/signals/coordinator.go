// Package signals reconciles terminal generated signals with the shell's
// notion of a foreground job.
package signals

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// NoForeground is the foreground pid when no job owns the terminal.
const NoForeground = -1

// Killer delivers a signal to a process.
type Killer func(pid int, sig syscall.Signal) error

// Coordinator owns the interrupt flag and the foreground pid. The signal
// goroutine only touches atomics so it is safe to read both from anywhere.
type Coordinator struct {
	interrupted atomic.Bool
	foreground  atomic.Int64

	kill Killer
	ch   chan os.Signal
	done chan struct{}
}

// New creates a coordinator that isn't subscribed to any signals. kill is
// used to forward SIGTSTP to the foreground process.
func New(kill Killer) *Coordinator {
	c := &Coordinator{kill: kill}
	c.foreground.Store(NoForeground)
	return c
}

// Install creates a coordinator and subscribes it to SIGINT and SIGTSTP.
//
// Go restores the default disposition of notified signals in children when
// they exec, so started processes still react to Ctrl+C and Ctrl+Z.
func Install(kill Killer) *Coordinator {
	c := New(kill)
	c.ch = make(chan os.Signal, 4)
	c.done = make(chan struct{})
	signal.Notify(c.ch, syscall.SIGINT, syscall.SIGTSTP)

	go func() {
		for {
			select {
			case sig := <-c.ch:
				c.Handle(sig)
			case <-c.done:
				return
			}
		}
	}()

	return c
}

// Stop unsubscribes the coordinator from signals.
func (c *Coordinator) Stop() {
	if c.ch == nil {
		return
	}
	signal.Stop(c.ch)
	close(c.done)
	c.ch = nil
}

// Handle reacts to a single signal. SIGINT only raises the interrupt flag, the
// foreground process receives its own copy from the terminal. SIGTSTP is
// forwarded to the foreground process, if any.
func (c *Coordinator) Handle(sig os.Signal) {
	switch sig {
	case syscall.SIGINT:
		c.interrupted.Store(true)
	case syscall.SIGTSTP:
		if pid := c.Foreground(); pid != NoForeground && c.kill != nil {
			_ = c.kill(pid, syscall.SIGTSTP)
		}
	}
}

// TakeInterrupt reports whether SIGINT arrived since the last call and clears
// the flag.
func (c *Coordinator) TakeInterrupt() bool {
	return c.interrupted.Swap(false)
}

// SetForeground records pid as the foreground process.
func (c *Coordinator) SetForeground(pid int) {
	c.foreground.Store(int64(pid))
}

// ClearForeground resets the foreground pid to NoForeground.
func (c *Coordinator) ClearForeground() {
	c.foreground.Store(NoForeground)
}

// Foreground returns the foreground pid or NoForeground.
func (c *Coordinator) Foreground() int {
	return int(c.foreground.Load())
}
