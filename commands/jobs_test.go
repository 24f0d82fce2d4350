package commands

import (
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leizi-shell/leizi/core/proc"
	"github.com/leizi-shell/leizi/core/proc/proctest"
)

func runningFor(polls int) []proc.State {
	out := make([]proc.State, polls)
	for i := range out {
		out[i] = proctest.Running
	}
	return out
}

func TestJobs_empty(t *testing.T) {
	ts := newTestShell(t, nil)

	stdout, _, status := ts.call(Jobs, "jobs")
	assert.Equal(t, 0, status)
	assert.Equal(t, "No jobs running\n", stdout)

	stdout, _, _ = ts.call(Jobs, "jobs", "-p")
	assert.Empty(t, stdout)
}

func TestJobs(t *testing.T) {
	ts := newTestShell(t, map[string]proctest.Program{
		"sleep": {States: runningFor(5)},
	})
	assert.Equal(t, 0, ts.RunCommand("sleep 10 &"))
	assert.Equal(t, "[1] 1001\n", ts.out(t))

	cases := map[string]struct {
		args     []string
		expected string
	}{
		"default": {[]string{"jobs"}, "[1]+  Running\t\tsleep 10\n"},
		"long":    {[]string{"jobs", "-l"}, "[1]+  1001 Running\t\tsleep 10\n"},
		"pids":    {[]string{"jobs", "-p"}, "1001\n"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			stdout, _, status := ts.call(Jobs, tc.args...)
			assert.Equal(t, 0, status)
			assert.Equal(t, tc.expected, stdout)
		})
	}
}

func TestJobs_stoppedForeground(t *testing.T) {
	ts := newTestShell(t, map[string]proctest.Program{
		"vim": {States: append([]proc.State{proc.Stop(syscall.SIGTSTP)}, runningFor(3)...)},
	})

	assert.Equal(t, 148, ts.RunCommand("vim notes"))
	assert.Equal(t, "[1]+ Stopped\tvim notes\n", ts.out(t))

	stdout, _, _ := ts.call(Jobs, "jobs")
	assert.Equal(t, "[1]-  Stopped\t\tvim notes\n", stdout)
}

func TestFg_errors(t *testing.T) {
	cases := map[string]struct {
		args     []string
		expected string
	}{
		"no current": {[]string{"fg"}, "leizi: fg: no current job\n"},
		"bad spec":   {[]string{"fg", "%x"}, "leizi: fg: invalid job specification\n"},
		"not found":  {[]string{"fg", "%3"}, "leizi: fg: job 3 not found\n"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			ts := newTestShell(t, nil)
			_, stderr, status := ts.call(Fg, tc.args...)
			assert.Equal(t, 1, status)
			assert.Equal(t, tc.expected, stderr)
		})
	}
}

func TestFg(t *testing.T) {
	ts := newTestShell(t, map[string]proctest.Program{
		"sleep": {States: []proc.State{proctest.Running, proc.Exit(3)}},
	})
	ts.RunCommand("sleep 1 &")

	_, stderr, status := ts.call(Fg, "fg", "%1")
	assert.Empty(t, stderr)
	assert.Equal(t, 3, status)
	assert.Equal(t, 0, ts.Jobs.Len())
}

func TestFg_resumesStopped(t *testing.T) {
	ts := newTestShell(t, map[string]proctest.Program{
		"vim": {States: []proc.State{proc.Stop(syscall.SIGTSTP), proctest.Running, proctest.Running, proc.Exit(0)}},
	})
	require.Equal(t, 148, ts.RunCommand("vim"))

	_, _, status := ts.call(Fg, "fg")
	assert.Equal(t, 0, status)

	pid := ts.procs.Started()[0].Pid
	assert.Equal(t, []proctest.SentSignal{{Pid: pid, Signal: syscall.SIGCONT}}, ts.procs.Signals())
}

func TestBg(t *testing.T) {
	ts := newTestShell(t, map[string]proctest.Program{
		"vim": {States: append([]proc.State{proc.Stop(syscall.SIGTSTP)}, runningFor(5)...)},
	})

	_, stderr, status := ts.call(Bg, "bg")
	assert.Equal(t, 1, status)
	assert.Equal(t, "leizi: bg: no stopped jobs\n", stderr)

	require.Equal(t, 148, ts.RunCommand("vim"))

	_, stderr, status = ts.call(Bg, "bg")
	assert.Equal(t, 0, status)
	assert.Empty(t, stderr)

	job, ok := ts.Jobs.Get(1)
	require.True(t, ok)
	assert.True(t, job.Background)

	_, stderr, status = ts.call(Bg, "bg", "1")
	assert.Equal(t, 1, status)
	assert.Equal(t, "leizi: bg: job already running\n", stderr)
}
