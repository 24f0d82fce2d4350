package proc

import (
	"io"
	"os"
	"os/exec"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startSh(t *testing.T, script string, attr *Attr) int {
	t.Helper()

	path, err := OS{}.LookPath("sh")
	require.NoError(t, err)

	pid, err := OS{}.Start(path, []string{"sh", "-c", script}, attr)
	require.NoError(t, err)
	return pid
}

func TestOS_exitCode(t *testing.T) {
	pid := startSh(t, "exit 3", nil)

	state, err := OS{}.Wait(pid, true)
	require.NoError(t, err)
	assert.Equal(t, Exit(3), state)
	assert.Equal(t, 3, state.Status())
}

func TestOS_killed(t *testing.T) {
	pid := startSh(t, "sleep 30", nil)

	require.NoError(t, OS{}.Signal(pid, syscall.SIGKILL))
	state, err := OS{}.Wait(pid, false)
	require.NoError(t, err)
	assert.Equal(t, Killed(syscall.SIGKILL), state)
	assert.Equal(t, 137, state.Status())
}

func TestOS_stopAndContinue(t *testing.T) {
	pid := startSh(t, "sleep 30", &Attr{NewProcessGroup: true})
	t.Cleanup(func() {
		OS{}.Signal(pid, syscall.SIGKILL)
		OS{}.Wait(pid, false)
	})

	_, changed, err := OS{}.Poll(pid)
	require.NoError(t, err)
	assert.False(t, changed, "a sleeping process shouldn't report a change")

	require.NoError(t, OS{}.Signal(pid, syscall.SIGSTOP))
	state, err := OS{}.Wait(pid, true)
	require.NoError(t, err)
	assert.True(t, state.Stopped)
	assert.Equal(t, syscall.SIGSTOP, state.Signal)
	assert.False(t, state.Done())

	require.NoError(t, OS{}.Signal(pid, syscall.SIGCONT))
}

func TestOS_files(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)

	pid := startSh(t, "echo piped", &Attr{Stdout: w})
	w.Close()

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	r.Close()
	assert.Equal(t, "piped\n", string(out))

	state, err := OS{}.Wait(pid, true)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Status())
}

func TestOS_LookPath(t *testing.T) {
	_, err := OS{}.LookPath("leizi-definitely-not-a-command")
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestOS_waitUnknownChild(t *testing.T) {
	_, err := OS{}.Wait(1, false)
	assert.Error(t, err)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "exited 1", Exit(1).String())
	assert.Equal(t, "running", State{}.String())
	assert.Equal(t, 148, Stop(syscall.SIGTSTP).Status())
}
