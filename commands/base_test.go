package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leizi-shell/leizi/core/config"
	"github.com/leizi-shell/leizi/core/executor"
	"github.com/leizi-shell/leizi/core/proc/proctest"
	"github.com/leizi-shell/leizi/core/signals"
)

type testShell struct {
	*Shell
	procs  *proctest.Controller
	stdout *os.File
	stderr *os.File
}

func newTestShell(t *testing.T, programs map[string]proctest.Program) *testShell {
	t.Helper()
	dir := t.TempDir()

	stdout, err := os.Create(filepath.Join(dir, "stdout"))
	require.NoError(t, err)
	stderr, err := os.Create(filepath.Join(dir, "stderr"))
	require.NoError(t, err)
	stdin, err := os.Open(os.DevNull)
	require.NoError(t, err)
	t.Cleanup(func() {
		stdout.Close()
		stderr.Close()
		stdin.Close()
	})

	procs := proctest.New(programs)
	s := NewShell(Options{
		Config:  config.Default(dir),
		Procs:   procs,
		Signals: signals.New(nil),
		Stdin:   stdin,
		Stdout:  stdout,
		Stderr:  stderr,
	})

	return &testShell{Shell: s, procs: procs, stdout: stdout, stderr: stderr}
}

func (ts *testShell) out(t *testing.T) string {
	t.Helper()
	contents, err := os.ReadFile(ts.stdout.Name())
	require.NoError(t, err)
	return string(contents)
}

func (ts *testShell) err(t *testing.T) string {
	t.Helper()
	contents, err := os.ReadFile(ts.stderr.Name())
	require.NoError(t, err)
	return string(contents)
}

// call runs a builtin directly with buffered output.
func (ts *testShell) call(builtin ShellBuiltinFunc, args ...string) (stdout, stderr string, status int) {
	var outBuf, errBuf bytes.Buffer
	status = builtin(ts.Shell, executor.IO{
		Stdin:  &bytes.Buffer{},
		Stdout: &outBuf,
		Stderr: &errBuf,
	}, args)
	return outBuf.String(), errBuf.String(), status
}

type goldenTestSuite map[string]goldenTest

type goldenTest struct {
	Args []string
}

func (gts goldenTestSuite) Run(t *testing.T, cmd ShellBuiltinFunc) {
	t.Helper()

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
		goldie.WithSubTestNameForDir(true),
	)

	for tn, tc := range gts {
		t.Run(tn, func(t *testing.T) {
			ts := newTestShell(t, nil)
			out, _, status := ts.call(cmd, tc.Args...)
			assert.Equal(t, 0, status, "exit code")

			g.Assert(t, tn, []byte(out))
		})
	}
}

func TestAllBuiltins(t *testing.T) {
	for _, entry := range ListBuiltins() {
		t.Run(entry.Name, func(t *testing.T) {
			if entry.Builtin == nil {
				t.Fatal("nil builtin", entry.Name)
			}
			assert.NotEqual(t, executor.NotBuiltin, entry.Class)
		})
	}
}

func TestClassify(t *testing.T) {
	inProcess := []string{"cd", "export", "unset", "array", "exit", "fg", "bg"}
	for _, name := range inProcess {
		assert.Equal(t, executor.InProcess, Classify(name), name)
	}

	pipeSafe := []string{"echo", "pwd", "env", "help", "version", "history", "clear", "jobs", "type", "kill"}
	for _, name := range pipeSafe {
		assert.Equal(t, executor.PipeSafe, Classify(name), name)
	}

	assert.Equal(t, executor.NotBuiltin, Classify("ls"))
	assert.Len(t, ListBuiltins(), len(inProcess)+len(pipeSafe))
}

func TestColorPrinter(t *testing.T) {
	var buf bytes.Buffer
	printer := NewAutoColorPrinter(&buf)

	assert.False(t, printer.ShouldColor(), "buffers aren't terminals")
	assert.Equal(t, "plain 1", printer.Sprintf(ColorBoldRed, "plain %d", 1))
}

func TestSimpleCommand_badFlag(t *testing.T) {
	ts := newTestShell(t, nil)

	stdout, stderr, status := ts.call(Pwd, "pwd", "--bogus")
	assert.Equal(t, 2, status)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "usage: pwd")
}
