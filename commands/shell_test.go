package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/leizi-shell/leizi/core/logger"
	"github.com/leizi-shell/leizi/core/proc"
	"github.com/leizi-shell/leizi/core/proc/proctest"
)

func TestRunCommand_lastStatus(t *testing.T) {
	ts := newTestShell(t, map[string]proctest.Program{
		"false": {States: []proc.State{proc.Exit(1)}},
	})

	assert.Equal(t, 1, ts.RunCommand("false"))
	assert.Equal(t, 0, ts.RunCommand("echo $?"))
	assert.Equal(t, "1\n", ts.out(t))
	assert.Equal(t, 0, ts.LastStatus())
}

func TestRunCommand_blankKeepsStatus(t *testing.T) {
	ts := newTestShell(t, map[string]proctest.Program{
		"false": {States: []proc.State{proc.Exit(1)}},
	})

	ts.RunCommand("false")
	assert.Equal(t, 1, ts.RunCommand("   "))
	assert.Equal(t, []string{"false"}, ts.History())
}

func TestRunCommand_alias(t *testing.T) {
	ts := newTestShell(t, map[string]proctest.Program{
		"ls": {Output: "listing\n"},
	})

	assert.Equal(t, 0, ts.RunCommand("ll /tmp"))

	started := ts.procs.Started()
	require.Len(t, started, 1)
	assert.Equal(t, []string{"ls", "-l", "/tmp"}, started[0].Argv)
	assert.Equal(t, "listing\n", ts.out(t))
}

func TestRunCommand_aliasOnlyFirstWord(t *testing.T) {
	ts := newTestShell(t, map[string]proctest.Program{
		"echo": {},
	})

	ts.RunCommand("echo ll")
	assert.Equal(t, "ll\n", ts.out(t), "builtin echo runs with the literal word")
}

func TestRunCommand_unterminatedQuote(t *testing.T) {
	ts := newTestShell(t, nil)

	assert.Equal(t, 0, ts.RunCommand(`echo "open`))
	assert.Equal(t, "open\n", ts.out(t))
	assert.Equal(t, "leizi: warning: unterminated double quote\n", ts.err(t))
}

func TestRunCommand_builtinInPipeline(t *testing.T) {
	ts := newTestShell(t, map[string]proctest.Program{"cat": {}})

	assert.Equal(t, 1, ts.RunCommand("cd /tmp | cat"))
	assert.Equal(t, "leizi: cd: builtin command cannot be used in pipeline\n", ts.err(t))
	assert.Empty(t, ts.procs.Started())
}

func TestRunCommand_exit(t *testing.T) {
	ts := newTestShell(t, nil)

	assert.Equal(t, 4, ts.RunOnce("exit 4"))
	assert.True(t, ts.Quit)
}

func TestRunCommand_events(t *testing.T) {
	var buf bytes.Buffer
	ts := newTestShell(t, map[string]proctest.Program{
		"sleep": {States: []proc.State{proc.Exit(0)}},
	})
	ts.Events = logger.NewJsonLinesLogRecorder(&buf).NewSession()
	ts.Jobs.SetEventRecorder(ts.Events)

	ts.RunOnce("sleep 1 | sleep 2 &")
	ts.Jobs.Refresh()

	var events []string
	var runData map[string]*structpb.Value
	require.NoError(t, logger.ReadJSONLinesLog(strings.NewReader(buf.String()), func(le *structpb.Struct) {
		event := le.GetFields()[logger.FieldEvent].GetStringValue()
		events = append(events, event)
		if event == logger.EventRunCommand {
			runData = le.GetFields()[logger.FieldData].GetStructValue().GetFields()
		}
	}))

	assert.Equal(t, []string{
		logger.EventSessionStart,
		logger.EventJobAdded,
		logger.EventRunCommand,
		logger.EventSessionEnd,
		logger.EventJobDone,
	}, events)

	require.NotNil(t, runData)
	assert.Equal(t, "sleep 1 | sleep 2 &", runData["line"].GetStringValue())
	assert.Equal(t, float64(2), runData["stages"].GetNumberValue())
	assert.True(t, runData["background"].GetBoolValue())
	assert.Equal(t, float64(0), runData["status"].GetNumberValue())
}

func TestPrompt(t *testing.T) {
	ts := newTestShell(t, nil)
	ts.Vars.Set(EnvUser, "leizi")
	ts.Vars.Set(EnvPWD, "/srv/data")
	ts.Vars.Set(EnvPrompt, `[\u \w]\$ `)

	prompt := ts.prompt()
	assert.True(t, strings.HasPrefix(prompt, "[leizi /srv/data]"), prompt)
	assert.True(t, strings.HasSuffix(prompt, "$ ") || strings.HasSuffix(prompt, "# "), prompt)
}

func TestPrompt_home(t *testing.T) {
	ts := newTestShell(t, nil)
	ts.home = "/home/leizi"
	ts.Vars.Set(EnvPWD, "/home/leizi/src")
	ts.Vars.Set(EnvPrompt, `\w`)

	assert.Equal(t, "~/src", ts.prompt())
}

func TestPrompt_default(t *testing.T) {
	ts := newTestShell(t, nil)
	ts.Vars.Set(EnvPrompt, "")
	ts.Config.Prompt.Format = "leizi> "

	assert.Equal(t, "leizi> ", ts.prompt())
}
