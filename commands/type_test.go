package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leizi-shell/leizi/core/proc/proctest"
)

func TestType(t *testing.T) {
	ts := newTestShell(t, map[string]proctest.Program{"sleep": {}})

	stdout, stderr, status := ts.call(Type, "type", "cd", "echo", "ll", "sleep", "nope")
	assert.Equal(t, 1, status)
	assert.Equal(t, "cd is a shell builtin (in-process)\n"+
		"echo is a shell builtin (pipe-safe)\n"+
		"ll is aliased to 'ls -l'\n"+
		"sleep is /fake/bin/sleep\n", stdout)
	assert.Equal(t, "leizi: type: nope: not found\n", stderr)
}
