package commands

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExport(t *testing.T) {
	const name = "LEIZI_EXPORT_TEST"
	t.Cleanup(func() {
		os.Unsetenv(name)
	})
	ts := newTestShell(t, nil)

	_, stderr, status := ts.call(Export, "export", name+"=two words")
	assert.Equal(t, 0, status)
	assert.Empty(t, stderr)
	assert.Equal(t, "two words", os.Getenv(name))

	v, ok := ts.Vars.Get(name)
	assert.True(t, ok)
	assert.True(t, v.Exported)

	stdout, _, status := ts.call(Export, "export")
	assert.Equal(t, 0, status)
	assert.Contains(t, stdout, "export "+name+"='two words'\n")

	stdout, _, _ = ts.call(Export, "export", "-p")
	assert.Contains(t, stdout, "export "+name+"='two words'\n")
}

func TestExport_existing(t *testing.T) {
	const name = "LEIZI_EXPORT_EXISTING"
	t.Cleanup(func() {
		os.Unsetenv(name)
	})
	ts := newTestShell(t, nil)
	ts.Vars.Set(name, "local")
	assert.Empty(t, os.Getenv(name))

	_, _, status := ts.call(Export, "export", name)
	assert.Equal(t, 0, status)
	assert.Equal(t, "local", os.Getenv(name))
}

func TestExport_invalid(t *testing.T) {
	ts := newTestShell(t, nil)

	_, stderr, status := ts.call(Export, "export", "1abc=x")
	assert.Equal(t, 1, status)
	assert.Equal(t, "leizi: export: `1abc=x': not a valid identifier\n", stderr)
}

func TestUnset(t *testing.T) {
	const name = "LEIZI_UNSET_TEST"
	os.Setenv(name, "present")
	t.Cleanup(func() {
		os.Unsetenv(name)
	})
	ts := newTestShell(t, nil)
	ts.Vars.Set("LOCAL", "1")

	_, _, status := ts.call(Unset, "unset", name, "LOCAL")
	assert.Equal(t, 0, status)

	_, ok := os.LookupEnv(name)
	assert.False(t, ok)
	assert.Equal(t, "", ts.Vars.Expand("$LOCAL"))
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "plain", shellQuote("plain"))
	assert.Equal(t, "'a b'", shellQuote("a b"))
	assert.Equal(t, "''", shellQuote(""))
}
