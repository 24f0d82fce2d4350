package config

import (
	"bytes"
	"io/ioutil"
	"log"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	tempDir := t.TempDir()
	if err := Initialize(tempDir, log.New(ioutil.Discard, "", 0)); err != nil {
		t.Fatal(err)
	}

	// Check that the config is valid
	cfg, err := Load(tempDir)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("LoadConfigFile", func(t *testing.T) {
		_, err := Load(filepath.Join(tempDir, ConfigurationName))
		assert.Nil(t, err)
	})

	t.Run("EventLog", func(t *testing.T) {
		cfg.EventLog = "events.log"

		fd, err := cfg.OpenEventLog()
		require.Nil(t, err)
		_, err = fd.Write([]byte("{}\n"))
		assert.Nil(t, err)
		fd.Close()

		fd, err = cfg.ReadEventLog()
		require.Nil(t, err)
		contents, err := ioutil.ReadAll(fd)
		assert.Nil(t, err)
		assert.Equal(t, "{}\n", string(contents))
		fd.Close()
	})
}

func TestInitialize_keepsExisting(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.Nil(t, afero.WriteFile(fsys, "/cfg/config.yaml", []byte("welcome: false\n"), 0644))

	logs := &bytes.Buffer{}
	require.Nil(t, InitializeFs(fsys, "/cfg", log.New(logs, "", 0)))

	contents, err := afero.ReadFile(fsys, "/cfg/config.yaml")
	require.Nil(t, err)
	assert.Equal(t, "welcome: false\n", string(contents))
	assert.Contains(t, logs.String(), "already exists")
}

func TestLoadFs(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := LoadFs(afero.NewMemMapFs(), "/cfg")
		assert.Error(t, err)
	})

	t.Run("unknown field", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.Nil(t, afero.WriteFile(fsys, "/cfg/config.yaml", []byte("shell: zsh\n"), 0644))

		_, err := LoadFs(fsys, "/cfg")
		assert.Error(t, err)
	})

	t.Run("invalid", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.Nil(t, afero.WriteFile(fsys, "/cfg/config.yaml", []byte("history:\n  size: -5\nprompt:\n  format: x\n"), 0644))

		_, err := LoadFs(fsys, "/cfg")
		assert.Error(t, err)
	})

	t.Run("valid", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		require.Nil(t, InitializeFs(fsys, "/cfg", log.New(ioutil.Discard, "", 0)))

		cfg, err := LoadFs(fsys, "/cfg")
		require.Nil(t, err)
		assert.Equal(t, "ls -l", cfg.Aliases["ll"])
		assert.Equal(t, 1000, cfg.History.Size)
	})
}
