package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
)

type Configuration struct {
	configFs afero.Fs

	Prompt  Prompt            `json:"prompt"`
	History History           `json:"history"`
	Aliases map[string]string `json:"aliases" validate:"dive,keys,required,excludesall=0x20,endkeys,required"`

	EventLog string `json:"event_log"`
	Welcome  bool   `json:"welcome"`
}

type Prompt struct {
	Format string `json:"format" validate:"required"`
	Color  bool   `json:"color"`
}

type History struct {
	File string `json:"file"`
	Size int    `json:"size" validate:"gte=0,lte=100000"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewOsFs()
	}
	return c.configFs
}

// OpenEventLog opens the event log in an append only state.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the event log for reading.
func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLog, os.O_RDONLY, 0600)
}

// HistoryPath resolves the history file against the home directory. It
// returns an empty string if history isn't persisted.
func (c *Configuration) HistoryPath(home string) string {
	file := c.History.File
	switch {
	case file == "":
		return ""
	case strings.HasPrefix(file, "~/"):
		return filepath.Join(home, file[2:])
	case filepath.IsAbs(file):
		return file
	default:
		return filepath.Join(home, file)
	}
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// Default returns the built-in configuration rooted at the given directory.
func Default(path string) *Configuration {
	out := defaultConfig()
	out.configFs = afero.NewBasePathFs(afero.NewOsFs(), path)
	return out
}
