package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory.
func Load(path string) (*Configuration, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs loads the configuration from a directory of the given filesystem.
func LoadFs(fsys afero.Fs, path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	configFs := afero.NewBasePathFs(fsys, path)
	configContents, err := afero.ReadFile(configFs, ConfigurationName)
	if err != nil {
		return nil, err
	}
	var out Configuration
	if err := yaml.UnmarshalStrict(configContents, &out); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigurationName, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigurationName, err)
	}
	out.configFs = configFs
	return &out, nil
}

// Initialize writes the default configuration into the directory. An existing
// configuration is left alone.
func Initialize(path string, logger *log.Logger) error {
	return InitializeFs(afero.NewOsFs(), path, logger)
}

// InitializeFs is Initialize for an arbitrary filesystem.
func InitializeFs(fsys afero.Fs, path string, logger *log.Logger) error {
	if err := fsys.MkdirAll(path, 0755); err != nil {
		return err
	}

	configFs := afero.NewBasePathFs(fsys, path)
	exists, err := afero.Exists(configFs, ConfigurationName)
	switch {
	case err != nil:
		return err
	case exists:
		logger.Printf("%s already exists, skipping", filepath.Join(path, ConfigurationName))
		return nil
	}

	logger.Printf("Writing %s", filepath.Join(path, ConfigurationName))
	return afero.WriteFile(configFs, ConfigurationName, defaultConfigData, os.FileMode(0644))
}
