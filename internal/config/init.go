package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/temirov/csskit/internal/types"
	"github.com/temirov/csskit/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	configurationDirectoryMode = 0o755
	configurationFileMode      = 0o600

	defaultConfigurationTemplate = `purge:
  input: assets/css/bootstrap.css
  output: assets/css/bootstrap-purged.css
  templates_dirs:
    - templates
  include_dirs: []
  include_files: []
  selectors: []
  readable: false
  format: raw
  exclude: []
  copy: false
compile:
  input: assets/scss/bootstrap5-custom.scss
  output: assets/css/bootstrap.min.css
  source_map: false
  style: compressed
  sass_binary: ""
  import_paths: []
init:
  scss_dir: assets/scss
`
)

// ErrConfigurationExists reports a configuration file that init would overwrite without --force.
var ErrConfigurationExists = errors.New("configuration file already exists")

// InitOptions controls how configuration initialization behaves. Empty
// directories resolve to the process working directory and the user's home.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
	HomeDirectory    string
}

// ConfigurationPath returns the file that InitializeConfiguration writes for options.
func ConfigurationPath(options InitOptions) (string, error) {
	switch options.Target {
	case InitTargetLocal, "":
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", workingDirectoryError)
			}
			workingDirectory = current
		}
		return filepath.Join(workingDirectory, utils.ConfigFileName), nil
	case InitTargetGlobal:
		homeDirectory := options.HomeDirectory
		if homeDirectory == "" {
			resolvedHome, homeError := os.UserHomeDir()
			if homeError != nil {
				return "", fmt.Errorf("resolve home directory for configuration: %w", homeError)
			}
			homeDirectory = resolvedHome
		}
		return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName), nil
	}
	return "", fmt.Errorf("unsupported init target %q", options.Target)
}

// InitializeConfiguration writes the default csskit configuration and returns its path.
func InitializeConfiguration(options InitOptions) (string, error) {
	destinationPath, pathError := ConfigurationPath(options)
	if pathError != nil {
		return "", pathError
	}

	_, statError := os.Stat(destinationPath)
	switch {
	case statError == nil && !options.Force:
		return "", fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigurationExists, destinationPath)
	case statError != nil && !errors.Is(statError, fs.ErrNotExist):
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, statError)
	}

	if mkdirError := os.MkdirAll(filepath.Dir(destinationPath), configurationDirectoryMode); mkdirError != nil {
		return "", fmt.Errorf("%w: create configuration directory: %v", types.ErrWrite, mkdirError)
	}
	if writeError := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), configurationFileMode); writeError != nil {
		return "", fmt.Errorf("%w: %s: %v", types.ErrWrite, destinationPath, writeError)
	}
	return destinationPath, nil
}
