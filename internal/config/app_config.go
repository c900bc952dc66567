// Package config loads csskit configuration from YAML files and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/temirov/csskit/internal/utils"
)

// environmentKeys are the configuration keys that CSSKIT_* variables may set,
// e.g. CSSKIT_PURGE_INPUT for purge.input.
var environmentKeys = []string{
	"purge.input",
	"purge.output",
	"purge.templates_dirs",
	"purge.include_dirs",
	"purge.include_files",
	"purge.selectors",
	"purge.readable",
	"purge.format",
	"purge.exclude",
	"purge.copy",
	"compile.input",
	"compile.output",
	"compile.source_map",
	"compile.style",
	"compile.sass_binary",
	"compile.import_paths",
	"init.scss_dir",
}

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Purge   PurgeConfiguration   `mapstructure:"purge"`
	Compile CompileConfiguration `mapstructure:"compile"`
	Init    InitConfiguration    `mapstructure:"init"`
}

// PurgeConfiguration defines defaults for the purge command.
type PurgeConfiguration struct {
	Input         string   `mapstructure:"input"`
	Output        string   `mapstructure:"output"`
	TemplatesDirs []string `mapstructure:"templates_dirs"`
	IncludeDirs   []string `mapstructure:"include_dirs"`
	IncludeFiles  []string `mapstructure:"include_files"`
	Selectors     []string `mapstructure:"selectors"`
	Readable      *bool    `mapstructure:"readable"`
	Format        string   `mapstructure:"format"`
	Exclude       []string `mapstructure:"exclude"`
	Copy          *bool    `mapstructure:"copy"`
}

// CompileConfiguration defines defaults for the compile command.
type CompileConfiguration struct {
	Input       string   `mapstructure:"input"`
	Output      string   `mapstructure:"output"`
	SourceMap   *bool    `mapstructure:"source_map"`
	Style       string   `mapstructure:"style"`
	SassBinary  string   `mapstructure:"sass_binary"`
	ImportPaths []string `mapstructure:"import_paths"`
}

// InitConfiguration defines defaults for the init command.
type InitConfiguration struct {
	ScssDir string `mapstructure:"scss_dir"`
}

// LoadApplicationConfiguration loads configuration from the global file, the
// local file and CSSKIT_* environment variables, later sources winning.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	environmentConfig, environmentErr := loadConfigurationFromEnvironment()
	if environmentErr != nil {
		return ApplicationConfiguration{}, environmentErr
	}
	merged = merged.Merge(environmentConfig)

	merged.Purge.Exclude = utils.DeduplicatePatterns(merged.Purge.Exclude)
	merged.Purge.Selectors = utils.DeduplicatePatterns(merged.Purge.Selectors)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

func loadConfigurationFromEnvironment() (ApplicationConfiguration, error) {
	reader := viper.New()
	reader.SetEnvPrefix(utils.EnvironmentPrefix)
	reader.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range environmentKeys {
		if bindErr := reader.BindEnv(key); bindErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("bind environment for %s: %w", key, bindErr)
		}
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode environment configuration: %w", decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Purge = result.Purge.merge(override.Purge)
	result.Compile = result.Compile.merge(override.Compile)
	if override.Init.ScssDir != "" {
		result.Init.ScssDir = override.Init.ScssDir
	}
	return result
}

func (config PurgeConfiguration) merge(override PurgeConfiguration) PurgeConfiguration {
	result := config
	if override.Input != "" {
		result.Input = override.Input
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	result.TemplatesDirs = mergeList(result.TemplatesDirs, override.TemplatesDirs)
	result.IncludeDirs = mergeList(result.IncludeDirs, override.IncludeDirs)
	result.IncludeFiles = mergeList(result.IncludeFiles, override.IncludeFiles)
	result.Selectors = mergeList(result.Selectors, override.Selectors)
	if override.Readable != nil {
		result.Readable = cloneBool(override.Readable)
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	result.Exclude = mergeList(result.Exclude, override.Exclude)
	if override.Copy != nil {
		result.Copy = cloneBool(override.Copy)
	}
	return result
}

func (config CompileConfiguration) merge(override CompileConfiguration) CompileConfiguration {
	result := config
	if override.Input != "" {
		result.Input = override.Input
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.SourceMap != nil {
		result.SourceMap = cloneBool(override.SourceMap)
	}
	if override.Style != "" {
		result.Style = override.Style
	}
	if override.SassBinary != "" {
		result.SassBinary = override.SassBinary
	}
	result.ImportPaths = mergeList(result.ImportPaths, override.ImportPaths)
	return result
}

// mergeList replaces base with override when override names anything.
func mergeList(base []string, override []string) []string {
	if len(override) == 0 {
		return base
	}
	return append([]string{}, utils.DeduplicatePatterns(override)...)
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

// BoolValue dereferences value, falling back to defaultValue when unset.
func BoolValue(value *bool, defaultValue bool) bool {
	if value == nil {
		return defaultValue
	}
	return *value
}
