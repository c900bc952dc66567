// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/csskit/internal/config"
	"github.com/temirov/csskit/internal/purge"
	"github.com/temirov/csskit/internal/scss"
	"github.com/temirov/csskit/internal/services/clipboard"
	"github.com/temirov/csskit/internal/stylesheet"
	"github.com/temirov/csskit/internal/types"
	"github.com/temirov/csskit/internal/utils"
)

const (
	versionFlagName      = "version"
	verboseFlagName      = "verbose"
	configFlagName       = "config"
	formatFlagName       = "format"
	projectDirFlagName   = "project-dir"
	dryRunFlagName       = "dry-run"
	forceFlagName        = "force"
	copyFlagName         = "copy"
	versionTemplate      = utils.ApplicationName + " version: %s\n"
	rootUse              = utils.ApplicationName
	rootShortDescription = "csskit command line interface"
	rootLongDescription  = `csskit builds Bootstrap stylesheets.
It compiles SCSS entry files, purges the rules your templates never use, and scaffolds entry files for new projects.
Configuration is read from ~/.csskit/config.yaml, then ./config.yaml, then CSSKIT_* environment variables; flags override all of them.`
	versionFlagDescription      = "display application version"
	verboseFlagDescription      = "log debug output"
	configFlagDescription       = "configuration file to use instead of config.yaml (relative to --project-dir when given)"
	formatFlagDescription       = "output format (raw, json, xml)"
	projectDirFlagDescription   = "project directory holding config.yaml and .env; relative paths resolve against it"
	dryRunFlagDescription       = "report what would happen without writing files"
	forceFlagDescription        = "overwrite existing files"
	copyFlagDescription         = "copy the purged CSS to the clipboard"
	invalidFormatMessage        = "Invalid format value '%s'"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	hintPrefix                  = "hint: "
	sassInstallationHint        = "install Dart Sass (https://sass-lang.com/install) or point --sass-binary / compile.sass_binary at the sass executable"
)

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

// CompilerFactory starts an SCSS compiler. The returned function releases it.
type CompilerFactory func(sassBinary string, logger *zap.Logger) (scss.Compiler, func() error, error)

// Dependencies are the collaborators commands use. Zero fields select the
// production implementations.
type Dependencies struct {
	Copier          clipboard.Copier
	Backend         purge.Backend
	CompilerFactory CompilerFactory
	Logger          *zap.Logger
}

func startDartSass(sassBinary string, logger *zap.Logger) (scss.Compiler, func() error, error) {
	compiler, startError := scss.NewDartSass(sassBinary, logger)
	if startError != nil {
		return nil, nil, startError
	}
	return compiler, compiler.Close, nil
}

// application is the state shared by the subcommands of one invocation.
type application struct {
	dependencies  Dependencies
	configuration config.ApplicationConfiguration
	logger        *zap.Logger
	verbose       bool
	configPath    string
}

// Execute runs the csskit application.
func Execute(ctx context.Context) error {
	rootCommand := createRootCommand(Dependencies{})
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// createRootCommand builds the root Cobra command.
func createRootCommand(dependencies Dependencies) *cobra.Command {
	var showVersion bool
	app := &application{dependencies: dependencies}

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
			return app.prepare(command)
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	registerToggleFlag(rootCommand.PersistentFlags(), &app.verbose, verboseFlagName, "", false, verboseFlagDescription)
	rootCommand.PersistentFlags().StringVar(&app.configPath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		createPurgeCommand(app),
		createCompileCommand(app),
		createInitCommand(app),
		createConfigCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// prepare builds the logger, loads configuration and fills in default
// dependencies. A --project-dir given to the command also locates config.yaml
// and .env.
func (app *application) prepare(command *cobra.Command) error {
	if app.dependencies.Logger != nil {
		app.logger = app.dependencies.Logger
	} else {
		logger, loggerError := utils.NewApplicationLogger(app.verbose)
		if loggerError != nil {
			return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
		}
		app.logger = logger
	}
	projectDirectory := projectDirectoryOf(command)
	if projectDirectory != "" {
		// Variables already in the environment take precedence.
		_ = godotenv.Load(filepath.Join(projectDirectory, utils.DotEnvFileName))
	}
	configuration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: projectDirectory,
		ExplicitFilePath: app.configPath,
	})
	if configurationError != nil {
		return configurationError
	}
	app.configuration = configuration
	if app.dependencies.Copier == nil {
		app.dependencies.Copier = clipboard.NewService()
	}
	if app.dependencies.Backend == nil {
		app.dependencies.Backend = stylesheet.NewBackend(app.logger)
	}
	if app.dependencies.CompilerFactory == nil {
		app.dependencies.CompilerFactory = startDartSass
	}
	return nil
}

func projectDirectoryOf(command *cobra.Command) string {
	if command == nil {
		return ""
	}
	projectFlag := command.Flags().Lookup(projectDirFlagName)
	if projectFlag == nil {
		return ""
	}
	return projectFlag.Value.String()
}

// resolveString returns the flag value when set on the command line, then the
// configured value, then the flag default.
func resolveString(command *cobra.Command, flagName string, flagValue string, configured string) string {
	if command.Flags().Changed(flagName) || configured == "" {
		return flagValue
	}
	return configured
}

func resolveBool(command *cobra.Command, flagName string, flagValue bool, configured *bool) bool {
	if command.Flags().Changed(flagName) {
		return flagValue
	}
	return config.BoolValue(configured, flagValue)
}

func resolveList(command *cobra.Command, flagName string, flagValues []string, configured []string) []string {
	if command.Flags().Changed(flagName) || len(configured) == 0 {
		return utils.DeduplicatePatterns(flagValues)
	}
	return configured
}

func resolveFormat(command *cobra.Command, flagValue string, configured string) (string, error) {
	format := strings.ToLower(resolveString(command, formatFlagName, flagValue, configured))
	if !isSupportedFormat(format) {
		return "", fmt.Errorf(invalidFormatMessage, format)
	}
	return format, nil
}

// writeHints prints remediation advice for well-known failures.
func writeHints(writer io.Writer, failure error, hints ...string) {
	if errors.Is(failure, types.ErrBackendUnavailable) {
		hints = append(hints, sassInstallationHint)
	}
	for _, hint := range hints {
		fmt.Fprintln(writer, hintPrefix+hint)
	}
}

func workingDirectory() (string, error) {
	directory, directoryError := os.Getwd()
	if directoryError != nil {
		return "", fmt.Errorf(workingDirectoryErrorFormat, directoryError)
	}
	return directory, nil
}
