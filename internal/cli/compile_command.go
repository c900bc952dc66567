package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/temirov/csskit/internal/output"
	"github.com/temirov/csskit/internal/scss"
	"github.com/temirov/csskit/internal/types"
)

const (
	compileUse              = "compile [input] [output]"
	compileAlias            = "c"
	compileShortDescription = "compile an SCSS entry file to CSS (" + compileAlias + ")"
	// compileLongDescription provides detailed help for the compile command.
	compileLongDescription = `Compile an SCSS entry file with Dart Sass.
Imports resolve against vendor/twbs/bootstrap/scss, vendor, assets/scss, assets and node_modules in the project directory, then any configured import paths.`
	// compileUsageExample demonstrates compile command usage.
	compileUsageExample = `  # Compile assets/scss/bootstrap5-custom.scss to assets/css/bootstrap.min.css
  csskit compile

  # Compile the dark entry with a source map and readable output
  csskit compile assets/scss/bootstrap5-custom-dark.scss assets/css/bootstrap-dark.css --source-map --style expanded`

	sourceMapFlagName     = "source-map"
	styleFlagName         = "style"
	sassBinaryFlagName    = "sass-binary"
	importPathFlagName    = "import-path"
	sourceMapFlagUsage    = "write <output>.map and reference it from the CSS"
	styleFlagUsage        = "output style (compressed, expanded)"
	sassBinaryFlagUsage   = "path to the Dart Sass executable (defaults to sass on PATH)"
	importPathFlagUsage   = "additional SCSS import path (repeatable)"
	compileCloseMessage   = "close sass compiler: %w"
	maximumCompileArgs    = 2
	inputArgumentIndex    = 0
	outputArgumentIndex   = 1
	compileFailedTemplate = "compile %s: %w"
)

type compileOptions struct {
	input            string
	output           string
	sourceMap        bool
	style            string
	sassBinary       string
	importPaths      []string
	format           string
	projectDirectory string
}

// createCompileCommand returns the compile subcommand.
func createCompileCommand(app *application) *cobra.Command {
	var options compileOptions

	compileCommand := &cobra.Command{
		Use:     compileUse,
		Aliases: []string{compileAlias},
		Short:   compileShortDescription,
		Long:    compileLongDescription,
		Example: compileUsageExample,
		Args:    cobra.MaximumNArgs(maximumCompileArgs),
		RunE: func(command *cobra.Command, arguments []string) (runError error) {
			configured := app.configuration.Compile
			resolved := options
			resolved.input = configured.Input
			if len(arguments) > inputArgumentIndex {
				resolved.input = arguments[inputArgumentIndex]
			}
			resolved.output = configured.Output
			if len(arguments) > outputArgumentIndex {
				resolved.output = arguments[outputArgumentIndex]
			}
			resolved.sourceMap = resolveBool(command, sourceMapFlagName, options.sourceMap, configured.SourceMap)
			resolved.style = resolveString(command, styleFlagName, options.style, configured.Style)
			resolved.sassBinary = resolveString(command, sassBinaryFlagName, options.sassBinary, configured.SassBinary)
			resolved.importPaths = append(append([]string{}, configured.ImportPaths...), options.importPaths...)
			format, formatError := resolveFormat(command, options.format, "")
			if formatError != nil {
				return formatError
			}
			resolved.format = format
			if resolved.projectDirectory == "" {
				directory, directoryError := workingDirectory()
				if directoryError != nil {
					return directoryError
				}
				resolved.projectDirectory = directory
			}

			job := scss.Job{
				ProjectDirectory: resolved.projectDirectory,
				InputPath:        resolved.input,
				OutputPath:       resolved.output,
				Style:            resolved.style,
				SourceMap:        resolved.sourceMap,
				ImportPaths:      resolved.importPaths,
			}
			displayInput := resolved.input
			if displayInput == "" {
				displayInput = scss.DefaultInputPath
			}
			if inputError := scss.CheckInput(job); inputError != nil {
				var hints []string
				if errors.Is(inputError, types.ErrInputNotFound) {
					hints = scss.MissingInputHints(displayInput)
				}
				writeHints(command.ErrOrStderr(), inputError, hints...)
				return fmt.Errorf(compileFailedTemplate, displayInput, inputError)
			}

			compiler, release, startError := app.dependencies.CompilerFactory(resolved.sassBinary, app.logger)
			if startError != nil {
				writeHints(command.ErrOrStderr(), startError)
				return startError
			}
			defer func() {
				if closeError := release(); closeError != nil {
					runError = multierr.Append(runError, fmt.Errorf(compileCloseMessage, closeError))
				}
			}()

			report, compileError := scss.NewService(compiler, app.logger).Compile(command.Context(), job)
			if compileError != nil {
				var hints []string
				if errors.Is(compileError, types.ErrInputNotFound) {
					hints = scss.MissingInputHints(displayInput)
				}
				writeHints(command.ErrOrStderr(), compileError, hints...)
				return fmt.Errorf(compileFailedTemplate, displayInput, compileError)
			}

			rendered, renderError := output.RenderCompile(resolved.format, report)
			if renderError != nil {
				return renderError
			}
			_, printError := fmt.Fprintln(command.OutOrStdout(), rendered)
			return printError
		},
	}

	flags := compileCommand.Flags()
	registerToggleFlag(flags, &options.sourceMap, sourceMapFlagName, "", false, sourceMapFlagUsage)
	flags.StringVar(&options.style, styleFlagName, types.StyleCompressed, styleFlagUsage)
	flags.StringVar(&options.sassBinary, sassBinaryFlagName, "", sassBinaryFlagUsage)
	flags.StringArrayVar(&options.importPaths, importPathFlagName, nil, importPathFlagUsage)
	flags.StringVar(&options.format, formatFlagName, types.FormatRaw, formatFlagDescription)
	flags.StringVar(&options.projectDirectory, projectDirFlagName, "", projectDirFlagDescription)
	return compileCommand
}
