package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/csskit/internal/collector"
	"github.com/temirov/csskit/internal/output"
	"github.com/temirov/csskit/internal/purge"
	"github.com/temirov/csskit/internal/types"
	"github.com/temirov/csskit/internal/utils"
)

const (
	purgeUse              = "purge"
	purgeAlias            = "p"
	purgeShortDescription = "purge unused Bootstrap rules (" + purgeAlias + ")"
	// purgeLongDescription provides detailed help for the purge command.
	purgeLongDescription = `Scan templates and scripts for the selectors they use and write a copy of the input stylesheet that keeps only the matching rules.
Templates directories, extra directories and extra files that do not exist are ignored.`
	// purgeUsageExample demonstrates purge command usage.
	purgeUsageExample = `  # Purge with the defaults and keep a few dynamic classes
  csskit purge -S .show -S .fade

  # Preview the kept selectors as JSON without writing anything
  csskit purge --dry-run --format json

  # Rebuild whenever a template changes
  csskit purge --templates-dir templates --include-dir assets/js --watch`

	inputFlagName         = "input"
	outputFlagName        = "output"
	templatesDirFlagName  = "templates-dir"
	includeDirFlagName    = "include-dir"
	includeFileFlagName   = "include-file"
	selectorFlagName      = "selector"
	readableFlagName      = "readable"
	excludeFlagName       = "exclude"
	watchFlagName         = "watch"
	defaultPurgeInput     = "assets/css/bootstrap.css"
	defaultPurgeOutput    = "assets/css/bootstrap-purged.css"
	defaultTemplatesDir   = "templates"
	watchCacheSize        = 4096
	outputDirectoryMode   = 0o755
	outputFileMode        = 0o644
	inputFlagUsage        = "path to the input CSS file"
	outputFlagUsage       = "path to write the purged CSS file"
	templatesDirFlagUsage = "template directory to scan (repeatable)"
	includeDirFlagUsage   = "additional directory to scan for selectors (repeatable)"
	includeFileFlagUsage  = "additional file to scan for selectors (repeatable)"
	selectorFlagUsage     = "selector to always keep (repeatable)"
	readableFlagUsage     = "write human-readable CSS instead of minified CSS"
	excludeFlagUsage      = "glob of scanned paths to skip (repeatable)"
	watchFlagUsage        = "purge again whenever a scanned source or the input changes"
	copyFailedMessage     = "failed to copy purged CSS to clipboard"
	purgeFailedMessage    = "purge failed"
)

type purgeOptions struct {
	input            string
	output           string
	templatesDirs    []string
	includeDirs      []string
	includeFiles     []string
	selectors        []string
	readable         bool
	dryRun           bool
	format           string
	exclude          []string
	copyToClipboard  bool
	watch            bool
	projectDirectory string
}

// createPurgeCommand returns the purge subcommand.
func createPurgeCommand(app *application) *cobra.Command {
	var options purgeOptions

	purgeCommand := &cobra.Command{
		Use:     purgeUse,
		Aliases: []string{purgeAlias},
		Short:   purgeShortDescription,
		Long:    purgeLongDescription,
		Example: purgeUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			resolved, resolveError := app.resolvePurgeOptions(command, options)
			if resolveError != nil {
				return resolveError
			}
			return app.runPurge(command.Context(), command.OutOrStdout(), resolved)
		},
	}

	flags := purgeCommand.Flags()
	flags.StringVarP(&options.input, inputFlagName, "i", defaultPurgeInput, inputFlagUsage)
	flags.StringVarP(&options.output, outputFlagName, "o", defaultPurgeOutput, outputFlagUsage)
	flags.StringArrayVar(&options.templatesDirs, templatesDirFlagName, []string{defaultTemplatesDir}, templatesDirFlagUsage)
	flags.StringArrayVarP(&options.includeDirs, includeDirFlagName, "D", nil, includeDirFlagUsage)
	flags.StringArrayVarP(&options.includeFiles, includeFileFlagName, "F", nil, includeFileFlagUsage)
	flags.StringArrayVarP(&options.selectors, selectorFlagName, "S", nil, selectorFlagUsage)
	registerToggleFlag(flags, &options.readable, readableFlagName, "r", false, readableFlagUsage)
	registerToggleFlag(flags, &options.dryRun, dryRunFlagName, "", false, dryRunFlagDescription)
	flags.StringVar(&options.format, formatFlagName, types.FormatRaw, formatFlagDescription)
	flags.StringArrayVar(&options.exclude, excludeFlagName, nil, excludeFlagUsage)
	registerToggleFlag(flags, &options.copyToClipboard, copyFlagName, "c", false, copyFlagDescription)
	registerToggleFlag(flags, &options.watch, watchFlagName, "", false, watchFlagUsage)
	flags.StringVar(&options.projectDirectory, projectDirFlagName, "", projectDirFlagDescription)
	return purgeCommand
}

func (app *application) resolvePurgeOptions(command *cobra.Command, options purgeOptions) (purgeOptions, error) {
	configured := app.configuration.Purge
	resolved := options
	resolved.input = resolveString(command, inputFlagName, options.input, configured.Input)
	resolved.output = resolveString(command, outputFlagName, options.output, configured.Output)
	resolved.templatesDirs = resolveList(command, templatesDirFlagName, options.templatesDirs, configured.TemplatesDirs)
	resolved.includeDirs = resolveList(command, includeDirFlagName, options.includeDirs, configured.IncludeDirs)
	resolved.includeFiles = resolveList(command, includeFileFlagName, options.includeFiles, configured.IncludeFiles)
	resolved.selectors = append(utils.DeduplicatePatterns(configured.Selectors), options.selectors...)
	resolved.readable = resolveBool(command, readableFlagName, options.readable, configured.Readable)
	resolved.exclude = append(append([]string{}, configured.Exclude...), options.exclude...)
	resolved.copyToClipboard = resolveBool(command, copyFlagName, options.copyToClipboard, configured.Copy)
	format, formatError := resolveFormat(command, options.format, configured.Format)
	if formatError != nil {
		return purgeOptions{}, formatError
	}
	resolved.format = format
	if resolved.projectDirectory == "" {
		directory, directoryError := workingDirectory()
		if directoryError != nil {
			return purgeOptions{}, directoryError
		}
		resolved.projectDirectory = directory
	}
	return resolved, nil
}

// scanPaths keeps the existing directories among the template and include
// directories followed by the existing include files.
func scanPaths(options purgeOptions) []string {
	var paths []string
	for _, directory := range append(append([]string{}, options.templatesDirs...), options.includeDirs...) {
		resolvedDirectory := utils.ResolveProjectPath(options.projectDirectory, directory)
		if information, statError := os.Stat(resolvedDirectory); statError == nil && information.IsDir() {
			paths = append(paths, resolvedDirectory)
		}
	}
	for _, file := range options.includeFiles {
		resolvedFile := utils.ResolveProjectPath(options.projectDirectory, file)
		if information, statError := os.Stat(resolvedFile); statError == nil && information.Mode().IsRegular() {
			paths = append(paths, resolvedFile)
		}
	}
	return paths
}

func (app *application) runPurge(ctx context.Context, writer io.Writer, options purgeOptions) error {
	var cache *collector.Cache
	if options.watch {
		createdCache, cacheError := collector.NewCache(watchCacheSize)
		if cacheError != nil {
			return cacheError
		}
		cache = createdCache
	}
	service := purge.NewService(app.dependencies.Backend, cache, app.logger)
	request := purge.Request{
		CSSPath:         utils.ResolveProjectPath(options.projectDirectory, options.input),
		PathsToScan:     scanPaths(options),
		ExtraSelectors:  options.selectors,
		Readable:        options.readable,
		ExcludePatterns: options.exclude,
		IgnoreFileName:  utils.IgnoreFileName,
	}

	if !options.watch {
		result, purgeError := service.Purge(ctx, request)
		if purgeError != nil {
			return purgeError
		}
		return app.publishPurge(writer, options, request.CSSPath, result)
	}

	watcher := purge.NewWatcher(service, request, 0, func(result purge.Result, purgeError error) {
		if purgeError == nil {
			purgeError = app.publishPurge(writer, options, request.CSSPath, result)
		}
		if purgeError != nil {
			app.logger.Error(purgeFailedMessage, zap.Error(purgeError))
		}
	}, app.logger)
	return watcher.Run(ctx)
}

// publishPurge writes the purged stylesheet, copies it when asked and prints
// the report.
func (app *application) publishPurge(writer io.Writer, options purgeOptions, inputPath string, result purge.Result) error {
	report := types.PurgeReport{
		InputPath:  options.input,
		OutputPath: options.output,
		DryRun:     options.dryRun,
		Selectors:  result.Kept,
		Tags:       output.TagsOf(result.Kept),
		Stats:      result.Stats,
	}
	if information, statError := os.Stat(inputPath); statError == nil {
		report.InputBytes = information.Size()
	} else {
		report.InputMissing = true
	}

	if !options.dryRun {
		outputPath := utils.ResolveProjectPath(options.projectDirectory, options.output)
		if writeError := writeOutputFile(outputPath, result.CSS); writeError != nil {
			return writeError
		}
		report.OutputBytes = int64(len(result.CSS))
	}

	if options.copyToClipboard {
		if copyError := app.dependencies.Copier.Copy(result.CSS); copyError != nil {
			app.logger.Warn(copyFailedMessage, zap.Error(copyError))
		}
	}

	rendered, renderError := output.RenderPurge(options.format, report)
	if renderError != nil {
		return renderError
	}
	_, printError := fmt.Fprintln(writer, rendered)
	return printError
}

func writeOutputFile(path string, content string) error {
	if mkdirError := os.MkdirAll(filepath.Dir(path), outputDirectoryMode); mkdirError != nil {
		return fmt.Errorf("%w: create output directory: %v", types.ErrWrite, mkdirError)
	}
	if writeError := os.WriteFile(path, []byte(content), outputFileMode); writeError != nil {
		return fmt.Errorf("%w: %v", types.ErrWrite, writeError)
	}
	return nil
}

