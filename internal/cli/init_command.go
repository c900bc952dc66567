package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/csskit/internal/config"
	"github.com/temirov/csskit/internal/output"
	"github.com/temirov/csskit/internal/scaffold"
)

const (
	initUse              = "init"
	initShortDescription = "scaffold the Bootstrap SCSS entry files"
	initLongDescription  = `Write assets/scss/bootstrap5-custom.scss and bootstrap5-custom-dark.scss.
Existing files are left untouched unless --force is given.`
	initUsageExample = `  # Create the entry files in the current project
  csskit init

  # Show what would be written into another project
  csskit init --project-dir ../site --dry-run`

	configUse                   = "config"
	configShortDescription      = "manage csskit configuration"
	configInitUse               = "init"
	configInitShortDescription  = "write a default configuration file"
	globalFlagName              = "global"
	globalFlagDescription       = "write ~/.csskit/config.yaml instead of ./config.yaml"
	configForceFlagDescription  = "overwrite an existing configuration file"
	configurationWrittenMessage = "Configuration written to %s\n"
)

// createInitCommand returns the init subcommand.
func createInitCommand(app *application) *cobra.Command {
	var force bool
	var dryRun bool
	var projectDirectory string

	initCommand := &cobra.Command{
		Use:     initUse,
		Short:   initShortDescription,
		Long:    initLongDescription,
		Example: initUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if projectDirectory == "" {
				directory, directoryError := workingDirectory()
				if directoryError != nil {
					return directoryError
				}
				projectDirectory = directory
			}
			report, scaffoldError := scaffold.Initialize(scaffold.Options{
				ProjectDirectory: projectDirectory,
				ScssDirectory:    app.configuration.Init.ScssDir,
				Force:            force,
				DryRun:           dryRun,
				Logger:           app.logger,
			})
			if scaffoldError != nil {
				return scaffoldError
			}
			_, printError := fmt.Fprint(command.OutOrStdout(), output.RenderScaffoldRaw(report))
			return printError
		},
	}
	registerToggleFlag(initCommand.Flags(), &force, forceFlagName, "f", false, forceFlagDescription)
	registerToggleFlag(initCommand.Flags(), &dryRun, dryRunFlagName, "", false, dryRunFlagDescription)
	initCommand.Flags().StringVar(&projectDirectory, projectDirFlagName, "", projectDirFlagDescription)
	return initCommand
}

// createConfigCommand returns the config command group. It skips the root
// preparation so a broken configuration file can be regenerated.
func createConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return nil
		},
	}

	var global bool
	var force bool
	configInitCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			path, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if initError != nil {
				return initError
			}
			_, printError := fmt.Fprintf(command.OutOrStdout(), configurationWrittenMessage, path)
			return printError
		},
	}
	registerToggleFlag(configInitCommand.Flags(), &global, globalFlagName, "", false, globalFlagDescription)
	registerToggleFlag(configInitCommand.Flags(), &force, forceFlagName, "f", false, configForceFlagDescription)
	configCommand.AddCommand(configInitCommand)
	return configCommand
}
