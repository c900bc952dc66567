package utils

const (
	// ApplicationName is the command name used in help text and configuration paths.
	ApplicationName = "csskit"
	// ConfigFileName is the name of local and global configuration files.
	ConfigFileName = "config.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".csskit"
	// EnvironmentPrefix prefixes environment variables that override configuration.
	EnvironmentPrefix = "CSSKIT"
	// DotEnvFileName is loaded from the working directory before configuration is resolved.
	DotEnvFileName = ".env"
	// IgnoreFileName lists exclude globs inside a scanned directory.
	IgnoreFileName = ".csskitignore"

	// LoggerInitializationFailedMessageFormat reports a logger that could not be built.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal command errors.
	ApplicationExecutionFailedMessage = "csskit failed"
)
