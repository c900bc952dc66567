package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/csskit/internal/mock"
	"github.com/temirov/csskit/internal/scss"
	"github.com/temirov/csskit/internal/types"
)

const (
	testStylesheet = ".keep{color:red}.drop{color:blue}div{margin:0}"
	testTemplate   = `<div class="keep">content</div>`
)

type commandResult struct {
	stdout string
	stderr string
	err    error
}

func writeProjectFile(t *testing.T, root string, relativePath string, content string) {
	t.Helper()
	fullPath := filepath.Join(root, filepath.FromSlash(relativePath))
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
}

func newPurgeProject(t *testing.T) string {
	t.Helper()
	projectDirectory := t.TempDir()
	writeProjectFile(t, projectDirectory, defaultPurgeInput, testStylesheet)
	writeProjectFile(t, projectDirectory, "templates/index.html", testTemplate)
	return projectDirectory
}

func runCommand(t *testing.T, dependencies Dependencies, arguments ...string) commandResult {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Copier == nil {
		dependencies.Copier = &mock.Copier{CopyFn: func(string) error { return nil }}
	}
	rootCommand := createRootCommand(dependencies)
	var stdout, stderr bytes.Buffer
	rootCommand.SetOut(&stdout)
	rootCommand.SetErr(&stderr)
	rootCommand.SetArgs(arguments)
	executeError := rootCommand.ExecuteContext(context.Background())
	return commandResult{stdout: stdout.String(), stderr: stderr.String(), err: executeError}
}

func TestPurgeCommandWritesPurgedStylesheet(t *testing.T) {
	projectDirectory := newPurgeProject(t)

	result := runCommand(t, Dependencies{}, purgeUse, "--project-dir", projectDirectory)
	require.NoError(t, result.err)

	written, readError := os.ReadFile(filepath.Join(projectDirectory, filepath.FromSlash(defaultPurgeOutput)))
	require.NoError(t, readError)
	assert.Contains(t, string(written), ".keep")
	assert.Contains(t, string(written), "div")
	assert.NotContains(t, string(written), ".drop")
	assert.Contains(t, result.stdout, "Scanned files: 1")
	assert.Contains(t, result.stdout, "  - .keep")
}

func TestPurgeCommandDryRunRendersJSONWithoutWriting(t *testing.T) {
	projectDirectory := newPurgeProject(t)

	result := runCommand(t, Dependencies{}, purgeUse, "--project-dir", projectDirectory, "--dry-run", "--format", "json", "-S", ".extra")
	require.NoError(t, result.err)

	_, statError := os.Stat(filepath.Join(projectDirectory, filepath.FromSlash(defaultPurgeOutput)))
	assert.True(t, errors.Is(statError, os.ErrNotExist))

	var report types.PurgeReport
	require.NoError(t, json.Unmarshal([]byte(result.stdout), &report))
	assert.True(t, report.DryRun)
	assert.Contains(t, report.Selectors, ".keep")
	assert.Contains(t, report.Selectors, ".extra")
	assert.Contains(t, report.Tags, "div")
}

func TestPurgeCommandIgnoresMissingScanPaths(t *testing.T) {
	projectDirectory := newPurgeProject(t)

	result := runCommand(t, Dependencies{}, purgeUse, "--project-dir", projectDirectory, "--dry-run",
		"-D", "missing-directory", "-F", "missing.js", "-F", "templates")
	require.NoError(t, result.err)
	assert.Contains(t, result.stdout, "Scanned files: 1")
}

func TestPurgeCommandCopiesPurgedStylesheet(t *testing.T) {
	projectDirectory := newPurgeProject(t)
	var copied string
	copier := &mock.Copier{CopyFn: func(text string) error {
		copied = text
		return nil
	}}

	result := runCommand(t, Dependencies{Copier: copier}, purgeUse, "--project-dir", projectDirectory, "--copy")
	require.NoError(t, result.err)
	assert.Contains(t, copied, ".keep")
	assert.NotContains(t, copied, ".drop")
}

func TestPurgeCommandReportsMissingInput(t *testing.T) {
	projectDirectory := t.TempDir()

	result := runCommand(t, Dependencies{}, purgeUse, "--project-dir", projectDirectory)
	require.Error(t, result.err)
	assert.ErrorIs(t, result.err, types.ErrInputNotFound)
}

func TestPurgeCommandRejectsUnknownFormat(t *testing.T) {
	projectDirectory := newPurgeProject(t)

	result := runCommand(t, Dependencies{}, purgeUse, "--project-dir", projectDirectory, "--format", "yaml")
	require.Error(t, result.err)
	assert.Contains(t, result.err.Error(), "Invalid format value 'yaml'")
}

func TestCompileCommandWritesCompilerOutput(t *testing.T) {
	projectDirectory := t.TempDir()
	writeProjectFile(t, projectDirectory, scss.DefaultInputPath, "$primary: red;\n@import \"bootstrap\";\n")

	var requested scss.Request
	var released bool
	var requestedBinary string
	factory := func(sassBinary string, logger *zap.Logger) (scss.Compiler, func() error, error) {
		requestedBinary = sassBinary
		compiler := &mock.Compiler{CompileFn: func(ctx context.Context, request scss.Request) (scss.Result, error) {
			requested = request
			return scss.Result{CSS: ".btn{color:red}"}, nil
		}}
		return compiler, func() error {
			released = true
			return nil
		}, nil
	}

	result := runCommand(t, Dependencies{CompilerFactory: factory}, "compile", "--project-dir", projectDirectory, "--style", "expanded", "--sass-binary", "/opt/sass")
	require.NoError(t, result.err)

	written, readError := os.ReadFile(filepath.Join(projectDirectory, filepath.FromSlash(scss.DefaultOutputPath)))
	require.NoError(t, readError)
	assert.Equal(t, ".btn{color:red}", string(written))
	assert.Equal(t, types.StyleExpanded, requested.Style)
	assert.Equal(t, "/opt/sass", requestedBinary)
	assert.True(t, released)
	assert.Contains(t, result.stdout, scss.DefaultOutputPath)
}

func TestCompileCommandHintsAtMissingInput(t *testing.T) {
	projectDirectory := t.TempDir()
	factory := func(string, *zap.Logger) (scss.Compiler, func() error, error) {
		return &mock.Compiler{CompileFn: func(context.Context, scss.Request) (scss.Result, error) {
			return scss.Result{}, nil
		}}, func() error { return nil }, nil
	}

	result := runCommand(t, Dependencies{CompilerFactory: factory}, "compile", "--project-dir", projectDirectory)
	require.Error(t, result.err)
	assert.ErrorIs(t, result.err, types.ErrInputNotFound)
	assert.Contains(t, result.stderr, hintPrefix)
	assert.Contains(t, result.stderr, "csskit init")
}

func TestCompileCommandHintsAtSassInstallation(t *testing.T) {
	factory := func(string, *zap.Logger) (scss.Compiler, func() error, error) {
		return nil, nil, types.ErrBackendUnavailable
	}

	projectDirectory := t.TempDir()
	writeProjectFile(t, projectDirectory, scss.DefaultInputPath, "@import \"bootstrap\";\n")

	result := runCommand(t, Dependencies{CompilerFactory: factory}, "compile", "--project-dir", projectDirectory)
	require.Error(t, result.err)
	assert.ErrorIs(t, result.err, types.ErrBackendUnavailable)
	assert.Contains(t, result.stderr, sassInstallationHint)
}

func TestCompileCommandReportsMissingInputBeforeStartingSass(t *testing.T) {
	var started bool
	factory := func(string, *zap.Logger) (scss.Compiler, func() error, error) {
		started = true
		return nil, nil, types.ErrBackendUnavailable
	}

	result := runCommand(t, Dependencies{CompilerFactory: factory}, "compile", "--project-dir", t.TempDir())
	require.Error(t, result.err)
	assert.ErrorIs(t, result.err, types.ErrInputNotFound)
	assert.False(t, started)
	assert.Contains(t, result.stderr, "csskit init")
	assert.NotContains(t, result.stderr, sassInstallationHint)
}

func TestInitCommandScaffoldsEntryFiles(t *testing.T) {
	projectDirectory := t.TempDir()

	result := runCommand(t, Dependencies{}, initUse, "--project-dir", projectDirectory)
	require.NoError(t, result.err)
	assert.FileExists(t, filepath.Join(projectDirectory, "assets", "scss", "bootstrap5-custom.scss"))
	assert.FileExists(t, filepath.Join(projectDirectory, "assets", "scss", "bootstrap5-custom-dark.scss"))
	assert.Contains(t, result.stdout, "Created: 2, Overwritten: 0, Skipped: 0")

	second := runCommand(t, Dependencies{}, initUse, "--project-dir", projectDirectory)
	require.NoError(t, second.err)
	assert.Contains(t, second.stdout, "Created: 0, Overwritten: 0, Skipped: 2")
}

func TestConfigInitWritesGlobalConfiguration(t *testing.T) {
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	rootCommand := createRootCommand(Dependencies{Logger: zap.NewNop()})
	var stdout bytes.Buffer
	rootCommand.SetOut(&stdout)
	rootCommand.SetArgs([]string{configUse, configInitUse, "--global"})

	require.NoError(t, rootCommand.ExecuteContext(context.Background()))
	expectedPath := filepath.Join(homeDirectory, ".csskit", "config.yaml")
	assert.FileExists(t, expectedPath)
	assert.Contains(t, stdout.String(), expectedPath)
}

func TestPurgeCommandReadsProjectConfiguration(t *testing.T) {
	projectDirectory := newPurgeProject(t)
	writeProjectFile(t, projectDirectory, "config.yaml", "purge:\n  output: build/site.css\n  selectors:\n    - .configured\n")

	result := runCommand(t, Dependencies{}, purgeUse, "--project-dir", projectDirectory)
	require.NoError(t, result.err)
	assert.FileExists(t, filepath.Join(projectDirectory, "build", "site.css"))
	assert.Contains(t, result.stdout, "  - .configured")
}
