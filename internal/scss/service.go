package scss

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/csskit/internal/types"
	"github.com/temirov/csskit/internal/utils"
)

const (
	// DefaultInputPath is the project SCSS entry compiled when none is given.
	DefaultInputPath = "assets/scss/bootstrap5-custom.scss"
	// DefaultOutputPath receives the compiled CSS when no output is given.
	DefaultOutputPath = "assets/css/bootstrap.min.css"
	// VendorEntryPath is the upstream Bootstrap entry installed by composer.
	VendorEntryPath = "vendor/twbs/bootstrap/scss/bootstrap.scss"

	sourceMapExtension       = ".map"
	sourceMappingURLFormat   = "\n/*# sourceMappingURL=%s */\n"
	outputDirectoryMode      = 0o755
	outputFileMode           = 0o644
	vendorEntryHint          = "make sure twbs/bootstrap is installed (composer require twbs/bootstrap) and the path is correct"
	customEntryHintFormat    = "create %s (override variables, then @import \"bootstrap\";) with csskit init, or compile the vendor entry %s"
	missingInputMessageShape = "%w: %s"
)

// defaultImportPaths are resolved against the project directory in priority order.
var defaultImportPaths = []string{
	"vendor/twbs/bootstrap/scss",
	"vendor",
	"assets/scss",
	"assets",
	"node_modules",
}

// Job describes one compile invocation. Relative paths resolve against
// ProjectDirectory.
type Job struct {
	ProjectDirectory string
	InputPath        string
	OutputPath       string
	Style            string
	SourceMap        bool
	ImportPaths      []string
}

// Service compiles project SCSS files to disk.
type Service struct {
	compiler Compiler
	logger   *zap.Logger
}

// NewService creates a Service. A nil logger disables logging.
func NewService(compiler Compiler, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{compiler: compiler, logger: logger.Named("scss")}
}

// ImportPaths returns the load paths for a project: the defaults followed by
// extraImportPaths, all resolved against projectDirectory.
func ImportPaths(projectDirectory string, extraImportPaths []string) []string {
	importPaths := make([]string, 0, len(defaultImportPaths)+len(extraImportPaths))
	for _, importPath := range defaultImportPaths {
		importPaths = append(importPaths, utils.ResolveProjectPath(projectDirectory, importPath))
	}
	for _, importPath := range utils.DeduplicatePatterns(extraImportPaths) {
		importPaths = append(importPaths, utils.ResolveProjectPath(projectDirectory, importPath))
	}
	return importPaths
}

// MissingInputHints suggests how to provide a missing entry file.
func MissingInputHints(inputPath string) []string {
	switch filepath.ToSlash(inputPath) {
	case VendorEntryPath:
		return []string{vendorEntryHint}
	case DefaultInputPath:
		return []string{fmt.Sprintf(customEntryHintFormat, DefaultInputPath, VendorEntryPath)}
	}
	return nil
}

func (job Job) withDefaults() Job {
	if job.InputPath == "" {
		job.InputPath = DefaultInputPath
	}
	if job.OutputPath == "" {
		job.OutputPath = DefaultOutputPath
	}
	if job.Style == "" {
		job.Style = types.StyleCompressed
	}
	return job
}

// CheckInput reports types.ErrInputNotFound when the entry file of job is
// missing, so callers can fail before starting a compiler.
func CheckInput(job Job) error {
	job = job.withDefaults()
	inputPath := utils.ResolveProjectPath(job.ProjectDirectory, job.InputPath)
	if _, statError := os.Stat(inputPath); statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return fmt.Errorf(missingInputMessageShape, types.ErrInputNotFound, job.InputPath)
		}
		return fmt.Errorf("stat %s: %w", job.InputPath, statError)
	}
	return nil
}

// Compile compiles job.InputPath and writes the CSS, plus a source map when
// requested, to job.OutputPath.
func (service *Service) Compile(ctx context.Context, job Job) (types.CompileReport, error) {
	if service == nil || service.compiler == nil {
		return types.CompileReport{}, types.ErrBackendUnavailable
	}
	job = job.withDefaults()
	if job.Style != types.StyleCompressed && job.Style != types.StyleExpanded {
		return types.CompileReport{}, fmt.Errorf("unsupported output style %q", job.Style)
	}

	inputPath := utils.ResolveProjectPath(job.ProjectDirectory, job.InputPath)
	outputPath := utils.ResolveProjectPath(job.ProjectDirectory, job.OutputPath)

	source, readError := os.ReadFile(inputPath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return types.CompileReport{}, fmt.Errorf(missingInputMessageShape, types.ErrInputNotFound, job.InputPath)
		}
		return types.CompileReport{}, fmt.Errorf("read %s: %w", job.InputPath, readError)
	}

	absoluteInputPath, absoluteError := filepath.Abs(inputPath)
	if absoluteError != nil {
		absoluteInputPath = inputPath
	}
	compiled, compileError := service.compiler.Compile(ctx, Request{
		Source:      string(source),
		OriginPath:  absoluteInputPath,
		Style:       job.Style,
		ImportPaths: ImportPaths(job.ProjectDirectory, job.ImportPaths),
		SourceMap:   job.SourceMap,
	})
	if compileError != nil {
		return types.CompileReport{}, compileError
	}

	if mkdirError := os.MkdirAll(filepath.Dir(outputPath), outputDirectoryMode); mkdirError != nil {
		return types.CompileReport{}, fmt.Errorf("%w: create output directory: %v", types.ErrWrite, mkdirError)
	}

	report := types.CompileReport{
		InputPath:  job.InputPath,
		OutputPath: job.OutputPath,
		Style:      job.Style,
	}
	css := compiled.CSS
	if job.SourceMap && compiled.SourceMap != "" {
		sourceMapPath := outputPath + sourceMapExtension
		if writeError := os.WriteFile(sourceMapPath, []byte(compiled.SourceMap), outputFileMode); writeError != nil {
			return types.CompileReport{}, fmt.Errorf("%w: %v", types.ErrWrite, writeError)
		}
		css += fmt.Sprintf(sourceMappingURLFormat, filepath.Base(sourceMapPath))
		report.SourceMapPath = job.OutputPath + sourceMapExtension
	}
	if writeError := os.WriteFile(outputPath, []byte(css), outputFileMode); writeError != nil {
		return types.CompileReport{}, fmt.Errorf("%w: %v", types.ErrWrite, writeError)
	}
	report.OutputBytes = int64(len(css))

	service.logger.Debug("compiled", zap.String("input", job.InputPath), zap.String("output", job.OutputPath), zap.Int64("bytes", report.OutputBytes))
	return report, nil
}
