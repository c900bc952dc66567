// Package scss compiles SCSS entry files into CSS through an injected compiler.
package scss

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bep/godartsass/v2"
	"go.uber.org/zap"

	"github.com/temirov/csskit/internal/types"
)

const defaultCompileTimeout = 2 * time.Minute

// Request is a single compilation of SCSS source.
type Request struct {
	Source      string
	OriginPath  string
	Style       string
	ImportPaths []string
	SourceMap   bool
}

// Result is compiled CSS and, when requested, its source map.
type Result struct {
	CSS       string
	SourceMap string
}

// Compiler turns SCSS into CSS. Implementations report invalid SCSS and
// unresolved imports with types.ErrCompile.
type Compiler interface {
	Compile(ctx context.Context, request Request) (Result, error)
}

// DartSass compiles through the Dart Sass embedded protocol.
type DartSass struct {
	transpiler *godartsass.Transpiler
	logger     *zap.Logger
}

var _ Compiler = (*DartSass)(nil)

// NewDartSass starts the embedded Dart Sass process. An empty binaryPath
// looks for sass on PATH. Failure to start reports types.ErrBackendUnavailable.
func NewDartSass(binaryPath string, logger *zap.Logger) (*DartSass, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("scss")
	transpiler, startError := godartsass.Start(godartsass.Options{
		DartSassEmbeddedFilename: binaryPath,
		Timeout:                  defaultCompileTimeout,
		LogEventHandler: func(event godartsass.LogEvent) {
			logger.Warn("sass", zap.String("message", event.Message))
		},
	})
	if startError != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrBackendUnavailable, startError)
	}
	return &DartSass{transpiler: transpiler, logger: logger}, nil
}

// Compile runs one compilation. The embedded protocol has no cancellation, so
// ctx is only checked before the request is sent.
func (dartSass *DartSass) Compile(ctx context.Context, request Request) (Result, error) {
	if ctxError := ctx.Err(); ctxError != nil {
		return Result{}, ctxError
	}
	outputStyle := godartsass.OutputStyleCompressed
	if request.Style == types.StyleExpanded {
		outputStyle = godartsass.OutputStyleExpanded
	}
	dartSass.logger.Debug("compiling", zap.String("origin", request.OriginPath), zap.Strings("import_paths", request.ImportPaths))
	result, executeError := dartSass.transpiler.Execute(godartsass.Args{
		Source:                  request.Source,
		URL:                     fileURL(request.OriginPath),
		OutputStyle:             outputStyle,
		SourceSyntax:            godartsass.SourceSyntaxSCSS,
		IncludePaths:            request.ImportPaths,
		EnableSourceMap:         request.SourceMap,
		SourceMapIncludeSources: request.SourceMap,
	})
	if executeError != nil {
		var sassError godartsass.SassError
		if errors.As(executeError, &sassError) {
			return Result{}, fmt.Errorf("%w: %s", types.ErrCompile, sassError.Message)
		}
		return Result{}, fmt.Errorf("%w: %v", types.ErrCompile, executeError)
	}
	return Result{CSS: result.CSS, SourceMap: result.SourceMap}, nil
}

// Close stops the Dart Sass process.
func (dartSass *DartSass) Close() error {
	return dartSass.transpiler.Close()
}

func fileURL(path string) string {
	if path == "" {
		return ""
	}
	return "file://" + filepath.ToSlash(path)
}
