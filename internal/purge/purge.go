// Package purge composes source collection, selector extraction and a CSS
// purge backend into a single purge operation.
package purge

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/csskit/internal/collector"
	"github.com/temirov/csskit/internal/selectors"
	"github.com/temirov/csskit/internal/types"
)

// Stylesheet is a loaded stylesheet that can be reduced to the rules a set of
// selectors uses.
type Stylesheet interface {
	Retain(selectors []string)
	Render(minify bool) (string, error)
}

// Backend loads stylesheets. Implementations report unparsable input with
// types.ErrInvalidCSS.
type Backend interface {
	Load(path string) (Stylesheet, error)
}

// Request describes one purge invocation.
type Request struct {
	CSSPath         string
	PathsToScan     []string
	ExtraSelectors  []string
	Readable        bool
	ExcludePatterns []string
	IgnoreFileName  string
}

// Result carries the kept selectors, the purged stylesheet and statistics.
type Result struct {
	Kept  []string
	CSS   string
	Stats types.PurgeStats
}

// Service runs purge requests against a backend.
type Service struct {
	backend Backend
	cache   *collector.Cache
	logger  *zap.Logger
}

// NewService creates a Service. cache may be nil; a nil logger disables logging.
func NewService(backend Backend, cache *collector.Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: backend, cache: cache, logger: logger.Named("purge")}
}

// Purge scans request.PathsToScan for used selectors and removes every rule of
// request.CSSPath that none of them reference.
func (service *Service) Purge(ctx context.Context, request Request) (Result, error) {
	if service == nil || service.backend == nil {
		return Result{}, types.ErrBackendUnavailable
	}
	if _, statError := os.Stat(request.CSSPath); statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return Result{}, fmt.Errorf("%w: %s", types.ErrInputNotFound, request.CSSPath)
		}
		return Result{}, fmt.Errorf("stat %s: %w", request.CSSPath, statError)
	}

	collected, collectError := collector.Collect(ctx, request.PathsToScan, collector.Options{
		ExcludePatterns: request.ExcludePatterns,
		IgnoreFileName:  request.IgnoreFileName,
		Cache:           service.cache,
		Logger:          service.logger,
	})
	if collectError != nil {
		return Result{}, fmt.Errorf("collect sources: %w", collectError)
	}

	foundSelectors := selectors.Extract(collected.Content)
	for _, extraSelector := range request.ExtraSelectors {
		trimmedSelector := strings.TrimSpace(extraSelector)
		if trimmedSelector != "" {
			foundSelectors = append(foundSelectors, trimmedSelector)
		}
	}
	keptSelectors := selectors.Normalize(foundSelectors)
	service.logger.Debug("selectors collected",
		zap.Int("found", len(foundSelectors)),
		zap.Int("normalized", len(keptSelectors)),
		zap.Int("scanned_files", len(collected.ScannedFiles)),
	)

	stylesheet, loadError := service.backend.Load(request.CSSPath)
	if loadError != nil {
		return Result{}, fmt.Errorf("load stylesheet: %w", loadError)
	}
	stylesheet.Retain(keptSelectors)
	purgedCSS, renderError := stylesheet.Render(!request.Readable)
	if renderError != nil {
		return Result{}, fmt.Errorf("render stylesheet: %w", renderError)
	}

	return Result{
		Kept: keptSelectors,
		CSS:  purgedCSS,
		Stats: types.PurgeStats{
			Found:        len(foundSelectors),
			Normalized:   len(keptSelectors),
			ScannedFiles: collected.ScannedFiles,
		},
	}, nil
}
