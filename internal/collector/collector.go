// Package collector gathers the contents of template and script files that may reference CSS selectors.
package collector

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/csskit/internal/utils"
)

const (
	defaultConcurrency = 8
	fileMarkerFormat   = "\n\n/* FILE: %s */\n"
)

var eligibleExtensions = map[string]struct{}{
	"twig":  {},
	"html":  {},
	"htm":   {},
	"php":   {},
	"phtml": {},
	"js":    {},
	"ts":    {},
	"vue":   {},
	"jsx":   {},
	"tsx":   {},
	"md":    {},
}

// Options tunes how Collect discovers and reads files.
type Options struct {
	// ExcludePatterns are doublestar globs matched against paths relative to each scanned directory.
	ExcludePatterns []string
	// IgnoreFileName names a file of additional exclude globs read from each scanned directory root.
	IgnoreFileName string
	// Concurrency bounds parallel file reads. Zero selects a default.
	Concurrency int
	// Cache serves unchanged files from memory when set.
	Cache  *Cache
	Logger *zap.Logger
}

// Result is the concatenated content of every scanned file.
type Result struct {
	Content      string
	ScannedFiles []string
	// ReadFailures aggregates files that were scanned but could not be read; they contribute no content.
	ReadFailures error
}

// IsEligible reports whether path has one of the scannable extensions.
func IsEligible(path string) bool {
	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	_, eligible := eligibleExtensions[extension]
	return eligible
}

// Collect reads every eligible file reachable from paths. Missing paths are
// skipped and unreadable files contribute empty content; the only errors
// returned are invalid exclude patterns and context cancellation.
func Collect(ctx context.Context, paths []string, options Options) (Result, error) {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("collector")

	for _, pattern := range options.ExcludePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return Result{}, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	scannedFiles := discoverFiles(paths, options, logger)

	contents := make([]string, len(scannedFiles))
	failures := make([]error, len(scannedFiles))
	concurrency := options.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)
	for fileIndex, filePath := range scannedFiles {
		fileIndex, filePath := fileIndex, filePath
		group.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			fileContent, readError := options.Cache.Read(filePath)
			if readError != nil {
				failures[fileIndex] = fmt.Errorf("read %s: %w", filePath, readError)
				return nil
			}
			contents[fileIndex] = fileContent
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return Result{}, waitError
	}

	var contentBuilder strings.Builder
	for fileIndex, filePath := range scannedFiles {
		contentBuilder.WriteString(fmt.Sprintf(fileMarkerFormat, filePath))
		contentBuilder.WriteString(contents[fileIndex])
	}

	readFailures := multierr.Combine(failures...)
	for _, failure := range multierr.Errors(readFailures) {
		logger.Warn("skipping unreadable file", zap.Error(failure))
	}
	logger.Debug("collected sources", zap.Int("files", len(scannedFiles)), zap.Int("bytes", contentBuilder.Len()))

	return Result{
		Content:      contentBuilder.String(),
		ScannedFiles: scannedFiles,
		ReadFailures: readFailures,
	}, nil
}

// discoverFiles expands paths into eligible files in input order, walking
// directories depth-first in lexical order.
func discoverFiles(paths []string, options Options, logger *zap.Logger) []string {
	scannedFiles := make([]string, 0)
	for _, inputPath := range paths {
		if inputPath == "" {
			continue
		}
		fileInformation, statError := os.Stat(inputPath)
		if statError != nil {
			if !os.IsNotExist(statError) {
				logger.Warn("skipping path", zap.String("path", inputPath), zap.Error(statError))
			} else {
				logger.Debug("skipping missing path", zap.String("path", inputPath))
			}
			continue
		}
		if !fileInformation.IsDir() {
			if IsEligible(inputPath) {
				scannedFiles = append(scannedFiles, inputPath)
			}
			continue
		}
		excludePatterns := append([]string{}, options.ExcludePatterns...)
		if options.IgnoreFileName != "" {
			ignorePatterns, ignoreError := LoadIgnoreFilePatterns(filepath.Join(inputPath, options.IgnoreFileName))
			if ignoreError != nil {
				logger.Warn("ignoring unreadable ignore file", zap.String("directory", inputPath), zap.Error(ignoreError))
			}
			excludePatterns = append(excludePatterns, ignorePatterns...)
		}
		scannedFiles = append(scannedFiles, walkDirectory(inputPath, utils.DeduplicatePatterns(excludePatterns), logger)...)
	}
	return scannedFiles
}

func walkDirectory(rootDirectory string, excludePatterns []string, logger *zap.Logger) []string {
	var directoryFiles []string
	walkError := filepath.WalkDir(rootDirectory, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if accessError != nil {
			logger.Warn("skipping inaccessible path", zap.String("path", walkedPath), zap.Error(accessError))
			if directoryEntry != nil && directoryEntry.IsDir() && walkedPath != rootDirectory {
				return filepath.SkipDir
			}
			return nil
		}
		relativePath := utils.RelativePathOrSelf(walkedPath, rootDirectory)
		if relativePath == "." {
			return nil
		}
		if isExcluded(relativePath, excludePatterns) {
			if directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if directoryEntry.IsDir() || !IsEligible(walkedPath) {
			return nil
		}
		directoryFiles = append(directoryFiles, walkedPath)
		return nil
	})
	if walkError != nil {
		logger.Warn("directory walk stopped early", zap.String("directory", rootDirectory), zap.Error(walkError))
	}
	return directoryFiles
}

func isExcluded(relativePath string, excludePatterns []string) bool {
	for _, pattern := range excludePatterns {
		if matched, _ := doublestar.Match(pattern, relativePath); matched {
			return true
		}
	}
	return false
}
