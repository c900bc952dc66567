// Package scaffold writes the project SCSS entry files compiled by csskit.
package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/csskit/internal/types"
	"github.com/temirov/csskit/internal/utils"
)

const (
	// DefaultScssDirectory receives the entry files, relative to the project directory.
	DefaultScssDirectory = "assets/scss"
	// LightEntryFileName is the default compile input.
	LightEntryFileName = "bootstrap5-custom.scss"
	// DarkEntryFileName is the dark mode variant.
	DarkEntryFileName = "bootstrap5-custom-dark.scss"

	directoryMode = 0o755
	fileMode      = 0o644
)

type entryFile struct {
	name    string
	content string
}

var entryFiles = []entryFile{
	{name: LightEntryFileName, content: lightEntryTemplate},
	{name: DarkEntryFileName, content: darkEntryTemplate},
}

// Options controls a scaffold run.
type Options struct {
	ProjectDirectory string
	ScssDirectory    string
	Force            bool
	DryRun           bool
	Logger           *zap.Logger
}

// Initialize writes the entry files. Existing files are skipped unless Force
// is set; DryRun reports the planned actions without touching the disk.
func Initialize(options Options) (types.ScaffoldReport, error) {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	scssDirectory := options.ScssDirectory
	if scssDirectory == "" {
		scssDirectory = DefaultScssDirectory
	}
	report := types.ScaffoldReport{Directory: filepath.ToSlash(scssDirectory), DryRun: options.DryRun}
	absoluteDirectory := utils.ResolveProjectPath(options.ProjectDirectory, scssDirectory)

	directoryExists, statError := exists(absoluteDirectory)
	if statError != nil {
		return report, fmt.Errorf("inspect %s: %w", scssDirectory, statError)
	}
	if !directoryExists {
		report.DirectoryCreated = true
		if !options.DryRun {
			if mkdirError := os.MkdirAll(absoluteDirectory, directoryMode); mkdirError != nil {
				return report, fmt.Errorf("%w: create directory %s: %v", types.ErrWrite, scssDirectory, mkdirError)
			}
		}
	}

	for _, entry := range entryFiles {
		relativePath := path.Join(report.Directory, entry.name)
		destinationPath := filepath.Join(absoluteDirectory, entry.name)
		fileExists, fileStatError := exists(destinationPath)
		if fileStatError != nil {
			return report, fmt.Errorf("inspect %s: %w", relativePath, fileStatError)
		}

		action := types.ScaffoldActionCreated
		switch {
		case fileExists && !options.Force:
			action = types.ScaffoldActionSkipped
			report.Skipped++
		case options.DryRun && fileExists:
			action = types.ScaffoldActionWouldOverwrite
		case options.DryRun:
			action = types.ScaffoldActionWouldCreate
		default:
			if writeError := os.WriteFile(destinationPath, []byte(entry.content), fileMode); writeError != nil {
				return report, fmt.Errorf("%w: %s: %v", types.ErrWrite, relativePath, writeError)
			}
			if fileExists {
				action = types.ScaffoldActionOverwritten
				report.Overwritten++
			} else {
				report.Created++
			}
		}
		logger.Debug("scaffold", zap.String("path", relativePath), zap.String("action", action))
		report.Files = append(report.Files, types.ScaffoldFile{Path: relativePath, Action: action})
	}
	return report, nil
}

func exists(path string) (bool, error) {
	_, statError := os.Stat(path)
	if statError == nil {
		return true, nil
	}
	if errors.Is(statError, fs.ErrNotExist) {
		return false, nil
	}
	return false, statError
}
