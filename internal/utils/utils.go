// Package utils contains general helper functions used across csskit.
package utils

import (
	"path/filepath"
	"strings"
)

// DeduplicatePatterns removes duplicate entries from a slice while preserving order.
// Entries are trimmed and empty entries are dropped.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{}, len(patterns))
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if _, exists := encounteredPatterns[trimmedPattern]; exists {
			continue
		}
		encounteredPatterns[trimmedPattern] = struct{}{}
		result = append(result, trimmedPattern)
	}
	return result
}

// RelativePathOrSelf calculates the forward-slash relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	cleanRoot := filepath.Clean(root)
	if cleanPath == cleanRoot {
		return "."
	}
	relativePath, relErr := filepath.Rel(cleanRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// ResolveProjectPath joins a relative path onto projectDirectory, leaving absolute paths untouched.
func ResolveProjectPath(projectDirectory, path string) string {
	if path == "" || filepath.IsAbs(path) || projectDirectory == "" {
		return path
	}
	return filepath.Join(projectDirectory, path)
}
