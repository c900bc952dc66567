package collector

import (
	"bufio"
	"os"
	"strings"

	"go.uber.org/multierr"
)

// LoadIgnoreFilePatterns reads exclude globs from an ignore file, one per line.
// Blank lines and lines starting with "#" are skipped. A missing file yields no patterns.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) (patterns []string, err error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		err = multierr.Append(err, fileHandle.Close())
	}()

	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
			continue
		}
		patterns = append(patterns, strings.TrimSuffix(trimmedLine, "/"))
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return patterns, nil
}
