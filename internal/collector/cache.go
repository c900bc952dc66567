package collector

import (
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cachedFile struct {
	modTime time.Time
	size    int64
	content string
}

// Cache keeps recently read file contents and serves them again while the
// file's size and modification time are unchanged. A nil Cache reads from disk.
type Cache struct {
	entries *lru.Cache[string, cachedFile]
}

// NewCache creates a cache holding at most maxFiles files.
func NewCache(maxFiles int) (*Cache, error) {
	entries, err := lru.New[string, cachedFile](maxFiles)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// Read returns the content of path, from memory when the cached copy is current.
func (cache *Cache) Read(path string) (string, error) {
	if cache == nil {
		fileBytes, readError := os.ReadFile(path)
		if readError != nil {
			return "", readError
		}
		return string(fileBytes), nil
	}
	fileInformation, statError := os.Stat(path)
	if statError != nil {
		cache.entries.Remove(path)
		return "", statError
	}
	if entry, found := cache.entries.Get(path); found && entry.size == fileInformation.Size() && entry.modTime.Equal(fileInformation.ModTime()) {
		return entry.content, nil
	}
	fileBytes, readError := os.ReadFile(path)
	if readError != nil {
		cache.entries.Remove(path)
		return "", readError
	}
	cache.entries.Add(path, cachedFile{
		modTime: fileInformation.ModTime(),
		size:    fileInformation.Size(),
		content: string(fileBytes),
	})
	return string(fileBytes), nil
}

// Invalidate forgets path so the next Read goes to disk.
func (cache *Cache) Invalidate(path string) {
	if cache == nil {
		return
	}
	cache.entries.Remove(path)
}

// Len reports the number of cached files.
func (cache *Cache) Len() int {
	if cache == nil {
		return 0
	}
	return cache.entries.Len()
}
