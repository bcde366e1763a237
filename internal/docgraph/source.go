package docgraph

import (
	"context"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds how many document bodies a FileSource keeps in memory.
const DefaultCacheSize = 1024

// Source reads the raw content of a document.
type Source interface {
	Read(ctx context.Context, path string) ([]byte, error)
}

// FileSource reads documents from the local filesystem. Contents are cached for the
// lifetime of the FileSource so several root walks over one tree read each file once;
// the cache never outlives a single build.
type FileSource struct {
	cache *lru.Cache[string, []byte]
}

// NewFileSource creates a FileSource caching up to cacheSize documents.
// A non-positive size selects DefaultCacheSize.
func NewFileSource(cacheSize int) (*FileSource, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, err
	}
	return &FileSource{cache: cache}, nil
}

// Read returns the content at path.
func (s *FileSource) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if content, ok := s.cache.Get(path); ok {
		return content, nil
	}
	// #nosec G304 -- paths come from the configured source tree and its links
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s.cache.Add(path, content)
	return content, nil
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, path string) ([]byte, error)

func (f SourceFunc) Read(ctx context.Context, path string) ([]byte, error) { return f(ctx, path) }
