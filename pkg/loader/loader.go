// Package loader reads schema documents from disk into Value trees and keeps
// recently parsed documents in an LRU cache.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	schematools "github.com/speakeasy-api/jsonschema-tools"
	"github.com/speakeasy-api/jsonschema-tools/pkg/logging"
)

// DefaultCacheSize is the number of parsed documents kept by default.
const DefaultCacheSize = 1024

// Options configures New.
type Options struct {
	// CacheSize bounds the number of cached documents. Zero or less
	// disables caching.
	CacheSize int
	Logger    logging.Logger
}

type entry struct {
	doc     schematools.Value
	modTime time.Time
	size    int64
}

// Loader loads JSON and YAML schema files. It is safe for concurrent use.
type Loader struct {
	cache *lru.Cache[string, entry]
	log   logging.Logger

	// read is os.ReadFile outside tests.
	read func(string) ([]byte, error)
}

// New returns a Loader configured by opts.
func New(opts Options) (*Loader, error) {
	l := &Loader{log: opts.Logger, read: os.ReadFile}
	if l.log == nil {
		l.log = logging.Nop()
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, entry](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create document cache: %w", err)
		}
		l.cache = cache
	}
	return l, nil
}

// Load reads and decodes the file at path. A cached document is reused while
// the file's size and modification time are unchanged. The returned tree
// belongs to the caller.
func (l *Loader) Load(path string) (schematools.Value, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("failed to read schema %s: is a directory", path)
	}
	log := l.log.With(map[string]any{"path": abs})

	if l.cache != nil {
		if e, ok := l.cache.Get(abs); ok {
			if e.size == info.Size() && e.modTime.Equal(info.ModTime()) {
				log.Debugf("document cache hit")
				return schematools.Clone(e.doc), nil
			}
			log.Debugf("document changed on disk")
			l.cache.Remove(abs)
		}
	}

	data, err := l.read(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	doc, err := schematools.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema %s: %w", path, err)
	}
	log.Infof("loaded schema (%d bytes)", len(data))

	if l.cache != nil {
		l.cache.Add(abs, entry{doc: doc, modTime: info.ModTime(), size: info.Size()})
		return schematools.Clone(doc), nil
	}
	return doc, nil
}

// LoadAll loads every path in order and stops at the first failure.
func (l *Loader) LoadAll(paths []string) ([]schematools.Value, error) {
	docs := make([]schematools.Value, 0, len(paths))
	for _, p := range paths {
		doc, err := l.Load(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Cached returns the number of documents in the cache.
func (l *Loader) Cached() int {
	if l.cache == nil {
		return 0
	}
	return l.cache.Len()
}

// Purge empties the cache.
func (l *Loader) Purge() {
	if l.cache != nil {
		l.cache.Purge()
	}
}
