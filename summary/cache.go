// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package summary

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache is a persistent map from content hash to summary text held in a
// single file. It is safe for concurrent use within a process. Across
// processes, atomic whole-file replacement plus a re-read merge before each
// write keeps concurrent updaters from clobbering each other's entries.
type Cache struct {
	path   string
	logger *slog.Logger
	group  singleflight.Group

	mu      sync.RWMutex
	entries map[string]string
}

// Option is a functional option for configuring a Cache.
type Option func(*Cache) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewCache opens the cache file at path, creating an empty cache when the
// file is missing. A file that cannot be read or decoded is ignored with a
// warning; the cache is an accelerator and must never block a search.
func NewCache(path string, opts ...Option) (*Cache, error) {
	if path == "" {
		return nil, ErrCachePathRequired
	}

	c := &Cache{
		path:   path,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", "summary-cache")
	c.entries = c.readFile()
	c.logger.Debug("summary cache opened", "path", path, "entries", len(c.entries))
	return c, nil
}

// GetOrCompute returns the summary stored under hash, invoking compute
// exactly once per process on a miss. The result is stored and persisted
// before returning. A failed persist is logged and does not fail the
// computation; the summary is still served and stays cached in memory.
func (c *Cache) GetOrCompute(hash string, compute func() (string, error)) (string, error) {
	c.mu.RLock()
	text, ok := c.entries[hash]
	c.mu.RUnlock()
	if ok {
		return text, nil
	}

	v, err, _ := c.group.Do(hash, func() (any, error) {
		// A concurrent caller may have stored it while we waited.
		c.mu.RLock()
		text, ok := c.entries[hash]
		c.mu.RUnlock()
		if ok {
			return text, nil
		}

		text, err := compute()
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		c.entries[hash] = text
		c.mu.Unlock()

		if err := c.save(); err != nil {
			c.logger.Warn("summary cache write failed", "path", c.path, "err", err)
		}
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Get returns the summary stored under hash, if any.
func (c *Cache) Get(hash string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, ok := c.entries[hash]
	return text, ok
}

// Len returns the number of cached summaries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Path returns the cache file location.
func (c *Cache) Path() string {
	return c.path
}

// Clear empties the cache and removes its file. A file that is already gone
// is not an error.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.entries = map[string]string{}
	c.mu.Unlock()

	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// readFile loads the cache file. Missing files read as an empty cache
// silently (the normal first run); unreadable or undecodable files read as
// an empty cache with a warning.
func (c *Cache) readFile() map[string]string {
	bs, err := os.ReadFile(c.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("summary cache unreadable, starting empty", "path", c.path, "err", err)
		}
		return map[string]string{}
	}

	entries, err := decode(bs)
	if err != nil {
		c.logger.Warn("summary cache ignored, starting empty", "path", c.path, "err", err)
		return map[string]string{}
	}
	return entries
}

// save writes every entry atomically: serialize to a temp file alongside the
// target, fsync, rename over the old file. The file on disk is re-read and
// merged first, so entries written by another process since our load
// survive. Entries computed locally win on conflict.
func (c *Cache) save() error {
	c.mu.Lock()
	for hash, text := range c.readFile() {
		if _, ok := c.entries[hash]; !ok {
			c.entries[hash] = text
		}
	}
	bs := encode(c.entries)
	c.mu.Unlock()

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(bs); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.path)
}
