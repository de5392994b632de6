package summary

import "errors"

var (
	// ErrCacheCorrupt indicates the cache file could not be decoded.
	ErrCacheCorrupt = errors.New("summary cache corrupt")

	// ErrCacheVersion indicates the cache file was written in an
	// incompatible format version.
	ErrCacheVersion = errors.New("summary cache version mismatch")

	// ErrCachePathRequired is returned when a cache file path is not provided.
	ErrCachePathRequired = errors.New("cache path required")

	// ErrCacheRequired is returned when a cache is not provided.
	ErrCacheRequired = errors.New("cache required")

	// ErrSummarizerRequired is returned when a summarizer is not provided.
	ErrSummarizerRequired = errors.New("summarizer required")
)
