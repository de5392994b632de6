package summary

import (
	"fmt"
	"slices"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// codecVersion is bumped whenever the file layout changes. Readers treat any
// other version as an empty cache rather than guessing at the layout.
const codecVersion = 1

// encode serializes entries as: version, count, then (hash, summary) pairs.
// Pairs are written sorted by hash so equal caches produce equal bytes.
func encode(entries map[string]string) []byte {
	hashes := make([]string, 0, len(entries))
	for h := range entries {
		hashes = append(hashes, h)
	}
	slices.Sort(hashes)

	size := varint.Int.Size(codecVersion) + varint.Int.Size(len(entries))
	for _, h := range hashes {
		size += ord.String.Size(h) + ord.String.Size(entries[h])
	}

	bs := make([]byte, size)
	n := varint.Int.Marshal(codecVersion, bs)
	n += varint.Int.Marshal(len(entries), bs[n:])
	for _, h := range hashes {
		n += ord.String.Marshal(h, bs[n:])
		n += ord.String.Marshal(entries[h], bs[n:])
	}
	return bs
}

// decode parses a cache file produced by encode. Any structural problem,
// including trailing bytes, reports ErrCacheCorrupt; a version other than
// codecVersion reports ErrCacheVersion.
func decode(bs []byte) (map[string]string, error) {
	version, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCacheCorrupt, err)
	}
	if version != codecVersion {
		return nil, fmt.Errorf("%w: found version %d, want %d", ErrCacheVersion, version, codecVersion)
	}

	count, m, err := varint.Int.Unmarshal(bs[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCacheCorrupt, err)
	}
	n += m
	if count < 0 || count > len(bs) {
		return nil, fmt.Errorf("%w: implausible entry count %d", ErrCacheCorrupt, count)
	}

	entries := make(map[string]string, count)
	for i := 0; i < count; i++ {
		hash, m, err := ord.String.Unmarshal(bs[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCacheCorrupt, err)
		}
		n += m

		text, m, err := ord.String.Unmarshal(bs[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCacheCorrupt, err)
		}
		n += m

		entries[hash] = text
	}

	if n != len(bs) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCacheCorrupt, len(bs)-n)
	}
	return entries, nil
}
