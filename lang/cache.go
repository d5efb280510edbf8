package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parsed scripts keyed by source hash.
var globalCache sync.Map

// entry parses one source exactly once, however many callers request it.
type entry struct {
	once   sync.Once
	script *Script
	err    error
}

// ParseString scans and parses source. Results are cached by content, so
// parsing the same text again returns the same [Script]. Callers must not
// modify a returned Script.
func ParseString(
	ctx context.Context,
	source string,
	opts ...Option,
) (*Script, error) {
	o := makeOptions(opts...)

	hash := xxh3.HashString(source)
	key := strconv.FormatUint(hash, 36)

	value, hit := globalCache.LoadOrStore(key, new(entry))

	e, ok := value.(*entry)
	if !ok {
		return nil, ErrParse.
			With(slog.String("issue", "invalid entry type in cache"))
	}

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", hit),
	)

	e.once.Do(func() {
		e.script, e.err = parseSource(ctx, source, opts...)
	})

	return e.script, e.err
}

// ParseReader reads all of r and parses it with [ParseString].
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Script, error) {
	// Read ahead asynchronously so I/O overlaps with buffering.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	makeOptions(opts...).logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return ParseString(ctx, string(data), opts...)
}

// parseSource scans and parses source, bypassing the cache.
func parseSource(
	ctx context.Context,
	source string,
	opts ...Option,
) (*Script, error) {
	seq, err := Scan(source)
	if err != nil {
		return nil, WrapError(err).
			With(slog.Int("source_length", len(source)))
	}

	return Parse(ctx, seq, opts...)
}

// ClearCache removes all cached scripts.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
