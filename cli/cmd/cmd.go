package cmd

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/permute/lang"
	"github.com/ardnew/permute/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Settings are the global options shared by every command.
type Settings struct {
	// SearchPath lists directories searched for script files that are not
	// found relative to the working directory.
	SearchPath []string
	// MaxCombinations bounds the combinations of one for item (0 is
	// unbounded).
	MaxCombinations int
	// Logger receives evaluation traces.
	Logger log.Logger
}

type settingsKey struct{}

// WithSettings returns a new context.Context containing s.
func WithSettings(ctx context.Context, s Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

// settingsFrom returns the Settings stored in ctx, or defaults that log to
// the package default logger.
func settingsFrom(ctx context.Context) Settings {
	s, ok := ctx.Value(settingsKey{}).(Settings)
	if !ok {
		s.Logger = log.Default()
	}

	return s
}

// langOptions returns the parse and evaluation options for s.
func (s Settings) langOptions() []lang.Option {
	return []lang.Option{
		lang.WithLogger(s.Logger),
		lang.WithMaxCombinations(s.MaxCombinations),
	}
}

type outputKey struct{}

// WithOutput returns a new context.Context whose commands write their results
// to w instead of standard output.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

// outputFrom returns the writer stored by WithOutput, the kong context's
// stdout, or os.Stdout.
func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

type (
	// source is one named input.
	source struct {
		name string
		r    io.Reader
	}

	sourceFiles struct {
		read     []source
		hasStdin bool
	}

	// SourceFiles is a deduplicated, ordered set of script inputs.
	SourceFiles interface {
		IsZero() bool
		Stdin() io.Reader
		All() iter.Seq2[string, io.Reader]
		io.Reader
		io.WriterTo
		io.Closer
	}
)

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.read) == 0 && !s.hasStdin }

// Stdin returns os.Stdin if stdin was included as a source, or nil otherwise.
func (s *sourceFiles) Stdin() io.Reader {
	if s.hasStdin {
		return os.Stdin
	}

	return nil
}

// All returns an iterator over the sources in reading order, stdin last.
func (s *sourceFiles) All() iter.Seq2[string, io.Reader] {
	return func(yield func(string, io.Reader) bool) {
		for _, src := range s.read {
			if !yield(src.name, src.r) {
				return
			}
		}

		if s.hasStdin {
			yield(stdinSource, os.Stdin)
		}
	}
}

func (s *sourceFiles) readers() []io.Reader {
	readers := make([]io.Reader, 0, len(s.read)+1)
	for _, r := range s.All() {
		readers = append(readers, r)
	}

	return readers
}

// Read implements io.Reader by reading from all source files in order,
// including stdin if present.
func (s *sourceFiles) Read(p []byte) (n int, err error) {
	return io.MultiReader(s.readers()...).Read(p)
}

// WriteTo implements io.WriterTo by writing all source files to w in order,
// including stdin if present.
func (s *sourceFiles) WriteTo(w io.Writer) (n int64, err error) {
	return io.Copy(w, io.MultiReader(s.readers()...))
}

// Close closes every opened file. Stdin is left open.
func (s *sourceFiles) Close() error {
	var first error

	for _, src := range s.read {
		if c, ok := src.r.(io.Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}

	return first
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// buildSourceFiles opens the given source paths as a [SourceFiles].
//
// Readers are deduplicated by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin reader,
// placed last so it reads after all regular files. Paths that cannot be
// opened are skipped.
func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.read = make([]source, 0, len(sources))
	seen := make(map[fileKey]struct{})

	var stdinKey fileKey
	if stdinInfo, err := os.Stdin.Stat(); err == nil {
		stdinKey, _ = makeFileKey(stdinInfo)
	}

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		reader, ok := openUniqueFile(src, seen)
		if !ok {
			continue
		}

		srcs.read = append(srcs.read, source{name: src, r: reader})
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	_, srcs.hasStdin = seen[stdinKey]
	delete(seen, stdinKey)

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// Returns the opened file and true if successful, or nil and false if the file
// is a duplicate or cannot be opened.
func openUniqueFile(path string, seen map[fileKey]struct{}) (io.Reader, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false
	}

	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		return nil, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return nil, false
	}

	if _, exists := seen[key]; exists {
		return nil, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false
	}

	return file, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// resolveSources maps each script name to a path that exists, trying the
// name as given and then each directory of searchPath in order. "-" is kept
// as is.
func resolveSources(names, searchPath []string) ([]string, error) {
	paths := make([]string, 0, len(names))

	for _, name := range names {
		path, err := resolveSource(name, searchPath)
		if err != nil {
			return nil, err
		}

		paths = append(paths, path)
	}

	return paths, nil
}

func resolveSource(name string, searchPath []string) (string, error) {
	if name == stdinSource || isFile(name) {
		return name, nil
	}

	if !filepath.IsAbs(name) {
		for _, dir := range searchPath {
			if path := filepath.Join(dir, name); isFile(path) {
				return path, nil
			}
		}
	}

	return "", ErrSourceNotFound.With(
		slog.String("file", name),
		slog.Any("search_path", searchPath),
	)
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}
