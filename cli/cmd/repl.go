package cmd

import (
	"context"
	"log/slog"
	"os"
	"slices"

	"github.com/ardnew/permute/cli/cmd/repl"
	"github.com/ardnew/permute/lang"
)

// Repl starts an interactive session. Lines are evaluated as scripts whose
// let bindings persist for the rest of the session.
type Repl struct {
	NoHistory bool     `help:"Do not read or write the history file." name:"no-history"`
	Files     []string `arg:""                                         help:"Script files, searched in --path, whose bindings preload the session." name:"file" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s := settingsFrom(ctx)

	session, err := r.preload(ctx, s)
	if err != nil {
		return err
	}

	cacheDir, err := r.cacheDir(ctx)
	if err != nil {
		return err
	}

	return repl.Run(ctx, session, cacheDir, s.Logger)
}

// preload creates a session holding the bindings of r.Files.
func (r *Repl) preload(ctx context.Context, s Settings) (*repl.Session, error) {
	session := repl.NewSession(s.Logger,
		lang.WithMaxCombinations(s.MaxCombinations))

	if len(r.Files) == 0 {
		return session, nil
	}

	if slices.Contains(r.Files, stdinSource) {
		return nil, ErrStdinREPL.With(slog.Any("files", r.Files))
	}

	paths, err := resolveSources(r.Files, s.SearchPath)
	if err != nil {
		return nil, err
	}

	srcs := buildSourceFiles(paths)
	if srcs == nil {
		return session, nil
	}
	defer srcs.Close()

	if srcs.Stdin() != nil {
		return nil, ErrStdinREPL.With(slog.Any("files", r.Files))
	}

	for name, rd := range srcs.All() {
		if _, err := session.Load(ctx, name, rd); err != nil {
			return nil, lang.WrapError(err).With(slog.String("command", "repl"))
		}
	}

	return session, nil
}

// cacheDir returns the directory holding the history file, creating it if
// needed. It is empty when history is disabled or no directory is configured.
func (r *Repl) cacheDir(ctx context.Context) (string, error) {
	if r.NoHistory {
		return "", nil
	}

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return "", nil
	}

	dir := ktx.Model.Vars()[CacheIdentifier]
	if dir == "" {
		return "", nil
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", ErrCacheDir.With(slog.String("dir", dir)).Wrap(err)
	}

	return dir, nil
}
