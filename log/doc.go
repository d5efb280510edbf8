// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Time formatting, caller information, output format, and terminal styling
// are fixed at logger creation time using functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Warn("unused binding", slog.String("name", "T"))
//
// The zero [Logger] discards everything, so library code can accept one
// without requiring callers to configure it.
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a new logger from an existing configuration:
//
//	quiet := logger.Wrap(log.WithLevel(log.LevelError))
//
// # Context-Aware Logging
//
// Each level has a context-aware and a context-unaware variant. The
// context-unaware variants use [DefaultContextProvider], which returns
// [context.TODO] by default.
//
// # Levels
//
// Five levels are defined: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. [DefaultLevel] is [LevelWarn].
//
// # Output Formats
//
// [FormatText] (default) writes key=value lines and [FormatJSON] writes JSON
// objects. With [WithPretty] enabled, text is colorized and JSON is indented.
// Colors are emitted only when the output is a terminal.
package log
