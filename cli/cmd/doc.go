// Package cmd implements the permute subcommands: expand, fmt, init, and
// repl.
//
// Commands receive their shared state through [context.Context]: the parsed
// [kong.Context] ([WithContext]), global [Settings] ([WithSettings]), and
// optionally a writer replacing standard output ([WithOutput]).
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path of
	// the YAML configuration file written by init.
	ConfigIdentifier = "config"
)
