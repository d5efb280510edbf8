// Package cli contains the command line interface for permute.
//
// # Usage
//
// Expansion is the default command, so a script can be expanded by naming it:
//
//	permute defs.pm impls.pm > out.rs
//	permute expand -o json impls.pm
//
// Script files that are not found relative to the working directory are
// searched for in each --path directory, then in each directory listed in
// the environment variable PERMUTE_PATH (the prefix follows the executable
// name).
//
//	permute -I ./lib -I ./vendor impls.pm
//
// The fmt command reformats a script without evaluating it, and repl starts
// an interactive session.
//
// # Configuration
//
// Flag defaults are read from config.yaml and config.json in the user's
// configuration directory. The init command writes the current flag values
// to config.yaml:
//
//	permute --log-level=info --max-combinations=4096 init
//
// Nested YAML maps are joined with hyphens, so "log: {level: info}" sets
// --log-level. Flags given on the command line override the files.
//
// # Logging
//
// The --log-* flags configure the default logger before any command runs:
//
//	permute --log-level=debug --log-format=json --no-log-pretty expand x.pm
//
// # Profiling
//
// When built with the pprof tag, --pprof-mode and --pprof-dir enable
// runtime profiling for the duration of the command.
package cli
