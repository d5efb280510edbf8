//go:build pprof

package profile

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"

	_ "net/http/pprof" // register HTTP handlers
)

// Modes returns the profiling modes accepted by --pprof-mode, sorted by
// name. The quiet setting is controlled separately and is not listed.
var Modes = sync.OnceValue(
	func() []string {
		return slices.Sorted(maps.Keys(modes))
	},
)

// modes maps each --pprof-mode value to the pkg/profile option selecting it.
var modes = map[string]func(*profile.Profile){
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"clock":     profile.ClockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"heap":      profile.MemProfileHeap,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// start profiles one permute command run. Unknown modes profile nothing.
func start(mode, path string, quiet bool) Stopper {
	opts, ok := options(mode, path, quiet)
	if !ok {
		return ignore{}
	}

	return profile.Start(opts...)
}

// options returns the pkg/profile options for a run. The shutdown hook is
// always disabled since the CLI stops the profiler when the command
// returns, including on interrupt through its context.
func options(mode, path string, quiet bool) ([]func(*profile.Profile), bool) {
	selected, ok := modes[mode]
	if !ok {
		return nil, false
	}

	opts := []func(*profile.Profile){selected, profile.NoShutdownHook}

	if path != "" {
		opts = append(opts, profile.ProfilePath(path))
	}

	if quiet {
		opts = append(opts, profile.Quiet)
	}

	return opts, true
}
