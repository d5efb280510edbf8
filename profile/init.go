package profile

// Config selects what to profile and where the output is written.
type Config struct {
	Mode  string
	Path  string
	Quiet bool
}

// Stopper ends a profiling session.
type Stopper interface{ Stop() }

// Make returns a Config with opts applied.
func Make(opts ...func(Config) Config) Config {
	var c Config

	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// Start begins profiling and returns a [Stopper] that ends it.
//
// If Mode is empty, unknown, or the binary was built without the pprof tag,
// Start returns a no-op. Both Start and Stop are always safe to call.
func (c Config) Start() Stopper {
	if c.Mode == "" {
		return ignore{}
	}

	return start(c.Mode, c.Path, c.Quiet)
}

// WithMode returns a functional option for setting a profiler's mode.
func WithMode(mode string) func(Config) Config {
	return func(c Config) Config {
		c.Mode = mode

		return c
	}
}

// WithPath returns a functional option for setting a profiler's output path.
func WithPath(path string) func(Config) Config {
	return func(c Config) Config {
		c.Path = path

		return c
	}
}

// WithQuiet returns a functional option for suppressing the profiler's own
// log messages.
func WithQuiet(quiet bool) func(Config) Config {
	return func(c Config) Config {
		c.Quiet = quiet

		return c
	}
}

type ignore struct{}

func (ignore) Stop() {}
