package profile

// Config functions return all supported pprof configuration parameters.
type Config func() (mode, path string, quiet bool)

// Stopper stops a running profiler and flushes its output.
type Stopper interface{ Stop() }

// Start initializes the profiler and returns a [Stopper].
//
// If the binary was built without the pprof tag, or the configured mode is
// empty or unknown, Start returns a no-op implementation.
func (c Config) Start() Stopper {
	if c == nil {
		return ignore{}
	}

	mode, path, quiet := c()
	if mode == "" {
		return ignore{}
	}

	return start(mode, path, quiet)
}

// Make returns a Config with the given options applied to an empty
// configuration.
func Make(opts ...func(Config) Config) Config {
	var c Config = func() (string, string, bool) { return "", "", false }

	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// WithMode returns a functional option for setting a profiler's mode.
func WithMode(mode string) func(Config) Config {
	return func(c Config) Config {
		_, path, quiet := c()

		return func() (string, string, bool) { return mode, path, quiet }
	}
}

// WithPath returns a functional option for setting a profiler's output path.
func WithPath(path string) func(Config) Config {
	return func(c Config) Config {
		mode, _, quiet := c()

		return func() (string, string, bool) { return mode, path, quiet }
	}
}

// WithQuiet returns a functional option for setting a profiler's quiet flag.
func WithQuiet(quiet bool) func(Config) Config {
	return func(c Config) Config {
		mode, path, _ := c()

		return func() (string, string, bool) { return mode, path, quiet }
	}
}

type ignore struct{}

func (ignore) Stop() {}
