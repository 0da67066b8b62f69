package convolve

import (
	"log/slog"
	"runtime"
)

// DefaultBlocksPerWorker controls how finely lines are split across workers.
const DefaultBlocksPerWorker = 4

const panicWorkersInvalid = "convolve: WithWorkers: workers must be >= 0"

// Option configures a Stage.
type Option func(*Options)

// Options holds the effective Stage configuration.
type Options struct {
	workers int // 0 ⇒ runtime.GOMAXPROCS(0)
	logger  *slog.Logger
}

// WithWorkers bounds the number of goroutines used inside one pass.
// Zero selects runtime.GOMAXPROCS(0); one runs the pass on the caller's goroutine.
//
// Panics when n < 0.
func WithWorkers(n int) Option {
	if n < 0 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithLogger sets the logger for per-pass debug records. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

func gatherOptions(user ...Option) Options {
	o := Options{logger: slog.Default()}
	for _, set := range user {
		set(&o)
	}
	if o.workers == 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	return o
}
