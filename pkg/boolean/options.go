package boolean

import (
	"runtime"

	"go.uber.org/zap"
)

// Options tunes a boolean operation. The zero value is not usable;
// start from DefaultOptions.
type Options struct {
	// Workers bounds the goroutines resolving face regions in
	// parallel.
	Workers int
	// RayRetries is how many fresh random directions a region probe
	// tries after degenerate hits before giving up.
	RayRetries int
	// Logger receives pipeline diagnostics. Nil means silent.
	Logger *zap.Logger
}

// DefaultOptions returns the options And and Or run with.
func DefaultOptions() Options {
	return Options{
		Workers:    runtime.GOMAXPROCS(0),
		RayRetries: 16,
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
