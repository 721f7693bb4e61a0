package engine

import "time"

// Options represents configuration options for the Engine.
type Options struct {
	PublishTimeout   time.Duration
	MetricsNamespace string
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		PublishTimeout:   5 * time.Second,
		MetricsNamespace: "matching_engine",
	}
}
