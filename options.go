package delaunay

import "fmt"

// Options controls a single Triangulate call. The zero value equals
// defaultOptions; Option values are applied on top of it.
type Options struct {
	// Debug turns on quadedge.Store's post-operation invariant checking.
	// It re-walks every affected Onext ring after each operation, so it
	// defaults to off and exists for testing and diagnosing suspected
	// library bugs, not for production use.
	Debug bool
}

// Option mutates an Options value while it is being built. Unlike a plain
// setter, an Option can reject its own argument, which is why an Option
// returns an error rather than panicking.
type Option func(*Options) error

func defaultOptions() Options {
	return Options{Debug: false}
}

// WithDebug turns on quad-edge invariant checking during triangulation.
func WithDebug(debug bool) Option {
	return func(o *Options) error {
		o.Debug = debug
		return nil
	}
}

func (o Options) validate() error {
	return nil
}

func resolveOptions(opts []Option) (Options, error) {
	o := defaultOptions()
	for _, apply := range opts {
		if err := apply(&o); err != nil {
			return Options{}, fmt.Errorf("delaunay: invalid option: %w", err)
		}
	}
	if err := o.validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}
