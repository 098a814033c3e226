package dedupe

type options struct {
	maxSize int
}

// Option configures a Deduper.
type Option func(*options)

// WithMaxSize sets the maximum number of keys to keep.
// If maxSize > 0: bounded mode, the oldest key is evicted first.
// If maxSize <= 0: unbounded mode.
func WithMaxSize(maxSize int) Option {
	return func(o *options) {
		o.maxSize = maxSize
	}
}
