// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize is the maximum accepted size for user-provided CUE
// files (1 MiB). Descriptors and config files are hand-written; anything
// larger is almost certainly a mistake and risks excessive memory use
// during CUE evaluation.
const DefaultMaxFileSize int64 = 1 << 20

type (
	// Option configures a ParseAndDecode call.
	Option func(*parseOptions)

	parseOptions struct {
		filename    string
		maxFileSize int64
		concrete    bool
	}
)

func defaultOptions() parseOptions {
	return parseOptions{
		maxFileSize: DefaultMaxFileSize,
		concrete:    false,
	}
}

// WithFilename sets the filename used in error messages.
// Defaults to "<input>" when unset.
func WithFilename(name string) Option {
	return func(o *parseOptions) {
		o.filename = name
	}
}

// WithMaxFileSize overrides the maximum accepted input size in bytes.
func WithMaxFileSize(n int64) Option {
	return func(o *parseOptions) {
		o.maxFileSize = n
	}
}

// WithConcrete requires all fields to be concrete after unification.
// Use this for descriptors where every field must have a final value;
// leave it off for config files where optional fields stay open.
func WithConcrete(concrete bool) Option {
	return func(o *parseOptions) {
		o.concrete = concrete
	}
}
