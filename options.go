package dynabuild

// builderConfig collects construction-time settings before the first clone
// boundary is crossed.
type builderConfig struct {
	initial     Record
	validator   Validator
	transformer Transformer
	logger      StructuredLogger
	debug       bool
}

// Option configures a builder at construction time.
type Option func(*builderConfig)

// WithInitialData seeds the builder's working data. Every key must be
// declared by the shape, or New fails with a MemberError. The record is
// deep-cloned on intake, so the caller's original object is never aliased;
// it also becomes the snapshot Reset restores.
func WithInitialData(data Record) Option {
	return func(c *builderConfig) {
		c.initial = data
	}
}

// WithValidator installs a validator at construction. Equivalent to calling
// UseValidator immediately on the new builder.
func WithValidator(v Validator) Option {
	return func(c *builderConfig) {
		c.validator = v
	}
}

// WithTransformer installs a transformer at construction. Equivalent to
// calling UseTransformer immediately on the new builder.
func WithTransformer(t Transformer) Option {
	return func(c *builderConfig) {
		c.transformer = t
	}
}

// WithLogger sets the structured logger used for diagnostics.
func WithLogger(logger StructuredLogger) Option {
	return func(c *builderConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebug enables debug logging of builder operations.
func WithDebug(debug bool) Option {
	return func(c *builderConfig) {
		c.debug = debug
	}
}
