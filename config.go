package asn1codec

/*
config.go implements the configuration surface named in §6: strict
mode, max recursion depth, and decode-with-remainder, applied via
functional options the way the teacher's runtime.go applies
[EncodingOption] to an encodingConfig.
*/

// EngineConfig holds the options recognized by every backend.
type EngineConfig struct {
	// Strict rejects non-canonical but otherwise parseable encodings:
	// non-minimal lengths, non-zero padding, unsorted SET OF under DER.
	// Defaults to true for canonical rules ([Rule.Canonical]).
	Strict bool
	// MaxDepth bounds recursive descent (§5); zero means
	// [DefaultMaxDepth].
	MaxDepth int
	// DecodeWithRemainder, when true, makes a decode with unconsumed
	// trailing bytes a success rather than an [ErrExcessInput] error;
	// the tail is retrievable via [Decoder.Remaining].
	DecodeWithRemainder bool
}

func defaultConfig(rule Rule) EngineConfig {
	return EngineConfig{
		Strict:   rule.Canonical(),
		MaxDepth: DefaultMaxDepth,
	}
}

// Option configures an [EngineConfig]. The same option type serves both
// encode and decode calls since every field is meaningful to at least
// one direction and harmless to the other.
type Option func(*EngineConfig)

// WithStrict overrides the rule's default strictness.
func WithStrict(strict bool) Option {
	return func(c *EngineConfig) { c.Strict = strict }
}

// WithMaxDepth overrides [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(c *EngineConfig) { c.MaxDepth = depth }
}

// WithDecodeRemainder enables decode-with-remainder semantics.
func WithDecodeRemainder(v bool) Option {
	return func(c *EngineConfig) { c.DecodeWithRemainder = v }
}

func applyOptions(rule Rule, opts []Option) EngineConfig {
	cfg := defaultConfig(rule)
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}
