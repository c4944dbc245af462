package asn1codec

/*
runtime.go implements the top-level programmatic surface of §6: one
function per codec pair, `encode<Rule, T>(value) -> bytes` and
`decode<Rule, T>(bytes) -> T`, dispatching to whichever backend package
registered itself for the selected [Rule].

Backend packages (per, oer) never get imported by the root package
directly — that would be an import cycle, since they in turn import
this package for [Tag], [Constraints], [Encoder] and [Decoder]. Instead
each backend registers itself from its own init(), the same
self-registration idiom `database/sql` uses for drivers.
*/

// EncoderFactory constructs a fresh top-level [Encoder] for one encode
// call.
type EncoderFactory func(cfg EngineConfig) Encoder

// DecoderFactory constructs a [Decoder] positioned at the start of data.
type DecoderFactory func(data []byte, cfg EngineConfig) Decoder

type backend struct {
	enc EncoderFactory
	dec DecoderFactory
}

var backends = map[Rule]backend{}

// RegisterBackend associates a [Rule] with the factories that construct
// its [Encoder]/[Decoder]. Called from a backend package's init();
// panics on duplicate registration, the same fail-fast posture
// `database/sql.Register` takes for a duplicate driver name.
func RegisterBackend(rule Rule, enc EncoderFactory, dec DecoderFactory) {
	if _, exists := backends[rule]; exists {
		panic("asn1codec: backend already registered for rule " + rule.String())
	}
	backends[rule] = backend{enc: enc, dec: dec}
}

func lookupBackend(rule Rule) (backend, error) {
	b, ok := backends[rule]
	if !ok {
		return backend{}, newStructuralErrorf(ErrInvalidChoiceIndex, "no backend registered for rule %s", rule.String())
	}
	return b, nil
}

// Marshal returns the wire encoding of v under rule.
func Marshal[T Codable](rule Rule, v T, opts ...Option) ([]byte, error) {
	b, err := lookupBackend(rule)
	if err != nil {
		return nil, err
	}
	cfg := applyOptions(rule, opts)
	enc := b.enc(cfg)
	if err := EncodeValue(enc, v); err != nil {
		return nil, err
	}
	return enc.Finish()
}

/*
Unmarshal parses data under rule into a freshly zeroed T, using the
pointer-method-set generic pattern (PT must be *T and implement
[Codable]) so callers write:

	person, err := Unmarshal[Person](Uper, data)

rather than pre-allocating a destination themselves.
*/
func Unmarshal[T any, PT interface {
	*T
	Codable
}](rule Rule, data []byte, opts ...Option) (T, error) {
	var zero T
	b, err := lookupBackend(rule)
	if err != nil {
		return zero, err
	}
	cfg := applyOptions(rule, opts)
	dec := b.dec(data, cfg)
	pv := PT(&zero)
	if err := DecodeValue(dec, pv); err != nil {
		return zero, err
	}
	if !cfg.DecodeWithRemainder {
		if rest, rerr := dec.Remaining(); rerr == nil && len(rest) > 0 {
			return zero, newStructuralErrorf(ErrExcessInput, "%d unconsumed byte(s)", len(rest))
		}
	}
	return zero, nil
}
