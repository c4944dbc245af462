package asn1codec

/*
capability.go defines the three cross-cutting capabilities of §4.1: a
type becomes codable under every backend by implementing [AsnType],
[Encode] and [Decode] exactly once.
*/

// AsnType publishes a codable type's compile-time metadata.
type AsnType interface {
	// Descriptor returns the type's [TypeDescriptor], including its TAG,
	// TAG_TREE and extensibility flag.
	Descriptor() TypeDescriptor
	// DefaultConstraints returns the type's own CONSTRAINTS, used by the
	// convenience entry points when no caller-supplied constraint stack
	// overrides them.
	DefaultConstraints() Constraints
}

/*
Encode is implemented by every codable type. Implementations MUST use
the passed-in tag and constraints, never their own defaults, so callers
can override them for implicit/explicit tagging and inherited
constraints (§4.1).
*/
type Encode interface {
	EncodeWithTagAndConstraints(e Encoder, tag Tag, c Constraints, identifier string) error
}

// Decode is the symmetric counterpart of [Encode].
type Decode interface {
	DecodeWithTagAndConstraints(d Decoder, tag Tag, c Constraints, identifier string) error
}

// Codable is the union of all three capabilities: the type constraint of
// the generic top-level [Marshal]/[Unmarshal] helpers and the parameter
// type of [EncodeValue]/[DecodeValue].
type Codable interface {
	AsnType
	Encode
	Decode
}

// EncodeValue forwards to v's own [Encode] implementation using its own
// TAG and CONSTRAINTS — the "convenience entry point" of §4.1.
func EncodeValue(e Encoder, v Codable) error {
	d := v.Descriptor()
	return v.EncodeWithTagAndConstraints(e, d.Tag, v.DefaultConstraints(), d.Identifier)
}

// DecodeValue forwards to v's own [Decode] implementation using its own
// TAG and CONSTRAINTS.
func DecodeValue(dec Decoder, v Codable) error {
	d := v.Descriptor()
	return v.DecodeWithTagAndConstraints(dec, d.Tag, v.DefaultConstraints(), d.Identifier)
}
