package asn1codec

import "math/big"

/*
encoder.go defines the abstract [Encoder] contract of §4.4: one
operation per ASN.1 type family, every operation receiving the target
tag and constraints. Backends that ignore the tag (PER, OER do not
transmit tags except inside CHOICE/ANY contexts) still honour
constraints.

The closure form for constructed types is a deliberate contract: the
sub-[Encoder] passed to the callback is the only one valid for encoding
the constituent fields (§4.4 "The closure form..."). Every backend
enforces this by handing the callback a value bound to a child writer/
state that cannot alias the parent's in-progress frame.
*/
type Encoder interface {
	Rule() Rule

	EncodeBool(tag Tag, v bool) error
	EncodeInteger(tag Tag, v *big.Int, c Constraints) error
	EncodeEnumerated(tag Tag, ordinal int, rootCount int, extension bool, c Constraints) error
	EncodeNull(tag Tag) error
	EncodeBitString(tag Tag, bits []byte, bitLen int, c Constraints) error
	EncodeOctetString(tag Tag, v []byte, c Constraints) error
	EncodeRestrictedString(tag Tag, kind StringKind, v string, c Constraints) error
	EncodeObjectIdentifier(tag Tag, v ObjectIdentifier) error
	EncodeReal(tag Tag, v float64) error
	EncodeGeneralizedTime(tag Tag, v GeneralizedTime) error
	EncodeUTCTime(tag Tag, v UTCTime) error

	// EncodeSequence invokes fn with a sub-encoder scoped to the SEQUENCE
	// body; extensible governs whether an extensibility bit/flag frames
	// the value (§4.6 SEQUENCE step 1, §4.7 SEQUENCE preamble).
	EncodeSequence(tag Tag, extensible bool, fn func(Encoder) error) error
	// EncodeSet behaves like EncodeSequence but, under DER, sorts its
	// children by tag at encode time (Q3).
	EncodeSet(tag Tag, extensible bool, fn func(Encoder) error) error
	// EncodeChoice frames variantIndex — relative to the root set unless
	// extension is true — then invokes fn to encode the variant body.
	EncodeChoice(tag Tag, extensible bool, variantIndex int, rootCount int, extension bool, fn func(Encoder) error) error
	EncodeSequenceOf(tag Tag, n int, c Constraints, fn func(i int, sub Encoder) error) error
	EncodeSetOf(tag Tag, n int, c Constraints, fn func(i int, sub Encoder) error) error
	// EncodeExplicitPrefix wraps fn's output in a constructed frame under
	// tag (§4.1 explicit tagging).
	EncodeExplicitPrefix(tag Tag, fn func(Encoder) error) error
	// EncodeExtensionAddition wraps fn's output as an open type (§4.6/
	// §4.7 extension bodies).
	EncodeExtensionAddition(fn func(Encoder) error) error
	// EncodeExtensionAdditionGroup behaves like EncodeExtensionAddition
	// but additionally frames fn's output with a normally-small
	// element-count prefix where the backend requires one.
	EncodeExtensionAdditionGroup(fn func(Encoder) error) error
	// EncodeSome marks an OPTIONAL/DEFAULT field present and encodes it
	// via fn.
	EncodeSome(fn func(Encoder) error) error
	// EncodeNone marks an OPTIONAL field absent. It never invokes a
	// callback: absence contributes only a presence bit, never content.
	EncodeNone() error
	// EncodeDefault encodes a DEFAULT field. present must be false when
	// the value equals the field's default and the backend is operating
	// in canonical mode (canonical forms MUST omit defaulted values,
	// §4.6 SEQUENCE step 3).
	EncodeDefault(present bool, fn func(Encoder) error) error

	// Finish returns the accumulated encoding for the top-level value
	// this Encoder was created for. Only meaningful on a top-level
	// Encoder, never on a sub-encoder passed into a closure.
	Finish() ([]byte, error)
}
