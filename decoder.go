package asn1codec

import "math/big"

/*
decoder.go defines the abstract [Decoder] contract of §4.5, symmetric to
[Encoder]. DecodeSequence takes no default-value factory: no backend
populates absent DEFAULT fields, it only reports their absence through
DecodeOptionalPresence. DecodeChoice
returns the variant index (root or extension) so the caller's type can
dispatch to the right Go value.
*/
type Decoder interface {
	Rule() Rule

	DecodeBool(tag Tag) (bool, error)
	DecodeInteger(tag Tag, c Constraints) (*big.Int, error)
	DecodeEnumerated(tag Tag, rootCount int, extensible bool, c Constraints) (ordinal int, extension bool, err error)
	DecodeNull(tag Tag) error
	DecodeBitString(tag Tag, c Constraints) (bits []byte, bitLen int, err error)
	DecodeOctetString(tag Tag, c Constraints) ([]byte, error)
	DecodeRestrictedString(tag Tag, kind StringKind, c Constraints) (string, error)
	DecodeObjectIdentifier(tag Tag) (ObjectIdentifier, error)
	DecodeReal(tag Tag) (float64, error)
	DecodeGeneralizedTime(tag Tag) (GeneralizedTime, error)
	DecodeUTCTime(tag Tag) (UTCTime, error)

	// DecodeSequence invokes fn with a sub-decoder scoped to the SEQUENCE
	// body. rootOptionalCount is the number of OPTIONAL/DEFAULT root
	// fields the type declares — PER ignores it (presence bits are
	// consumed one at a time, interleaved with DecodeOptionalPresence
	// calls, since unaligned bit position never depends on knowing the
	// total up front); an octet-oriented backend like OER/COER needs it
	// to know how many presence bits precede the byte-aligned body.
	// There is no default-value factory parameter.
	DecodeSequence(tag Tag, extensible bool, rootOptionalCount int, fn func(Decoder) error) error
	DecodeSet(tag Tag, extensible bool, rootOptionalCount int, fn func(Decoder) error) error
	// DecodeChoice returns the selected variant's index — relative to
	// the extension set when extension is true — leaving body decoding
	// to the caller via the returned sub-decoder. variantTags lists the
	// root variants' own tags in declaration order, followed by any
	// known extension variants' tags: PER ignores it (the variant index
	// is transmitted directly, §4.6 CHOICE), while a tag-discriminated
	// backend like OER/COER matches the tag it reads off the wire
	// against this list to recover the index.
	DecodeChoice(tag Tag, extensible bool, rootCount int, variantTags []Tag, fn func(sub Decoder, index int, extension bool) error) error
	DecodeSequenceOf(tag Tag, c Constraints, fn func(i int, sub Decoder) error) error
	DecodeSetOf(tag Tag, c Constraints, fn func(i int, sub Decoder) error) error
	DecodeExplicitPrefix(tag Tag, fn func(Decoder) error) error
	DecodeExtensionAddition(fn func(Decoder) error) error
	DecodeExtensionAdditionGroup(fn func(Decoder) error) error

	// DecodeOptionalPresence reports whether an OPTIONAL/DEFAULT field is
	// present, consuming the corresponding preamble bit but not the
	// field's value. Under PER each call reads its bit straight from the
	// stream, so every root presence bit must be read before the first
	// root field's value; OER/COER reads the whole preamble up front in
	// DecodeSequence and each call returns the next captured bit.
	DecodeOptionalPresence() (bool, error)

	// Depth returns the current recursive-descent depth, incremented by
	// each nested DecodeSequence/DecodeSet/DecodeChoice/
	// DecodeExplicitPrefix call and checked against the configured
	// maximum (§5, P9).
	Depth() int

	// Remaining reports whether unconsumed input remains once the
	// top-level value has been decoded (§6 decode-with-remainder).
	Remaining() ([]byte, error)
}
