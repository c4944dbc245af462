package asn1codec

/*
value.go carries the handful of value variants (§3 "Value variants")
that don't warrant their own file: BIT STRING and the opaque "any" type
used to carry raw TLV/open-type bytes. OCTET STRING and restricted
strings pass through the engine as plain []byte/string and need no
wrapper; INTEGER and ENUMERATED pass through as *big.Int/int.
*/

// BitString is an ASN.1 BIT STRING value: Bits holds the content
// octets, Len the number of significant bits (which need not be a
// multiple of 8 — the trailing unused bits of the last octet are zero
// but not significant).
type BitString struct {
	Bits []byte
	Len  int
}

// NewBitString returns a [BitString] of the given bit length built from
// bits, zero-padding the final octet as needed.
func NewBitString(bits []byte, length int) BitString {
	return BitString{Bits: bits, Len: length}
}

// Bit reports the value of the i-th bit (0-indexed, MSB-first within
// each octet), per §4.3's bit ordering.
func (b BitString) Bit(i int) bool {
	if i < 0 || i >= b.Len {
		return false
	}
	return b.Bits[i/8]&(0x80>>(uint(i)%8)) != 0
}

// Any carries a value of unknown-at-compile-time type as a raw octet
// string — the "open type" mechanism of §9: "the engine implements this
// by always wrapping extension additions in an open-type envelope whose
// length is known even when the inner type is not."
type Any struct {
	Bytes []byte
}

// NewAny wraps raw bytes as an opaque [Any] value.
func NewAny(b []byte) Any { return Any{Bytes: b} }
