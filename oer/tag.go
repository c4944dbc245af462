package oer

import (
	asn1codec "github.com/kestrel-oss/asn1codec"
)

/*
tag.go renders a [asn1codec.Tag] as a canonical ASN.1 identifier octet
sequence for OER's CHOICE discriminant (§4.7 "CHOICE... a tag octet
encoding the variant's class and number in canonical ASN.1 tag form"),
grounded directly on the BER identifier-octet layout the legacy TLV
codec builds in encodeTLV: class in the top two bits, a single low-tag
octet when number < 31, otherwise the 0x1F escape followed by a
base-128 big-endian continuation sequence for the number.

OER carries no primitive/constructed distinction of its own (that bit
only matters to BER's nested-TLV framing), so bit 0x20 is always left
clear here; the variant's shape is recovered from the type descriptor
the caller already has, not from the wire.
*/

func encodeTagOctets(tag asn1codec.Tag) []byte {
	id := byte(tag.Class) << 6
	if tag.Number < 31 {
		return []byte{id | byte(tag.Number)}
	}
	out := []byte{id | 0x1F}
	return append(out, encodeBase128(tag.Number)...)
}

func encodeBase128(n uint64) []byte {
	if n == 0 {
		return []byte{0}
	}
	var out []byte
	for n > 0 {
		out = append([]byte{byte(n & 0x7F)}, out...)
		n >>= 7
	}
	for i := 0; i < len(out)-1; i++ {
		out[i] |= 0x80
	}
	return out
}

func decodeTagOctets(r *asn1codec.BitReader) (asn1codec.Tag, error) {
	b0v, err := r.ReadBits(8)
	if err != nil {
		return asn1codec.Tag{}, err
	}
	b0 := byte(b0v)
	class := asn1codec.Class(b0 >> 6)
	low := b0 & 0x1F
	if low != 0x1F {
		return asn1codec.Tag{Class: class, Number: uint64(low)}, nil
	}
	var n uint64
	for {
		bv, err := r.ReadBits(8)
		if err != nil {
			return asn1codec.Tag{}, err
		}
		b := byte(bv)
		n = (n << 7) | uint64(b&0x7F)
		if b&0x80 == 0 {
			break
		}
	}
	return asn1codec.Tag{Class: class, Number: n}, nil
}
