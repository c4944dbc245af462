package oer

import (
	"bytes"
	"math/big"
	"testing"

	asn1codec "github.com/kestrel-oss/asn1codec"
)

func cfg() asn1codec.EngineConfig {
	return asn1codec.EngineConfig{MaxDepth: asn1codec.DefaultMaxDepth, Strict: true}
}

func ptrVC(v asn1codec.ValueConstraint) *asn1codec.ValueConstraint { return &v }

// S3: a constrained INTEGER (-128..127) under COER is a single signed
// octet, the narrowest fixed width the range admits.
func TestConstrainedIntegerFixedWidth(t *testing.T) {
	c := asn1codec.Constraints{Value: ptrVC(asn1codec.NewValueConstraint(-128, 127))}
	tests := []struct {
		v    int64
		want byte
	}{
		{-1, 0xFF},
		{1, 0x01},
		{-128, 0x80},
		{127, 0x7F},
	}
	for _, tt := range tests {
		w := asn1codec.NewBitWriter()
		if err := encodeInteger(w, big.NewInt(tt.v), c); err != nil {
			t.Fatalf("encode(%d): %v", tt.v, err)
		}
		got := w.Bytes()
		if !bytes.Equal(got, []byte{tt.want}) {
			t.Fatalf("encode(%d) = % X, want % X", tt.v, got, tt.want)
		}
		r := asn1codec.NewBitReader(got, true)
		v, err := decodeInteger(r, c, true)
		if err != nil {
			t.Fatalf("decode(%d): %v", tt.v, err)
		}
		if v.Int64() != tt.v {
			t.Fatalf("round trip %d got %s", tt.v, v)
		}
	}
}

// S4: an unconstrained INTEGER falls back to the length-prefixed
// variable form; 300 needs two content octets (0x01 0x2C) since a
// single signed octet tops out at 127.
func TestUnconstrainedIntegerVariableWidth(t *testing.T) {
	w := asn1codec.NewBitWriter()
	if err := encodeInteger(w, big.NewInt(300), asn1codec.Constraints{}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got := w.Bytes()
	want := []byte{0x02, 0x01, 0x2C}
	if !bytes.Equal(got, want) {
		t.Fatalf("Bytes() = % X, want % X", got, want)
	}
	r := asn1codec.NewBitReader(got, true)
	v, err := decodeInteger(r, asn1codec.Constraints{}, true)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Int64() != 300 {
		t.Fatalf("decode = %s, want 300", v)
	}
}

func TestLengthDeterminantShortAndLongForm(t *testing.T) {
	for _, n := range []uint64{0, 1, 127, 128, 255, 1000, 100000} {
		w := asn1codec.NewBitWriter()
		if err := encodeLength(w, n); err != nil {
			t.Fatalf("encode(%d): %v", n, err)
		}
		r := asn1codec.NewBitReader(w.Bytes(), true)
		got, err := decodeLength(r, true)
		if err != nil {
			t.Fatalf("decode(%d): %v", n, err)
		}
		if got != n {
			t.Fatalf("round trip %d got %d", n, got)
		}
	}
}

func TestTagOctetsRoundTrip(t *testing.T) {
	tests := []asn1codec.Tag{
		asn1codec.Universal(asn1codec.TagInteger),
		asn1codec.ContextTag(0),
		asn1codec.ContextTag(30),
		asn1codec.ContextTag(31),
		asn1codec.ContextTag(300),
	}
	for _, tag := range tests {
		w := asn1codec.NewBitWriter()
		if err := w.AppendBytes(encodeTagOctets(tag)); err != nil {
			t.Fatalf("encode(%s): %v", tag, err)
		}
		r := asn1codec.NewBitReader(w.Bytes(), true)
		got, err := decodeTagOctets(r)
		if err != nil {
			t.Fatalf("decode(%s): %v", tag, err)
		}
		if !got.Eq(tag) {
			t.Fatalf("round trip %s got %s", tag, got)
		}
	}
}

// A SEQUENCE { flag BOOLEAN, name UTF8String OPTIONAL } round trip
// exercising the preamble/presence-bit path (§4.7 "SEQUENCE").
func encodeFlagged(e *Encoder, flag bool, name string, present bool) error {
	return e.EncodeSequence(asn1codec.Universal(asn1codec.TagSequence), false, func(sub asn1codec.Encoder) error {
		if err := sub.EncodeBool(asn1codec.Universal(asn1codec.TagBoolean), flag); err != nil {
			return err
		}
		if !present {
			return sub.EncodeNone()
		}
		return sub.EncodeSome(func(inner asn1codec.Encoder) error {
			return inner.EncodeRestrictedString(asn1codec.Universal(asn1codec.TagUTF8String), asn1codec.KindUTF8String, name, asn1codec.Constraints{})
		})
	})
}

func decodeFlagged(d *Decoder) (bool, string, bool, error) {
	var flag, present bool
	var name string
	err := d.DecodeSequence(asn1codec.Universal(asn1codec.TagSequence), false, 1, func(sub asn1codec.Decoder) error {
		var err error
		flag, err = sub.DecodeBool(asn1codec.Universal(asn1codec.TagBoolean))
		if err != nil {
			return err
		}
		present, err = sub.DecodeOptionalPresence()
		if err != nil {
			return err
		}
		if present {
			name, err = sub.DecodeRestrictedString(asn1codec.Universal(asn1codec.TagUTF8String), asn1codec.KindUTF8String, asn1codec.Constraints{})
		}
		return err
	})
	return flag, name, present, err
}

func TestSequencePreambleRoundTrip(t *testing.T) {
	for _, present := range []bool{false, true} {
		e := NewEncoder(asn1codec.Coer, cfg())
		if err := encodeFlagged(e, true, "Alice", present); err != nil {
			t.Fatalf("encode(present=%v): %v", present, err)
		}
		data, err := e.Finish()
		if err != nil {
			t.Fatalf("Finish: %v", err)
		}
		d := NewDecoder(data, asn1codec.Coer, cfg())
		flag, name, gotPresent, err := decodeFlagged(d)
		if err != nil {
			t.Fatalf("decode(present=%v): %v", present, err)
		}
		if !flag || gotPresent != present || (present && name != "Alice") {
			t.Fatalf("decoded flag=%v name=%q present=%v, want true/%v/Alice", flag, name, gotPresent, present)
		}
	}
}

// An extensible SEQUENCE with one queued extension addition round trips
// through the extension-count prefix writeExtensionBlock emits.
func TestSequenceExtensionRoundTrip(t *testing.T) {
	e := NewEncoder(asn1codec.Coer, cfg())
	err := e.EncodeSequence(asn1codec.Universal(asn1codec.TagSequence), true, func(sub asn1codec.Encoder) error {
		if err := sub.EncodeBool(asn1codec.Universal(asn1codec.TagBoolean), false); err != nil {
			return err
		}
		return sub.EncodeExtensionAddition(func(inner asn1codec.Encoder) error {
			return inner.EncodeInteger(asn1codec.Universal(asn1codec.TagInteger), big.NewInt(7), asn1codec.Constraints{})
		})
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	data, err := e.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	d := NewDecoder(data, asn1codec.Coer, cfg())
	var flag bool
	var extVal int64
	var sawExt bool
	err = d.DecodeSequence(asn1codec.Universal(asn1codec.TagSequence), true, 0, func(sub asn1codec.Decoder) error {
		var err error
		flag, err = sub.DecodeBool(asn1codec.Universal(asn1codec.TagBoolean))
		if err != nil {
			return err
		}
		return sub.DecodeExtensionAddition(func(ext asn1codec.Decoder) error {
			sawExt = true
			v, err := ext.DecodeInteger(asn1codec.Universal(asn1codec.TagInteger), asn1codec.Constraints{})
			if err != nil {
				return err
			}
			extVal = v.Int64()
			return nil
		})
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if flag || !sawExt || extVal != 7 {
		t.Fatalf("decoded flag=%v sawExt=%v extVal=%d", flag, sawExt, extVal)
	}
}

// A two-variant CHOICE round trips by matching the decoded tag octets
// against the caller's variant tag list, mirroring the tag lookup
// oer.de.rs's decode_choice performs (see oer/decoder.go DecodeChoice).
func TestChoiceTagRoundTrip(t *testing.T) {
	intTag := asn1codec.Universal(asn1codec.TagInteger)
	strTag := asn1codec.Universal(asn1codec.TagUTF8String)
	variantTags := []asn1codec.Tag{intTag, strTag}

	for _, idx := range []int{0, 1} {
		e := NewEncoder(asn1codec.Coer, cfg())
		err := e.EncodeChoice(variantTags[idx], false, idx, 2, false, func(sub asn1codec.Encoder) error {
			if idx == 0 {
				return sub.EncodeInteger(intTag, big.NewInt(5), asn1codec.Constraints{})
			}
			return sub.EncodeRestrictedString(strTag, asn1codec.KindUTF8String, "hi", asn1codec.Constraints{})
		})
		if err != nil {
			t.Fatalf("encode(idx=%d): %v", idx, err)
		}
		data, err := e.Finish()
		if err != nil {
			t.Fatalf("Finish: %v", err)
		}

		d := NewDecoder(data, asn1codec.Coer, cfg())
		var gotIdx int
		err = d.DecodeChoice(asn1codec.Tag{}, false, 2, variantTags, func(sub asn1codec.Decoder, index int, extension bool) error {
			gotIdx = index
			if extension {
				t.Fatalf("unexpected extension variant")
			}
			if index == 0 {
				v, err := sub.DecodeInteger(intTag, asn1codec.Constraints{})
				if err != nil {
					return err
				}
				if v.Int64() != 5 {
					t.Fatalf("decoded %s, want 5", v)
				}
				return nil
			}
			s, err := sub.DecodeRestrictedString(strTag, asn1codec.KindUTF8String, asn1codec.Constraints{})
			if err != nil {
				return err
			}
			if s != "hi" {
				t.Fatalf("decoded %q, want hi", s)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("decode(idx=%d): %v", idx, err)
		}
		if gotIdx != idx {
			t.Fatalf("decoded index %d, want %d", gotIdx, idx)
		}
	}
}

func TestBitStringRoundTrip(t *testing.T) {
	e := NewEncoder(asn1codec.Oer, cfg())
	bits := []byte{0xB5} // 10110101, take the first 5 bits
	if err := e.EncodeBitString(asn1codec.Universal(asn1codec.TagBitString), bits, 5, asn1codec.Constraints{}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	data, err := e.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	d := NewDecoder(data, asn1codec.Oer, cfg())
	gotBits, gotLen, err := d.DecodeBitString(asn1codec.Universal(asn1codec.TagBitString), asn1codec.Constraints{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if gotLen != 5 || gotBits[0]&0xF8 != bits[0]&0xF8 {
		t.Fatalf("decoded bits=% X len=%d, want % X len=5", gotBits, gotLen, bits)
	}
}

func TestOctetStringRoundTrip(t *testing.T) {
	e := NewEncoder(asn1codec.Oer, cfg())
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	if err := e.EncodeOctetString(asn1codec.Universal(asn1codec.TagOctetString), payload, asn1codec.Constraints{}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	data, err := e.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	d := NewDecoder(data, asn1codec.Oer, cfg())
	got, err := d.DecodeOctetString(asn1codec.Universal(asn1codec.TagOctetString), asn1codec.Constraints{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("decoded % X, want % X", got, payload)
	}
}
