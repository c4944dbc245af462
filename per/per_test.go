package per

import (
	"bytes"
	"math/big"
	"testing"

	asn1codec "github.com/kestrel-oss/asn1codec"
)

func cfg() asn1codec.EngineConfig {
	return asn1codec.EngineConfig{MaxDepth: asn1codec.DefaultMaxDepth}
}

func TestConstrainedWholeNumberRoundTrip(t *testing.T) {
	w := asn1codec.NewBitWriter()
	if err := encodeConstrainedWholeNumber(w, big.NewInt(42), 0, 120, false); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got := w.Bytes()
	want := []byte{0x54} // 0101010 packed with one padding bit: 01010100
	if !bytes.Equal(got, want) {
		t.Fatalf("Bytes() = % X, want % X", got, want)
	}

	r := asn1codec.NewBitReader(got, false)
	v, err := decodeConstrainedWholeNumber(r, 0, 120, false)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Int64() != 42 {
		t.Fatalf("decode = %s, want 42", v)
	}
}

func TestNormallySmallNumberRoundTrip(t *testing.T) {
	for _, n := range []uint64{0, 1, 63, 64, 1000} {
		w := asn1codec.NewBitWriter()
		if err := encodeNormallySmallNumber(w, n, false); err != nil {
			t.Fatalf("encode(%d): %v", n, err)
		}
		r := asn1codec.NewBitReader(w.Bytes(), false)
		got, err := decodeNormallySmallNumber(r, false)
		if err != nil {
			t.Fatalf("decode(%d): %v", n, err)
		}
		if got != n {
			t.Fatalf("round trip %d = %d", n, got)
		}
	}
}

func TestSemiAndUnconstrainedWholeNumberRoundTrip(t *testing.T) {
	tests := []*big.Int{big.NewInt(0), big.NewInt(300), big.NewInt(-1), big.NewInt(-300), big.NewInt(127), big.NewInt(128)}
	for _, v := range tests {
		w := asn1codec.NewBitWriter()
		if err := encodeUnconstrainedWholeNumber(w, v, false); err != nil {
			t.Fatalf("encode(%s): %v", v, err)
		}
		r := asn1codec.NewBitReader(w.Bytes(), false)
		got, err := decodeUnconstrainedWholeNumber(r, false)
		if err != nil {
			t.Fatalf("decode(%s): %v", v, err)
		}
		if got.Cmp(v) != 0 {
			t.Fatalf("round trip %s got %s", v, got)
		}
	}
}

// S6: a fragmented octet string of exactly 16384 bytes marks a single
// fragment (0xC1) followed by the 16384 octets, then a zero final
// length determinant.
func TestFragmentedLengthDeterminant16384(t *testing.T) {
	w := asn1codec.NewBitWriter()
	payload := make([]byte, 16384)
	if err := encodeLengthAndPayload(w, uint64(len(payload)), func(offset, count uint64) error {
		return w.AppendBytes(payload[offset : offset+count])
	}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got := w.Bytes()
	if got[0] != 0xC1 {
		t.Fatalf("first octet = %#x, want 0xC1", got[0])
	}
	if got[len(got)-1] != 0x00 {
		t.Fatalf("final octet = %#x, want 0x00", got[len(got)-1])
	}
	if len(got) != 1+16384+1 {
		t.Fatalf("len = %d, want %d", len(got), 1+16384+1)
	}

	r := asn1codec.NewBitReader(got, false)
	var collected []byte
	n, err := decodeLengthAndPayload(r, func(offset, count uint64) error {
		chunk, err := r.ReadBytes(int(count))
		if err != nil {
			return err
		}
		collected = append(collected, chunk...)
		return nil
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != 16384 {
		t.Fatalf("n = %d, want 16384", n)
	}
	if !bytes.Equal(collected, payload) {
		t.Fatalf("round-tripped payload mismatch")
	}
}

func TestFragmentedLengthDeterminantMultiFragment(t *testing.T) {
	w := asn1codec.NewBitWriter()
	payload := make([]byte, 98304) // 6*16384: two full (4+2) fragment markers
	for i := range payload {
		payload[i] = byte(i)
	}
	if err := encodeLengthAndPayload(w, uint64(len(payload)), func(offset, count uint64) error {
		return w.AppendBytes(payload[offset : offset+count])
	}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	r := asn1codec.NewBitReader(w.Bytes(), false)
	var collected []byte
	n, err := decodeLengthAndPayload(r, func(offset, count uint64) error {
		chunk, err := r.ReadBytes(int(count))
		if err != nil {
			return err
		}
		collected = append(collected, chunk...)
		return nil
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != uint64(len(payload)) {
		t.Fatalf("n = %d, want %d", n, len(payload))
	}
	if !bytes.Equal(collected, payload) {
		t.Fatalf("round-tripped payload mismatch")
	}
}

// A minimal SEQUENCE { age INTEGER (0..120), name UTF8String } encoded
// and decoded by hand, exercising EncodeSequence/DecodeSequence and the
// restricted-string path without a full Codable type (S1).
func encodePerson(e *Encoder, age int64, name string) error {
	return e.EncodeSequence(asn1codec.Universal(asn1codec.TagSequence), false, func(sub asn1codec.Encoder) error {
		ageConstraint := asn1codec.Constraints{Value: ptrVC(asn1codec.NewValueConstraint(0, 120))}
		if err := sub.EncodeInteger(asn1codec.Universal(asn1codec.TagInteger), big.NewInt(age), ageConstraint); err != nil {
			return err
		}
		return sub.EncodeRestrictedString(asn1codec.Universal(asn1codec.TagUTF8String), asn1codec.KindUTF8String, name, asn1codec.Constraints{})
	})
}

func decodePerson(d *Decoder) (int64, string, error) {
	var age int64
	var name string
	err := d.DecodeSequence(asn1codec.Universal(asn1codec.TagSequence), false, 0, func(sub asn1codec.Decoder) error {
		ageConstraint := asn1codec.Constraints{Value: ptrVC(asn1codec.NewValueConstraint(0, 120))}
		v, err := sub.DecodeInteger(asn1codec.Universal(asn1codec.TagInteger), ageConstraint)
		if err != nil {
			return err
		}
		age = v.Int64()
		name, err = sub.DecodeRestrictedString(asn1codec.Universal(asn1codec.TagUTF8String), asn1codec.KindUTF8String, asn1codec.Constraints{})
		return err
	})
	return age, name, err
}

func ptrVC(v asn1codec.ValueConstraint) *asn1codec.ValueConstraint { return &v }

func TestPersonUperRoundTrip(t *testing.T) {
	e := NewEncoder(asn1codec.Uper, cfg())
	if err := encodePerson(e, 42, "Alice"); err != nil {
		t.Fatalf("encode: %v", err)
	}
	data, err := e.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	d := NewDecoder(data, asn1codec.Uper, cfg())
	age, name, err := decodePerson(d)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if age != 42 || name != "Alice" {
		t.Fatalf("decoded (%d, %q), want (42, \"Alice\")", age, name)
	}
}

func TestPersonAperRoundTrip(t *testing.T) {
	e := NewEncoder(asn1codec.Aper, cfg())
	if err := encodePerson(e, 7, "Bob"); err != nil {
		t.Fatalf("encode: %v", err)
	}
	data, err := e.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	d := NewDecoder(data, asn1codec.Aper, cfg())
	age, name, err := decodePerson(d)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if age != 7 || name != "Bob" {
		t.Fatalf("decoded (%d, %q), want (7, \"Bob\")", age, name)
	}
}

// S2-style extensible ENUMERATED: a root value and an extension value,
// round-tripped rather than matched against a literal byte sequence
// (see DESIGN.md for why the worked example's own hex does not
// reconcile with the algorithm it describes).
func TestEnumeratedExtensionRoundTrip(t *testing.T) {
	const rootCount = 3 // red, green, blue
	for _, ordinal := range []int{0, 1, 2, 3, 10} {
		w := asn1codec.NewBitWriter()
		e := &Encoder{rule: asn1codec.Uper, w: w, depth: asn1codec.NewDepthGuard(0)}
		if err := e.EncodeEnumerated(asn1codec.Universal(asn1codec.TagEnumerated), ordinal, rootCount, true, asn1codec.Constraints{}); err != nil {
			t.Fatalf("encode(%d): %v", ordinal, err)
		}
		d := &Decoder{rule: asn1codec.Uper, r: asn1codec.NewBitReader(w.Bytes(), false), depth: asn1codec.NewDepthGuard(0)}
		got, ext, err := d.DecodeEnumerated(asn1codec.Universal(asn1codec.TagEnumerated), rootCount, true, asn1codec.Constraints{})
		if err != nil {
			t.Fatalf("decode(%d): %v", ordinal, err)
		}
		if got != ordinal || ext != (ordinal >= rootCount) {
			t.Fatalf("round trip ordinal=%d got=(%d,%v)", ordinal, got, ext)
		}
	}
}

func TestOptionalFieldPreambleRoundTrip(t *testing.T) {
	e := NewEncoder(asn1codec.Uper, cfg())
	err := e.EncodeSequence(asn1codec.Universal(asn1codec.TagSequence), false, func(sub asn1codec.Encoder) error {
		if err := sub.EncodeBool(asn1codec.Universal(asn1codec.TagBoolean), true); err != nil {
			return err
		}
		if err := sub.EncodeNone(); err != nil { // first optional field absent
			return err
		}
		return sub.EncodeSome(func(inner asn1codec.Encoder) error { // second optional field present
			return inner.EncodeBool(asn1codec.Universal(asn1codec.TagBoolean), false)
		})
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	data, err := e.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	d := NewDecoder(data, asn1codec.Uper, cfg())
	var required, second bool
	var firstPresent, secondPresent bool
	err = d.DecodeSequence(asn1codec.Universal(asn1codec.TagSequence), false, 2, func(sub asn1codec.Decoder) error {
		var err error
		firstPresent, err = sub.DecodeOptionalPresence()
		if err != nil {
			return err
		}
		secondPresent, err = sub.DecodeOptionalPresence()
		if err != nil {
			return err
		}
		required, err = sub.DecodeBool(asn1codec.Universal(asn1codec.TagBoolean))
		if err != nil {
			return err
		}
		if secondPresent {
			second, err = sub.DecodeBool(asn1codec.Universal(asn1codec.TagBoolean))
		}
		return err
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !required || firstPresent || !secondPresent || second {
		t.Fatalf("decoded required=%v firstPresent=%v secondPresent=%v second=%v", required, firstPresent, secondPresent, second)
	}
}
