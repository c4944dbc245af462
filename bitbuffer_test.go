package asn1codec

import (
	"bytes"
	"testing"
)

func TestBitWriterReaderRoundTrip(t *testing.T) {
	w := NewBitWriter()
	if err := w.AppendBits(0b101, 3); err != nil {
		t.Fatalf("AppendBits: %v", err)
	}
	if err := w.AppendBits(0, 5); err != nil {
		t.Fatalf("AppendBits: %v", err)
	}
	if err := w.AppendBytes([]byte{0xAB, 0xCD}); err != nil {
		t.Fatalf("AppendBytes: %v", err)
	}

	got := w.Bytes()
	want := []byte{0b10100000, 0xAB, 0xCD}
	if !bytes.Equal(got, want) {
		t.Fatalf("Bytes() = % X, want % X", got, want)
	}

	r := NewBitReader(got, true)
	v, err := r.ReadBits(3)
	if err != nil || v != 0b101 {
		t.Fatalf("ReadBits(3) = %d, %v", v, err)
	}
	if err := r.AlignToByte(); err != nil {
		t.Fatalf("AlignToByte: %v", err)
	}
	raw, err := r.ReadBytes(2)
	if err != nil || !bytes.Equal(raw, []byte{0xAB, 0xCD}) {
		t.Fatalf("ReadBytes = % X, %v", raw, err)
	}
}

func TestBitWriterMidByteSpanning(t *testing.T) {
	w := NewBitWriter()
	for _, n := range []uint8{3, 7, 5, 1} { // totals 16 bits, crosses a byte boundary mid-run
		if err := w.AppendBits(0x7, n); err != nil {
			t.Fatalf("AppendBits(%d): %v", n, err)
		}
	}
	if w.CurrentBitPosition() != 16 {
		t.Fatalf("CurrentBitPosition() = %d, want 16", w.CurrentBitPosition())
	}

	r := NewBitReader(w.Bytes(), true)
	for _, n := range []uint8{3, 7, 5, 1} {
		if _, err := r.ReadBits(n); err != nil {
			t.Fatalf("ReadBits(%d): %v", n, err)
		}
	}
	if r.RemainingBits() != 0 {
		t.Fatalf("RemainingBits() = %d, want 0", r.RemainingBits())
	}
}

func TestBitReaderStrictPaddingRejectsNonZero(t *testing.T) {
	// 3 bits of payload followed by a non-zero padding bit in the same byte.
	r := NewBitReader([]byte{0b10110000}, true)
	if _, err := r.ReadBits(3); err != nil {
		t.Fatalf("ReadBits(3): %v", err)
	}
	if err := r.AlignToByte(); err == nil {
		t.Fatalf("AlignToByte() with non-zero padding should fail in strict mode")
	}
}

func TestBitReaderNonStrictToleratesPadding(t *testing.T) {
	r := NewBitReader([]byte{0b10110000}, false)
	if _, err := r.ReadBits(3); err != nil {
		t.Fatalf("ReadBits(3): %v", err)
	}
	if err := r.AlignToByte(); err != nil {
		t.Fatalf("AlignToByte() should tolerate non-zero padding when non-strict: %v", err)
	}
}

func TestBitReaderUnexpectedEOF(t *testing.T) {
	r := NewBitReader([]byte{0xFF}, true)
	if _, err := r.ReadBits(16); err == nil {
		t.Fatalf("ReadBits(16) over 1 byte should fail")
	}
}

func TestBitWriterLargeWidths(t *testing.T) {
	w := NewBitWriter()
	if err := w.AppendBits(0xFFFFFFFFFFFFFFFF, 64); err != nil {
		t.Fatalf("AppendBits(64): %v", err)
	}
	r := NewBitReader(w.Bytes(), true)
	v, err := r.ReadBits(64)
	if err != nil || v != 0xFFFFFFFFFFFFFFFF {
		t.Fatalf("ReadBits(64) = %#x, %v", v, err)
	}
}
