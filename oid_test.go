package asn1codec

import (
	"bytes"
	"testing"
)

func TestObjectIdentifierEncodeDER(t *testing.T) {
	tests := []struct {
		name string
		oid  ObjectIdentifier
		want []byte
	}{
		{"rsadsi", NewObjectIdentifier(1, 2, 840, 113549), []byte{0x2A, 0x86, 0x48, 0x86, 0xF7, 0x0D}},
		{"minimal", NewObjectIdentifier(2, 5), []byte{0x55}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.oid.EncodeDER()
			if err != nil {
				t.Fatalf("EncodeDER: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("EncodeDER() = % X, want % X", got, tt.want)
			}
			back, err := DecodeDER(got)
			if err != nil {
				t.Fatalf("DecodeDER: %v", err)
			}
			if back.String() != tt.oid.String() {
				t.Fatalf("round trip = %s, want %s", back, tt.oid)
			}
		})
	}
}

func TestObjectIdentifierValidatesArcCount(t *testing.T) {
	if err := NewObjectIdentifier(1).Validate(); err == nil {
		t.Fatalf("single-arc OID should be rejected")
	}
}

func TestObjectIdentifierValidatesSecondArc(t *testing.T) {
	if err := NewObjectIdentifier(1, 40).Validate(); err == nil {
		t.Fatalf("second arc 40 with first arc 1 should be rejected")
	}
}
