package asn1codec

import (
	"math/big"
	"testing"
)

func TestValueConstraintWidthBits(t *testing.T) {
	tests := []struct {
		name     string
		c        ValueConstraint
		wantBits int
		wantOK   bool
	}{
		{"single value", NewValueConstraint(5, 5), 0, true},
		{"small range", NewValueConstraint(0, 120), 7, true},
		{"semi-constrained", NewSemiConstrainedValue(0), 0, false},
		{"unconstrained", UnconstrainedValue(), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bits, ok := tt.c.WidthBits()
			if ok != tt.wantOK {
				t.Fatalf("WidthBits() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && bits != tt.wantBits {
				t.Fatalf("WidthBits() = %d, want %d", bits, tt.wantBits)
			}
		})
	}
}

func TestValueConstraintIntersectionEmptyIsError(t *testing.T) {
	a := NewValueConstraint(0, 10)
	b := NewValueConstraint(20, 30)
	if _, err := a.Intersection(b); err == nil {
		t.Fatalf("expected error for empty intersection")
	}
}

func TestValueConstraintIntersectionNarrows(t *testing.T) {
	a := NewValueConstraint(0, 100)
	b := NewValueConstraint(10, 50)
	got, err := a.Intersection(b)
	if err != nil {
		t.Fatalf("Intersection: %v", err)
	}
	if got.Lower.Value != 10 || got.Upper.Value != 50 {
		t.Fatalf("Intersection = [%d,%d], want [10,50]", got.Lower.Value, got.Upper.Value)
	}
}

func TestConstraintsIntersectPropagatesExtensible(t *testing.T) {
	v1 := NewValueConstraint(0, 10)
	v2 := NewValueConstraint(0, 10).Extend()
	c1 := Constraints{Value: &v1}
	c2 := Constraints{Value: &v2}
	out, err := c1.Intersect(c2)
	if err != nil {
		t.Fatalf("Intersect: %v", err)
	}
	if !out.Value.Extensible {
		t.Fatalf("expected extensibility to propagate")
	}
}

func TestCheckValueRespectsConstraint(t *testing.T) {
	v := NewValueConstraint(0, 120)
	c := Constraints{Value: &v}
	if err := c.CheckValue(big.NewInt(42)); err != nil {
		t.Fatalf("CheckValue(42): %v", err)
	}
	if err := c.CheckValue(big.NewInt(121)); err == nil {
		t.Fatalf("CheckValue(121) should fail")
	}
}

func TestPermittedAlphabetIndexRoundTrip(t *testing.T) {
	alpha := DefaultAlphabet(KindNumericString)
	for _, c := range []rune{' ', '0', '9'} {
		idx, ok := alpha.Index(c)
		if !ok {
			t.Fatalf("Index(%q) not found", c)
		}
		back, ok := alpha.Char(idx)
		if !ok || back != c {
			t.Fatalf("Char(%d) = %q, want %q", idx, back, c)
		}
	}
	if alpha.Contains('A') {
		t.Fatalf("NumericString alphabet should not contain 'A'")
	}
}

func TestSizeConstraintFixed(t *testing.T) {
	s := FixedSize(10)
	if !s.Fixed() {
		t.Fatalf("FixedSize(10).Fixed() = false")
	}
	if !s.Contains(10) || s.Contains(9) || s.Contains(11) {
		t.Fatalf("FixedSize(10) boundary check failed")
	}
}
