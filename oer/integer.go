package oer

import (
	"math/big"

	asn1codec "github.com/kestrel-oss/asn1codec"
)

/*
integer.go implements §4.7 "Integer": a fixed-width form for any
non-extensible effective value constraint whose closed range fits one of the four
OER-recognized widths (1, 2, 4 or 8 octets, signed or unsigned as the
range demands), falling back to a length-prefixed variable-width form
for everything else — extensible constraints, unbounded ranges, or
bounded ranges too wide for 64 bits.
*/

func encodeInteger(w *asn1codec.BitWriter, v *big.Int, c asn1codec.Constraints) error {
	// The fixed-width form is only usable for a non-extensible closed
	// range: OER has no per-value extensibility bit the way PER does, so
	// whether a value is a root value or an extension addition can't be
	// recovered from the wire at decode time. An extensible constraint
	// is therefore always carried in the self-describing variable-width
	// form, and CheckValue — which only tests the root range (§4.2) — is
	// only a valid gate when the constraint isn't extensible.
	if c.Value != nil && !c.Value.Extensible {
		if err := c.CheckValue(v); err != nil {
			return err
		}
		vc := *c.Value
		if !vc.Lower.Unbounded && !vc.Upper.Unbounded {
			if width, signed, ok := fixedWidthOctets(vc.Lower.Value, vc.Upper.Value); ok {
				return writeFixedWidth(w, v, width, signed)
			}
		}
	} else if c.Value == nil {
		if err := c.CheckValue(v); err != nil {
			return err
		}
	}
	return encodeVariableInteger(w, v, nonNegativeOnly(c))
}

func decodeInteger(r *asn1codec.BitReader, c asn1codec.Constraints, strict bool) (*big.Int, error) {
	var v *big.Int
	var err error
	if c.Value != nil && !c.Value.Extensible {
		vc := *c.Value
		if !vc.Lower.Unbounded && !vc.Upper.Unbounded {
			if width, signed, ok := fixedWidthOctets(vc.Lower.Value, vc.Upper.Value); ok {
				v, err = readFixedWidth(r, width, signed)
				if err != nil {
					return nil, err
				}
				if chkErr := c.CheckValue(v); chkErr != nil {
					return nil, chkErr
				}
				return v, nil
			}
		}
	}
	v, err = decodeVariableInteger(r, nonNegativeOnly(c), strict)
	if err != nil {
		return nil, err
	}
	if c.Value == nil || !c.Value.Extensible {
		if err := c.CheckValue(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// nonNegativeOnly reports whether the effective constraint guarantees
// every legal value is non-negative (a semi-constrained lower bound of
// 0 or more), in which case the variable-width fallback uses an
// unsigned representation instead of two's complement (§4.7 "the
// minimum two's-complement (if signed) or unsigned big-endian
// representation"). An extensible root of 0 or more doesn't carry this
// guarantee — an extension addition may still be negative — so it's
// excluded here the same way the extension branch skips CheckValue.
func nonNegativeOnly(c asn1codec.Constraints) bool {
	return c.Value != nil && !c.Value.Extensible && !c.Value.Lower.Unbounded && c.Value.Lower.Value >= 0
}

func encodeVariableInteger(w *asn1codec.BitWriter, v *big.Int, unsigned bool) error {
	var octets []byte
	if unsigned {
		if v.Sign() < 0 {
			return asn1codec.NewCustomError("integer", "negative value outside non-negative constraint")
		}
		octets = minimalUnsignedOctets(v)
	} else {
		octets = minimalTwosComplementOctets(v)
	}
	if err := encodeLength(w, uint64(len(octets))); err != nil {
		return err
	}
	return w.AppendBytes(octets)
}

func decodeVariableInteger(r *asn1codec.BitReader, unsigned bool, strict bool) (*big.Int, error) {
	n, err := decodeLength(r, strict)
	if err != nil {
		return nil, err
	}
	octets, err := r.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	if unsigned {
		return new(big.Int).SetBytes(octets), nil
	}
	return twosComplementToBigInt(octets), nil
}
