package per

import (
	"math/big"

	asn1codec "github.com/kestrel-oss/asn1codec"
)

/*
length.go implements the PER length-determinant family of clause 10.9
and the fragmentation scheme built on top of it. Three distinct shapes
share the wire format but differ in when fragmentation is reachable:

  - encodeLengthDeterminantSmall: short/long form only, for the octet
    count of a semi-constrained/unconstrained whole number. Integers
    large enough to need fragmentation (>= 16384 octets of magnitude)
    are out of scope here; callers get an error instead of silently
    mis-encoding.
  - encodeCountedPayload/decodeCountedPayload: the full algorithm
    (fixed/constrained/general, with fragmentation) for the element or
    octet count of a SEQUENCE OF, SET OF, BIT STRING, OCTET STRING or
    restricted string (§4.6 "Fragmentation").
  - encodeLengthAndPayload/decodeLengthAndPayload: the general form with
    fragmentation, which encodeCountedPayload falls back to and which is
    called directly for the octet count of an open type (an extension
    CHOICE variant or an extension addition).
*/

func encodeLengthDeterminantSmall(w *asn1codec.BitWriter, n uint64) error {
	if n >= 16384 {
		return asn1codec.NewCustomError("length", "octet count too large for an unfragmented length determinant")
	}
	return encodeShortOrLongLength(w, n)
}

func decodeLengthDeterminantSmall(r *asn1codec.BitReader) (uint64, error) {
	b0v, err := r.ReadBits(8)
	if err != nil {
		return 0, err
	}
	b0 := byte(b0v)
	if b0&0x80 == 0 {
		return uint64(b0), nil
	}
	if b0&0xC0 == 0x80 {
		b1v, err := r.ReadBits(8)
		if err != nil {
			return 0, err
		}
		return (uint64(b0&0x3F) << 8) | uint64(b1v), nil
	}
	return 0, asn1codec.NewCustomError("length", "unexpected fragmentation marker in unfragmented length determinant")
}

func encodeShortOrLongLength(w *asn1codec.BitWriter, n uint64) error {
	if n < 128 {
		return w.AppendBits(n, 8)
	}
	return w.AppendBits(0x8000|n, 16)
}

// encodeLengthAndPayload writes the general length form for n units,
// fragmenting into chunks of up to 4*16384 units per clause 10.9.3,
// calling writeUnits for every contiguous run it emits in order.
func encodeLengthAndPayload(w *asn1codec.BitWriter, n uint64, writeUnits func(offset, count uint64) error) error {
	var offset uint64
	remaining := n
	for remaining >= 16384 {
		frag := remaining / 16384
		if frag > 4 {
			frag = 4
		}
		if err := w.AppendBits(0xC0|frag, 8); err != nil {
			return err
		}
		count := frag * 16384
		if err := writeUnits(offset, count); err != nil {
			return err
		}
		offset += count
		remaining -= count
	}
	if err := encodeShortOrLongLength(w, remaining); err != nil {
		return err
	}
	if remaining > 0 {
		return writeUnits(offset, remaining)
	}
	return nil
}

func decodeLengthAndPayload(r *asn1codec.BitReader, readUnits func(offset, count uint64) error) (uint64, error) {
	var total, offset uint64
	for {
		b0v, err := r.ReadBits(8)
		if err != nil {
			return 0, err
		}
		b0 := byte(b0v)
		if b0&0x80 == 0 {
			n := uint64(b0)
			if n > 0 {
				if err := readUnits(offset, n); err != nil {
					return 0, err
				}
			}
			return total + n, nil
		}
		if b0&0xC0 == 0x80 {
			b1v, err := r.ReadBits(8)
			if err != nil {
				return 0, err
			}
			n := (uint64(b0&0x3F) << 8) | uint64(b1v)
			if n > 0 {
				if err := readUnits(offset, n); err != nil {
					return 0, err
				}
			}
			return total + n, nil
		}
		frag := uint64(b0 & 0x3F)
		if frag < 1 || frag > 4 {
			return 0, asn1codec.NewCustomError("length", "invalid fragmentation marker")
		}
		n := frag * 16384
		if err := readUnits(offset, n); err != nil {
			return 0, err
		}
		offset += n
		total += n
	}
}

// encodeCountedPayload writes the length determinant governing n units
// (elements, octets, or characters) under sc, then the units themselves
// via writeUnits, per clause 10.9's three cases: fixed (sc.Fixed()),
// constrained with upper bound under 64K, and the general/fragmented
// form otherwise.
func encodeCountedPayload(w *asn1codec.BitWriter, n uint64, sc *asn1codec.SizeConstraint, aligned bool, writeUnits func(offset, count uint64) error) error {
	if sc != nil {
		lo, hi := sc.Bounds()
		if !lo.Unbounded && !hi.Unbounded {
			if lo.Value == hi.Value {
				return writeUnits(0, n)
			}
			if hi.Value < 65536 {
				if err := encodeConstrainedWholeNumber(w, new(big.Int).SetUint64(n), lo.Value, hi.Value, aligned); err != nil {
					return err
				}
				return writeUnits(0, n)
			}
		}
	}
	if aligned {
		w.AlignToByte()
	}
	return encodeLengthAndPayload(w, n, writeUnits)
}

// decodeCountedPayload is the symmetric counterpart of
// encodeCountedPayload, returning the decoded unit count.
func decodeCountedPayload(r *asn1codec.BitReader, sc *asn1codec.SizeConstraint, aligned bool, readUnits func(offset, count uint64) error) (uint64, error) {
	if sc != nil {
		lo, hi := sc.Bounds()
		if !lo.Unbounded && !hi.Unbounded {
			if lo.Value == hi.Value {
				n := uint64(lo.Value)
				if err := readUnits(0, n); err != nil {
					return 0, err
				}
				return n, nil
			}
			if hi.Value < 65536 {
				v, err := decodeConstrainedWholeNumber(r, lo.Value, hi.Value, aligned)
				if err != nil {
					return 0, err
				}
				n := v.Uint64()
				if err := readUnits(0, n); err != nil {
					return 0, err
				}
				return n, nil
			}
		}
	}
	if aligned {
		if err := r.AlignToByte(); err != nil {
			return 0, err
		}
	}
	return decodeLengthAndPayload(r, readUnits)
}
