package oer

import (
	"math/big"

	asn1codec "github.com/kestrel-oss/asn1codec"
)

/*
length.go implements the OER length determinant of §4.7: short form
(a single octet 0..127) or long form (one octet 0x80|n followed by n
big-endian octets carrying the length). COER forbids leading zero
padding on those n octets and requires the short form whenever
possible — encodeLength always produces the minimal form, so plain OER
and COER share one implementation here.
*/

func encodeLength(w *asn1codec.BitWriter, n uint64) error {
	if n < 128 {
		return w.AppendBytes([]byte{byte(n)})
	}
	octets := minimalUnsignedOctets(new(big.Int).SetUint64(n))
	if len(octets) > 127 {
		return asn1codec.NewCustomError("length", "length determinant too large to represent")
	}
	if err := w.AppendBytes([]byte{0x80 | byte(len(octets))}); err != nil {
		return err
	}
	return w.AppendBytes(octets)
}

func decodeLength(r *asn1codec.BitReader, strict bool) (uint64, error) {
	b0v, err := r.ReadBits(8)
	if err != nil {
		return 0, err
	}
	b0 := byte(b0v)
	if b0&0x80 == 0 {
		return uint64(b0), nil
	}
	n := int(b0 & 0x7F)
	if n == 0 {
		return 0, asn1codec.NewCustomError("length", "reserved long-form length count 0")
	}
	octets, err := r.ReadBytes(n)
	if err != nil {
		return 0, err
	}
	if strict {
		if n > 1 && octets[0] == 0 {
			return 0, asn1codec.NewCustomError("length", "non-minimal length determinant")
		}
		v := new(big.Int).SetBytes(octets)
		if v.IsUint64() && v.Uint64() < 128 {
			return 0, asn1codec.NewCustomError("length", "long form used where short form was required")
		}
	}
	return new(big.Int).SetBytes(octets).Uint64(), nil
}

// encodeLengthAndPayload writes n's length determinant then invokes
// writeBytes for the n octets/elements that follow. fixed, when true,
// means the caller's size constraint already fixes the count, so §4.7
// "Fixed-size constraints omit the length" applies and only the payload
// is written.
func encodeLengthAndPayload(w *asn1codec.BitWriter, n uint64, fixed bool, writeBytes func() error) error {
	if !fixed {
		if err := encodeLength(w, n); err != nil {
			return err
		}
	}
	return writeBytes()
}

func minimalUnsignedOctets(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) == 0 {
		return []byte{0}
	}
	return b
}

func minimalTwosComplementOctets(v *big.Int) []byte {
	if v.Sign() == 0 {
		return []byte{0}
	}
	if v.Sign() > 0 {
		b := v.Bytes()
		if b[0]&0x80 != 0 {
			b = append([]byte{0}, b...)
		}
		return b
	}
	mag := new(big.Int).Neg(v)
	nbits := mag.BitLen()
	nbytes := (nbits + 7) / 8
	if nbytes == 0 {
		nbytes = 1
	}
	pow := new(big.Int).Lsh(big.NewInt(1), uint(nbytes*8))
	twos := new(big.Int).Add(pow, v)
	b := twos.Bytes()
	for len(b) < nbytes {
		b = append([]byte{0}, b...)
	}
	if b[0]&0x80 == 0 {
		b = append([]byte{0xFF}, b...)
	}
	return b
}

func twosComplementToBigInt(b []byte) *big.Int {
	if len(b) == 0 {
		return big.NewInt(0)
	}
	v := new(big.Int).SetBytes(b)
	if b[0]&0x80 != 0 {
		pow := new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8))
		v.Sub(v, pow)
	}
	return v
}

// fixedWidthOctets returns the narrowest width in {1,2,4,8} octets that
// holds every value in [lower, upper] per §4.7 "Integer", or ok=false if
// no such fixed width exists (the caller must fall back to the
// length-prefixed variable form).
func fixedWidthOctets(lower, upper int64) (width int, signed bool, ok bool) {
	L, U := big.NewInt(lower), big.NewInt(upper)
	for _, k := range []int{1, 2, 4, 8} {
		if L.Sign() >= 0 {
			max := new(big.Int).Lsh(big.NewInt(1), uint(8*k))
			max.Sub(max, big.NewInt(1))
			if U.Cmp(max) <= 0 {
				return k, false, true
			}
			continue
		}
		min := new(big.Int).Lsh(big.NewInt(1), uint(8*k-1))
		min.Neg(min)
		max := new(big.Int).Lsh(big.NewInt(1), uint(8*k-1))
		max.Sub(max, big.NewInt(1))
		if L.Cmp(min) >= 0 && U.Cmp(max) <= 0 {
			return k, true, true
		}
	}
	return 0, false, false
}

func writeFixedWidth(w *asn1codec.BitWriter, v *big.Int, width int, signed bool) error {
	out := make([]byte, width)
	val := new(big.Int).Set(v)
	if signed && val.Sign() < 0 {
		pow := new(big.Int).Lsh(big.NewInt(1), uint(width*8))
		val.Add(val, pow)
	}
	b := val.Bytes()
	if len(b) > width {
		return asn1codec.NewCustomError("integer", "value does not fit fixed width")
	}
	copy(out[width-len(b):], b)
	return w.AppendBytes(out)
}

func readFixedWidth(r *asn1codec.BitReader, width int, signed bool) (*big.Int, error) {
	b, err := r.ReadBytes(width)
	if err != nil {
		return nil, err
	}
	v := new(big.Int).SetBytes(b)
	if signed && len(b) > 0 && b[0]&0x80 != 0 {
		pow := new(big.Int).Lsh(big.NewInt(1), uint(width*8))
		v.Sub(v, pow)
	}
	return v, nil
}
