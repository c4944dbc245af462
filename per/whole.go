package per

import (
	"math/big"

	asn1codec "github.com/kestrel-oss/asn1codec"
)

/*
whole.go implements the three whole-number encodings X.691 clause 10.5
distinguishes, driven by the effective [asn1codec.ValueConstraint]:

  - fully constrained, width known: the value minus the lower bound in
    exactly ceil(log2(range+1)) bits, octet-aligned first in aligned
    mode when that width exceeds one octet ("large" per clause 10.5.7.4);
  - semi-constrained (lower bound only): the value minus the lower
    bound as a minimal-octet two's-complement-free unsigned integer,
    length-prefixed;
  - unconstrained: the value's minimal two's-complement representation,
    length-prefixed.
*/

func alignIfLarge(w *asn1codec.BitWriter, aligned bool, widthBits int) {
	if aligned && widthBits > 8 {
		w.AlignToByte()
	}
}

// encodeConstrainedWholeNumber writes v-lower in the minimal fixed bit
// width implied by [lower, upper]. Both bounds are assumed already
// validated against v by the caller's constraint check.
func encodeConstrainedWholeNumber(w *asn1codec.BitWriter, v *big.Int, lower, upper int64, aligned bool) error {
	span := new(big.Int).Sub(big.NewInt(upper), big.NewInt(lower))
	width := bitsForRange(span)
	if width == 0 {
		return nil
	}
	offset := new(big.Int).Sub(v, big.NewInt(lower))
	alignIfLarge(w, aligned, width)
	return writeUintBits(w, offset, width)
}

func decodeConstrainedWholeNumber(r *asn1codec.BitReader, lower, upper int64, aligned bool) (*big.Int, error) {
	span := new(big.Int).Sub(big.NewInt(upper), big.NewInt(lower))
	width := bitsForRange(span)
	if width == 0 {
		return big.NewInt(lower), nil
	}
	if aligned && width > 8 {
		if err := r.AlignToByte(); err != nil {
			return nil, err
		}
	}
	offset, err := readUintBits(r, width)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Add(offset, big.NewInt(lower)), nil
}

// encodeSemiConstrainedWholeNumber writes v-lower as a minimal-length
// unsigned octet string, prefixed with its octet count via the general
// length form (clause 10.6/10.9 collapse to the same octet-count
// mechanism for the small counts an integer's magnitude produces).
func encodeSemiConstrainedWholeNumber(w *asn1codec.BitWriter, v *big.Int, lower int64, aligned bool) error {
	offset := new(big.Int).Sub(v, big.NewInt(lower))
	octets := minimalUnsignedOctets(offset)
	if aligned {
		w.AlignToByte()
	}
	if err := encodeLengthDeterminantSmall(w, uint64(len(octets))); err != nil {
		return err
	}
	return w.AppendBytes(octets)
}

func decodeSemiConstrainedWholeNumber(r *asn1codec.BitReader, lower int64, aligned bool) (*big.Int, error) {
	if aligned {
		if err := r.AlignToByte(); err != nil {
			return nil, err
		}
	}
	n, err := decodeLengthDeterminantSmall(r)
	if err != nil {
		return nil, err
	}
	octets, err := r.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	offset := new(big.Int).SetBytes(octets)
	return new(big.Int).Add(offset, big.NewInt(lower)), nil
}

// encodeUnconstrainedWholeNumber writes v as a minimal two's-complement
// octet string, length-prefixed the same way as the semi-constrained
// case (clause 10.8).
func encodeUnconstrainedWholeNumber(w *asn1codec.BitWriter, v *big.Int, aligned bool) error {
	octets := minimalTwosComplementOctets(v)
	if aligned {
		w.AlignToByte()
	}
	if err := encodeLengthDeterminantSmall(w, uint64(len(octets))); err != nil {
		return err
	}
	return w.AppendBytes(octets)
}

func decodeUnconstrainedWholeNumber(r *asn1codec.BitReader, aligned bool) (*big.Int, error) {
	if aligned {
		if err := r.AlignToByte(); err != nil {
			return nil, err
		}
	}
	n, err := decodeLengthDeterminantSmall(r)
	if err != nil {
		return nil, err
	}
	octets, err := r.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	return twosComplementToBigInt(octets), nil
}

// bitsForRange returns ceil(log2(span+1)), the bit width needed to
// represent every integer in [0, span].
func bitsForRange(span *big.Int) int {
	if span.Sign() <= 0 {
		return 0
	}
	bits := 0
	rem := new(big.Int).Set(span)
	for rem.Sign() > 0 {
		bits++
		rem.Rsh(rem, 1)
	}
	return bits
}

func writeUintBits(w *asn1codec.BitWriter, v *big.Int, width int) error {
	for width > 64 {
		chunk := width - 64
		hi := new(big.Int).Rsh(v, uint(chunk))
		if err := w.AppendBits(hi.Uint64(), 64); err != nil {
			return err
		}
		mask := new(big.Int).Lsh(big.NewInt(1), uint(chunk))
		mask.Sub(mask, big.NewInt(1))
		v = new(big.Int).And(v, mask)
		width = chunk
	}
	return w.AppendBits(v.Uint64(), uint8(width))
}

func readUintBits(r *asn1codec.BitReader, width int) (*big.Int, error) {
	out := new(big.Int)
	for width > 0 {
		n := uint8(64)
		if width < 64 {
			n = uint8(width)
		}
		v, err := r.ReadBits(n)
		if err != nil {
			return nil, err
		}
		out.Lsh(out, uint(n))
		out.Or(out, new(big.Int).SetUint64(v))
		width -= int(n)
	}
	return out, nil
}

// minimalUnsignedOctets renders a non-negative integer in the fewest
// octets that round-trip it, at least one octet even for zero.
func minimalUnsignedOctets(v *big.Int) []byte {
	b := v.Bytes()
	if len(b) == 0 {
		return []byte{0}
	}
	return b
}

// minimalTwosComplementOctets renders v in the fewest two's-complement
// octets that round-trip it, matching INTEGER's native representation.
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
	// Two's complement of a negative value: invert and add one over the
	// minimal unsigned magnitude width, padding a leading 0xFF when the
	// magnitude's top bit would otherwise read as positive.
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

/*
encodeNormallySmallNumber writes n (a non-negative count expected to
usually be small, such as an extension index or an extension-addition
count minus one) per clause 10.6: a single 0 bit then n in 6 bits when
n < 64, else a 1 bit followed by n as a semi-constrained whole number
with lower bound 0.
*/
func encodeNormallySmallNumber(w *asn1codec.BitWriter, n uint64, aligned bool) error {
	if n < 64 {
		if err := w.AppendBit(0); err != nil {
			return err
		}
		return w.AppendBits(n, 6)
	}
	if err := w.AppendBit(1); err != nil {
		return err
	}
	return encodeSemiConstrainedWholeNumber(w, new(big.Int).SetUint64(n), 0, aligned)
}

func decodeNormallySmallNumber(r *asn1codec.BitReader, aligned bool) (uint64, error) {
	flag, err := r.ReadBits(1)
	if err != nil {
		return 0, err
	}
	if flag == 0 {
		v, err := r.ReadBits(6)
		return v, err
	}
	v, err := decodeSemiConstrainedWholeNumber(r, 0, aligned)
	if err != nil {
		return 0, err
	}
	return v.Uint64(), nil
}
