package per

import (
	"math"
	"math/big"

	asn1codec "github.com/kestrel-oss/asn1codec"
)

/*
Encoder implements asn1codec.Encoder for both PER variants. aligned
selects APER (octet-aligned length-bearing fields and "large" whole
numbers) versus UPER (no padding, ever).

A fresh Encoder returned by NewEncoder is the top-level encoder for one
Finish() call. EncodeSequence/EncodeSet/EncodeExtensionAddition create
short-lived child Encoders (via fresh) that accumulate into their own
scratch [asn1codec.BitWriter] and are appended to the parent's buffer
with AppendWriter once their closure returns — see fresh.
*/
type Encoder struct {
	rule    asn1codec.Rule
	aligned bool
	cfg     asn1codec.EngineConfig
	depth   *asn1codec.DepthGuard
	w       *asn1codec.BitWriter

	preamble  []bool
	extBodies [][]byte
}

// NewEncoder returns a top-level Encoder for rule (must be Aper or Uper).
func NewEncoder(rule asn1codec.Rule, cfg asn1codec.EngineConfig) *Encoder {
	return &Encoder{
		rule:    rule,
		aligned: rule.Aligned(),
		cfg:     cfg,
		depth:   asn1codec.NewDepthGuard(cfg.MaxDepth),
		w:       asn1codec.NewBitWriter(),
	}
}

func (e *Encoder) fresh() *Encoder {
	return &Encoder{rule: e.rule, aligned: e.aligned, cfg: e.cfg, depth: e.depth, w: asn1codec.NewBitWriter()}
}

func (e *Encoder) Rule() asn1codec.Rule { return e.rule }

func (e *Encoder) Finish() ([]byte, error) {
	return e.w.Bytes(), nil
}

func (e *Encoder) EncodeBool(tag asn1codec.Tag, v bool) error {
	b := uint8(0)
	if v {
		b = 1
	}
	return e.w.AppendBit(b)
}

func (e *Encoder) EncodeInteger(tag asn1codec.Tag, v *big.Int, c asn1codec.Constraints) error {
	if c.Value == nil {
		if err := c.CheckValue(v); err != nil {
			return err
		}
		return encodeUnconstrainedWholeNumber(e.w, v, e.aligned)
	}
	vc := *c.Value
	inRoot := vc.Contains(v)
	// CheckValue tests only the root range (§4.2 "does the root set
	// contain v?"), so a value outside it is only actually an error when
	// the constraint isn't extensible — an extension value legitimately
	// lies outside the root and is encoded via the unconstrained path
	// below instead of being rejected here.
	if !inRoot && !vc.Extensible {
		return c.CheckValue(v)
	}
	if inRoot {
		if err := c.CheckValue(v); err != nil {
			return err
		}
	}
	if vc.Extensible {
		bit := uint8(0)
		if !inRoot {
			bit = 1
		}
		if err := e.w.AppendBit(bit); err != nil {
			return err
		}
		if bit == 1 {
			return encodeUnconstrainedWholeNumber(e.w, v, e.aligned)
		}
	}
	switch {
	case vc.Lower.Unbounded && vc.Upper.Unbounded:
		return encodeUnconstrainedWholeNumber(e.w, v, e.aligned)
	case !vc.Lower.Unbounded && vc.Upper.Unbounded:
		return encodeSemiConstrainedWholeNumber(e.w, v, vc.Lower.Value, e.aligned)
	case vc.Lower.Unbounded && !vc.Upper.Unbounded:
		return encodeUnconstrainedWholeNumber(e.w, v, e.aligned)
	default:
		return encodeConstrainedWholeNumber(e.w, v, vc.Lower.Value, vc.Upper.Value, e.aligned)
	}
}

// EncodeEnumerated treats ordinal as the absolute index over the
// flattened root+extension value space: ordinal < rootCount selects a
// root value, encoded as a constrained whole number over
// [0, rootCount-1]; ordinal >= rootCount selects extension member
// ordinal-rootCount, encoded as a normally-small number. extensible
// governs whether the leading root/extension marker bit is written at
// all — a non-extensible ENUMERATED never has extension members and
// never carries the bit.
func (e *Encoder) EncodeEnumerated(tag asn1codec.Tag, ordinal, rootCount int, extensible bool, c asn1codec.Constraints) error {
	isExt := ordinal >= rootCount
	if extensible {
		bit := uint8(0)
		if isExt {
			bit = 1
		}
		if err := e.w.AppendBit(bit); err != nil {
			return err
		}
	}
	if isExt {
		return encodeNormallySmallNumber(e.w, uint64(ordinal-rootCount), e.aligned)
	}
	if rootCount <= 1 {
		return nil
	}
	return encodeConstrainedWholeNumber(e.w, big.NewInt(int64(ordinal)), 0, int64(rootCount-1), e.aligned)
}

func (e *Encoder) EncodeNull(tag asn1codec.Tag) error { return nil }

func (e *Encoder) EncodeBitString(tag asn1codec.Tag, bits []byte, bitLen int, c asn1codec.Constraints) error {
	if err := c.CheckSize(uint64(bitLen)); err != nil {
		return err
	}
	return encodeCountedPayload(e.w, uint64(bitLen), c.Size, e.aligned, func(offset, count uint64) error {
		return writeBitRange(e.w, bits, offset, count)
	})
}

func writeBitRange(w *asn1codec.BitWriter, bits []byte, offset, count uint64) error {
	for i := uint64(0); i < count; i++ {
		idx := offset + i
		bit := uint8(0)
		if bits[idx/8]&(0x80>>(idx%8)) != 0 {
			bit = 1
		}
		if err := w.AppendBit(bit); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) EncodeOctetString(tag asn1codec.Tag, v []byte, c asn1codec.Constraints) error {
	if err := c.CheckSize(uint64(len(v))); err != nil {
		return err
	}
	return encodeCountedPayload(e.w, uint64(len(v)), c.Size, e.aligned, func(offset, count uint64) error {
		return e.w.AppendBytes(v[offset : offset+count])
	})
}

// EncodeRestrictedString packs one code point per unit into the
// narrowest fixed width the effective alphabet supports (§4.6
// "Restricted strings"): the permitted alphabet's index width when one
// is in force, otherwise the string kind's natural width. UTF8String's
// natural width is a byte, not a rune (§4.6 "Utf8 encodes UTF-8 bytes"),
// so an unconstrained UTF8String is counted and packed over its UTF-8
// bytes rather than its runes.
func (e *Encoder) EncodeRestrictedString(tag asn1codec.Tag, kind asn1codec.StringKind, v string, c asn1codec.Constraints) error {
	if err := c.CheckAlphabet(v); err != nil {
		return err
	}
	alphabet := c.Alphabet
	if alphabet == nil {
		def := asn1codec.DefaultAlphabet(kind)
		alphabet = &def
	}
	if kind == asn1codec.KindUTF8String && alphabet.Cardinality() == 0 {
		b := []byte(v)
		if err := c.CheckSize(uint64(len(b))); err != nil {
			return err
		}
		return encodeCountedPayload(e.w, uint64(len(b)), c.Size, e.aligned, func(offset, count uint64) error {
			return e.w.AppendBytes(b[offset : offset+count])
		})
	}
	runes := []rune(v)
	if err := c.CheckSize(uint64(len(runes))); err != nil {
		return err
	}
	width := alphabetWidth(*alphabet, kind)
	return encodeCountedPayload(e.w, uint64(len(runes)), c.Size, e.aligned, func(offset, count uint64) error {
		for i := uint64(0); i < count; i++ {
			r := runes[offset+i]
			code, err := codePointFor(*alphabet, kind, r)
			if err != nil {
				return err
			}
			if err := writeUintBits(e.w, new(big.Int).SetUint64(code), width); err != nil {
				return err
			}
		}
		return nil
	})
}

func alphabetWidth(alphabet asn1codec.PermittedAlphabet, kind asn1codec.StringKind) int {
	if card := alphabet.Cardinality(); card > 0 {
		return bitsForRange(big.NewInt(int64(card - 1)))
	}
	return kind.NaturalWidthBits()
}

func codePointFor(alphabet asn1codec.PermittedAlphabet, kind asn1codec.StringKind, r rune) (uint64, error) {
	if alphabet.Cardinality() > 0 {
		idx, ok := alphabet.Index(r)
		if !ok {
			return 0, asn1codec.NewCustomError("alphabet", "character not in permitted alphabet")
		}
		return idx, nil
	}
	return uint64(r), nil
}

func (e *Encoder) EncodeObjectIdentifier(tag asn1codec.Tag, v asn1codec.ObjectIdentifier) error {
	der, err := v.EncodeDER()
	if err != nil {
		return err
	}
	if e.aligned {
		e.w.AlignToByte()
	}
	if err := encodeLengthDeterminantSmall(e.w, uint64(len(der))); err != nil {
		return err
	}
	return e.w.AppendBytes(der)
}

// EncodeReal writes v as its IEEE 754 binary64 bit pattern, a pragmatic
// simplification of X.690/X.691's binary/decimal REAL encoding options
// that this module does not otherwise distinguish.
func (e *Encoder) EncodeReal(tag asn1codec.Tag, v float64) error {
	bits := math.Float64bits(v)
	octets := make([]byte, 8)
	for i := 0; i < 8; i++ {
		octets[7-i] = byte(bits >> (8 * i))
	}
	if e.aligned {
		e.w.AlignToByte()
	}
	if err := encodeLengthDeterminantSmall(e.w, 8); err != nil {
		return err
	}
	return e.w.AppendBytes(octets)
}

func (e *Encoder) EncodeGeneralizedTime(tag asn1codec.Tag, v asn1codec.GeneralizedTime) error {
	return e.encodeCanonicalString(v.Canonical())
}

func (e *Encoder) EncodeUTCTime(tag asn1codec.Tag, v asn1codec.UTCTime) error {
	return e.encodeCanonicalString(v.Canonical())
}

func (e *Encoder) encodeCanonicalString(s string) error {
	b := []byte(s)
	if e.aligned {
		e.w.AlignToByte()
	}
	if err := encodeLengthDeterminantSmall(e.w, uint64(len(b))); err != nil {
		return err
	}
	return e.w.AppendBytes(b)
}

// EncodeSequence writes extensible's marker bit and the root preamble
// before the body the caller's closure produces, even though the
// closure interleaves presence and value calls in declaration order:
// fn runs against a child Encoder whose EncodeSome/EncodeNone record
// presence bits into body.preamble while every value write (required
// or present-optional) lands in body.w in call order. Once fn returns,
// that recorded preamble and body.w are spliced into e.w in the
// clause-9/clause-19 order: marker, preamble, body, extension block.
func (e *Encoder) EncodeSequence(tag asn1codec.Tag, extensible bool, fn func(asn1codec.Encoder) error) error {
	leave, err := e.depth.Enter()
	if err != nil {
		return err
	}
	defer leave()

	body := e.fresh()
	if err := fn(body); err != nil {
		return err
	}
	if extensible {
		bit := uint8(0)
		if len(body.extBodies) > 0 {
			bit = 1
		}
		if err := e.w.AppendBit(bit); err != nil {
			return err
		}
	}
	for _, present := range body.preamble {
		b := uint8(0)
		if present {
			b = 1
		}
		if err := e.w.AppendBit(b); err != nil {
			return err
		}
	}
	if err := e.w.AppendWriter(body.w); err != nil {
		return err
	}
	return e.writeExtensionBlock(body)
}

func (e *Encoder) writeExtensionBlock(body *Encoder) error {
	if len(body.extBodies) == 0 {
		return nil
	}
	if err := encodeNormallySmallNumber(e.w, uint64(len(body.extBodies)-1), e.aligned); err != nil {
		return err
	}
	for range body.extBodies {
		if err := e.w.AppendBit(1); err != nil {
			return err
		}
	}
	for _, content := range body.extBodies {
		e.w.AlignToByte()
		if err := encodeLengthAndPayload(e.w, uint64(len(content)), func(offset, count uint64) error {
			return e.w.AppendBytes(content[offset : offset+count])
		}); err != nil {
			return err
		}
	}
	return nil
}

// EncodeSet behaves exactly like EncodeSequence: PER does not reorder
// SET fields (that is a DER-only concern, Q3).
func (e *Encoder) EncodeSet(tag asn1codec.Tag, extensible bool, fn func(asn1codec.Encoder) error) error {
	return e.EncodeSequence(tag, extensible, fn)
}

// EncodeChoice writes the extensibility marker (if extensible), then
// the variant index: a constrained whole number over [0, rootCount-1]
// for a root variant, or a normally-small number for an extension
// variant whose body is wrapped as an open type (clause 23).
func (e *Encoder) EncodeChoice(tag asn1codec.Tag, extensible bool, variantIndex, rootCount int, extension bool, fn func(asn1codec.Encoder) error) error {
	leave, err := e.depth.Enter()
	if err != nil {
		return err
	}
	defer leave()

	if extensible {
		bit := uint8(0)
		if extension {
			bit = 1
		}
		if err := e.w.AppendBit(bit); err != nil {
			return err
		}
	}
	if extension {
		if err := encodeNormallySmallNumber(e.w, uint64(variantIndex), e.aligned); err != nil {
			return err
		}
		sub := e.fresh()
		if err := fn(sub); err != nil {
			return err
		}
		sub.w.AlignToByte()
		content := sub.w.Bytes()
		e.w.AlignToByte()
		return encodeLengthAndPayload(e.w, uint64(len(content)), func(offset, count uint64) error {
			return e.w.AppendBytes(content[offset : offset+count])
		})
	}
	if rootCount > 1 {
		if err := encodeConstrainedWholeNumber(e.w, big.NewInt(int64(variantIndex)), 0, int64(rootCount-1), e.aligned); err != nil {
			return err
		}
	}
	return fn(e)
}

func (e *Encoder) EncodeSequenceOf(tag asn1codec.Tag, n int, c asn1codec.Constraints, fn func(i int, sub asn1codec.Encoder) error) error {
	leave, err := e.depth.Enter()
	if err != nil {
		return err
	}
	defer leave()
	if err := c.CheckSize(uint64(n)); err != nil {
		return err
	}
	return encodeCountedPayload(e.w, uint64(n), c.Size, e.aligned, func(offset, count uint64) error {
		for i := offset; i < offset+count; i++ {
			if err := fn(int(i), e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (e *Encoder) EncodeSetOf(tag asn1codec.Tag, n int, c asn1codec.Constraints, fn func(i int, sub asn1codec.Encoder) error) error {
	return e.EncodeSequenceOf(tag, n, c, fn)
}

// EncodeExplicitPrefix is a pass-through: PER never encodes tags
// (X.691 clause 18), so an explicitly tagged value's encoding is
// bit-identical to its inner value's encoding.
func (e *Encoder) EncodeExplicitPrefix(tag asn1codec.Tag, fn func(asn1codec.Encoder) error) error {
	return fn(e)
}

// EncodeExtensionAddition wraps fn's output as an open type: a
// byte-aligned, length-prefixed octet string built from a scratch
// Encoder, queued on e so the enclosing EncodeSequence can emit the
// extension preamble and body block once every addition has been
// collected.
func (e *Encoder) EncodeExtensionAddition(fn func(asn1codec.Encoder) error) error {
	sub := e.fresh()
	if err := fn(sub); err != nil {
		return err
	}
	sub.w.AlignToByte()
	e.extBodies = append(e.extBodies, sub.w.Bytes())
	return nil
}

// EncodeExtensionAdditionGroup behaves like EncodeExtensionAddition:
// an extension-addition-group's own field count is static in the
// caller's type definition and is encoded by fn itself (typically via
// a nested EncodeSequence call), so no separate backend-level count
// prefix is needed here.
func (e *Encoder) EncodeExtensionAdditionGroup(fn func(asn1codec.Encoder) error) error {
	return e.EncodeExtensionAddition(fn)
}

func (e *Encoder) EncodeSome(fn func(asn1codec.Encoder) error) error {
	e.preamble = append(e.preamble, true)
	return fn(e)
}

func (e *Encoder) EncodeNone() error {
	e.preamble = append(e.preamble, false)
	return nil
}

func (e *Encoder) EncodeDefault(present bool, fn func(asn1codec.Encoder) error) error {
	if present {
		return e.EncodeSome(fn)
	}
	return e.EncodeNone()
}
