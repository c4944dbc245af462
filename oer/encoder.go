package oer

import (
	"math"
	"math/big"

	asn1codec "github.com/kestrel-oss/asn1codec"
)

/*
Encoder implements asn1codec.Encoder for both OER variants. canonical
selects COER (no leading zero padding on length octets, short form
required whenever possible) versus plain OER; neither variant reorders
SET fields (see EncodeSet).

Like per.Encoder, a top-level Encoder is created fresh per Finish()
call; EncodeSequence/EncodeSet/EncodeExtensionAddition build their
bodies in a scratch child Encoder (fresh) so the preamble bitmap and
extension bookkeeping can be computed before the bytes they describe
are appended to the parent. EncodeChoice uses a scratch child only for
an extension variant; a root variant's body is written in place.
*/
type Encoder struct {
	rule      asn1codec.Rule
	canonical bool
	cfg       asn1codec.EngineConfig
	depth     *asn1codec.DepthGuard
	w         *asn1codec.BitWriter

	preamble  []bool
	extBodies [][]byte
}

// NewEncoder returns a top-level Encoder for rule (must be Oer or Coer).
func NewEncoder(rule asn1codec.Rule, cfg asn1codec.EngineConfig) *Encoder {
	return &Encoder{
		rule:      rule,
		canonical: rule == asn1codec.Coer,
		cfg:       cfg,
		depth:     asn1codec.NewDepthGuard(cfg.MaxDepth),
		w:         asn1codec.NewBitWriter(),
	}
}

func (e *Encoder) fresh() *Encoder {
	return &Encoder{rule: e.rule, canonical: e.canonical, cfg: e.cfg, depth: e.depth, w: asn1codec.NewBitWriter()}
}

func (e *Encoder) Rule() asn1codec.Rule { return e.rule }

func (e *Encoder) Finish() ([]byte, error) { return e.w.Bytes(), nil }

func (e *Encoder) EncodeBool(tag asn1codec.Tag, v bool) error {
	b := byte(0x00)
	if v {
		b = 0xFF
	}
	return e.w.AppendBytes([]byte{b})
}

func (e *Encoder) EncodeInteger(tag asn1codec.Tag, v *big.Int, c asn1codec.Constraints) error {
	return encodeInteger(e.w, v, c)
}

// EncodeEnumerated writes the ordinal per §4.7 "ENUMERATED": one signed
// octet when it fits, else a length-prefixed two's-complement form.
// extension/rootCount are accepted for interface symmetry with PER —
// OER draws no distinction between a root and an extension ordinal, it
// simply transmits whichever integer the type resolved.
func (e *Encoder) EncodeEnumerated(tag asn1codec.Tag, ordinal, rootCount int, extensible bool, c asn1codec.Constraints) error {
	v := big.NewInt(int64(ordinal))
	if v.Cmp(big.NewInt(-128)) >= 0 && v.Cmp(big.NewInt(127)) <= 0 {
		return writeFixedWidth(e.w, v, 1, true)
	}
	octets := minimalTwosComplementOctets(v)
	if err := e.w.AppendBytes([]byte{0x80 | byte(len(octets))}); err != nil {
		return err
	}
	return e.w.AppendBytes(octets)
}

func (e *Encoder) EncodeNull(tag asn1codec.Tag) error { return nil }

func (e *Encoder) EncodeBitString(tag asn1codec.Tag, bits []byte, bitLen int, c asn1codec.Constraints) error {
	if err := c.CheckSize(uint64(bitLen)); err != nil {
		return err
	}
	unused := 0
	if bitLen%8 != 0 {
		unused = 8 - bitLen%8
	}
	octetLen := (bitLen + 7) / 8
	fixed := c.Size != nil && c.Size.Fixed()
	return encodeLengthAndPayload(e.w, uint64(octetLen+1), fixed, func() error {
		if err := e.w.AppendBytes([]byte{byte(unused)}); err != nil {
			return err
		}
		return e.w.AppendBytes(bits[:octetLen])
	})
}

func (e *Encoder) EncodeOctetString(tag asn1codec.Tag, v []byte, c asn1codec.Constraints) error {
	if err := c.CheckSize(uint64(len(v))); err != nil {
		return err
	}
	fixed := c.Size != nil && c.Size.Fixed()
	return encodeLengthAndPayload(e.w, uint64(len(v)), fixed, func() error {
		return e.w.AppendBytes(v)
	})
}

// EncodeRestrictedString writes content bytes directly: Utf8String's
// UTF-8 bytes, every other restricted string kind's natural single- or
// multi-byte code units, length-prefixed by the octet count exactly
// like OCTET STRING (§4.7 defers to the same length-determinant/payload
// shape; X.696 gives REAL its own clause but treats character strings
// as octet-aligned content like everything else in OER).
func (e *Encoder) EncodeRestrictedString(tag asn1codec.Tag, kind asn1codec.StringKind, v string, c asn1codec.Constraints) error {
	runes := []rune(v)
	if err := c.CheckSize(uint64(len(runes))); err != nil {
		return err
	}
	if err := c.CheckAlphabet(v); err != nil {
		return err
	}
	content, err := encodeStringContent(kind, runes)
	if err != nil {
		return err
	}
	fixed := c.Size != nil && c.Size.Fixed()
	return encodeLengthAndPayload(e.w, uint64(len(content)), fixed, func() error {
		return e.w.AppendBytes(content)
	})
}

func (e *Encoder) EncodeObjectIdentifier(tag asn1codec.Tag, v asn1codec.ObjectIdentifier) error {
	der, err := v.EncodeDER()
	if err != nil {
		return err
	}
	return encodeLengthAndPayload(e.w, uint64(len(der)), false, func() error {
		return e.w.AppendBytes(der)
	})
}

// EncodeReal writes a length determinant of 8 followed by the 8-byte
// big-endian IEEE 754 binary64 bit pattern produced by
// math.Float64bits, the same payload the PER backend writes for the
// same field. No DER REAL header octet is written: the payload is the
// raw binary64 pattern, not a DER-style real encoding.
func (e *Encoder) EncodeReal(tag asn1codec.Tag, v float64) error {
	bits := math.Float64bits(v)
	octets := make([]byte, 8)
	for i := 0; i < 8; i++ {
		octets[7-i] = byte(bits >> (8 * i))
	}
	return encodeLengthAndPayload(e.w, 8, false, func() error {
		return e.w.AppendBytes(octets)
	})
}

func (e *Encoder) EncodeGeneralizedTime(tag asn1codec.Tag, v asn1codec.GeneralizedTime) error {
	return e.encodeCanonicalString(v.Canonical())
}

func (e *Encoder) EncodeUTCTime(tag asn1codec.Tag, v asn1codec.UTCTime) error {
	return e.encodeCanonicalString(v.Canonical())
}

func (e *Encoder) encodeCanonicalString(s string) error {
	b := []byte(s)
	return encodeLengthAndPayload(e.w, uint64(len(b)), false, func() error {
		return e.w.AppendBytes(b)
	})
}

// EncodeSequence writes the preamble byte-string (one presence bit per
// OPTIONAL/DEFAULT root field, plus a leading extension-present bit
// when extensible, zero-padded to a byte boundary) before the root
// field bodies fn produced, then the extension block if any extension
// addition was queued (§4.7 "SEQUENCE").
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
	e.w.AlignToByte()
	if err := e.w.AppendWriter(body.w); err != nil {
		return err
	}
	return e.writeExtensionBlock(body)
}

// writeExtensionBlock writes the extension preamble (a count of present
// extension additions, in the order EncodeExtensionAddition queued
// them; absent additions take no place and an addition's declared
// position is not recorded) followed by each addition's body
// as a length-prefixed open type (§4.7 "an 'extension preamble'
// byte-string and the extension bodies as open types").
func (e *Encoder) writeExtensionBlock(body *Encoder) error {
	if len(body.extBodies) == 0 {
		return nil
	}
	if err := encodeLength(e.w, uint64(len(body.extBodies))); err != nil {
		return err
	}
	for _, content := range body.extBodies {
		if err := encodeLength(e.w, uint64(len(content))); err != nil {
			return err
		}
		if err := e.w.AppendBytes(content); err != nil {
			return err
		}
	}
	return nil
}

// EncodeSet behaves exactly like EncodeSequence: §4.7 gives SET the same
// preamble-then-fields shape as SEQUENCE and names no field-reordering
// requirement for OER/COER the way Q3 does for DER's tag-sorted SET.
func (e *Encoder) EncodeSet(tag asn1codec.Tag, extensible bool, fn func(asn1codec.Encoder) error) error {
	return e.EncodeSequence(tag, extensible, fn)
}

// EncodeChoice writes the selected variant's canonical tag octets, then
// its body. Extension variants are additionally wrapped as a
// length-prefixed open type (§4.7 "Extension variants are carried as an
// opaque length-prefixed open type").
func (e *Encoder) EncodeChoice(tag asn1codec.Tag, extensible bool, variantIndex, rootCount int, extension bool, fn func(asn1codec.Encoder) error) error {
	leave, err := e.depth.Enter()
	if err != nil {
		return err
	}
	defer leave()

	if err := e.w.AppendBytes(encodeTagOctets(tag)); err != nil {
		return err
	}
	if !extension {
		return fn(e)
	}
	sub := e.fresh()
	if err := fn(sub); err != nil {
		return err
	}
	content := sub.w.Bytes()
	return encodeLengthAndPayload(e.w, uint64(len(content)), false, func() error {
		return e.w.AppendBytes(content)
	})
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
	fixed := c.Size != nil && c.Size.Fixed()
	if !fixed {
		if err := encodeLength(e.w, uint64(n)); err != nil {
			return err
		}
	}
	for i := 0; i < n; i++ {
		if err := fn(i, e); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) EncodeSetOf(tag asn1codec.Tag, n int, c asn1codec.Constraints, fn func(i int, sub asn1codec.Encoder) error) error {
	return e.EncodeSequenceOf(tag, n, c, fn)
}

// EncodeExplicitPrefix is a pass-through: OER, like PER, never encodes
// tags outside CHOICE (X.696 clause 5.3 carries no explicit-tag octets
// of its own — the inner value's encoding is unchanged).
func (e *Encoder) EncodeExplicitPrefix(tag asn1codec.Tag, fn func(asn1codec.Encoder) error) error {
	return fn(e)
}

// EncodeExtensionAddition queues fn's output as an open type, emitted by
// the enclosing EncodeSequence's writeExtensionBlock once every
// extension addition for this value has been collected.
func (e *Encoder) EncodeExtensionAddition(fn func(asn1codec.Encoder) error) error {
	sub := e.fresh()
	if err := fn(sub); err != nil {
		return err
	}
	e.extBodies = append(e.extBodies, sub.w.Bytes())
	return nil
}

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
