package per

import (
	"math"
	"math/big"

	asn1codec "github.com/kestrel-oss/asn1codec"
)

/*
Decoder implements asn1codec.Decoder, symmetric to Encoder. A child
Decoder (see child) shares the parent's [asn1codec.BitReader] pointer
so the bit cursor advances continuously across nested constructed
types; only the extension-block bookkeeping (extReady/extRemaining) is
per-Decoder, scoped to the one SEQUENCE/SET currently being read.

Extension additions are decoded in the order they were encoded rather
than matched back to a specific field by index: EncodeExtensionAddition
only ever queues present extensions (§4.6's extension preamble
simplification), so DecodeExtensionAddition hands callers
one queued body per call, in order, until the queue is empty.
*/
type Decoder struct {
	rule    asn1codec.Rule
	aligned bool
	cfg     asn1codec.EngineConfig
	depth   *asn1codec.DepthGuard
	r       *asn1codec.BitReader

	pendingExtBit bool
	extReady      bool
	extRemaining  int
}

// NewDecoder returns a top-level Decoder over data for rule (Aper or Uper).
func NewDecoder(data []byte, rule asn1codec.Rule, cfg asn1codec.EngineConfig) *Decoder {
	return &Decoder{
		rule:    rule,
		aligned: rule.Aligned(),
		cfg:     cfg,
		depth:   asn1codec.NewDepthGuard(cfg.MaxDepth),
		r:       asn1codec.NewBitReader(data, cfg.Strict),
	}
}

func (d *Decoder) child() *Decoder {
	return &Decoder{rule: d.rule, aligned: d.aligned, cfg: d.cfg, depth: d.depth, r: d.r}
}

func (d *Decoder) childOver(content []byte) *Decoder {
	return &Decoder{rule: d.rule, aligned: d.aligned, cfg: d.cfg, depth: d.depth, r: asn1codec.NewBitReader(content, d.cfg.Strict)}
}

func (d *Decoder) Rule() asn1codec.Rule { return d.rule }
func (d *Decoder) Depth() int           { return d.depth.Depth() }

func (d *Decoder) Remaining() ([]byte, error) {
	_ = d.r.AlignToByte()
	n := int(d.r.RemainingBits() / 8)
	if n <= 0 {
		return nil, nil
	}
	return d.r.ReadBytes(n)
}

func (d *Decoder) DecodeBool(tag asn1codec.Tag) (bool, error) {
	v, err := d.r.ReadBits(1)
	if err != nil {
		return false, err
	}
	return v == 1, nil
}

func (d *Decoder) DecodeInteger(tag asn1codec.Tag, c asn1codec.Constraints) (*big.Int, error) {
	var v *big.Int
	var err error
	if c.Value == nil {
		v, err = decodeUnconstrainedWholeNumber(d.r, d.aligned)
	} else {
		vc := *c.Value
		if vc.Extensible {
			bit, berr := d.r.ReadBits(1)
			if berr != nil {
				return nil, berr
			}
			if bit == 1 {
				// An extension value is, by definition, outside the root
				// range CheckValue enforces (§4.2 "does the root set
				// contain v?") — checking it here would reject every
				// legitimate extension value the extensibility bit exists
				// to carry.
				return decodeUnconstrainedWholeNumber(d.r, d.aligned)
			}
		}
		switch {
		case vc.Lower.Unbounded && vc.Upper.Unbounded:
			v, err = decodeUnconstrainedWholeNumber(d.r, d.aligned)
		case !vc.Lower.Unbounded && vc.Upper.Unbounded:
			v, err = decodeSemiConstrainedWholeNumber(d.r, vc.Lower.Value, d.aligned)
		case vc.Lower.Unbounded && !vc.Upper.Unbounded:
			v, err = decodeUnconstrainedWholeNumber(d.r, d.aligned)
		default:
			v, err = decodeConstrainedWholeNumber(d.r, vc.Lower.Value, vc.Upper.Value, d.aligned)
		}
	}
	if err != nil {
		return nil, err
	}
	if err := c.CheckValue(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (d *Decoder) DecodeEnumerated(tag asn1codec.Tag, rootCount int, extensible bool, c asn1codec.Constraints) (int, bool, error) {
	if extensible {
		bit, err := d.r.ReadBits(1)
		if err != nil {
			return 0, false, err
		}
		if bit == 1 {
			n, err := decodeNormallySmallNumber(d.r, d.aligned)
			if err != nil {
				return 0, false, err
			}
			return rootCount + int(n), true, nil
		}
	}
	if rootCount <= 1 {
		return 0, false, nil
	}
	v, err := decodeConstrainedWholeNumber(d.r, 0, int64(rootCount-1), d.aligned)
	if err != nil {
		return 0, false, err
	}
	return int(v.Int64()), false, nil
}

func (d *Decoder) DecodeNull(tag asn1codec.Tag) error { return nil }

func (d *Decoder) DecodeBitString(tag asn1codec.Tag, c asn1codec.Constraints) ([]byte, int, error) {
	w := asn1codec.NewBitWriter()
	n, err := decodeCountedPayload(d.r, c.Size, d.aligned, func(offset, count uint64) error {
		for i := uint64(0); i < count; i++ {
			v, err := d.r.ReadBits(1)
			if err != nil {
				return err
			}
			if err := w.AppendBit(uint8(v)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	if err := c.CheckSize(n); err != nil {
		return nil, 0, err
	}
	return w.Bytes(), int(n), nil
}

func (d *Decoder) DecodeOctetString(tag asn1codec.Tag, c asn1codec.Constraints) ([]byte, error) {
	var out []byte
	n, err := decodeCountedPayload(d.r, c.Size, d.aligned, func(offset, count uint64) error {
		chunk, err := d.r.ReadBytes(int(count))
		if err != nil {
			return err
		}
		out = append(out, chunk...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := c.CheckSize(n); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Decoder) DecodeRestrictedString(tag asn1codec.Tag, kind asn1codec.StringKind, c asn1codec.Constraints) (string, error) {
	alphabet := c.Alphabet
	if alphabet == nil {
		def := asn1codec.DefaultAlphabet(kind)
		alphabet = &def
	}
	if kind == asn1codec.KindUTF8String && alphabet.Cardinality() == 0 {
		// Natural width for UTF8String is a byte, not a rune (§4.6
		// "Utf8 encodes UTF-8 bytes"), so the length determinant and
		// payload read here are over bytes; assembling runes one at a
		// time at 8 bits each would truncate any code point above 0xFF.
		var b []byte
		n, err := decodeCountedPayload(d.r, c.Size, d.aligned, func(offset, count uint64) error {
			chunk, err := d.r.ReadBytes(int(count))
			if err != nil {
				return err
			}
			b = append(b, chunk...)
			return nil
		})
		if err != nil {
			return "", err
		}
		if err := c.CheckSize(n); err != nil {
			return "", err
		}
		return string(b), nil
	}
	width := alphabetWidth(*alphabet, kind)
	var runes []rune
	n, err := decodeCountedPayload(d.r, c.Size, d.aligned, func(offset, count uint64) error {
		for i := uint64(0); i < count; i++ {
			v, err := readUintBits(d.r, width)
			if err != nil {
				return err
			}
			code := v.Uint64()
			if alphabet.Cardinality() > 0 {
				r, ok := alphabet.Char(code)
				if !ok {
					return asn1codec.NewCustomError("alphabet", "code point outside permitted alphabet")
				}
				runes = append(runes, r)
			} else {
				runes = append(runes, rune(code))
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if err := c.CheckSize(n); err != nil {
		return "", err
	}
	s := string(runes)
	if err := c.CheckAlphabet(s); err != nil {
		return "", err
	}
	return s, nil
}

func (d *Decoder) DecodeObjectIdentifier(tag asn1codec.Tag) (asn1codec.ObjectIdentifier, error) {
	if d.aligned {
		if err := d.r.AlignToByte(); err != nil {
			return nil, err
		}
	}
	n, err := decodeLengthDeterminantSmall(d.r)
	if err != nil {
		return nil, err
	}
	octets, err := d.r.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	return asn1codec.DecodeDER(octets)
}

func (d *Decoder) DecodeReal(tag asn1codec.Tag) (float64, error) {
	if d.aligned {
		if err := d.r.AlignToByte(); err != nil {
			return 0, err
		}
	}
	n, err := decodeLengthDeterminantSmall(d.r)
	if err != nil {
		return 0, err
	}
	octets, err := d.r.ReadBytes(int(n))
	if err != nil {
		return 0, err
	}
	var bits uint64
	for _, b := range octets {
		bits = bits<<8 | uint64(b)
	}
	return math.Float64frombits(bits), nil
}

func (d *Decoder) DecodeGeneralizedTime(tag asn1codec.Tag) (asn1codec.GeneralizedTime, error) {
	s, err := d.decodeCanonicalString()
	if err != nil {
		return asn1codec.GeneralizedTime{}, err
	}
	return asn1codec.ParseGeneralizedTime(s)
}

func (d *Decoder) DecodeUTCTime(tag asn1codec.Tag) (asn1codec.UTCTime, error) {
	s, err := d.decodeCanonicalString()
	if err != nil {
		return asn1codec.UTCTime{}, err
	}
	return asn1codec.ParseUTCTime(s)
}

func (d *Decoder) decodeCanonicalString() (string, error) {
	if d.aligned {
		if err := d.r.AlignToByte(); err != nil {
			return "", err
		}
	}
	n, err := decodeLengthDeterminantSmall(d.r)
	if err != nil {
		return "", err
	}
	b, err := d.r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *Decoder) DecodeSequence(tag asn1codec.Tag, extensible bool, rootOptionalCount int, fn func(asn1codec.Decoder) error) error {
	leave, err := d.depth.Enter()
	if err != nil {
		return err
	}
	defer leave()

	var extPresent bool
	if extensible {
		bit, err := d.r.ReadBits(1)
		if err != nil {
			return err
		}
		extPresent = bit == 1
	}
	sub := d.child()
	sub.pendingExtBit = extPresent
	return fn(sub)
}

func (d *Decoder) DecodeSet(tag asn1codec.Tag, extensible bool, rootOptionalCount int, fn func(asn1codec.Decoder) error) error {
	return d.DecodeSequence(tag, extensible, rootOptionalCount, fn)
}

func (d *Decoder) DecodeChoice(tag asn1codec.Tag, extensible bool, rootCount int, variantTags []asn1codec.Tag, fn func(sub asn1codec.Decoder, index int, extension bool) error) error {
	leave, err := d.depth.Enter()
	if err != nil {
		return err
	}
	defer leave()

	var extension bool
	if extensible {
		bit, err := d.r.ReadBits(1)
		if err != nil {
			return err
		}
		extension = bit == 1
	}
	if extension {
		idx, err := decodeNormallySmallNumber(d.r, d.aligned)
		if err != nil {
			return err
		}
		if err := d.r.AlignToByte(); err != nil {
			return err
		}
		var content []byte
		if _, err := decodeLengthAndPayload(d.r, func(offset, count uint64) error {
			chunk, err := d.r.ReadBytes(int(count))
			if err != nil {
				return err
			}
			content = append(content, chunk...)
			return nil
		}); err != nil {
			return err
		}
		return fn(d.childOver(content), int(idx), true)
	}
	var idx int
	if rootCount > 1 {
		v, err := decodeConstrainedWholeNumber(d.r, 0, int64(rootCount-1), d.aligned)
		if err != nil {
			return err
		}
		idx = int(v.Int64())
	}
	return fn(d.child(), idx, false)
}

func (d *Decoder) DecodeSequenceOf(tag asn1codec.Tag, c asn1codec.Constraints, fn func(i int, sub asn1codec.Decoder) error) error {
	leave, err := d.depth.Enter()
	if err != nil {
		return err
	}
	defer leave()

	n, err := decodeCountedPayload(d.r, c.Size, d.aligned, func(offset, count uint64) error {
		for i := offset; i < offset+count; i++ {
			if err := fn(int(i), d); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return c.CheckSize(n)
}

func (d *Decoder) DecodeSetOf(tag asn1codec.Tag, c asn1codec.Constraints, fn func(i int, sub asn1codec.Decoder) error) error {
	return d.DecodeSequenceOf(tag, c, fn)
}

func (d *Decoder) DecodeExplicitPrefix(tag asn1codec.Tag, fn func(asn1codec.Decoder) error) error {
	return fn(d)
}

func (d *Decoder) ensureExtensionPreamble() error {
	if d.extReady {
		return nil
	}
	if !d.pendingExtBit {
		d.extRemaining = 0
		d.extReady = true
		return nil
	}
	n, err := decodeNormallySmallNumber(d.r, d.aligned)
	if err != nil {
		return err
	}
	count := int(n) + 1
	for i := 0; i < count; i++ {
		if _, err := d.r.ReadBits(1); err != nil {
			return err
		}
	}
	d.extRemaining = count
	d.extReady = true
	return nil
}

func (d *Decoder) DecodeExtensionAddition(fn func(asn1codec.Decoder) error) error {
	if err := d.ensureExtensionPreamble(); err != nil {
		return err
	}
	if d.extRemaining <= 0 {
		return nil
	}
	if err := d.r.AlignToByte(); err != nil {
		return err
	}
	var content []byte
	if _, err := decodeLengthAndPayload(d.r, func(offset, count uint64) error {
		chunk, err := d.r.ReadBytes(int(count))
		if err != nil {
			return err
		}
		content = append(content, chunk...)
		return nil
	}); err != nil {
		return err
	}
	d.extRemaining--
	return fn(d.childOver(content))
}

func (d *Decoder) DecodeExtensionAdditionGroup(fn func(asn1codec.Decoder) error) error {
	return d.DecodeExtensionAddition(fn)
}

func (d *Decoder) DecodeOptionalPresence() (bool, error) {
	v, err := d.r.ReadBits(1)
	if err != nil {
		return false, err
	}
	return v == 1, nil
}
