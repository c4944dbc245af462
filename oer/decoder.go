package oer

import (
	"math"
	"math/big"

	asn1codec "github.com/kestrel-oss/asn1codec"
)

/*
Decoder implements asn1codec.Decoder, symmetric to Encoder. Like
per.Decoder, a child Decoder shares the parent's [asn1codec.BitReader]
pointer so the byte cursor advances continuously across nested
constructed types; extension bookkeeping (pendingExtBit/extReady/
extRemaining) is
scoped per-Decoder to the one SEQUENCE/SET currently being read.

The extension block opens with a count of present extension additions
(written by oer.Encoder.writeExtensionBlock) so ensureExtensionPreamble
knows how many length-prefixed open types follow without needing the
type's full declared extension-field count, the same queue-ordered
simplification per.Decoder makes for PER's extension block.
*/
type Decoder struct {
	rule      asn1codec.Rule
	canonical bool
	cfg       asn1codec.EngineConfig
	depth     *asn1codec.DepthGuard
	r         *asn1codec.BitReader

	pendingExtBit bool
	presence      []bool
	presenceIdx   int

	extReady     bool
	extRemaining int
}

// NewDecoder returns a top-level Decoder over data for rule (Oer or Coer).
func NewDecoder(data []byte, rule asn1codec.Rule, cfg asn1codec.EngineConfig) *Decoder {
	return &Decoder{
		rule:      rule,
		canonical: rule == asn1codec.Coer,
		cfg:       cfg,
		depth:     asn1codec.NewDepthGuard(cfg.MaxDepth),
		r:         asn1codec.NewBitReader(data, cfg.Strict),
	}
}

func (d *Decoder) child() *Decoder {
	return &Decoder{rule: d.rule, canonical: d.canonical, cfg: d.cfg, depth: d.depth, r: d.r}
}

func (d *Decoder) childOver(content []byte) *Decoder {
	return &Decoder{rule: d.rule, canonical: d.canonical, cfg: d.cfg, depth: d.depth, r: asn1codec.NewBitReader(content, d.cfg.Strict)}
}

func (d *Decoder) Rule() asn1codec.Rule { return d.rule }
func (d *Decoder) Depth() int           { return d.depth.Depth() }

func (d *Decoder) Remaining() ([]byte, error) {
	n := int(d.r.RemainingBits() / 8)
	if n <= 0 {
		return nil, nil
	}
	return d.r.ReadBytes(n)
}

func (d *Decoder) DecodeBool(tag asn1codec.Tag) (bool, error) {
	b, err := d.r.ReadBytes(1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

func (d *Decoder) DecodeInteger(tag asn1codec.Tag, c asn1codec.Constraints) (*big.Int, error) {
	return decodeInteger(d.r, c, d.cfg.Strict)
}

func (d *Decoder) DecodeEnumerated(tag asn1codec.Tag, rootCount int, extensible bool, c asn1codec.Constraints) (int, bool, error) {
	b0v, err := d.r.PeekBits(8)
	if err != nil {
		return 0, false, err
	}
	var v *big.Int
	if b0v&0x80 == 0 {
		vv, err := readFixedWidth(d.r, 1, true)
		if err != nil {
			return 0, false, err
		}
		v = vv
	} else {
		if _, err := d.r.ReadBits(8); err != nil {
			return 0, false, err
		}
		n := int(byte(b0v) & 0x7F)
		octets, err := d.r.ReadBytes(n)
		if err != nil {
			return 0, false, err
		}
		v = twosComplementToBigInt(octets)
	}
	ordinal := int(v.Int64())
	return ordinal, extensible && ordinal >= rootCount, nil
}

func (d *Decoder) DecodeNull(tag asn1codec.Tag) error { return nil }

func (d *Decoder) DecodeBitString(tag asn1codec.Tag, c asn1codec.Constraints) ([]byte, int, error) {
	fixed := c.Size != nil && c.Size.Fixed()
	var total uint64
	var err error
	if fixed {
		lo, _ := c.Size.Bounds()
		total = (uint64(lo.Value)+7)/8 + 1
	} else {
		total, err = decodeLength(d.r, d.cfg.Strict)
		if err != nil {
			return nil, 0, err
		}
	}
	if total == 0 {
		return nil, 0, asn1codec.NewCustomError("bitstring", "missing unused-bits octet")
	}
	unusedB, err := d.r.ReadBytes(1)
	if err != nil {
		return nil, 0, err
	}
	unused := int(unusedB[0])
	octets, err := d.r.ReadBytes(int(total - 1))
	if err != nil {
		return nil, 0, err
	}
	bitLen := len(octets)*8 - unused
	if err := c.CheckSize(uint64(bitLen)); err != nil {
		return nil, 0, err
	}
	return octets, bitLen, nil
}

func (d *Decoder) DecodeOctetString(tag asn1codec.Tag, c asn1codec.Constraints) ([]byte, error) {
	fixed := c.Size != nil && c.Size.Fixed()
	var n uint64
	var err error
	if fixed {
		lo, _ := c.Size.Bounds()
		n = uint64(lo.Value)
	} else {
		n, err = decodeLength(d.r, d.cfg.Strict)
		if err != nil {
			return nil, err
		}
	}
	v, err := d.r.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	if err := c.CheckSize(uint64(len(v))); err != nil {
		return nil, err
	}
	return v, nil
}

func (d *Decoder) DecodeRestrictedString(tag asn1codec.Tag, kind asn1codec.StringKind, c asn1codec.Constraints) (string, error) {
	fixed := c.Size != nil && c.Size.Fixed()
	var n uint64
	var err error
	if fixed {
		lo, _ := c.Size.Bounds()
		n = uint64(lo.Value)
		switch kind {
		case asn1codec.KindBMPString:
			n *= 2
		case asn1codec.KindUniversalString:
			n *= 4
		}
	} else {
		n, err = decodeLength(d.r, d.cfg.Strict)
		if err != nil {
			return "", err
		}
	}
	content, err := d.r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	s, err := decodeStringContent(kind, content)
	if err != nil {
		return "", err
	}
	if err := c.CheckSize(uint64(len([]rune(s)))); err != nil {
		return "", err
	}
	if err := c.CheckAlphabet(s); err != nil {
		return "", err
	}
	return s, nil
}

func (d *Decoder) DecodeObjectIdentifier(tag asn1codec.Tag) (asn1codec.ObjectIdentifier, error) {
	n, err := decodeLength(d.r, d.cfg.Strict)
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
	n, err := decodeLength(d.r, d.cfg.Strict)
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
	n, err := decodeLength(d.r, d.cfg.Strict)
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
	presence := make([]bool, rootOptionalCount)
	for i := range presence {
		bit, err := d.r.ReadBits(1)
		if err != nil {
			return err
		}
		presence[i] = bit == 1
	}
	if err := d.r.AlignToByte(); err != nil {
		return err
	}
	sub := d.child()
	sub.pendingExtBit = extPresent
	sub.presence = presence
	return fn(sub)
}

func (d *Decoder) DecodeSet(tag asn1codec.Tag, extensible bool, rootOptionalCount int, fn func(asn1codec.Decoder) error) error {
	return d.DecodeSequence(tag, extensible, rootOptionalCount, fn)
}

// DecodeChoice reads the canonical tag octets the encoder wrote and
// matches them against variantTags (root variants first, extension
// variants after) to recover the selected index, mirroring the tag
// lookup oer.de.rs's decode_choice performs against a CHOICE's variant
// tag trees. A root match decodes inline; an index past rootCount is an
// extension, whose body is the length-prefixed open type §4.7 "CHOICE"
// describes.
func (d *Decoder) DecodeChoice(tag asn1codec.Tag, extensible bool, rootCount int, variantTags []asn1codec.Tag, fn func(sub asn1codec.Decoder, index int, extension bool) error) error {
	leave, err := d.depth.Enter()
	if err != nil {
		return err
	}
	defer leave()

	wireTag, err := decodeTagOctets(d.r)
	if err != nil {
		return err
	}
	idx := -1
	for i, vt := range variantTags {
		if vt.Eq(wireTag) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return asn1codec.NewCustomError("choice", "no variant matches tag "+wireTag.String())
	}
	if idx < rootCount {
		return fn(d.child(), idx, false)
	}
	if !extensible {
		return asn1codec.NewCustomError("choice", "extension variant tag seen on non-extensible CHOICE")
	}
	n, err := decodeLength(d.r, d.cfg.Strict)
	if err != nil {
		return err
	}
	content, err := d.r.ReadBytes(int(n))
	if err != nil {
		return err
	}
	return fn(d.childOver(content), idx-rootCount, true)
}

func (d *Decoder) DecodeSequenceOf(tag asn1codec.Tag, c asn1codec.Constraints, fn func(i int, sub asn1codec.Decoder) error) error {
	leave, err := d.depth.Enter()
	if err != nil {
		return err
	}
	defer leave()

	fixed := c.Size != nil && c.Size.Fixed()
	var n uint64
	if fixed {
		lo, _ := c.Size.Bounds()
		n = uint64(lo.Value)
	} else {
		n, err = decodeLength(d.r, d.cfg.Strict)
		if err != nil {
			return err
		}
	}
	for i := uint64(0); i < n; i++ {
		if err := fn(int(i), d); err != nil {
			return err
		}
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
	d.extReady = true
	if !d.pendingExtBit {
		d.extRemaining = 0
		return nil
	}
	n, err := decodeLength(d.r, d.cfg.Strict)
	if err != nil {
		return err
	}
	d.extRemaining = int(n)
	return nil
}

func (d *Decoder) DecodeExtensionAddition(fn func(asn1codec.Decoder) error) error {
	if err := d.ensureExtensionPreamble(); err != nil {
		return err
	}
	if d.extRemaining <= 0 {
		return nil
	}
	n, err := decodeLength(d.r, d.cfg.Strict)
	if err != nil {
		return err
	}
	content, err := d.r.ReadBytes(int(n))
	if err != nil {
		return err
	}
	d.extRemaining--
	return fn(d.childOver(content))
}

func (d *Decoder) DecodeExtensionAdditionGroup(fn func(asn1codec.Decoder) error) error {
	return d.DecodeExtensionAddition(fn)
}

// DecodeOptionalPresence returns the next presence bit from the
// preamble captured by the enclosing DecodeSequence/DecodeSet call —
// already consumed from the wire before fn ran, since OER's preamble
// precedes the byte-aligned field bodies it describes (§4.7 "SEQUENCE").
func (d *Decoder) DecodeOptionalPresence() (bool, error) {
	if d.presenceIdx >= len(d.presence) {
		return false, asn1codec.NewCustomError("preamble", "more optional fields decoded than declared")
	}
	v := d.presence[d.presenceIdx]
	d.presenceIdx++
	return v, nil
}
