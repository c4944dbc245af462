package asn1codec

/*
oid.go implements the OBJECT IDENTIFIER shared primitive (§3, §4.6
"OBJECT IDENTIFIER"). The wire-level sub-identifier codec lives here
once and is reused by every backend ("Encoded as an octet string
containing its canonical DER sub-identifier concatenation" — PER borrows
the DER arc encoding wholesale; OER/BER do the same).
*/

import "math/big"

// ObjectIdentifier is an arbitrary-precision OBJECT IDENTIFIER or
// RELATIVE-OID value, one arbitrary-precision arc per element.
type ObjectIdentifier []*big.Int

// NewObjectIdentifier builds an [ObjectIdentifier] from its arcs, e.g.
// NewObjectIdentifier(1, 3, 6, 1, 4, 1).
func NewObjectIdentifier(arcs ...uint64) ObjectIdentifier {
	out := make(ObjectIdentifier, len(arcs))
	for i, a := range arcs {
		out[i] = new(big.Int).SetUint64(a)
	}
	return out
}

// Validate checks the arc-count and first/second-arc rules enforced by
// every backend (§7 "Conversion... OID first arc > 2 or second arc > 39
// when first is 0/1").
func (oid ObjectIdentifier) Validate() error {
	if len(oid) < 2 {
		return newConversionErrorf(ErrOIDArcInvalid, "OBJECT IDENTIFIER requires at least two arcs")
	}
	first := oid[0]
	if first.Sign() < 0 || first.Cmp(big.NewInt(2)) > 0 {
		return newConversionErrorf(ErrOIDArcInvalid, "first arc %s out of range [0,2]", first)
	}
	if first.Cmp(big.NewInt(2)) < 0 {
		if oid[1].Sign() < 0 || oid[1].Cmp(big.NewInt(39)) > 0 {
			return newConversionErrorf(ErrOIDArcInvalid, "second arc %s out of range [0,39] when first arc is 0 or 1", oid[1])
		}
	}
	return nil
}

// String renders oid in dotted-decimal form.
func (oid ObjectIdentifier) String() string {
	var b []byte
	for i, a := range oid {
		if i > 0 {
			b = append(b, '.')
		}
		b = append(b, a.String()...)
	}
	return string(b)
}

// EncodeDER returns the DER sub-identifier byte encoding used by every
// backend that carries an OID: the first two arcs collapsed into one
// VLQ (40*arc0 + arc1), every subsequent arc its own base-128
// VLQ with the high bit of every byte but the last set.
func (oid ObjectIdentifier) EncodeDER() ([]byte, error) {
	if err := oid.Validate(); err != nil {
		return nil, err
	}
	first := new(big.Int).Mul(oid[0], big.NewInt(40))
	first.Add(first, oid[1])
	out := vlqEncode(first)
	for _, arc := range oid[2:] {
		out = append(out, vlqEncode(arc)...)
	}
	return out, nil
}

// DecodeDER is the inverse of [ObjectIdentifier.EncodeDER].
func DecodeDER(data []byte) (ObjectIdentifier, error) {
	arcs, err := vlqDecodeAll(data)
	if err != nil {
		return nil, err
	}
	if len(arcs) == 0 {
		return nil, newConversionErrorf(ErrOIDArcInvalid, "empty OBJECT IDENTIFIER content")
	}
	first, second := splitFirstArc(arcs[0])
	out := ObjectIdentifier{first, second}
	out = append(out, arcs[1:]...)
	return out, out.Validate()
}

func splitFirstArc(combined *big.Int) (*big.Int, *big.Int) {
	forty := big.NewInt(40)
	if combined.Cmp(big.NewInt(80)) < 0 {
		first := new(big.Int).Div(combined, forty)
		second := new(big.Int).Mod(combined, forty)
		return first, second
	}
	first := big.NewInt(2)
	second := new(big.Int).Sub(combined, big.NewInt(80))
	return first, second
}

func vlqEncode(n *big.Int) []byte {
	if n.Sign() == 0 {
		return []byte{0}
	}
	var out []byte
	tmp := new(big.Int).Set(n)
	mask := big.NewInt(0x7F)
	for tmp.Sign() != 0 {
		chunk := new(big.Int).And(tmp, mask)
		out = append([]byte{byte(chunk.Uint64())}, out...)
		tmp.Rsh(tmp, 7)
	}
	for i := 0; i < len(out)-1; i++ {
		out[i] |= 0x80
	}
	return out
}

func vlqDecodeAll(data []byte) ([]*big.Int, error) {
	var out []*big.Int
	cur := new(big.Int)
	started := false
	for _, b := range data {
		cur.Lsh(cur, 7)
		cur.Or(cur, big.NewInt(int64(b&0x7F)))
		started = true
		if b&0x80 == 0 {
			out = append(out, cur)
			cur = new(big.Int)
			started = false
		}
	}
	if started {
		return nil, newStructuralErrorf(ErrUnexpectedEOF, "truncated base-128 OID arc")
	}
	return out, nil
}
