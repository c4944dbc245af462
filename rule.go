package asn1codec

/*
rule.go defines the codec selector described in §6: "an enumeration
value identifying {Ber, Cer, Der, Aper, Uper, Oer, Coer, Jer, Xer}." The
value is metadata only — used in error messages and to dispatch the
generic convenience helpers in runtime.go.
*/

//go:generate go run golang.org/x/tools/cmd/stringer -type=Rule -linecomment

// Rule identifies an ASN.1 encoding rule set.
type Rule uint8

const (
	ruleUnset Rule = iota

	Ber  // BER
	Cer  // CER
	Der  // DER
	Aper // APER
	Uper // UPER
	Oer  // OER
	Coer // COER
	Jer  // JER
	Xer  // XER
)

// Canonical reports whether rule produces a unique encoding per value
// (P2). Per Q1, APER/UPER are treated as non-canonical by default even
// though they are deterministic given a fixed type description.
func (r Rule) Canonical() bool {
	switch r {
	case Cer, Der, Coer, Jer:
		return true
	default:
		return false
	}
}

// PER reports whether rule is one of the Packed Encoding Rules variants.
func (r Rule) PER() bool { return r == Aper || r == Uper }

// OER reports whether rule is one of the Octet Encoding Rules variants.
func (r Rule) OER() bool { return r == Oer || r == Coer }

// Aligned reports whether rule requires octet alignment of length-bearing
// fields (§4.6 "Alignment discipline"). Only meaningful when PER() is true.
func (r Rule) Aligned() bool { return r == Aper }
