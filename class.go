package asn1codec

/*
class.go defines the ASN.1 tag class enumeration used throughout [Tag]
and [TagTree].
*/

//go:generate go run golang.org/x/tools/cmd/stringer -type=Class -linecomment

// Class is one of the four ASN.1 tag classes (X.680 clause 8.1).
type Class uint8

const (
	ClassUniversal   Class = iota // UNIVERSAL
	ClassApplication              // APPLICATION
	ClassContext                  // CONTEXT
	ClassPrivate                  // PRIVATE
)
