package asn1codec

/*
var.go contains package-wide constants shared by every backend. Universal
class tag numbers mirror X.680 clause 8 and are provided so that callers
need not memorize ITU-T tag assignments when building a [TypeDescriptor]
by hand.
*/

// Universal-class tag numbers for the built-in ASN.1 types.
const (
	TagBoolean         = 1
	TagInteger         = 2
	TagBitString       = 3
	TagOctetString     = 4
	TagNull            = 5
	TagOID             = 6
	TagObjectDescriptor = 7
	TagExternal        = 8
	TagReal            = 9
	TagEnumerated      = 10
	TagEmbeddedPDV     = 11
	TagUTF8String      = 12
	TagRelativeOID     = 13
	TagSequence        = 16
	TagSet             = 17
	TagNumericString   = 18
	TagPrintableString = 19
	TagTeletexString   = 20
	TagVideotexString  = 21
	TagIA5String       = 22
	TagUTCTime         = 23
	TagGeneralizedTime = 24
	TagGraphicString   = 25
	TagVisibleString   = 26
	TagGeneralString   = 27
	TagUniversalString = 28
	TagCharacterString = 29
	TagBMPString       = 30
)

// DefaultMaxDepth is the default recursive-descent limit enforced by every
// [Decoder] backend. See §5 on cancellation/recursion policy.
const DefaultMaxDepth = 32

// fragmentUnit is the PER fragmentation chunk size (§4.6, "Fragmentation").
const fragmentUnit = 16384
