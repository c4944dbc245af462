package asn1codec

/*
strings.go implements the restricted character string value variants of
§3 and the permitted-alphabet default tables §4.6 ("Strings without an
alphabet constraint use their natural width") refers to. Tables are
immutable and built lazily exactly once per process (§5 "Global state"),
the same posture the teacher takes for its character-class tables in
cs.go/t61.go/vs.go.
*/

import "sync"

//go:generate go run golang.org/x/tools/cmd/stringer -type=StringKind -linecomment

// StringKind identifies one of the ASN.1 restricted character string
// types.
type StringKind uint8

const (
	KindUTF8String StringKind = iota // UTF8String
	KindVisibleString                // VisibleString
	KindIA5String                    // IA5String
	KindPrintableString               // PrintableString
	KindNumericString                 // NumericString
	KindTeletexString                 // TeletexString
	KindGeneralString                 // GeneralString
	KindGraphicString                 // GraphicString
	KindBMPString                     // BMPString
	KindUniversalString                // UniversalString
)

// Tag returns the UNIVERSAL tag number for kind.
func (k StringKind) Tag() uint64 {
	switch k {
	case KindUTF8String:
		return TagUTF8String
	case KindVisibleString:
		return TagVisibleString
	case KindIA5String:
		return TagIA5String
	case KindPrintableString:
		return TagPrintableString
	case KindNumericString:
		return TagNumericString
	case KindTeletexString:
		return TagTeletexString
	case KindGeneralString:
		return TagGeneralString
	case KindGraphicString:
		return TagGraphicString
	case KindBMPString:
		return TagBMPString
	case KindUniversalString:
		return TagUniversalString
	}
	return TagUTF8String
}

// NaturalWidthBits returns the per-code-unit bit width used when a
// string of this kind carries no permitted-alphabet constraint (§4.6
// "Strings without an alphabet constraint use their natural width").
// UTF8String encodes UTF-8 bytes (8 bits/unit); BMPString and
// UniversalString use their defined 16- and 32-bit code points.
func (k StringKind) NaturalWidthBits() int {
	switch k {
	case KindBMPString:
		return 16
	case KindUniversalString:
		return 32
	case KindUTF8String:
		return 8
	default:
		return 8
	}
}

var (
	alphabetOnce  sync.Once
	alphabetTable map[StringKind]PermittedAlphabet
)

func buildAlphabetTable() {
	alphabetTable = map[StringKind]PermittedAlphabet{
		KindNumericString: NewPermittedAlphabet(
			CharRange{Lo: ' ', Hi: ' '},
			CharRange{Lo: '0', Hi: '9'},
		),
		KindPrintableString: NewPermittedAlphabet(
			CharRange{Lo: ' ', Hi: ' '},
			CharRange{Lo: '\'', Hi: ')'},
			CharRange{Lo: '+', Hi: ':'},
			CharRange{Lo: '=', Hi: '='},
			CharRange{Lo: '?', Hi: '?'},
			CharRange{Lo: 'A', Hi: 'Z'},
			CharRange{Lo: 'a', Hi: 'z'},
		),
		KindVisibleString: NewPermittedAlphabet(
			CharRange{Lo: 0x20, Hi: 0x7E},
		),
		KindIA5String: NewPermittedAlphabet(
			CharRange{Lo: 0x00, Hi: 0x7F},
		),
		KindGraphicString: NewPermittedAlphabet(
			CharRange{Lo: 0x20, Hi: 0x7E},
		),
	}
}

// DefaultAlphabet returns the built-in permitted alphabet for kind, or
// the zero [PermittedAlphabet] (no restriction) for kinds whose default
// range is "every Unicode code point" (UTF8String, BMPString,
// UniversalString, TeletexString, GeneralString).
func DefaultAlphabet(kind StringKind) PermittedAlphabet {
	alphabetOnce.Do(buildAlphabetTable)
	return alphabetTable[kind]
}
