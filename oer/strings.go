package oer

import (
	"unicode/utf8"

	asn1codec "github.com/kestrel-oss/asn1codec"
)

/*
strings.go renders a restricted string's code points as OER content
octets. Every kind except BMPString/UniversalString is a sequence of
single-byte code units (true by construction for the permitted
alphabets §4.7 restricts these kinds to); BMPString uses 16-bit
big-endian code units and UniversalString 32-bit big-endian, mirroring
their defined UCS-2/UCS-4 representations.
*/

func encodeStringContent(kind asn1codec.StringKind, runes []rune) ([]byte, error) {
	switch kind {
	case asn1codec.KindUTF8String:
		buf := make([]byte, 0, len(runes)*2)
		var tmp [utf8.UTFMax]byte
		for _, r := range runes {
			n := utf8.EncodeRune(tmp[:], r)
			buf = append(buf, tmp[:n]...)
		}
		return buf, nil
	case asn1codec.KindBMPString:
		out := make([]byte, len(runes)*2)
		for i, r := range runes {
			out[2*i] = byte(r >> 8)
			out[2*i+1] = byte(r)
		}
		return out, nil
	case asn1codec.KindUniversalString:
		out := make([]byte, len(runes)*4)
		for i, r := range runes {
			out[4*i] = byte(r >> 24)
			out[4*i+1] = byte(r >> 16)
			out[4*i+2] = byte(r >> 8)
			out[4*i+3] = byte(r)
		}
		return out, nil
	default:
		out := make([]byte, len(runes))
		for i, r := range runes {
			if r > 0xFF {
				return nil, asn1codec.NewCustomError("string", "code point outside single-octet kind")
			}
			out[i] = byte(r)
		}
		return out, nil
	}
}

func decodeStringContent(kind asn1codec.StringKind, content []byte) (string, error) {
	switch kind {
	case asn1codec.KindUTF8String:
		if !utf8.Valid(content) {
			return "", asn1codec.NewCustomError("string", "invalid UTF-8 content")
		}
		return string(content), nil
	case asn1codec.KindBMPString:
		if len(content)%2 != 0 {
			return "", asn1codec.NewCustomError("string", "odd-length BMPString content")
		}
		runes := make([]rune, len(content)/2)
		for i := range runes {
			runes[i] = rune(content[2*i])<<8 | rune(content[2*i+1])
		}
		return string(runes), nil
	case asn1codec.KindUniversalString:
		if len(content)%4 != 0 {
			return "", asn1codec.NewCustomError("string", "UniversalString content not a multiple of 4")
		}
		runes := make([]rune, len(content)/4)
		for i := range runes {
			runes[i] = rune(content[4*i])<<24 | rune(content[4*i+1])<<16 | rune(content[4*i+2])<<8 | rune(content[4*i+3])
		}
		return string(runes), nil
	default:
		runes := make([]rune, len(content))
		for i, b := range content {
			runes[i] = rune(b)
		}
		return string(runes), nil
	}
}
