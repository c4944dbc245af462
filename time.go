package asn1codec

/*
time.go implements the GeneralizedTime and UTCTime shared primitives of
§3/§2 ("GeneralizedTime and UTCTime"). Both wrap [time.Time]; the only
difference the engine cares about is the wire-format layout each
backend uses, kept out of this file and owned by the backend packages.
*/

import "time"

// GeneralizedTime is an ASN.1 GeneralizedTime value (tag 24).
type GeneralizedTime struct{ time.Time }

// NewGeneralizedTime wraps t.
func NewGeneralizedTime(t time.Time) GeneralizedTime { return GeneralizedTime{t} }

// Layout used for GeneralizedTime's canonical DER form: no fractional
// seconds, UTC, trailing "Z".
const generalizedTimeLayout = "20060102150405Z"

// Canonical renders t in its minimal DER/canonical form.
func (t GeneralizedTime) Canonical() string {
	return t.UTC().Format(generalizedTimeLayout)
}

// ParseGeneralizedTime parses s per the canonical layout, falling back
// to a handful of layouts the wild occasionally sends (fractional
// seconds, explicit offsets).
func ParseGeneralizedTime(s string) (GeneralizedTime, error) {
	for _, layout := range []string{
		generalizedTimeLayout,
		"20060102150405.999999999Z",
		"20060102150405-0700",
		"20060102150405.999999999-0700",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return GeneralizedTime{t}, nil
		}
	}
	return GeneralizedTime{}, newConversionErrorf(ErrIntegerOverflow, "unrecognized GeneralizedTime %q", s)
}

// UTCTime is an ASN.1 UTCTime value (tag 23): a two-digit-year variant
// of GeneralizedTime.
type UTCTime struct{ time.Time }

// NewUTCTime wraps t.
func NewUTCTime(t time.Time) UTCTime { return UTCTime{t} }

const utcTimeLayout = "060102150405Z"

// Canonical renders t in its minimal DER/canonical form.
func (t UTCTime) Canonical() string {
	return t.UTC().Format(utcTimeLayout)
}

// ParseUTCTime parses s per the canonical layout, interpreting the
// two-digit year per X.680's 1950-2049 pivot.
func ParseUTCTime(s string) (UTCTime, error) {
	for _, layout := range []string{utcTimeLayout, "060102150405-0700"} {
		if t, err := time.Parse(layout, s); err == nil {
			return UTCTime{t}, nil
		}
	}
	return UTCTime{}, newConversionErrorf(ErrIntegerOverflow, "unrecognized UTCTime %q", s)
}
