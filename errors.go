package asn1codec

/*
errors.go contains the closed sum of error kinds described in §7, plus
the small string-formatting helpers used throughout the package so that
no file needs to import "fmt" just to concatenate a message (mirrors the
teacher's common.go import-alias convention).
*/

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	mkerr   func(string) error      = errors.New
	itoa    func(int) string        = strconv.Itoa
	sprintf func(string, ...any) string = fmt.Sprintf
	uitoa   func(uint64) string     = func(u uint64) string { return strconv.FormatUint(u, 10) }
)

func mkerrf(parts ...string) error { return mkerr(strings.Join(parts, "")) }

//go:generate go run golang.org/x/tools/cmd/stringer -type=ErrorKind -linecomment

// ErrorKind classifies an [Error] into one of the groups described in §7.
type ErrorKind uint8

const (
	ErrStructural  ErrorKind = iota // structural
	ErrTag                         // tag
	ErrConstraint                  // constraint
	ErrConversion                  // conversion
	ErrCustom                      // custom
)

// Structural sub-kinds (§7 "Structural").
const (
	ErrUnexpectedEOF = iota
	ErrExcessInput
	ErrInvalidLength
	ErrInvalidChoiceIndex
	ErrMissingRequiredField
	ErrDuplicateSetField
	ErrNonZeroPadding
	ErrTagTreeCollision
	ErrRecursionLimit
)

// Tag sub-kinds (§7 "Tag", BER family only).
const (
	ErrTagMismatch = iota
	ErrConstructedPrimitiveMismatch
)

// Constraint sub-kinds (§7 "Constraint").
const (
	ErrValueOutOfRange = iota
	ErrSizeOutOfRange
	ErrCharacterNotPermitted
)

// Conversion sub-kinds (§7 "Conversion").
const (
	ErrIntegerOverflow = iota
	ErrBitCountInvalid
	ErrOIDArcInvalid
)

/*
Error is the single error type returned by every capability, [Encoder]
and [Decoder] method in this module. It carries the codec identifier, a
best-effort bit/byte position, and the chain of field/variant names
describing where in the type the failure occurred (§7 "Every error
carries...").
*/
type Error struct {
	Kind     ErrorKind
	Sub      int
	Rule     Rule
	Position int64 // bit position, best-effort; -1 if unknown
	Path     []string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.Rule != ruleUnset {
		b.WriteString(" (")
		b.WriteString(e.Rule.String())
		b.WriteString(")")
	}
	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}
	if e.Position >= 0 {
		b.WriteString(" [bit ")
		b.WriteString(uitoa(uint64(e.Position)))
		b.WriteString("]")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// WithField returns a copy of e with field prepended to its path, used by
// constructed-type encoders/decoders to annotate a child failure as it
// propagates outward.
func (e *Error) WithField(field string) *Error {
	cp := *e
	cp.Path = append([]string{field}, cp.Path...)
	return &cp
}

func newStructuralErrorf(sub int, format string, args ...any) error {
	return &Error{Kind: ErrStructural, Sub: sub, Position: -1, Message: sprintf(format, args...)}
}

func newConstraintErrorf(sub int, format string, args ...any) error {
	return &Error{Kind: ErrConstraint, Sub: sub, Position: -1, Message: sprintf(format, args...)}
}

func newConversionErrorf(sub int, format string, args ...any) error {
	return &Error{Kind: ErrConversion, Sub: sub, Position: -1, Message: sprintf(format, args...)}
}

func newTagErrorf(sub int, format string, args ...any) error {
	return &Error{Kind: ErrTag, Sub: sub, Position: -1, Message: sprintf(format, args...)}
}

// NewCustomError wraps a field-level failure carrying the offending field
// path (§7 "Custom"), the one open error kind implementers may extend.
func NewCustomError(field, message string) error {
	return &Error{Kind: ErrCustom, Position: -1, Path: []string{field}, Message: message}
}

// AsError reports whether err is (or wraps) an *[Error] and, if so,
// returns it.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
