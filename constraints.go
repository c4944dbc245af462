package asn1codec

/*
constraints.go implements the compile-time-composable constraint system
of §4.2: value, size, and permitted-alphabet restrictions with
intersection, extension, and effective-constraint computation. No union
operation is provided.

The shape mirrors the teacher's generic Constraint[T]/ConstraintGroup[T]
closures (constr.go) but specializes the three concrete restriction
kinds the spec names instead of leaving everything an opaque closure;
[Constraints.Also] keeps the closure escape hatch available for anything
the three named kinds can't express.
*/

import "math/big"

// Bound is one endpoint of a [ValueConstraint] or [SizeConstraint].
// Unbounded is the zero value.
type Bound struct {
	Value     int64
	Unbounded bool
}

func boundedAt(v int64) Bound { return Bound{Value: v} }

var unbounded = Bound{Unbounded: true}

/*
ValueConstraint restricts an INTEGER (or an ordinal carried as one, e.g.
ENUMERATED index) to an inclusive range, optionally extensible (§3).
*/
type ValueConstraint struct {
	Lower, Upper Bound
	Extensible   bool
}

// NewValueConstraint returns a non-extensible closed range [lo, hi].
func NewValueConstraint(lo, hi int64) ValueConstraint {
	return ValueConstraint{Lower: boundedAt(lo), Upper: boundedAt(hi)}
}

// NewSemiConstrainedValue returns a range with only a lower bound.
func NewSemiConstrainedValue(lo int64) ValueConstraint {
	return ValueConstraint{Lower: boundedAt(lo), Upper: unbounded}
}

// UnconstrainedValue returns a [ValueConstraint] with no bounds at all.
func UnconstrainedValue() ValueConstraint {
	return ValueConstraint{Lower: unbounded, Upper: unbounded}
}

// Extend marks r as extensible (the `...` marker applied to a value
// constraint) and returns it.
func (r ValueConstraint) Extend() ValueConstraint { r.Extensible = true; return r }

// Contains reports whether v lies within the root range (§4.2 "contains").
func (r ValueConstraint) Contains(v *big.Int) bool {
	if !r.Lower.Unbounded && v.Cmp(big.NewInt(r.Lower.Value)) < 0 {
		return false
	}
	if !r.Upper.Unbounded && v.Cmp(big.NewInt(r.Upper.Value)) > 0 {
		return false
	}
	return true
}

// Bounds returns the lower/upper bound and whether either is unbounded
// (§4.2 "bounds").
func (r ValueConstraint) Bounds() (lower, upper Bound) { return r.Lower, r.Upper }

// WidthBits returns the number of bits needed to encode Upper-Lower for a
// fully closed range, or (0, false) if either bound is unbounded (§4.2
// "width_bits").
func (r ValueConstraint) WidthBits() (int, bool) {
	if r.Lower.Unbounded || r.Upper.Unbounded {
		return 0, false
	}
	span := new(big.Int).Sub(big.NewInt(r.Upper.Value), big.NewInt(r.Lower.Value))
	return bitsFor(span), true
}

// bitsFor returns ceil(log2(n+1)) for non-negative n, i.e. the number of
// bits needed to represent every integer in [0, n].
func bitsFor(n *big.Int) int {
	if n.Sign() <= 0 {
		return 0
	}
	bits := 0
	rem := new(big.Int).Set(n)
	for rem.Sign() > 0 {
		bits++
		rem.Rsh(rem, 1)
	}
	return bits
}

// Intersection returns the range of values common to both r and o, or an
// error if the result would be empty (I3). The extensibility flag of the
// result is set if either operand is extensible (§4.2).
func (r ValueConstraint) Intersection(o ValueConstraint) (ValueConstraint, error) {
	out := ValueConstraint{Extensible: r.Extensible || o.Extensible}
	out.Lower = tighterLower(r.Lower, o.Lower)
	out.Upper = tighterUpper(r.Upper, o.Upper)
	if !out.Lower.Unbounded && !out.Upper.Unbounded && out.Lower.Value > out.Upper.Value {
		return ValueConstraint{}, newConstraintErrorf(ErrValueOutOfRange,
			"empty intersection: [%d, %d]", out.Lower.Value, out.Upper.Value)
	}
	return out, nil
}

func tighterLower(a, b Bound) Bound {
	if a.Unbounded {
		return b
	}
	if b.Unbounded {
		return a
	}
	if a.Value > b.Value {
		return a
	}
	return b
}

func tighterUpper(a, b Bound) Bound {
	if a.Unbounded {
		return b
	}
	if b.Unbounded {
		return a
	}
	if a.Value < b.Value {
		return a
	}
	return b
}

/*
SizeConstraint restricts the element count of a SEQUENCE OF/SET OF, or
the code-point count of a string, to a non-negative inclusive range
(§3). Its shape mirrors [ValueConstraint] but Lower is never negative.
*/
type SizeConstraint struct {
	Lower, Upper Bound
	Extensible   bool
}

// NewSizeConstraint returns a non-extensible closed size range [lo, hi].
func NewSizeConstraint(lo, hi uint64) SizeConstraint {
	return SizeConstraint{Lower: boundedAt(int64(lo)), Upper: boundedAt(int64(hi))}
}

// FixedSize returns a [SizeConstraint] admitting exactly n elements.
func FixedSize(n uint64) SizeConstraint { return NewSizeConstraint(n, n) }

// UnconstrainedSize returns a [SizeConstraint] with no bounds.
func UnconstrainedSize() SizeConstraint {
	return SizeConstraint{Lower: unbounded, Upper: unbounded}
}

// Extend marks r as extensible and returns it.
func (r SizeConstraint) Extend() SizeConstraint { r.Extensible = true; return r }

// Contains reports whether n elements satisfy the root range.
func (r SizeConstraint) Contains(n uint64) bool {
	if !r.Lower.Unbounded && int64(n) < r.Lower.Value {
		return false
	}
	if !r.Upper.Unbounded && int64(n) > r.Upper.Value {
		return false
	}
	return true
}

// Bounds returns the lower/upper bound and whether either is unbounded.
func (r SizeConstraint) Bounds() (lower, upper Bound) { return r.Lower, r.Upper }

// Fixed reports whether the range admits exactly one count.
func (r SizeConstraint) Fixed() bool {
	return !r.Lower.Unbounded && !r.Upper.Unbounded && r.Lower.Value == r.Upper.Value
}

// Intersection returns the narrowest combined size range, or an error if
// empty.
func (r SizeConstraint) Intersection(o SizeConstraint) (SizeConstraint, error) {
	out := SizeConstraint{Extensible: r.Extensible || o.Extensible}
	out.Lower = tighterLower(r.Lower, o.Lower)
	out.Upper = tighterUpper(r.Upper, o.Upper)
	if !out.Lower.Unbounded && !out.Upper.Unbounded && out.Lower.Value > out.Upper.Value {
		return SizeConstraint{}, newConstraintErrorf(ErrSizeOutOfRange,
			"empty size intersection: [%d, %d]", out.Lower.Value, out.Upper.Value)
	}
	return out, nil
}

/*
CharRange is one inclusive range of Unicode code points within a
[PermittedAlphabet].
*/
type CharRange struct{ Lo, Hi rune }

/*
PermittedAlphabet is a union of character ranges restricting string
content (§3).
*/
type PermittedAlphabet struct {
	Ranges []CharRange
}

// NewPermittedAlphabet returns a [PermittedAlphabet] over the given
// ranges.
func NewPermittedAlphabet(ranges ...CharRange) PermittedAlphabet {
	return PermittedAlphabet{Ranges: ranges}
}

// Contains reports whether r is within any range in the alphabet. An
// empty alphabet (the zero value) permits every character — it signals
// "no restriction," not "restricted to nothing."
func (r PermittedAlphabet) Contains(c rune) bool {
	if len(r.Ranges) == 0 {
		return true
	}
	for _, rg := range r.Ranges {
		if c >= rg.Lo && c <= rg.Hi {
			return true
		}
	}
	return false
}

// Cardinality returns the number of distinct code points the alphabet
// admits, used by PER's bits-per-character computation (§4.6 "Restricted
// strings").
func (r PermittedAlphabet) Cardinality() uint64 {
	if len(r.Ranges) == 0 {
		return 0
	}
	var n uint64
	for _, rg := range r.Ranges {
		n += uint64(rg.Hi-rg.Lo) + 1
	}
	return n
}

// Index returns the zero-based ordinal of c within the alphabet's sorted
// ranges, used to pack characters into their minimum-width code. Ranges
// must be registered in ascending, non-overlapping order for this to be
// correct — true of every permitted-alphabet table this package builds.
func (r PermittedAlphabet) Index(c rune) (uint64, bool) {
	var base uint64
	for _, rg := range r.Ranges {
		width := uint64(rg.Hi-rg.Lo) + 1
		if c >= rg.Lo && c <= rg.Hi {
			return base + uint64(c-rg.Lo), true
		}
		base += width
	}
	return 0, false
}

// Char is the inverse of [PermittedAlphabet.Index].
func (r PermittedAlphabet) Char(index uint64) (rune, bool) {
	var base uint64
	for _, rg := range r.Ranges {
		width := uint64(rg.Hi-rg.Lo) + 1
		if index < base+width {
			return rg.Lo + rune(index-base), true
		}
		base += width
	}
	return 0, false
}

// Intersection returns the set of ranges common to both alphabets. An
// empty operand is treated as "unrestricted" per [PermittedAlphabet.Contains].
func (r PermittedAlphabet) Intersection(o PermittedAlphabet) PermittedAlphabet {
	if len(r.Ranges) == 0 {
		return o
	}
	if len(o.Ranges) == 0 {
		return r
	}
	var out []CharRange
	for _, a := range r.Ranges {
		for _, b := range o.Ranges {
			lo, hi := a.Lo, a.Hi
			if b.Lo > lo {
				lo = b.Lo
			}
			if b.Hi < hi {
				hi = b.Hi
			}
			if lo <= hi {
				out = append(out, CharRange{Lo: lo, Hi: hi})
			}
		}
	}
	return PermittedAlphabet{Ranges: out}
}

/*
ExtraCheck is the closure escape hatch mentioned above: an arbitrary
value predicate composed alongside the three named constraint kinds via
[Constraints.Also].
*/
type ExtraCheck func(v any) error

/*
Constraints is the aggregate "effective constraint" described in §3/§4.2:
the pairwise intersection of every value, size, and permitted-alphabet
restriction in scope, plus any closure checks layered on top.
*/
type Constraints struct {
	Value    *ValueConstraint
	Size     *SizeConstraint
	Alphabet *PermittedAlphabet
	extra    []ExtraCheck
}

// Also appends a closure constraint and returns the receiver for chaining.
func (c Constraints) Also(fn ExtraCheck) Constraints {
	c.extra = append(append([]ExtraCheck{}, c.extra...), fn)
	return c
}

// Intersect returns the pairwise intersection of c and o. The value and
// size roots of both sides are intersected whether or not they are
// extensible; an extensible root is not left out of the result, and the
// result is extensible if either side is. A nil component on either side
// is treated as unconstrained for that axis.
func (c Constraints) Intersect(o Constraints) (Constraints, error) {
	out := Constraints{extra: append(append([]ExtraCheck{}, c.extra...), o.extra...)}

	switch {
	case c.Value == nil:
		out.Value = o.Value
	case o.Value == nil:
		out.Value = c.Value
	default:
		v, err := c.Value.Intersection(*o.Value)
		if err != nil {
			return Constraints{}, err
		}
		out.Value = &v
	}

	switch {
	case c.Size == nil:
		out.Size = o.Size
	case o.Size == nil:
		out.Size = c.Size
	default:
		s, err := c.Size.Intersection(*o.Size)
		if err != nil {
			return Constraints{}, err
		}
		out.Size = &s
	}

	switch {
	case c.Alphabet == nil:
		out.Alphabet = o.Alphabet
	case o.Alphabet == nil:
		out.Alphabet = c.Alphabet
	default:
		a := c.Alphabet.Intersection(*o.Alphabet)
		out.Alphabet = &a
	}

	return out, nil
}

// CheckValue reports whether v satisfies the effective value constraint
// (if any) and every closure check registered via [Constraints.Also].
func (c Constraints) CheckValue(v *big.Int) error {
	if c.Value != nil && !c.Value.Contains(v) {
		return newConstraintErrorf(ErrValueOutOfRange, "value %s outside constraint", v.String())
	}
	for _, fn := range c.extra {
		if err := fn(v); err != nil {
			return newConstraintErrorf(ErrValueOutOfRange, "%s", err.Error())
		}
	}
	return nil
}

// CheckSize reports whether n elements/characters satisfy the effective
// size constraint.
func (c Constraints) CheckSize(n uint64) error {
	if c.Size != nil && !c.Size.Contains(n) {
		return newConstraintErrorf(ErrSizeOutOfRange, "size %d outside constraint", n)
	}
	return nil
}

// CheckAlphabet reports whether every rune in s is within the effective
// permitted alphabet.
func (c Constraints) CheckAlphabet(s string) error {
	if c.Alphabet == nil {
		return nil
	}
	for _, r := range s {
		if !c.Alphabet.Contains(r) {
			return newConstraintErrorf(ErrCharacterNotPermitted, "character %q not permitted", r)
		}
	}
	return nil
}
