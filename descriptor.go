package asn1codec

/*
descriptor.go implements [TypeDescriptor], [Field] and the presence
enumeration of §3, and the automatic-tagging transform of §4.1.
*/

//go:generate go run golang.org/x/tools/cmd/stringer -type=Presence -linecomment

// Kind discriminates the shape of a [TypeDescriptor] (§3).
type Kind uint8

const (
	KindPrimitive Kind = iota
	KindSequence
	KindSet
	KindChoice
	KindEnumerated
	KindSequenceOf
	KindSetOf
	KindDelegate
)

// Presence classifies how a [Field] participates in its parent (§3).
type Presence uint8

const (
	Required Presence = iota
	Optional
	DefaultValue
	ExtensionAddition
	ExtensionOptional
)

/*
Field describes one member of a SEQUENCE/SET (or one variant of a
CHOICE) in the order §5 requires encoders/decoders to honor: declaration
order.
*/
type Field struct {
	Name     string
	Index    int
	Tag      Tag
	TagTree  TagTree
	Presence Presence
}

// IsExtension reports whether f belongs to the extension set rather than
// the root.
func (f Field) IsExtension() bool {
	return f.Presence == ExtensionAddition || f.Presence == ExtensionOptional
}

// RootOptional reports whether f contributes a bit to the root preamble
// (§4.6 SEQUENCE step 2 / §4.7 SEQUENCE preamble).
func (f Field) RootOptional() bool {
	return f.Presence == Optional || f.Presence == DefaultValue
}

/*
TypeDescriptor is the compile-time metadata associated with every
codable type (§3). Implementations of [AsnType] publish one of these as
a package-level value and return it from [AsnType.Descriptor].
*/
type TypeDescriptor struct {
	Tag         Tag
	TagTree     TagTree
	Kind        Kind
	Fields      []Field // Sequence, Set, Choice variants, Enumerated values
	Identifier  string
	Extensible  bool
}

// RootFields returns the subsequence of Fields belonging to the root
// (non-extension) portion, in declaration order.
func (d TypeDescriptor) RootFields() []Field {
	out := make([]Field, 0, len(d.Fields))
	for _, f := range d.Fields {
		if !f.IsExtension() {
			out = append(out, f)
		}
	}
	return out
}

// ExtensionFields returns the subsequence of Fields belonging to the
// extension set, in declaration order.
func (d TypeDescriptor) ExtensionFields() []Field {
	out := make([]Field, 0)
	for _, f := range d.Fields {
		if f.IsExtension() {
			out = append(out, f)
		}
	}
	return out
}

// Automatic returns a copy of d with each field's/variant's tag replaced
// by CONTEXT-class tags numbered 0..n-1 in declaration order (§4.1
// "Automatic tagging"). It is a no-op — returning d unchanged — if any
// field already carries a CONTEXT-class tag, matching the spec's "but
// only if the original type did not already use any context-class tag."
func (d TypeDescriptor) Automatic() TypeDescriptor {
	for _, f := range d.Fields {
		if f.Tag.Class == ClassContext {
			return d
		}
	}
	out := d
	out.Fields = make([]Field, len(d.Fields))
	for i, f := range d.Fields {
		f.Tag = ContextTag(uint64(i))
		f.TagTree = Leaf(f.Tag)
		out.Fields[i] = f
	}
	return out
}

// Validate checks static invariants at type-definition/registration
// time: I1 (sibling tag-tree disjointness) and that extension fields
// appear only on an extensible type. It does not check that an extension
// addition is OPTIONAL: a field with Presence ExtensionAddition passes.
// It is never called during encode/decode.
func (d TypeDescriptor) Validate() error {
	if d.Kind == KindSequence || d.Kind == KindSet || d.Kind == KindChoice {
		trees := make([]TagTree, 0, len(d.Fields))
		for _, f := range d.Fields {
			trees = append(trees, f.TagTree)
		}
		if err := Disjoint(trees...); err != nil {
			return err
		}
	}
	if !d.Extensible {
		for _, f := range d.Fields {
			if f.IsExtension() {
				// I4: extension additions only make sense on an extensible type.
				return newStructuralErrorf(ErrMissingRequiredField,
					"extension addition %q on non-extensible type", f.Name)
			}
		}
	}
	return nil
}
