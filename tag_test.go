package asn1codec

import "testing"

func TestTagTreeDisjointDetectsCollision(t *testing.T) {
	a := Leaf(Universal(TagInteger))
	b := Leaf(Universal(TagInteger))
	if err := Disjoint(a, b); err == nil {
		t.Fatalf("expected collision error for duplicate leaf tags")
	}
}

func TestTagTreeDisjointAcceptsDistinctTags(t *testing.T) {
	a := Leaf(Universal(TagInteger))
	b := Leaf(Universal(TagBoolean))
	if err := Disjoint(a, b); err != nil {
		t.Fatalf("Disjoint: %v", err)
	}
}

func TestTagTreeUnionFlattensChoiceVariants(t *testing.T) {
	tree := Union(Leaf(Universal(TagInteger)), Leaf(Universal(TagBoolean)))
	flat := tree.Flatten()
	if len(flat) != 2 {
		t.Fatalf("Flatten() = %v, want 2 tags", flat)
	}
}

func TestTypeDescriptorAutomaticTagging(t *testing.T) {
	d := TypeDescriptor{
		Kind: KindSequence,
		Fields: []Field{
			{Name: "a", Tag: Universal(TagInteger), TagTree: Leaf(Universal(TagInteger))},
			{Name: "b", Tag: Universal(TagBoolean), TagTree: Leaf(Universal(TagBoolean))},
		},
	}
	auto := d.Automatic()
	if auto.Fields[0].Tag != ContextTag(0) || auto.Fields[1].Tag != ContextTag(1) {
		t.Fatalf("Automatic() tags = %v, %v", auto.Fields[0].Tag, auto.Fields[1].Tag)
	}
}

func TestTypeDescriptorAutomaticSkipsWhenContextTagPresent(t *testing.T) {
	d := TypeDescriptor{
		Kind: KindSequence,
		Fields: []Field{
			{Name: "a", Tag: ContextTag(5), TagTree: Leaf(ContextTag(5))},
		},
	}
	auto := d.Automatic()
	if auto.Fields[0].Tag != ContextTag(5) {
		t.Fatalf("Automatic() should be a no-op when a context tag is already present")
	}
}
