package doctree

import "testing"

func TestSchema_Node(t *testing.T) {
	s := DefaultSchema()

	p, err := s.Node(KindParagraph, Attrs{}, s.Text("x"))
	if err != nil {
		t.Fatalf("paragraph: %v", err)
	}
	if p.ID == "" {
		t.Error("constructed node must carry an id")
	}

	if _, err := s.Node(KindParagraph, Attrs{}, p); err == nil {
		t.Error("paragraph must not accept a paragraph child")
	}
	if _, err := s.Node(KindText, Attrs{}, s.Text("x")); err == nil {
		t.Error("leaf kinds must not accept children")
	}
	if _, err := s.Node(Kind("table"), Attrs{}); err == nil {
		t.Error("unknown kinds must be rejected")
	}
}

func TestSchema_TextHasNoID(t *testing.T) {
	s := DefaultSchema()
	if txt := s.Text("x", MarkBold); txt.ID != "" || !txt.HasMark(MarkBold) {
		t.Errorf("text node = %+v", txt)
	}
}

func TestSchema_Validate(t *testing.T) {
	doc := buildDoc(t)
	s := DefaultSchema()
	if err := s.Validate(doc); err != nil {
		t.Fatalf("valid doc rejected: %v", err)
	}

	if err := s.Validate(doc.Children[0]); err == nil {
		t.Error("non-doc root should be rejected")
	}
}

func TestSchema_Validate_DuplicateSiblingIDs(t *testing.T) {
	doc := buildDoc(t)
	s := DefaultSchema()
	page := doc.Children[0]
	dup := page.Children[0].CloneShallow()
	page.Children = append(page.Children, dup)
	if err := s.Validate(doc); err == nil {
		t.Error("duplicate sibling ids should be rejected")
	}
}

func TestSchema_Validate_PageOnlyUnderDoc(t *testing.T) {
	s := DefaultSchema()
	inner := &Node{Kind: KindPage, ID: NewID(), Attrs: Attrs{PageNumber: 2}}
	outer := &Node{Kind: KindPage, ID: NewID(), Attrs: Attrs{PageNumber: 1}, Children: []*Node{inner}}
	doc := &Node{Kind: KindDoc, ID: NewID(), Children: []*Node{outer}}
	if err := s.Validate(doc); err == nil {
		t.Error("nested page should be rejected")
	}
}

func TestSchema_Validate_MissingID(t *testing.T) {
	s := DefaultSchema()
	para := &Node{Kind: KindParagraph}
	page := &Node{Kind: KindPage, ID: NewID(), Attrs: Attrs{PageNumber: 1}, Children: []*Node{para}}
	doc := &Node{Kind: KindDoc, ID: NewID(), Children: []*Node{page}}
	if err := s.Validate(doc); err == nil {
		t.Error("block without id should be rejected")
	}
}
