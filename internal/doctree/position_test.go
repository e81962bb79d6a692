package doctree

import "testing"

func TestResolve_Boundary(t *testing.T) {
	doc := buildDoc(t)
	page := doc.Children[0]

	// Position 14 sits between the paragraph and the list.
	r, err := Resolve(doc, 14)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if r.Depth() != 1 {
		t.Errorf("depth = %d, want 1", r.Depth())
	}
	if r.Parent() != page {
		t.Error("parent should be the page")
	}
	if e := r.Entry(1); e.Index != 1 || e.Start != 1 {
		t.Errorf("entry = %+v, want index 1 start 1", e)
	}
	if r.TextOffset() != 0 {
		t.Errorf("text offset = %d, want 0", r.TextOffset())
	}
}

func TestResolve_InsideText(t *testing.T) {
	doc := buildDoc(t)

	// Position 5 is three runes into "Hello world".
	r, err := Resolve(doc, 5)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if r.Depth() != 2 {
		t.Errorf("depth = %d, want 2", r.Depth())
	}
	if r.Parent().Kind != KindParagraph {
		t.Errorf("parent kind = %q, want paragraph", r.Parent().Kind)
	}
	if r.TextOffset() != 3 {
		t.Errorf("text offset = %d, want 3", r.TextOffset())
	}
}

func TestResolve_Nested(t *testing.T) {
	doc := buildDoc(t)

	// Position 18 is two runes into "Item", four levels down.
	r, err := Resolve(doc, 18)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if r.Depth() != 4 {
		t.Errorf("depth = %d, want 4", r.Depth())
	}
	want := []Kind{KindDoc, KindPage, KindOrderedList, KindListItem, KindParagraph}
	for i, k := range want {
		if r.Path[i].Node.Kind != k {
			t.Errorf("path[%d] kind = %q, want %q", i, r.Path[i].Node.Kind, k)
		}
	}
	if r.TextOffset() != 1 {
		t.Errorf("text offset = %d, want 1", r.TextOffset())
	}
}

func TestResolve_OutOfRange(t *testing.T) {
	doc := buildDoc(t)
	if _, err := Resolve(doc, -1); err == nil {
		t.Error("negative position should fail")
	}
	if _, err := Resolve(doc, doc.ContentSize()+1); err == nil {
		t.Error("past-end position should fail")
	}
	if _, err := Resolve(doc, doc.ContentSize()); err != nil {
		t.Errorf("end position should resolve: %v", err)
	}
}

func TestNodeAt(t *testing.T) {
	doc := buildDoc(t)
	page := doc.Children[0]

	if n := NodeAt(doc, 0); n != page {
		t.Error("position 0 should locate the page")
	}
	if n := NodeAt(doc, 1); n != page.Children[0] {
		t.Error("position 1 should locate the first paragraph")
	}
	if n := NodeAt(doc, 14); n != page.Children[1] {
		t.Error("position 14 should locate the list")
	}
	if n := NodeAt(doc, 15); n == nil || n.Kind != KindListItem {
		t.Errorf("position 15 should locate the list item, got %+v", n)
	}
}

func TestDescendants_SkipsChildren(t *testing.T) {
	doc := buildDoc(t)
	var kinds []Kind
	Descendants(doc, func(n *Node, pos int, parent *Node) bool {
		kinds = append(kinds, n.Kind)
		return n.Kind != KindOrderedList
	})
	for _, k := range kinds {
		if k == KindListItem {
			t.Fatal("walk descended into a skipped subtree")
		}
	}
	if kinds[0] != KindPage {
		t.Errorf("first visited = %q, want page", kinds[0])
	}
}

func TestLastPage(t *testing.T) {
	doc := buildDoc(t)
	page, pos, idx := LastPage(doc)
	if page != doc.Children[0] || pos != 0 || idx != 0 {
		t.Errorf("got (%v, %d, %d)", page.Kind, pos, idx)
	}

	s := DefaultSchema()
	p2, _ := s.Node(KindPage, Attrs{PageNumber: 2})
	doc.Children = append(doc.Children, p2)
	page, pos, idx = LastPage(doc)
	if page != p2 || pos != 25 || idx != 1 {
		t.Errorf("got (%v, %d, %d), want second page at 25", page.Attrs.PageNumber, pos, idx)
	}

	empty := &Node{Kind: KindDoc, ID: NewID()}
	if page, _, _ := LastPage(empty); page != nil {
		t.Error("empty doc should have no last page")
	}
}
