package doctree

import "testing"

func TestTransaction_ReplaceNodes(t *testing.T) {
	doc := buildDoc(t)
	page := doc.Children[0]
	list := page.Children[1]
	s := DefaultSchema()

	repl, _ := s.Node(KindParagraph, Attrs{}, s.Text("Hello world, extended"))
	tx := NewTransaction(doc)
	if err := tx.ReplaceNodes(1, 1, repl); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got := tx.Doc()
	if got == doc {
		t.Fatal("transaction must not mutate in place")
	}
	if tx.Before() != doc {
		t.Error("Before should keep the original tree")
	}
	if !tx.Changed() || tx.Steps() != 1 {
		t.Errorf("changed=%v steps=%d", tx.Changed(), tx.Steps())
	}
	newPage := got.Children[0]
	if newPage.Children[0] != repl {
		t.Error("replacement not installed")
	}
	if newPage.Children[1] != list {
		t.Error("sibling off the spine should be shared by reference")
	}
	if page.Children[0].TextContent() != "Hello world" {
		t.Error("original tree was mutated")
	}
}

func TestTransaction_Mapping(t *testing.T) {
	doc := buildDoc(t)
	s := DefaultSchema()

	// "Hello world" (size 13) -> "Hi" (size 4): delta -9.
	repl, _ := s.Node(KindParagraph, Attrs{}, s.Text("Hi"))
	tx := NewTransaction(doc)
	if err := tx.ReplaceNodes(1, 1, repl); err != nil {
		t.Fatalf("replace: %v", err)
	}

	m := tx.Mapping()
	if got := m.Map(0); got != 0 {
		t.Errorf("Map(0) = %d, want 0", got)
	}
	if got := m.Map(14); got != 5 {
		t.Errorf("Map(14) = %d, want 5", got)
	}
	// A position inside the replaced range clamps to the end of the
	// replacement.
	if got := m.Map(7); got != 5 {
		t.Errorf("Map(7) = %d, want 5", got)
	}
}

func TestTransaction_InsertAndDelete(t *testing.T) {
	doc := buildDoc(t)
	s := DefaultSchema()

	extra, _ := s.Node(KindParagraph, Attrs{}, s.Text("new"))
	tx := NewTransaction(doc)
	if err := tx.InsertAt(14, extra); err != nil {
		t.Fatalf("insert: %v", err)
	}
	page := tx.Doc().Children[0]
	if len(page.Children) != 3 || page.Children[1] != extra {
		t.Fatalf("insert misplaced: %d children", len(page.Children))
	}

	if err := tx.DeleteNode(tx.Mapping().Map(14)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	page = tx.Doc().Children[0]
	if len(page.Children) != 2 {
		t.Fatalf("delete failed: %d children", len(page.Children))
	}
	if page.Children[1] == extra {
		t.Error("deleted the wrong node")
	}
}

func TestTransaction_SetID(t *testing.T) {
	doc := buildDoc(t)
	origID := doc.Children[0].Children[0].ID

	tx := NewTransaction(doc)
	if err := tx.SetID(1, "fresh"); err != nil {
		t.Fatalf("set id: %v", err)
	}
	if got := tx.Doc().Children[0].Children[0].ID; got != "fresh" {
		t.Errorf("id = %q, want fresh", got)
	}
	if doc.Children[0].Children[0].ID != origID {
		t.Error("original tree was mutated")
	}
	// Identity changes never shift positions.
	if got := tx.Mapping().Map(14); got != 14 {
		t.Errorf("Map(14) = %d, want 14", got)
	}
}

func TestTransaction_RejectsMidTextBoundary(t *testing.T) {
	doc := buildDoc(t)
	tx := NewTransaction(doc)
	if err := tx.ReplaceNodes(5, 1); err == nil {
		t.Error("replace inside a text run should fail")
	}
	if err := tx.ReplaceNodes(1, 5); err == nil {
		t.Error("replace past the parent's content should fail")
	}
}
