package split

import (
	"testing"

	"github.com/pageflow/pageflow/internal/doctree"
	"github.com/pageflow/pageflow/internal/style"
)

// fixedOracle is a deterministic measurement stand-in: every rune is one
// character wide, lines hold charsPerLine characters and are lineHeight px
// tall. Container heights stack their children.
type fixedOracle struct {
	charsPerLine int
	lineHeight   float64
}

func (o fixedOracle) NodeHeight(n *doctree.Node) float64 {
	switch n.Kind {
	case doctree.KindParagraph, doctree.KindHeading:
		runes := len([]rune(n.FlatText()))
		lines := (runes + o.charsPerLine - 1) / o.charsPerLine
		if lines < 1 {
			lines = 1
		}
		return float64(lines) * o.lineHeight
	case doctree.KindAtom:
		return 40
	case doctree.KindMarker:
		return 12
	case doctree.KindText:
		runes := len([]rune(n.Text))
		lines := (runes + o.charsPerLine - 1) / o.charsPerLine
		if lines < 1 {
			lines = 1
		}
		return float64(lines) * o.lineHeight
	case doctree.KindHardBreak:
		return 0
	}
	total := 0.0
	for _, c := range n.Children {
		total += o.NodeHeight(c)
	}
	return total
}

func (o fixedOracle) TextSize(text string, st style.TypeStyle) (float64, float64) {
	return float64(len([]rune(text))), o.lineHeight
}

func (o fixedOracle) Invalidate() {}

// testStyles carries no block spacing so heights in assertions stay simple.
func testStyles() *style.Set {
	base := style.TypeStyle{FontFamily: "Helvetica", FontSize: 16, LineHeight: 1.5}
	return &style.Set{
		Base:     base,
		PerKind:  map[doctree.Kind]style.TypeStyle{},
		Headings: map[int]style.TypeStyle{1: base, 2: base},
	}
}

func testTable() *Table {
	return NewTable(fixedOracle{charsPerLine: 10, lineHeight: 24}, testStyles())
}

func mustNode(t *testing.T, s *doctree.Schema, kind doctree.Kind, attrs doctree.Attrs, children ...*doctree.Node) *doctree.Node {
	t.Helper()
	n, err := s.Node(kind, attrs, children...)
	if err != nil {
		t.Fatalf("build %s: %v", kind, err)
	}
	return n
}

func para(t *testing.T, s *doctree.Schema, text string) *doctree.Node {
	return mustNode(t, s, doctree.KindParagraph, doctree.Attrs{}, s.Text(text))
}

func pageDoc(t *testing.T, s *doctree.Schema, blocks ...*doctree.Node) *doctree.Node {
	page := mustNode(t, s, doctree.KindPage, doctree.Attrs{PageNumber: 1}, blocks...)
	return mustNode(t, s, doctree.KindDoc, doctree.Attrs{}, page)
}

func TestFindBoundary_EverythingFits(t *testing.T) {
	s := doctree.DefaultSchema()
	doc := pageDoc(t, s, para(t, s, "hello"), para(t, s, "world"))

	ctx := NewContext(100, 24)
	if b := FindBoundary(doc, testTable(), ctx); b != nil {
		t.Fatalf("boundary = %+v, want none", b)
	}
	if ctx.Accumulated != 48 {
		t.Errorf("accumulated = %v, want 48", ctx.Accumulated)
	}
}

func TestFindBoundary_WholeParagraphMoves(t *testing.T) {
	s := doctree.DefaultSchema()
	// Two one-line paragraphs of 24px against a 30px budget: the second
	// paragraph cannot break internally and moves whole.
	doc := pageDoc(t, s, para(t, s, "aaaaaaaaaa"), para(t, s, "bbbbbbbbbb"))

	ctx := NewContext(30, 24)
	b := FindBoundary(doc, testTable(), ctx)
	if b == nil {
		t.Fatal("expected a boundary")
	}
	if b.Pos != 13 || b.Depth != 1 {
		t.Errorf("boundary = %+v, want pos 13 depth 1", b)
	}
}

func TestFindBoundary_InteriorTextBreak(t *testing.T) {
	s := doctree.DefaultSchema()
	// One four-line paragraph against a budget that holds two lines: the
	// overflow is well past one line, so the break lands inside the text at
	// a word boundary.
	doc := pageDoc(t, s, para(t, s, "aaaaaaaaa aaaaaaaaa aaaaaaaaa aaaaaaaaa"))

	ctx := NewContext(50, 24)
	b := FindBoundary(doc, testTable(), ctx)
	if b == nil {
		t.Fatal("expected a boundary")
	}
	// Paragraph content starts at 2; 20 runes fit (two lines), ending just
	// after the second space.
	if b.Pos != 22 || b.Depth != 2 {
		t.Errorf("boundary = %+v, want pos 22 depth 2", b)
	}
}

func TestFindBoundary_MarginalOverflowMovesWhole(t *testing.T) {
	s := doctree.DefaultSchema()
	// The second paragraph could break after its first line, but the page
	// runs over by less than one default line, so no interior cut is made
	// and the paragraph moves whole.
	doc := pageDoc(t, s, para(t, s, "aaaaaaaaaa"), para(t, s, "bbbbbbbbb bbbbbbbbb"))

	ctx := NewContext(50, 24)
	b := FindBoundary(doc, testTable(), ctx)
	if b == nil {
		t.Fatal("expected a boundary")
	}
	if b.Pos != 13 || b.Depth != 1 {
		t.Errorf("boundary = %+v, want whole-paragraph move at pos 13 depth 1", b)
	}
}

func TestFindBoundary_LeadingPageParagraphOverflowsInPlace(t *testing.T) {
	s := doctree.DefaultSchema()
	// A space-less first paragraph taller than the page with no usable
	// interior cut stays put; there is no earlier boundary to move it to.
	doc := pageDoc(t, s, para(t, s, "aaaa"), para(t, s, "bbbb"))
	ctx := NewContext(10, 24)
	b := FindBoundary(doc, testTable(), ctx)
	if b == nil {
		t.Fatal("expected a boundary at the second paragraph")
	}
	if b.Pos != 7 || b.Depth != 1 {
		t.Errorf("boundary = %+v, want pos 7 depth 1", b)
	}
}

func TestFindBoundary_HeadingMovesWhole(t *testing.T) {
	s := doctree.DefaultSchema()
	h := mustNode(t, s, doctree.KindHeading, doctree.Attrs{Level: 2}, s.Text("section b"))
	doc := pageDoc(t, s, para(t, s, "aaaaaaaaaa"), h)

	ctx := NewContext(30, 24)
	b := FindBoundary(doc, testTable(), ctx)
	if b == nil {
		t.Fatal("expected a boundary")
	}
	if b.Pos != 13 || b.Depth != 1 {
		t.Errorf("boundary = %+v, want heading start pos 13 depth 1", b)
	}
}

func TestFindBoundary_LeadingHeadingSpacingOverflowsInPlace(t *testing.T) {
	s := doctree.DefaultSchema()
	// The heading itself fits the budget; only its spacing tips the total
	// over. As the first block of the page it has nowhere earlier to go and
	// stays put.
	h := mustNode(t, s, doctree.KindHeading, doctree.Attrs{Level: 1}, s.Text("title"))
	doc := pageDoc(t, s, h)

	styles := testStyles()
	hs := styles.Base
	hs.SpacingBefore, hs.SpacingAfter = 20, 20
	styles.Headings[1] = hs
	table := NewTable(fixedOracle{charsPerLine: 10, lineHeight: 24}, styles)

	ctx := NewContext(30, 24)
	if b := FindBoundary(doc, table, ctx); b != nil {
		t.Fatalf("boundary = %+v, want none", b)
	}
	if ctx.Accumulated != 64 {
		t.Errorf("accumulated = %v, want 64", ctx.Accumulated)
	}
}

func TestFindBoundary_BetweenListItems(t *testing.T) {
	s := doctree.DefaultSchema()
	item1 := mustNode(t, s, doctree.KindListItem, doctree.Attrs{}, para(t, s, "aaaaaaaaaa"))
	item2 := mustNode(t, s, doctree.KindListItem, doctree.Attrs{}, para(t, s, "bbbbbbbbbb"))
	list := mustNode(t, s, doctree.KindOrderedList, doctree.Attrs{Start: 1}, item1, item2)
	doc := pageDoc(t, s, list)

	ctx := NewContext(30, 24)
	b := FindBoundary(doc, testTable(), ctx)
	if b == nil {
		t.Fatal("expected a boundary")
	}
	// list opens at 1, item1 spans [2, 16), item2 opens at 16
	if b.Pos != 16 || b.Depth != 2 {
		t.Errorf("boundary = %+v, want pos 16 depth 2", b)
	}
}

func TestFindBoundary_FirstListItemPushesListWhole(t *testing.T) {
	s := doctree.DefaultSchema()
	item := mustNode(t, s, doctree.KindListItem, doctree.Attrs{}, para(t, s, "bbbbbbbbbb"))
	list := mustNode(t, s, doctree.KindBulletList, doctree.Attrs{}, item)
	doc := pageDoc(t, s, para(t, s, "aaaaaaaaaa"), list)

	ctx := NewContext(30, 24)
	b := FindBoundary(doc, testTable(), ctx)
	if b == nil {
		t.Fatal("expected a boundary")
	}
	// The paragraph eats the budget; the single item cannot lead a list
	// fragment, so the whole list moves: boundary at the list's position.
	if b.Pos != 13 || b.Depth != 1 {
		t.Errorf("boundary = %+v, want list start pos 13 depth 1", b)
	}
}

func TestFindBoundary_SkipsEarlierPages(t *testing.T) {
	s := doctree.DefaultSchema()
	// The first page is far over budget but settled; only the last page is
	// scanned.
	page1 := mustNode(t, s, doctree.KindPage, doctree.Attrs{PageNumber: 1},
		para(t, s, "aaaaaaaaaa"), para(t, s, "bbbbbbbbbb"), para(t, s, "cccccccccc"))
	page2 := mustNode(t, s, doctree.KindPage, doctree.Attrs{PageNumber: 2}, para(t, s, "dddd"))
	doc := mustNode(t, s, doctree.KindDoc, doctree.Attrs{}, page1, page2)

	ctx := NewContext(30, 24)
	if b := FindBoundary(doc, testTable(), ctx); b != nil {
		t.Fatalf("boundary = %+v, want none on the settled document", b)
	}
}
