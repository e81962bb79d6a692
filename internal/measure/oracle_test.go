package measure

import (
	"strings"
	"testing"

	"github.com/pageflow/pageflow/internal/doctree"
	"github.com/pageflow/pageflow/internal/style"
	"github.com/pageflow/pageflow/internal/unit"
)

func testOracle(t *testing.T, width float64) *FontOracle {
	t.Helper()
	return NewFontOracle(width, style.Default(), unit.NewConverter(96), nil)
}

func textPara(t *testing.T, text string) *doctree.Node {
	t.Helper()
	s := doctree.DefaultSchema()
	p, err := s.Node(doctree.KindParagraph, doctree.Attrs{}, s.Text(text))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestNodeHeight_SingleLine(t *testing.T) {
	o := testOracle(t, 600)
	p := textPara(t, "short line")
	want := style.Default().DefaultLineHeight()
	if got := o.NodeHeight(p); got != want {
		t.Errorf("height = %v, want one line (%v)", got, want)
	}
}

func TestNodeHeight_WrapsWithWidth(t *testing.T) {
	text := strings.Repeat("wrap again and again ", 20)
	wide := testOracle(t, 600).NodeHeight(textPara(t, text))
	narrow := testOracle(t, 150).NodeHeight(textPara(t, text))
	if narrow <= wide {
		t.Errorf("narrow %v should exceed wide %v", narrow, wide)
	}
	line := style.Default().DefaultLineHeight()
	if wide < line || int(wide)%int(line) != 0 {
		t.Errorf("height %v is not a whole number of %vpx lines", wide, line)
	}
}

func TestNodeHeight_LongerTextNeverShorter(t *testing.T) {
	o := testOracle(t, 300)
	base := "some words that will wrap "
	prev := 0.0
	for i := 1; i <= 8; i++ {
		h := o.NodeHeight(textPara(t, strings.Repeat(base, i)))
		if h < prev {
			t.Fatalf("height decreased: %v -> %v at %d repeats", prev, h, i)
		}
		prev = h
	}
}

func TestNodeHeight_EmptyParagraphIsOneLine(t *testing.T) {
	o := testOracle(t, 600)
	s := doctree.DefaultSchema()
	p, _ := s.Node(doctree.KindParagraph, doctree.Attrs{})
	if got := o.NodeHeight(p); got != style.Default().DefaultLineHeight() {
		t.Errorf("empty paragraph height = %v, want one line", got)
	}
}

func TestNodeHeight_HeadingTallerThanParagraph(t *testing.T) {
	o := testOracle(t, 600)
	s := doctree.DefaultSchema()
	h1, _ := s.Node(doctree.KindHeading, doctree.Attrs{Level: 1}, s.Text("Title"))
	p := textPara(t, "Title")
	if o.NodeHeight(h1) <= o.NodeHeight(p) {
		t.Error("an h1 line should be taller than a body line")
	}
}

func TestNodeHeight_StackSpacing(t *testing.T) {
	o := testOracle(t, 600)
	s := doctree.DefaultSchema()
	pa := textPara(t, "a")
	pb := textPara(t, "b")
	item, _ := s.Node(doctree.KindListItem, doctree.Attrs{}, pa, pb)

	line := style.Default().DefaultLineHeight()
	// Two one-line paragraphs plus the 16+16px seam between them; the outer
	// margins belong to the container's surroundings.
	want := 2*line + 32
	if got := o.NodeHeight(item); got != want {
		t.Errorf("item height = %v, want %v", got, want)
	}
}

func TestNodeHeight_MemoizesAndInvalidates(t *testing.T) {
	o := testOracle(t, 600)
	p := textPara(t, "cached fragment")
	first := o.NodeHeight(p)
	if got := o.NodeHeight(p); got != first {
		t.Errorf("memoized height changed: %v -> %v", first, got)
	}
	o.Invalidate()
	if got := o.NodeHeight(p); got != first {
		t.Errorf("height changed after invalidation with the same styles: %v -> %v", first, got)
	}
}

func TestFragmentKey_DistinguishesMarks(t *testing.T) {
	s := doctree.DefaultSchema()
	plain, _ := s.Node(doctree.KindParagraph, doctree.Attrs{}, s.Text("x"))
	bold, _ := s.Node(doctree.KindParagraph, doctree.Attrs{}, s.Text("x", doctree.MarkBold))
	if fragmentKey(plain, "env") == fragmentKey(bold, "env") {
		t.Error("marks must participate in the memo key")
	}
	if fragmentKey(plain, "a") == fragmentKey(plain, "b") {
		t.Error("the style environment must participate in the memo key")
	}
}

func TestTextSize(t *testing.T) {
	o := testOracle(t, 600)
	st := style.Default().Base
	w1, h := o.TextSize("hi", st)
	w2, _ := o.TextSize("hi there", st)
	if w2 <= w1 {
		t.Errorf("widths: %v then %v", w1, w2)
	}
	if h != st.FontSize*st.LineHeight {
		t.Errorf("height = %v", h)
	}
}

func TestAtomHeight_FallbackWithoutSizer(t *testing.T) {
	o := testOracle(t, 600)
	s := doctree.DefaultSchema()
	atom, _ := s.Node(doctree.KindAtom, doctree.Attrs{Src: "missing.png"})
	if got := o.NodeHeight(atom); got != 40 {
		t.Errorf("atom fallback = %v, want 40", got)
	}
}
