// Package measure provides the measurement oracle: deterministic pixel
// geometry for document fragments. The production implementation derives
// heights from go-pdf/fpdf font metrics, wrapping inline content to the page
// content width the way it would render. Results are memoized by a canonical
// serialization of the fragment and flushed only on explicit invalidation.
package measure

import (
	"fmt"
	"strings"
	"sync"

	"codeberg.org/go-pdf/fpdf"

	"github.com/pageflow/pageflow/internal/doctree"
	"github.com/pageflow/pageflow/internal/style"
	"github.com/pageflow/pageflow/internal/unit"
)

// Oracle reports rendered pixel geometry for document fragments. It must be
// deterministic for a given fragment and style environment.
type Oracle interface {
	// NodeHeight is the rendered height of the node at the content width.
	NodeHeight(n *doctree.Node) float64
	// TextSize is the unwrapped size of a text run in the given style.
	TextSize(text string, st style.TypeStyle) (width, height float64)
	// Invalidate flushes all cached measurements. Called when the style
	// environment changes; partial invalidation is not supported.
	Invalidate()
}

// markerHeight is the fixed height of decorative continuation markers.
const markerHeight = 12.0

// FontOracle measures with fpdf font metrics. It owns a dedicated fpdf
// instance used purely for measurement, plus a scratch page for fragments
// that have no direct metric.
type FontOracle struct {
	width  float64 // content width in px
	styles *style.Set
	conv   *unit.Converter
	sizer  *ImageSizer

	mu    sync.Mutex
	pdf   *fpdf.Fpdf
	cache map[string]float64
}

// NewFontOracle builds an oracle for the given content width (px), style set
// and unit basis. sizer may be nil when atom sizing is not needed.
func NewFontOracle(widthPx float64, styles *style.Set, conv *unit.Converter, sizer *ImageSizer) *FontOracle {
	pdf := fpdf.New("P", "pt", "", "")
	pdf.SetFont("Helvetica", "", 12)
	return &FontOracle{
		width:  widthPx,
		styles: styles,
		conv:   conv,
		sizer:  sizer,
		pdf:    pdf,
		cache:  make(map[string]float64),
	}
}

// Invalidate drops every cached measurement.
func (o *FontOracle) Invalidate() {
	o.mu.Lock()
	o.cache = make(map[string]float64)
	o.mu.Unlock()
}

// TextSize measures a single unwrapped run.
func (o *FontOracle) TextSize(text string, st style.TypeStyle) (float64, float64) {
	o.mu.Lock()
	w := o.stringWidthLocked(text, st)
	o.mu.Unlock()
	return w, st.FontSize * st.LineHeight
}

// NodeHeight measures the node at the oracle's content width.
func (o *FontOracle) NodeHeight(n *doctree.Node) float64 {
	key := fragmentKey(n, o.styles.Fingerprint())
	o.mu.Lock()
	if h, ok := o.cache[key]; ok {
		o.mu.Unlock()
		return h
	}
	o.mu.Unlock()

	h := o.measure(n, o.width)

	o.mu.Lock()
	o.cache[key] = h
	o.mu.Unlock()
	return h
}

func (o *FontOracle) measure(n *doctree.Node, width float64) float64 {
	st := o.styles.For(n)
	switch n.Kind {
	case doctree.KindText:
		return o.wrappedHeight([]*doctree.Node{n}, o.styles.Base, width)
	case doctree.KindHardBreak:
		return st.FontSize * st.LineHeight
	case doctree.KindMarker:
		return markerHeight
	case doctree.KindAtom:
		return o.atomHeight(n, width)
	case doctree.KindParagraph, doctree.KindHeading:
		return o.wrappedHeight(n.Children, st, width)
	case doctree.KindOrderedList, doctree.KindBulletList:
		return o.stackHeight(n.Children, width-st.Indent)
	case doctree.KindListItem, doctree.KindPage:
		return o.stackHeight(n.Children, width)
	default:
		// No direct metric for this kind: render it on the scratch page and
		// measure the vertical advance there.
		return o.scratchHeight(n, width)
	}
}

// stackHeight sums child heights plus the vertical spacing between them.
// The leading spacing of the first child and the trailing spacing of the last
// are attributed to the container's surroundings, not its content.
func (o *FontOracle) stackHeight(children []*doctree.Node, width float64) float64 {
	total := 0.0
	for i, c := range children {
		cs := o.styles.For(c)
		if i > 0 {
			total += cs.SpacingBefore
		}
		total += o.measure(c, width)
		if i < len(children)-1 {
			total += cs.SpacingAfter
		}
	}
	return total
}

// wrappedHeight greedily wraps inline content to the width and returns the
// line count times the block's line height. Runs are measured with their own
// marks so bold or code spans wrap where they would render.
func (o *FontOracle) wrappedHeight(children []*doctree.Node, st style.TypeStyle, width float64) float64 {
	if width <= 0 {
		width = 1
	}
	lineHeight := st.FontSize * st.LineHeight
	lines := 1
	lineWidth := 0.0
	extra := 0.0 // height contributed by non-text leaves such as atoms

	o.mu.Lock()
	defer o.mu.Unlock()

	empty := true
	for _, c := range children {
		switch c.Kind {
		case doctree.KindText:
			runStyle := o.styles.WithMarks(st, c.Marks)
			spaceW := o.stringWidthLocked(" ", runStyle)
			for _, word := range strings.Fields(c.Text) {
				empty = false
				w := o.stringWidthLocked(word, runStyle)
				add := w
				if lineWidth > 0 {
					add += spaceW
				}
				if lineWidth+add > width && lineWidth > 0 {
					lines++
					lineWidth = w
				} else {
					lineWidth += add
				}
			}
		case doctree.KindHardBreak:
			empty = false
			lines++
			lineWidth = 0
		case doctree.KindAtom:
			empty = false
			o.mu.Unlock()
			extra += o.atomHeight(c, width)
			o.mu.Lock()
		case doctree.KindMarker:
			extra += markerHeight
		}
	}
	if empty && extra == 0 {
		// an empty textblock still renders one line
		return lineHeight
	}
	return float64(lines)*lineHeight + extra
}

func (o *FontOracle) atomHeight(n *doctree.Node, width float64) float64 {
	const fallback = 40.0 // default replaced-element square
	if o.sizer == nil || n.Attrs.Src == "" {
		return fallback
	}
	w, h, err := o.sizer.IntrinsicSize(n.Attrs.Src)
	if err != nil || w <= 0 || h <= 0 {
		return fallback
	}
	if w > width {
		h *= width / w
	}
	return h
}

// scratchHeight writes the node's text onto an off-screen scratch page and
// measures the Y advance, recovering a usable metric for fragments that are
// absent from the direct measurement paths.
func (o *FontOracle) scratchHeight(n *doctree.Node, width float64) float64 {
	st := o.styles.For(n)
	o.mu.Lock()
	defer o.mu.Unlock()

	o.pdf.AddPage()
	o.setFontLocked(st)
	o.pdf.SetXY(0, 0)
	wPt := o.mustPt(width)
	lineHt := o.mustPt(st.FontSize * st.LineHeight)
	o.pdf.MultiCell(wPt, lineHt, n.TextContent(), "", "L", false)
	hPx, _ := o.conv.ToPixels(o.pdf.GetY(), unit.Pt)
	return hPx
}

func (o *FontOracle) stringWidthLocked(text string, st style.TypeStyle) float64 {
	o.setFontLocked(st)
	wPt := o.pdf.GetStringWidth(text)
	px, _ := o.conv.ToPixels(wPt, unit.Pt)
	return px
}

func (o *FontOracle) setFontLocked(st style.TypeStyle) {
	sizePt := o.mustPt(st.FontSize)
	o.pdf.SetFont(st.FontFamily, st.FontStyle, sizePt)
}

func (o *FontOracle) mustPt(px float64) float64 {
	pt, _ := o.conv.FromPixels(px, unit.Pt)
	return pt
}

// fragmentKey canonically serializes a fragment for memoization.
func fragmentKey(n *doctree.Node, env string) string {
	var b strings.Builder
	b.WriteString(env)
	b.WriteByte('|')
	writeKey(&b, n)
	return b.String()
}

func writeKey(b *strings.Builder, n *doctree.Node) {
	b.WriteString(string(n.Kind))
	if n.Kind == doctree.KindText {
		fmt.Fprintf(b, "(%v:%s)", n.Marks, n.Text)
		return
	}
	fmt.Fprintf(b, "[%d,%d,%s]", n.Attrs.Level, n.Attrs.Start, n.Attrs.Src)
	b.WriteByte('{')
	for _, c := range n.Children {
		writeKey(b, c)
		b.WriteByte(',')
	}
	b.WriteByte('}')
}
