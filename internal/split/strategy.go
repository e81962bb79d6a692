package split

import (
	"github.com/pageflow/pageflow/internal/doctree"
	"github.com/pageflow/pageflow/internal/measure"
	"github.com/pageflow/pageflow/internal/style"
	"github.com/pageflow/pageflow/internal/textbreak"
)

// Geometry is the measured vertical footprint of a candidate node.
type Geometry struct {
	Height        float64
	SpacingBefore float64
	SpacingAfter  float64
}

// Total is the full vertical allowance of the node including spacing.
func (g Geometry) Total() float64 { return g.SpacingBefore + g.Height + g.SpacingAfter }

// leafAllowance is the fixed spacing an inline leaf contributes once the page
// has already overflowed.
const leafAllowance = 4.0

// Strategy decides, for one node kind, whether the boundary search should
// recurse into the node's children. Boundary discovery happens as a side
// effect on the context.
type Strategy interface {
	Decide(ctx *Context, n *doctree.Node, pos, depth int, parent *doctree.Node, geo Geometry) bool
}

// Table dispatches candidate nodes to the strategy for their kind and
// computes their geometry from the oracle and style set.
type Table struct {
	oracle     measure.Oracle
	styles     *style.Set
	strategies map[doctree.Kind]Strategy
}

// NewTable wires one strategy per paginated node kind.
func NewTable(oracle measure.Oracle, styles *style.Set) *Table {
	t := &Table{oracle: oracle, styles: styles}
	t.strategies = map[doctree.Kind]Strategy{
		doctree.KindOrderedList: listStrategy{},
		doctree.KindBulletList:  listStrategy{},
		doctree.KindListItem:    listItemStrategy{},
		doctree.KindHeading:     headingStrategy{table: t},
		doctree.KindParagraph:   paragraphStrategy{table: t},
		doctree.KindText:        leafStrategy{},
		doctree.KindHardBreak:   leafStrategy{},
		doctree.KindAtom:        leafStrategy{},
		doctree.KindMarker:      markerStrategy{},
	}
	return t
}

// For returns the strategy for a kind, or nil when the kind never takes part
// in boundary decisions.
func (t *Table) For(kind doctree.Kind) Strategy { return t.strategies[kind] }

// Geometry measures a candidate node.
func (t *Table) Geometry(n *doctree.Node) Geometry {
	st := t.styles.For(n)
	return Geometry{
		Height:        t.oracle.NodeHeight(n),
		SpacingBefore: st.SpacingBefore,
		SpacingAfter:  st.SpacingAfter,
	}
}

// parentBoundary computes the position of the node's parent given the node's
// own position, for boundary propagation one level up.
func parentBoundary(n *doctree.Node, pos int, parent *doctree.Node) int {
	before := 0
	for _, sib := range parent.Children {
		if sib == n {
			break
		}
		before += sib.NodeSize()
	}
	return pos - before - 1
}

func isFirstChild(n *doctree.Node, parent *doctree.Node) bool {
	return parent != nil && len(parent.Children) > 0 && parent.Children[0] == n
}

// listStrategy handles ordered and bullet list containers: an overflowing
// list defers to its items, a fitting one accumulates whole.
type listStrategy struct{}

func (listStrategy) Decide(ctx *Context, n *doctree.Node, pos, depth int, parent *doctree.Node, geo Geometry) bool {
	if ctx.IsOverflow(geo.Total()) {
		return true
	}
	ctx.Accumulate(geo.Total())
	return false
}

// listItemStrategy places the break between sibling items, pushing a leading
// item up one level so an empty list shell is never left behind. An item
// taller than the entire page cannot be placed whole anywhere; it contributes
// its spacing and forces recursion so a block inside it can break instead.
type listItemStrategy struct{}

func (listItemStrategy) Decide(ctx *Context, n *doctree.Node, pos, depth int, parent *doctree.Node, geo Geometry) bool {
	if !ctx.IsOverflow(geo.Total()) {
		ctx.Accumulate(geo.Total())
		return false
	}
	if geo.Height > ctx.Budget {
		// oversized singleton item
		ctx.Accumulate(geo.SpacingBefore + geo.SpacingAfter)
		return true
	}
	if isFirstChild(n, parent) {
		ctx.SetBoundary(parentBoundary(n, pos, parent), depth-1)
		return false
	}
	ctx.SetBoundary(pos, depth)
	return false
}

// headingStrategy moves an overflowing heading to the next page whole unless
// the heading alone exceeds the page budget, in which case it falls back to
// an interior text break. A heading leading its container propagates the
// boundary upward, and a heading leading the page itself stays put.
type headingStrategy struct{ table *Table }

func (s headingStrategy) Decide(ctx *Context, n *doctree.Node, pos, depth int, parent *doctree.Node, geo Geometry) bool {
	if !ctx.IsOverflow(geo.Total()) {
		ctx.Accumulate(geo.Total())
		return false
	}
	if geo.Height > ctx.Budget && ctx.IsHardOverflow(geo.Total()) {
		if off := s.table.interiorBreak(ctx, n, geo); off > 0 {
			ctx.SetBoundary(pos+1+off, depth+1)
			return false
		}
	}
	if isFirstChild(n, parent) {
		if depth <= 1 {
			// leading heading of the page itself: there is no earlier
			// break, the content stays and overflows this one page
			ctx.Accumulate(geo.Total())
			return false
		}
		ctx.SetBoundary(parentBoundary(n, pos, parent), depth-1)
		return false
	}
	ctx.SetBoundary(pos, depth)
	return false
}

// paragraphStrategy first attempts an interior word-bounded break; when none
// exists the whole paragraph moves, propagating the boundary to the parent
// when the paragraph leads its container. Interior breaks are reserved for
// overflows past one default line; a marginal overflow within that margin is
// rounding-scale and the block moves whole instead.
type paragraphStrategy struct{ table *Table }

func (s paragraphStrategy) Decide(ctx *Context, n *doctree.Node, pos, depth int, parent *doctree.Node, geo Geometry) bool {
	if !ctx.IsOverflow(geo.Total()) {
		ctx.Accumulate(geo.Total())
		return false
	}
	if geo.Height > ctx.DefaultLineHeight && ctx.IsHardOverflow(geo.Total()) {
		if off := s.table.interiorBreak(ctx, n, geo); off > 0 {
			ctx.SetBoundary(pos+1+off, depth+1)
			return false
		}
	}
	if isFirstChild(n, parent) {
		if depth <= 1 {
			// leading paragraph of the page itself: there is no earlier
			// break, the content stays and overflows this one page
			ctx.Accumulate(geo.Total())
			return false
		}
		ctx.SetBoundary(parentBoundary(n, pos, parent), depth-1)
		return false
	}
	ctx.SetBoundary(pos, depth)
	return false
}

// interiorBreak runs the text-break search over the block's inline content,
// returning a content offset or 0. Each probe rebuilds the block with the
// candidate prefix and measures it.
func (t *Table) interiorBreak(ctx *Context, n *doctree.Node, geo Geometry) int {
	flat := []rune(n.FlatText())
	if len(flat) == 0 {
		return 0
	}
	budget := ctx.Remaining() - geo.SpacingBefore
	if budget <= 0 {
		return 0
	}
	eval := func(prefixLen int) float64 {
		clone := n.CloneShallow()
		clone.Children = doctree.CutContent(n.Children, 0, prefixLen)
		return t.oracle.NodeHeight(clone)
	}
	off := textbreak.Search(flat, budget, eval)
	if off >= len(flat) {
		// the whole block fits after all; not an interior break
		return 0
	}
	return off
}

// leafStrategy covers plain inline and atomic leaves: they accumulate and
// leave the decision to an ancestor kind.
type leafStrategy struct{}

func (leafStrategy) Decide(ctx *Context, n *doctree.Node, pos, depth int, parent *doctree.Node, geo Geometry) bool {
	if ctx.IsOverflow(geo.Height) {
		ctx.Accumulate(leafAllowance)
	} else {
		ctx.Accumulate(geo.Height)
	}
	return true
}

// markerStrategy covers fixed-height decorative continuation markers; they
// contribute a small constant and never become a boundary themselves.
type markerStrategy struct{}

func (markerStrategy) Decide(ctx *Context, n *doctree.Node, pos, depth int, parent *doctree.Node, geo Geometry) bool {
	ctx.Accumulate(geo.Height)
	return true
}
