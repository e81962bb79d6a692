package split

import "github.com/pageflow/pageflow/internal/doctree"

// FindBoundary scans the last page of the document depth-first in pre-order,
// letting each node's strategy accumulate height or claim the boundary. The
// scan stops at the first boundary discovered; every page before the last is
// skipped, as earlier pages are never re-split.
func FindBoundary(doc *doctree.Node, table *Table, ctx *Context) *Boundary {
	page, pagePos, _ := doctree.LastPage(doc)
	if page == nil {
		return nil
	}
	walkLevel(page, pagePos+1, 1, table, ctx)
	return ctx.Boundary
}

func walkLevel(parent *doctree.Node, contentStart, depth int, table *Table, ctx *Context) {
	pos := contentStart
	for _, c := range parent.Children {
		if ctx.Boundary != nil {
			return
		}
		strategy := table.For(c.Kind)
		if strategy == nil {
			pos += c.NodeSize()
			continue
		}
		recurse := strategy.Decide(ctx, c, pos, depth, parent, table.Geometry(c))
		if ctx.Boundary != nil {
			return
		}
		if recurse && !c.IsLeaf() {
			walkLevel(c, pos+1, depth+1, table, ctx)
		}
		pos += c.NodeSize()
	}
}
