// Package split implements the boundary-finding and tree-transform half of
// the pagination engine: the per-kind split strategies, the per-pass
// accumulator, and the structural split/merge transforms.
package split

// Boundary marks where the tree must be structurally split to start a new
// page: a linear position plus the number of ancestor levels (up to and
// including the page) that must be duplicated to materialize the break.
type Boundary struct {
	Pos   int
	Depth int
}

// Context is the per-pass accumulator for one candidate page. It is created
// fresh per pass and discarded once a boundary is found or the traversal
// exhausts the page.
type Context struct {
	// Budget is the usable content height of a page in px.
	Budget float64
	// Accumulated is the height consumed so far in this pass.
	Accumulated float64
	// DefaultLineHeight is the height of one default text line; marginal
	// overflows smaller than this are tolerated as rounding rather than
	// forcing an interior split.
	DefaultLineHeight float64
	// Boundary is the discovered break, nil until found.
	Boundary *Boundary
}

// NewContext builds a fresh accumulator for one pass.
func NewContext(budget, defaultLineHeight float64) *Context {
	return &Context{Budget: budget, DefaultLineHeight: defaultLineHeight}
}

// IsOverflow reports whether adding h would exceed the budget.
func (c *Context) IsOverflow(h float64) bool {
	return c.Accumulated+h > c.Budget
}

// IsHardOverflow reports whether adding h would exceed the budget by more
// than one default line, the threshold at which a marginal overflow merits a
// hard interior split instead of being written off as rounding.
func (c *Context) IsHardOverflow(h float64) bool {
	return c.Accumulated+h > c.Budget+c.DefaultLineHeight
}

// Remaining is the budget left for this pass.
func (c *Context) Remaining() float64 {
	r := c.Budget - c.Accumulated
	if r < 0 {
		return 0
	}
	return r
}

// Accumulate consumes height. It is monotonic: negative amounts are ignored.
func (c *Context) Accumulate(h float64) {
	if h > 0 {
		c.Accumulated += h
	}
}

// SetBoundary records the discovered break. The first boundary of a pass
// wins; later requests are ignored.
func (c *Context) SetBoundary(pos, depth int) {
	if c.Boundary == nil {
		c.Boundary = &Boundary{Pos: pos, Depth: depth}
	}
}
