// Package pagination drives the per-edit reflow: reconcile duplicate
// identities, merge pages back to a working set, split to a fixed point, and
// repair forced-break artifacts, returning the whole reflow as one
// transaction for the caller to commit.
package pagination

import (
	"fmt"
	"strings"

	"github.com/pageflow/pageflow/internal/doctree"
	"github.com/pageflow/pageflow/internal/measure"
	"github.com/pageflow/pageflow/internal/split"
	"github.com/pageflow/pageflow/internal/style"
)

// Options represents options for the pagination engine
type Options struct {
	// Budget is the usable content height of one page in px.
	Budget float64
	// DefaultLineHeight is the height of one default text line in px.
	DefaultLineHeight float64
	// MaxPasses bounds the split loop. Exceeding it is reported, not
	// swallowed.
	MaxPasses int
}

// Edit describes why recomputation was invoked. It is transient per edit and
// derived by the host from its change notification; nothing here persists.
type Edit struct {
	Inserting   bool
	Deleting    bool
	ForceReflow bool
	// StartBlock and CurrentBlock are the page indices of the selection
	// anchor before and after the edit; when they disagree the edit crossed
	// a page boundary and pages are merged back before splitting.
	StartBlock   int
	CurrentBlock int
	// SelectionOnLastPage is set when the post-edit selection sits on the
	// last page.
	SelectionOnLastPage bool
	// StructuralChange is set when the edit changed the block structure
	// rather than just inline content.
	StructuralChange bool
}

// Engine handles the pagination process
type Engine struct {
	schema *doctree.Schema
	table  *split.Table
	opts   Options
}

// NewEngine creates a pagination engine around an injected measurement
// oracle and style set.
func NewEngine(oracle measure.Oracle, styles *style.Set, opts Options) *Engine {
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = 1000
	}
	if opts.DefaultLineHeight <= 0 {
		opts.DefaultLineHeight = styles.DefaultLineHeight()
	}
	return &Engine{
		schema: doctree.DefaultSchema(),
		table:  split.NewTable(oracle, styles),
		opts:   opts,
	}
}

// SetOptions sets the options for the pagination engine
func (e *Engine) SetOptions(opts Options) {
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = e.opts.MaxPasses
	}
	e.opts = opts
}

// ApplyEdit computes the pagination changes for one committed edit and
// returns them as a single transaction. The transaction reports no changes
// when the document is already settled.
func (e *Engine) ApplyEdit(doc *doctree.Node, edit Edit) (*doctree.Transaction, error) {
	if e.opts.Budget <= 0 {
		return nil, fmt.Errorf("pagination: content budget not configured")
	}
	tx := doctree.NewTransaction(doc)

	e.dedupeIDs(tx)

	switch {
	case edit.ForceReflow:
		if err := split.MergePages(tx, 1); err != nil {
			return tx, err
		}
	case edit.Deleting && !edit.Inserting && edit.SelectionOnLastPage && !edit.StructuralChange:
		// a deletion collapsed onto the last page cannot push content over
		// any earlier boundary; nothing to recompute
		return tx, nil
	default:
		if edit.StartBlock != edit.CurrentBlock {
			target := edit.StartBlock
			if edit.CurrentBlock < target {
				target = edit.CurrentBlock
			}
			if err := split.MergePages(tx, target+1); err != nil {
				return tx, err
			}
		}
	}

	if err := e.splitLoop(tx); err != nil {
		return tx, err
	}
	e.repair(tx)
	return tx, nil
}

// Reflow merges the whole document down to one page and re-splits it,
// regardless of edit flags. Used after configuration or style changes.
func (e *Engine) Reflow(doc *doctree.Node) (*doctree.Transaction, error) {
	return e.ApplyEdit(doc, Edit{ForceReflow: true})
}

// splitLoop finds and applies boundaries until none remains.
func (e *Engine) splitLoop(tx *doctree.Transaction) error {
	for i := 0; ; i++ {
		if i >= e.opts.MaxPasses {
			return fmt.Errorf("pagination: split loop did not settle after %d passes", e.opts.MaxPasses)
		}
		ctx := split.NewContext(e.opts.Budget, e.opts.DefaultLineHeight)
		b := split.FindBoundary(tx.Doc(), e.table, ctx)
		if b == nil {
			return nil
		}
		if err := split.Apply(tx, *b); err != nil {
			return err
		}
	}
}

// dedupeIDs reconciles nodes that share an identity. Edits can legitimately
// clone ids through copy/paste or forced splits; the larger node keeps the
// identity. The smaller one is deleted when its text is wholly contained in
// the keeper and it still has descendants, otherwise it just gets a fresh
// id. Positions are collected against the pre-edit tree and replayed through
// the transaction's mapping.
func (e *Engine) dedupeIDs(tx *doctree.Transaction) {
	type occurrence struct {
		node *doctree.Node
		pos  int
	}
	byID := make(map[string][]occurrence)
	var order []string
	doctree.Descendants(tx.Doc(), func(n *doctree.Node, pos int, _ *doctree.Node) bool {
		if n.Kind != doctree.KindText && n.ID != "" {
			if _, seen := byID[n.ID]; !seen {
				order = append(order, n.ID)
			}
			byID[n.ID] = append(byID[n.ID], occurrence{n, pos})
		}
		return true
	})

	for _, id := range order {
		occ := byID[id]
		if len(occ) < 2 {
			continue
		}
		keep := 0
		for i := 1; i < len(occ); i++ {
			if occ[i].node.NodeSize() > occ[keep].node.NodeSize() {
				keep = i
			}
		}
		keptText := occ[keep].node.TextContent()
		for i, o := range occ {
			if i == keep {
				continue
			}
			pos := tx.Mapping().Map(o.pos)
			dupText := o.node.TextContent()
			contained := dupText != "" && strings.Contains(keptText, dupText)
			if contained && len(o.node.Children) > 0 {
				if err := tx.DeleteNode(pos); err == nil {
					continue
				}
			}
			_ = tx.SetID(pos, doctree.NewID())
		}
	}
}

// repair removes the artifacts forced breaks leave behind: adjacent
// continuation paragraphs where one half ended up empty, and a first page
// stripped of all content. One artifact is collapsed per scan, matching the
// single-boundary-per-pass discipline of the finder, and the scan repeats
// until clean.
func (e *Engine) repair(tx *doctree.Transaction) {
	hadContent := len(tx.Before().Children) > 0 && len(tx.Before().Children[0].Children) > 0

	for {
		pos, ok := findEmptyContinuation(tx.Doc())
		if !ok {
			break
		}
		if err := tx.DeleteNode(pos); err != nil {
			break
		}
	}

	doc := tx.Doc()
	if hadContent && len(doc.Children) > 0 && len(doc.Children[0].Children) == 0 {
		if para, err := e.schema.Node(doctree.KindParagraph, doctree.Attrs{}); err == nil {
			_ = tx.InsertAt(1, para)
		}
	}
}

// findEmptyContinuation locates the first pair of adjacent continuation
// paragraphs with an empty half and returns the empty one's position.
func findEmptyContinuation(doc *doctree.Node) (int, bool) {
	found := -1
	doctree.Descendants(doc, func(n *doctree.Node, pos int, parent *doctree.Node) bool {
		if found >= 0 {
			return false
		}
		if n.Kind != doctree.KindParagraph || !n.Attrs.Extend {
			// only containers can hold paragraph pairs worth scanning
			switch n.Kind {
			case doctree.KindPage, doctree.KindListItem, doctree.KindOrderedList, doctree.KindBulletList:
				return true
			}
			return false
		}
		next := nextSibling(parent, n)
		if next != nil && next.Kind == doctree.KindParagraph && next.Attrs.Extend {
			if n.ContentEmpty() {
				found = pos
				return false
			}
			if next.ContentEmpty() {
				found = pos + n.NodeSize()
				return false
			}
		}
		return false
	})
	return found, found >= 0
}

func nextSibling(parent, n *doctree.Node) *doctree.Node {
	if parent == nil {
		return nil
	}
	for i, c := range parent.Children {
		if c == n && i+1 < len(parent.Children) {
			return parent.Children[i+1]
		}
	}
	return nil
}
