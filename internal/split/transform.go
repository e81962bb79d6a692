package split

import (
	"fmt"

	"github.com/pageflow/pageflow/internal/doctree"
)

// Apply materializes a boundary: every ancestor level from the cut up to and
// including the page is closed on the before side and reopened on the after
// side. Reopened spine nodes get fresh identities and the continuation flag;
// reopened ordered lists are stamped with the continuation start index; the
// reopened page gets the next page number. Subtrees away from the spine are
// shared between both sides by reference.
//
// The change is applied to tx as a single zero-width structural insertion:
// the page being split is replaced by its two halves.
func Apply(tx *doctree.Transaction, b Boundary) error {
	doc := tx.Doc()
	r, err := doctree.Resolve(doc, b.Pos)
	if err != nil {
		return err
	}
	if r.Depth() != b.Depth {
		return fmt.Errorf("split: boundary depth %d does not match resolved depth %d at %d", b.Depth, r.Depth(), b.Pos)
	}
	if b.Depth < 1 {
		return fmt.Errorf("split: boundary depth %d below page level", b.Depth)
	}

	// innermost level: cut the direct parent's content at the boundary
	inner := r.Entry(r.Depth())
	rel := b.Pos - inner.Start
	size := inner.Node.ContentSize()
	if rel <= 0 || rel >= size {
		return fmt.Errorf("split: cut at %d would produce an empty half of %s", b.Pos, inner.Node.Kind)
	}
	before := inner.Node.CloneShallow()
	before.Children = doctree.CutContent(inner.Node.Children, 0, rel)
	after := reopen(inner.Node, doctree.CutContent(inner.Node.Children, rel, size), len(before.Children))

	// duplicate each remaining ancestor up to the page
	for level := r.Depth() - 1; level >= 1; level-- {
		entry := r.Entry(level)
		node := entry.Node
		idx := entry.Index

		b2 := node.CloneShallow()
		b2.Children = make([]*doctree.Node, 0, idx+1)
		b2.Children = append(b2.Children, node.Children[:idx]...)
		b2.Children = append(b2.Children, before)

		akids := make([]*doctree.Node, 0, len(node.Children)-idx)
		akids = append(akids, after)
		akids = append(akids, node.Children[idx+1:]...)
		after = reopen(node, akids, idx+1)
		before = b2
	}

	// the outermost reopened ancestor is a fresh page
	if before.Kind != doctree.KindPage {
		return fmt.Errorf("split: boundary at %d depth %d does not reach a page", b.Pos, b.Depth)
	}
	after.Attrs.Extend = false
	after.Attrs.PageNumber = before.Attrs.PageNumber + 1

	pagePos := r.Entry(1).Start - 1
	return tx.ReplaceNodes(pagePos, 1, before, after)
}

// reopen builds the after-side duplicate of a split ancestor: fresh identity,
// continuation flag, and for ordered lists the recomputed start index.
// itemsBefore is the number of children left on the before side, which for an
// ordered list is the count of sequence members preceding the cut.
func reopen(src *doctree.Node, children []*doctree.Node, itemsBefore int) *doctree.Node {
	n := src.CloneShallow()
	n.Children = children
	n.ID = doctree.NewID()
	n.Attrs.Extend = true
	if src.Kind == doctree.KindOrderedList {
		n.Attrs.Start = sequenceOrigin(src) + itemsBefore
	}
	return n
}

// sequenceOrigin is the number of the first item of the given list fragment.
// A continuation fragment carries the cumulative count of all prior fragments
// in its Start attribute, stamped when it was reopened, so the origin of the
// whole logical list is recovered transitively without rescanning pages.
func sequenceOrigin(list *doctree.Node) int {
	if list.Attrs.Start > 0 {
		return list.Attrs.Start
	}
	return 1
}
