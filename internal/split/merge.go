package split

import "github.com/pageflow/pageflow/internal/doctree"

// MergePages joins the last page into its predecessor until at most target
// top-level pages remain. This is the pre-split normalization run before a
// re-pagination pass, so the split loop always starts from joined content.
func MergePages(tx *doctree.Transaction, target int) error {
	if target < 1 {
		target = 1
	}
	for len(tx.Doc().Children) > target {
		if err := mergeLastPage(tx); err != nil {
			return err
		}
	}
	return nil
}

// mergeLastPage appends the last page's content to the previous page. When
// the last page opens with the continuation half of a node the previous page
// closes with, the join goes one level deeper so the two halves reunite into
// a single logical node instead of remaining siblings.
func mergeLastPage(tx *doctree.Transaction) error {
	doc := tx.Doc()
	n := len(doc.Children)
	if n < 2 {
		return nil
	}
	prev, last := doc.Children[n-2], doc.Children[n-1]

	prevPos := 0
	for _, c := range doc.Children[:n-2] {
		prevPos += c.NodeSize()
	}

	merged := prev.CloneShallow()
	kids := make([]*doctree.Node, 0, len(prev.Children)+len(last.Children))
	kids = append(kids, prev.Children...)

	rest := last.Children
	if joinDeep(prev, last) {
		head := last.Children[0]
		tail := kids[len(kids)-1]
		joined := tail.CloneShallow()
		joined.Children = coalesceText(append(append([]*doctree.Node{}, tail.Children...), head.Children...))
		kids[len(kids)-1] = joined
		rest = last.Children[1:]
	}
	merged.Children = append(kids, rest...)

	return tx.ReplaceNodes(prevPos, 2, merged)
}

// joinDeep reports whether the seam between the two pages is a split node
// whose halves should reunite: matching kinds and a continuation flag on the
// latter half.
func joinDeep(prev, last *doctree.Node) bool {
	if len(prev.Children) == 0 || len(last.Children) == 0 {
		return false
	}
	head := last.Children[0]
	tail := prev.Children[len(prev.Children)-1]
	return head.Kind == tail.Kind && head.Attrs.Extend && !head.IsLeaf()
}

// coalesceText merges adjacent text nodes carrying identical marks, so a
// paragraph rejoined from an interior split reads as one run again.
func coalesceText(children []*doctree.Node) []*doctree.Node {
	out := children[:0:0]
	for _, c := range children {
		if len(out) > 0 {
			last := out[len(out)-1]
			if last.Kind == doctree.KindText && c.Kind == doctree.KindText && sameMarks(last.Marks, c.Marks) {
				joined := last.CloneShallow()
				joined.Text = last.Text + c.Text
				out[len(out)-1] = joined
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func sameMarks(a, b []doctree.Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
