package doctree

import "fmt"

// PathEntry is one ancestor level in a resolved position.
type PathEntry struct {
	Node   *Node // the ancestor
	Index  int   // index of the child the position falls in (or before)
	Start  int   // absolute position where the ancestor's content starts
	Offset int   // offset of the position inside the child at Index; 0 at a boundary
}

// Resolved is a position resolved to its ancestor path. Path[0] is the doc;
// the last entry is the innermost node whose content contains the position.
type Resolved struct {
	Pos  int
	Path []PathEntry
}

// Depth is the number of ancestor levels below the doc.
func (r *Resolved) Depth() int { return len(r.Path) - 1 }

// Parent is the innermost node whose content contains the position.
func (r *Resolved) Parent() *Node { return r.Path[len(r.Path)-1].Node }

// Entry returns the path entry at the given depth (0 = doc).
func (r *Resolved) Entry(depth int) PathEntry { return r.Path[depth] }

// TextOffset is the rune offset of the position inside the leaf it falls in,
// or 0 when the position sits at a node boundary.
func (r *Resolved) TextOffset() int { return r.Path[len(r.Path)-1].Offset }

// Resolve maps a linear position to its ancestor path within doc.
func Resolve(doc *Node, pos int) (*Resolved, error) {
	if doc.Kind != KindDoc {
		return nil, fmt.Errorf("doctree: resolve against non-doc node %q", doc.Kind)
	}
	if pos < 0 || pos > doc.ContentSize() {
		return nil, fmt.Errorf("doctree: position %d out of range 0..%d", pos, doc.ContentSize())
	}
	r := &Resolved{Pos: pos}
	node, start := doc, 0
	for {
		rel := pos - start
		cur, idx, off := 0, len(node.Children), 0
		var child *Node
		for i, c := range node.Children {
			size := c.NodeSize()
			if cur+size > rel {
				idx, off, child = i, rel-cur, c
				break
			}
			cur += size
		}
		r.Path = append(r.Path, PathEntry{Node: node, Index: idx, Start: start, Offset: off})
		if child == nil || off == 0 || child.IsLeaf() {
			return r, nil
		}
		node, start = child, start+cur+1
	}
}

// Descendants walks every descendant of doc in depth-first pre-order,
// reporting its absolute position and parent. Returning false from fn skips
// the node's children; the walk itself continues with the next sibling.
func Descendants(doc *Node, fn func(n *Node, pos int, parent *Node) bool) {
	walkChildren(doc, 0, fn)
}

func walkChildren(parent *Node, contentStart int, fn func(n *Node, pos int, parent *Node) bool) {
	pos := contentStart
	for _, c := range parent.Children {
		if fn(c, pos, parent) && !c.IsLeaf() {
			walkChildren(c, pos+1, fn)
		}
		pos += c.NodeSize()
	}
}

// NodeAt returns the node whose open token sits exactly at pos.
func NodeAt(doc *Node, pos int) *Node {
	var found *Node
	Descendants(doc, func(n *Node, p int, _ *Node) bool {
		if found != nil {
			return false
		}
		if p == pos {
			found = n
			return false
		}
		return p < pos && pos < p+n.NodeSize()
	})
	return found
}

// LastPage returns the last page of the doc with its position and index, or
// nil when the doc has no pages.
func LastPage(doc *Node) (*Node, int, int) {
	if len(doc.Children) == 0 {
		return nil, 0, -1
	}
	pos := 0
	for _, c := range doc.Children[:len(doc.Children)-1] {
		pos += c.NodeSize()
	}
	idx := len(doc.Children) - 1
	return doc.Children[idx], pos, idx
}
