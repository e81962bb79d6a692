package doctree

import "fmt"

// MapEntry records one structural replacement for position mapping.
type MapEntry struct {
	Start   int
	OldSize int
	NewSize int
}

// Mapping maps positions across the structural changes of a transaction, in
// the order the changes were applied.
type Mapping struct {
	entries []MapEntry
}

// Map translates a pre-change position to its post-change equivalent.
// Positions inside a replaced range are clamped to the end of the
// replacement.
func (m *Mapping) Map(pos int) int {
	for _, e := range m.entries {
		switch {
		case pos <= e.Start:
		case pos >= e.Start+e.OldSize:
			pos += e.NewSize - e.OldSize
		default:
			pos = e.Start + e.NewSize
		}
	}
	return pos
}

func (m *Mapping) record(start, oldSize, newSize int) {
	m.entries = append(m.entries, MapEntry{Start: start, OldSize: oldSize, NewSize: newSize})
}

// Transaction accumulates structural changes against a document, producing a
// new tree per step. Untouched subtrees are shared between the old and new
// trees; only the spine from each change to the root is rebuilt.
type Transaction struct {
	doc     *Node
	before  *Node
	mapping Mapping
	steps   int
}

// NewTransaction starts a transaction over doc.
func NewTransaction(doc *Node) *Transaction {
	return &Transaction{doc: doc, before: doc}
}

// Doc is the current document, reflecting all applied steps.
func (t *Transaction) Doc() *Node { return t.doc }

// Before is the document the transaction started from.
func (t *Transaction) Before() *Node { return t.before }

// Changed reports whether any step was applied.
func (t *Transaction) Changed() bool { return t.steps > 0 }

// Steps is the number of applied steps.
func (t *Transaction) Steps() int { return t.steps }

// Mapping maps positions across everything applied so far.
func (t *Transaction) Mapping() *Mapping { return &t.mapping }

// boundary resolves pos and checks it sits exactly at a node boundary.
func (t *Transaction) boundary(pos int) (*Resolved, error) {
	r, err := Resolve(t.doc, pos)
	if err != nil {
		return nil, err
	}
	if r.TextOffset() != 0 {
		return nil, fmt.Errorf("doctree: position %d is not at a node boundary", pos)
	}
	return r, nil
}

// rebuildSpine replaces the children of the innermost node on r's path and
// rebuilds every ancestor up to a new doc root.
func rebuildSpine(r *Resolved, newChildren []*Node) *Node {
	node := r.Parent().CloneShallow()
	node.Children = newChildren
	for d := len(r.Path) - 2; d >= 0; d-- {
		entry := r.Path[d]
		parent := entry.Node.CloneShallow()
		kids := make([]*Node, len(entry.Node.Children))
		copy(kids, entry.Node.Children)
		kids[entry.Index] = node
		parent.Children = kids
		node = parent
	}
	return node
}

// ReplaceNodes replaces count consecutive siblings starting at the node whose
// open token is at pos with the given replacements (which may be empty).
func (t *Transaction) ReplaceNodes(pos, count int, repl ...*Node) error {
	r, err := t.boundary(pos)
	if err != nil {
		return err
	}
	parent := r.Parent()
	idx := r.Path[len(r.Path)-1].Index
	if idx+count > len(parent.Children) {
		return fmt.Errorf("doctree: replace of %d nodes at %d exceeds parent content", count, pos)
	}
	oldSize := 0
	for _, c := range parent.Children[idx : idx+count] {
		oldSize += c.NodeSize()
	}
	newSize := 0
	for _, c := range repl {
		newSize += c.NodeSize()
	}
	kids := make([]*Node, 0, len(parent.Children)-count+len(repl))
	kids = append(kids, parent.Children[:idx]...)
	kids = append(kids, repl...)
	kids = append(kids, parent.Children[idx+count:]...)
	t.doc = rebuildSpine(r, kids)
	t.mapping.record(pos, oldSize, newSize)
	t.steps++
	return nil
}

// InsertAt inserts nodes at a content boundary position.
func (t *Transaction) InsertAt(pos int, nodes ...*Node) error {
	return t.ReplaceNodes(pos, 0, nodes...)
}

// DeleteNode removes the node whose open token is at pos.
func (t *Transaction) DeleteNode(pos int) error {
	return t.ReplaceNodes(pos, 1)
}

// SetAttrs replaces the attributes of the node at pos. Attribute changes do
// not affect position mapping.
func (t *Transaction) SetAttrs(pos int, attrs Attrs) error {
	return t.updateNode(pos, func(n *Node) { n.Attrs = attrs })
}

// SetID regenerates the identity of the node at pos.
func (t *Transaction) SetID(pos int, id string) error {
	return t.updateNode(pos, func(n *Node) { n.ID = id })
}

func (t *Transaction) updateNode(pos int, mutate func(*Node)) error {
	r, err := t.boundary(pos)
	if err != nil {
		return err
	}
	parent := r.Parent()
	idx := r.Path[len(r.Path)-1].Index
	if idx >= len(parent.Children) {
		return fmt.Errorf("doctree: no node at position %d", pos)
	}
	node := parent.Children[idx].CloneShallow()
	mutate(node)
	kids := make([]*Node, len(parent.Children))
	copy(kids, parent.Children)
	kids[idx] = node
	t.doc = rebuildSpine(r, kids)
	t.steps++
	return nil
}
