package doctree

import "fmt"

// KindSpec describes what a node kind may contain.
type KindSpec struct {
	Inline  bool
	Leaf    bool
	Content []Kind // allowed child kinds; empty for leaves
}

// Schema is the node-kind registry used to construct and validate nodes.
type Schema struct {
	kinds map[Kind]KindSpec
}

// DefaultSchema covers the closed kind set the engine paginates.
func DefaultSchema() *Schema {
	blocks := []Kind{KindHeading, KindParagraph, KindOrderedList, KindBulletList, KindMarker, KindAtom}
	inline := []Kind{KindText, KindHardBreak, KindAtom, KindMarker}
	return &Schema{kinds: map[Kind]KindSpec{
		KindDoc:         {Content: []Kind{KindPage}},
		KindPage:        {Content: blocks},
		KindHeading:     {Content: inline},
		KindParagraph:   {Content: inline},
		KindOrderedList: {Content: []Kind{KindListItem}},
		KindBulletList:  {Content: []Kind{KindListItem}},
		KindListItem:    {Content: []Kind{KindParagraph, KindHeading, KindOrderedList, KindBulletList}},
		KindText:        {Inline: true, Leaf: true},
		KindHardBreak:   {Inline: true, Leaf: true},
		KindAtom:        {Inline: true, Leaf: true},
		KindMarker:      {Inline: true, Leaf: true},
	}}
}

// Node constructs a node of the given kind with a fresh identity.
func (s *Schema) Node(kind Kind, attrs Attrs, children ...*Node) (*Node, error) {
	spec, ok := s.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("doctree: unknown node kind %q", kind)
	}
	if spec.Leaf && len(children) > 0 {
		return nil, fmt.Errorf("doctree: leaf kind %q cannot have children", kind)
	}
	for _, c := range children {
		if !s.allows(spec, c.Kind) {
			return nil, fmt.Errorf("doctree: kind %q does not allow child %q", kind, c.Kind)
		}
	}
	n := &Node{Kind: kind, Attrs: attrs, Children: children}
	if kind != KindText {
		n.ID = NewID()
	}
	return n, nil
}

// Text constructs a text node with the given marks.
func (s *Schema) Text(text string, marks ...Mark) *Node {
	return &Node{Kind: KindText, Text: text, Marks: marks}
}

func (s *Schema) allows(spec KindSpec, child Kind) bool {
	for _, k := range spec.Content {
		if k == child {
			return true
		}
	}
	return false
}

// Validate walks the tree checking schema conformance and the identity
// invariants (non-empty ids, no duplicate sibling ids, pages only at root).
func (s *Schema) Validate(doc *Node) error {
	if doc.Kind != KindDoc {
		return fmt.Errorf("doctree: root must be %q, got %q", KindDoc, doc.Kind)
	}
	return s.validateNode(doc, nil)
}

func (s *Schema) validateNode(n *Node, parent *Node) error {
	spec, ok := s.kinds[n.Kind]
	if !ok {
		return fmt.Errorf("doctree: unknown node kind %q", n.Kind)
	}
	if n.Kind != KindText && n.ID == "" {
		return fmt.Errorf("doctree: %s node without id", n.Kind)
	}
	if n.Kind == KindPage && (parent == nil || parent.Kind != KindDoc) {
		return fmt.Errorf("doctree: page node must be a direct child of doc")
	}
	seen := make(map[string]bool, len(n.Children))
	for _, c := range n.Children {
		if !spec.Leaf && !s.allows(spec, c.Kind) {
			return fmt.Errorf("doctree: kind %q does not allow child %q", n.Kind, c.Kind)
		}
		if c.ID != "" {
			if seen[c.ID] {
				return fmt.Errorf("doctree: duplicate sibling id %q under %s", c.ID, n.Kind)
			}
			seen[c.ID] = true
		}
		if err := s.validateNode(c, n); err != nil {
			return err
		}
	}
	return nil
}
