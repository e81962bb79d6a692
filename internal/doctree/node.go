package doctree

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// Kind identifies the structural role of a node.
type Kind string

const (
	KindDoc         Kind = "doc"
	KindPage        Kind = "page"
	KindHeading     Kind = "heading"
	KindParagraph   Kind = "paragraph"
	KindOrderedList Kind = "orderedList"
	KindBulletList  Kind = "bulletList"
	KindListItem    Kind = "listItem"
	KindText        Kind = "text"
	KindHardBreak   Kind = "hardBreak"
	KindAtom        Kind = "atom"
	KindMarker      Kind = "marker"
)

// Mark is a formatting annotation carried by text nodes.
type Mark string

const (
	MarkBold      Mark = "bold"
	MarkItalic    Mark = "italic"
	MarkUnderline Mark = "underline"
	MarkCode      Mark = "code"
)

// Attrs holds the kind-specific scalars a node may carry. Only the fields
// relevant to the node's kind are meaningful.
type Attrs struct {
	// PageNumber is set on page nodes.
	PageNumber int
	// Extend marks a node as the machine-generated continuation half of a
	// split. It never appears on the first content produced for an identity.
	Extend bool
	// Start is the starting sequence number of an ordered list.
	Start int
	// Level is the heading level (1..6).
	Level int
	// Src and Alt describe an atom that references an external resource.
	Src string
	Alt string
}

// Node is one structural unit of the document tree.
type Node struct {
	Kind     Kind
	ID       string
	Attrs    Attrs
	Marks    []Mark
	Text     string
	Children []*Node
}

// NewID returns a fresh node identity.
func NewID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand never fails on supported platforms; keep the node usable anyway
		return "node-0000"
	}
	return hex.EncodeToString(b[:])
}

// IsLeaf reports whether the node can never have children.
func (n *Node) IsLeaf() bool {
	switch n.Kind {
	case KindText, KindHardBreak, KindAtom, KindMarker:
		return true
	}
	return false
}

// IsTextblock reports whether the node holds inline content directly.
func (n *Node) IsTextblock() bool {
	return n.Kind == KindParagraph || n.Kind == KindHeading
}

// NodeSize is the number of linear positions the node occupies: one per rune
// for text, one for other leaves, and 2+content for everything else (an open
// and a close token around the children).
func (n *Node) NodeSize() int {
	switch {
	case n.Kind == KindText:
		return utf8.RuneCountInString(n.Text)
	case n.IsLeaf():
		return 1
	default:
		return 2 + n.ContentSize()
	}
}

// ContentSize is the combined size of the node's children.
func (n *Node) ContentSize() int {
	total := 0
	for _, c := range n.Children {
		total += c.NodeSize()
	}
	return total
}

// CloneShallow copies the node header; the children slice is shared.
func (n *Node) CloneShallow() *Node {
	cp := *n
	return &cp
}

// TextContent concatenates all text beneath the node in document order.
func (n *Node) TextContent() string {
	var b strings.Builder
	n.appendText(&b)
	return b.String()
}

func (n *Node) appendText(b *strings.Builder) {
	if n.Kind == KindText {
		b.WriteString(n.Text)
		return
	}
	for _, c := range n.Children {
		c.appendText(b)
	}
}

// FlatText renders the node's direct content as a flat string in which every
// linear position maps to exactly one rune: text contributes its runes,
// hard breaks a newline and other leaves an object-replacement rune. The
// text-break search indexes into this string with content offsets.
func (n *Node) FlatText() string {
	var b strings.Builder
	for _, c := range n.Children {
		switch c.Kind {
		case KindText:
			b.WriteString(c.Text)
		case KindHardBreak:
			b.WriteByte('\n')
		default:
			b.WriteRune('￼')
		}
	}
	return b.String()
}

// HasMark reports whether the text node carries the given mark.
func (n *Node) HasMark(m Mark) bool {
	for _, mm := range n.Marks {
		if mm == m {
			return true
		}
	}
	return false
}

// CutContent returns the nodes spanning content positions [from, to) relative
// to the start of children. Nodes fully inside the range are shared by
// reference; nodes straddling an edge are partially copied.
func CutContent(children []*Node, from, to int) []*Node {
	var out []*Node
	pos := 0
	for _, c := range children {
		size := c.NodeSize()
		end := pos + size
		switch {
		case end <= from || pos >= to:
			// outside the range
		case pos >= from && end <= to:
			out = append(out, c)
		case c.Kind == KindText:
			r := []rune(c.Text)
			s, e := from-pos, to-pos
			if s < 0 {
				s = 0
			}
			if e > len(r) {
				e = len(r)
			}
			if e > s {
				nc := c.CloneShallow()
				nc.Text = string(r[s:e])
				out = append(out, nc)
			}
		case !c.IsLeaf():
			// recurse into the straddled node, offsetting past its open token
			innerFrom, innerTo := from-pos-1, to-pos-1
			if innerFrom < 0 {
				innerFrom = 0
			}
			if innerTo > c.ContentSize() {
				innerTo = c.ContentSize()
			}
			nc := c.CloneShallow()
			nc.Children = CutContent(c.Children, innerFrom, innerTo)
			out = append(out, nc)
		}
		pos = end
	}
	return out
}

// ContentEmpty reports whether the node holds no text and no leaf content.
func (n *Node) ContentEmpty() bool {
	if n.Kind == KindText {
		return n.Text == ""
	}
	if n.IsLeaf() {
		return false
	}
	for _, c := range n.Children {
		if !c.ContentEmpty() {
			return false
		}
	}
	return true
}
