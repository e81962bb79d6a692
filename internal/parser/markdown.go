package parser

import (
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/pageflow/pageflow/internal/doctree"
)

// MarkdownParser handles Markdown files using goldmark.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Node, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	schema := doctree.DefaultSchema()
	var blocks []*doctree.Node
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if b := mdBlock(schema, n, src); b != nil {
			blocks = append(blocks, b)
		}
	}
	return singlePageDoc(schema, blocks)
}

func mdBlock(schema *doctree.Schema, n ast.Node, src []byte) *doctree.Node {
	switch node := n.(type) {
	case *ast.Heading:
		h, err := schema.Node(doctree.KindHeading, doctree.Attrs{Level: node.Level}, mdInline(schema, node, src, nil)...)
		if err != nil {
			return nil
		}
		return h
	case *ast.Paragraph, *ast.TextBlock:
		inline := mdInline(schema, n, src, nil)
		if len(inline) == 0 {
			return nil
		}
		para, err := schema.Node(doctree.KindParagraph, doctree.Attrs{}, inline...)
		if err != nil {
			return nil
		}
		return para
	case *ast.List:
		kind := doctree.KindBulletList
		attrs := doctree.Attrs{}
		if node.IsOrdered() {
			kind = doctree.KindOrderedList
			attrs.Start = node.Start
			if attrs.Start <= 0 {
				attrs.Start = 1
			}
		}
		var items []*doctree.Node
		for li := node.FirstChild(); li != nil; li = li.NextSibling() {
			var itemBlocks []*doctree.Node
			for c := li.FirstChild(); c != nil; c = c.NextSibling() {
				if b := mdBlock(schema, c, src); b != nil {
					itemBlocks = append(itemBlocks, b)
				}
			}
			if len(itemBlocks) == 0 {
				continue
			}
			item, err := schema.Node(doctree.KindListItem, doctree.Attrs{}, itemBlocks...)
			if err == nil {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			return nil
		}
		list, err := schema.Node(kind, attrs, items...)
		if err != nil {
			return nil
		}
		return list
	default:
		// other block kinds (code fences, thematic breaks) flatten to plain
		// paragraphs so their text still paginates
		if t := string(n.Text(src)); t != "" {
			para, err := schema.Node(doctree.KindParagraph, doctree.Attrs{}, schema.Text(t))
			if err == nil {
				return para
			}
		}
	}
	return nil
}

func mdInline(schema *doctree.Schema, n ast.Node, src []byte, marks []doctree.Mark) []*doctree.Node {
	var out []*doctree.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			t := string(node.Segment.Value(src))
			if t != "" {
				out = append(out, schema.Text(t, marks...))
			}
			if node.SoftLineBreak() {
				out = append(out, schema.Text(" ", marks...))
			}
			if node.HardLineBreak() {
				br, _ := schema.Node(doctree.KindHardBreak, doctree.Attrs{})
				out = append(out, br)
			}
		case *ast.Emphasis:
			m := doctree.MarkItalic
			if node.Level >= 2 {
				m = doctree.MarkBold
			}
			out = append(out, mdInline(schema, c, src, appendMark(marks, m))...)
		case *ast.CodeSpan:
			out = append(out, schema.Text(string(c.Text(src)), appendMark(marks, doctree.MarkCode)...))
		case *ast.Image:
			atom, _ := schema.Node(doctree.KindAtom, doctree.Attrs{Src: string(node.Destination)})
			out = append(out, atom)
		case *ast.Link:
			out = append(out, mdInline(schema, c, src, marks)...)
		default:
			if c.HasChildren() {
				out = append(out, mdInline(schema, c, src, marks)...)
			} else if t := string(c.Text(src)); t != "" {
				out = append(out, schema.Text(t, marks...))
			}
		}
	}
	return out
}
