package parser

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/pageflow/pageflow/internal/doctree"
)

// HTMLParser handles HTML files.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parser: parse html: %w", err)
	}
	schema := doctree.DefaultSchema()
	b := &htmlBuilder{schema: schema}
	b.walk(root)
	b.flushParagraph()
	return singlePageDoc(schema, b.blocks)
}

type htmlBuilder struct {
	schema *doctree.Schema
	blocks []*doctree.Node
	inline []*doctree.Node // pending inline content for an implicit paragraph
}

func (b *htmlBuilder) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "head", "nav":
			return
		case "h1", "h2", "h3", "h4", "h5", "h6":
			b.flushParagraph()
			level := int(n.Data[1] - '0')
			b.appendBlock(doctree.KindHeading, doctree.Attrs{Level: level}, collectInline(b.schema, n, nil))
			return
		case "p", "blockquote":
			b.flushParagraph()
			b.appendBlock(doctree.KindParagraph, doctree.Attrs{}, collectInline(b.schema, n, nil))
			return
		case "ol", "ul":
			b.flushParagraph()
			if list := b.buildList(n); list != nil {
				b.blocks = append(b.blocks, list)
			}
			return
		case "img":
			b.inline = append(b.inline, b.atom(n))
			return
		case "br":
			br, _ := b.schema.Node(doctree.KindHardBreak, doctree.Attrs{})
			b.inline = append(b.inline, br)
			return
		}
	}
	if n.Type == html.TextNode {
		if t := collapseSpace(n.Data); t != "" {
			b.inline = append(b.inline, b.schema.Text(t))
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c)
	}
}

func (b *htmlBuilder) appendBlock(kind doctree.Kind, attrs doctree.Attrs, inline []*doctree.Node) {
	if len(inline) == 0 && kind == doctree.KindHeading {
		return
	}
	node, err := b.schema.Node(kind, attrs, inline...)
	if err == nil {
		b.blocks = append(b.blocks, node)
	}
}

// flushParagraph wraps any loose inline content into an implicit paragraph.
func (b *htmlBuilder) flushParagraph() {
	if len(b.inline) == 0 {
		return
	}
	b.appendBlock(doctree.KindParagraph, doctree.Attrs{}, b.inline)
	b.inline = nil
}

func (b *htmlBuilder) buildList(n *html.Node) *doctree.Node {
	kind := doctree.KindBulletList
	attrs := doctree.Attrs{}
	if n.Data == "ol" {
		kind = doctree.KindOrderedList
		attrs.Start = intAttr(n, "start", 1)
	}
	var items []*doctree.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		var itemBlocks []*doctree.Node
		if inline := collectInline(b.schema, c, nil); len(inline) > 0 {
			para, err := b.schema.Node(doctree.KindParagraph, doctree.Attrs{}, inline...)
			if err == nil {
				itemBlocks = append(itemBlocks, para)
			}
		}
		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			if gc.Type == html.ElementNode && (gc.Data == "ol" || gc.Data == "ul") {
				if nested := b.buildList(gc); nested != nil {
					itemBlocks = append(itemBlocks, nested)
				}
			}
		}
		if len(itemBlocks) == 0 {
			continue
		}
		item, err := b.schema.Node(doctree.KindListItem, doctree.Attrs{}, itemBlocks...)
		if err == nil {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil
	}
	list, err := b.schema.Node(kind, attrs, items...)
	if err != nil {
		return nil
	}
	return list
}

func (b *htmlBuilder) atom(n *html.Node) *doctree.Node {
	attrs := doctree.Attrs{}
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "src":
			attrs.Src = a.Val
		case "alt":
			attrs.Alt = a.Val
		}
	}
	atom, _ := b.schema.Node(doctree.KindAtom, attrs)
	return atom
}

// collectInline flattens the inline content of an element into text runs with
// marks, hard breaks, and atoms, skipping nested block-level elements.
func collectInline(schema *doctree.Schema, n *html.Node, marks []doctree.Mark) []*doctree.Node {
	var out []*doctree.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			if t := collapseSpace(c.Data); t != "" {
				out = append(out, schema.Text(t, marks...))
			}
		case c.Type != html.ElementNode:
		default:
			switch c.Data {
			case "b", "strong":
				out = append(out, collectInline(schema, c, appendMark(marks, doctree.MarkBold))...)
			case "i", "em":
				out = append(out, collectInline(schema, c, appendMark(marks, doctree.MarkItalic))...)
			case "u":
				out = append(out, collectInline(schema, c, appendMark(marks, doctree.MarkUnderline))...)
			case "code":
				out = append(out, collectInline(schema, c, appendMark(marks, doctree.MarkCode))...)
			case "br":
				br, _ := schema.Node(doctree.KindHardBreak, doctree.Attrs{})
				out = append(out, br)
			case "img":
				b := &htmlBuilder{schema: schema}
				out = append(out, b.atom(c))
			case "span", "a", "small", "sub", "sup":
				out = append(out, collectInline(schema, c, marks)...)
			case "ol", "ul", "p", "blockquote":
				// nested blocks handled by the caller
			default:
				out = append(out, collectInline(schema, c, marks)...)
			}
		}
	}
	return out
}

func appendMark(marks []doctree.Mark, m doctree.Mark) []doctree.Mark {
	out := make([]doctree.Mark, len(marks), len(marks)+1)
	copy(out, marks)
	return append(out, m)
}

func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	out := strings.Join(fields, " ")
	if strings.HasPrefix(s, " ") || strings.HasPrefix(s, "\n") || strings.HasPrefix(s, "\t") {
		out = " " + out
	}
	if strings.HasSuffix(s, " ") || strings.HasSuffix(s, "\n") || strings.HasSuffix(s, "\t") {
		out += " "
	}
	if strings.TrimSpace(out) == "" {
		return ""
	}
	return out
}

func intAttr(n *html.Node, key string, def int) int {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			v := 0
			for _, r := range a.Val {
				if r < '0' || r > '9' {
					return def
				}
				v = v*10 + int(r-'0')
			}
			if v > 0 {
				return v
			}
		}
	}
	return def
}
