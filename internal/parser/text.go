package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/pageflow/pageflow/internal/doctree"
)

// TextParser handles plain text files: blank lines separate paragraphs.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Node, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	schema := doctree.DefaultSchema()
	var blocks []*doctree.Node
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		para, err := schema.Node(doctree.KindParagraph, doctree.Attrs{}, schema.Text(current.String()))
		if err == nil {
			blocks = append(blocks, para)
		}
		current.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(strings.TrimSpace(line))
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return singlePageDoc(schema, blocks)
}
