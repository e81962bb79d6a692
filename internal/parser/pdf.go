package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/pageflow/pageflow/internal/doctree"
)

// PDFParser extracts the text of a PDF so it can be re-flowed against a new
// page geometry. Only plain text survives; the source layout does not.
type PDFParser struct{}

func (p *PDFParser) Parse(r io.Reader, filename string) (*doctree.Node, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so spool to a temp file.
	tmp, err := os.CreateTemp("", "pageflow-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("parser: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("parser: write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("parser: open pdf: %w", err)
	}
	defer f.Close()

	schema := doctree.DefaultSchema()
	var blocks []*doctree.Node
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		for _, para := range splitParagraphs(text) {
			pn, err := schema.Node(doctree.KindParagraph, doctree.Attrs{}, schema.Text(para))
			if err == nil {
				blocks = append(blocks, pn)
			}
		}
	}
	return singlePageDoc(schema, blocks)
}

func splitParagraphs(text string) []string {
	var out []string
	for _, chunk := range strings.Split(text, "\n\n") {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			out = append(out, strings.Join(strings.Fields(chunk), " "))
		}
	}
	return out
}
