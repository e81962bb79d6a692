// Package parser converts source documents into the pageable tree. Every
// parser produces a doc with a single page holding the document's blocks;
// pagination then reflows it against the configured budget.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pageflow/pageflow/internal/doctree"
)

// Parser converts raw document bytes into a single-page document tree.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.Node, error)
}

// SupportedExtensions lists the file extensions this module can ingest.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	}
	return nil, fmt.Errorf("parser: unsupported file extension on %q", filename)
}

// IsSupportedExtension checks whether a filename can be ingested.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// singlePageDoc wraps blocks in one page under a doc root.
func singlePageDoc(schema *doctree.Schema, blocks []*doctree.Node) (*doctree.Node, error) {
	if len(blocks) == 0 {
		para, err := schema.Node(doctree.KindParagraph, doctree.Attrs{})
		if err != nil {
			return nil, err
		}
		blocks = []*doctree.Node{para}
	}
	page, err := schema.Node(doctree.KindPage, doctree.Attrs{PageNumber: 1}, blocks...)
	if err != nil {
		return nil, err
	}
	return schema.Node(doctree.KindDoc, doctree.Attrs{}, page)
}
