// Package api is the public surface of the pagination engine. A Paginator
// owns the measurement oracle, the computed styles and the reflow engine for
// one page geometry; documents flow through it as doctree values.
package api

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pageflow/pageflow/internal/doctree"
	"github.com/pageflow/pageflow/internal/measure"
	"github.com/pageflow/pageflow/internal/pagination"
	"github.com/pageflow/pageflow/internal/parser"
	"github.com/pageflow/pageflow/internal/render/pdf"
	"github.com/pageflow/pageflow/internal/res"
	"github.com/pageflow/pageflow/internal/style"
	"github.com/pageflow/pageflow/internal/unit"
)

// Node is the document tree node flowing through the paginator.
type Node = doctree.Node

// Edit describes the edit that triggered a recomputation.
type Edit = pagination.Edit

// Transaction is the recorded result of one reflow.
type Transaction = doctree.Transaction

// Paginator splits live documents into pages of a fixed geometry.
type Paginator struct {
	options Options
	conv    *unit.Converter
	styles  *style.Set
	oracle  *measure.FontOracle
	engine  *pagination.Engine
	loader  *res.Loader

	contentWidth  float64 // px
	contentHeight float64 // px
}

// New creates a paginator with default options
func New() (*Paginator, error) {
	return NewWithOptions(DefaultOptions())
}

// NewWith creates a paginator from default options modified by opts
func NewWith(opts ...Option) (*Paginator, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return NewWithOptions(options)
}

// NewWithOptions creates a paginator with the specified options
func NewWithOptions(options Options) (*Paginator, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	conv := unit.NewConverter(options.DPI)

	width, err := options.contentWidth(conv)
	if err != nil {
		return nil, err
	}
	height, err := options.contentHeight(conv)
	if err != nil {
		return nil, err
	}

	styles := style.Default()
	styles.Base.FontFamily = options.FontFamily
	if options.FontSize > 0 {
		styles.Base.FontSize = options.FontSize
	}
	if options.LineHeight > 0 {
		styles.Base.LineHeight = options.LineHeight
	}
	para := styles.PerKind[doctree.KindParagraph]
	if before, err := pixels(conv, options.ParagraphSpacingBefore); err == nil {
		para.SpacingBefore = before
	}
	if after, err := pixels(conv, options.ParagraphSpacingAfter); err == nil {
		para.SpacingAfter = after
	}
	styles.PerKind[doctree.KindParagraph] = para

	loader := res.NewLoader("")
	for _, p := range options.ResourcePaths {
		loader.AddSearchPath(p)
	}

	oracle := measure.NewFontOracle(width, styles, conv, measure.NewImageSizer(loader))
	engine := pagination.NewEngine(oracle, styles, pagination.Options{
		Budget:            height,
		DefaultLineHeight: styles.DefaultLineHeight(),
		MaxPasses:         options.MaxPasses,
	})

	return &Paginator{
		options:       options,
		conv:          conv,
		styles:        styles,
		oracle:        oracle,
		engine:        engine,
		loader:        loader,
		contentWidth:  width,
		contentHeight: height,
	}, nil
}

// Options returns a copy of the paginator's configuration.
func (p *Paginator) Options() Options { return p.options }

// ContentBudget returns the usable content height of one page in px.
func (p *Paginator) ContentBudget() float64 { return p.contentHeight }

// ContentWidth returns the usable content width of one page in px.
func (p *Paginator) ContentWidth() float64 { return p.contentWidth }

// ApplyEdit recomputes pagination after an edit and returns the transaction
// holding the new document and the position mapping.
func (p *Paginator) ApplyEdit(doc *Node, edit Edit) (*Transaction, error) {
	return p.engine.ApplyEdit(doc, edit)
}

// Reflow repaginates a document from scratch, as after loading it or after
// changing options that affect measurement.
func (p *Paginator) Reflow(doc *Node) (*Transaction, error) {
	return p.engine.Reflow(doc)
}

// InvalidateMeasurements drops cached measurements. Call after anything that
// changes text metrics out of band, then Reflow.
func (p *Paginator) InvalidateMeasurements() {
	p.oracle.Invalidate()
}

// Load reads a source document from r, using the extension of filename to
// pick the ingestion format, and returns it paginated.
func (p *Paginator) Load(r io.Reader, filename string) (*Node, error) {
	prs, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	doc, err := prs.Parse(r, filename)
	if err != nil {
		return nil, fmt.Errorf("api: parse %s: %w", filepath.Base(filename), err)
	}
	tx, err := p.engine.Reflow(doc)
	if err != nil {
		return nil, err
	}
	return tx.Doc(), nil
}

// LoadURL fetches a source document over http(s), from a data URL or from a
// local path, and paginates it. The ingestion format comes from the URL
// path's extension, falling back to the served MIME type. Fetched documents
// are cached per URL for the paginator's lifetime.
func (p *Paginator) LoadURL(urlStr string) (*Node, error) {
	src, err := p.loader.LoadDocument(urlStr)
	if err != nil {
		return nil, err
	}
	return p.Load(bytes.NewReader(src.Data), documentName(urlStr, src.MimeType))
}

// documentName derives a filename for format dispatch from a document URL,
// consulting the MIME type when the path carries no usable extension.
func documentName(urlStr, mimeType string) string {
	if u, err := url.Parse(urlStr); err == nil && u.Path != "" {
		if base := path.Base(u.Path); parser.IsSupportedExtension(base) {
			return base
		}
	}
	switch {
	case strings.Contains(mimeType, "text/html"):
		return "document.html"
	case strings.Contains(mimeType, "markdown"):
		return "document.md"
	case strings.Contains(mimeType, "application/pdf"):
		return "document.pdf"
	case strings.Contains(mimeType, "wordprocessingml"):
		return "document.docx"
	default:
		return "document.txt"
	}
}

// LoadFile reads and paginates a source document from inputPath.
func (p *Paginator) LoadFile(inputPath string) (*Node, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("api: open %s: %w", inputPath, err)
	}
	defer f.Close()
	return p.Load(f, inputPath)
}

// RenderPDF writes the paginated document to outputPath as a PDF.
func (p *Paginator) RenderPDF(doc *Node, outputPath string) error {
	pageW, err := pixels(p.conv, p.options.PageWidth)
	if err != nil {
		return err
	}
	pageH, err := pixels(p.conv, p.options.PageHeight)
	if err != nil {
		return err
	}
	top, _ := pixels(p.conv, p.options.MarginTop)
	right, _ := pixels(p.conv, p.options.MarginRight)
	bottom, _ := pixels(p.conv, p.options.MarginBottom)
	left, _ := pixels(p.conv, p.options.MarginLeft)

	renderer := pdf.NewRenderer(p.styles, p.conv, p.loader)
	return renderer.Render(doc, outputPath, pdf.RenderOptions{
		Title:    p.options.Title,
		Author:   p.options.Author,
		Subject:  p.options.Subject,
		Keywords: p.options.Keywords,

		PageWidth:    pageW,
		PageHeight:   pageH,
		MarginTop:    top,
		MarginRight:  right,
		MarginBottom: bottom,
		MarginLeft:   left,

		HeaderText:      p.options.HeaderText,
		FooterText:      p.options.FooterText,
		ShowPageNumbers: p.options.ShowPageNumbers,
		PageNumberAlign: string(p.options.PageNumberAlign),
	})
}

// ConvertFile paginates the document at inputPath and writes it to
// outputPath as a PDF.
func (p *Paginator) ConvertFile(inputPath, outputPath string) error {
	doc, err := p.LoadFile(inputPath)
	if err != nil {
		return err
	}
	return p.RenderPDF(doc, outputPath)
}
