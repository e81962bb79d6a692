// Package pdf renders a paginated document tree to a PDF file. Each page
// node becomes one PDF page with the configured margins, header/footer chrome
// and page number. This is an output surface only: all break decisions were
// made by the pagination engine before the tree arrives here.
package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/pageflow/pageflow/internal/doctree"
	"github.com/pageflow/pageflow/internal/res"
	"github.com/pageflow/pageflow/internal/style"
	"github.com/pageflow/pageflow/internal/text"
	"github.com/pageflow/pageflow/internal/unit"
)

// Renderer handles rendering to PDF
type Renderer struct {
	styles *style.Set
	conv   *unit.Converter
	loader *res.Loader
	bidi   *text.BidiProcessor

	// listDepth tracks nesting while rendering list content
	listDepth int
	imageSeq  int
}

// RenderOptions contains options for rendering
type RenderOptions struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string

	PageWidth    float64 // px
	PageHeight   float64 // px
	MarginTop    float64 // px
	MarginRight  float64 // px
	MarginBottom float64 // px
	MarginLeft   float64 // px

	HeaderText      string
	FooterText      string
	ShowPageNumbers bool
	PageNumberAlign string // "L", "C", "R"
}

// NewRenderer creates a new PDF renderer
func NewRenderer(styles *style.Set, conv *unit.Converter, loader *res.Loader) *Renderer {
	return &Renderer{
		styles: styles,
		conv:   conv,
		loader: loader,
		bidi:   text.NewBidiProcessor(),
	}
}

// Render writes the paginated document to a PDF file.
func (r *Renderer) Render(doc *doctree.Node, outputPath string, options RenderOptions) error {
	if doc.Kind != doctree.KindDoc {
		return fmt.Errorf("pdf: render expects a doc root, got %q", doc.Kind)
	}

	wPt := r.pt(options.PageWidth)
	hPt := r.pt(options.PageHeight)
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: wPt, Ht: hPt},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(options.Title, true)
	pdf.SetAuthor(options.Author, true)
	pdf.SetSubject(options.Subject, true)
	pdf.SetKeywords(options.Keywords, true)
	pdf.SetCreator(options.Creator, true)
	pdf.SetProducer(options.Producer, true)

	for _, page := range doc.Children {
		if page.Kind != doctree.KindPage {
			continue
		}
		pdf.AddPage()
		r.renderChrome(pdf, page, options)
		pdf.SetXY(r.pt(options.MarginLeft), r.pt(options.MarginTop))
		contentWidth := options.PageWidth - options.MarginLeft - options.MarginRight
		for _, block := range page.Children {
			r.renderBlock(pdf, block, options.MarginLeft, contentWidth)
		}
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("pdf: write %s: %w", outputPath, err)
	}
	return nil
}

func (r *Renderer) renderChrome(pdf *fpdf.Fpdf, page *doctree.Node, options RenderOptions) {
	chrome := r.styles.Base
	chrome.FontSize = 10
	r.setFont(pdf, chrome)

	if options.HeaderText != "" {
		pdf.SetXY(r.pt(options.MarginLeft), r.pt(options.MarginTop)/2)
		pdf.CellFormat(r.pt(options.PageWidth-options.MarginLeft-options.MarginRight), r.pt(12), options.HeaderText, "", 0, "C", false, 0, "")
	}
	if options.FooterText != "" || options.ShowPageNumbers {
		label := options.FooterText
		if options.ShowPageNumbers {
			if label != "" {
				label += " - "
			}
			label += fmt.Sprintf("%d", page.Attrs.PageNumber)
		}
		align := options.PageNumberAlign
		if align == "" {
			align = "C"
		}
		pdf.SetXY(r.pt(options.MarginLeft), r.pt(options.PageHeight)-r.pt(options.MarginBottom)/2)
		pdf.CellFormat(r.pt(options.PageWidth-options.MarginLeft-options.MarginRight), r.pt(12), label, "", 0, align, false, 0, "")
	}
}

func (r *Renderer) renderBlock(pdf *fpdf.Fpdf, n *doctree.Node, left, width float64) {
	st := r.styles.For(n)
	switch n.Kind {
	case doctree.KindHeading, doctree.KindParagraph:
		pdf.SetY(pdf.GetY() + r.pt(st.SpacingBefore))
		r.renderTextblock(pdf, n, st, left, width)
		pdf.SetY(pdf.GetY() + r.pt(st.SpacingAfter))
	case doctree.KindOrderedList, doctree.KindBulletList:
		pdf.SetY(pdf.GetY() + r.pt(st.SpacingBefore))
		r.renderList(pdf, n, left+st.Indent, width-st.Indent)
		pdf.SetY(pdf.GetY() + r.pt(st.SpacingAfter))
	case doctree.KindMarker:
		pdf.SetY(pdf.GetY() + r.pt(12))
	case doctree.KindAtom:
		r.renderAtom(pdf, n, left, width)
	}
}

func (r *Renderer) renderList(pdf *fpdf.Fpdf, list *doctree.Node, left, width float64) {
	r.listDepth++
	defer func() { r.listDepth-- }()

	counter := 1
	if list.Kind == doctree.KindOrderedList && list.Attrs.Start > 0 {
		counter = list.Attrs.Start
	}
	markerStyle := r.styles.For(list)
	for _, item := range list.Children {
		marker := "•"
		if list.Kind == doctree.KindOrderedList {
			marker = fmt.Sprintf("%d.", counter)
			counter++
		}
		r.setFont(pdf, markerStyle)
		pdf.SetXY(r.pt(left-markerStyle.Indent/2), pdf.GetY())
		pdf.CellFormat(r.pt(markerStyle.Indent/2), r.pt(markerStyle.FontSize*markerStyle.LineHeight), marker, "", 0, "R", false, 0, "")
		for _, block := range item.Children {
			r.renderBlock(pdf, block, left, width)
		}
	}
}

// renderTextblock writes the inline runs of a paragraph or heading, keeping
// mark styling per run. Right-to-left paragraphs are right-aligned.
func (r *Renderer) renderTextblock(pdf *fpdf.Fpdf, n *doctree.Node, st style.TypeStyle, left, width float64) {
	align := "L"
	if r.bidi.IsRTL(n.TextContent()) {
		align = "R"
	}
	lineHt := r.pt(st.FontSize * st.LineHeight)

	var plain strings.Builder
	for _, c := range n.Children {
		switch c.Kind {
		case doctree.KindText:
			plain.WriteString(c.Text)
		case doctree.KindHardBreak:
			plain.WriteByte('\n')
		case doctree.KindAtom:
			if plain.Len() > 0 {
				r.flushRun(pdf, plain.String(), st, left, width, lineHt, align)
				plain.Reset()
			}
			r.renderAtom(pdf, c, left, width)
		}
	}
	if plain.Len() > 0 || len(n.Children) == 0 {
		r.flushRun(pdf, plain.String(), st, left, width, lineHt, align)
	}
}

func (r *Renderer) flushRun(pdf *fpdf.Fpdf, textRun string, st style.TypeStyle, left, width, lineHt float64, align string) {
	r.setFont(pdf, st)
	pdf.SetX(r.pt(left))
	pdf.MultiCell(r.pt(width), lineHt, textRun, "", align, false)
}

func (r *Renderer) renderAtom(pdf *fpdf.Fpdf, n *doctree.Node, left, width float64) {
	if n.Attrs.Src == "" || r.loader == nil {
		return
	}
	resrc, err := r.loader.LoadImage(n.Attrs.Src)
	if err != nil {
		return
	}
	data := resrc.Data
	imgType := imageTypeFor(resrc.MimeType, n.Attrs.Src)
	if imgType == "svg" {
		png, err := rasterizeSVG(data)
		if err != nil {
			return
		}
		data, imgType = png, "png"
	}

	r.imageSeq++
	name := fmt.Sprintf("atom-%d", r.imageSeq)
	info := pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: imgType}, bytes.NewReader(data))
	if info == nil {
		return
	}
	w, h := info.Extent()
	if w > r.pt(width) {
		h *= r.pt(width) / w
		w = r.pt(width)
	}
	pdf.ImageOptions(name, r.pt(left), pdf.GetY(), w, h, true, fpdf.ImageOptions{ImageType: imgType}, 0, "")
}

// rasterizeSVG renders an SVG to PNG bytes so fpdf can embed it.
func rasterizeSVG(data []byte) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	w, h := int(icon.ViewBox.W), int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		w, h = 256, 256
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func imageTypeFor(mimeType, src string) string {
	switch {
	case strings.Contains(mimeType, "svg") || strings.HasSuffix(strings.ToLower(src), ".svg"):
		return "svg"
	case strings.Contains(mimeType, "png"):
		return "png"
	case strings.Contains(mimeType, "jpeg"), strings.Contains(mimeType, "jpg"):
		return "jpg"
	case strings.Contains(mimeType, "gif"):
		return "gif"
	}
	if idx := strings.LastIndex(src, "."); idx >= 0 {
		return strings.ToLower(src[idx+1:])
	}
	return "png"
}

func (r *Renderer) setFont(pdf *fpdf.Fpdf, st style.TypeStyle) {
	pdf.SetFont(st.FontFamily, st.FontStyle, r.pt(st.FontSize))
}

func (r *Renderer) pt(px float64) float64 {
	pt, _ := r.conv.FromPixels(px, unit.Pt)
	return pt
}
