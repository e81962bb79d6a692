package api

import (
	"fmt"
	"math"

	"github.com/pageflow/pageflow/internal/unit"
)

// Length is a configuration value with an explicit unit.
type Length struct {
	Value float64
	Unit  unit.Unit
}

// Px is a convenience constructor for pixel lengths.
func Px(v float64) Length { return Length{Value: v, Unit: unit.Px} }

// Mm is a convenience constructor for millimeter lengths.
func Mm(v float64) Length { return Length{Value: v, Unit: unit.Mm} }

// Pt is a convenience constructor for point lengths.
func Pt(v float64) Length { return Length{Value: v, Unit: unit.Pt} }

// In is a convenience constructor for inch lengths.
func In(v float64) Length { return Length{Value: v, Unit: unit.In} }

// PageNumberAlign positions the page number inside the footer band.
type PageNumberAlign string

const (
	PageNumberLeft   PageNumberAlign = "L"
	PageNumberCenter PageNumberAlign = "C"
	PageNumberRight  PageNumberAlign = "R"
)

// Options represents the configuration of the paginator. All values are
// consumed once at initialization; changing them requires a new paginator
// (and a reflow of any existing document).
type Options struct {
	// Page dimensions
	PageWidth  Length
	PageHeight Length

	// Page margins
	MarginTop    Length
	MarginRight  Length
	MarginBottom Length
	MarginLeft   Length

	// Heights reserved for page chrome inside the margins
	HeaderHeight Length
	FooterHeight Length

	// Block spacing
	ParagraphSpacingBefore Length
	ParagraphSpacingAfter  Length

	// Page number display
	ShowPageNumbers bool
	PageNumberAlign PageNumberAlign

	// Header/footer text rendered on every page
	HeaderText string
	FooterText string

	// Measurement basis
	DPI float64

	// Base typography
	FontFamily string
	FontSize   float64 // px
	LineHeight float64 // multiplier

	// Upper bound on split passes per reflow
	MaxPasses int

	// Resource search paths for images referenced by atoms
	ResourcePaths []string

	// Document metadata for PDF export
	Title    string
	Author   string
	Subject  string
	Keywords string
}

// Option is a function that modifies Options
type Option func(*Options)

// DefaultOptions returns the default options: A4 at 96 DPI with one-inch
// margins and user-agent-like typography.
func DefaultOptions() Options {
	return Options{
		PageWidth:  Mm(210),
		PageHeight: Mm(297),

		MarginTop:    In(1),
		MarginRight:  In(1),
		MarginBottom: In(1),
		MarginLeft:   In(1),

		HeaderHeight: Px(0),
		FooterHeight: Px(0),

		ParagraphSpacingBefore: Px(16),
		ParagraphSpacingAfter:  Px(16),

		ShowPageNumbers: true,
		PageNumberAlign: PageNumberCenter,

		DPI: unit.DefaultDPI,

		FontFamily: "Helvetica",
		FontSize:   16,
		LineHeight: 1.5,
	}
}

// Validate rejects a configuration no pagination pass may run with.
func (o *Options) Validate() error {
	conv := unit.NewConverter(o.DPI)
	w, err := pixels(conv, o.PageWidth)
	if err != nil {
		return fmt.Errorf("api: page width: %w", err)
	}
	h, err := pixels(conv, o.PageHeight)
	if err != nil {
		return fmt.Errorf("api: page height: %w", err)
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("api: page dimensions must be positive, got %.2fx%.2f px", w, h)
	}
	for name, l := range map[string]Length{
		"margin-top": o.MarginTop, "margin-right": o.MarginRight,
		"margin-bottom": o.MarginBottom, "margin-left": o.MarginLeft,
		"header-height": o.HeaderHeight, "footer-height": o.FooterHeight,
	} {
		v, err := pixels(conv, l)
		if err != nil {
			return fmt.Errorf("api: %s: %w", name, err)
		}
		if v < 0 {
			return fmt.Errorf("api: %s must not be negative", name)
		}
	}
	if budget, _ := o.contentHeight(conv); budget <= 0 {
		return fmt.Errorf("api: margins and reserved heights leave no content area")
	}
	return nil
}

func pixels(conv *unit.Converter, l Length) (float64, error) {
	if math.IsNaN(l.Value) || math.IsInf(l.Value, 0) {
		return 0, fmt.Errorf("value %v is not a number", l.Value)
	}
	return conv.ToPixels(l.Value, l.Unit)
}

func (o *Options) contentHeight(conv *unit.Converter) (float64, error) {
	h, err := pixels(conv, o.PageHeight)
	if err != nil {
		return 0, err
	}
	for _, l := range []Length{o.MarginTop, o.MarginBottom, o.HeaderHeight, o.FooterHeight} {
		v, err := pixels(conv, l)
		if err != nil {
			return 0, err
		}
		h -= v
	}
	return h, nil
}

func (o *Options) contentWidth(conv *unit.Converter) (float64, error) {
	w, err := pixels(conv, o.PageWidth)
	if err != nil {
		return 0, err
	}
	for _, l := range []Length{o.MarginLeft, o.MarginRight} {
		v, err := pixels(conv, l)
		if err != nil {
			return 0, err
		}
		w -= v
	}
	return w, nil
}

// WithPageSize sets the page size
func WithPageSize(width, height Length) Option {
	return func(o *Options) {
		o.PageWidth = width
		o.PageHeight = height
	}
}

// WithMargins sets the page margins
func WithMargins(top, right, bottom, left Length) Option {
	return func(o *Options) {
		o.MarginTop = top
		o.MarginRight = right
		o.MarginBottom = bottom
		o.MarginLeft = left
	}
}

// WithHeaderFooter reserves chrome heights and sets the chrome text
func WithHeaderFooter(headerHeight, footerHeight Length, headerText, footerText string) Option {
	return func(o *Options) {
		o.HeaderHeight = headerHeight
		o.FooterHeight = footerHeight
		o.HeaderText = headerText
		o.FooterText = footerText
	}
}

// WithParagraphSpacing sets the spacing before and after paragraphs
func WithParagraphSpacing(before, after Length) Option {
	return func(o *Options) {
		o.ParagraphSpacingBefore = before
		o.ParagraphSpacingAfter = after
	}
}

// WithPageNumbers toggles and positions the page number display
func WithPageNumbers(show bool, align PageNumberAlign) Option {
	return func(o *Options) {
		o.ShowPageNumbers = show
		o.PageNumberAlign = align
	}
}

// WithDPI sets the measurement basis
func WithDPI(dpi float64) Option {
	return func(o *Options) {
		o.DPI = dpi
	}
}

// WithTypography sets the base font family, size and line height
func WithTypography(family string, sizePx, lineHeight float64) Option {
	return func(o *Options) {
		o.FontFamily = family
		o.FontSize = sizePx
		o.LineHeight = lineHeight
	}
}

// WithResourcePath adds a path to search for resources
func WithResourcePath(path string) Option {
	return func(o *Options) {
		o.ResourcePaths = append(o.ResourcePaths, path)
	}
}

// WithTitle sets the document title
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithAuthor sets the document author
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// Standard page sizes.
var (
	PageSizeA4     = [2]Length{Mm(210), Mm(297)}
	PageSizeA5     = [2]Length{Mm(148), Mm(210)}
	PageSizeLetter = [2]Length{In(8.5), In(11)}
	PageSizeLegal  = [2]Length{In(8.5), In(14)}
)

// WithPageSizeA4 sets the page size to A4
func WithPageSizeA4() Option {
	return WithPageSize(PageSizeA4[0], PageSizeA4[1])
}

// WithPageSizeLetter sets the page size to US Letter
func WithPageSizeLetter() Option {
	return WithPageSize(PageSizeLetter[0], PageSizeLetter[1])
}

// WithPageSizeLegal sets the page size to US Legal
func WithPageSizeLegal() Option {
	return WithPageSize(PageSizeLegal[0], PageSizeLegal[1])
}
