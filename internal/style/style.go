// Package style resolves the visual properties the measurement oracle and the
// renderer need per node kind. It plays the role a CSS cascade plays in a
// browser-backed host, reduced to the closed kind set the engine paginates.
package style

import (
	"fmt"

	"github.com/pageflow/pageflow/internal/doctree"
)

// TypeStyle is the computed style of one node kind.
type TypeStyle struct {
	FontFamily    string
	FontStyle     string // fpdf style string: "", "B", "I", "BI"
	FontSize      float64 // px
	LineHeight    float64 // multiplier over FontSize
	SpacingBefore float64 // px
	SpacingAfter  float64 // px
	Indent        float64 // px, left indent applied per nesting level
}

// Set maps node kinds to their computed styles plus document-wide values.
type Set struct {
	Base     TypeStyle
	PerKind  map[doctree.Kind]TypeStyle
	Headings map[int]TypeStyle // by heading level
}

// Default mirrors common user-agent values: 16px base with 1.5 line height,
// heading scale 2em/1.5em/1.17em, 1em paragraph spacing, 40px list indent.
func Default() *Set {
	base := TypeStyle{
		FontFamily: "Helvetica",
		FontSize:   16,
		LineHeight: 1.5,
	}
	para := base
	para.SpacingBefore, para.SpacingAfter = 16, 16
	list := base
	list.SpacingBefore, list.SpacingAfter = 16, 16
	list.Indent = 40
	item := base
	marker := base
	marker.FontSize = 10
	marker.SpacingBefore, marker.SpacingAfter = 2, 2

	headings := make(map[int]TypeStyle, 6)
	scales := []struct {
		size   float64
		margin float64
	}{
		{32, 21.4}, // h1: 2em, 0.67em margins
		{24, 18},   // h2: 1.5em, 0.75em
		{18.7, 15.5},
		{16, 17.9},
		{13.3, 24},
		{12, 20},
	}
	for i, s := range scales {
		h := base
		h.FontSize = s.size
		h.FontStyle = "B"
		h.SpacingBefore, h.SpacingAfter = s.margin, s.margin
		headings[i+1] = h
	}

	return &Set{
		Base: base,
		PerKind: map[doctree.Kind]TypeStyle{
			doctree.KindParagraph:   para,
			doctree.KindOrderedList: list,
			doctree.KindBulletList:  list,
			doctree.KindListItem:    item,
			doctree.KindMarker:      marker,
		},
		Headings: headings,
	}
}

// For returns the computed style of a node.
func (s *Set) For(n *doctree.Node) TypeStyle {
	if n.Kind == doctree.KindHeading {
		if h, ok := s.Headings[n.Attrs.Level]; ok {
			return h
		}
		return s.Headings[1]
	}
	if st, ok := s.PerKind[n.Kind]; ok {
		return st
	}
	return s.Base
}

// WithMarks adjusts a style for the marks of a text node.
func (s *Set) WithMarks(st TypeStyle, marks []doctree.Mark) TypeStyle {
	for _, m := range marks {
		switch m {
		case doctree.MarkBold:
			if st.FontStyle != "B" && st.FontStyle != "BI" {
				st.FontStyle += "B"
			}
		case doctree.MarkItalic:
			if st.FontStyle != "I" && st.FontStyle != "BI" {
				st.FontStyle += "I"
			}
		case doctree.MarkCode:
			st.FontFamily = "Courier"
		}
	}
	return st
}

// DefaultLineHeight is the rendered height of one default text line, used to
// decide whether a paragraph needs interior splitting.
func (s *Set) DefaultLineHeight() float64 {
	return s.Base.FontSize * s.Base.LineHeight
}

// Fingerprint identifies the style environment; measurement caches are keyed
// on it and must be flushed entirely when it changes.
func (s *Set) Fingerprint() string {
	return fmt.Sprintf("%s/%.2f/%.2f", s.Base.FontFamily, s.Base.FontSize, s.Base.LineHeight)
}
