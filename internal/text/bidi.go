package text

import "golang.org/x/text/unicode/bidi"

// Direction represents text direction
type Direction int

const (
	LeftToRight Direction = iota
	RightToLeft
)

// BidiProcessor handles bidirectional text processing
type BidiProcessor struct{}

// BidiParagraph represents a paragraph with bidirectional text
type BidiParagraph struct {
	Text      string
	Direction Direction
	Runs      []BidiRun
}

// BidiRun represents a run of text with the same direction
type BidiRun struct {
	Text      string
	Direction Direction
}

// NewBidiProcessor creates a new bidirectional text processor
func NewBidiProcessor() *BidiProcessor {
	return &BidiProcessor{}
}

// Process resolves the paragraph's base direction and its ordered runs.
func (p *BidiProcessor) Process(text string) *BidiParagraph {
	para := &BidiParagraph{Text: text, Direction: LeftToRight}
	var bp bidi.Paragraph
	if _, err := bp.SetString(text); err != nil {
		para.Runs = []BidiRun{{Text: text, Direction: LeftToRight}}
		return para
	}
	ordering, err := bp.Order()
	if err != nil {
		para.Runs = []BidiRun{{Text: text, Direction: LeftToRight}}
		return para
	}
	if bp.IsLeftToRight() {
		para.Direction = LeftToRight
	} else {
		para.Direction = RightToLeft
	}
	for i := 0; i < ordering.NumRuns(); i++ {
		run := ordering.Run(i)
		dir := LeftToRight
		if run.Direction() == bidi.RightToLeft {
			dir = RightToLeft
		}
		para.Runs = append(para.Runs, BidiRun{Text: run.String(), Direction: dir})
	}
	return para
}

// IsRTL reports whether the text's resolved base direction is right-to-left.
func (p *BidiProcessor) IsRTL(text string) bool {
	if text == "" {
		return false
	}
	var bp bidi.Paragraph
	if _, err := bp.SetString(text); err != nil {
		return false
	}
	return !bp.IsLeftToRight()
}
