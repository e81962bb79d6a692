package text

import "testing"

func TestIsRTL(t *testing.T) {
	p := NewBidiProcessor()
	cases := []struct {
		text string
		want bool
	}{
		{"hello world", false},
		{"שלום עולם", true},
		{"مرحبا", true},
		{"hello שלום", false},
		{"", false},
		{"123", false},
	}
	for _, tc := range cases {
		if got := p.IsRTL(tc.text); got != tc.want {
			t.Errorf("IsRTL(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestProcess_MixedDirection(t *testing.T) {
	p := NewBidiProcessor()
	para := p.Process("abc שלום def")
	if para.Direction != LeftToRight {
		t.Errorf("base direction = %v, want LTR", para.Direction)
	}
	if len(para.Runs) < 3 {
		t.Fatalf("runs = %d, want at least 3", len(para.Runs))
	}
	sawRTL := false
	for _, r := range para.Runs {
		if r.Direction == RightToLeft {
			sawRTL = true
		}
	}
	if !sawRTL {
		t.Error("expected an RTL run in mixed text")
	}
}

func TestProcess_PureLTR(t *testing.T) {
	p := NewBidiProcessor()
	para := p.Process("plain text")
	if para.Direction != LeftToRight || len(para.Runs) != 1 {
		t.Errorf("got direction %v with %d runs", para.Direction, len(para.Runs))
	}
	if para.Runs[0].Text != "plain text" {
		t.Errorf("run text = %q", para.Runs[0].Text)
	}
}
