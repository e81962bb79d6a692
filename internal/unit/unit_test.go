package unit

import (
	"math"
	"testing"
)

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestToPixels(t *testing.T) {
	c := NewConverter(96)
	cases := []struct {
		value float64
		unit  Unit
		want  float64
	}{
		{100, Px, 100},
		{25.4, Mm, 96},
		{72, Pt, 96},
		{1, In, 96},
		{100, "", 100},
	}
	for _, tc := range cases {
		got, err := c.ToPixels(tc.value, tc.unit)
		if err != nil {
			t.Errorf("ToPixels(%v %s): %v", tc.value, tc.unit, err)
			continue
		}
		if !almost(got, tc.want) {
			t.Errorf("ToPixels(%v %s) = %v, want %v", tc.value, tc.unit, got, tc.want)
		}
	}
}

func TestFromPixels_RoundTrip(t *testing.T) {
	c := NewConverter(144)
	for _, u := range []Unit{Px, Mm, Pt, In} {
		px, err := c.ToPixels(12.5, u)
		if err != nil {
			t.Fatalf("%s: %v", u, err)
		}
		back, err := c.FromPixels(px, u)
		if err != nil {
			t.Fatalf("%s: %v", u, err)
		}
		if !almost(back, 12.5) {
			t.Errorf("%s round trip = %v, want 12.5", u, back)
		}
	}
}

func TestUnsupportedUnit(t *testing.T) {
	c := NewConverter(96)
	if _, err := c.ToPixels(1, Unit("em")); err == nil {
		t.Error("unsupported unit should fail")
	}
	if _, err := c.FromPixels(1, Unit("em")); err == nil {
		t.Error("unsupported unit should fail")
	}
}

func TestDefaultDPIFallback(t *testing.T) {
	if got := NewConverter(0).DPI(); got != DefaultDPI {
		t.Errorf("DPI = %v, want %v", got, DefaultDPI)
	}
	if got := NewConverter(-72).DPI(); got != DefaultDPI {
		t.Errorf("DPI = %v, want %v", got, DefaultDPI)
	}
}
