package multiview

import (
	"testing"
	"time"

	"github.com/gogpu/multiview/layout"
)

func TestDPRResolve(t *testing.T) {
	tests := []struct {
		name        string
		dpr         DPR
		device      float64
		performance float64
		want        float64
	}{
		{"fixed", FixedDPR(0.5), 3, 1, 0.5},
		{"fixed with performance", FixedDPR(2), 1, 0.5, 1},
		{"range clamps high", RangeDPR(1, 2), 3, 1, 2},
		{"range clamps low", RangeDPR(1, 2), 0.75, 1, 1},
		{"range passes through", RangeDPR(0.5, 1), 0.75, 1, 0.75},
		{"range with performance", RangeDPR(1, 2), 3, 0.5, 1},
		{"undetected device", RangeDPR(1, 3), 0, 1, 2},
		{"undetected performance", RangeDPR(1, 2), 1.5, 0, 1.5},
		{"swapped range", RangeDPR(2, 1), 3, 1, 2},
		{"unset follows device", DPR{}, 1.25, 1, 1.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dpr.Resolve(tt.device, tt.performance); got != tt.want {
				t.Errorf("%v.Resolve(%v, %v) = %v, want %v", tt.dpr, tt.device, tt.performance, got, tt.want)
			}
		})
	}
}

func TestDPRRangeStaysInBounds(t *testing.T) {
	d := RangeDPR(0.5, 1)
	for _, device := range []float64{-1, 0, 0.1, 0.5, 0.9, 1, 2, 4} {
		for _, p := range []float64{0.1, 0.5, 1} {
			got := d.Resolve(device, p)
			if got < 0.5*p || got > 1*p {
				t.Errorf("Resolve(%v, %v) = %v, outside [%v, %v]", device, p, got, 0.5*p, p)
			}
		}
	}
}

func TestDPRFromLayout(t *testing.T) {
	tests := []struct {
		in   layout.Ratio
		want DPR
	}{
		{layout.Ratio{}, DPR{}},
		{layout.Ratio{Min: 0.5, Max: 0.5, Set: true}, FixedDPR(0.5)},
		{layout.Ratio{Min: 1, Max: 2, Set: true}, RangeDPR(1, 2)},
	}
	for _, tt := range tests {
		if got := DPRFromLayout(tt.in); got != tt.want {
			t.Errorf("DPRFromLayout(%+v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDPRString(t *testing.T) {
	if got := FixedDPR(0.5).String(); got != "0.5" {
		t.Errorf("String() = %q", got)
	}
	if got := RangeDPR(1, 2).String(); got != "[1, 2]" {
		t.Errorf("String() = %q", got)
	}
	if got := (DPR{}).String(); got != "auto" {
		t.Errorf("String() = %q", got)
	}
}

func TestPerformance(t *testing.T) {
	start := time.Unix(0, 0)
	p := NewPerformance(0.1, 1, 200*time.Millisecond)

	if got := p.Current(start); got != 1 {
		t.Errorf("initial Current() = %v, want 1", got)
	}

	p.Regress(start)
	if got := p.Current(start.Add(100 * time.Millisecond)); got != 0.1 {
		t.Errorf("Current() during debounce = %v, want 0.1", got)
	}

	// A second regression extends the debounce window.
	p.Regress(start.Add(150 * time.Millisecond))
	if got := p.Current(start.Add(300 * time.Millisecond)); got != 0.1 {
		t.Errorf("Current() after renewed regression = %v, want 0.1", got)
	}
	if got := p.Current(start.Add(400 * time.Millisecond)); got != 1 {
		t.Errorf("Current() after debounce = %v, want 1", got)
	}
}

func TestNewPerformanceClamps(t *testing.T) {
	p := NewPerformance(2, -1, time.Second)
	lo, hi := p.Bounds()
	if lo != 0.1 || hi != 1 {
		t.Errorf("Bounds() = %v, %v, want 0.1, 1", lo, hi)
	}
}
