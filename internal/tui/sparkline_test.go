package tui

import (
	"slices"
	"testing"
	"unicode/utf8"
)

func TestRingBuffer_PushAndSlice(t *testing.T) {
	t.Parallel()
	rb := NewRingBuffer(3)
	if rb.Slice() != nil || rb.Last() != 0 {
		t.Fatal("empty buffer should have no samples")
	}

	for _, v := range []float64{1, 2, 3, 4, 5} {
		rb.Push(v)
	}
	if got := rb.Slice(); !slices.Equal(got, []float64{3, 4, 5}) {
		t.Errorf("Slice() = %v, want [3 4 5]", got)
	}
	if rb.Len() != 3 || rb.Cap() != 3 || rb.Last() != 5 {
		t.Errorf("Len=%d Cap=%d Last=%v", rb.Len(), rb.Cap(), rb.Last())
	}
}

func TestRingBuffer_Resize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		newCap int
		want   []float64
	}{
		{"grow keeps everything", 8, []float64{1, 2, 3, 4}},
		{"shrink keeps newest", 2, []float64{3, 4}},
		{"same capacity is a no-op", 4, []float64{1, 2, 3, 4}},
		{"zero becomes one", 0, []float64{4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rb := NewRingBuffer(4)
			for _, v := range []float64{1, 2, 3, 4} {
				rb.Push(v)
			}
			rb.Resize(tt.newCap)
			if got := rb.Slice(); !slices.Equal(got, tt.want) {
				t.Errorf("Slice() after Resize(%d) = %v, want %v", tt.newCap, got, tt.want)
			}
		})
	}
}

func TestNewRingBuffer_ZeroCapacity(t *testing.T) {
	t.Parallel()
	rb := NewRingBuffer(0)
	rb.Push(7)
	if rb.Cap() != 1 || rb.Last() != 7 {
		t.Errorf("Cap=%d Last=%v, want 1 and 7", rb.Cap(), rb.Last())
	}
}

func TestRenderSparkline(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{"empty", nil, ""},
		{"all zero", []float64{0, 0}, "▁▁"},
		{"all max", []float64{100, 100}, "██"},
		{"clamped", []float64{-10, 150}, "▁█"},
		{"gradient", []float64{0, 50, 100}, "▁▄█"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RenderSparkline(tt.values); got != tt.want {
				t.Errorf("RenderSparkline(%v) = %q, want %q", tt.values, got, tt.want)
			}
		})
	}
}

func TestRenderBrailleChart(t *testing.T) {
	t.Parallel()

	if RenderBrailleChart(nil, 4, 2) != nil || RenderBrailleChart([]float64{1}, 0, 2) != nil {
		t.Error("empty input or zero size should render nothing")
	}

	lines := RenderBrailleChart([]float64{0, 100}, 3, 2)
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	for i, l := range lines {
		if n := utf8.RuneCountInString(l); n != 3 {
			t.Errorf("row %d has %d cells, want 3", i, n)
		}
	}
	// Two samples occupy the rightmost cell: 100 at the top, 0 at the bottom.
	top := []rune(lines[0])[2]
	bottom := []rune(lines[1])[2]
	if top&brailleDots[1][0] == 0 {
		t.Errorf("expected the 100%% dot in the top-right cell, got %U", top)
	}
	if bottom&brailleDots[0][3] == 0 {
		t.Errorf("expected the 0%% dot in the bottom-right cell, got %U", bottom)
	}
	if []rune(lines[0])[0] != 0x2800 {
		t.Error("leftmost cells should stay blank")
	}
}

func TestRenderBrailleChart_KeepsNewest(t *testing.T) {
	t.Parallel()
	values := make([]float64, 50)
	values[len(values)-1] = 100
	lines := RenderBrailleChart(values, 2, 1)
	last := []rune(lines[0])[1]
	if last&brailleDots[1][0] == 0 {
		t.Errorf("newest sample should be plotted at the right edge, got %U", last)
	}
}
