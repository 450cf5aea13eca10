package palette

import (
	"math/rand"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestGenerateDistinctEmpty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{0, -3} {
		if got := GenerateDistinct(rng, n); len(got) != 0 {
			t.Errorf("GenerateDistinct(%d) returned %d colors, want 0", n, len(got))
		}
	}
}

func TestGenerateDistinctRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const n = 90
	colors := GenerateDistinct(rng, n)
	if len(colors) != n {
		t.Fatalf("got %d colors, want %d", len(colors), n)
	}
	const eps = 1e-6
	for i, c := range colors {
		h, s, v := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsv()
		wantHue := float64(i) / n * 360
		if diff := h - wantHue; diff > 1e-3 || diff < -1e-3 {
			t.Errorf("color %d: hue = %.4f, want %.4f", i, h, wantHue)
		}
		if s < minSaturation-eps || s > maxSaturation+eps {
			t.Errorf("color %d: saturation %.4f out of range", i, s)
		}
		if v < minBrightness-eps || v > maxBrightness+eps {
			t.Errorf("color %d: brightness %.4f out of range", i, v)
		}
	}
}

func TestGenerateDistinctReproducible(t *testing.T) {
	a := GenerateDistinct(rand.New(rand.NewSource(7)), 25)
	b := GenerateDistinct(rand.New(rand.NewSource(7)), 25)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("color %d differs for the same seed: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestHex(t *testing.T) {
	if got := (Color{R: 1, G: 0, B: 0}).Hex(); got != "#ff0000" {
		t.Errorf("Hex() = %q, want #ff0000", got)
	}
	if got := Fallback.Hex(); got != "#808080" {
		t.Errorf("Fallback.Hex() = %q, want #808080", got)
	}
}
