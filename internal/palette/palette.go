// internal/palette/palette.go
//
// Palette generation for a round.
// Colors are spread evenly around the hue circle; saturation and brightness are
// drawn independently per color so consecutive rounds never look identical.

package palette

import (
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// Saturation and brightness ranges for generated colors.
const (
	minSaturation = 0.70
	maxSaturation = 0.95
	minBrightness = 0.75
	maxBrightness = 0.95
)

// Color is an RGB triple in [0,1]. Two colors match only when every channel is
// bit-identical; there is no tolerance.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Fallback is substituted for decoys when a palette runs out of colors.
var Fallback = Color{R: 0.5, G: 0.5, B: 0.5}

// Hex renders the color as #rrggbb for hosts.
func (c Color) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// GenerateDistinct returns count colors with hue i/count, saturation in
// [0.70, 0.95] and brightness in [0.75, 0.95].
// count <= 0 yields an empty slice.
func GenerateDistinct(rng *rand.Rand, count int) []Color {
	if count <= 0 {
		return []Color{}
	}
	out := make([]Color, count)
	for i := range out {
		hue := float64(i) / float64(count)
		sat := minSaturation + rng.Float64()*(maxSaturation-minSaturation)
		val := minBrightness + rng.Float64()*(maxBrightness-minBrightness)
		c := colorful.Hsv(hue*360, sat, val)
		out[i] = Color{R: c.R, G: c.G, B: c.B}
	}
	return out
}
