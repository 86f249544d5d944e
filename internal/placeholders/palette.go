package placeholders

import (
	"hash/fnv"
	"image/color"
	"math/rand/v2"
)

// Palette is the 16-colour palette shared by every placeholder image.
// Index 0 is the transparent/background colour on the target hardware.
var Palette = color.Palette{
	color.RGBA{0, 0, 0, 255},       // Background
	color.RGBA{255, 0, 0, 255},     // Red
	color.RGBA{0, 255, 0, 255},     // Green
	color.RGBA{0, 0, 255, 255},     // Blue
	color.RGBA{255, 255, 0, 255},   // Yellow
	color.RGBA{255, 0, 255, 255},   // Magenta
	color.RGBA{0, 255, 255, 255},   // Cyan
	color.RGBA{255, 128, 0, 255},   // Orange
	color.RGBA{128, 0, 255, 255},   // Violet
	color.RGBA{0, 128, 255, 255},   // Azure
	color.RGBA{128, 255, 0, 255},   // Lime
	color.RGBA{255, 0, 128, 255},   // Rose
	color.RGBA{0, 255, 128, 255},   // Spring green
	color.RGBA{128, 0, 128, 255},   // Purple
	color.RGBA{128, 128, 0, 255},   // Olive
	color.RGBA{128, 128, 128, 255}, // Gray
}

// seededRand returns a generator whose stream depends only on seed
func seededRand(seed string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	sum := h.Sum64()
	return rand.New(rand.NewPCG(sum, sum^0x9e3779b97f4a7c15))
}

// PickColorIndex returns a palette index in [1, 15] derived from seed.
// The background index 0 is never returned.
func PickColorIndex(seed string) uint8 {
	return uint8(seededRand(seed).IntN(len(Palette)-1) + 1)
}
