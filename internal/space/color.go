package space

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// hsl converts hue/saturation/lightness in [0,1] to an RGB colour. Hue wraps
// around; saturation and lightness are clamped.
func hsl(h, s, l float64) colorful.Color {
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	return colorful.Hsl(h*360, clamp(s, 0, 1), clamp(l, 0, 1)).Clamped()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
