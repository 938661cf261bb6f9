package space

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	starFieldExtent = 7000.0
	// StarPointSize is the base rendered size of a star before its per-point scale.
	StarPointSize = 2.5
)

// PointCloud is a set of individually coloured and sized points in an
// object's local space.
type PointCloud struct {
	Positions []mgl64.Vec3
	Colors    []colorful.Color
	Sizes     []float64
}

// Len returns the number of points.
func (p PointCloud) Len() int {
	return len(p.Positions)
}

func newPointCloud(n int) PointCloud {
	return PointCloud{
		Positions: make([]mgl64.Vec3, n),
		Colors:    make([]colorful.Color, n),
		Sizes:     make([]float64, n),
	}
}

// StarLayer is one recyclable slab of background stars.
type StarLayer struct {
	Points   PointCloud
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	Opacity  float64
}

// Star colour buckets, selected by cumulative probability.
var starPalette = []struct {
	below float64
	color colorful.Color
}{
	{0.65, colorful.Color{R: 1, G: 1, B: 1}},
	{0.82, colorful.Color{R: 0.6, G: 0.85, B: 1}},
	{0.95, colorful.Color{R: 1, G: 0.92, B: 0.6}},
	{1.00, colorful.Color{R: 1, G: 0.5, B: 0.7}},
}

// NewStarLayer scatters count stars uniformly through a cube centred on the
// layer's origin.
func NewStarLayer(rng Rand, count int) *StarLayer {
	pts := newPointCloud(count)
	for i := range count {
		pts.Positions[i] = mgl64.Vec3{
			spread(rng, starFieldExtent),
			spread(rng, starFieldExtent),
			spread(rng, starFieldExtent),
		}

		pick := rng.Float64()
		for _, bucket := range starPalette {
			if pick < bucket.below {
				pts.Colors[i] = bucket.color
				break
			}
		}

		pts.Sizes[i] = rng.Float64()*2 + 0.8
	}
	return &StarLayer{Points: pts, Opacity: 0.95}
}
