package space

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
)

// NebulaShape is the base solid a nebula cloud is built from.
type NebulaShape int

const (
	ShapeIcosahedron NebulaShape = iota
	ShapeSphere
	ShapeOctahedron
)

func (s NebulaShape) String() string {
	switch s {
	case ShapeIcosahedron:
		return "icosahedron"
	case ShapeSphere:
		return "sphere"
	default:
		return "octahedron"
	}
}

// Nebula is a translucent wireframe cloud.
type Nebula struct {
	Shape    NebulaShape
	Mesh     Mesh
	Color    colorful.Color
	Opacity  float64
	Position mgl64.Vec3
	Scale    mgl64.Vec3
	Rotation mgl64.Vec3
	// Age counts frames since the cloud was spawned or last recycled.
	Age int
}

var nebulaPalette = [][3]float64{
	{0.45, 1.0, 0.6},   // cyan
	{0.50, 0.95, 0.65}, // electric blue
	{0.60, 0.9, 0.58},  // deep blue
	{0.70, 0.95, 0.62}, // purple
	{0.75, 1.0, 0.60},  // indigo
	{0.80, 0.95, 0.65}, // magenta
	{0.85, 0.98, 0.62}, // hot magenta
	{0.90, 0.9, 0.65},  // pink
	{0.05, 0.95, 0.62}, // deep pink
	{0.10, 0.9, 0.60},  // ruby
}

// NewNebulae builds count clouds spread through the distance ahead of the
// starting camera.
func NewNebulae(rng Rand, count int) []*Nebula {
	clouds := make([]*Nebula, count)
	for i := range clouds {
		c := nebulaPalette[i%len(nebulaPalette)]
		n := &Nebula{Color: hsl(c[0], c[1], c[2])}

		shape := rng.Float64()
		switch {
		case shape < 0.4:
			n.Shape = ShapeIcosahedron
			n.Mesh = Icosahedron(300+rng.Float64()*400, 3)
		case shape < 0.7:
			n.Shape = ShapeSphere
			n.Mesh = UVSphere(200+rng.Float64()*300, 8, 6)
		default:
			n.Shape = ShapeOctahedron
			n.Mesh = Octahedron(250+rng.Float64()*350, 2)
		}

		n.Opacity = 0.15 + rng.Float64()*0.15
		n.Position = mgl64.Vec3{
			spread(rng, 10000),
			spread(rng, 8000),
			-2000 - rng.Float64()*8000,
		}

		s := 0.3 + rng.Float64()*2.5
		n.Scale = mgl64.Vec3{s, s * (0.4 + rng.Float64()*0.8), s}
		n.Rotation = mgl64.Vec3{
			rng.Float64() * math.Pi,
			rng.Float64() * math.Pi,
			rng.Float64() * math.Pi,
		}
		clouds[i] = n
	}
	return clouds
}
