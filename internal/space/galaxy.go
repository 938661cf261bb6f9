package space

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// GalaxyShape selects the point distribution of a galaxy.
type GalaxyShape int

const (
	Spiral GalaxyShape = iota
	Elliptical
	Irregular
)

func (s GalaxyShape) String() string {
	switch s {
	case Spiral:
		return "spiral"
	case Elliptical:
		return "elliptical"
	default:
		return "irregular"
	}
}

const (
	// GalaxyPointSize and GlowPointSize are the base rendered sizes of a
	// galaxy's body points and its halo points; PointCloud.Sizes scale them.
	GalaxyPointSize = 4.0
	GlowPointSize   = 8.0
	// GlowOpacity scales the halo relative to the galaxy body.
	GlowOpacity = 0.3

	glowFraction = 0.1
	glowSpread   = 1.2

	// maxVerticalCompression bounds the elliptical y-axis squash.
	maxVerticalCompression = 0.7
)

// Galaxy is a large point cloud with a halo and its own spin behaviour.
type Galaxy struct {
	Shape    GalaxyShape
	Radius   float64
	Points   PointCloud
	Glow     PointCloud
	Pattern  RotationPattern
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	Scale    float64
	Opacity  float64
	// Age counts frames since the galaxy was spawned or last recycled.
	Age int
}

type colorScheme struct {
	hue, saturation, lightness float64
}

func pickColorScheme(rng Rand) colorScheme {
	schemes := []colorScheme{
		{rng.Float64() * 0.2, 0.9, 0.6},
		{0.3 + rng.Float64()*0.2, 0.95, 0.65},
		{0.6 + rng.Float64()*0.15, 0.9, 0.62},
		{0.75 + rng.Float64()*0.2, 0.98, 0.65},
		{0.9 + rng.Float64()*0.1, 0.85, 0.6},
	}
	return schemes[rng.Intn(len(schemes))]
}

// NewGalaxy generates a galaxy of count points within the given radius. The
// colour scheme and shape are chosen once and apply to every point.
func NewGalaxy(rng Rand, count int, radius float64) *Galaxy {
	scheme := pickColorScheme(rng)

	var shape GalaxyShape
	switch pick := rng.Float64(); {
	case pick < 0.33:
		shape = Spiral
	case pick < 0.66:
		shape = Elliptical
	default:
		shape = Irregular
	}

	coreThickness := radius * 0.4
	armThickness := radius * 0.15
	haloThickness := radius * 0.6

	pts := newPointCloud(count)
	for i := range count {
		var x, y, z, brightness, thickness float64
		size := 1.0

		switch shape {
		case Spiral:
			angle := rng.Float64() * 2 * math.Pi
			dist := math.Pow(rng.Float64(), 0.35) * radius
			arms := 2 + rng.Float64()*1.5
			twist := (dist / radius) * math.Pi * 8 * arms

			x = math.Cos(angle+twist) * dist
			z = math.Sin(angle+twist) * dist

			if dist < radius*0.3 {
				thickness, size = coreThickness, 1.5
			} else {
				thickness, size = armThickness, 1.0
			}
			if rng.Float64() < 0.1 {
				thickness, size = haloThickness, 0.7
			}

			y = (rng.Float64() - 0.5) * thickness
			brightness = 1 - (dist/radius)*0.4

		case Elliptical:
			theta := rng.Float64() * 2 * math.Pi
			phi := math.Acos(2*rng.Float64() - 1)
			r := math.Pow(rng.Float64(), 0.6) * radius
			squash := 0.3 + rng.Float64()*(maxVerticalCompression-0.3)

			x = r * math.Sin(phi) * math.Cos(theta)
			z = r * math.Sin(phi) * math.Sin(theta)
			y = r * math.Cos(phi) * squash

			brightness = 1 - (r/radius)*0.5
			size = 1.2

		default:
			angle := rng.Float64() * 2 * math.Pi
			dist := rng.Float64() * radius
			chaos := math.Sin(angle*3) * math.Cos(angle*5) * 0.3
			waveX := math.Sin(dist/radius*math.Pi) * radius * 0.4

			x = math.Cos(angle)*dist + waveX + chaos*radius
			z = math.Sin(angle)*dist + math.Sin(angle*7)*radius*0.3

			thickness = coreThickness * (0.3 + rng.Float64()*0.7)
			y = (rng.Float64() - 0.5) * thickness

			brightness = 1 - (dist/radius)*0.35
		}

		pts.Positions[i] = mgl64.Vec3{x, y, z}

		// Points without a thickness of their own dim against the core.
		dimBase := thickness
		if dimBase == 0 {
			dimBase = coreThickness
		}
		hue := scheme.hue + (rng.Float64()-0.5)*0.08
		sat := scheme.saturation + (rng.Float64()-0.5)*0.15
		verticalDimming := 1 - (math.Abs(y)/dimBase)*0.3
		light := scheme.lightness*brightness*verticalDimming + (rng.Float64()-0.5)*0.12

		pts.Colors[i] = hsl(hue, math.Max(0.25, sat), clamp(light, 0.25, 0.9))
		pts.Sizes[i] = size
	}

	return &Galaxy{
		Shape:   shape,
		Radius:  radius,
		Points:  pts,
		Glow:    newGlow(rng, pts),
		Opacity: 1,
	}
}

// newGlow samples existing points, pushes them outward and reuses their
// colours. Glow points are drawn at GlowPointSize.
func newGlow(rng Rand, body PointCloud) PointCloud {
	n := int(math.Floor(float64(body.Len()) * glowFraction))
	glow := newPointCloud(n)
	for i := range n {
		idx := rng.Intn(body.Len())
		glow.Positions[i] = body.Positions[idx].Mul(glowSpread)
		glow.Colors[i] = body.Colors[idx]
		glow.Sizes[i] = 1
	}
	return glow
}
