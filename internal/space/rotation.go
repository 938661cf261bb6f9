package space

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PatternKind names a galaxy spin behaviour.
type PatternKind int

const (
	PatternSteady PatternKind = iota
	PatternFastSpinner
	PatternComplex
	PatternWandering
	PatternBarrelRoll
	PatternGentleSway
	PatternDefault
)

// namedPatterns is the set a new galaxy draws from. PatternDefault is only
// used for kinds outside this set.
var namedPatterns = []PatternKind{
	PatternSteady,
	PatternFastSpinner,
	PatternComplex,
	PatternWandering,
	PatternBarrelRoll,
	PatternGentleSway,
}

func (k PatternKind) String() string {
	switch k {
	case PatternSteady:
		return "steady"
	case PatternFastSpinner:
		return "fast_spinner"
	case PatternComplex:
		return "complex"
	case PatternWandering:
		return "wandering"
	case PatternBarrelRoll:
		return "barrel_roll"
	case PatternGentleSway:
		return "gentle_sway"
	default:
		return "default"
	}
}

// RotationPattern holds everything the update loop needs to spin a galaxy.
type RotationPattern struct {
	Kind PatternKind
	// Speeds is the per-axis angular speed in radians per frame.
	Speeds mgl64.Vec3
	// Strength weights each axis' contribution.
	Strength mgl64.Vec3
	// TimeOffset decorrelates the speed oscillation between galaxies.
	TimeOffset     float64
	Wobble         float64
	SpeedVariation float64
}

// NewRotationPattern picks one of the named kinds uniformly and fills in its
// randomized parameters.
func NewRotationPattern(rng Rand) RotationPattern {
	return newPatternOfKind(rng, namedPatterns[rng.Intn(len(namedPatterns))])
}

func newPatternOfKind(rng Rand, kind PatternKind) RotationPattern {
	jitter := func(base, factor float64) float64 {
		return (rng.Float64() - 0.5) * base * factor
	}
	uniform := func(base, factor float64) mgl64.Vec3 {
		return mgl64.Vec3{jitter(base, factor), jitter(base, factor), jitter(base, factor)}
	}

	p := RotationPattern{Kind: kind}
	switch kind {
	case PatternSteady:
		p.Speeds = uniform(0.0001, 1)
		p.Strength = mgl64.Vec3{0.3, 0.3, 0.4}

	case PatternFastSpinner:
		const base = 0.0008
		dominant := rng.Intn(3)
		p.Strength = mgl64.Vec3{0.1, 0.1, 0.1}
		for axis := range 3 {
			if axis == dominant {
				p.Speeds[axis] = base
			} else {
				p.Speeds[axis] = jitter(base, 0.2)
			}
		}
		p.Strength[dominant] = 0.8

	case PatternComplex:
		p.Speeds = uniform(0.0003, 1.5)
		p.Strength = mgl64.Vec3{0.4, 0.3, 0.3}

	case PatternWandering:
		p.Speeds = uniform(0.0002, 1)
		p.Strength = mgl64.Vec3{0.25, 0.25, 0.5}

	case PatternBarrelRoll:
		const base = 0.0006
		roll := rng.Intn(2) // x or y
		for axis := range 2 {
			if axis == roll {
				p.Speeds[axis] = base
			} else {
				p.Speeds[axis] = jitter(base, 0.1)
			}
		}
		p.Speeds[2] = jitter(base, 0.1)
		p.Strength = mgl64.Vec3{0.05, 0.05, 0.9}
		p.Strength[roll] = 0.8

	case PatternGentleSway:
		p.Speeds = uniform(0.00005, 1)
		p.Strength = mgl64.Vec3{0.2, 0.3, 0.5}

	default:
		p.Kind = PatternDefault
		p.Speeds = uniform(0.0002, 1)
		p.Strength = mgl64.Vec3{0.33, 0.33, 0.34}
	}

	p.TimeOffset = rng.Float64() * 1000
	p.Wobble = rng.Float64() * 0.0001
	p.SpeedVariation = 0.1 + rng.Float64()*0.3
	return p
}

// Delta returns the rotation to add this frame at time t (frames) with the
// travel speed normalized to [0,1].
func (p RotationPattern) Delta(t, speedFactor float64) mgl64.Vec3 {
	tv := (t + p.TimeOffset) * 0.001
	mult := 1 + math.Sin(tv)*p.SpeedVariation
	wobble := mgl64.Vec3{
		math.Sin(tv*0.7) * p.Wobble,
		math.Cos(tv*0.5) * p.Wobble,
		math.Sin(tv*0.3) * p.Wobble,
	}
	boost := speedFactor * 0.0001

	var d mgl64.Vec3
	for axis := range 3 {
		d[axis] = p.Speeds[axis]*p.Strength[axis]*mult + wobble[axis] + boost*p.Strength[axis]
	}
	return d
}
