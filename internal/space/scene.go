package space

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxSpeed bounds the travel speed in units per frame.
	MaxSpeed     = 100.0
	InitialSpeed = 0.5
	// ResetThreshold is the camera depth beyond which the whole scene is
	// shifted back toward the origin.
	ResetThreshold = 100000.0
	// FadeInFrames is how long a spawned object takes to reach its target
	// opacity.
	FadeInFrames = 200
	// GalaxyOpacity and NebulaOpacity are the fully faded-in opacities.
	GalaxyOpacity = 0.8
	NebulaOpacity = 0.3
	// DiagnosticInterval is the number of frames between diagnostic summaries.
	DiagnosticInterval = 500

	fineAccel   = 0.05
	coarseAccel = 0.7

	baseFogDensity = 0.0008
	cameraDrift    = 350.0

	starRecycleBehind   = -5000.0
	starRespawnAhead    = 8000.0
	starRespawnSpacing  = 4000.0
	galaxyRecycleBehind = -3000.0
	galaxyRespawnAhead  = 6000.0
	galaxyRespawnRange  = 8000.0
	galaxyVisibleAhead  = 10000.0
	nebulaRecycleBehind = -7000.0
	nebulaRespawnAhead  = 5000.0
	nebulaRespawnRange  = 10000.0
)

// Keys maps a key identifier to whether it is currently held.
type Keys map[string]bool

// Config sizes the generated scene.
type Config struct {
	StarLayers    int
	StarsPerLayer int
	Nebulae       int
	Galaxies      int
	GalaxyPoints  int
	GalaxyRadius  float64
}

// DefaultConfig returns the full-size scene.
func DefaultConfig() Config {
	return Config{
		StarLayers:    4,
		StarsPerLayer: 25000,
		Nebulae:       15,
		Galaxies:      8,
		GalaxyPoints:  100000,
		GalaxyRadius:  500,
	}
}

// Report summarizes one Step for the caller's readouts.
type Report struct {
	Frame    int
	Speed    float64
	Distance float64
	// GalaxiesAhead counts galaxies between the recycle boundary and the
	// visible horizon.
	GalaxiesAhead int
	// Reset is set when the scene was shifted back to the origin this frame.
	Reset bool
	// Diagnostic is set on frames that emitted a diagnostic summary.
	Diagnostic bool
}

// LightYears converts travelled distance to the unit shown on the readout.
func (r Report) LightYears() int {
	return int(math.Floor(r.Distance / 100))
}

// Scene holds every object of the space flight and advances it one frame at a
// time. It is not safe for concurrent use; a single loop owns it.
type Scene struct {
	Camera   Camera
	Stars    []*StarLayer
	Nebulae  []*Nebula
	Galaxies []*Galaxy

	Speed      float64
	Distance   float64
	Frame      int
	FogDensity float64

	rng            Rand
	logger         *slog.Logger
	lastDiagnostic int
}

// New generates a scene. All random draws, including those made later by
// Step, come from rng.
func New(rng Rand, cfg Config, logger *slog.Logger) *Scene {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scene{
		Camera:     newCamera(),
		Speed:      InitialSpeed,
		FogDensity: baseFogDensity,
		rng:        rng,
		logger:     logger.With("component", "space"),
	}

	for i := range cfg.StarLayers {
		layer := NewStarLayer(rng, cfg.StarsPerLayer)
		layer.Position[2] = 500 + float64(i)*2000
		s.Stars = append(s.Stars, layer)
	}

	s.Nebulae = NewNebulae(rng, cfg.Nebulae)

	for i := range cfg.Galaxies {
		g := NewGalaxy(rng, cfg.GalaxyPoints, cfg.GalaxyRadius)
		g.Position = mgl64.Vec3{
			spread(rng, 4000),
			spread(rng, 3000),
			500 + float64(i)*10000,
		}
		g.Rotation = mgl64.Vec3{
			rng.Float64() * math.Pi,
			rng.Float64() * math.Pi,
			rng.Float64() * math.Pi,
		}
		g.Scale = 1.5 + rng.Float64()*2
		g.Pattern = NewRotationPattern(rng)
		s.Galaxies = append(s.Galaxies, g)
	}

	s.logger.Debug("Scene generated",
		"star_layers", len(s.Stars),
		"nebulae", len(s.Nebulae),
		"galaxies", len(s.Galaxies),
	)
	return s
}

// SpeedFactor returns the travel speed normalized to [0,1].
func (s *Scene) SpeedFactor() float64 {
	return s.Speed / MaxSpeed
}

// Step advances the scene by one frame using the given held-key state.
func (s *Scene) Step(keys Keys) Report {
	s.Frame++
	t := float64(s.Frame)
	var report Report

	s.adjustSpeed(keys)

	s.Distance += s.Speed
	s.Camera.Position[2] += s.Speed
	if s.Camera.Position[2] > ResetThreshold {
		s.Reset()
		report.Reset = true
	}

	f := s.SpeedFactor()
	s.FogDensity = baseFogDensity + f*0.002
	for _, layer := range s.Stars {
		layer.Opacity = 0.95 - f*0.15
	}
	for _, n := range s.Nebulae {
		if n.Opacity < 0.4 {
			n.Opacity = math.Min(0.4, n.Opacity+f*0.02)
		}
	}

	s.driftCamera(t)

	for _, layer := range s.Stars {
		layer.Rotation[1] += 0.00005 + f*0.00005
		layer.Rotation[0] += 0.00002 + f*0.00002
	}
	for i, n := range s.Nebulae {
		n.Rotation[2] += 0.00002 + f*0.00003
		n.Rotation[0] += 0.00001 + f*0.00001
		n.Position[1] += math.Sin(t*0.0001+float64(i)) * 0.05
	}
	for _, g := range s.Galaxies {
		g.Rotation = g.Rotation.Add(g.Pattern.Delta(t, f))
	}

	report.GalaxiesAhead = s.recycle()

	if s.Frame-s.lastDiagnostic > DiagnosticInterval {
		s.lastDiagnostic = s.Frame
		report.Diagnostic = true
		s.logger.Info("Flight status",
			"distance_ly", int(math.Floor(s.Distance/100)),
			"speed", math.Round(s.Speed*10)/10,
			"galaxies_ahead", report.GalaxiesAhead,
		)
	}

	report.Frame = s.Frame
	report.Speed = s.Speed
	report.Distance = s.Distance
	return report
}

func (s *Scene) adjustSpeed(keys Keys) {
	if keys["w"] {
		s.Speed += fineAccel
	}
	if keys["s"] {
		s.Speed -= fineAccel
	}
	if keys["e"] {
		s.Speed += coarseAccel
	}
	if keys["d"] {
		s.Speed -= coarseAccel
	}
	if s.rng.Float64() > 0.997 {
		s.Speed += (s.rng.Float64() - 0.5) * 0.2
	}
	s.Speed = clamp(s.Speed, 0, MaxSpeed)
}

// driftCamera moves the camera along a slow wandering path and derives its
// orientation from that path.
func (s *Scene) driftCamera(t float64) {
	c := &s.Camera
	c.Position[0] = math.Sin(t*0.0002)*cameraDrift + math.Sin(t*0.00008)*cameraDrift*0.3
	c.Position[1] = math.Cos(t*0.00012)*cameraDrift*0.6 + math.Cos(t*0.00006)*cameraDrift*0.3

	c.Rotation[1] = math.Pi + c.Position[0]*0.0003
	c.Rotation[2] = math.Sin(t*0.00006)*0.15 + math.Sin(t*0.00002)*0.05
	c.Rotation[0] = c.Position[1] * 0.0002
}

// Reset shifts every object back by the camera's depth and puts the camera
// at depth zero. Relative depths are unchanged. It returns the shift applied.
func (s *Scene) Reset() float64 {
	offset := s.Camera.Position[2]
	for _, layer := range s.Stars {
		layer.Position[2] -= offset
	}
	for _, g := range s.Galaxies {
		g.Position[2] -= offset
	}
	for _, n := range s.Nebulae {
		n.Position[2] -= offset
	}
	s.Camera.Position[2] = 0

	s.logger.Debug("Camera reset", "offset", offset)
	return offset
}

// recycle moves objects that fell behind the camera far ahead and advances
// every fade-in. It returns the number of galaxies within visible range.
func (s *Scene) recycle() int {
	camZ := s.Camera.Position[2]

	for i, layer := range s.Stars {
		if layer.Position[2]-camZ < starRecycleBehind {
			layer.Position[2] = camZ + starRespawnAhead + float64(i)*starRespawnSpacing
		}
	}

	ahead := 0
	for _, g := range s.Galaxies {
		dz := g.Position[2] - camZ
		if dz < galaxyRecycleBehind {
			g.Position = mgl64.Vec3{
				spread(s.rng, 4000),
				spread(s.rng, 3000),
				camZ + galaxyRespawnAhead + s.rng.Float64()*galaxyRespawnRange,
			}
			g.Rotation[2] = s.rng.Float64() * math.Pi
			g.Age = 0
			g.Pattern = NewRotationPattern(s.rng)
		}
		g.Opacity = GalaxyOpacity * fadeProgress(g.Age)
		g.Age++

		if dz > galaxyRecycleBehind && dz < galaxyVisibleAhead {
			ahead++
		}
	}

	for _, n := range s.Nebulae {
		if n.Position[2]-camZ < nebulaRecycleBehind {
			n.Position = mgl64.Vec3{
				spread(s.rng, 8000),
				spread(s.rng, 6000),
				camZ + nebulaRespawnAhead + s.rng.Float64()*nebulaRespawnRange,
			}
			n.Age = 0
		}
		n.Opacity = NebulaOpacity * fadeProgress(n.Age)
		n.Age++
	}

	return ahead
}

func fadeProgress(age int) float64 {
	return math.Min(float64(age)/FadeInFrames, 1)
}
