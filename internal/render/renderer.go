package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/muesli/termenv"

	"github.com/spacebird/cosmicflight/internal/space"
)

// minFog is the fog transmission below which a nebula edge is skipped.
const minFog = 0.002

// Renderer rasterizes a space.Scene into coloured braille text.
type Renderer struct {
	profile termenv.Profile
	canvas  *Canvas
}

// New returns a renderer for a cols x rows cell area.
func New(profile termenv.Profile, cols, rows int) *Renderer {
	return &Renderer{profile: profile, canvas: NewCanvas(cols, rows)}
}

// Resize changes the output area.
func (r *Renderer) Resize(cols, rows int) {
	r.canvas.Resize(cols, rows)
}

// DotSize returns the drawing surface in dots. Braille dots are roughly
// square, so this ratio is the camera aspect.
func (r *Renderer) DotSize() (int, int) {
	return r.canvas.DotSize()
}

// Draw renders one frame of the scene.
func (r *Renderer) Draw(s *space.Scene) string {
	r.canvas.Clear()

	f := frame{
		canvas:   r.canvas,
		viewProj: s.Camera.Projection().Mul4(s.Camera.View()),
		near:     s.Camera.Near,
		far:      s.Camera.Far,
		fog:      s.FogDensity,
	}
	_, dotRows := r.canvas.DotSize()
	f.sizeScale = float64(dotRows) / 2

	for _, layer := range s.Stars {
		model := space.ObjectMatrix(layer.Position, layer.Rotation, mgl64.Vec3{1, 1, 1})
		f.points(model, layer.Points, space.StarPointSize, layer.Opacity, starLayerExtent)
	}
	for _, n := range s.Nebulae {
		f.wireframe(n)
	}
	for _, g := range s.Galaxies {
		scale := mgl64.Vec3{g.Scale, g.Scale, g.Scale}
		model := space.ObjectMatrix(g.Position, g.Rotation, scale)
		extent := g.Radius * g.Scale * 2.5
		f.points(model, g.Glow, space.GlowPointSize, g.Opacity*space.GlowOpacity, extent)
		f.points(model, g.Points, space.GalaxyPointSize, g.Opacity, extent)
	}

	return r.canvas.Render(r.profile)
}

// starLayerExtent bounds the distance of any star from its layer origin.
const starLayerExtent = 6100

type frame struct {
	canvas    *Canvas
	viewProj  mgl64.Mat4
	near      float64
	far       float64
	fog       float64
	sizeScale float64
}

// transmission is the share of light surviving exponential-squared fog at the
// given depth.
func (f frame) transmission(depth float64) float64 {
	d := f.fog * depth
	return math.Exp(-d * d)
}

// project maps a clip-space position to dot coordinates. ok is false for
// points outside the near and far planes or outside the view.
func (f frame) project(clip mgl64.Vec4) (x, y, depth float64, ok bool) {
	w := clip.W()
	if w < f.near || w > f.far {
		return 0, 0, 0, false
	}
	nx, ny := clip.X()/w, clip.Y()/w
	if nx < -1 || nx > 1 || ny < -1 || ny > 1 {
		return 0, 0, 0, false
	}
	dotCols, dotRows := f.canvas.DotSize()
	return (nx + 1) / 2 * float64(dotCols), (1 - ny) / 2 * float64(dotRows), w, true
}

// depthRange returns the nearest view depth an object centred at origin with
// the given extent can reach. ok is false when none of it lies between the
// near and far planes.
func (f frame) depthRange(mvp mgl64.Mat4, extent float64) (nearest float64, ok bool) {
	center := mvp.Mul4x1(mgl64.Vec4{0, 0, 0, 1}).W()
	if center+extent < f.near || center-extent > f.far {
		return 0, false
	}
	return center - extent, true
}

// points draws a point cloud. Stars and galaxies are not fogged.
func (f frame) points(model mgl64.Mat4, pts space.PointCloud, baseSize, opacity, extent float64) {
	if opacity <= 0 || pts.Len() == 0 {
		return
	}
	mvp := f.viewProj.Mul4(model)
	if _, ok := f.depthRange(mvp, extent); !ok {
		return
	}
	for i, p := range pts.Positions {
		x, y, depth, ok := f.project(mvp.Mul4x1(p.Vec4(1)))
		if !ok {
			continue
		}
		diameter := baseSize * pts.Sizes[i] * f.sizeScale / depth
		f.canvas.Splat(x, y, diameter, pts.Colors[i], opacity)
	}
}

func (f frame) wireframe(n *space.Nebula) {
	if n.Opacity <= 0 || len(n.Mesh.Vertices) == 0 {
		return
	}
	model := space.ObjectMatrix(n.Position, n.Rotation, n.Scale)
	mvp := f.viewProj.Mul4(model)
	extent := n.Mesh.Vertices[0].Len() * math.Max(n.Scale[0], n.Scale[1])
	nearest, ok := f.depthRange(mvp, extent)
	if !ok || (nearest > 0 && f.transmission(nearest) < minFog) {
		return
	}

	type projected struct {
		x, y, depth float64
		ok          bool
	}
	verts := make([]projected, len(n.Mesh.Vertices))
	for i, v := range n.Mesh.Vertices {
		x, y, depth, ok := f.project(mvp.Mul4x1(v.Vec4(1)))
		verts[i] = projected{x, y, depth, ok}
	}
	for _, e := range n.Mesh.Edges {
		a, b := verts[e[0]], verts[e[1]]
		if !a.ok || !b.ok {
			continue
		}
		fog := f.transmission((a.depth + b.depth) / 2)
		if fog < minFog {
			continue
		}
		f.canvas.Line(a.x, a.y, b.x, b.y, n.Color, n.Opacity*fog*edgeIntensity)
	}
}

// edgeIntensity keeps overlapping translucent edges from saturating.
const edgeIntensity = 0.5
