package render

import (
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"github.com/spacebird/cosmicflight/internal/space"
)

var white = colorful.Color{R: 1, G: 1, B: 1}

func TestCanvasBrailleBits(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Add(1, 3, white, 1)
	if got, want := c.Render(termenv.Ascii), string(rune(0x2880)); got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}

	c.Clear()
	c.Add(0, 0, white, 1)
	c.Add(0, 3, white, 1)
	if got, want := c.Render(termenv.Ascii), string(rune(0x2800+1+64)); got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestCanvasEmptyIsBlank(t *testing.T) {
	c := NewCanvas(4, 2)
	if got, want := c.Render(termenv.TrueColor), "    \n    "; got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
}

func TestCanvasDimDotsStayDark(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Add(0, 0, white, litThreshold/2)
	if got := c.Render(termenv.Ascii); got != " " {
		t.Fatalf("Render() = %q, want blank", got)
	}
	c.Add(0, 0, white, litThreshold/2)
	if got := c.Render(termenv.Ascii); got == " " {
		t.Fatal("accumulated light did not light the dot")
	}
}

func TestCanvasIgnoresOutOfBounds(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Add(-1, 0, white, 1)
	c.Add(0, 8, white, 1)
	c.Add(4, 0, white, 1)
	c.Line(-100, -100, -50, -50, white, 1)
	if got := c.Render(termenv.Ascii); strings.TrimSpace(got) != "" {
		t.Fatalf("Render() = %q, want blank", got)
	}
}

func TestCanvasLineLightsEndpoints(t *testing.T) {
	c := NewCanvas(4, 1)
	c.Line(0, 0, 7, 3, white, 1)
	if c.w[0] == 0 || c.w[3*c.dotCols+7] == 0 {
		t.Fatal("line endpoints not lit")
	}
}

func TestCanvasSplatCoversDisc(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Splat(10, 10, 6, white, 1)
	lit := 0
	for _, w := range c.w {
		if w > 0 {
			lit++
		}
	}
	if lit < 20 || lit > 36 {
		t.Fatalf("splat of diameter 6 lit %d dots", lit)
	}
}

func TestRenderTrueColorSequences(t *testing.T) {
	c := NewCanvas(3, 1)
	c.Add(0, 0, colorful.Color{R: 1}, 1)
	c.Add(2, 0, colorful.Color{R: 1}, 1)
	c.Add(4, 0, colorful.Color{B: 1}, 1)
	got := c.Render(termenv.TrueColor)

	if n := strings.Count(got, "\x1b[38;2;255;0;0m"); n != 1 {
		t.Fatalf("red sequence written %d times in %q, want once", n, got)
	}
	if !strings.Contains(got, "\x1b[38;2;0;0;255m") {
		t.Fatalf("blue sequence missing from %q", got)
	}
	if !strings.HasSuffix(got, "\x1b[0m") {
		t.Fatalf("line not reset: %q", got)
	}
}

func TestRenderAsciiHasNoEscapes(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Splat(2, 4, 3, colorful.Color{G: 1}, 1)
	if got := c.Render(termenv.Ascii); strings.Contains(got, "\x1b") {
		t.Fatalf("Ascii output contains escapes: %q", got)
	}
}

func TestDrawScene(t *testing.T) {
	cfg := space.Config{
		StarLayers:    2,
		StarsPerLayer: 3000,
		Nebulae:       4,
		Galaxies:      2,
		GalaxyPoints:  3000,
		GalaxyRadius:  500,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := space.New(rand.New(rand.NewSource(1)), cfg, logger)
	s.Galaxies[0].Position = [3]float64{0, 0, 800}
	s.Galaxies[0].Opacity = space.GalaxyOpacity

	r := New(termenv.Ascii, 60, 20)
	s.Camera.Resize(r.DotSize())
	out := r.Draw(s)

	lines := strings.Split(out, "\n")
	if len(lines) != 20 {
		t.Fatalf("got %d lines, want 20", len(lines))
	}
	for i, l := range lines {
		if n := len([]rune(l)); n != 60 {
			t.Fatalf("line %d has %d cells, want 60", i, n)
		}
	}
	if strings.TrimSpace(strings.ReplaceAll(out, "\n", "")) == "" {
		t.Fatal("scene rendered blank")
	}
}

func TestDrawSkipsInvisibleObjects(t *testing.T) {
	cfg := space.Config{Galaxies: 1, GalaxyPoints: 2000, GalaxyRadius: 500}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := space.New(rand.New(rand.NewSource(2)), cfg, logger)
	s.Galaxies[0].Opacity = space.GalaxyOpacity
	s.Galaxies[0].Position = [3]float64{0, 0, -20000}

	r := New(termenv.Ascii, 40, 10)
	s.Camera.Resize(r.DotSize())
	if out := r.Draw(s); strings.TrimSpace(strings.ReplaceAll(out, "\n", "")) != "" {
		t.Fatalf("galaxy behind the camera was drawn: %q", out)
	}
}

func galaxyAhead(t *testing.T, dz, fog float64) string {
	t.Helper()
	cfg := space.Config{Galaxies: 1, GalaxyPoints: 5000, GalaxyRadius: 500}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := space.New(rand.New(rand.NewSource(3)), cfg, logger)
	g := s.Galaxies[0]
	g.Opacity = space.GalaxyOpacity
	g.Position = [3]float64{0, 0, s.Camera.Position[2] + dz}
	s.FogDensity = fog

	r := New(termenv.Ascii, 80, 24)
	s.Camera.Resize(r.DotSize())
	return strings.TrimSpace(strings.ReplaceAll(r.Draw(s), "\n", ""))
}

func TestDistantGalaxyIgnoresFog(t *testing.T) {
	for _, fog := range []float64{0.0008, 0.0028} {
		for _, dz := range []float64{1000, 5000} {
			if out := galaxyAhead(t, dz, fog); out == "" {
				t.Fatalf("galaxy %v ahead with fog %v rendered blank", dz, fog)
			}
		}
	}
}

func TestDrawCullsBeyondFarPlane(t *testing.T) {
	if out := galaxyAhead(t, 20000, 0.0008); out != "" {
		t.Fatalf("galaxy beyond the far plane was drawn: %q", out)
	}
}
