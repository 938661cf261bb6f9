package render

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// litThreshold is the accumulated intensity a dot needs before it is drawn.
const litThreshold = 0.06

// Canvas accumulates coloured light on a grid of braille dots. Each terminal
// cell covers 2x4 dots. Contributions add up; the colour of a cell is the
// intensity-weighted mean of its dots.
type Canvas struct {
	cols, rows int
	dotCols    int
	dotRows    int

	r, g, b, w []float64
}

// NewCanvas returns a canvas of cols x rows terminal cells.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{}
	c.Resize(cols, rows)
	return c
}

// Resize changes the cell dimensions and clears the canvas.
func (c *Canvas) Resize(cols, rows int) {
	cols = max(cols, 1)
	rows = max(rows, 1)
	c.cols, c.rows = cols, rows
	c.dotCols, c.dotRows = cols*2, rows*4
	n := c.dotCols * c.dotRows
	c.r = make([]float64, n)
	c.g = make([]float64, n)
	c.b = make([]float64, n)
	c.w = make([]float64, n)
}

// DotSize returns the canvas size in dots.
func (c *Canvas) DotSize() (int, int) {
	return c.dotCols, c.dotRows
}

// Clear removes all accumulated light.
func (c *Canvas) Clear() {
	clear(c.r)
	clear(c.g)
	clear(c.b)
	clear(c.w)
}

// Add deposits intensity of the given colour on dot (x, y). Dots outside the
// canvas are ignored.
func (c *Canvas) Add(x, y int, col colorful.Color, intensity float64) {
	if x < 0 || y < 0 || x >= c.dotCols || y >= c.dotRows || intensity <= 0 {
		return
	}
	i := y*c.dotCols + x
	c.r[i] += col.R * intensity
	c.g[i] += col.G * intensity
	c.b[i] += col.B * intensity
	c.w[i] += intensity
}

// Splat deposits a round point of the given diameter (in dots) centred on
// (x, y). A point smaller than a dot lands on a single dot, dimmed in
// proportion to its diameter.
func (c *Canvas) Splat(x, y, diameter float64, col colorful.Color, intensity float64) {
	if diameter <= 1 {
		c.Add(int(math.Floor(x)), int(math.Floor(y)), col, intensity*math.Max(diameter, 0.05))
		return
	}
	radius := math.Min(diameter/2, maxSplatRadius)
	x0, x1 := int(math.Floor(x-radius)), int(math.Ceil(x+radius))
	y0, y1 := int(math.Floor(y-radius)), int(math.Ceil(y+radius))
	r2 := radius * radius
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			dx := float64(px) + 0.5 - x
			dy := float64(py) + 0.5 - y
			if dx*dx+dy*dy <= r2 {
				c.Add(px, py, col, intensity)
			}
		}
	}
}

const maxSplatRadius = 6

// Line deposits a dotted line between two dot positions. Segments longer than
// the canvas diagonal are truncated.
func (c *Canvas) Line(x0, y0, x1, y1 float64, col colorful.Color, intensity float64) {
	dx, dy := x1-x0, y1-y0
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		c.Add(int(math.Floor(x0)), int(math.Floor(y0)), col, intensity)
		return
	}
	limit := 2 * (c.dotCols + c.dotRows)
	sx, sy := dx/float64(steps), dy/float64(steps)
	for i := 0; i <= steps && i <= limit; i++ {
		c.Add(int(math.Floor(x0+sx*float64(i))), int(math.Floor(y0+sy*float64(i))), col, intensity)
	}
}

// Render converts the canvas to rows of braille characters coloured for the
// given terminal profile.
func (c *Canvas) Render(profile termenv.Profile) string {
	state := newANSIState(profile)
	rows := make([]string, c.rows)
	for row := range c.rows {
		var line strings.Builder
		for col := range c.cols {
			var pattern uint
			var sr, sg, sb, sw float64
			lit := 0
			for dx := range 2 {
				x := col*2 + dx
				for dy := range 4 {
					i := (row*4+dy)*c.dotCols + x
					if c.w[i] < litThreshold {
						continue
					}
					pattern |= 1 << brailleBits[dx][dy]
					sr += c.r[i]
					sg += c.g[i]
					sb += c.b[i]
					sw += c.w[i]
					lit++
				}
			}
			if pattern == 0 {
				state.reset(&line)
				line.WriteByte(' ')
				continue
			}
			brightness := math.Min(1, sw/float64(lit))
			state.set(&line, colorful.Color{
				R: sr / sw * brightness,
				G: sg / sw * brightness,
				B: sb / sw * brightness,
			}.Clamped())
			line.WriteRune(rune(0x2800 + pattern))
		}
		state.reset(&line)
		rows[row] = line.String()
	}
	return strings.Join(rows, "\n")
}
