package space

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is a wireframe: vertex positions plus the unique edges joining them.
type Mesh struct {
	Vertices []mgl64.Vec3
	Edges    [][2]int
}

var icosahedronVertices, icosahedronFaces = func() ([]mgl64.Vec3, [][3]int) {
	t := (1 + math.Sqrt(5)) / 2
	return []mgl64.Vec3{
			{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
			{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
			{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
		}, [][3]int{
			{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
			{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
			{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
			{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
		}
}()

var octahedronVertices = []mgl64.Vec3{
	{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1},
}

var octahedronFaces = [][3]int{
	{0, 2, 4}, {0, 4, 3}, {0, 3, 5}, {0, 5, 2},
	{1, 2, 5}, {1, 5, 3}, {1, 3, 4}, {1, 4, 2},
}

// Icosahedron returns a subdivided icosahedron of the given radius.
func Icosahedron(radius float64, detail int) Mesh {
	return polyhedron(icosahedronVertices, icosahedronFaces, radius, detail)
}

// Octahedron returns a subdivided octahedron of the given radius.
func Octahedron(radius float64, detail int) Mesh {
	return polyhedron(octahedronVertices, octahedronFaces, radius, detail)
}

// polyhedron splits every face into (detail+1)^2 triangles and pushes each
// new vertex out onto the sphere of the given radius.
func polyhedron(base []mgl64.Vec3, faces [][3]int, radius float64, detail int) Mesh {
	b := newMeshBuilder()
	cols := detail + 1
	for _, f := range faces {
		a, bv, c := base[f[0]], base[f[1]], base[f[2]]

		grid := make([][]mgl64.Vec3, cols+1)
		for i := 0; i <= cols; i++ {
			ai := lerpVec(a, c, float64(i)/float64(cols))
			bi := lerpVec(bv, c, float64(i)/float64(cols))
			rows := cols - i
			grid[i] = make([]mgl64.Vec3, rows+1)
			for j := 0; j <= rows; j++ {
				if j == 0 && i == cols {
					grid[i][j] = ai
				} else {
					grid[i][j] = lerpVec(ai, bi, float64(j)/float64(rows))
				}
			}
		}

		onSphere := func(v mgl64.Vec3) mgl64.Vec3 { return v.Normalize().Mul(radius) }
		for i := 0; i < cols; i++ {
			for j := 0; j < 2*(cols-i)-1; j++ {
				k := j / 2
				if j%2 == 0 {
					b.triangle(onSphere(grid[i][k+1]), onSphere(grid[i+1][k]), onSphere(grid[i][k]))
				} else {
					b.triangle(onSphere(grid[i][k+1]), onSphere(grid[i+1][k+1]), onSphere(grid[i+1][k]))
				}
			}
		}
	}
	return b.mesh()
}

// UVSphere returns a latitude/longitude sphere triangulated the usual way:
// quads split into two triangles, with single triangles at the poles.
func UVSphere(radius float64, widthSegments, heightSegments int) Mesh {
	b := newMeshBuilder()
	vertex := func(ix, iy int) mgl64.Vec3 {
		u := float64(ix) / float64(widthSegments)
		v := float64(iy) / float64(heightSegments)
		return mgl64.Vec3{
			-radius * math.Cos(u*2*math.Pi) * math.Sin(v*math.Pi),
			radius * math.Cos(v*math.Pi),
			radius * math.Sin(u*2*math.Pi) * math.Sin(v*math.Pi),
		}
	}
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := vertex(ix+1, iy)
			bv := vertex(ix, iy)
			c := vertex(ix, iy+1)
			d := vertex(ix+1, iy+1)
			if iy != 0 {
				b.triangle(a, bv, d)
			}
			if iy != heightSegments-1 {
				b.triangle(bv, c, d)
			}
		}
	}
	return b.mesh()
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// meshBuilder welds coincident vertices so shared triangle edges are emitted
// once.
type meshBuilder struct {
	index    map[[3]int64]int
	edgeSeen map[[2]int]bool
	out      Mesh
}

func newMeshBuilder() *meshBuilder {
	return &meshBuilder{
		index:    make(map[[3]int64]int),
		edgeSeen: make(map[[2]int]bool),
	}
}

func (b *meshBuilder) vertex(v mgl64.Vec3) int {
	key := [3]int64{
		int64(math.Round(v[0] * 1e4)),
		int64(math.Round(v[1] * 1e4)),
		int64(math.Round(v[2] * 1e4)),
	}
	if i, ok := b.index[key]; ok {
		return i
	}
	i := len(b.out.Vertices)
	b.out.Vertices = append(b.out.Vertices, v)
	b.index[key] = i
	return i
}

func (b *meshBuilder) edge(i, j int) {
	if i == j {
		return
	}
	if i > j {
		i, j = j, i
	}
	key := [2]int{i, j}
	if b.edgeSeen[key] {
		return
	}
	b.edgeSeen[key] = true
	b.out.Edges = append(b.out.Edges, key)
}

func (b *meshBuilder) triangle(p0, p1, p2 mgl64.Vec3) {
	i, j, k := b.vertex(p0), b.vertex(p1), b.vertex(p2)
	b.edge(i, j)
	b.edge(j, k)
	b.edge(k, i)
}

func (b *meshBuilder) mesh() Mesh {
	return b.out
}
