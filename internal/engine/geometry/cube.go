package geometry

import (
	"fmt"

	"github.com/Faultbox/terrainview/pkg/math"
)

// face describes one side of the cube. u cross v == normal, so a quad
// walked along u then v is counter-clockwise seen from outside.
type face struct {
	normal, u, v math.Vec3
}

var cubeFaces = [6]face{
	{normal: math.Vec3{X: 1}, u: math.Vec3{Y: 1}, v: math.Vec3{Z: 1}},
	{normal: math.Vec3{X: -1}, u: math.Vec3{Z: 1}, v: math.Vec3{Y: 1}},
	{normal: math.Vec3{Y: 1}, u: math.Vec3{Z: 1}, v: math.Vec3{X: 1}},
	{normal: math.Vec3{Y: -1}, u: math.Vec3{X: 1}, v: math.Vec3{Z: 1}},
	{normal: math.Vec3{Z: 1}, u: math.Vec3{X: 1}, v: math.Vec3{Y: 1}},
	{normal: math.Vec3{Z: -1}, u: math.Vec3{Y: 1}, v: math.Vec3{X: 1}},
}

// BuildCube builds the cube [-1,1]^3 with each face split into a
// subdivisions x subdivisions quad grid. Every face carries the full [0,1]
// texture range so the heightmap covers each side once.
func BuildCube(subdivisions int) (*Mesh, error) {
	if subdivisions < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSubdivisions, subdivisions)
	}

	n := subdivisions
	perFace := (n + 1) * (n + 1)
	mesh := &Mesh{
		Vertices: make([]Vertex, 0, 6*perFace),
		Indices:  make([]uint32, 0, 6*n*n*6),
		Bounds: Bounds{
			Min: [3]float32{1, 1, 1},
			Max: [3]float32{-1, -1, -1},
		},
	}

	for _, f := range cubeFaces {
		base := uint32(len(mesh.Vertices))

		for j := 0; j <= n; j++ {
			t := float32(j) / float32(n)
			for i := 0; i <= n; i++ {
				s := float32(i) / float32(n)

				p := f.normal.
					Add(f.u.Scale(2*s - 1)).
					Add(f.v.Scale(2*t - 1))

				mesh.Vertices = append(mesh.Vertices, Vertex{
					Position: p.Array(),
					Normal:   f.normal.Array(),
					TexCoord: [2]float32{s, t},
				})
				updateBounds(&mesh.Bounds, p.Array())
			}
		}

		row := uint32(n + 1)
		for j := uint32(0); j < uint32(n); j++ {
			for i := uint32(0); i < uint32(n); i++ {
				a := base + j*row + i
				b := a + 1
				c := b + row
				d := a + row
				mesh.Indices = append(mesh.Indices, a, b, c, a, c, d)
			}
		}
	}

	return mesh, nil
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
