// Package geometry builds the displaceable cube mesh drawn by the viewer.
package geometry

import "errors"

// ErrInvalidSubdivisions is returned when a face grid would be empty.
var ErrInvalidSubdivisions = errors.New("subdivisions must be at least 1")

// Vertex is one mesh vertex as uploaded to the GPU.
// Attribute locations: 0 = Position, 1 = Normal, 2 = TexCoord.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Mesh holds the complete mesh data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}
