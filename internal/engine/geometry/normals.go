package geometry

import "github.com/Faultbox/terrainview/pkg/math"

// SmoothNormals averages normals at shared vertex positions. On the cube
// this gives vertices on an edge one common normal so shading is
// continuous across faces. Texture coordinates are still per face, so the
// heightmap is sampled at different points on either side of an edge and
// displaced seams need not meet exactly.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup
	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		key := [3]int32{
			quantize(vertices[i].Position[0], epsilon),
			quantize(vertices[i].Position[1], epsilon),
			quantize(vertices[i].Position[2], epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}

	for _, indices := range posMap {
		if len(indices) < 2 {
			continue
		}

		var sum math.Vec3
		for _, idx := range indices {
			n := vertices[idx].Normal
			sum = sum.Add(math.Vec3{X: n[0], Y: n[1], Z: n[2]})
		}

		avg := sum.Normalize().Array()
		for _, idx := range indices {
			vertices[idx].Normal = avg
		}
	}
}

func quantize(x, epsilon float32) int32 {
	if x < 0 {
		return int32(x/epsilon - 0.5)
	}
	return int32(x/epsilon + 0.5)
}
