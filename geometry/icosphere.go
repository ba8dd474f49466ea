// Package geometry builds the static sphere mesh the plasma surface is
// displaced from.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an indexed triangle mesh on the unit sphere.
type Mesh struct {
	Positions []r3.Vec
	Normals   []r3.Vec
	Indices   []int32 // three per triangle
}

// TriangleCount returns the number of triangles.
func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Icosphere subdivides a regular icosahedron by edge midpoints the given
// number of times and projects every vertex onto the unit sphere.
// Normals equal positions.
func Icosphere(subdivisions int) Mesh {
	t := (1.0 + math.Sqrt(5.0)) / 2.0

	positions := []r3.Vec{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	}
	indices := []int32{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	for i := 0; i < subdivisions; i++ {
		positions, indices = subdivide(positions, indices)
	}

	normals := make([]r3.Vec, len(positions))
	for i, p := range positions {
		positions[i] = r3.Unit(p)
		normals[i] = positions[i]
	}

	return Mesh{Positions: positions, Normals: normals, Indices: indices}
}

func subdivide(positions []r3.Vec, indices []int32) ([]r3.Vec, []int32) {
	midpoints := make(map[[2]int32]int32)
	out := make([]r3.Vec, len(positions), len(positions)*4)
	copy(out, positions)
	next := make([]int32, 0, len(indices)*4)

	midpoint := func(a, b int32) int32 {
		key := [2]int32{a, b}
		if a > b {
			key = [2]int32{b, a}
		}
		if mid, ok := midpoints[key]; ok {
			return mid
		}
		// Project as we go so later midpoints stay evenly spaced.
		out = append(out, r3.Unit(r3.Add(positions[a], positions[b])))
		mid := int32(len(out) - 1)
		midpoints[key] = mid
		return mid
	}

	for i := 0; i < len(indices); i += 3 {
		v1, v2, v3 := indices[i], indices[i+1], indices[i+2]
		m1 := midpoint(v1, v2)
		m2 := midpoint(v2, v3)
		m3 := midpoint(v3, v1)
		next = append(next, v1, m1, m3, v2, m2, m1, v3, m3, m2, m1, m2, m3)
	}

	return out, next
}
