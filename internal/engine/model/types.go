// Package model builds flat, GPU-ready triangle meshes from parsed OBJ data.
package model

import "errors"

// Mesh build errors.
var (
	ErrNoGeometry      = errors.New("mesh has no geometry")
	ErrTooManyVertices = errors.New("mesh exceeds 16-bit index range")
)

// MaxVertices is the largest vertex count addressable by uint16 indices.
const MaxVertices = 1 << 16

// Default attribute values for face corners without a normal or UV reference.
var (
	DefaultNormal = [3]float32{0, 0, 1}
	DefaultUV     = [2]float32{0, 0}
)

// Mesh holds parallel attribute arrays for indexed triangle-list rendering.
// Vertices are not shared between triangles: a position used by k triangles
// appears k times, and Indices is simply 0..VertexCount-1 in emission order.
type Mesh struct {
	Positions   []float32 // 3 per vertex
	Normals     []float32 // 3 per vertex
	UVs         []float32 // 2 per vertex
	Indices     []uint16
	VertexCount int
	Bounds      Bounds
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// TriangleCount returns the number of complete triangles in the index list.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Valid reports whether the attribute arrays agree in length and every index
// addresses an existing vertex.
func (m *Mesh) Valid() bool {
	n := m.VertexCount
	if len(m.Indices) != n || len(m.Positions) != n*3 || len(m.Normals) != n*3 || len(m.UVs) != n*2 {
		return false
	}
	for _, idx := range m.Indices {
		if int(idx) >= n {
			return false
		}
	}
	return true
}
