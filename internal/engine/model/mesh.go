package model

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/folio3d/internal/logger"
	"github.com/Faultbox/folio3d/pkg/formats"
)

// BuildMesh triangulates and flattens parsed OBJ records.
//
// Polygons are fan-triangulated around their first corner, emitting
// (0, i, i+1) for i in 1..n-2. This is only correct for convex, planar
// polygons. Faces with fewer than three corners are ignored.
//
// A corner whose vertex reference is out of range is dropped with a warning
// and no index is emitted for it, so the affected triangle is left short.
// Corners without a usable normal or UV get DefaultNormal and DefaultUV.
func BuildMesh(obj *formats.OBJ) (*Mesh, error) {
	mesh := &Mesh{}
	bounds := Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
	skipped := 0

	for faceIdx, face := range obj.Faces {
		if len(face) < 3 {
			continue
		}
		for i := 1; i < len(face)-1; i++ {
			for _, corner := range [3]int{0, i, i + 1} {
				fv := face[corner]
				if fv.Vertex < 0 || fv.Vertex >= len(obj.Vertices) {
					skipped++
					logger.Warn("missing vertex in face",
						zap.Int("face", faceIdx),
						zap.Int("vertex", fv.Vertex),
						zap.Int("vertexCount", len(obj.Vertices)),
					)
					continue
				}
				if mesh.VertexCount >= MaxVertices {
					return nil, fmt.Errorf("%w: more than %d vertices", ErrTooManyVertices, MaxVertices)
				}

				pos := obj.Vertices[fv.Vertex]
				mesh.Positions = append(mesh.Positions, pos[0], pos[1], pos[2])
				bounds.extend(pos)

				normal := DefaultNormal
				if fv.Normal >= 0 && fv.Normal < len(obj.Normals) {
					normal = obj.Normals[fv.Normal]
				}
				mesh.Normals = append(mesh.Normals, normal[0], normal[1], normal[2])

				uv := DefaultUV
				if fv.UV >= 0 && fv.UV < len(obj.UVs) {
					uv = obj.UVs[fv.UV]
				}
				mesh.UVs = append(mesh.UVs, uv[0], uv[1])

				mesh.Indices = append(mesh.Indices, uint16(mesh.VertexCount))
				mesh.VertexCount++
			}
		}
	}

	if mesh.VertexCount == 0 {
		return nil, ErrNoGeometry
	}
	mesh.Bounds = bounds

	if skipped > 0 {
		logger.Warn("mesh built with dropped corners",
			zap.Int("dropped", skipped),
			zap.Int("indices", len(mesh.Indices)),
		)
	}
	return mesh, nil
}

// ParseOBJ parses OBJ text and builds a mesh from it.
func ParseOBJ(data []byte) (*Mesh, error) {
	obj, err := formats.ParseOBJBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing OBJ: %w", err)
	}
	if obj.MaterialLib != "" {
		logger.Info("OBJ references material library (ignored)", zap.String("mtllib", obj.MaterialLib))
	}
	logger.Debug("parsed OBJ",
		zap.Int("vertices", len(obj.Vertices)),
		zap.Int("normals", len(obj.Normals)),
		zap.Int("uvs", len(obj.UVs)),
		zap.Int("faces", len(obj.Faces)),
	)

	mesh, err := BuildMesh(obj)
	if err != nil {
		return nil, err
	}
	center := mesh.Bounds.Center()
	logger.Debug("built mesh buffers",
		zap.Int("vertices", mesh.VertexCount),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Float32s("center", center[:]),
		zap.Float32s("min", mesh.Bounds.Min[:]),
		zap.Float32s("max", mesh.Bounds.Max[:]),
	)
	return mesh, nil
}

func (b *Bounds) extend(p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Center returns the midpoint of the bounding box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}
