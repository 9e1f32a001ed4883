package model

// FallbackQuad returns a unit quad in the XY plane facing +Z, two triangles
// and six unshared vertices. It is drawn when no model could be loaded.
func FallbackQuad() *Mesh {
	corners := [4][3]float32{
		{-1, -1, 0},
		{1, -1, 0},
		{1, 1, 0},
		{-1, 1, 0},
	}
	uvs := [4][2]float32{
		{0, 0},
		{1, 0},
		{1, 1},
		{0, 1},
	}

	mesh := &Mesh{
		Bounds: Bounds{Min: [3]float32{-1, -1, 0}, Max: [3]float32{1, 1, 0}},
	}
	for _, c := range [6]int{0, 1, 2, 0, 2, 3} {
		mesh.Positions = append(mesh.Positions, corners[c][0], corners[c][1], corners[c][2])
		mesh.Normals = append(mesh.Normals, DefaultNormal[0], DefaultNormal[1], DefaultNormal[2])
		mesh.UVs = append(mesh.UVs, uvs[c][0], uvs[c][1])
		mesh.Indices = append(mesh.Indices, uint16(mesh.VertexCount))
		mesh.VertexCount++
	}
	return mesh
}
