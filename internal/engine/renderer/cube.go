package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/folio3d/internal/engine/scene"
	"github.com/Faultbox/folio3d/internal/engine/scene/shaders"
	"github.com/Faultbox/folio3d/internal/engine/shader"
	"github.com/Faultbox/folio3d/pkg/math"
)

// CubeOverrideMix is how strongly the picked model color tints the cube faces.
const CubeOverrideMix = 0.8

// cubeVertices is position (xyz) + color (rgb), four vertices per face.
var cubeVertices = []float32{
	// front, cyan
	-1, -1, 1, 0, 1, 1,
	1, -1, 1, 0, 1, 1,
	1, 1, 1, 0, 1, 1,
	-1, 1, 1, 0, 1, 1,
	// back, azure
	-1, -1, -1, 0, 0.5, 1,
	-1, 1, -1, 0, 0.5, 1,
	1, 1, -1, 0, 0.5, 1,
	1, -1, -1, 0, 0.5, 1,
	// top, spring green
	-1, 1, -1, 0, 1, 0.5,
	-1, 1, 1, 0, 1, 0.5,
	1, 1, 1, 0, 1, 0.5,
	1, 1, -1, 0, 1, 0.5,
	// bottom, yellow
	-1, -1, -1, 1, 1, 0,
	1, -1, -1, 1, 1, 0,
	1, -1, 1, 1, 1, 0,
	-1, -1, 1, 1, 1, 0,
	// right, magenta
	1, -1, -1, 1, 0, 1,
	1, 1, -1, 1, 0, 1,
	1, 1, 1, 1, 0, 1,
	1, -1, 1, 1, 0, 1,
	// left, orange
	-1, -1, -1, 1, 0.5, 0,
	-1, -1, 1, 1, 0.5, 0,
	-1, 1, 1, 1, 0.5, 0,
	-1, 1, -1, 1, 0.5, 0,
}

// CubeIndices returns the 36 indices of the cube, two triangles per face.
func CubeIndices() []uint16 {
	indices := make([]uint16, 0, 36)
	for face := uint16(0); face < 6; face++ {
		base := face * 4
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return indices
}

// Cube is the spinning colored cube demo. It shares rotation, auto-rotate
// and the model color with the model scene.
type Cube struct {
	r              *Renderer
	state          *scene.State
	cameraDistance float32
	program        *shader.Program
	vao            uint32
	vbo            uint32
	ebo            uint32
	indexCount     int32
}

// NewCube builds the cube geometry and shader.
func NewCube(r *Renderer, state *scene.State, cameraDistance float32) (*Cube, error) {
	program, err := shader.Build("cube", shaders.CubeVertexShader, shaders.CubeFragmentShader,
		"uProjection", "uModelView", "uOverrideColor", "uOverrideMix")
	if err != nil {
		return nil, fmt.Errorf("cube: %w", err)
	}
	if cameraDistance <= 0 {
		cameraDistance = scene.DefaultCameraDistance
	}

	indices := CubeIndices()
	c := &Cube{
		r:              r,
		state:          state,
		cameraDistance: cameraDistance,
		program:        program,
		indexCount:     int32(len(indices)),
	}

	gl.GenVertexArrays(1, &c.vao)
	gl.BindVertexArray(c.vao)

	gl.GenBuffers(1, &c.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, c.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(cubeVertices)*4, gl.Ptr(cubeVertices), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 6*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, 6*4, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &c.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, c.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*2, gl.Ptr(indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return c, nil
}

// Frame draws the cube spinning in place at the camera distance.
func (c *Cube) Frame(width, height int) bool {
	c.state.Advance()
	c.r.Viewport(width, height)
	c.r.Clear()

	proj := scene.ProjectionMatrix(width, height)
	modelView := math.MulAll(scene.ViewMatrix(c.cameraDistance), c.state.NormalMatrix())

	c.program.Use()
	gl.UniformMatrix4fv(c.program.Uniform("uProjection"), 1, false, proj.Ptr())
	gl.UniformMatrix4fv(c.program.Uniform("uModelView"), 1, false, modelView.Ptr())
	gl.Uniform3fv(c.program.Uniform("uOverrideColor"), 1, &c.state.Lighting.ModelColor[0])
	gl.Uniform1f(c.program.Uniform("uOverrideMix"), CubeOverrideMix)

	gl.BindVertexArray(c.vao)
	gl.DrawElements(gl.TRIANGLES, c.indexCount, gl.UNSIGNED_SHORT, nil)
	gl.BindVertexArray(0)
	return true
}

// Close deletes the cube's GL objects.
func (c *Cube) Close() {
	gl.DeleteBuffers(1, &c.ebo)
	gl.DeleteBuffers(1, &c.vbo)
	gl.DeleteVertexArrays(1, &c.vao)
	c.program.Delete()
}
