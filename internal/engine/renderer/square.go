package renderer

import (
	"fmt"
	gomath "math"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/folio3d/internal/engine/scene/shaders"
	"github.com/Faultbox/folio3d/internal/engine/shader"
)

// SquareStep is the phase advance per frame of the pulsing test square.
const SquareStep = 0.01

var squareVertices = []float32{
	-0.5, 0.5,
	0.5, 0.5,
	-0.5, -0.5,
	0.5, -0.5,
}

// SquareColor returns the square's color at phase t: green pulses between
// 0 and 1 while blue stays full.
func SquareColor(t float64) [4]float32 {
	return [4]float32{0, float32((gomath.Sin(t) + 1) / 2), 1, 1}
}

// Square is the flat pulsing square used as a GL smoke test.
type Square struct {
	r       *Renderer
	program *shader.Program
	vao     uint32
	vbo     uint32
	phase   float64
}

// NewSquare builds the square geometry and shader.
func NewSquare(r *Renderer) (*Square, error) {
	program, err := shader.Build("square", shaders.SquareVertexShader, shaders.SquareFragmentShader, "uColor")
	if err != nil {
		return nil, fmt.Errorf("square: %w", err)
	}

	s := &Square{r: r, program: program}
	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)
	gl.GenBuffers(1, &s.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(squareVertices)*4, gl.Ptr(squareVertices), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return s, nil
}

// Frame draws the square and advances its color phase.
func (s *Square) Frame(width, height int) bool {
	s.r.Viewport(width, height)
	s.r.Clear()

	color := SquareColor(s.phase)
	s.program.Use()
	gl.Uniform4fv(s.program.Uniform("uColor"), 1, &color[0])

	gl.BindVertexArray(s.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)

	s.phase += SquareStep
	return true
}

// Close deletes the square's GL objects.
func (s *Square) Close() {
	gl.DeleteBuffers(1, &s.vbo)
	gl.DeleteVertexArrays(1, &s.vao)
	s.program.Delete()
}
