package renderer

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/folio3d/internal/engine/model"
	"github.com/Faultbox/folio3d/internal/engine/scene"
	"github.com/Faultbox/folio3d/internal/engine/scene/shaders"
	"github.com/Faultbox/folio3d/internal/engine/shader"
	"github.com/Faultbox/folio3d/internal/engine/texture"
	"github.com/Faultbox/folio3d/internal/logger"
)

var errInvalidMesh = errors.New("mesh attribute arrays disagree")

// Attribute locations shared with model.vert.
const (
	attribPosition = 0
	attribNormal   = 1
	attribTexCoord = 2
)

type glMesh struct {
	vao        uint32
	buffers    [4]uint32 // positions, normals, uvs, indices
	indexCount int32
}

// ModelBackend implements scene.Backend with OpenGL.
type ModelBackend struct {
	r       *Renderer
	program *shader.Program
	meshes  map[scene.MeshHandle]*glMesh
	log     *zap.Logger
}

var _ scene.Backend = (*ModelBackend)(nil)

// NewModelBackend compiles the model shader. A shader failure is logged and
// leaves the backend without a program: uploads still work, draws do nothing.
func NewModelBackend(r *Renderer) *ModelBackend {
	b := &ModelBackend{
		r:      r,
		meshes: make(map[scene.MeshHandle]*glMesh),
		log:    logger.Named("model-backend"),
	}

	program, err := shader.Build("model", shaders.ModelVertexShader, shaders.ModelFragmentShader,
		"uProjection", "uView", "uModel", "uNormalMatrix", "uTexture",
		"uLightDirection", "uLightColor", "uLightIntensity", "uAmbient",
		"uModelColor", "uColorIntensity",
	)
	if err != nil {
		b.log.Error("model scene will not draw", zap.Error(err))
		return b
	}
	b.program = program
	return b
}

// HasProgram reports whether the model shader linked.
func (b *ModelBackend) HasProgram() bool {
	return b.program != nil
}

func (b *ModelBackend) Viewport(width, height int) { b.r.Viewport(width, height) }
func (b *ModelBackend) Clear()                     { b.r.Clear() }

// UploadMesh creates a VAO with one buffer per attribute and a 16-bit index buffer.
func (b *ModelBackend) UploadMesh(m *model.Mesh) (scene.MeshHandle, error) {
	if !m.Valid() || m.VertexCount == 0 {
		return 0, errInvalidMesh
	}

	gm := &glMesh{indexCount: int32(len(m.Indices))}
	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)
	gl.GenBuffers(int32(len(gm.buffers)), &gm.buffers[0])

	attribs := []struct {
		loc  uint32
		size int32
		data []float32
	}{
		{attribPosition, 3, m.Positions},
		{attribNormal, 3, m.Normals},
		{attribTexCoord, 2, m.UVs},
	}
	for i, a := range attribs {
		gl.BindBuffer(gl.ARRAY_BUFFER, gm.buffers[i])
		gl.BufferData(gl.ARRAY_BUFFER, len(a.data)*4, gl.Ptr(a.data), gl.STATIC_DRAW)
		gl.VertexAttribPointerWithOffset(a.loc, a.size, gl.FLOAT, false, 0, 0)
		gl.EnableVertexAttribArray(a.loc)
	}

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.buffers[3])
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*2, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		b.releaseGL(gm)
		return 0, fmt.Errorf("uploading mesh: GL error 0x%x", code)
	}

	h := scene.MeshHandle(gm.vao)
	b.meshes[h] = gm
	b.log.Debug("mesh uploaded",
		zap.Uint32("vao", gm.vao),
		zap.Int("vertices", m.VertexCount),
		zap.Int32("indices", gm.indexCount),
	)
	return h, nil
}

// UploadTexture uploads img with the size-dependent filter policy.
func (b *ModelBackend) UploadTexture(img *image.RGBA) (scene.TextureHandle, error) {
	if img.Bounds().Empty() {
		return 0, texture.ErrEmptyImage
	}
	return scene.TextureHandle(texture.Upload(img)), nil
}

// Draw renders the whole index buffer of mesh as a triangle list.
func (b *ModelBackend) Draw(mesh scene.MeshHandle, tex scene.TextureHandle, u scene.FrameUniforms) {
	gm, ok := b.meshes[mesh]
	if !ok || b.program == nil {
		return
	}

	p := b.program
	p.Use()
	gl.UniformMatrix4fv(p.Uniform("uProjection"), 1, false, u.Projection.Ptr())
	gl.UniformMatrix4fv(p.Uniform("uView"), 1, false, u.View.Ptr())
	gl.UniformMatrix4fv(p.Uniform("uModel"), 1, false, u.Model.Ptr())
	gl.UniformMatrix4fv(p.Uniform("uNormalMatrix"), 1, false, u.Normal.Ptr())
	gl.Uniform3fv(p.Uniform("uLightDirection"), 1, &u.LightDirection[0])
	gl.Uniform3fv(p.Uniform("uLightColor"), 1, &u.LightColor[0])
	gl.Uniform1f(p.Uniform("uLightIntensity"), u.LightIntensity)
	gl.Uniform1f(p.Uniform("uAmbient"), u.Ambient)
	gl.Uniform3fv(p.Uniform("uModelColor"), 1, &u.ModelColor[0])
	gl.Uniform1f(p.Uniform("uColorIntensity"), u.ColorIntensity)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, uint32(tex))
	gl.Uniform1i(p.Uniform("uTexture"), 0)

	gl.BindVertexArray(gm.vao)
	gl.DrawElements(gl.TRIANGLES, gm.indexCount, gl.UNSIGNED_SHORT, nil)
	gl.BindVertexArray(0)
}

// ReleaseMesh deletes the mesh's VAO and buffers.
func (b *ModelBackend) ReleaseMesh(mesh scene.MeshHandle) {
	gm, ok := b.meshes[mesh]
	if !ok {
		return
	}
	delete(b.meshes, mesh)
	b.releaseGL(gm)
}

func (b *ModelBackend) releaseGL(gm *glMesh) {
	gl.DeleteBuffers(int32(len(gm.buffers)), &gm.buffers[0])
	gl.DeleteVertexArrays(1, &gm.vao)
}

// ReleaseTexture deletes a texture created by UploadTexture.
func (b *ModelBackend) ReleaseTexture(tex scene.TextureHandle) {
	texture.Delete(uint32(tex))
}

// Close releases every mesh still held and the shader program.
func (b *ModelBackend) Close() {
	for h, gm := range b.meshes {
		b.releaseGL(gm)
		delete(b.meshes, h)
	}
	b.program.Delete()
}
