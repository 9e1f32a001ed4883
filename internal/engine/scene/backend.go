package scene

import (
	"image"

	"github.com/Faultbox/folio3d/internal/engine/model"
	"github.com/Faultbox/folio3d/pkg/math"
)

// MeshHandle and TextureHandle identify GPU resources owned by a Backend.
type (
	MeshHandle    uint32
	TextureHandle uint32
)

// FrameUniforms carries everything the model shader reads per draw.
type FrameUniforms struct {
	Projection math.Mat4
	View       math.Mat4
	Model      math.Mat4
	Normal     math.Mat4

	LightDirection [3]float32
	LightColor     [3]float32
	LightIntensity float32
	Ambient        float32
	ModelColor     [3]float32
	ColorIntensity float32
}

// Backend performs the GPU side of a model scene. The OpenGL implementation
// lives in the renderer package. All methods are called on the render thread.
type Backend interface {
	Viewport(width, height int)
	Clear()
	UploadMesh(mesh *model.Mesh) (MeshHandle, error)
	UploadTexture(img *image.RGBA) (TextureHandle, error)
	// Draw issues one indexed triangle-list draw over the whole index buffer.
	Draw(mesh MeshHandle, tex TextureHandle, u FrameUniforms)
	ReleaseMesh(mesh MeshHandle)
	ReleaseTexture(tex TextureHandle)
}

// Uniforms builds the per-frame uniforms for a drawable of the given size.
func (s *State) Uniforms(width, height int, cameraDistance float32) FrameUniforms {
	l := s.Lighting
	return FrameUniforms{
		Projection:     ProjectionMatrix(width, height),
		View:           ViewMatrix(cameraDistance),
		Model:          s.ModelMatrix(),
		Normal:         s.NormalMatrix(),
		LightDirection: l.Direction,
		LightColor:     l.Color,
		LightIntensity: l.Intensity,
		Ambient:        l.Ambient,
		ModelColor:     l.ModelColor,
		ColorIntensity: l.ColorIntensity,
	}
}
