// Package scene drives the model viewer: load state machine, per-frame
// transform composition and the draw call, against a GPU Backend.
package scene

import (
	"context"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/folio3d/internal/engine/model"
	"github.com/Faultbox/folio3d/internal/engine/texture"
	"github.com/Faultbox/folio3d/internal/logger"
)

// LoadResult is what a load task delivers. Texture may be nil, in which case
// the flat white texture is used.
type LoadResult struct {
	Mesh     *model.Mesh
	Texture  *image.RGBA
	Fallback bool
	Source   string
}

// Loader produces a mesh and texture. It runs off the render thread and must
// not touch GPU state.
type Loader func(ctx context.Context) LoadResult

type loadMsg struct {
	gen    uint64
	result LoadResult
}

// Stats describes what the scene is currently drawing.
type Stats struct {
	Status    Status
	Vertices  int
	Triangles int
	Source    string
	Reloading bool
}

// ModelScene renders one textured, lit mesh with the transform and lighting
// from a shared State.
type ModelScene struct {
	backend        Backend
	state          *State
	cameraDistance float32
	log            *zap.Logger

	status  Status
	hasMesh bool
	mesh    MeshHandle
	tex     TextureHandle
	stats   Stats

	gen     uint64
	results chan loadMsg
	cancel  context.CancelFunc
}

// NewModelScene creates a scene in the Uninitialized state.
func NewModelScene(backend Backend, state *State, cameraDistance float32) *ModelScene {
	if cameraDistance <= 0 {
		cameraDistance = DefaultCameraDistance
	}
	return &ModelScene{
		backend:        backend,
		state:          state,
		cameraDistance: cameraDistance,
		log:            logger.Named("scene"),
		results:        make(chan loadMsg, 1),
	}
}

// Status returns the current load state.
func (s *ModelScene) Status() Status {
	return s.status
}

// Stats returns a snapshot of what is being drawn.
func (s *ModelScene) Stats() Stats {
	st := s.stats
	st.Status = s.status
	st.Reloading = s.status.Drawable() && s.cancel != nil
	return st
}

// Load starts load in a new goroutine. Any load still in flight is cancelled
// and its result, if it arrives anyway, is discarded: only the latest load
// can install a mesh. The first Load moves the scene to Loading; later calls
// are hot reloads and keep drawing the current mesh until the new one lands.
func (s *ModelScene) Load(ctx context.Context, load Loader) {
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if s.status == StatusUninitialized {
		s.status = StatusLoading
	}
	s.log.Debug("load started", zap.Uint64("generation", gen), zap.Stringer("status", s.status))

	go func() {
		res := load(ctx)
		select {
		case s.results <- loadMsg{gen: gen, result: res}:
		case <-ctx.Done():
		}
	}()
}

// Poll installs a finished load, if any, and reports whether it did.
// It must be called on the render thread.
func (s *ModelScene) Poll() bool {
	for {
		select {
		case msg := <-s.results:
			if msg.gen != s.gen {
				s.log.Debug("discarding stale load", zap.Uint64("generation", msg.gen), zap.Uint64("current", s.gen))
				continue
			}
			if s.cancel == nil {
				// Closed while the load was finishing.
				return false
			}
			s.cancel()
			s.cancel = nil
			return s.install(msg.result)
		default:
			return false
		}
	}
}

func (s *ModelScene) install(res LoadResult) bool {
	if s.hasMesh && res.Fallback {
		s.log.Warn("reload failed, keeping current mesh", zap.String("source", s.stats.Source))
		return false
	}

	if res.Mesh == nil || !res.Mesh.Valid() {
		s.log.Warn("load produced no usable mesh, using fallback quad")
		res = LoadResult{Mesh: model.FallbackQuad(), Fallback: true, Source: "fallback"}
	}
	if res.Texture == nil {
		res.Texture = texture.White()
	}

	mesh, tex, err := s.upload(res)
	if err != nil && !res.Fallback {
		s.log.Error("GPU upload failed, using fallback quad", zap.Error(err))
		res = LoadResult{Mesh: model.FallbackQuad(), Texture: texture.White(), Fallback: true, Source: "fallback"}
		mesh, tex, err = s.upload(res)
	}
	if err != nil {
		s.log.Error("fallback upload failed", zap.Error(err))
		return false
	}

	if s.hasMesh {
		s.backend.ReleaseMesh(s.mesh)
		s.backend.ReleaseTexture(s.tex)
	}
	s.mesh, s.tex, s.hasMesh = mesh, tex, true
	s.stats = Stats{
		Vertices:  res.Mesh.VertexCount,
		Triangles: res.Mesh.TriangleCount(),
		Source:    res.Source,
	}

	if s.status == StatusLoading {
		s.status = StatusReady
		if res.Fallback {
			s.status = StatusFallbackReady
		}
	}
	s.log.Info("mesh installed",
		zap.Stringer("status", s.status),
		zap.String("source", res.Source),
		zap.Int("vertices", s.stats.Vertices),
		zap.Int("triangles", s.stats.Triangles),
	)
	return true
}

func (s *ModelScene) upload(res LoadResult) (MeshHandle, TextureHandle, error) {
	mesh, err := s.backend.UploadMesh(res.Mesh)
	if err != nil {
		return 0, 0, err
	}
	tex, err := s.backend.UploadTexture(res.Texture)
	if err != nil {
		s.backend.ReleaseMesh(mesh)
		return 0, 0, err
	}
	return mesh, tex, nil
}

// Frame renders one frame at the given drawable size and reports whether
// anything was drawn. Until a mesh is installed it does nothing at all.
func (s *ModelScene) Frame(width, height int) bool {
	s.Poll()
	if !s.hasMesh {
		return false
	}

	s.state.Advance()
	s.backend.Viewport(width, height)
	s.backend.Clear()
	s.backend.Draw(s.mesh, s.tex, s.state.Uniforms(width, height, s.cameraDistance))
	return true
}

// Close cancels any load in flight and releases GPU resources.
func (s *ModelScene) Close() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.hasMesh {
		s.backend.ReleaseMesh(s.mesh)
		s.backend.ReleaseTexture(s.tex)
		s.hasMesh = false
	}
}
