package states

import (
	"context"

	"github.com/Faultbox/folio3d/internal/engine/scene"
)

// ModelScene is the part of scene.ModelScene the model state drives.
type ModelScene interface {
	Load(ctx context.Context, load scene.Loader)
	Frame(width, height int) bool
	Status() scene.Status
}

// ModelState shows the loaded OBJ model. The first Enter starts the load;
// the mesh stays resident across switches to other demos.
type ModelState struct {
	ctx    context.Context
	scene  ModelScene
	loader scene.Loader
}

// NewModelState creates the model state. Loads run under ctx.
func NewModelState(ctx context.Context, s ModelScene, loader scene.Loader) *ModelState {
	return &ModelState{ctx: ctx, scene: s, loader: loader}
}

func (s *ModelState) Name() string { return "model" }

func (s *ModelState) Enter() error {
	if s.scene.Status() == scene.StatusUninitialized {
		s.scene.Load(s.ctx, s.loader)
	}
	return nil
}

func (s *ModelState) Exit() error { return nil }

func (s *ModelState) Update(dt float64) error { return nil }

func (s *ModelState) Render(width, height int) error {
	s.scene.Frame(width, height)
	return nil
}

// Reload starts a hot reload with a possibly different loader.
func (s *ModelState) Reload(loader scene.Loader) {
	if loader != nil {
		s.loader = loader
	}
	s.scene.Load(s.ctx, s.loader)
}
