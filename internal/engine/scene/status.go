package scene

// Status is the load state of a model scene.
//
// A scene moves Uninitialized -> Loading on its first Load, then to Ready or
// FallbackReady once a mesh is on the GPU. It never goes back: hot reloads
// swap the mesh while the scene stays in its terminal state.
type Status int

const (
	StatusUninitialized Status = iota
	StatusLoading
	StatusReady
	StatusFallbackReady
)

func (s Status) String() string {
	switch s {
	case StatusUninitialized:
		return "uninitialized"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFallbackReady:
		return "fallback-ready"
	default:
		return "unknown"
	}
}

// Drawable reports whether the scene has a mesh to draw in this status.
func (s Status) Drawable() bool {
	return s == StatusReady || s == StatusFallbackReady
}
