package states

// Framer draws one self-contained frame.
type Framer interface {
	Frame(width, height int) bool
}

// DemoState wraps a fixed-geometry demo (cube, square).
type DemoState struct {
	name   string
	framer Framer
	frames int
}

// NewDemoState creates a demo state named name.
func NewDemoState(name string, f Framer) *DemoState {
	return &DemoState{name: name, framer: f}
}

func (s *DemoState) Name() string { return s.name }

func (s *DemoState) Enter() error {
	s.frames = 0
	return nil
}

func (s *DemoState) Exit() error { return nil }

func (s *DemoState) Update(dt float64) error { return nil }

func (s *DemoState) Render(width, height int) error {
	if s.framer.Frame(width, height) {
		s.frames++
	}
	return nil
}

// Frames returns the number of frames drawn since the last Enter.
func (s *DemoState) Frames() int {
	return s.frames
}
