// Package renderer provides the OpenGL side of the demo scenes.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/folio3d/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	ClearColor [4]float32
}

// DefaultConfig returns a black clear color, matching the page canvas.
func DefaultConfig() Config {
	return Config{ClearColor: [4]float32{0, 0, 0, 1}}
}

// Info describes the GL implementation in use.
type Info struct {
	Version  string
	Renderer string
	Vendor   string
	GLSL     string
}

// Renderer owns context-wide GL state: function loading, depth testing,
// the viewport and framebuffer readback.
type Renderer struct {
	config Config
	info   Info
	width  int
	height int
}

// New loads GL function pointers and sets default state.
// Must be called after the GL context is current.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r := &Renderer{
		config: cfg,
		info: Info{
			Version:  gl.GoStr(gl.GetString(gl.VERSION)),
			Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
			Vendor:   gl.GoStr(gl.GetString(gl.VENDOR)),
			GLSL:     gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
		},
	}
	logger.Info("OpenGL initialized",
		zap.String("version", r.info.Version),
		zap.String("renderer", r.info.Renderer),
		zap.String("vendor", r.info.Vendor),
		zap.String("glsl", r.info.GLSL),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	return r, nil
}

// Info returns the GL implementation strings.
func (r *Renderer) Info() Info {
	return r.info
}

// Viewport matches the GL viewport to the drawable size. Calls with an
// unchanged size are free.
func (r *Renderer) Viewport(width, height int) {
	if width == r.width && height == r.height {
		return
	}
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

// Size returns the last viewport size.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Clear clears color and depth.
func (r *Renderer) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ReadPixels reads the back buffer as tightly packed RGBA, bottom row first.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.width, r.height
	if width <= 0 || height <= 0 {
		return nil, 0, 0
	}
	pixels = make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}

// Close releases nothing today; scenes own their resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
}
