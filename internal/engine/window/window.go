// Package window handles the SDL2 window, OpenGL context creation and the
// placeholder surface used when no GL context can be had.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/folio3d/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Mode is what the window can draw with.
type Mode int

const (
	// ModeGL has a current OpenGL 4.1 core context.
	ModeGL Mode = iota
	// ModePlaceholder has no GL; the window shows a flat fill and a message
	// in its title, and no draw calls are made.
	ModePlaceholder
)

func (m Mode) String() string {
	if m == ModeGL {
		return "gl"
	}
	return "placeholder"
}

// PlaceholderColor is the fill shown when rendering is unavailable.
var PlaceholderColor = sdl.Color{R: 0x33, G: 0x00, B: 0x00, A: 0xff}

// PlaceholderMessage is appended to the title in placeholder mode.
const PlaceholderMessage = "OpenGL not supported"

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	// Placeholder skips GL context creation entirely.
	Placeholder bool
}

// Window wraps the SDL2 window and either a GL context or a software renderer.
type Window struct {
	config      Config
	mode        Mode
	sdlWindow   *sdl.Window
	glContext   sdl.GLContext
	placeholder *sdl.Renderer
	log         *zap.Logger
}

// New opens a window. If a GL context cannot be created the window degrades
// to placeholder mode instead of failing; only a missing video subsystem is
// an error.
func New(cfg Config) (*Window, error) {
	w := &Window{config: cfg, log: logger.Named("window")}

	w.log.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	if !cfg.Placeholder {
		err := w.openGL()
		if err == nil {
			w.log.Info("window created",
				zap.String("title", cfg.Title),
				zap.Int("width", cfg.Width),
				zap.Int("height", cfg.Height),
				zap.Bool("fullscreen", cfg.Fullscreen),
				zap.Bool("vsync", cfg.VSync),
			)
			return w, nil
		}
		w.log.Warn("OpenGL unavailable, using placeholder", zap.Error(err))
	}

	if err := w.openPlaceholder(); err != nil {
		sdl.Quit()
		return nil, err
	}
	return w, nil
}

func (w *Window) flags(base uint32) uint32 {
	flags := base | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI
	if w.config.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	return flags
}

func (w *Window) openGL() error {
	// 4.1 core is the highest profile macOS offers.
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	win, err := sdl.CreateWindow(w.config.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(w.config.Width), int32(w.config.Height),
		w.flags(sdl.WINDOW_OPENGL))
	if err != nil {
		return fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	ctx, err := win.GLCreateContext()
	if err != nil {
		win.Destroy()
		return fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := 0
	if w.config.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		w.log.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	w.sdlWindow, w.glContext, w.mode = win, ctx, ModeGL
	return nil
}

func (w *Window) openPlaceholder() error {
	if w.sdlWindow == nil {
		win, err := sdl.CreateWindow(w.config.Title,
			sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
			int32(w.config.Width), int32(w.config.Height),
			w.flags(sdl.WINDOW_SHOWN))
		if err != nil {
			return fmt.Errorf("SDL_CreateWindow failed: %w", err)
		}
		w.sdlWindow = win
	}

	rend, err := sdl.CreateRenderer(w.sdlWindow, -1, sdl.RENDERER_SOFTWARE)
	if err != nil {
		w.sdlWindow.Destroy()
		w.sdlWindow = nil
		return fmt.Errorf("SDL_CreateRenderer failed: %w", err)
	}
	w.placeholder, w.mode = rend, ModePlaceholder
	w.sdlWindow.SetTitle(w.config.Title + " - " + PlaceholderMessage)
	w.log.Info("placeholder window created", zap.String("reason", PlaceholderMessage))
	return nil
}

// Degrade drops the GL context and switches an open window to placeholder
// mode. Used when the context exists but GL itself cannot be initialized.
func (w *Window) Degrade(reason error) error {
	if w.mode == ModePlaceholder {
		return nil
	}
	w.log.Warn("degrading to placeholder", zap.Error(reason))
	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
		w.glContext = nil
	}
	return w.openPlaceholder()
}

// Mode returns what the window draws with.
func (w *Window) Mode() Mode {
	return w.mode
}

// Close destroys the window and shuts SDL2 down.
func (w *Window) Close() {
	w.log.Info("closing window")

	if w.placeholder != nil {
		w.placeholder.Destroy()
	}
	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}
	sdl.Quit()
}

// Present shows the frame: a buffer swap with GL, a flat fill otherwise.
func (w *Window) Present() {
	if w.mode == ModeGL {
		w.sdlWindow.GLSwap()
		return
	}
	c := PlaceholderColor
	w.placeholder.SetDrawColor(c.R, c.G, c.B, c.A)
	w.placeholder.Clear()
	w.placeholder.Present()
}

// Size returns the window size in screen coordinates.
func (w *Window) Size() (int, int) {
	width, height := w.sdlWindow.GetSize()
	return int(width), int(height)
}

// DrawableSize returns the size in pixels, which differs from Size on
// high-DPI displays. The viewport is set from this every frame.
func (w *Window) DrawableSize() (int, int) {
	if w.mode == ModeGL {
		width, height := w.sdlWindow.GLGetDrawableSize()
		return int(width), int(height)
	}
	width, height, err := w.placeholder.GetOutputSize()
	if err != nil {
		return w.Size()
	}
	return int(width), int(height)
}

// SetTitle sets the window title. Placeholder windows keep their message.
func (w *Window) SetTitle(title string) {
	if w.mode == ModePlaceholder {
		title += " - " + PlaceholderMessage
	}
	w.sdlWindow.SetTitle(title)
}

// ToggleFullscreen switches between windowed and desktop fullscreen.
func (w *Window) ToggleFullscreen() {
	w.config.Fullscreen = !w.config.Fullscreen
	var flags uint32
	if w.config.Fullscreen {
		flags = sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if err := w.sdlWindow.SetFullscreen(flags); err != nil {
		w.log.Warn("fullscreen toggle failed", zap.Error(err))
	}
}
