// Package viewer implements the main loop: window, input, controls and the
// demo scenes.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/folio3d/internal/assets"
	"github.com/Faultbox/folio3d/internal/config"
	"github.com/Faultbox/folio3d/internal/controls"
	"github.com/Faultbox/folio3d/internal/engine/debug"
	"github.com/Faultbox/folio3d/internal/engine/input"
	"github.com/Faultbox/folio3d/internal/engine/renderer"
	"github.com/Faultbox/folio3d/internal/engine/scene"
	"github.com/Faultbox/folio3d/internal/engine/window"
	"github.com/Faultbox/folio3d/internal/logger"
	"github.com/Faultbox/folio3d/internal/preset"
	"github.com/Faultbox/folio3d/internal/viewer/states"
)

// Title is the base window title.
const Title = "folio3d"

// Viewer is the main viewer instance.
type Viewer struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	ctx    context.Context
	cancel context.CancelFunc

	window   *window.Window
	renderer *renderer.Renderer // nil in placeholder mode
	input    *input.Input

	state *scene.State
	panel *controls.Panel

	assets   *assets.Manager
	pipeline *assets.Pipeline
	request  assets.Request
	watcher  *assets.Watcher

	backend    *renderer.ModelBackend
	modelScene *scene.ModelScene
	cube       *renderer.Cube
	square     *renderer.Square
	states     *states.Manager
	model      *states.ModelState
	demos      map[string]states.State

	screenshots *debug.ScreenshotCapture
	capture     bool
}

// New creates the window and everything that draws into it. A missing GL
// context is not an error: the viewer runs as a placeholder instead.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:         cfg,
		log:         logger.Named("viewer"),
		input:       input.New(),
		demos:       make(map[string]states.State),
		states:      states.NewManager(),
		screenshots: debug.NewScreenshotCapture(cfg.Screenshots.Dir, cfg.Screenshots.Prefix),
		request: assets.Request{
			Model:   cfg.Scene.Model,
			Texture: cfg.Scene.Texture,
		},
	}
	v.ctx, v.cancel = context.WithCancel(context.Background())

	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("demo", cfg.Graphics.Demo),
		zap.String("model", cfg.Scene.Model),
		zap.String("texture", cfg.Scene.Texture),
	)

	st := scene.DefaultState()
	v.state = &st
	v.panel = controls.NewPanel(v.state, preset.NewStore(cfg.PresetPath(), cfg.Preset.Key))
	if err := v.panel.Apply(cfg.Controls); err != nil {
		v.log.Warn("ignoring invalid startup controls", zap.Error(err))
	}

	resolver, err := assets.NewResolver(cfg.Scene.Page, cfg.Scene.SiteRoot)
	if err != nil {
		v.cancel()
		return nil, fmt.Errorf("resolving page: %w", err)
	}
	v.log.Info("resolving assets", zap.String("page", resolver.Page()))
	v.assets = assets.NewManager(cfg.Scene.FetchTimeout)
	v.pipeline = assets.NewPipeline(v.assets, resolver)

	v.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		v.cancel()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if v.window.Mode() == window.ModeGL {
		// Renderer comes AFTER the window, since the GL context must exist
		if err := v.initGL(); err != nil {
			v.log.Error("renderer unavailable", zap.Error(err))
			if derr := v.window.Degrade(err); derr != nil {
				v.Close()
				return nil, fmt.Errorf("failed to open placeholder: %w", derr)
			}
		}
	}

	if cfg.Scene.Watch {
		v.startWatcher()
	}

	v.log.Info("viewer initialized", zap.Stringer("mode", v.window.Mode()))
	return v, nil
}

func (v *Viewer) initGL() error {
	r, err := renderer.New(renderer.DefaultConfig())
	if err != nil {
		return err
	}
	v.renderer = r

	dist := v.cfg.Scene.CameraDistance
	v.backend = renderer.NewModelBackend(r)
	if !v.backend.HasProgram() {
		v.log.Warn("model shader unavailable, model demo will show only the clear color")
	}
	v.modelScene = scene.NewModelScene(v.backend, v.state, dist)
	v.model = states.NewModelState(v.ctx, v.modelScene, sceneLoader(v.pipeline, v.request))
	v.demos[config.DemoModel] = v.model

	if v.cube, err = renderer.NewCube(r, v.state, dist); err != nil {
		v.log.Error("cube demo disabled", zap.Error(err))
	} else {
		v.demos[config.DemoCube] = states.NewDemoState(config.DemoCube, v.cube)
	}
	if v.square, err = renderer.NewSquare(r); err != nil {
		v.log.Error("square demo disabled", zap.Error(err))
	} else {
		v.demos[config.DemoSquare] = states.NewDemoState(config.DemoSquare, v.square)
	}

	v.switchDemo(v.cfg.Graphics.Demo)
	return nil
}

func (v *Viewer) startWatcher() {
	paths := watchPaths(v.pipeline, v.request)
	if len(paths) == 0 {
		v.log.Info("nothing local to watch")
		return
	}
	w, err := assets.NewWatcher(assets.DefaultDebounce, paths...)
	if err != nil {
		v.log.Warn("file watching disabled", zap.Error(err))
		return
	}
	v.watcher = w
}

func (v *Viewer) switchDemo(name string) {
	st, ok := v.demos[name]
	if !ok {
		v.log.Warn("demo unavailable, showing model", zap.String("demo", name))
		st = v.demos[config.DemoModel]
	}
	if st != nil {
		v.states.Change(st)
	}
}

// reload drops cached bytes and loads the current request again.
func (v *Viewer) reload(reason string) {
	if v.model == nil {
		return
	}
	hits, misses := v.assets.Cache().Stats()
	v.log.Info("reloading model", zap.String("reason", reason),
		zap.String("model", v.request.Model), zap.String("texture", v.request.Texture),
		zap.Int("cacheHits", hits), zap.Int("cacheMisses", misses))
	invalidate(v.assets, v.pipeline, v.request)
	v.model.Reload(sceneLoader(v.pipeline, v.request))
}

// Run starts the main loop and returns when the window closes.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting main loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		for _, event := range v.input.Events() {
			v.handleEvent(event)
		}
		v.pollWatcher()

		// 2. Update and render
		if v.renderer != nil {
			if err := v.states.Update(dt); err != nil {
				return fmt.Errorf("update error: %w", err)
			}
			width, height := v.window.DrawableSize()
			if err := v.states.Render(width, height); err != nil {
				return fmt.Errorf("render error: %w", err)
			}
			if v.capture {
				v.capture = false
				v.takeScreenshot()
			}
		}

		// 3. Present
		v.window.Present()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.updateTitle(frameCount)
			v.log.Debug("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		v.log.Debug("window resized", zap.Int("width", event.Width), zap.Int("height", event.Height))
		return
	case input.EventFileDrop:
		v.request = applyDrop(v.request, event.Path)
		v.reload("file dropped")
		return
	case input.EventKeyDown:
		if v.handleKey(event) {
			return
		}
	}
	v.panel.Handle(event)
}

func (v *Viewer) handleKey(event input.Event) bool {
	if event.Repeat {
		return false
	}
	switch event.Key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
	case sdl.SCANCODE_1:
		v.switchDemo(config.DemoModel)
	case sdl.SCANCODE_2:
		v.switchDemo(config.DemoCube)
	case sdl.SCANCODE_3:
		v.switchDemo(config.DemoSquare)
	case sdl.SCANCODE_F5:
		v.reload("requested")
	case sdl.SCANCODE_F11:
		v.window.ToggleFullscreen()
	case sdl.SCANCODE_F12:
		v.capture = true
	default:
		return false
	}
	return true
}

func (v *Viewer) pollWatcher() {
	if v.watcher == nil {
		return
	}
	select {
	case changed := <-v.watcher.Changes():
		v.log.Info("assets changed on disk", zap.Strings("files", changed))
		v.reload("file changed")
	default:
	}
}

func (v *Viewer) takeScreenshot() {
	pixels, width, height := v.renderer.ReadPixels()
	path, err := v.screenshots.CaptureFromPixels(pixels, width, height)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

func (v *Viewer) updateTitle(fps int) {
	cur := v.states.Current()
	if cur == nil {
		return
	}
	title := fmt.Sprintf("%s - %s - %d fps", Title, cur.Name(), fps)
	if cur == states.State(v.model) {
		st := v.modelScene.Stats()
		title = fmt.Sprintf("%s - %s %d verts %d tris - %d fps", Title, st.Status, st.Vertices, st.Triangles, fps)
	}
	v.window.SetTitle(title)
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	v.cancel()
	if v.watcher != nil {
		v.watcher.Close()
	}
	if err := v.states.Close(); err != nil {
		v.log.Warn("closing state", zap.Error(err))
	}
	if v.modelScene != nil {
		v.modelScene.Close()
	}
	if v.backend != nil {
		v.backend.Close()
	}
	if v.cube != nil {
		v.cube.Close()
	}
	if v.square != nil {
		v.square.Close()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
