// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	Graphics    GraphicsConfig    `yaml:"graphics"`
	Scene       SceneConfig       `yaml:"scene"`
	Controls    map[string]string `yaml:"controls"` // control identifier -> startup value
	Preset      PresetConfig      `yaml:"preset"`
	Screenshots ScreenshotConfig  `yaml:"screenshots"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	Demo       string `yaml:"demo"` // model, cube or square
}

// SceneConfig describes what to load and how.
type SceneConfig struct {
	Model          string        `yaml:"model"`
	Texture        string        `yaml:"texture"`
	Page           string        `yaml:"page"`      // location references resolve against; empty = working dir
	SiteRoot       string        `yaml:"site_root"` // root for the origin strategy on file pages
	CameraDistance float32       `yaml:"camera_distance"`
	Watch          bool          `yaml:"watch"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`
}

// PresetConfig locates the saved preset.
type PresetConfig struct {
	Path string `yaml:"path"` // empty = presets.yaml in ConfigDir
	Key  string `yaml:"key"`
}

// ScreenshotConfig holds screenshot capture settings.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Demo scene names.
const (
	DemoModel  = "model"
	DemoCube   = "cube"
	DemoSquare = "square"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Demo:       DemoModel,
		},
		Scene: SceneConfig{
			Model:          "models/model.obj",
			Texture:        "models/texture.png",
			CameraDistance: 5,
			FetchTimeout:   15 * time.Second,
		},
		Controls: map[string]string{},
		Preset: PresetConfig{
			Key: "webglModelPreset",
		},
		Screenshots: ScreenshotConfig{
			Dir:    "screenshots",
			Prefix: "folio3d",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// PresetPath returns the preset file path, defaulting into ConfigDir.
func (c *Config) PresetPath() string {
	if c.Preset.Path != "" {
		return c.Preset.Path
	}
	return defaultPresetPath()
}
