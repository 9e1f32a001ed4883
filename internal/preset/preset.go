// Package preset persists a snapshot of the viewer's transform and lighting
// state under a named entry in a YAML file.
//
// The file may hold other entries; Save rewrites only its own key. Load
// decodes field by field so that entries written by older versions, or
// edited by hand, still load: any field that is absent or malformed takes
// its default value.
package preset

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/folio3d/internal/engine/scene"
	"github.com/Faultbox/folio3d/internal/logger"
)

// DefaultKey is the entry name used when none is configured.
const DefaultKey = "webglModelPreset"

// DefaultFile is the preset file name inside the config directory.
const DefaultFile = "presets.yaml"

// ErrNoPreset is returned by Load when the file or the entry does not exist.
var ErrNoPreset = errors.New("no preset saved")

// Entry is the on-disk form of scene.State. Rotation is in radians.
type Entry struct {
	Rotation       [3]float32 `yaml:"rotation"`
	Scale          [3]float32 `yaml:"scale"`
	Position       [3]float32 `yaml:"position"`
	ModelColor     [3]float32 `yaml:"modelColor"`
	ColorIntensity float32    `yaml:"colorIntensity"`
	LightDirection [3]float32 `yaml:"lightDirection"`
	LightColor     [3]float32 `yaml:"lightColor"`
	LightIntensity float32    `yaml:"lightIntensity"`
	AmbientLight   float32    `yaml:"ambientLight"`
	AutoRotate     bool       `yaml:"autoRotate"`
}

// FromState converts a state into its stored form.
func FromState(s scene.State) Entry {
	return Entry{
		Rotation:       s.Transform.Rotation,
		Scale:          s.Transform.Scale,
		Position:       s.Transform.Position,
		ModelColor:     s.Lighting.ModelColor,
		ColorIntensity: s.Lighting.ColorIntensity,
		LightDirection: s.Lighting.Direction,
		LightColor:     s.Lighting.Color,
		LightIntensity: s.Lighting.Intensity,
		AmbientLight:   s.Lighting.Ambient,
		AutoRotate:     s.AutoRotate,
	}
}

// State converts the entry back into a scene state.
func (e Entry) State() scene.State {
	return scene.State{
		Transform: scene.Transform{
			Rotation: e.Rotation,
			Scale:    e.Scale,
			Position: e.Position,
		},
		Lighting: scene.Lighting{
			Direction:      e.LightDirection,
			Color:          e.LightColor,
			Intensity:      e.LightIntensity,
			Ambient:        e.AmbientLight,
			ModelColor:     e.ModelColor,
			ColorIntensity: e.ColorIntensity,
		},
		AutoRotate: e.AutoRotate,
	}
}

// Store reads and writes one named entry of a preset file.
type Store struct {
	path string
	key  string
	log  *zap.Logger
}

// NewStore creates a store for key in the file at path.
func NewStore(path, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		path: path,
		key:  key,
		log:  logger.Named("preset"),
	}
}

// Path returns the preset file path.
func (s *Store) Path() string {
	return s.path
}

// Save writes the state under the store's key, keeping other entries.
func (s *Store) Save(st scene.State) error {
	doc, err := s.readAll()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if doc == nil {
		doc = make(map[string]yaml.Node)
	}

	var node yaml.Node
	if err := node.Encode(FromState(st)); err != nil {
		return fmt.Errorf("encoding preset: %w", err)
	}
	doc[s.key] = node

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling presets: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating preset directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing presets: %w", err)
	}
	s.log.Debug("preset written", zap.String("path", s.path), zap.String("key", s.key))
	return nil
}

// Load returns the stored state. Fields that are missing or cannot be
// decoded are replaced by scene.DefaultState values.
func (s *Store) Load() (scene.State, error) {
	doc, err := s.readAll()
	if errors.Is(err, os.ErrNotExist) {
		return scene.State{}, ErrNoPreset
	}
	if err != nil {
		return scene.State{}, err
	}
	node, ok := doc[s.key]
	if !ok {
		return scene.State{}, ErrNoPreset
	}
	return s.decode(&node), nil
}

func (s *Store) readAll() (map[string]yaml.Node, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	doc := make(map[string]yaml.Node)
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *Store) decode(node *yaml.Node) scene.State {
	e := FromState(scene.DefaultState())

	var fields map[string]yaml.Node
	if err := node.Decode(&fields); err != nil {
		s.log.Warn("preset entry is not a mapping, using defaults", zap.Error(err))
		return e.State()
	}

	targets := map[string]any{
		"rotation":       &e.Rotation,
		"scale":          &e.Scale,
		"position":       &e.Position,
		"modelColor":     &e.ModelColor,
		"colorIntensity": &e.ColorIntensity,
		"lightDirection": &e.LightDirection,
		"lightColor":     &e.LightColor,
		"lightIntensity": &e.LightIntensity,
		"ambientLight":   &e.AmbientLight,
		"autoRotate":     &e.AutoRotate,
	}
	for name, target := range targets {
		n, ok := fields[name]
		if !ok {
			continue
		}
		prev := e
		err := decodeField(&n, target)
		if check := limits[name]; err == nil && check != nil {
			err = check(&e)
		}
		if err != nil {
			e = prev
			s.log.Warn("malformed preset field, using default",
				zap.String("field", name), zap.Error(err))
		}
	}
	return e.State()
}

// limits mirrors the ranges the control panel accepts.
var limits = map[string]func(e *Entry) error{
	"scale": func(e *Entry) error {
		for _, v := range e.Scale {
			if v <= 0 {
				return fmt.Errorf("scale %v must be positive", e.Scale)
			}
		}
		return nil
	},
	"colorIntensity": func(e *Entry) error { return inUnit(e.ColorIntensity) },
	"ambientLight":   func(e *Entry) error { return inUnit(e.AmbientLight) },
	"lightIntensity": func(e *Entry) error {
		if e.LightIntensity < 0 {
			return fmt.Errorf("%v must not be negative", e.LightIntensity)
		}
		return nil
	},
}

func inUnit(v float32) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%v outside [0, 1]", v)
	}
	return nil
}

func finite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}

// decodeField decodes n into target only if it decodes cleanly; target
// keeps its previous value otherwise.
func decodeField(n *yaml.Node, target any) error {
	switch t := target.(type) {
	case *[3]float32:
		if n.Kind != yaml.SequenceNode || len(n.Content) != 3 {
			return fmt.Errorf("want a list of 3 numbers at line %d", n.Line)
		}
		var v [3]float32
		if err := n.Decode(&v); err != nil {
			return err
		}
		for _, c := range v {
			if !finite(c) {
				return fmt.Errorf("non-finite value at line %d", n.Line)
			}
		}
		*t = v
	case *float32:
		var v float32
		if err := n.Decode(&v); err != nil {
			return err
		}
		if !finite(v) {
			return fmt.Errorf("non-finite value at line %d", n.Line)
		}
		*t = v
	case *bool:
		var v bool
		if err := n.Decode(&v); err != nil {
			return err
		}
		*t = v
	default:
		return fmt.Errorf("unsupported field type %T", target)
	}
	return nil
}
