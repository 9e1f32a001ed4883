// Package controls is the viewer's control surface: named controls that
// write into the shared scene state, plus pointer and keyboard bindings.
package controls

import (
	"errors"
	"fmt"
	gomath "math"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/folio3d/internal/engine/scene"
	"github.com/Faultbox/folio3d/internal/logger"
	"github.com/Faultbox/folio3d/pkg/math"
)

// Control errors. On error the state is left untouched.
var (
	ErrUnknownControl = errors.New("unknown control")
	ErrInvalidValue   = errors.New("invalid control value")
	ErrNoPresetStore  = errors.New("no preset store configured")
)

// DragSensitivity is the rotation applied per pixel of pointer drag, in radians.
const DragSensitivity = 0.01

// ZoomFactor scales the model per wheel step.
const ZoomFactor = 1.1

// PresetStore persists a state snapshot.
type PresetStore interface {
	Save(s scene.State) error
	Load() (scene.State, error)
}

type control struct {
	set func(s *scene.State, v string) error
	get func(s *scene.State) string
}

// Panel applies control changes to a State. Writes take effect immediately;
// the next frame sees the last value written.
type Panel struct {
	state    *scene.State
	presets  PresetStore
	controls map[string]control
	log      *zap.Logger
}

// NewPanel creates a panel over state. presets may be nil.
func NewPanel(state *scene.State, presets PresetStore) *Panel {
	p := &Panel{
		state:   state,
		presets: presets,
		log:     logger.Named("controls"),
	}
	p.controls = p.register()
	return p
}

func (p *Panel) register() map[string]control {
	c := make(map[string]control)
	axes := [3]string{"X", "Y", "Z"}

	for i, axis := range axes {
		i := i
		c["rotation"+axis] = control{
			set: func(s *scene.State, v string) error {
				deg, err := parseFloat(v)
				if err != nil {
					return err
				}
				s.SetRotation(i, math.DegToRad(deg))
				return nil
			},
			get: func(s *scene.State) string { return formatFloat(math.RadToDeg(s.Transform.Rotation[i])) },
		}
		c["scale"+axis] = control{
			set: func(s *scene.State, v string) error {
				f, err := parsePositive(v)
				if err != nil {
					return err
				}
				s.Transform.Scale[i] = f
				return nil
			},
			get: func(s *scene.State) string { return formatFloat(s.Transform.Scale[i]) },
		}
		c["position"+axis] = control{
			set: func(s *scene.State, v string) error {
				f, err := parseFloat(v)
				if err != nil {
					return err
				}
				s.Transform.Position[i] = f
				return nil
			},
			get: func(s *scene.State) string { return formatFloat(s.Transform.Position[i]) },
		}
		c["lightDirection"+axis] = control{
			set: func(s *scene.State, v string) error {
				f, err := parseFloat(v)
				if err != nil {
					return err
				}
				s.Lighting.Direction[i] = f
				return nil
			},
			get: func(s *scene.State) string { return formatFloat(s.Lighting.Direction[i]) },
		}
	}

	c["uniformScale"] = control{
		set: func(s *scene.State, v string) error {
			f, err := parsePositive(v)
			if err != nil {
				return err
			}
			s.Transform.Scale = [3]float32{f, f, f}
			return nil
		},
		get: func(s *scene.State) string { return formatFloat(s.Transform.Scale[0]) },
	}
	c["modelColor"] = colorControl(func(s *scene.State) *[3]float32 { return &s.Lighting.ModelColor })
	c["lightColor"] = colorControl(func(s *scene.State) *[3]float32 { return &s.Lighting.Color })
	c["colorIntensity"] = unitControl(func(s *scene.State) *float32 { return &s.Lighting.ColorIntensity })
	c["ambientLight"] = unitControl(func(s *scene.State) *float32 { return &s.Lighting.Ambient })
	c["lightIntensity"] = control{
		set: func(s *scene.State, v string) error {
			f, err := parseFloat(v)
			if err != nil {
				return err
			}
			if f < 0 {
				return fmt.Errorf("%w: %q is negative", ErrInvalidValue, v)
			}
			s.Lighting.Intensity = f
			return nil
		},
		get: func(s *scene.State) string { return formatFloat(s.Lighting.Intensity) },
	}
	c["autoRotate"] = control{
		set: func(s *scene.State, v string) error {
			b, err := parseBool(v)
			if err != nil {
				return err
			}
			s.AutoRotate = b
			return nil
		},
		get: func(s *scene.State) string { return strconv.FormatBool(s.AutoRotate) },
	}
	return c
}

func colorControl(field func(*scene.State) *[3]float32) control {
	return control{
		set: func(s *scene.State, v string) error {
			rgb, err := ParseHexColor(v)
			if err != nil {
				return err
			}
			*field(s) = rgb
			return nil
		},
		get: func(s *scene.State) string { return FormatHexColor(*field(s)) },
	}
}

// unitControl accepts values in [0, 1].
func unitControl(field func(*scene.State) *float32) control {
	return control{
		set: func(s *scene.State, v string) error {
			f, err := parseFloat(v)
			if err != nil {
				return err
			}
			if f < 0 || f > 1 {
				return fmt.Errorf("%w: %q outside [0, 1]", ErrInvalidValue, v)
			}
			*field(s) = f
			return nil
		},
		get: func(s *scene.State) string { return formatFloat(*field(s)) },
	}
}

// Set writes one control by identifier.
func (p *Panel) Set(id, value string) error {
	c, ok := p.controls[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownControl, id)
	}
	if err := c.set(p.state, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	p.log.Debug("control set", zap.String("id", id), zap.String("value", value))
	return nil
}

// Get reads one control in the same format Set accepts.
func (p *Panel) Get(id string) (string, error) {
	c, ok := p.controls[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownControl, id)
	}
	return c.get(p.state), nil
}

// IDs returns every recognized identifier, sorted.
func (p *Panel) IDs() []string {
	ids := make([]string, 0, len(p.controls))
	for id := range p.controls {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Apply sets every control in values, in identifier order. Controls that
// are absent keep their current value. All failures are returned together;
// the valid entries are still applied.
func (p *Panel) Apply(values map[string]string) error {
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var errs error
	for _, id := range ids {
		errs = multierr.Append(errs, p.Set(id, values[id]))
	}
	return errs
}

// Drag rotates the model by a pointer drag in pixels and stops auto-rotation.
func (p *Panel) Drag(dx, dy int) {
	if dx == 0 && dy == 0 {
		return
	}
	r := p.state.Transform.Rotation
	p.state.SetRotation(1, r[1]+float32(dx)*DragSensitivity)
	p.state.SetRotation(0, r[0]+float32(dy)*DragSensitivity)
}

// Zoom scales the model uniformly by ZoomFactor per step; negative steps shrink it.
func (p *Panel) Zoom(steps int) {
	if steps == 0 {
		return
	}
	f := float32(gomath.Pow(ZoomFactor, float64(steps)))
	for i := range p.state.Transform.Scale {
		p.state.Transform.Scale[i] *= f
	}
}

// ToggleAutoRotate flips auto-rotation.
func (p *Panel) ToggleAutoRotate() {
	p.state.AutoRotate = !p.state.AutoRotate
}

// Reset restores the default state.
func (p *Panel) Reset() {
	*p.state = scene.DefaultState()
	p.log.Info("controls reset")
}

// SavePreset stores the current state.
func (p *Panel) SavePreset() error {
	if p.presets == nil {
		return ErrNoPresetStore
	}
	if err := p.presets.Save(*p.state); err != nil {
		return fmt.Errorf("saving preset: %w", err)
	}
	p.log.Info("preset saved")
	return nil
}

// LoadPreset replaces the current state with the stored one. On error the
// state is unchanged.
func (p *Panel) LoadPreset() error {
	if p.presets == nil {
		return ErrNoPresetStore
	}
	s, err := p.presets.Load()
	if err != nil {
		return fmt.Errorf("loading preset: %w", err)
	}
	*p.state = s
	p.log.Info("preset loaded")
	return nil
}

func parseFloat(v string) (float32, error) {
	f, err := strconv.ParseFloat(v, 32)
	if err != nil || gomath.IsNaN(f) || gomath.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, v)
	}
	return float32(f), nil
}

func parsePositive(v string) (float32, error) {
	f, err := parseFloat(v)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidValue, v)
	}
	return f, nil
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "true", "on", "1", "yes":
		return true, nil
	case "false", "off", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, v)
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// ParseHexColor parses #rrggbb into components in [0, 1].
func ParseHexColor(v string) ([3]float32, error) {
	if len(v) != 7 || v[0] != '#' {
		return [3]float32{}, fmt.Errorf("%w: %q is not #rrggbb", ErrInvalidValue, v)
	}
	n, err := strconv.ParseUint(v[1:], 16, 32)
	if err != nil {
		return [3]float32{}, fmt.Errorf("%w: %q is not #rrggbb", ErrInvalidValue, v)
	}
	return [3]float32{
		float32(n>>16&0xff) / 255,
		float32(n>>8&0xff) / 255,
		float32(n&0xff) / 255,
	}, nil
}

// FormatHexColor formats components in [0, 1] as #rrggbb.
func FormatHexColor(c [3]float32) string {
	var b [3]uint8
	for i, v := range c {
		b[i] = uint8(gomath.Round(float64(clamp01(v)) * 255))
	}
	return fmt.Sprintf("#%02x%02x%02x", b[0], b[1], b[2])
}

func clamp01(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
