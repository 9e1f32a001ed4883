package controls

import (
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/folio3d/internal/engine/input"
)

// KeyRotateStep is the rotation applied per arrow-key press, in radians.
const KeyRotateStep = 0.1

// Handle applies one input event to the panel and reports whether it was
// consumed. Bindings:
//
//	left drag       rotate X/Y
//	wheel           zoom
//	arrows          rotate X/Y
//	Q / E           rotate Z
//	space           toggle auto-rotate
//	R               reset
//	Ctrl+S, Ctrl+L  save and load the preset
func (p *Panel) Handle(ev input.Event) bool {
	switch ev.Type {
	case input.EventDrag:
		p.Drag(ev.DX, ev.DY)
		return true
	case input.EventMouseWheel:
		p.Zoom(ev.WheelY)
		return true
	case input.EventKeyDown:
		return p.handleKey(ev)
	}
	return false
}

func (p *Panel) handleKey(ev input.Event) bool {
	ctrl := ev.Mod&sdl.Keymod(sdl.KMOD_CTRL) != 0
	r := p.state.Transform.Rotation

	switch ev.Key {
	case sdl.SCANCODE_LEFT:
		p.state.SetRotation(1, r[1]-KeyRotateStep)
	case sdl.SCANCODE_RIGHT:
		p.state.SetRotation(1, r[1]+KeyRotateStep)
	case sdl.SCANCODE_UP:
		p.state.SetRotation(0, r[0]-KeyRotateStep)
	case sdl.SCANCODE_DOWN:
		p.state.SetRotation(0, r[0]+KeyRotateStep)
	case sdl.SCANCODE_Q:
		p.state.SetRotation(2, r[2]-KeyRotateStep)
	case sdl.SCANCODE_E:
		p.state.SetRotation(2, r[2]+KeyRotateStep)
	case sdl.SCANCODE_SPACE:
		if ev.Repeat {
			return true
		}
		p.ToggleAutoRotate()
	case sdl.SCANCODE_R:
		if ev.Repeat {
			return true
		}
		p.Reset()
	case sdl.SCANCODE_S:
		if !ctrl || ev.Repeat {
			return false
		}
		if err := p.SavePreset(); err != nil {
			p.log.Warn("save preset failed", zap.Error(err))
		}
	case sdl.SCANCODE_L:
		if !ctrl || ev.Repeat {
			return false
		}
		if err := p.LoadPreset(); err != nil {
			p.log.Warn("load preset failed", zap.Error(err))
		}
	default:
		return false
	}
	return true
}
