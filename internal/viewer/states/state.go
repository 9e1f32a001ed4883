// Package states implements the viewer's demo scenes and switching between them.
package states

import (
	"go.uber.org/zap"

	"github.com/Faultbox/folio3d/internal/logger"
)

// State is one demo scene (model, cube, square).
type State interface {
	// Name identifies the state in logs and in the window title.
	Name() string

	// Enter is called when entering this state.
	Enter() error

	// Exit is called when leaving this state.
	Exit() error

	// Update is called every frame.
	Update(dt float64) error

	// Render draws the state into a width x height drawable.
	Render(width, height int) error
}

// Manager manages state transitions.
type Manager struct {
	current State
	next    State
}

// NewManager creates a new state manager.
func NewManager() *Manager {
	return &Manager{}
}

// Current returns the current state.
func (m *Manager) Current() State {
	return m.current
}

// Change schedules a state change for the next Update. Changing to the
// current state is a no-op.
func (m *Manager) Change(next State) {
	if next == m.current {
		m.next = nil
		return
	}
	m.next = next
}

// Update processes state changes and updates current state.
func (m *Manager) Update(dt float64) error {
	if m.next != nil {
		if m.current != nil {
			if err := m.current.Exit(); err != nil {
				return err
			}
		}
		m.current = m.next
		m.next = nil
		logger.Info("entering state", zap.String("state", m.current.Name()))
		if err := m.current.Enter(); err != nil {
			return err
		}
	}

	if m.current != nil {
		return m.current.Update(dt)
	}
	return nil
}

// Render renders the current state.
func (m *Manager) Render(width, height int) error {
	if m.current != nil {
		return m.current.Render(width, height)
	}
	return nil
}

// Close exits the current state.
func (m *Manager) Close() error {
	if m.current == nil {
		return nil
	}
	err := m.current.Exit()
	m.current = nil
	return err
}
