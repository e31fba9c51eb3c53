package editorfeed

import (
	"sync"
	"time"

	"github.com/mkidding/vibertime/internal/domain"
	"github.com/mkidding/vibertime/internal/ports"
)

// Monitor owns the live input-signal state. The feed writes it on every
// keystroke, paste and selection event; the classifiers query it through
// ports.InputMonitor.
type Monitor struct {
	mu    sync.Mutex
	input domain.InputState
}

// NewMonitor creates an empty monitor; all elapsed queries report the
// maximum duration until the first signal arrives.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// Keystroke records a human keypress.
func (m *Monitor) Keystroke(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.input.Keystroke(now)
}

// Paste records a paste gesture.
func (m *Monitor) Paste(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.input.Paste(now)
}

// ManualInteraction records a non-typing manual signal such as a
// selection change.
func (m *Monitor) ManualInteraction(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.input.ManualInteraction(now)
}

// SinceHumanKeystroke implements ports.InputMonitor.
func (m *Monitor) SinceHumanKeystroke(now time.Time) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.input.SinceKeystroke(now)
}

// SincePaste implements ports.InputMonitor.
func (m *Monitor) SincePaste(now time.Time) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.input.SincePaste(now)
}

// SinceHumanInput implements ports.InputMonitor.
func (m *Monitor) SinceHumanInput(now time.Time) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.input.SinceHumanInput(now)
}

var _ ports.InputMonitor = (*Monitor)(nil)
