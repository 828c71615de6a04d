package wifi

import (
	"context"
	"fmt"

	"i4.energy/across/wifictl/espat"
)

// RegisterNetworkStateChangeEventCallback adds cb to the callbacks run when
// the station connects or disconnects. Callbacks run on the dispatcher
// goroutine and must not block.
func (m *Manager) RegisterNetworkStateChangeEventCallback(cb StateCallback) error {
	if cb == nil {
		return fmt.Errorf("%w: nil callback", ErrFailure)
	}
	m.mu.Lock()
	m.callbacks = append(m.callbacks, cb)
	m.mu.Unlock()
	return nil
}

// State returns the network state last reported by the module.
func (m *Manager) State() NetworkState {
	return NetworkState(m.state.Load())
}

func (m *Manager) dispatch(ctx context.Context, events <-chan espat.Event, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			m.handleEvent(ev)
		}
	}
}

func (m *Manager) handleEvent(ev espat.Event) {
	switch ev.Type {
	case espat.EventConnected:
		m.post(NotifyConnected)
		m.setState(StateEnabled)

	case espat.EventDisconnected:
		if !m.disconnectWant.Load() {
			m.logger.Warn("wifi disconnected")
			m.disconnectAlert.Store(true)
		}
		m.disconnectWant.Store(false)
		m.post(NotifyDisconnected)
		m.setState(StateDisabled)

	case espat.EventReady:
		// The module rebooted; a disconnect requested before the reset
		// will not be reported.
		m.disconnectWant.Store(false)
		m.setState(StateDisabled)

	default:
		m.logger.Debug("module event", "type", ev.Type, "line", ev.Raw)
	}
}

// setState records s and runs the callbacks when it changed.
func (m *Manager) setState(s NetworkState) {
	if NetworkState(m.state.Swap(int32(s))) == s {
		return
	}

	m.mu.Lock()
	callbacks := append([]StateCallback(nil), m.callbacks...)
	m.mu.Unlock()

	for _, cb := range callbacks {
		cb(s)
	}
}
