package monitor

import (
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/sysmon/status"
)

// EventRecorder is the narrow write surface handed to collaborators that
// only need to log events.
type EventRecorder interface {
	RecordEvent(message string, sev Severity)
}

// AmbientSink receives changes of the externally displayed ambient value.
type AmbientSink interface {
	AmbientChanged(value string)
}

// ModeSink receives changes of the active selection position.
type ModeSink interface {
	ModeChanged(index int) (label string, ok bool)
}

// ConnectivitySink receives online/offline transitions.
type ConnectivitySink interface {
	ConnectivityChanged(online bool)
}

var (
	_ EventRecorder    = (*Monitor)(nil)
	_ AmbientSink      = (*Monitor)(nil)
	_ ModeSink         = (*Monitor)(nil)
	_ ConnectivitySink = (*Monitor)(nil)
)

// AmbientChanged mirrors a new ambient value into its reading and logs
// "<label> changed to <value>". Blank values are ignored.
func (m *Monitor) AmbientChanged(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}

	m.update(func() bool {
		m.set(Reading{
			Signal:    SignalAmbient,
			Label:     m.cfg.AmbientLabel,
			Value:     value,
			Level:     status.LevelNormal,
			UpdatedAt: m.clock.Now(),
		})
		m.log.Record(fmt.Sprintf("%s changed to %s", m.cfg.AmbientLabel, value), SeverityInfo)
		return true
	})
}

// ModeChanged logs "<mode name> changed to <label>" when index maps to a
// known label. Unknown positions record nothing and return false.
func (m *Monitor) ModeChanged(index int) (string, bool) {
	if index < 0 || index >= len(m.cfg.Modes) {
		m.logger.Debug("mode position has no label", "index", index)
		return "", false
	}

	label := m.cfg.Modes[index]
	m.RecordEvent(fmt.Sprintf("%s changed to %s", m.cfg.ModeName, label), SeverityInfo)
	return label, true
}

// ConnectivityChanged logs a transition (success when restored, error when
// lost) and immediately re-samples the network reading with the notified
// state.
func (m *Monitor) ConnectivityChanged(online bool) {
	m.update(func() bool {
		if online {
			m.log.Record("Network connection restored", SeveritySuccess)
		} else {
			m.log.Record("Network connection lost", SeverityError)
		}
		m.online = online
		m.set(sampleNetwork(online, m.host.Connection, m.clock.Now()))
		return true
	})
}
