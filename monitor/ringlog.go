package monitor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gitlab.com/tinyland/lab/sysmon/internal/format"
)

// DefaultLogCapacity is the number of entries kept by the event log.
const DefaultLogCapacity = 50

// ErrInvalidCapacity is returned when a log is configured with fewer than
// one slot.
var ErrInvalidCapacity = errors.New("monitor: log capacity must be at least 1")

// LogEntry is one immutable line of the event log.
type LogEntry struct {
	// Seq increases by one per recorded entry and survives Clear. Entries
	// sharing a Time are told apart by Seq.
	Seq       uint64    `json:"seq"`
	Time      time.Time `json:"time"`
	Timestamp string    `json:"timestamp"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
}

// RingLog is a fixed-capacity event log ordered newest first. Once full,
// each Record evicts exactly the oldest entry.
//
// RingLog is not safe for concurrent use; Monitor serializes access.
type RingLog struct {
	entries  []LogEntry
	capacity int
	seq      uint64
	now      func() time.Time
	logger   *slog.Logger
}

// NewRingLog creates an empty log. now supplies entry timestamps and
// defaults to time.Now; a nil logger disables the echo.
func NewRingLog(capacity int, now func() time.Time, logger *slog.Logger) (*RingLog, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	if now == nil {
		now = time.Now
	}
	return &RingLog{
		entries:  make([]LogEntry, 0, capacity+1),
		capacity: capacity,
		now:      now,
		logger:   logger,
	}, nil
}

// Record inserts a new entry at the front and echoes it to the logger.
// An empty severity is recorded as info.
func (l *RingLog) Record(message string, sev Severity) LogEntry {
	if sev == "" {
		sev = SeverityInfo
	}

	t := l.now()
	l.seq++
	entry := LogEntry{
		Seq:       l.seq,
		Time:      t,
		Timestamp: format.FormatTimestamp(t),
		Message:   message,
		Severity:  sev,
	}

	l.entries = append(l.entries, LogEntry{})
	copy(l.entries[1:], l.entries)
	l.entries[0] = entry

	if len(l.entries) > l.capacity {
		l.entries[len(l.entries)-1] = LogEntry{}
		l.entries = l.entries[:l.capacity]
	}

	l.echo(entry)
	return entry
}

// Clear empties the log and then records a "Logs cleared" entry, so the
// log is never silently empty after a clear.
func (l *RingLog) Clear() {
	clear(l.entries)
	l.entries = l.entries[:0]
	l.Record("Logs cleared", SeverityInfo)
}

// Entries returns a copy of the log, newest first.
func (l *RingLog) Entries() []LogEntry {
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries currently held.
func (l *RingLog) Len() int {
	return len(l.entries)
}

// Capacity returns the maximum number of entries.
func (l *RingLog) Capacity() int {
	return l.capacity
}

func (l *RingLog) echo(e LogEntry) {
	if l.logger == nil {
		return
	}
	l.logger.LogAttrs(context.Background(), e.Severity.slogLevel(), e.Message,
		slog.String("timestamp", e.Timestamp),
		slog.String("severity", string(e.Severity)),
	)
}
