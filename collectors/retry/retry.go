// Package retry provides a circuit breaker for storage estimators. When an
// estimator fails repeatedly the breaker opens and skips it for growing
// intervals, so a broken mount does not cost a syscall and a log line every
// storage tick.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/sysmon/internal/logging"
	"gitlab.com/tinyland/lab/sysmon/monitor"
)

// Compile-time check: Breaker satisfies monitor.StorageEstimator.
var _ monitor.StorageEstimator = (*Breaker)(nil)

// ErrOpen is returned while the circuit is open and estimates are skipped.
var ErrOpen = errors.New("retry: circuit open")

// State represents the circuit breaker state.
type State int

const (
	// StateClosed is normal operation; estimates pass through.
	StateClosed State = iota
	// StateOpen means failures exceeded the threshold; estimates are skipped.
	StateOpen
	// StateHalfOpen lets one probe through to test recovery.
	StateHalfOpen
)

// String returns the human-readable state name.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Config configures the circuit breaker behavior.
type Config struct {
	// MaxFailures is the number of consecutive failures before opening the circuit.
	MaxFailures int
	// ResetTimeout is the initial wait before an open circuit lets a probe through.
	ResetTimeout time.Duration
	// MaxResetTimeout caps the exponential backoff.
	MaxResetTimeout time.Duration
	// BackoffMultiplier grows ResetTimeout on each re-open.
	BackoffMultiplier float64
	// Logger for breaker events. Nil is safe (a discard logger is used).
	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns defaults sized for a 10s storage cadence.
func DefaultConfig() Config {
	return Config{
		MaxFailures:       3,
		ResetTimeout:      time.Minute,
		MaxResetTimeout:   30 * time.Minute,
		BackoffMultiplier: 2.0,
	}
}

// Stats holds breaker statistics for external inspection.
type Stats struct {
	State            State
	ConsecutiveFails int
	TotalFailures    int
	TotalSuccesses   int
	CurrentTimeout   time.Duration
	ConsecutiveSkips int
}

// Breaker wraps a monitor.StorageEstimator with failure tracking and
// automatic circuit opening and closing.
type Breaker struct {
	next   monitor.StorageEstimator
	config Config
	logger *slog.Logger
	now    func() time.Time

	mu               sync.Mutex
	state            State
	failures         int
	lastFailure      time.Time
	currentTimeout   time.Duration
	totalFailures    int
	totalSuccesses   int
	consecutiveSkips int
}

// NewBreaker wraps next with circuit breaker logic.
func NewBreaker(next monitor.StorageEstimator, cfg Config) *Breaker {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Breaker{
		next:           next,
		config:         cfg,
		logger:         logger,
		now:            now,
		state:          StateClosed,
		currentTimeout: cfg.ResetTimeout,
	}
}

// Estimate runs the wrapped estimator unless the circuit is open.
func (b *Breaker) Estimate(ctx context.Context) (monitor.StorageEstimate, error) {
	b.mu.Lock()
	if b.state == StateOpen {
		elapsed := b.now().Sub(b.lastFailure)
		if elapsed < b.currentTimeout {
			b.consecutiveSkips++
			remaining := b.currentTimeout - elapsed
			b.mu.Unlock()
			return monitor.StorageEstimate{}, fmt.Errorf("%w (retry in %s)", ErrOpen, remaining.Truncate(time.Second))
		}
		b.state = StateHalfOpen
		b.logger.Info("circuit breaker transitioning to half-open")
	}
	b.mu.Unlock()

	est, err := b.next.Estimate(ctx)
	if err != nil {
		b.recordFailure(err)
		return est, err
	}
	b.recordSuccess()
	return est, nil
}

// recordFailure counts a failure. A failed half-open probe re-opens the
// circuit with a longer timeout.
func (b *Breaker) recordFailure(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.totalFailures++
	b.lastFailure = b.now()

	switch {
	case b.state == StateHalfOpen:
		b.currentTimeout = time.Duration(float64(b.currentTimeout) * b.config.BackoffMultiplier)
		if b.currentTimeout > b.config.MaxResetTimeout {
			b.currentTimeout = b.config.MaxResetTimeout
		}
		b.state = StateOpen
		b.logger.Warn("circuit breaker re-opened after half-open failure",
			"failures", b.failures,
			"next_timeout", b.currentTimeout,
			"error", err,
		)
	case b.failures >= b.config.MaxFailures:
		b.state = StateOpen
		b.currentTimeout = b.config.ResetTimeout
		b.logger.Warn("circuit breaker opened",
			"failures", b.failures,
			"timeout", b.currentTimeout,
			"error", err,
		)
	}
}

func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		b.logger.Info("circuit breaker closed after successful probe")
		b.currentTimeout = b.config.ResetTimeout
	}
	b.state = StateClosed
	b.failures = 0
	b.consecutiveSkips = 0
	b.totalSuccesses++
}

// State returns the current circuit state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Stats returns a snapshot of the breaker statistics.
func (b *Breaker) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{
		State:            b.state,
		ConsecutiveFails: b.failures,
		TotalFailures:    b.totalFailures,
		TotalSuccesses:   b.totalSuccesses,
		CurrentTimeout:   b.currentTimeout,
		ConsecutiveSkips: b.consecutiveSkips,
	}
}
