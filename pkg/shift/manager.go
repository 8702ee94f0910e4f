package shift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for lifecycle operations.
var (
	shiftTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shift_transitions_total",
		Help: "Total shift lifecycle operations by op and outcome",
	}, []string{"op", "outcome"}) // outcome: "ok", "not_found", "rejected", "error"
)

// Manager enforces the claim/cancel state machine. All mutation goes through
// the store's conditional writes; the manager adds no locking of its own.
type Manager struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

// NewManager creates a lifecycle manager on top of store.
func NewManager(store Store) *Manager {
	return &Manager{
		store:  store,
		logger: log.With().Str("component", "shift-manager").Logger(),
		now:    time.Now,
	}
}

// Get returns the shift or ErrNotFound.
func (m *Manager) Get(ctx context.Context, shiftID uint64) (*Shift, error) {
	return m.store.Get(ctx, shiftID)
}

// Claim assigns workerID to an unclaimed (or previously cancelled) shift and
// clears its cancellation history. Claiming an already-claimed shift fails
// with ErrInvalidTransition and performs no mutation.
func (m *Manager) Claim(ctx context.Context, shiftID, workerID uint64) (*Shift, error) {
	if workerID == 0 {
		return nil, fmt.Errorf("worker id is required")
	}

	updated, err := m.store.Claim(ctx, shiftID, workerID)
	if err == nil {
		shiftTransitionsTotal.WithLabelValues("claim", "ok").Inc()
		m.logger.Info().
			Uint64("shift_id", shiftID).
			Uint64("worker_id", workerID).
			Msg("Shift claimed")
		return updated, nil
	}

	if !errors.Is(err, ErrNoEffect) {
		shiftTransitionsTotal.WithLabelValues("claim", "error").Inc()
		return nil, fmt.Errorf("claim shift %d: %w", shiftID, err)
	}

	return nil, m.classifyRefusal(ctx, shiftID, "claim")
}

// Cancel releases a claimed shift, recording the cancellation time and
// clearing the worker assignment. Cancelling a shift with no worker fails
// with ErrInvalidTransition and performs no mutation.
func (m *Manager) Cancel(ctx context.Context, shiftID uint64) (*Shift, error) {
	updated, err := m.store.Cancel(ctx, shiftID, m.now())
	if err == nil {
		shiftTransitionsTotal.WithLabelValues("cancel", "ok").Inc()
		m.logger.Info().
			Uint64("shift_id", shiftID).
			Msg("Shift cancelled")
		return updated, nil
	}

	if !errors.Is(err, ErrNoEffect) {
		shiftTransitionsTotal.WithLabelValues("cancel", "error").Inc()
		return nil, fmt.Errorf("cancel shift %d: %w", shiftID, err)
	}

	return nil, m.classifyRefusal(ctx, shiftID, "cancel")
}

// classifyRefusal turns a refused conditional write into the client-facing
// error: NotFound when the shift does not exist, TransitionError otherwise.
// The follow-up read is best-effort under concurrency; the refused write is
// the authoritative decision, the read only names the observed state.
func (m *Manager) classifyRefusal(ctx context.Context, shiftID uint64, op string) error {
	current, err := m.store.Get(ctx, shiftID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			shiftTransitionsTotal.WithLabelValues(op, "not_found").Inc()
			return fmt.Errorf("shift %d: %w", shiftID, ErrNotFound)
		}
		shiftTransitionsTotal.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("%s shift %d: %w", op, shiftID, err)
	}

	shiftTransitionsTotal.WithLabelValues(op, "rejected").Inc()
	m.logger.Warn().
		Uint64("shift_id", shiftID).
		Str("op", op).
		Str("state", string(current.State())).
		Msg("Transition rejected")

	return &TransitionError{ShiftID: shiftID, Op: op, From: current.State()}
}
