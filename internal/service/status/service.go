package status

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domain "github.com/oshokin/space-status/internal/domain/presence"
	"github.com/oshokin/space-status/internal/eventbus"
	"github.com/oshokin/space-status/internal/logger"
	repo "github.com/oshokin/space-status/internal/repository/state"
)

// service holds the authoritative presence record and orchestrates
// transitions: validate, persist, flip, publish, all under one lock.
// It is unexported to keep the transport decoupled from the implementation.
type service struct {
	// repo handles durable storage of the presence record.
	repo repo.Repository
	// bus announces committed transitions to the consumers.
	bus *eventbus.Bus
	// record is the current in-memory presence record.
	record *domain.Record
	// mu linearizes concurrent transition requests.
	mu sync.Mutex
}

// errInvalidTarget is returned when a transition requests an unknown state.
var errInvalidTarget = errors.New("invalid target state")

// newService creates a service backed by the provided repository and bus.
// The record is seeded from storage for a warm restart, a missing state
// file yields the default closed record.
func newService(ctx context.Context, repository repo.Repository, bus *eventbus.Bus) (*service, error) {
	s := &service{
		repo:   repository,
		bus:    bus,
		record: &domain.Record{State: domain.Closed},
	}

	record, err := repository.Load(ctx)
	switch {
	case err == nil:
		if record != nil {
			s.record = record
		}
	case errors.Is(err, repo.ErrNotFound):
		// Keep default state.
	default:
		return nil, fmt.Errorf("load state: %w", err)
	}

	logger.InfoKV(ctx, "Presence state loaded",
		"state", s.record.State.String(),
		"last_changed", s.record.LastChanged.Unix())

	return s, nil
}

// RequestTransition moves the space into the target state.
//
// Requesting the state that is already current is a no-op, reported as
// OutcomeAlreadyReported. Otherwise the new record is persisted first and
// only then made visible in memory and announced on the bus, so a crash
// in between leaves disk and memory consistent. A publish that finds no
// listening subscriber is absorbed, the transition has already durably
// succeeded at that point.
func (s *service) RequestTransition(ctx context.Context, target domain.State) (domain.Outcome, error) {
	if !target.Valid() {
		return 0, fmt.Errorf("%w: %d", errInvalidTarget, int(target))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.record.State
	switch {
	case !current.Valid():
		// A stored encoding outside the known range should be
		// structurally unreachable. Force the requested state instead
		// of refusing, the public state must stay navigable.
		logger.WarnKV(ctx, "Stored presence state is corrupt, forcing requested state",
			"stored", int(current), "target", target.String())
	case current == target:
		logger.InfoKV(ctx, "Presence state already current", "state", target.String())

		return domain.OutcomeAlreadyReported, nil
	}

	now := time.Now()
	if now.Before(s.record.LastChanged) {
		// Wall clock went backwards, keep LastChanged non-decreasing.
		now = s.record.LastChanged
	}

	next := &domain.Record{
		State:       target,
		LastChanged: now,
	}

	if err := s.repo.Save(ctx, next); err != nil {
		logger.ErrorKV(ctx, "Failed to persist presence state", "error", err)

		return 0, fmt.Errorf("persist state: %w", err)
	}

	s.record = next

	event := domain.EventForState(target)
	s.bus.Publish(event)

	logger.InfoKV(ctx, "Presence state changed",
		"state", target.String(), "event", event.String())

	return domain.OutcomeChanged, nil
}

// Current returns a copy of the current presence record.
func (s *service) Current(_ context.Context) *domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.record.Clone()
}
