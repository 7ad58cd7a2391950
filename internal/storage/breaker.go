package storage

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/agriconnect/cloud-intelligence/internal/alerting"
	"github.com/agriconnect/cloud-intelligence/internal/model"
)

// BreakerSettings tunes the circuit breaker around the alert store.
type BreakerSettings struct {
	ConsecutiveFailures uint32
	OpenFor             time.Duration
	Interval            time.Duration
}

// BreakerStore wraps an AlertStore with a circuit breaker so a failing
// store sheds batch inserts instead of timing out on every reading.
// Shed calls surface as insert errors, which the aggregator already
// absorbs without retry.
type BreakerStore struct {
	inner alerting.AlertStore
	cb    *gobreaker.CircuitBreaker
}

func NewBreakerStore(inner alerting.AlertStore, s BreakerSettings) *BreakerStore {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.OpenFor <= 0 {
		s.OpenFor = 30 * time.Second
	}
	return &BreakerStore{
		inner: inner,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:     "alert-store",
			Interval: s.Interval,
			Timeout:  s.OpenFor,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= s.ConsecutiveFailures
			},
		}),
	}
}

func (b *BreakerStore) InsertAlerts(ctx context.Context, alerts []model.Alert) ([]model.StoredAlert, error) {
	res, err := b.cb.Execute(func() (any, error) {
		return b.inner.InsertAlerts(ctx, alerts)
	})
	if err != nil {
		return nil, err
	}
	stored, _ := res.([]model.StoredAlert)
	return stored, nil
}
