package costtracker

import (
	"context"
	"sync"
)

// CostEvent represents a single AI usage event and its cost.
type CostEvent struct {
	Operation string // e.g. "classification"
	AmountUSD float64
	Details   map[string]interface{}
}

// CostTracker provides methods to record and report costs.
type CostTracker interface {
	RecordCost(ctx context.Context, event CostEvent) error
	TotalCost(ctx context.Context) (float64, error)
}

// Observer is notified of every recorded event, e.g. to export metrics.
type Observer func(event CostEvent)

// New returns an in-memory tracker. Totals live for the process lifetime.
func New(observers ...Observer) CostTracker {
	return &memoryCostTracker{observers: observers}
}

type memoryCostTracker struct {
	mu        sync.Mutex
	total     float64
	observers []Observer
}

func (m *memoryCostTracker) RecordCost(ctx context.Context, event CostEvent) error {
	m.mu.Lock()
	m.total += event.AmountUSD
	m.mu.Unlock()

	for _, obs := range m.observers {
		obs(event)
	}
	return nil
}

func (m *memoryCostTracker) TotalCost(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total, nil
}
