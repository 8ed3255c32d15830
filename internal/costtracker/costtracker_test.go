package costtracker

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCostTracker(t *testing.T) {
	var seen []string
	var mu sync.Mutex
	tracker := New(func(e CostEvent) {
		mu.Lock()
		seen = append(seen, e.Operation)
		mu.Unlock()
	})

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, tracker.RecordCost(ctx, CostEvent{Operation: "classification", AmountUSD: 0.5}))
		}()
	}
	wg.Wait()

	total, err := tracker.TotalCost(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, total, 1e-9)
	assert.Len(t, seen, 10)
}
