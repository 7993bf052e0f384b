package scoring

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/groundtruth/resource"
)

func TestPool_DrainsEverything(t *testing.T) {
	var sum atomic.Int64

	p := New(t.Context(), Options{Workers: 4, HighWater: 8}, func(c Candidate) error {
		sum.Add(c.ID)
		return nil
	})

	const n = 1000
	for i := range int64(n) {
		require.NoError(t, p.Submit(t.Context(), Candidate{ID: i}))
	}
	require.NoError(t, p.Wait())

	assert.Equal(t, int64(n*(n-1)/2), sum.Load())
	assert.Zero(t, p.Pending())

	stats := p.Stats()
	assert.Equal(t, int64(n), stats.Submitted)
	assert.Equal(t, int64(n), stats.Completed)
	assert.LessOrEqual(t, stats.PeakPending, int64(8))
}

func TestPool_Backpressure(t *testing.T) {
	gate := make(chan struct{})

	p := New(t.Context(), Options{Workers: 1, HighWater: 2}, func(Candidate) error {
		<-gate
		return nil
	})

	require.NoError(t, p.Submit(t.Context(), Candidate{ID: 1}))
	require.NoError(t, p.Submit(t.Context(), Candidate{ID: 2}))
	assert.Equal(t, int64(2), p.Pending())

	submitted := make(chan error, 1)
	go func() {
		submitted <- p.Submit(t.Context(), Candidate{ID: 3})
	}()

	select {
	case <-submitted:
		t.Fatal("submit must block at the high-water mark")
	case <-time.After(50 * time.Millisecond):
	}

	close(gate)
	require.NoError(t, <-submitted)
	require.NoError(t, p.Wait())

	assert.Zero(t, p.Pending())
	assert.Equal(t, int64(1), p.Stats().BackpressureWaits)
	assert.Equal(t, int64(2), p.Stats().PeakPending)
}

func TestPool_WorkerErrorIsFatal(t *testing.T) {
	errBoom := errors.New("boom")

	p := New(t.Context(), Options{Workers: 2, HighWater: 4}, func(c Candidate) error {
		if c.ID == 5 {
			return errBoom
		}
		return nil
	})

	var submitErr error
	for i := range int64(10000) {
		if submitErr = p.Submit(t.Context(), Candidate{ID: i}); submitErr != nil {
			break
		}
	}

	assert.ErrorIs(t, p.Wait(), errBoom)
	if submitErr != nil {
		assert.ErrorIs(t, submitErr, errBoom)
	}
}

func TestPool_CancelWhileBlocked(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)

	p := New(t.Context(), Options{Workers: 1, HighWater: 1}, func(Candidate) error {
		<-gate
		return nil
	})
	require.NoError(t, p.Submit(t.Context(), Candidate{ID: 1}))

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, p.Submit(ctx, Candidate{ID: 2}), context.DeadlineExceeded)
	assert.Equal(t, int64(1), p.Pending())
}

func TestPool_SubmitAfterWait(t *testing.T) {
	p := New(t.Context(), Options{Workers: 1}, func(Candidate) error { return nil })
	require.NoError(t, p.Wait())
	require.NoError(t, p.Wait())

	assert.ErrorIs(t, p.Submit(t.Context(), Candidate{}), ErrClosed)
}

func TestPool_MemoryAccounting(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64})

	p := New(t.Context(), Options{Workers: 2, HighWater: 100, Resources: rc}, func(Candidate) error {
		return nil
	})

	for i := range int64(200) {
		require.NoError(t, p.Submit(t.Context(), Candidate{ID: i, Embedding: make([]float32, 4)}))
	}
	require.NoError(t, p.Wait())

	assert.Zero(t, rc.MemoryUsage())
	assert.LessOrEqual(t, rc.PeakMemoryUsage(), int64(64))
}
