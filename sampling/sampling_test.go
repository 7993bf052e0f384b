package sampling

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMarker(t *testing.T) {
	for _, ratio := range []float64{-0.1, 1.01, math.NaN()} {
		_, err := NewMarker(ratio, nil)
		assert.ErrorIs(t, err, ErrInvalidRatio)
	}

	m, err := NewMarker(0.25, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.25, m.Ratio())
}

func TestMarkerBounds(t *testing.T) {
	never, err := NewMarker(0, NewSource(1))
	require.NoError(t, err)
	always, err := NewMarker(1, NewSource(1))
	require.NoError(t, err)

	for range 10000 {
		require.False(t, never.Mark())
		require.True(t, always.Mark())
	}
}

func TestMarkerRate(t *testing.T) {
	m, err := NewMarker(0.1, NewSource(4711))
	require.NoError(t, err)

	const n = 100000
	marked := 0
	for range n {
		if m.Mark() {
			marked++
		}
	}

	assert.InDelta(t, 0.1, float64(marked)/n, 0.01)
}

func TestSourceDeterministic(t *testing.T) {
	a, b := NewSource(7), NewSource(7)
	for range 100 {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.IntRange(1, 100000000), b.IntRange(1, 100000000))
	}
}

func TestIntRange(t *testing.T) {
	s := NewSource(3)

	for range 1000 {
		v := s.IntRange(-2, 2)
		assert.GreaterOrEqual(t, v, int64(-2))
		assert.LessOrEqual(t, v, int64(2))
	}
	assert.Equal(t, int64(5), s.IntRange(5, 5))
	assert.Panics(t, func() { s.IntRange(2, 1) })

	// Full range must not overflow.
	_ = s.IntRange(math.MinInt64, math.MaxInt64)
}

func TestSourceConcurrent(t *testing.T) {
	s := NewSource(11)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				f := s.Float64()
				assert.True(t, f >= 0 && f < 1)
			}
		}()
	}
	wg.Wait()
}
