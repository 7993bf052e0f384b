package idset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	s := New()
	assert.True(t, s.IsEmpty())

	for _, id := range []int64{42, 7, 1 << 40, 7, 0} {
		require.NoError(t, s.Add(id))
	}

	assert.Equal(t, 4, s.Len())
	assert.True(t, s.Contains(1<<40))
	assert.False(t, s.Contains(8))
	assert.False(t, s.Contains(-1))
	assert.Equal(t, []int64{0, 7, 42, 1 << 40}, s.Slice())
	assert.NotZero(t, s.SizeInBytes())
}

func TestSetRejectsNegative(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.Add(-5), ErrNegativeID)
	assert.True(t, s.IsEmpty())
}

func TestCloneIsIndependent(t *testing.T) {
	global := New()
	require.NoError(t, global.Add(1))
	require.NoError(t, global.Add(2))

	own := New()
	require.NoError(t, own.Add(2))
	require.NoError(t, own.Add(9))

	perQuery := global.Clone()
	perQuery.Or(own)

	assert.Equal(t, []int64{1, 2, 9}, perQuery.Slice())
	assert.Equal(t, []int64{1, 2}, global.Slice())
}

func TestAllStopsEarly(t *testing.T) {
	s := New()
	for i := range int64(10) {
		require.NoError(t, s.Add(i))
	}

	var seen []int64
	for id := range s.All() {
		seen = append(seen, id)
		if len(seen) == 3 {
			break
		}
	}
	assert.Equal(t, []int64{0, 1, 2}, seen)
}
