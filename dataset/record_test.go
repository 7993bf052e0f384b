package dataset

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEmbedding(t *testing.T) {
	t.Run("Numbers", func(t *testing.T) {
		r := Record{"emb": []any{json.Number("1.5"), json.Number("-2"), 3.0}}
		vec, ok, err := r.Embedding()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []float32{1.5, -2, 3}, vec)
	})

	t.Run("Absent", func(t *testing.T) {
		vec, ok, err := Record{"id": 1}.Embedding()
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, vec)
	})

	t.Run("NotArray", func(t *testing.T) {
		_, ok, err := Record{"emb": "oops"}.Embedding()
		assert.ErrorIs(t, err, ErrEmbeddingNotArray)
		assert.True(t, ok)
		assert.ErrorIs(t, err, ErrInvalidEmbedding)
	})

	t.Run("BadElement", func(t *testing.T) {
		_, _, err := Record{"emb": []any{json.Number("1"), "x"}}.Embedding()
		assert.ErrorIs(t, err, ErrInvalidEmbedding)
		assert.NotErrorIs(t, err, ErrEmbeddingNotArray)
	})

	t.Run("Typed", func(t *testing.T) {
		vec, ok, err := Record{"emb": []float32{1, 2}}.Embedding()
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []float32{1, 2}, vec)
	})
}

func TestRecordAccessors(t *testing.T) {
	r := Record{
		"n":     json.Number("7"),
		"f":     json.Number("7.5"),
		"whole": 8.0,
		"s":     "seven",
	}

	i, ok := r.Int("n")
	assert.True(t, ok)
	assert.Equal(t, int64(7), i)

	_, ok = r.Int("f")
	assert.False(t, ok)

	i, ok = r.Int("whole")
	assert.True(t, ok)
	assert.Equal(t, int64(8), i)

	_, ok = r.Int("s")
	assert.False(t, ok)

	s, ok := r.String("s")
	assert.True(t, ok)
	assert.Equal(t, "seven", s)

	_, ok = r.String("n")
	assert.False(t, ok)

	assert.True(t, r.Has("s"))
	assert.False(t, r.Has("missing"))

	c := r.Clone()
	c["s"] = "eight"
	assert.Equal(t, "seven", r["s"])
}

func TestAsInt64(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
		ok   bool
	}{
		{"number", json.Number("42"), 42, true},
		{"number overflow", json.Number("9223372036854775808"), 0, false},
		{"int", 7, 7, true},
		{"float integral", float64(3), 3, true},
		{"float fraction", 3.5, 0, false},
		{"float min", float64(math.MinInt64), math.MinInt64, true},
		{"float two to the 63", math.Ldexp(1, 63), 0, false},
		{"float below two to the 63", math.Nextafter(math.Ldexp(1, 63), 0), 1<<63 - 1024, true},
		{"string", "1", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AsInt64(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
