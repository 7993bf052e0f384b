package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func naiveSquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"Simple", []float32{1, 2, 3}, []float32{4, 5, 6}, 27},
		{"Zero", []float32{0, 0, 0}, []float32{0, 0, 0}, 0},
		{"Identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 0},
		{"Mixed", []float32{1, -1}, []float32{-1, 1}, 8},
		{"Empty", []float32{}, []float32{}, 0},
		{"Single", []float32{2}, []float32{5}, 9},
		{"Unrolled", []float32{1, 1, 1, 1, 1}, []float32{0, 0, 0, 0, 3}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SquaredL2(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-5)
		})
	}
}

func TestSquaredL2MatchesNaive(t *testing.T) {
	for dim := 1; dim <= 67; dim++ {
		a := make([]float32, dim)
		b := make([]float32, dim)
		for i := range a {
			a[i] = float32(i%7) * 0.5
			b[i] = float32((i*3)%11) * -0.25
		}
		assert.InDelta(t, naiveSquaredL2(a, b), SquaredL2(a, b), 1e-2, "dim=%d", dim)
	}
}

func TestSquaredL2Checked(t *testing.T) {
	d, err := SquaredL2Checked([]float32{0, 0}, []float32{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, float32(25), d, 1e-6)

	_, err = SquaredL2Checked([]float32{0, 0}, []float32{3})
	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 2, dm.Expected)
	assert.Equal(t, 1, dm.Actual)
	assert.Equal(t, "dimension mismatch: expected 2, got 1", err.Error())
}

func TestMetric(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "L2", MetricL2.String())
		assert.Equal(t, "Unknown(99)", Metric(99).String())
	})

	t.Run("Parse", func(t *testing.T) {
		m, err := ParseMetric("l2")
		require.NoError(t, err)
		assert.Equal(t, MetricL2, m)

		m, err = ParseMetric("")
		require.NoError(t, err)
		assert.Equal(t, MetricL2, m)

		_, err = ParseMetric("cosine")
		assert.Error(t, err)
	})

	t.Run("Provider", func(t *testing.T) {
		f, err := Provider(MetricL2)
		require.NoError(t, err)
		assert.InDelta(t, float32(27), f([]float32{1, 2, 3}, []float32{4, 5, 6}), 1e-5)

		_, err = Provider(Metric(99))
		assert.Error(t, err)
	})
}

func BenchmarkSquaredL2(b *testing.B) {
	x := make([]float32, 768)
	y := make([]float32, 768)
	for i := range x {
		x[i] = float32(i)
		y[i] = float32(768 - i)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = SquaredL2(x, y)
	}
}
