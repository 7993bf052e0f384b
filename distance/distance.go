// Package distance provides the distance kernels used to score candidates
// against queries.
package distance

import (
	"fmt"
)

// ErrDimensionMismatch is returned by the checked kernels when the two vectors
// have different lengths.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
//
// The loop is unrolled by four with independent accumulators so the compiler
// can keep it branch-free.
func SquaredL2(a, b []float32) float32 {
	n := len(a)
	b = b[:n]

	var s0, s1, s2, s3 float32
	i := 0
	for ; i+4 <= n; i += 4 {
		d0 := a[i] - b[i]
		d1 := a[i+1] - b[i+1]
		d2 := a[i+2] - b[i+2]
		d3 := a[i+3] - b[i+3]
		s0 += d0 * d0
		s1 += d1 * d1
		s2 += d2 * d2
		s3 += d3 * d3
	}
	for ; i < n; i++ {
		d := a[i] - b[i]
		s0 += d * d
	}

	return (s0 + s1) + (s2 + s3)
}

// SquaredL2Checked is SquaredL2 with a length check.
// a is treated as the reference vector (Expected).
func SquaredL2Checked(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, &ErrDimensionMismatch{Expected: len(a), Actual: len(b)}
	}
	return SquaredL2(a, b), nil
}

// Metric represents the distance metric used for vector comparison.
type Metric int

const (
	MetricL2 Metric = iota
)

func (m Metric) String() string {
	switch m {
	case MetricL2:
		return "L2"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMetric maps a configuration string to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "", "l2", "L2", "squared_l2":
		return MetricL2, nil
	default:
		return 0, fmt.Errorf("unsupported metric %q", s)
	}
}

// Func is a function type for distance calculation.
type Func func(a, b []float32) float32

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricL2:
		return SquaredL2, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
