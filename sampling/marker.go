package sampling

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRatio is returned for ratios outside [0, 1].
var ErrInvalidRatio = errors.New("sampling ratio must be within [0, 1]")

// Marker marks each call independently with probability Ratio.
type Marker struct {
	ratio  float64
	source Source
}

// NewMarker returns a Marker drawing from source. A nil source uses
// NewRandomSource.
func NewMarker(ratio float64, source Source) (*Marker, error) {
	if ratio < 0 || ratio > 1 || math.IsNaN(ratio) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRatio, ratio)
	}
	if source == nil {
		source = NewRandomSource()
	}
	return &Marker{ratio: ratio, source: source}, nil
}

// Ratio returns the marking probability.
func (m *Marker) Ratio() float64 { return m.ratio }

// Mark reports whether the current candidate is selected. Ratio 0 never marks
// and ratio 1 always marks.
func (m *Marker) Mark() bool {
	switch m.ratio {
	case 0:
		return false
	case 1:
		return true
	}
	return m.source.Float64() < m.ratio
}
