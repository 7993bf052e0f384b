// Package idset holds sets of non-negative vector ids backed by a 64-bit
// Roaring bitmap.
package idset

import (
	"errors"
	"fmt"
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// ErrNegativeID is returned when adding an id below zero.
var ErrNegativeID = errors.New("negative vector id")

// Set is a set of vector ids. It is not safe for concurrent mutation.
type Set struct {
	rb *roaring64.Bitmap
}

// New creates an empty set.
func New() *Set {
	return &Set{rb: roaring64.New()}
}

// Add inserts id.
func (s *Set) Add(id int64) error {
	if id < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeID, id)
	}
	s.rb.Add(uint64(id))
	return nil
}

// Contains reports whether id is in the set.
func (s *Set) Contains(id int64) bool {
	return id >= 0 && s.rb.Contains(uint64(id))
}

// Len returns the number of ids in the set.
func (s *Set) Len() int {
	return int(s.rb.GetCardinality())
}

// IsEmpty returns true if the set is empty.
func (s *Set) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	return &Set{rb: s.rb.Clone()}
}

// Or adds every id of other to s.
func (s *Set) Or(other *Set) {
	s.rb.Or(other.rb)
}

// All iterates the ids in ascending order.
func (s *Set) All() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(int64(it.Next())) {
				return
			}
		}
	}
}

// Slice returns the ids in ascending order.
func (s *Set) Slice() []int64 {
	out := make([]int64, 0, s.Len())
	for id := range s.All() {
		out = append(out, id)
	}
	return out
}

// SizeInBytes returns the serialized size of the underlying bitmap.
func (s *Set) SizeInBytes() uint64 {
	return s.rb.GetSizeInBytes()
}
