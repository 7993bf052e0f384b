package neighbor

import (
	"errors"
	"sync"
)

// ErrFinalized is the panic value raised when Offer is called on a Set that has
// already been drained.
var ErrFinalized = errors.New("neighbor set already finalized")

// Neighbor is a candidate id together with its distance to the query.
type Neighbor struct {
	ID       int64   `json:"id"`
	Distance float32 `json:"distance"`
}

// Set keeps the k smallest-distance neighbors offered to it.
// It is safe for concurrent use.
type Set struct {
	mu        sync.Mutex
	k         int
	items     []Neighbor // max-heap on Distance
	finalized bool
}

// New creates a Set with capacity k. A capacity of zero yields a Set that
// accepts and discards every offer.
func New(k int) *Set {
	if k < 0 {
		k = 0
	}
	return &Set{
		k:     k,
		items: make([]Neighbor, 0, min(k, 1024)),
	}
}

// K returns the capacity of the set.
func (s *Set) K() int { return s.k }

// Len returns the number of neighbors currently held.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Worst returns the held neighbor with the largest distance.
func (s *Set) Worst() (Neighbor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return Neighbor{}, false
	}
	return s.items[0], true
}

// Offer considers a candidate for the top k.
//
// While the set holds fewer than k neighbors the candidate is always
// inserted. Once full, it replaces the current worst neighbor only if its
// distance is strictly smaller.
//
// Offer panics with ErrFinalized after Drain has been called.
func (s *Set) Offer(id int64, dist float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		panic(ErrFinalized)
	}
	if s.k == 0 {
		return
	}

	if len(s.items) < s.k {
		s.items = append(s.items, Neighbor{ID: id, Distance: dist})
		s.siftUp(len(s.items) - 1)
		return
	}

	if dist < s.items[0].Distance {
		s.items[0] = Neighbor{ID: id, Distance: dist}
		s.siftDown(0)
	}
}

// Drain empties the set and returns its neighbors in ascending distance order.
//
// Drain is destructive and finalizes the set: later calls return nil and
// later offers panic. It is meant to be called once, after all scoring has
// completed.
func (s *Set) Drain() []Neighbor {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finalized {
		return nil
	}
	s.finalized = true

	out := make([]Neighbor, len(s.items))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = s.popMax()
	}
	s.items = nil
	return out
}

// Finalized reports whether Drain has been called.
func (s *Set) Finalized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalized
}

func (s *Set) popMax() Neighbor {
	n := len(s.items)
	top := s.items[0]
	s.items[0] = s.items[n-1]
	s.items = s.items[:n-1]
	if len(s.items) > 0 {
		s.siftDown(0)
	}
	return top
}

func (s *Set) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if s.items[i].Distance <= s.items[parent].Distance {
			return
		}
		s.items[i], s.items[parent] = s.items[parent], s.items[i]
		i = parent
	}
}

func (s *Set) siftDown(i int) {
	n := len(s.items)
	for {
		left := 2*i + 1
		if left >= n {
			return
		}
		child := left
		if right := left + 1; right < n && s.items[right].Distance > s.items[left].Distance {
			child = right
		}
		if s.items[child].Distance <= s.items[i].Distance {
			return
		}
		s.items[i], s.items[child] = s.items[child], s.items[i]
		i = child
	}
}
