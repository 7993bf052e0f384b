package testutil

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"sync"

	"github.com/hupe1980/groundtruth/dataset"
	"github.com/hupe1980/groundtruth/distance"
	"github.com/hupe1980/groundtruth/neighbor"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float32 returns, as a float32, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float32() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float32()
}

// UniformVectors generates random vectors with values in range [0, 1).
// Uses a single backing array.
func (r *RNG) UniformVectors(num int, dimensions int) [][]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float32, num*dimensions)
	vectors := make([][]float32, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float32()
		}
		vectors[i] = vec
	}

	return vectors
}

// IDField returns the record value that encodes id for kind.
func IDField(kind dataset.Kind, id int64) any {
	switch kind {
	case dataset.KindBioASQ:
		return strconv.FormatInt(id, 10)
	case dataset.KindMIRACL:
		return fmt.Sprintf("%d#%d", id/10000, id%10000)
	default:
		return id
	}
}

// Records builds one record per vector with consecutive ids starting at
// firstID, encoded the way kind stores them.
func Records(kind dataset.Kind, firstID int64, vectors [][]float32) []dataset.Record {
	field := kind.IDField()
	if field == "" {
		field = "id"
	}

	recs := make([]dataset.Record, len(vectors))
	for i, v := range vectors {
		id := firstID + int64(i)
		recs[i] = dataset.Record{
			field:                  IDField(kind, id),
			dataset.EmbeddingField: v,
		}
	}
	return recs
}

// ExactTopK returns the k nearest of vectors to query, ascending by distance
// with ties broken by id.
func ExactTopK(query []float32, ids []int64, vectors [][]float32, k int) []neighbor.Neighbor {
	all := make([]neighbor.Neighbor, len(vectors))
	for i, v := range vectors {
		all[i] = neighbor.Neighbor{ID: ids[i], Distance: distance.SquaredL2(query, v)}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Distance != all[j].Distance {
			return all[i].Distance < all[j].Distance
		}
		return all[i].ID < all[j].ID
	})

	if len(all) > k {
		all = all[:k]
	}
	return all
}

// IDs returns the ids of ns in order.
func IDs(ns []neighbor.Neighbor) []int64 {
	out := make([]int64, len(ns))
	for i, n := range ns {
		out[i] = n.ID
	}
	return out
}

// ComputeRecall calculates the fraction of ground truth ids present in got.
func ComputeRecall(groundTruth, got []neighbor.Neighbor) float64 {
	if len(groundTruth) == 0 {
		return 1
	}

	want := make(map[int64]struct{}, len(groundTruth))
	for _, n := range groundTruth {
		want[n.ID] = struct{}{}
	}

	hits := 0
	for _, n := range got {
		if _, ok := want[n.ID]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(groundTruth))
}
