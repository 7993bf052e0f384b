// Package sampling provides the random source and the marker that selects the
// filter-id subset of candidates.
//
//	marker, err := sampling.NewMarker(0.1, sampling.NewSource(42))
//	if marker.Mark() {
//		ids.Add(id)
//	}
package sampling
