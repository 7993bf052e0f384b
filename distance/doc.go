// Package distance provides vector distance calculations.
//
// Ground truth is computed with the squared Euclidean distance. The square
// root is never taken: it is monotonic, so it does not change the ranking.
//
// # Usage
//
//	d := distance.SquaredL2(a, b)
//	d, err := distance.SquaredL2Checked(a, b)
package distance
