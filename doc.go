// Package groundtruth computes exact k-nearest-neighbor ground truth for
// vector search benchmarks.
//
// A Generator loads every query of a test file, streams all candidate shards
// of a dataset through an optional attribute filter, scores each remaining
// candidate against every query with squared Euclidean distance and writes the
// k closest candidates of each query next to the original query record.
//
// # Quick Start
//
//	store := blobstore.NewLocalStore("/data/wikipedia")
//	gen, err := groundtruth.New(store, groundtruth.Config{
//	    Dataset:   "wikipedia",
//	    QueryFile: "test.json",
//	    Dimension: 768,
//	    K:         100,
//	})
//	if err != nil { ... }
//	summary, err := gen.Run(ctx)
//
// The result is written to "test.json.neighbor": the query records with an
// added "neighbors" array of {"id", "distance"} objects in ascending distance
// order.
//
// # Filters
//
// Config.FilterField takes a comma separated list of field:type:value:op
// tuples (see package filter). Candidates failing any condition are not
// scored. The configured string is echoed into every output record as
// "filter".
//
// # Filter Vector IDs
//
// With EnableFilterVectorIDs every candidate is sampled with probability
// FilterVectorIDRatio, independent of the filter. Each output record gets a
// "filter_vector_ids" array holding the sampled ids plus, unless
// FilterVectorIDNegation is set, the ids of its own neighbors.
//
// # Errors
//
// Configuration problems wrap ErrInvalidConfig or ErrUnknownDataset and are
// reported before any work starts. Inconsistent data (wrong dimension,
// unresolvable ids) wraps ErrDataIntegrity and aborts the run. Malformed shards
// are logged and skipped.
package groundtruth
