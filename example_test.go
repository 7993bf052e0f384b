package groundtruth_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/groundtruth"
	"github.com/hupe1980/groundtruth/blobstore"
)

// Example_generator computes the two nearest neighbors of one query.
func Example_generator() {
	ctx := context.Background()

	store := blobstore.NewMemoryStore()
	_ = store.Put(ctx, "test.json", []byte(`[{"id": 100, "emb": [0, 0]}]`))
	_ = store.Put(ctx, "train-00.json", []byte(`[
		{"id": 1, "emb": [3, 0]},
		{"id": 2, "emb": [1, 0]},
		{"id": 3, "emb": [0, 2]}
	]`))

	cfg := groundtruth.DefaultConfig()
	cfg.Dataset = "wikipedia"
	cfg.QueryFile = "test.json"
	cfg.Dimension = 2
	cfg.K = 2

	gen, err := groundtruth.New(store, cfg)
	if err != nil {
		log.Fatal(err)
	}

	summary, err := gen.Run(ctx)
	if err != nil {
		log.Fatal(err)
	}

	out, _ := store.Bytes(summary.Output)
	fmt.Println(summary.Output)
	fmt.Println(string(out))
	// Output:
	// test.json.neighbor
	// [{"emb":[0,0],"id":100,"neighbors":[{"id":2,"distance":1},{"id":3,"distance":4}]}]
}

// Example_filter shows how filter tuples are parsed.
func Example_filter() {
	store := blobstore.NewMemoryStore()

	cfg := groundtruth.DefaultConfig()
	cfg.Dataset = "wikipedia"
	cfg.QueryFile = "test.json"
	cfg.Dimension = 768
	cfg.FilterField = "cat:int:5:eq,lang:str:en:ne,oops"

	gen, err := groundtruth.New(store, cfg)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(gen.Filter())
	fmt.Println(gen.Filter().Dropped)
	// Output:
	// cat:int:5:eq,lang:string:en:ne
	// [oops]
}
