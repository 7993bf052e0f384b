// Package minio reads shards from and writes results to MinIO or any other
// S3-compatible service through the MinIO client.
//
//	store, err := minio.New("localhost:9000", "datasets",
//	    minio.WithCredentials("minioadmin", "minioadmin"),
//	    minio.WithPrefix("wikipedia/"),
//	)
package minio
