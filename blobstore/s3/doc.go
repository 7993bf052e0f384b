// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
//	store, err := s3.New(ctx, "my-datasets",
//	    s3.WithPrefix("wikipedia/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
// Reads use ranged GETs, listings are paginated, and results are streamed
// through the multipart upload manager with CRC32C checksums.
package s3
