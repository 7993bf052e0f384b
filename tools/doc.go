// Package tools holds the dataset maintenance commands that accompany
// neighbor generation: value distribution statistics, synthetic filter field
// injection and splitting a record file in two.
//
// All tools read and write through a blobstore.BlobStore, so they work on
// local directories, S3 and MinIO alike.
package tools
