// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the vault needs: presigned URL generation, metadata lookups,
// folder-marker writes, prefix listings and deletes. This abstraction supports
// both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easier to mock storage interactions for unit testing (as seen in
// core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - PutObject: Uploads content (with size and options).
//   - StatObject: Fetches metadata, including the object's version identifier.
//   - ListObjects: Lists objects in a bucket (supports prefix/recursive).
//   - RemoveObject / RemoveObjects: Deletes one object or a batch.
//   - PresignedPutObject / PresignedGetObject: Generates time-limited URLs.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "documents")
package storage
