// Package vault exposes folder and document operations over object storage.
//
// It is a thin façade over storage.Client: pre-signed upload/download URL
// generation, folder markers (zero-byte objects whose key ends in "/"),
// version lookups, and document/version deletes. Every operation is a single
// round trip to the backend; durable concerns (signing, retries, transport)
// live in the storage client.
//
// Backend failures are translated into the package's error taxonomy (presign,
// metadata, write, not-found) with fixed messages. The original backend error
// is logged at debug level and never rendered to callers.
package vault
