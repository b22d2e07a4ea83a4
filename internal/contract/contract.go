// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/tomato/schema"
)

// DocumentStore owns the notes of a vault and the report file inside it.
// Document IDs are vault-relative paths with forward slashes.
// Errors from the underlying storage wrap schema.ErrStorageIO.
type DocumentStore interface {
	// ListDocuments returns every document with the given extension, ordered by ID.
	ListDocuments(ctx context.Context, ext string) ([]schema.Document, error)

	// CachedMetadata returns the metadata associated with a document.
	// ok is false when the document has no metadata block.
	CachedMetadata(ctx context.Context, doc schema.Document) (meta schema.Metadata, ok bool, err error)

	// ReadText returns the full text of a document.
	ReadText(ctx context.Context, doc schema.Document) (string, error)

	// WriteText replaces the full text of an existing document.
	WriteText(ctx context.Context, doc schema.Document, text string) error

	// CreateDocument creates a new document at path with the given text.
	CreateDocument(ctx context.Context, path string, text string) (schema.Document, error)

	// Exists reports whether a document exists at path.
	Exists(ctx context.Context, path string) (bool, error)
}

// Notifier shows short user-facing notices. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(message string)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetMetadataStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore keeps a record of every report run.
type HistoryStore interface {
	// RecordRun stores one report run and its per-key entries.
	RecordRun(run schema.ReportRunRecord, entries []schema.ReportEntryRecord) error

	// GetAllRuns returns the runs ordered by run time.
	GetAllRuns() ([]schema.ReportRunRecord, error)

	// GetAllEntries returns the entries ordered by run and report key.
	GetAllEntries() ([]schema.ReportEntryRecord, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}
