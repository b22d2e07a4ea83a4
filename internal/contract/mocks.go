package contract

import (
	"context"

	"github.com/huangsam/tomato/schema"
	"github.com/stretchr/testify/mock"
)

// MockDocumentStore is a mock implementation of DocumentStore for testing.
type MockDocumentStore struct {
	mock.Mock
}

var _ DocumentStore = &MockDocumentStore{} // Compile-time check

// ListDocuments implements the DocumentStore interface.
func (m *MockDocumentStore) ListDocuments(ctx context.Context, ext string) ([]schema.Document, error) {
	args := m.Called(ctx, ext)
	docs, _ := args.Get(0).([]schema.Document)
	return docs, args.Error(1)
}

// CachedMetadata implements the DocumentStore interface.
func (m *MockDocumentStore) CachedMetadata(ctx context.Context, doc schema.Document) (schema.Metadata, bool, error) {
	args := m.Called(ctx, doc)
	meta, _ := args.Get(0).(schema.Metadata)
	return meta, args.Bool(1), args.Error(2)
}

// ReadText implements the DocumentStore interface.
func (m *MockDocumentStore) ReadText(ctx context.Context, doc schema.Document) (string, error) {
	args := m.Called(ctx, doc)
	return args.String(0), args.Error(1)
}

// WriteText implements the DocumentStore interface.
func (m *MockDocumentStore) WriteText(ctx context.Context, doc schema.Document, text string) error {
	args := m.Called(ctx, doc, text)
	return args.Error(0)
}

// CreateDocument implements the DocumentStore interface.
func (m *MockDocumentStore) CreateDocument(ctx context.Context, path string, text string) (schema.Document, error) {
	args := m.Called(ctx, path, text)
	doc, _ := args.Get(0).(schema.Document)
	return doc, args.Error(1)
}

// Exists implements the DocumentStore interface.
func (m *MockDocumentStore) Exists(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

// MockNotifier is a mock implementation of Notifier for testing.
type MockNotifier struct {
	mock.Mock
}

var _ Notifier = &MockNotifier{} // Compile-time check

// Notify implements the Notifier interface.
func (m *MockNotifier) Notify(message string) {
	m.Called(message)
}
