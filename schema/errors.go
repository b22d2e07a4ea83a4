package schema

import "errors"

// Sentinel errors shared by the codec, the aggregator, the merger and the stores.
// Callers wrap them with context and match with errors.Is.
var (
	// ErrMalformedDocument means the metadata block is absent or unparsable.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrStorageIO means a read or write against the document store failed.
	ErrStorageIO = errors.New("storage i/o failure")

	// ErrInvalidProjectMetadata means a project note lacks a usable reportKey or counter.
	ErrInvalidProjectMetadata = errors.New("invalid project metadata")

	// ErrMalformedReport means the CSV report cannot be read as a report table.
	ErrMalformedReport = errors.New("malformed report")
)
