package database

import (
	"context"
	"errors"
)

// Document names one of the independently stored JSON documents.
type Document string

const (
	ContentDocument   Document = "data"
	AnalyticsDocument Document = "analytics"
	ExposureDocument  Document = "exposure"
)

// Documents lists every document a store holds.
var Documents = []Document{ContentDocument, AnalyticsDocument, ExposureDocument}

// ErrNotExist is returned by Load when a document has never been written.
var ErrNotExist = errors.New("document does not exist")

// UpdateFunc receives the current document bytes (nil when the document does
// not exist yet) and returns the bytes to store. Returning an error aborts the
// update without writing.
type UpdateFunc func(current []byte) ([]byte, error)

// Store persists whole JSON documents. Update is a read-modify-write that no
// other Update or Save on the same document can interleave with.
type Store interface {
	Load(ctx context.Context, doc Document) ([]byte, error)
	Save(ctx context.Context, doc Document, data []byte) error
	Update(ctx context.Context, doc Document, fn UpdateFunc) error
	Close() error
}
