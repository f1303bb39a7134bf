package documents

import (
	"context"
	"time"
)

// Repo defines persistence operations for documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, userId, documentID string) (Document, error)
	ListByUser(ctx context.Context, userId string, limit, offset int) ([]Document, error)
	// ListPendingExtraction returns documents that have no extracted text yet,
	// oldest first, for the extraction worker.
	ListPendingExtraction(ctx context.Context, limit int) ([]Document, error)
	// SetExtractedText stamps the extraction result and marks the document processed.
	SetExtractedText(ctx context.Context, documentID, text string, extractedAt time.Time) error
	Delete(ctx context.Context, userId, documentID string) error
}
