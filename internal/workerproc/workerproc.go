package workerproc

import (
	"context"
	"errors"
	"strings"
	"time"

	"legaldocs-backend/internal/documents"
	"legaldocs-backend/internal/extract"
	"legaldocs-backend/internal/shared/metrics"
	"legaldocs-backend/internal/shared/storage/object"
	"legaldocs-backend/internal/shared/telemetry"
)

const defaultBatchSize = 10

// ErrProcess indicates extraction failed for a specific document.
type ErrProcess struct {
	DocumentID string
	Err        error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process document"
	}
	return "process document: " + e.Err.Error()
}

// Processor drains the extraction backlog: documents uploaded but not yet
// text-extracted are read from object storage, converted to plain text, and
// stamped back onto the row so they become searchable.
type Processor struct {
	Docs      documents.Repo
	Objects   object.ObjectStore
	BatchSize int
}

// NewProcessor wires a processor with the default batch size.
func NewProcessor(docs documents.Repo, objects object.ObjectStore) *Processor {
	return &Processor{Docs: docs, Objects: objects, BatchSize: defaultBatchSize}
}

// RunOnce processes a single batch of pending documents. It returns the
// number of documents successfully extracted; per-document failures are
// logged and counted but do not abort the batch.
func (p *Processor) RunOnce(ctx context.Context) (int, error) {
	if p == nil || p.Docs == nil || p.Objects == nil {
		return 0, errors.New("extraction processor not configured")
	}

	limit := p.BatchSize
	if limit < 1 {
		limit = defaultBatchSize
	}

	pending, err := p.Docs.ListPendingExtraction(ctx, limit)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, doc := range pending {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}
		if err := p.processDocument(ctx, doc); err != nil {
			metrics.IncExtractionFailed()
			telemetry.Error("worker.extract.failed", map[string]any{
				"document_id": doc.ID,
				"file_type":   doc.FileType,
				"error":       err.Error(),
			})
			continue
		}
		processed++
		metrics.IncExtraction()
		telemetry.Info("worker.extract.completed", map[string]any{
			"document_id": doc.ID,
			"file_type":   doc.FileType,
		})
	}
	return processed, nil
}

func (p *Processor) processDocument(ctx context.Context, doc documents.Document) error {
	if strings.TrimSpace(doc.StorageKey) == "" {
		return ErrProcess{DocumentID: doc.ID, Err: errors.New("missing storage key")}
	}

	text, err := extract.ExtractText(ctx, p.Objects, doc.StorageKey, doc.FileType)
	if err != nil {
		return ErrProcess{DocumentID: doc.ID, Err: err}
	}

	if err := p.Docs.SetExtractedText(ctx, doc.ID, text, time.Now().UTC()); err != nil {
		return ErrProcess{DocumentID: doc.ID, Err: err}
	}
	return nil
}
