package documents

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Document // userId -> documents
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Document),
	}
}

// Create stores a document for a user.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if doc.Category == "" {
		doc.Category = DefaultCategory
	}
	if doc.Status == "" {
		doc.Status = "uploaded"
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.UserID] = append(r.data[doc.UserID], doc)
	return nil
}

// GetByID returns a document by ID for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userId, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := r.data[userId]
	for i := range docs {
		if docs[i].ID == documentID {
			return docs[i], nil
		}
	}
	return Document{}, ErrNotFound
}

// ListByUser returns documents for a user, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userId string, limit, offset int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	docs, err := r.AllByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 || offset >= len(docs) {
		return []Document{}, nil
	}

	end := len(docs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return docs[offset:end], nil
}

// AllByUser returns a newest-first copy of every document a user owns.
func (r *MemoryRepo) AllByUser(ctx context.Context, userId string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	userDocs := r.data[userId]
	r.mu.RUnlock()

	docs := make([]Document, len(userDocs))
	copy(docs, userDocs)
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadDate.After(docs[j].UploadDate)
	})
	return docs, nil
}

// ListPendingExtraction returns documents without extracted text, oldest first.
func (r *MemoryRepo) ListPendingExtraction(ctx context.Context, limit int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	r.mu.RLock()
	var pending []Document
	for _, docs := range r.data {
		for i := range docs {
			if docs[i].ExtractedText == "" && docs[i].StorageKey != "" {
				pending = append(pending, docs[i])
			}
		}
	}
	r.mu.RUnlock()

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].UploadDate.Before(pending[j].UploadDate)
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

// SetExtractedText stamps the extraction result for a document.
func (r *MemoryRepo) SetExtractedText(ctx context.Context, documentID, text string, extractedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for userId, docs := range r.data {
		for i := range docs {
			if docs[i].ID == documentID {
				if docs[i].ExtractedText == "" {
					docs[i].ExtractedText = text
					docs[i].ExtractedAt = &extractedAt
					docs[i].Status = "processed"
					r.data[userId] = docs
				}
				return nil
			}
		}
	}
	return ErrNotFound
}

// Delete removes a document owned by the user.
func (r *MemoryRepo) Delete(ctx context.Context, userId, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[userId]
	for i := range docs {
		if docs[i].ID == documentID {
			r.data[userId] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
