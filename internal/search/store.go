package search

import (
	"context"

	"legaldocs-backend/internal/documents"
)

// Store is the document-store capability the search path depends on:
// filtered, relevance-ranked retrieval plus facet enumeration and the
// bounded recent-text sample that feeds query suggestions.
type Store interface {
	Search(ctx context.Context, q Query) ([]documents.Document, error)
	Count(ctx context.Context, q Query) (int, error)
	Facets(ctx context.Context, owner string) (Facets, error)
	RecentTexts(ctx context.Context, owner string, limit int) ([]string, error)
}

// SavedSearchStore persists named search configurations.
type SavedSearchStore interface {
	ListByOwner(ctx context.Context, owner string) ([]SavedSearch, error)
	Create(ctx context.Context, saved SavedSearch) error
	// Delete removes a saved search owned by the caller; ErrNotFound when
	// it is absent or owned by someone else.
	Delete(ctx context.Context, owner, id string) error
}
