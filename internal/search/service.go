package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"legaldocs-backend/internal/documents"
	"legaldocs-backend/internal/shared/metrics"
	"legaldocs-backend/internal/shared/telemetry"
)

// Service orchestrates the search pipeline: query building, retrieval,
// suggestion on empty results, and result rendering.
type Service struct {
	Store Store
	Saved SavedSearchStore
}

// NewService constructs a Service.
func NewService(store Store, saved SavedSearchStore) *Service {
	return &Service{Store: store, Saved: saved}
}

// Search runs one search request end to end and returns the response
// envelope. The executed query is never altered by the suggestion step.
func (s *Service) Search(ctx context.Context, req Request) (Envelope, error) {
	started := time.Now()

	q, err := BuildQuery(req)
	if err != nil {
		return Envelope{}, err
	}

	total, err := s.Store.Count(ctx, q)
	if err != nil {
		return Envelope{}, fmt.Errorf("count documents: %w", err)
	}

	docs, err := s.Store.Search(ctx, q)
	if err != nil {
		return Envelope{}, fmt.Errorf("search documents: %w", err)
	}

	suggestion := ""
	if total == 0 && q.Text != "" {
		suggestion = s.suggest(ctx, q)
	}

	results := make([]Result, 0, len(docs))
	for _, doc := range docs {
		results = append(results, RenderResult(doc, q.Terms))
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + q.PerPage - 1) / q.PerPage
	}

	metrics.IncSearch()
	if total == 0 {
		metrics.IncSearchZeroResult()
	}
	if suggestion != "" {
		metrics.IncSearchSuggestion()
	}
	metrics.ObserveSearchDurationMs(float64(time.Since(started).Microseconds()) / 1000.0)

	return Envelope{
		Results:    results,
		Total:      total,
		Page:       q.Page,
		PerPage:    q.PerPage,
		TotalPages: totalPages,
		Suggestion: suggestion,
	}, nil
}

// suggest computes an alternative query from the owner's own recent
// documents. Failures here degrade to "no suggestion"; they never fail the
// search itself.
func (s *Service) suggest(ctx context.Context, q Query) string {
	texts, err := s.Store.RecentTexts(ctx, q.Owner, suggestionSampleSize)
	if err != nil {
		telemetry.Warn("search.suggestion_sample_failed", map[string]any{"error": err.Error()})
		return ""
	}
	vocab := BuildVocabulary(texts)
	suggested, ok := SuggestQuery(q.Text, q.Terms, vocab)
	if !ok {
		return ""
	}
	return suggested
}

// Facets returns the filter values available to the owner. Categories
// always include the default category so the UI can offer it explicitly.
func (s *Service) Facets(ctx context.Context, owner string) (Facets, error) {
	if strings.TrimSpace(owner) == "" {
		return Facets{}, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}
	f, err := s.Store.Facets(ctx, owner)
	if err != nil {
		return Facets{}, fmt.Errorf("fetch facets: %w", err)
	}

	if !containsString(f.Categories, documents.DefaultCategory) {
		f.Categories = append(f.Categories, documents.DefaultCategory)
	}
	f.Categories = normalizeFacet(f.Categories)
	f.FileTypes = normalizeFacet(f.FileTypes)
	f.Tags = normalizeFacet(f.Tags)
	f.Statuses = normalizeFacet(f.Statuses)
	return f, nil
}

// Categories returns the owner's distinct categories, for filter UIs that
// only need that one facet.
func (s *Service) Categories(ctx context.Context, owner string) ([]string, error) {
	f, err := s.Facets(ctx, owner)
	if err != nil {
		return nil, err
	}
	return f.Categories, nil
}

// SavedSearches lists the owner's saved searches, newest first.
func (s *Service) SavedSearches(ctx context.Context, owner string) ([]SavedSearch, error) {
	saved, err := s.Saved.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list saved searches: %w", err)
	}
	return saved, nil
}

// SaveSearch persists a named search configuration for the owner.
func (s *Service) SaveSearch(ctx context.Context, owner, name string, query json.RawMessage) (SavedSearch, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(query) == 0 {
		return SavedSearch{}, fmt.Errorf("%w: name and query parameters are required", ErrInvalidInput)
	}

	saved := SavedSearch{
		ID:        uuid.NewString(),
		Owner:     owner,
		Name:      name,
		Query:     query,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Saved.Create(ctx, saved); err != nil {
		return SavedSearch{}, fmt.Errorf("save search: %w", err)
	}
	return saved, nil
}

// DeleteSavedSearch removes a saved search owned by the caller.
func (s *Service) DeleteSavedSearch(ctx context.Context, owner, id string) error {
	return s.Saved.Delete(ctx, owner, id)
}

// normalizeFacet sorts ascending, drops blanks, and deduplicates. Always
// returns a non-nil slice so facet fields serialize as JSON arrays.
func normalizeFacet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
