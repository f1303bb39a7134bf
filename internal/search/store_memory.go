package search

import (
	"context"
	"sort"
	"strings"
	"sync"

	"legaldocs-backend/internal/documents"
)

// MemoryStore implements Store over the in-memory documents repository.
// Relevance is approximated by counting term occurrences across the same
// field set the Postgres text index covers (name, extracted text, category).
type MemoryStore struct {
	Docs *documents.MemoryRepo
}

// NewMemoryStore constructs a MemoryStore backed by the given repo.
func NewMemoryStore(docs *documents.MemoryRepo) *MemoryStore {
	return &MemoryStore{Docs: docs}
}

// Search returns one page of matching documents, most relevant first.
func (s *MemoryStore) Search(ctx context.Context, q Query) ([]documents.Document, error) {
	matched, err := s.match(ctx, q)
	if err != nil {
		return nil, err
	}

	start := q.Offset
	if start < 0 {
		start = 0
	}
	if start >= len(matched) {
		return []documents.Document{}, nil
	}
	end := len(matched)
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}
	return matched[start:end], nil
}

// Count returns the total number of matches before pagination.
func (s *MemoryStore) Count(ctx context.Context, q Query) (int, error) {
	matched, err := s.match(ctx, q)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

// Facets returns the distinct filter values used by one owner's documents.
func (s *MemoryStore) Facets(ctx context.Context, owner string) (Facets, error) {
	docs, err := s.Docs.AllByUser(ctx, owner)
	if err != nil {
		return Facets{}, err
	}

	categories := make(map[string]struct{})
	fileTypes := make(map[string]struct{})
	tags := make(map[string]struct{})
	statuses := make(map[string]struct{})
	for _, doc := range docs {
		if doc.Category != "" {
			categories[doc.Category] = struct{}{}
		}
		if doc.FileType != "" {
			fileTypes[doc.FileType] = struct{}{}
		}
		for _, tag := range doc.Tags {
			if tag != "" {
				tags[tag] = struct{}{}
			}
		}
		if doc.Status != "" {
			statuses[doc.Status] = struct{}{}
		}
	}

	return Facets{
		Categories: setToSlice(categories),
		FileTypes:  setToSlice(fileTypes),
		Tags:       setToSlice(tags),
		Statuses:   setToSlice(statuses),
	}, nil
}

// RecentTexts returns extracted text of the owner's newest documents.
func (s *MemoryStore) RecentTexts(ctx context.Context, owner string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = suggestionSampleSize
	}
	docs, err := s.Docs.AllByUser(ctx, owner)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, doc := range docs {
		if doc.ExtractedText == "" {
			continue
		}
		out = append(out, doc.ExtractedText)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type scoredDoc struct {
	doc   documents.Document
	score int
}

func (s *MemoryStore) match(ctx context.Context, q Query) ([]documents.Document, error) {
	docs, err := s.Docs.AllByUser(ctx, q.Owner)
	if err != nil {
		return nil, err
	}

	var scored []scoredDoc
	for _, doc := range docs {
		if !filterMatches(doc, q) {
			continue
		}
		score := 0
		if q.ByRelevance() {
			score = termScore(doc, q.Terms)
			if score == 0 {
				continue
			}
		}
		scored = append(scored, scoredDoc{doc: doc, score: score})
	}

	// AllByUser is already newest-first; a stable sort on score keeps the
	// recency tiebreak intact.
	if q.ByRelevance() {
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].score > scored[j].score
		})
	}

	out := make([]documents.Document, 0, len(scored))
	for _, sd := range scored {
		out = append(out, sd.doc)
	}
	return out, nil
}

func filterMatches(doc documents.Document, q Query) bool {
	if doc.UserID != q.Owner {
		return false
	}
	if q.Category != "" && doc.Category != q.Category {
		return false
	}
	if q.FileType != "" && doc.FileType != q.FileType {
		return false
	}
	if q.Status != "" && doc.Status != q.Status {
		return false
	}
	for _, required := range q.Tags {
		if !containsString(doc.Tags, required) {
			return false
		}
	}
	if q.From != nil && doc.UploadDate.Before(*q.From) {
		return false
	}
	if q.To != nil && doc.UploadDate.After(*q.To) {
		return false
	}
	return true
}

func termScore(doc documents.Document, terms []string) int {
	haystack := strings.ToLower(doc.Name + " " + doc.ExtractedText + " " + doc.Category)
	score := 0
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		score += strings.Count(haystack, term)
	}
	return score
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func setToSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

var _ Store = (*MemoryStore)(nil)

// MemorySavedSearches is an in-memory SavedSearchStore.
type MemorySavedSearches struct {
	mu   sync.RWMutex
	data map[string][]SavedSearch // owner -> saved searches
}

// NewMemorySavedSearches constructs a MemorySavedSearches.
func NewMemorySavedSearches() *MemorySavedSearches {
	return &MemorySavedSearches{data: make(map[string][]SavedSearch)}
}

// ListByOwner returns the owner's saved searches, newest first.
func (s *MemorySavedSearches) ListByOwner(ctx context.Context, owner string) ([]SavedSearch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	saved := s.data[owner]
	s.mu.RUnlock()

	out := make([]SavedSearch, len(saved))
	copy(out, saved)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Create stores a saved search.
func (s *MemorySavedSearches) Create(ctx context.Context, saved SavedSearch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[saved.Owner] = append(s.data[saved.Owner], saved)
	return nil
}

// Delete removes a saved search owned by the caller.
func (s *MemorySavedSearches) Delete(ctx context.Context, owner, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := s.data[owner]
	for i := range saved {
		if saved[i].ID == id {
			s.data[owner] = append(saved[:i], saved[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

var _ SavedSearchStore = (*MemorySavedSearches)(nil)
