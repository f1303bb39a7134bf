package search

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"legaldocs-backend/internal/documents"
)

// searchVector matches the expression behind the GIN index created by the
// migrations; the planner only uses the index when the two agree.
const searchVector = `to_tsvector('english', coalesce(name, '') || ' ' || coalesce(extracted_text, '') || ' ' || coalesce(category, ''))`

// PGStore implements Store against Postgres full-text search.
type PGStore struct {
	DB *sql.DB
}

// Search executes the query and returns one page of matching documents,
// ranked by text relevance (when a free-text query is present) and recency.
func (s *PGStore) Search(ctx context.Context, q Query) ([]documents.Document, error) {
	where, args, err := buildConditions(q)
	if err != nil {
		return nil, err
	}

	rankExpr := "0"
	orderBy := "upload_date DESC"
	if q.ByRelevance() {
		rankExpr = fmt.Sprintf("ts_rank(%s, plainto_tsquery('english', $%d))", searchVector, len(args)+1)
		args = append(args, q.Text)
		orderBy = "rank DESC, upload_date DESC"
	}

	query := fmt.Sprintf(`
SELECT id, user_id, name, extracted_text, category, file_type, status, tags, summary, key_info, risk_analysis, upload_date, %s AS rank
FROM documents
WHERE %s
ORDER BY %s
LIMIT $%d OFFSET $%d`, rankExpr, where, orderBy, len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []documents.Document
	for rows.Next() {
		var doc documents.Document
		var extractedText sql.NullString
		var tagsJSON []byte
		var summary sql.NullString
		var keyInfo sql.NullString
		var riskAnalysis sql.NullString
		var rank float64
		if err := rows.Scan(
			&doc.ID,
			&doc.UserID,
			&doc.Name,
			&extractedText,
			&doc.Category,
			&doc.FileType,
			&doc.Status,
			&tagsJSON,
			&summary,
			&keyInfo,
			&riskAnalysis,
			&doc.UploadDate,
			&rank,
		); err != nil {
			return nil, err
		}
		if extractedText.Valid {
			doc.ExtractedText = extractedText.String
		}
		if len(tagsJSON) > 0 {
			if err := json.Unmarshal(tagsJSON, &doc.Tags); err != nil {
				return nil, err
			}
		}
		if summary.Valid {
			doc.Summary = summary.String
		}
		if keyInfo.Valid {
			doc.KeyInfo = keyInfo.String
		}
		if riskAnalysis.Valid {
			doc.RiskAnalysis = riskAnalysis.String
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Count returns the total number of matches before pagination.
func (s *PGStore) Count(ctx context.Context, q Query) (int, error) {
	where, args, err := buildConditions(q)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM documents WHERE %s`, where)
	var total int
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Facets returns the distinct filter values used by one owner's documents.
func (s *PGStore) Facets(ctx context.Context, owner string) (Facets, error) {
	var f Facets
	var err error
	if f.Categories, err = s.distinct(ctx, `SELECT DISTINCT category FROM documents WHERE user_id = $1`, owner); err != nil {
		return Facets{}, err
	}
	if f.FileTypes, err = s.distinct(ctx, `SELECT DISTINCT file_type FROM documents WHERE user_id = $1`, owner); err != nil {
		return Facets{}, err
	}
	if f.Tags, err = s.distinct(ctx, `SELECT DISTINCT tag FROM documents, jsonb_array_elements_text(tags) AS tag WHERE user_id = $1`, owner); err != nil {
		return Facets{}, err
	}
	if f.Statuses, err = s.distinct(ctx, `SELECT DISTINCT status FROM documents WHERE user_id = $1`, owner); err != nil {
		return Facets{}, err
	}
	return f, nil
}

// RecentTexts returns the extracted text of the owner's most recent
// documents, newest first, for suggestion vocabulary building.
func (s *PGStore) RecentTexts(ctx context.Context, owner string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = suggestionSampleSize
	}
	const query = `
SELECT extracted_text
FROM documents
WHERE user_id = $1 AND extracted_text IS NOT NULL
ORDER BY upload_date DESC
LIMIT $2`

	rows, err := s.DB.QueryContext(ctx, query, owner, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, err
		}
		out = append(out, text)
	}
	return out, rows.Err()
}

func (s *PGStore) distinct(ctx context.Context, query, owner string) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var val sql.NullString
		if err := rows.Scan(&val); err != nil {
			return nil, err
		}
		if val.Valid && val.String != "" {
			out = append(out, val.String)
		}
	}
	return out, rows.Err()
}

// buildConditions renders the WHERE clause shared by Search and Count. The
// owner filter always comes first and is never optional.
func buildConditions(q Query) (string, []any, error) {
	if q.Owner == "" {
		return "", nil, errors.New("query missing owner scope")
	}

	conditions := []string{"user_id = $1"}
	args := []any{q.Owner}

	add := func(format string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(format, len(args)))
	}

	if q.ByRelevance() {
		add(searchVector+" @@ plainto_tsquery('english', $%d)", q.Text)
	}
	if q.Category != "" {
		add("category = $%d", q.Category)
	}
	if q.FileType != "" {
		add("file_type = $%d", q.FileType)
	}
	if q.Status != "" {
		add("status = $%d", q.Status)
	}
	if len(q.Tags) > 0 {
		tagsJSON, err := json.Marshal(q.Tags)
		if err != nil {
			return "", nil, err
		}
		add("tags @> $%d::jsonb", string(tagsJSON))
	}
	if q.From != nil {
		add("upload_date >= $%d", *q.From)
	}
	if q.To != nil {
		add("upload_date <= $%d", *q.To)
	}

	return strings.Join(conditions, " AND "), args, nil
}

var _ Store = (*PGStore)(nil)

// PGSavedSearches implements SavedSearchStore using Postgres.
type PGSavedSearches struct {
	DB *sql.DB
}

// ListByOwner returns the owner's saved searches, newest first.
func (s *PGSavedSearches) ListByOwner(ctx context.Context, owner string) ([]SavedSearch, error) {
	const query = `
SELECT id, user_id, name, query, created_at
FROM saved_searches
WHERE user_id = $1
ORDER BY created_at DESC`

	rows, err := s.DB.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SavedSearch
	for rows.Next() {
		var saved SavedSearch
		var payload []byte
		if err := rows.Scan(&saved.ID, &saved.Owner, &saved.Name, &payload, &saved.CreatedAt); err != nil {
			return nil, err
		}
		saved.Query = json.RawMessage(payload)
		out = append(out, saved)
	}
	return out, rows.Err()
}

// Create inserts a saved search.
func (s *PGSavedSearches) Create(ctx context.Context, saved SavedSearch) error {
	const query = `
INSERT INTO saved_searches (id, user_id, name, query, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := s.DB.ExecContext(ctx, query, saved.ID, saved.Owner, saved.Name, []byte(saved.Query), saved.CreatedAt)
	return err
}

// Delete removes a saved search owned by the caller.
func (s *PGSavedSearches) Delete(ctx context.Context, owner, id string) error {
	const query = `DELETE FROM saved_searches WHERE id = $1 AND user_id = $2`
	res, err := s.DB.ExecContext(ctx, query, id, owner)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ SavedSearchStore = (*PGSavedSearches)(nil)
