package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

const documentColumns = `id, user_id, name, extracted_text, category, file_type, status, tags, storage_key, summary, key_info, risk_analysis, upload_date, extracted_at`

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    user_id,
    name,
    extracted_text,
    category,
    file_type,
    status,
    tags,
    storage_key,
    summary,
    key_info,
    risk_analysis,
    upload_date,
    extracted_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	category := doc.Category
	if category == "" {
		category = DefaultCategory
	}
	status := doc.Status
	if status == "" {
		status = "uploaded"
	}

	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.UserID,
		doc.Name,
		nullString(doc.ExtractedText),
		category,
		doc.FileType,
		status,
		tagsJSON,
		nullString(doc.StorageKey),
		nullString(doc.Summary),
		nullString(doc.KeyInfo),
		nullString(doc.RiskAnalysis),
		doc.UploadDate,
		nullTime(doc.ExtractedAt),
	)
	return err
}

// GetByID fetches a document by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userId, documentID string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1 AND id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, userId, documentID)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByUser lists documents ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userId string, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1
ORDER BY upload_date DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userId, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// ListPendingExtraction returns documents that still need text extraction.
func (r *PGRepo) ListPendingExtraction(ctx context.Context, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE extracted_text IS NULL AND storage_key IS NOT NULL
ORDER BY upload_date ASC
LIMIT $1`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// SetExtractedText stores the extraction result. Only the first extraction wins.
func (r *PGRepo) SetExtractedText(ctx context.Context, documentID, text string, extractedAt time.Time) error {
	const query = `
UPDATE documents
SET extracted_text = $1, extracted_at = $2, status = 'processed'
WHERE id = $3 AND extracted_text IS NULL`
	_, err := r.DB.ExecContext(ctx, query, text, extractedAt, documentID)
	return err
}

// Delete removes a document owned by the user.
func (r *PGRepo) Delete(ctx context.Context, userId, documentID string) error {
	const query = `DELETE FROM documents WHERE user_id = $1 AND id = $2`
	res, err := r.DB.ExecContext(ctx, query, userId, documentID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var extractedText sql.NullString
	var tagsJSON []byte
	var storageKey sql.NullString
	var summary sql.NullString
	var keyInfo sql.NullString
	var riskAnalysis sql.NullString
	var extractedAt sql.NullTime
	if err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Name,
		&extractedText,
		&doc.Category,
		&doc.FileType,
		&doc.Status,
		&tagsJSON,
		&storageKey,
		&summary,
		&keyInfo,
		&riskAnalysis,
		&doc.UploadDate,
		&extractedAt,
	); err != nil {
		return Document{}, err
	}
	if extractedText.Valid {
		doc.ExtractedText = extractedText.String
	}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &doc.Tags); err != nil {
			return Document{}, err
		}
	}
	if storageKey.Valid {
		doc.StorageKey = storageKey.String
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
	if extractedAt.Valid {
		doc.ExtractedAt = &extractedAt.Time
	}
	return doc, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
