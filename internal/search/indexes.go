package search

import (
	"context"
	"database/sql"

	"legaldocs-backend/internal/shared/telemetry"
)

// indexStatements mirrors the index migrations so stores provisioned
// outside goose still get the indexes search depends on.
var indexStatements = []struct {
	name string
	stmt string
}{
	{"document_search_index", `CREATE INDEX IF NOT EXISTS document_search_index ON documents USING GIN (` + searchVector + `)`},
	{"user_id_index", `CREATE INDEX IF NOT EXISTS user_id_index ON documents (user_id)`},
	{"category_index", `CREATE INDEX IF NOT EXISTS category_index ON documents (category)`},
	{"upload_date_index", `CREATE INDEX IF NOT EXISTS upload_date_index ON documents (upload_date)`},
	{"file_type_index", `CREATE INDEX IF NOT EXISTS file_type_index ON documents (file_type)`},
	{"tags_index", `CREATE INDEX IF NOT EXISTS tags_index ON documents USING GIN (tags jsonb_path_ops)`},
	{"status_index", `CREATE INDEX IF NOT EXISTS status_index ON documents (status)`},
	{"saved_search_user_index", `CREATE INDEX IF NOT EXISTS saved_search_user_index ON saved_searches (user_id)`},
}

// EnsureIndexes creates the full-text and lookup indexes search relies on.
// It is idempotent and safe to invoke on every startup; failures are logged
// as warnings so an index-creation race or permission gap never blocks
// serving. A nil database (in-memory mode) is a no-op.
func EnsureIndexes(ctx context.Context, database *sql.DB) {
	if database == nil {
		return
	}
	for _, idx := range indexStatements {
		if _, err := database.ExecContext(ctx, idx.stmt); err != nil {
			telemetry.Warn("search.index_setup_failed", map[string]any{
				"index": idx.name,
				"error": err.Error(),
			})
		}
	}
	telemetry.Info("search.indexes_ensured", map[string]any{"count": len(indexStatements)})
}
