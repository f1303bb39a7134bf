package search

import (
	"encoding/json"
	"time"
)

// Request carries the raw search parameters as received from the client.
// Dates and pagination stay as strings here; BuildQuery owns validation.
type Request struct {
	Owner     string
	Query     string
	Category  string
	StartDate string
	EndDate   string
	FileType  string
	Status    string
	Tags      []string
	Page      string
	PerPage   string
}

// Query is the validated, store-neutral form of a search request. Every
// query is scoped to its owner; stores must never relax that.
type Query struct {
	Owner    string
	Text     string
	Terms    []string
	Category string
	FileType string
	Status   string
	Tags     []string
	From     *time.Time
	To       *time.Time
	Page     int
	PerPage  int
	Offset   int
	Limit    int
}

// ByRelevance reports whether results should be ranked by text relevance
// before the recency tiebreak.
func (q Query) ByRelevance() bool {
	return q.Text != ""
}

// Result is one rendered search hit.
type Result struct {
	ID                 string   `json:"_id"`
	Name               string   `json:"name"`
	Category           string   `json:"category"`
	FileType           string   `json:"file_type"`
	Status             string   `json:"status"`
	Tags               []string `json:"tags"`
	UploadDate         string   `json:"upload_date"`
	ExtractedText      string   `json:"extracted_text,omitempty"`
	Summary            string   `json:"summary,omitempty"`
	KeyInfo            string   `json:"key_info,omitempty"`
	RiskAnalysis       string   `json:"risk_analysis,omitempty"`
	HighlightedSnippet string   `json:"highlighted_snippet,omitempty"`
	HighlightedName    string   `json:"highlighted_name,omitempty"`
}

// Envelope is the search response contract. Suggestion is omitted entirely
// when no alternative query was produced.
type Envelope struct {
	Results    []Result `json:"results"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	PerPage    int      `json:"per_page"`
	TotalPages int      `json:"total_pages"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Facets enumerates the distinct filter values available to one user.
type Facets struct {
	Categories []string `json:"categories"`
	FileTypes  []string `json:"file_types"`
	Tags       []string `json:"tags"`
	Statuses   []string `json:"statuses"`
}

// SavedSearch is a named, persisted search configuration. The query payload
// is stored opaquely; it is replayed by the client, not by the server.
type SavedSearch struct {
	ID        string
	Owner     string
	Name      string
	Query     json.RawMessage
	CreatedAt time.Time
}
