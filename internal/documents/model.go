package documents

import "time"

// File types supported by the assistant.
const (
	FileTypePDF  = "pdf"
	FileTypeDOCX = "docx"
	FileTypeTXT  = "txt"
)

// DefaultCategory is assigned when no category has been set or suggested.
const DefaultCategory = "Uncategorized"

// Document represents an uploaded document owned by a user, together with
// metadata derived by downstream processing (text extraction, AI analysis).
type Document struct {
	ID            string
	UserID        string
	Name          string
	ExtractedText string
	Category      string
	FileType      string
	Status        string
	Tags          []string
	StorageKey    string
	Summary       string
	KeyInfo       string
	RiskAnalysis  string
	UploadDate    time.Time
	ExtractedAt   *time.Time
}

// Extracted reports whether text extraction has completed for this document.
func (d Document) Extracted() bool {
	return d.ExtractedText != ""
}
