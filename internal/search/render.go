package search

import (
	"html"
	"regexp"
	"strings"
	"time"
	"unicode"

	"legaldocs-backend/internal/documents"
)

const (
	snippetMaxLength = 300
	previewMaxLength = 250

	highlightOpen  = "<mark>"
	highlightClose = "</mark>"
)

// RenderResult formats one stored document as a search hit. It is a pure
// transformation; the stored record is never modified.
func RenderResult(doc documents.Document, terms []string) Result {
	res := Result{
		ID:           doc.ID,
		Name:         doc.Name,
		Category:     doc.Category,
		FileType:     doc.FileType,
		Status:       doc.Status,
		Tags:         doc.Tags,
		UploadDate:   doc.UploadDate.UTC().Format(time.RFC3339),
		Summary:      doc.Summary,
		KeyInfo:      doc.KeyInfo,
		RiskAnalysis: doc.RiskAnalysis,
	}
	if res.Tags == nil {
		res.Tags = []string{}
	}

	if doc.ExtractedText != "" {
		if len(terms) > 0 {
			snippet := Snippet(doc.ExtractedText, terms, snippetMaxLength)
			res.HighlightedSnippet = HighlightTerms(snippet, terms)
		}
		res.ExtractedText = truncateWithEllipsis(doc.ExtractedText, previewMaxLength)
	}

	if doc.Name != "" && len(terms) > 0 {
		res.HighlightedName = HighlightTerms(doc.Name, terms)
	}

	return res
}

// HighlightTerms wraps every case-insensitive occurrence of the given terms
// in emphasis markers. The text is HTML-escaped before matching so the
// output carries no injectable markup, and terms are regex-escaped so
// metacharacters match literally.
func HighlightTerms(text string, terms []string) string {
	if text == "" || len(terms) == 0 {
		return text
	}

	highlighted := html.EscapeString(text)
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		pattern, err := regexp.Compile(`(?i)(` + regexp.QuoteMeta(term) + `)`)
		if err != nil {
			continue
		}
		highlighted = pattern.ReplaceAllString(highlighted, highlightOpen+"$1"+highlightClose)
	}
	return highlighted
}

// Snippet carves a window of at most maxLength characters around the
// earliest case-insensitive occurrence of any term. The remaining budget
// after the matched term is split evenly on each side, so the term itself
// is never cut at a window boundary. Ellipsis markers flag truncated edges.
// Without a match the window falls back to the start of the text. All
// offsets and budgets count runes, not bytes, so multibyte text never
// splits mid-character.
func Snippet(text string, terms []string, maxLength int) string {
	if text == "" || len(terms) == 0 {
		return truncateWithEllipsis(text, maxLength)
	}

	runes := []rune(text)
	lower := lowerRunes(runes)
	position := -1
	matchedLen := 0
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		needle := lowerRunes([]rune(term))
		if pos := indexRunes(lower, needle); pos != -1 && (position == -1 || pos < position) {
			position = pos
			matchedLen = len(needle)
		}
	}

	if position == -1 {
		return truncateWithEllipsis(text, maxLength)
	}

	contextSize := (maxLength - matchedLen) / 2

	start := position - contextSize
	if start < 0 {
		start = 0
	}
	end := position + matchedLen + contextSize
	if end > len(runes) {
		end = len(runes)
	}

	snippet := string(runes[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(runes) {
		snippet = snippet + "..."
	}
	return snippet
}

func truncateWithEllipsis(text string, max int) string {
	runes := []rune(text)
	if len(runes) > max {
		return string(runes[:max]) + "..."
	}
	return text
}

func lowerRunes(src []rune) []rune {
	out := make([]rune, len(src))
	for i, r := range src {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
