package search

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	// suggestionSampleSize bounds how many recent documents feed the
	// vocabulary, keeping worst-case latency independent of corpus size.
	suggestionSampleSize = 50
	// suggestionMinTermLen excludes short tokens; only terms strictly
	// longer than this participate on either side of the match.
	suggestionMinTermLen = 3
	// suggestionThreshold is the minimum similarity ratio for a
	// vocabulary word to count as a correction.
	suggestionThreshold = 0.75
)

var tokenPattern = regexp.MustCompile(`[a-zA-Z0-9]+`)

// BuildVocabulary tokenizes document texts into a sorted, deduplicated list
// of lower-case candidate words for query correction.
func BuildVocabulary(texts []string) []string {
	seen := make(map[string]struct{})
	for _, text := range texts {
		for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
			if len(token) > suggestionMinTermLen {
				seen[token] = struct{}{}
			}
		}
	}
	vocab := make([]string, 0, len(seen))
	for token := range seen {
		vocab = append(vocab, token)
	}
	sort.Strings(vocab)
	return vocab
}

// SuggestQuery proposes an alternative query by replacing each correctable
// term with its closest vocabulary match. A term is correctable when a
// vocabulary word scores at least the similarity threshold and differs from
// the term itself. Returns false when no substitution changed the query.
func SuggestQuery(query string, terms []string, vocab []string) (string, bool) {
	if strings.TrimSpace(query) == "" || len(vocab) == 0 {
		return "", false
	}

	suggested := query
	for _, term := range terms {
		if len(term) <= suggestionMinTermLen {
			continue
		}
		match, score := closestMatch(strings.ToLower(term), vocab)
		if match == "" || score < suggestionThreshold {
			continue
		}
		if strings.EqualFold(match, term) {
			continue
		}
		suggested = strings.ReplaceAll(suggested, term, match)
	}

	if suggested == query {
		return "", false
	}
	return suggested, true
}

func closestMatch(term string, vocab []string) (string, float64) {
	best := ""
	bestScore := 0.0
	for _, candidate := range vocab {
		if score := similarity(term, candidate); score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best, bestScore
}

// similarity returns a ratio in [0,1]: twice the number of characters the
// two strings share in sequence, over their combined length.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	dmp := diffmatchpatch.New()
	common := 0
	for _, diff := range dmp.DiffMain(a, b, false) {
		if diff.Type == diffmatchpatch.DiffEqual {
			common += len(diff.Text)
		}
	}
	return 2 * float64(common) / float64(total)
}
