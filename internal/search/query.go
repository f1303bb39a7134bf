package search

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPage    = 1
	defaultPerPage = 10
)

// categoryWildcard reports whether a category filter value means "no filter".
func categoryWildcard(category string) bool {
	return category == "" || strings.EqualFold(category, "all")
}

// BuildQuery validates a Request and converts it into a Query. The owner
// scope is mandatory; every other field is optional. Malformed dates and
// non-integer pagination yield ErrInvalidInput.
func BuildQuery(req Request) (Query, error) {
	owner := strings.TrimSpace(req.Owner)
	if owner == "" {
		return Query{}, fmt.Errorf("%w: owner is required", ErrInvalidInput)
	}

	q := Query{Owner: owner}

	if text := strings.TrimSpace(req.Query); text != "" {
		q.Text = text
		q.Terms = strings.Fields(text)
	}

	if category := strings.TrimSpace(req.Category); !categoryWildcard(category) {
		q.Category = category
	}

	if raw := strings.TrimSpace(req.StartDate); raw != "" {
		from, err := parseDateTime(raw)
		if err != nil {
			return Query{}, err
		}
		q.From = &from
	}

	if raw := strings.TrimSpace(req.EndDate); raw != "" {
		to, err := parseDateTime(raw)
		if err != nil {
			return Query{}, err
		}
		// A date-only upper bound means "through the end of that day".
		if !strings.Contains(raw, "T") {
			to = to.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
		}
		q.To = &to
	}

	if fileType := strings.TrimSpace(req.FileType); fileType != "" {
		q.FileType = fileType
	}
	if status := strings.TrimSpace(req.Status); status != "" {
		q.Status = status
	}

	for _, tag := range req.Tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			q.Tags = append(q.Tags, trimmed)
		}
	}

	page, err := parsePositiveInt(req.Page, "page", defaultPage)
	if err != nil {
		return Query{}, err
	}
	perPage, err := parsePositiveInt(req.PerPage, "per_page", defaultPerPage)
	if err != nil {
		return Query{}, err
	}

	q.Page = page
	q.PerPage = perPage
	q.Offset = (page - 1) * perPage
	q.Limit = perPage

	return q, nil
}

func parseDateTime(raw string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, raw)
}

func parsePositiveInt(raw, name string, def int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidInput, name)
	}
	if val < 1 {
		return def, nil
	}
	return val, nil
}
