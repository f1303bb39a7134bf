package search

import (
	"errors"
	"testing"
	"time"
)

func TestBuildQuery_RequiresOwner(t *testing.T) {
	_, err := BuildQuery(Request{Query: "contract"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBuildQuery_Defaults(t *testing.T) {
	q, err := BuildQuery(Request{Owner: "user-1"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if q.Page != 1 || q.PerPage != 10 {
		t.Fatalf("page=%d perPage=%d, want 1/10", q.Page, q.PerPage)
	}
	if q.Offset != 0 || q.Limit != 10 {
		t.Fatalf("offset=%d limit=%d, want 0/10", q.Offset, q.Limit)
	}
	if q.ByRelevance() {
		t.Fatal("empty query should not rank by relevance")
	}
}

func TestBuildQuery_SplitsTerms(t *testing.T) {
	q, err := BuildQuery(Request{Owner: "user-1", Query: "  confidentiality   clause "})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if q.Text != "confidentiality   clause" {
		t.Fatalf("text = %q", q.Text)
	}
	if len(q.Terms) != 2 || q.Terms[0] != "confidentiality" || q.Terms[1] != "clause" {
		t.Fatalf("terms = %v", q.Terms)
	}
	if !q.ByRelevance() {
		t.Fatal("free-text query should rank by relevance")
	}
}

func TestBuildQuery_CategoryWildcard(t *testing.T) {
	for _, raw := range []string{"", "all", "All", "ALL", "  aLl  "} {
		q, err := BuildQuery(Request{Owner: "user-1", Category: raw})
		if err != nil {
			t.Fatalf("build category %q: %v", raw, err)
		}
		if q.Category != "" {
			t.Fatalf("category %q should be treated as no filter, got %q", raw, q.Category)
		}
	}

	q, err := BuildQuery(Request{Owner: "user-1", Category: "Contracts"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if q.Category != "Contracts" {
		t.Fatalf("category = %q", q.Category)
	}
}

func TestBuildQuery_DateOnlyEndDateWidened(t *testing.T) {
	q, err := BuildQuery(Request{Owner: "user-1", EndDate: "2024-03-01"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC)
	if q.To == nil || !q.To.Equal(want) {
		t.Fatalf("to = %v, want %v", q.To, want)
	}
}

func TestBuildQuery_TimestampEndDateNotWidened(t *testing.T) {
	q, err := BuildQuery(Request{Owner: "user-1", EndDate: "2024-03-01T10:30:00Z"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	if q.To == nil || !q.To.Equal(want) {
		t.Fatalf("to = %v, want %v", q.To, want)
	}
}

func TestBuildQuery_StartDateParsed(t *testing.T) {
	q, err := BuildQuery(Request{Owner: "user-1", StartDate: "2024-01-15"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if q.From == nil || !q.From.Equal(want) {
		t.Fatalf("from = %v, want %v", q.From, want)
	}
}

func TestBuildQuery_MalformedDates(t *testing.T) {
	for _, raw := range []string{"yesterday", "2024-13-40", "01/02/2024"} {
		if _, err := BuildQuery(Request{Owner: "user-1", StartDate: raw}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("start date %q: expected ErrInvalidInput, got %v", raw, err)
		}
		if _, err := BuildQuery(Request{Owner: "user-1", EndDate: raw}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("end date %q: expected ErrInvalidInput, got %v", raw, err)
		}
	}
}

func TestBuildQuery_TagsTrimmed(t *testing.T) {
	q, err := BuildQuery(Request{Owner: "user-1", Tags: []string{" urgent ", "", "  ", "signed"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(q.Tags) != 2 || q.Tags[0] != "urgent" || q.Tags[1] != "signed" {
		t.Fatalf("tags = %v", q.Tags)
	}
}

func TestBuildQuery_Pagination(t *testing.T) {
	tests := []struct {
		name        string
		page        string
		perPage     string
		wantPage    int
		wantPerPage int
		wantErr     bool
	}{
		{name: "explicit", page: "3", perPage: "25", wantPage: 3, wantPerPage: 25},
		{name: "zero coerced", page: "0", perPage: "0", wantPage: 1, wantPerPage: 10},
		{name: "negative coerced", page: "-2", perPage: "-5", wantPage: 1, wantPerPage: 10},
		{name: "non-integer page", page: "abc", wantErr: true},
		{name: "non-integer per_page", perPage: "many", wantErr: true},
		{name: "float page", page: "1.5", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := BuildQuery(Request{Owner: "user-1", Page: tc.page, PerPage: tc.perPage})
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if q.Page != tc.wantPage || q.PerPage != tc.wantPerPage {
				t.Fatalf("page=%d perPage=%d, want %d/%d", q.Page, q.PerPage, tc.wantPage, tc.wantPerPage)
			}
			if q.Offset != (tc.wantPage-1)*tc.wantPerPage {
				t.Fatalf("offset = %d", q.Offset)
			}
		})
	}
}
