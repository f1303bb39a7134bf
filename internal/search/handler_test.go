package search_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"legaldocs-backend/internal/bootstrap"
	"legaldocs-backend/internal/documents"
	"legaldocs-backend/internal/shared/config"
)

const guestID = "handler-test-guest"

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", guestID)
}

func newTestApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func seedDoc(t *testing.T, app *bootstrap.App, id, name, category, text string, tags []string, uploaded time.Time) {
	t.Helper()
	doc := documents.Document{
		ID:            id,
		UserID:        "guest:" + guestID,
		Name:          name,
		Category:      category,
		FileType:      "pdf",
		Status:        "processed",
		Tags:          tags,
		ExtractedText: text,
		UploadDate:    uploaded,
	}
	if err := app.DocumentsRepo.Create(context.Background(), doc); err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
}

func TestSearchEndpoint(t *testing.T) {
	app := newTestApp(t)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	seedDoc(t, app, "doc-1", "Service Agreement.pdf", "Contracts",
		"This agreement contains a confidentiality clause binding both parties.",
		[]string{"signed"}, base)
	seedDoc(t, app, "doc-2", "Invoice March.pdf", "Finance",
		"Invoice for services rendered in March.", nil, base.Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=confidentiality", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Results []struct {
			ID                 string   `json:"_id"`
			Name               string   `json:"name"`
			Tags               []string `json:"tags"`
			HighlightedSnippet string   `json:"highlighted_snippet"`
		} `json:"results"`
		Total      int    `json:"total"`
		Page       int    `json:"page"`
		PerPage    int    `json:"per_page"`
		TotalPages int    `json:"total_pages"`
		Suggestion string `json:"suggestion"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Total != 1 || len(envelope.Results) != 1 {
		t.Fatalf("total=%d results=%d", envelope.Total, len(envelope.Results))
	}
	if envelope.Results[0].ID != "doc-1" {
		t.Fatalf("result id = %q", envelope.Results[0].ID)
	}
	if !strings.Contains(envelope.Results[0].HighlightedSnippet, "<mark>confidentiality</mark>") {
		t.Fatalf("snippet = %q", envelope.Results[0].HighlightedSnippet)
	}
	if envelope.Page != 1 || envelope.PerPage != 10 || envelope.TotalPages != 1 {
		t.Fatalf("pagination %d/%d/%d", envelope.Page, envelope.PerPage, envelope.TotalPages)
	}
}

func TestSearchEndpointValidation(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?page=abc", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "validation_error" {
		t.Fatalf("error code = %q", body.Error.Code)
	}
}

func TestSearchEndpointRequiresIdentity(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.Code)
	}
}

func TestSearchFiltersEndpoint(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search/filters", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	var facets struct {
		Categories []string `json:"categories"`
		FileTypes  []string `json:"file_types"`
		Tags       []string `json:"tags"`
		Statuses   []string `json:"statuses"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&facets); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// A user with no documents still gets the default category.
	if len(facets.Categories) != 1 || facets.Categories[0] != "Uncategorized" {
		t.Fatalf("categories = %v", facets.Categories)
	}
	if facets.Tags == nil || facets.FileTypes == nil || facets.Statuses == nil {
		t.Fatalf("facet arrays must not be null: %+v", facets)
	}
}

func TestSearchTagFilterEndpoint(t *testing.T) {
	app := newTestApp(t)
	now := time.Now().UTC()
	seedDoc(t, app, "both", "Both Tags.pdf", "Contracts", "text", []string{"signed", "urgent"}, now)
	seedDoc(t, app, "one", "One Tag.pdf", "Contracts", "text", []string{"signed"}, now.Add(time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?tags=signed&tags=urgent", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	var envelope struct {
		Results []struct {
			ID string `json:"_id"`
		} `json:"results"`
		Total int `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Total != 1 || envelope.Results[0].ID != "both" {
		t.Fatalf("envelope = %+v", envelope)
	}
}

func TestSavedSearchesLifecycle(t *testing.T) {
	app := newTestApp(t)

	// Create.
	payload := map[string]any{
		"name":  "Signed contracts",
		"query": map[string]any{"q": "contract", "tags": []string{"signed"}},
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/saved-searches", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", resp.Code, resp.Body.String())
	}
	var created struct {
		Message string `json:"message"`
		ID      string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected saved search id")
	}

	// List.
	reqList := httptest.NewRequest(http.MethodGet, "/api/v1/saved-searches", nil)
	addGuestHeader(reqList)
	respList := httptest.NewRecorder()
	app.Router.ServeHTTP(respList, reqList)

	if respList.Code != http.StatusOK {
		t.Fatalf("list status = %d", respList.Code)
	}
	var listed struct {
		SavedSearches []struct {
			ID    string          `json:"_id"`
			Name  string          `json:"name"`
			Query json.RawMessage `json:"query"`
		} `json:"saved_searches"`
	}
	if err := json.NewDecoder(respList.Body).Decode(&listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed.SavedSearches) != 1 || listed.SavedSearches[0].ID != created.ID {
		t.Fatalf("listed = %+v", listed)
	}
	if listed.SavedSearches[0].Name != "Signed contracts" {
		t.Fatalf("name = %q", listed.SavedSearches[0].Name)
	}

	// Delete.
	reqDel := httptest.NewRequest(http.MethodDelete, "/api/v1/saved-searches/"+created.ID, nil)
	addGuestHeader(reqDel)
	respDel := httptest.NewRecorder()
	app.Router.ServeHTTP(respDel, reqDel)

	if respDel.Code != http.StatusOK {
		t.Fatalf("delete status = %d", respDel.Code)
	}

	// Delete again: gone.
	reqDel2 := httptest.NewRequest(http.MethodDelete, "/api/v1/saved-searches/"+created.ID, nil)
	addGuestHeader(reqDel2)
	respDel2 := httptest.NewRecorder()
	app.Router.ServeHTTP(respDel2, reqDel2)

	if respDel2.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", respDel2.Code)
	}
}

func TestSavedSearchCreateValidation(t *testing.T) {
	app := newTestApp(t)

	body := []byte(`{"name":"","query":{"q":"x"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/saved-searches", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.Code)
	}
}

func TestSearchSuggestionOverHTTP(t *testing.T) {
	app := newTestApp(t)
	seedDoc(t, app, "nda", "NDA.pdf", "Contracts",
		"This agreement includes a confidentiality clause.", nil, time.Now().UTC())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=agreemnt", nil)
	addGuestHeader(req)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	var envelope struct {
		Total      int    `json:"total"`
		Suggestion string `json:"suggestion"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Total != 0 {
		t.Fatalf("total = %d, want 0", envelope.Total)
	}
	if envelope.Suggestion != "agreement" {
		t.Fatalf("suggestion = %q, want agreement", envelope.Suggestion)
	}
}
