package search

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"legaldocs-backend/internal/shared/server/middleware"
	"legaldocs-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the search service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches search routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.search)
	rg.GET("/search/filters", h.filters)
	rg.GET("/search/categories", h.categories)
	rg.GET("/saved-searches", h.listSavedSearches)
	rg.POST("/saved-searches", h.createSavedSearch)
	rg.DELETE("/saved-searches/:searchId", h.deleteSavedSearch)
}

func (h *Handler) search(c *gin.Context) {
	owner := middleware.UserIDFromContext(c)

	req := Request{
		Owner:     owner,
		Query:     c.Query("q"),
		Category:  c.Query("category"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		FileType:  c.Query("file_type"),
		Status:    c.Query("status"),
		Tags:      c.QueryArray("tags"),
		Page:      c.Query("page"),
		PerPage:   c.Query("per_page"),
	}
	if q := strings.TrimSpace(req.Query); q != "" {
		c.Set("searchQuery", q)
	}

	envelope, err := h.Svc.Search(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Error performing search", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, envelope)
}

func (h *Handler) filters(c *gin.Context) {
	owner := middleware.UserIDFromContext(c)

	facets, err := h.Svc.Facets(c.Request.Context(), owner)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Error fetching filter options", nil)
		return
	}

	respond.JSON(c, http.StatusOK, facets)
}

func (h *Handler) categories(c *gin.Context) {
	owner := middleware.UserIDFromContext(c)

	categories, err := h.Svc.Categories(c.Request.Context(), owner)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Error fetching categories", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"categories": categories})
}

type savedSearchResponse struct {
	ID        string          `json:"_id"`
	Name      string          `json:"name"`
	Query     json.RawMessage `json:"query"`
	CreatedAt string          `json:"created_at"`
}

func (h *Handler) listSavedSearches(c *gin.Context) {
	owner := middleware.UserIDFromContext(c)

	saved, err := h.Svc.SavedSearches(c.Request.Context(), owner)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Error fetching saved searches", nil)
		return
	}

	resp := make([]savedSearchResponse, 0, len(saved))
	for _, s := range saved {
		resp = append(resp, savedSearchResponse{
			ID:        s.ID,
			Name:      s.Name,
			Query:     s.Query,
			CreatedAt: s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	respond.JSON(c, http.StatusOK, gin.H{"saved_searches": resp})
}

type createSavedSearchRequest struct {
	Name  string          `json:"name"`
	Query json.RawMessage `json:"query"`
}

func (h *Handler) createSavedSearch(c *gin.Context) {
	owner := middleware.UserIDFromContext(c)

	var req createSavedSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	saved, err := h.Svc.SaveSearch(c.Request.Context(), owner, req.Name, req.Query)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Error saving search", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{
		"message": "Search saved successfully",
		"id":      saved.ID,
	})
}

func (h *Handler) deleteSavedSearch(c *gin.Context) {
	owner := middleware.UserIDFromContext(c)
	searchID := c.Param("searchId")

	err := h.Svc.DeleteSavedSearch(c.Request.Context(), owner, searchID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Search not found or you don't have permission to delete it", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Error deleting saved search", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"message": "Search deleted successfully"})
}
