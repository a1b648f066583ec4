package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/BradenHooton/dashboard/internal/directory"
	"github.com/BradenHooton/dashboard/internal/models"
	pkghttp "github.com/BradenHooton/dashboard/pkg/http"
	"github.com/go-chi/chi/v5"
)

// DirectoryService defines the interface for directory queries
type DirectoryService interface {
	Query(ctx context.Context, state directory.QueryState) (directory.ResultPage, error)
	Refresh(ctx context.Context) (int, error)
}

// DirectoryHandler handles user directory HTTP requests
type DirectoryHandler struct {
	service         DirectoryService
	defaultPageSize int
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(service DirectoryService, defaultPageSize int) *DirectoryHandler {
	if defaultPageSize < 1 {
		defaultPageSize = directory.DefaultPageSize
	}
	return &DirectoryHandler{
		service:         service,
		defaultPageSize: defaultPageSize,
	}
}

// ListDirectoryRequest holds the query parameters of a directory listing
type ListDirectoryRequest struct {
	Search   string `query:"search" validate:"max=200"`
	Sort     string `query:"sort" validate:"omitempty,oneof=name email phone company"`
	Order    string `query:"order" validate:"omitempty,oneof=asc desc"`
	Page     int    `query:"page" validate:"gte=0,lte=100000"`
	PageSize int    `query:"page_size" validate:"gte=1,lte=100"`
}

// DirectoryUserResponse represents a directory record in the HTTP response
type DirectoryUserResponse struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

// ListDirectoryResponse is one page of the directory
type ListDirectoryResponse struct {
	Users        []*DirectoryUserResponse `json:"users"`
	TotalMatched int                      `json:"total_matched"`
	Page         int                      `json:"page"`
	PageSize     int                      `json:"page_size"`
	PageCount    int                      `json:"page_count"`
	Search       string                   `json:"search"`
	Sort         string                   `json:"sort"`
	Order        string                   `json:"order"`
}

// RefreshResponse reports the outcome of a forced reload
type RefreshResponse struct {
	Records int `json:"records"`
}

func recordToResponse(r *models.UserRecord) *DirectoryUserResponse {
	return &DirectoryUserResponse{
		ID:      r.ID,
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Company: r.Company.Name,
	}
}

// RegisterRoutes registers all directory routes with the chi router
func (h *DirectoryHandler) RegisterRoutes(router chi.Router) {
	router.Route("/directory", func(r chi.Router) {
		r.Get("/users", h.ListUsers)  // GET /directory/users
		r.Post("/refresh", h.Refresh) // POST /directory/refresh
	})
}

// ListUsers returns one filtered, sorted page of the directory
//
// @Summary List directory users
// @Param search query string false "Case-insensitive match on name, email, phone or company"
// @Param sort query string false "name, email, phone or company (default name)"
// @Param order query string false "asc or desc (default asc)"
// @Param page query int false "Zero-based page index (default 0)"
// @Param page_size query int false "Rows per page, 1-100"
// @Produce json
// @Success 200 {object} ListDirectoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /directory/users [get]
func (h *DirectoryHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := pkghttp.QueryInt(r, "page", 0)
	if err != nil {
		pkghttp.WriteInvalidParameter(w, "page", err.Error())
		return
	}
	pageSize, err := pkghttp.QueryInt(r, "page_size", h.defaultPageSize)
	if err != nil {
		pkghttp.WriteInvalidParameter(w, "page_size", err.Error())
		return
	}

	req := ListDirectoryRequest{
		Search:   q.Get("search"),
		Sort:     strings.ToLower(strings.TrimSpace(q.Get("sort"))),
		Order:    strings.ToLower(strings.TrimSpace(q.Get("order"))),
		Page:     page,
		PageSize: pageSize,
	}
	if err := ValidateRequest(req); err != nil {
		writeValidationError(w, err)
		return
	}

	state, err := req.toQueryState()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	result, err := h.service.Query(r.Context(), state)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := &ListDirectoryResponse{
		Users:        make([]*DirectoryUserResponse, len(result.Records)),
		TotalMatched: result.TotalMatched,
		Page:         result.PageIndex,
		PageSize:     result.PageSize,
		PageCount:    result.PageCount,
		Search:       state.Search,
		Sort:         string(state.SortField),
		Order:        string(state.SortDirection),
	}
	for i, rec := range result.Records {
		response.Users[i] = recordToResponse(rec)
	}

	pkghttp.WriteJSON(w, http.StatusOK, response)
}

// Refresh forces a reload of the directory from its source
//
// @Summary Reload directory
// @Produce json
// @Success 200 {object} RefreshResponse
// @Failure 503 {object} ErrorResponse
// @Router /directory/refresh [post]
func (h *DirectoryHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Refresh(r.Context())
	if err != nil {
		pkghttp.WriteServiceUnavailable(w, "Failed to reload the user directory")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, &RefreshResponse{Records: count})
}

// toQueryState applies the request through the state setters.
// The page is set last because changing the page size resets it.
func (req ListDirectoryRequest) toQueryState() (directory.QueryState, error) {
	state := directory.NewQueryState()

	if err := state.SetPageSize(req.PageSize); err != nil {
		return state, err
	}
	state.SetSearch(req.Search)

	field, _ := directory.ParseSortField(req.Sort)
	order, _ := directory.ParseSortDirection(req.Order)
	state.SetSort(field, order)

	if err := state.SetPage(req.Page); err != nil {
		return state, err
	}
	return state, nil
}
