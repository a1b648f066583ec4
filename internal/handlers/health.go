package handlers

import (
	"net/http"
	"time"

	"github.com/BradenHooton/dashboard/internal/services"
	pkghttp "github.com/BradenHooton/dashboard/pkg/http"
)

// StatusReporter exposes the directory snapshot state
type StatusReporter interface {
	Status() services.DirectoryStatus
}

// HealthHandler reports service health
type HealthHandler struct {
	directory StatusReporter
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(directory StatusReporter) *HealthHandler {
	return &HealthHandler{directory: directory}
}

// HealthResponse is the health check body
type HealthResponse struct {
	Status    string `json:"status"`
	Directory string `json:"directory"`
	Source    string `json:"source"`
	Records   int    `json:"records"`
	LoadedAt  string `json:"loaded_at,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

// Check reports healthy once the directory holds a snapshot. A stale
// snapshot with a failing source is degraded but still served.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	st := h.directory.Status()

	resp := &HealthResponse{
		Status:    "healthy",
		Directory: "up",
		Source:    st.Source,
		Records:   st.RecordCount,
		LastError: st.LastError,
	}
	if !st.LoadedAt.IsZero() {
		resp.LoadedAt = st.LoadedAt.UTC().Format(time.RFC3339)
	}

	switch {
	case !st.Loaded:
		resp.Status = "unhealthy"
		resp.Directory = "down"
		pkghttp.WriteJSON(w, http.StatusServiceUnavailable, resp)
		return
	case st.LastError != "":
		resp.Status = "degraded"
		resp.Directory = "stale"
	}

	pkghttp.WriteJSON(w, http.StatusOK, resp)
}
