package handlers

import (
	"context"
	"net/http"

	"github.com/carelink/backend/internal/domain/entities"
)

// DashboardService defines the dashboard operations used by the handler
type DashboardService interface {
	Stats(ctx context.Context) (*entities.DashboardStats, error)
}

// DashboardHandler serves the admin dashboard counters
type DashboardHandler struct {
	service DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// GetStats handles GET /api/dashboard/stats
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch dashboard stats")
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}
