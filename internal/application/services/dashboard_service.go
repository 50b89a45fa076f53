package services

import (
	"context"

	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/repositories"
)

// DashboardService serves the admin dashboard counters
type DashboardService struct {
	repo repositories.DashboardRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(repo repositories.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// Stats returns the current counters
func (s *DashboardService) Stats(ctx context.Context) (*entities.DashboardStats, error) {
	return s.repo.Stats(ctx)
}
