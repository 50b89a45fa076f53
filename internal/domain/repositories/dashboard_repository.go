package repositories

import (
	"context"

	"github.com/carelink/backend/internal/domain/entities"
)

// DashboardRepository computes the admin dashboard counters
type DashboardRepository interface {
	Stats(ctx context.Context) (*entities.DashboardStats, error)
}
