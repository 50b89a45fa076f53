package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"

	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/repositories"
	"github.com/carelink/backend/internal/infrastructure/clients/postgres"
)

// DashboardAdapter implements DashboardRepository on PostgreSQL
type DashboardAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDashboardAdapter creates a new dashboard adapter
func NewDashboardAdapter(client *postgres.Client) repositories.DashboardRepository {
	return &DashboardAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Stats computes all counters in a single round trip
func (a *DashboardAdapter) Stats(ctx context.Context) (*entities.DashboardStats, error) {
	count := func(table string, where ...goqu.Expression) *goqu.SelectDataset {
		return a.db.From(table).Select(goqu.COUNT(goqu.Star())).Where(where...)
	}

	ds := a.db.Select(
		count("users").As("total_users"),
		count("appointments").As("total_appointments"),
		count("appointments", goqu.C("status").Eq(string(entities.AppointmentStatusPending))).As("pending_appointments"),
		count("users", goqu.C("role").Eq(string(entities.RoleNurse))).As("total_nurses"),
		count("blogs").As("total_blogs"),
	)

	query, args, err := toSQL(ds.Prepared(true), "dashboard stats")
	if err != nil {
		return nil, err
	}

	var stats entities.DashboardStats
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&stats.TotalUsers, &stats.TotalAppointments, &stats.PendingAppointments, &stats.TotalNurses, &stats.TotalBlogs,
	); err != nil {
		return nil, mapDBError("failed to load dashboard stats", err)
	}
	return &stats, nil
}
