package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"

	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/repositories"
	"github.com/carelink/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/carelink/backend/pkg/errors"
)

// AppointmentAdapter implements AppointmentRepository on PostgreSQL
type AppointmentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAppointmentAdapter creates a new appointment adapter
func NewAppointmentAdapter(client *postgres.Client) repositories.AppointmentRepository {
	return &AppointmentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts an appointment
func (a *AppointmentAdapter) Create(ctx context.Context, appt *entities.Appointment) error {
	record := goqu.Record{
		"patient_id":       appt.PatientID,
		"nurse_id":         nullInt64(appt.NurseID),
		"appointment_date": appt.AppointmentDate,
		"status":           string(appt.Status),
	}

	query, args, err := toSQL(a.db.Insert("appointments").Rows(record).Returning("id", "created_at").Prepared(true), "appointment insert")
	if err != nil {
		return err
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&appt.ID, &appt.CreatedAt); err != nil {
		return mapDBError("failed to create appointment", err)
	}
	return nil
}

// joined selects appointments with patient and nurse names. Missing users
// leave the names null.
func (a *AppointmentAdapter) joined() *goqu.SelectDataset {
	return a.db.From(goqu.T("appointments").As("a")).
		LeftJoin(goqu.T("users").As("p"), goqu.On(goqu.I("p.id").Eq(goqu.I("a.patient_id")))).
		LeftJoin(goqu.T("users").As("n"), goqu.On(goqu.I("n.id").Eq(goqu.I("a.nurse_id")))).
		Select(
			"a.id", "a.patient_id", "a.nurse_id", "a.appointment_date", "a.status", "a.created_at",
			goqu.I("p.name").As("patient_name"),
			goqu.I("n.name").As("nurse_name"),
		)
}

// GetByID retrieves an appointment by ID
func (a *AppointmentAdapter) GetByID(ctx context.Context, id int64) (*entities.Appointment, error) {
	query, args, err := toSQL(a.joined().Where(goqu.I("a.id").Eq(id)).Prepared(true), "appointment select")
	if err != nil {
		return nil, err
	}

	appt, err := scanAppointment(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("appointment not found")
	}
	if err != nil {
		return nil, mapDBError("failed to get appointment", err)
	}
	return appt, nil
}

// List retrieves every appointment, latest date first
func (a *AppointmentAdapter) List(ctx context.Context) ([]*entities.Appointment, error) {
	return a.list(ctx, a.joined().Order(goqu.I("a.appointment_date").Desc(), goqu.I("a.id").Desc()))
}

// ListByPatient retrieves one patient's appointments
func (a *AppointmentAdapter) ListByPatient(ctx context.Context, patientID int64) ([]*entities.Appointment, error) {
	return a.list(ctx, a.joined().
		Where(goqu.I("a.patient_id").Eq(patientID)).
		Order(goqu.I("a.appointment_date").Desc(), goqu.I("a.id").Desc()))
}

func (a *AppointmentAdapter) list(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.Appointment, error) {
	query, args, err := toSQL(ds.Prepared(true), "appointment list")
	if err != nil {
		return nil, err
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapDBError("failed to list appointments", err)
	}
	defer rows.Close()

	appointments := make([]*entities.Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, mapDBError("failed to scan appointment", err)
		}
		appointments = append(appointments, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError("failed to list appointments", err)
	}
	return appointments, nil
}

// Update applies a partial update
func (a *AppointmentAdapter) Update(ctx context.Context, id int64, changes map[string]interface{}) error {
	return execPartialUpdate(ctx, a.client.DB(), "appointments", id, changes, "appointment not found")
}

func scanAppointment(row rowScanner) (*entities.Appointment, error) {
	var (
		appt        entities.Appointment
		nurseID     sql.NullInt64
		status      string
		patientName sql.NullString
		nurseName   sql.NullString
	)
	if err := row.Scan(&appt.ID, &appt.PatientID, &nurseID, &appt.AppointmentDate, &status, &appt.CreatedAt, &patientName, &nurseName); err != nil {
		return nil, err
	}
	appt.NurseID = int64Ptr(nurseID)
	appt.Status = entities.AppointmentStatus(status)
	appt.PatientName = stringPtr(patientName)
	appt.NurseName = stringPtr(nurseName)
	return &appt, nil
}
