package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"

	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/repositories"
	"github.com/carelink/backend/internal/infrastructure/clients/postgres"
)

// PaymentAdapter implements PaymentRepository on PostgreSQL
type PaymentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewPaymentAdapter creates a new payment adapter
func NewPaymentAdapter(client *postgres.Client) repositories.PaymentRepository {
	return &PaymentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a patient payment
func (a *PaymentAdapter) Create(ctx context.Context, p *entities.Payment) error {
	record := goqu.Record{
		"patient_id":     p.PatientID,
		"appointment_id": nullInt64(p.AppointmentID),
		"amount":         p.Amount,
		"status":         string(p.Status),
		"payment_method": p.PaymentMethod,
		"payment_type":   nullString(p.PaymentType),
	}

	query, args, err := toSQL(a.db.Insert("payments").Rows(record).Returning("id", "created_at").Prepared(true), "payment insert")
	if err != nil {
		return err
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return mapDBError("failed to create payment", err)
	}
	return nil
}

func (a *PaymentAdapter) joined() *goqu.SelectDataset {
	return a.db.From(goqu.T("payments").As("p")).
		LeftJoin(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("p.patient_id")))).
		Select(
			"p.id", "p.patient_id", "p.appointment_id", "p.amount", "p.status",
			"p.payment_method", "p.payment_type", "p.created_at",
			goqu.I("u.name").As("patient_name"),
		).
		Order(goqu.I("p.created_at").Desc(), goqu.I("p.id").Desc())
}

// List retrieves every payment with the patient's name, newest first
func (a *PaymentAdapter) List(ctx context.Context) ([]*entities.Payment, error) {
	return a.list(ctx, a.joined())
}

// ListByPatient retrieves one patient's payments, newest first
func (a *PaymentAdapter) ListByPatient(ctx context.Context, patientID int64) ([]*entities.Payment, error) {
	return a.list(ctx, a.joined().Where(goqu.I("p.patient_id").Eq(patientID)))
}

func (a *PaymentAdapter) list(ctx context.Context, ds *goqu.SelectDataset) ([]*entities.Payment, error) {
	query, args, err := toSQL(ds.Prepared(true), "payment list")
	if err != nil {
		return nil, err
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapDBError("failed to list payments", err)
	}
	defer rows.Close()

	payments := make([]*entities.Payment, 0)
	for rows.Next() {
		var (
			p             entities.Payment
			appointmentID sql.NullInt64
			status        string
			paymentType   sql.NullString
			patientName   sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.PatientID, &appointmentID, &p.Amount, &status,
			&p.PaymentMethod, &paymentType, &p.CreatedAt, &patientName); err != nil {
			return nil, mapDBError("failed to scan payment", err)
		}
		p.AppointmentID = int64Ptr(appointmentID)
		p.Status = entities.PaymentStatus(status)
		p.PaymentType = stringPtr(paymentType)
		p.PatientName = stringPtr(patientName)
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError("failed to list payments", err)
	}
	return payments, nil
}
