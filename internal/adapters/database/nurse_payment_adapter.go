package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/repositories"
	"github.com/carelink/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/carelink/backend/pkg/errors"
)

// NursePaymentAdapter implements NursePaymentRepository on PostgreSQL
type NursePaymentAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewNursePaymentAdapter creates a new nurse payment adapter
func NewNursePaymentAdapter(client *postgres.Client) repositories.NursePaymentRepository {
	return &NursePaymentAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ServiceFeeForAppointment reads the appointment's nurse and its latest payment amount
func (a *NursePaymentAdapter) ServiceFeeForAppointment(ctx context.Context, appointmentID int64) (*repositories.ServiceFee, error) {
	ds := a.db.From(goqu.T("appointments").As("a")).
		LeftJoin(goqu.T("payments").As("p"), goqu.On(goqu.I("p.appointment_id").Eq(goqu.I("a.id")))).
		Select("a.id", "a.nurse_id", goqu.I("p.amount").As("service_fee")).
		Where(goqu.I("a.id").Eq(appointmentID)).
		Order(goqu.I("p.created_at").Desc().NullsLast(), goqu.I("p.id").Desc()).
		Limit(1)

	query, args, err := toSQL(ds.Prepared(true), "service fee")
	if err != nil {
		return nil, err
	}

	var (
		fee     repositories.ServiceFee
		nurseID sql.NullInt64
		amount  sql.NullFloat64
	)
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&fee.AppointmentID, &nurseID, &amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("appointment not found")
	}
	if err != nil {
		return nil, mapDBError("failed to load service fee", err)
	}

	fee.NurseID = int64Ptr(nurseID)
	if amount.Valid {
		v := amount.Float64
		fee.Amount = &v
	}
	return &fee, nil
}

// Create inserts a pending nurse payment
func (a *NursePaymentAdapter) Create(ctx context.Context, np *entities.NursePayment) error {
	record := goqu.Record{
		"nurse_id":              np.NurseID,
		"appointment_id":        np.AppointmentID,
		"service_amount":        np.ServiceAmount,
		"commission_percentage": np.CommissionPercentage,
		"nurse_amount":          np.NurseAmount,
		"payment_status":        string(np.PaymentStatus),
	}

	query, args, err := toSQL(a.db.Insert("nurse_payments").Rows(record).Returning("id", "created_at").Prepared(true), "nurse payment insert")
	if err != nil {
		return err
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&np.ID, &np.CreatedAt); err != nil {
		return mapDBError("failed to create nurse payment", err)
	}
	return nil
}

func (a *NursePaymentAdapter) joined() *goqu.SelectDataset {
	return a.db.From(goqu.T("nurse_payments").As("np")).
		LeftJoin(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("np.nurse_id")))).
		LeftJoin(goqu.T("appointments").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("np.appointment_id")))).
		Select(
			"np.id", "np.nurse_id", "np.appointment_id", "np.service_amount", "np.commission_percentage",
			"np.nurse_amount", "np.payment_status", "np.payment_date", "np.created_at",
			goqu.I("u.name").As("nurse_name"),
			goqu.I("a.appointment_date").As("appointment_date"),
		)
}

// GetByID retrieves a nurse payment
func (a *NursePaymentAdapter) GetByID(ctx context.Context, id int64) (*entities.NursePayment, error) {
	query, args, err := toSQL(a.joined().Where(goqu.I("np.id").Eq(id)).Prepared(true), "nurse payment select")
	if err != nil {
		return nil, err
	}

	np, err := scanNursePayment(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("nurse payment not found")
	}
	if err != nil {
		return nil, mapDBError("failed to get nurse payment", err)
	}
	return np, nil
}

// List retrieves nurse payments, newest first. Empty filter fields are ignored.
func (a *NursePaymentAdapter) List(ctx context.Context, filter entities.NursePaymentFilter) ([]*entities.NursePayment, error) {
	ds := a.joined()
	if filter.Status != "" {
		ds = ds.Where(goqu.I("np.payment_status").Eq(string(filter.Status)))
	}
	if filter.NurseID != nil {
		ds = ds.Where(goqu.I("np.nurse_id").Eq(*filter.NurseID))
	}
	ds = ds.Order(goqu.I("np.created_at").Desc(), goqu.I("np.id").Desc())

	query, args, err := toSQL(ds.Prepared(true), "nurse payment list")
	if err != nil {
		return nil, err
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapDBError("failed to list nurse payments", err)
	}
	defer rows.Close()

	payments := make([]*entities.NursePayment, 0)
	for rows.Next() {
		np, err := scanNursePayment(rows)
		if err != nil {
			return nil, mapDBError("failed to scan nurse payment", err)
		}
		payments = append(payments, np)
	}
	if err := rows.Err(); err != nil {
		return nil, mapDBError("failed to list nurse payments", err)
	}
	return payments, nil
}

// MarkPaid locks the row, refuses records that are already paid, sets the
// payment date and stores the nurse's notification, all in one transaction.
func (a *NursePaymentAdapter) MarkPaid(ctx context.Context, id int64) (*entities.NursePayment, *entities.Notification, error) {
	var (
		np           *entities.NursePayment
		notification *entities.Notification
	)

	err := a.client.WithTx(ctx, func(tx *sql.Tx) error {
		lockQuery, lockArgs, err := toSQL(dialect.From("nurse_payments").
			Select("id", "nurse_id", "appointment_id", "service_amount", "commission_percentage",
				"nurse_amount", "payment_status", "payment_date", "created_at").
			Where(goqu.C("id").Eq(id)).
			ForUpdate(exp.Wait).
			Prepared(true), "nurse payment lock")
		if err != nil {
			return err
		}

		var (
			status      string
			paymentDate sql.NullTime
		)
		current := &entities.NursePayment{}
		err = tx.QueryRowContext(ctx, lockQuery, lockArgs...).Scan(
			&current.ID, &current.NurseID, &current.AppointmentID, &current.ServiceAmount,
			&current.CommissionPercentage, &current.NurseAmount, &status, &paymentDate, &current.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFoundError("nurse payment not found")
		}
		if err != nil {
			return mapDBError("failed to load nurse payment", err)
		}
		current.PaymentStatus = entities.NursePaymentStatus(status)
		current.PaymentDate = timePtr(paymentDate)

		if current.IsPaid() {
			return apperrors.NewConflictError("payment already completed")
		}

		updateQuery, updateArgs, err := toSQL(dialect.Update("nurse_payments").
			Set(goqu.Record{
				"payment_status": string(entities.NursePaymentStatusPaid),
				"payment_date":   goqu.L("NOW()"),
			}).
			Where(goqu.C("id").Eq(id)).
			Returning("payment_date").
			Prepared(true), "nurse payment update")
		if err != nil {
			return err
		}

		var paidAt sql.NullTime
		if err := tx.QueryRowContext(ctx, updateQuery, updateArgs...).Scan(&paidAt); err != nil {
			return mapDBError("failed to mark nurse payment paid", err)
		}
		current.PaymentStatus = entities.NursePaymentStatusPaid
		current.PaymentDate = timePtr(paidAt)

		n := entities.PaymentReceivedNotification(current)
		if err := insertNotification(ctx, tx, n); err != nil {
			return err
		}

		np = current
		notification = n
		return nil
	})
	if err != nil {
		return nil, nil, mapDBError("failed to pay nurse", err)
	}
	return np, notification, nil
}

func scanNursePayment(row rowScanner) (*entities.NursePayment, error) {
	var (
		np              entities.NursePayment
		status          string
		paymentDate     sql.NullTime
		nurseName       sql.NullString
		appointmentDate sql.NullTime
	)
	if err := row.Scan(&np.ID, &np.NurseID, &np.AppointmentID, &np.ServiceAmount, &np.CommissionPercentage,
		&np.NurseAmount, &status, &paymentDate, &np.CreatedAt, &nurseName, &appointmentDate); err != nil {
		return nil, err
	}
	np.PaymentStatus = entities.NursePaymentStatus(status)
	np.PaymentDate = timePtr(paymentDate)
	np.NurseName = stringPtr(nurseName)
	np.AppointmentDate = timePtr(appointmentDate)
	return &np, nil
}
