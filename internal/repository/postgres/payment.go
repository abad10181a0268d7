package postgres

import (
	"context"
	"database/sql"
	"time"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
)

type paymentRepository struct {
	db repository.DBTX
}

func NewPaymentRepository(db repository.DBTX) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, rental_id, user_id, amount, payment_method, payment_type,
	status, gateway_status, paid_at, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }) (*domain.Payment, error) {
	p := &domain.Payment{}
	var gatewayStatus sql.NullString
	var paidAt sql.NullTime
	err := row.Scan(&p.ID, &p.RentalID, &p.UserID, &p.Amount, &p.PaymentMethod, &p.PaymentType,
		&p.Status, &gatewayStatus, &paidAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.GatewayStatus = gatewayStatus.String
	if paidAt.Valid {
		p.PaidAt = &paidAt.Time
	}
	return p, nil
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (id, rental_id, user_id, amount, payment_method, payment_type,
	            status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`
	now := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.RentalID, p.UserID, p.Amount, p.PaymentMethod, p.PaymentType, p.Status, now)
	if err != nil {
		return storageErr("insert payment", err)
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("payment %s not found", id)
	}
	if err != nil {
		return nil, storageErr("get payment", err)
	}
	return p, nil
}

func (r *paymentRepository) ListByRental(ctx context.Context, rentalID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE rental_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, storageErr("list rental payments", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, storageErr("scan payment", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

// UpdateStatus moves a pending payment to its final state. The WHERE clause
// keeps the ledger append-only: settled rows never change again.
func (r *paymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, gatewayStatus string) error {
	var paidAt any
	if status == domain.PaymentStatusSuccess {
		paidAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE payments
		 SET status = $1, gateway_status = $2, paid_at = $3, updated_at = NOW()
		 WHERE id = $4 AND status = 'pending'`,
		status, gatewayStatus, paidAt, id)
	if err != nil {
		return storageErr("update payment status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("update payment status", err)
	}
	if n == 0 {
		return domain.Conflictf("payment %s is not pending", id)
	}
	return nil
}
