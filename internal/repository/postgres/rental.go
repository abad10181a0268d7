package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
)

type rentalRepository struct {
	db repository.DBTX
}

func NewRentalRepository(db repository.DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, user_id, total_items, rental_days, start_date, due_date, return_date,
	total_rental_fee, total_deposit, late_fee, damage_fee, other_fees, total_fine,
	total_amount_paid, deposit_refund, additional_charge,
	payment_status, rental_status, payment_method, admin_notes, paid_at, created_at, updated_at`

func scanRental(row interface{ Scan(...any) error }) (*domain.Rental, error) {
	r := &domain.Rental{}
	var returnDate, paidAt sql.NullTime
	var notes sql.NullString
	err := row.Scan(&r.ID, &r.UserID, &r.TotalItems, &r.RentalDays, &r.StartDate, &r.DueDate, &returnDate,
		&r.TotalRentalFee, &r.TotalDeposit, &r.LateFee, &r.DamageFee, &r.OtherFees, &r.TotalFine,
		&r.TotalAmountPaid, &r.DepositRefund, &r.AdditionalCharge,
		&r.PaymentStatus, &r.RentalStatus, &r.PaymentMethod, &notes, &paidAt, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if returnDate.Valid {
		r.ReturnDate = &returnDate.Time
	}
	if paidAt.Valid {
		r.PaidAt = &paidAt.Time
	}
	r.AdminNotes = notes.String
	return r, nil
}

func (r *rentalRepository) Create(ctx context.Context, rental *domain.Rental, items []domain.RentalItem) error {
	now := time.Now()
	query := `INSERT INTO rentals (id, user_id, total_items, rental_days, start_date, due_date,
	            total_rental_fee, total_deposit, total_amount_paid,
	            payment_status, rental_status, payment_method, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)`
	_, err := r.db.ExecContext(ctx, query,
		rental.ID, rental.UserID, rental.TotalItems, rental.RentalDays, rental.StartDate, rental.DueDate,
		rental.TotalRentalFee, rental.TotalDeposit, rental.TotalAmountPaid,
		rental.PaymentStatus, rental.RentalStatus, rental.PaymentMethod, now)
	if err != nil {
		return storageErr("insert rental", err)
	}

	itemQuery := `INSERT INTO rental_items (rental_id, costume_id, quantity, daily_price, deposit_amount,
	                rental_fee, item_deposit, created_at)
	              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	for i := range items {
		it := &items[i]
		err := r.db.QueryRowContext(ctx, itemQuery,
			rental.ID, it.CostumeID, it.Quantity, it.DailyPrice, it.DepositAmount,
			it.RentalFee, it.ItemDeposit, now).Scan(&it.ID)
		if err != nil {
			return storageErr("insert rental item", err)
		}
		it.RentalID = rental.ID
	}
	rental.CreatedAt = now
	rental.UpdatedAt = now
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rental, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("rental %s not found", id)
	}
	if err != nil {
		return nil, storageErr("get rental", err)
	}
	return rental, nil
}

func (r *rentalRepository) GetItems(ctx context.Context, rentalID string) ([]domain.RentalItem, error) {
	query := `SELECT ri.id, ri.rental_id, ri.costume_id, ri.quantity, ri.daily_price, ri.deposit_amount,
	            ri.rental_fee, ri.item_deposit, ri.return_condition, ri.damage_description,
	            ri.late_fee, ri.damage_fee, c.name, c.original_value
	          FROM rental_items ri
	          JOIN costumes c ON c.id = ri.costume_id
	          WHERE ri.rental_id = $1
	          ORDER BY ri.id`
	rows, err := r.db.QueryContext(ctx, query, rentalID)
	if err != nil {
		return nil, storageErr("list rental items", err)
	}
	defer rows.Close()

	var items []domain.RentalItem
	for rows.Next() {
		var it domain.RentalItem
		var cond, desc sql.NullString
		err := rows.Scan(&it.ID, &it.RentalID, &it.CostumeID, &it.Quantity, &it.DailyPrice, &it.DepositAmount,
			&it.RentalFee, &it.ItemDeposit, &cond, &desc,
			&it.LateFee, &it.DamageFee, &it.CostumeName, &it.OriginalValue)
		if err != nil {
			return nil, storageErr("scan rental item", err)
		}
		it.ReturnCondition = domain.ReturnCondition(cond.String)
		it.DamageDescription = desc.String
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateStatus performs a guarded transition: the row only changes when its
// current status is a legal source for the target. Zero rows affected means a
// concurrent writer moved the rental first.
func (r *rentalRepository) UpdateStatus(ctx context.Context, id string, status domain.RentalStatus) error {
	sources := domain.TransitionSources(status)
	froms := make([]string, len(sources))
	for i, s := range sources {
		froms[i] = string(s)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE rentals SET rental_status = $1, updated_at = NOW() WHERE id = $2 AND rental_status = ANY($3)`,
		status, id, pq.Array(froms))
	if err != nil {
		return storageErr("update rental status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("update rental status", err)
	}
	if n == 0 {
		return domain.Conflictf("rental %s can no longer move to %s", id, status)
	}
	return nil
}

func (r *rentalRepository) UpdatePaymentState(ctx context.Context, id string, state domain.PaymentState, paidAt *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rentals SET payment_status = $1, paid_at = $2, updated_at = NOW() WHERE id = $3`,
		state, paidAt, id)
	if err != nil {
		return storageErr("update rental payment state", err)
	}
	return requireRow(res, "rental %s not found", id)
}

func (r *rentalRepository) Extend(ctx context.Context, id string, additionalDays int32, newDueDate time.Time, extensionFee int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rentals
		 SET rental_days = rental_days + $1,
		     due_date = $2,
		     total_rental_fee = total_rental_fee + $3,
		     total_amount_paid = total_amount_paid + $3,
		     updated_at = NOW()
		 WHERE id = $4`,
		additionalDays, newDueDate, extensionFee, id)
	if err != nil {
		return storageErr("extend rental", err)
	}
	return requireRow(res, "rental %s not found", id)
}

// AddPenalty adds fee deltas, recomputes total_fine from the fee columns and
// rolls the combined delta into total_amount_paid.
func (r *rentalRepository) AddPenalty(ctx context.Context, id string, lateDelta, damageDelta, otherDelta int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rentals
		 SET late_fee = late_fee + $1,
		     damage_fee = damage_fee + $2,
		     other_fees = other_fees + $3,
		     total_fine = late_fee + $1 + damage_fee + $2 + other_fees + $3,
		     total_amount_paid = total_amount_paid + $1 + $2 + $3,
		     updated_at = NOW()
		 WHERE id = $4`,
		lateDelta, damageDelta, otherDelta, id)
	if err != nil {
		return storageErr("add rental penalty", err)
	}
	return requireRow(res, "rental %s not found", id)
}

func (r *rentalRepository) AppendAdminNote(ctx context.Context, id string, note string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rentals
		 SET admin_notes = CASE WHEN admin_notes IS NULL OR admin_notes = '' THEN $1
		                        ELSE admin_notes || E'\n' || $1 END,
		     updated_at = NOW()
		 WHERE id = $2`,
		note, id)
	if err != nil {
		return storageErr("append admin note", err)
	}
	return requireRow(res, "rental %s not found", id)
}

func (r *rentalRepository) SetItemReturn(ctx context.Context, itemID int64, cond domain.ReturnCondition, description string, lateFee, damageFee int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rental_items
		 SET return_condition = $1, damage_description = $2, late_fee = $3, damage_fee = $4
		 WHERE id = $5`,
		cond, description, lateFee, damageFee, itemID)
	if err != nil {
		return storageErr("set item return", err)
	}
	return requireRow(res, "rental item %d not found", itemID)
}

func (r *rentalRepository) Settle(ctx context.Context, id string, returnDate time.Time, lateFee, damageFee, totalFine, depositRefund, additionalCharge int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rentals
		 SET return_date = $1,
		     late_fee = $2,
		     damage_fee = $3,
		     total_fine = $4,
		     deposit_refund = $5,
		     additional_charge = $6,
		     total_amount_paid = total_rental_fee + total_deposit + $4,
		     rental_status = 'completed',
		     updated_at = NOW()
		 WHERE id = $7 AND rental_status IN ('returned', 'overdue')`,
		returnDate, lateFee, damageFee, totalFine, depositRefund, additionalCharge, id)
	if err != nil {
		return storageErr("settle rental", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("settle rental", err)
	}
	if n == 0 {
		return domain.Conflictf("rental %s is no longer awaiting settlement", id)
	}
	return nil
}

func (r *rentalRepository) SetDepositRefund(ctx context.Context, id string, amount int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rentals SET deposit_refund = $1, updated_at = NOW() WHERE id = $2`, amount, id)
	if err != nil {
		return storageErr("set deposit refund", err)
	}
	return requireRow(res, "rental %s not found", id)
}

func (r *rentalRepository) ListByUser(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Rental, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	var count int32
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM rentals WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, storageErr("count user rentals", err)
	}

	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, storageErr("list user rentals", err)
	}
	defer rows.Close()
	rentals, err := collectRentals(rows)
	if err != nil {
		return nil, 0, err
	}
	return rentals, count, nil
}

func (r *rentalRepository) List(ctx context.Context, f domain.RentalFilter, page, pageSize int32) ([]domain.Rental, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	where := " WHERE 1=1"
	args := []any{}
	idx := 1
	if f.Status != "" {
		where += fmt.Sprintf(" AND rental_status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}
	if f.PaymentStatus != "" {
		where += fmt.Sprintf(" AND payment_status = $%d", idx)
		args = append(args, f.PaymentStatus)
		idx++
	}
	if f.Search != "" {
		where += fmt.Sprintf(" AND id ILIKE $%d", idx)
		args = append(args, "%"+f.Search+"%")
		idx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM rentals`+where, args...).Scan(&count); err != nil {
		return nil, 0, storageErr("count rentals", err)
	}

	query := `SELECT ` + rentalColumns + ` FROM rentals` + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, storageErr("list rentals", err)
	}
	defer rows.Close()
	rentals, err := collectRentals(rows)
	if err != nil {
		return nil, 0, err
	}
	return rentals, count, nil
}

// MarkOverdue flips every renting rental whose due date has passed and returns
// the flipped rows for notification.
func (r *rentalRepository) MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	query := `UPDATE rentals
	          SET rental_status = 'overdue', updated_at = NOW()
	          WHERE rental_status = 'renting' AND due_date < $1
	          RETURNING ` + rentalColumns
	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, storageErr("mark overdue rentals", err)
	}
	defer rows.Close()
	return collectRentals(rows)
}

func (r *rentalRepository) DepositHistory(ctx context.Context, page, pageSize int32) ([]domain.DepositRecord, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	var count int32
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM rentals WHERE total_deposit > 0`).Scan(&count); err != nil {
		return nil, 0, storageErr("count deposit history", err)
	}

	query := `SELECT id, user_id, total_deposit, deposit_refund, return_date, created_at
	          FROM rentals WHERE total_deposit > 0
	          ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, storageErr("list deposit history", err)
	}
	defer rows.Close()

	var records []domain.DepositRecord
	for rows.Next() {
		var rec domain.DepositRecord
		var returnDate sql.NullTime
		if err := rows.Scan(&rec.RentalID, &rec.UserID, &rec.TotalDeposit, &rec.DepositRefund, &returnDate, &rec.CreatedAt); err != nil {
			return nil, 0, storageErr("scan deposit record", err)
		}
		if returnDate.Valid {
			rec.ReturnDate = &returnDate.Time
		}
		records = append(records, rec)
	}
	return records, count, rows.Err()
}

func collectRentals(rows *sql.Rows) ([]domain.Rental, error) {
	var rentals []domain.Rental
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, storageErr("scan rental", err)
		}
		rentals = append(rentals, *rental)
	}
	return rentals, rows.Err()
}

func requireRow(res sql.Result, format string, args ...any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("rows affected", err)
	}
	if n == 0 {
		return domain.NotFoundf(format, args...)
	}
	return nil
}
