package repository

import (
	"context"
	"database/sql"
	"time"

	"costume-rental-backend/internal/domain"
)

// DBTX is the querier shared by *sql.DB and *sql.Tx. Repositories are bound to
// one, so the same implementation runs against the pool or inside a
// transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CostumeRepository owns costume rows. Reserve and Release are the inventory
// ledger: Reserve must be called inside a transaction (it takes a row lock
// that lives until commit), Release is a single guarded update.
type CostumeRepository interface {
	Create(ctx context.Context, c *domain.Costume) error
	GetByID(ctx context.Context, id int64) (*domain.Costume, error)
	List(ctx context.Context, f domain.CostumeFilter, page, pageSize int32) ([]domain.Costume, int32, error)
	TopRented(ctx context.Context, limit int32) ([]domain.Costume, error)
	Update(ctx context.Context, id int64, upd domain.CostumeUpdate) error
	SoftDelete(ctx context.Context, id int64) error

	// Reserve locks the costume row, verifies availability and decrements it,
	// returning the locked snapshot for price capture.
	Reserve(ctx context.Context, costumeID int64, qty int32) (*domain.Costume, error)
	// Release returns qty units to availability (bounded by total_quantity)
	// and bumps the popularity counter.
	Release(ctx context.Context, costumeID int64, qty int32) error
}

type RentalRepository interface {
	// Create inserts the rental and all of its line items.
	Create(ctx context.Context, r *domain.Rental, items []domain.RentalItem) error
	GetByID(ctx context.Context, id string) (*domain.Rental, error)
	// GetItems returns the rental's line items joined with costume name and
	// original value.
	GetItems(ctx context.Context, rentalID string) ([]domain.RentalItem, error)
	// UpdateStatus applies a guarded transition: the write only lands when
	// the current status is a legal source for the target, and a conflict is
	// returned otherwise.
	UpdateStatus(ctx context.Context, id string, status domain.RentalStatus) error
	UpdatePaymentState(ctx context.Context, id string, state domain.PaymentState, paidAt *time.Time) error
	// Extend adds days and fee onto an existing rental.
	Extend(ctx context.Context, id string, additionalDays int32, newDueDate time.Time, extensionFee int64) error
	// AddPenalty adds the deltas onto the fee columns, recomputes total_fine
	// and rolls the delta into total_amount_paid.
	AddPenalty(ctx context.Context, id string, lateDelta, damageDelta, otherDelta int64) error
	AppendAdminNote(ctx context.Context, id string, note string) error
	// SetItemReturn records a line item's settlement outcome.
	SetItemReturn(ctx context.Context, itemID int64, cond domain.ReturnCondition, description string, lateFee, damageFee int64) error
	// Settle writes the rental-level settlement outcome and moves the rental
	// to completed. Only a returned or overdue rental settles; anything else
	// is a conflict.
	Settle(ctx context.Context, id string, returnDate time.Time, lateFee, damageFee, totalFine, depositRefund, additionalCharge int64) error
	SetDepositRefund(ctx context.Context, id string, amount int64) error
	ListByUser(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Rental, int32, error)
	List(ctx context.Context, f domain.RentalFilter, page, pageSize int32) ([]domain.Rental, int32, error)
	// MarkOverdue flips renting rentals whose due date is before asOf to
	// overdue and returns them.
	MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error)
	DepositHistory(ctx context.Context, page, pageSize int32) ([]domain.DepositRecord, int32, error)
}

type PenaltyRepository interface {
	ListActive(ctx context.Context) ([]domain.PenaltyRule, error)
	List(ctx context.Context, includeInactive bool) ([]domain.PenaltyRule, error)
	GetByID(ctx context.Context, id int64) (*domain.PenaltyRule, error)
	Create(ctx context.Context, rule *domain.PenaltyRule) error
	Update(ctx context.Context, id int64, upd domain.PenaltyRuleUpdate) error
	Deactivate(ctx context.Context, id int64) error
}

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	ListByRental(ctx context.Context, rentalID string) ([]domain.Payment, error)
	// UpdateStatus moves a pending payment to success or failed; success also
	// stamps paid_at.
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, gatewayStatus string) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Repositories bundles every repository bound to the same querier.
type Repositories struct {
	Costumes  CostumeRepository
	Rentals   RentalRepository
	Penalties PenaltyRepository
	Payments  PaymentRepository
	Users     UserRepository
}

// Store hands out repositories and runs functions inside a database
// transaction. InTx commits when fn returns nil and rolls back otherwise, so a
// multi-row reservation or settlement either lands completely or not at all.
type Store interface {
	Repos() *Repositories
	InTx(ctx context.Context, fn func(r *Repositories) error) error
}
