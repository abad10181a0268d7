package service

import (
	"context"
	"time"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/settlement"
)

// RentalItemInput is one requested line of a new rental.
type RentalItemInput struct {
	CostumeID int64 `json:"costume_id"`
	Quantity  int32 `json:"quantity"`
}

type CreateRentalInput struct {
	Items         []RentalItemInput `json:"items"`
	RentalDays    int32             `json:"rental_days"`
	StartDate     time.Time         `json:"start_date"`
	PaymentMethod string            `json:"payment_method"`
}

type CreateRentalResult struct {
	RentalID    string `json:"rental_id"`
	TotalAmount int64  `json:"total_amount"`
}

// QuoteResult is a side-effect-free price preview of a would-be rental.
type QuoteResult struct {
	TotalRentalFee int64             `json:"total_rental_fee"`
	TotalDeposit   int64             `json:"total_deposit"`
	TotalAmount    int64             `json:"total_amount"`
	Items          []QuoteItemResult `json:"items"`
}

type QuoteItemResult struct {
	CostumeID   int64  `json:"costume_id"`
	CostumeName string `json:"costume_name"`
	Quantity    int32  `json:"quantity"`
	RentalFee   int64  `json:"rental_fee"`
	ItemDeposit int64  `json:"item_deposit"`
}

type ExtendResult struct {
	ExtensionFee int64     `json:"extension_fee"`
	NewDueDate   time.Time `json:"new_due_date"`
}

// ReturnConditionInput is one reported per-item outcome at return processing.
type ReturnConditionInput struct {
	ItemID            int64                  `json:"item_id"`
	Condition         domain.ReturnCondition `json:"condition"`
	DamageDescription string                 `json:"damage_description"`
}

type RentalDetail struct {
	Rental *domain.Rental      `json:"rental"`
	Items  []domain.RentalItem `json:"items"`
}

type RentalService interface {
	CreateRental(ctx context.Context, actor domain.Actor, input CreateRentalInput) (*CreateRentalResult, error)
	QuoteRental(ctx context.Context, input CreateRentalInput) (*QuoteResult, error)
	CancelRental(ctx context.Context, actor domain.Actor, rentalID string) error
	ConfirmDelivery(ctx context.Context, actor domain.Actor, rentalID string) error
	ConfirmReceipt(ctx context.Context, actor domain.Actor, rentalID string) error
	ExtendRental(ctx context.Context, actor domain.Actor, rentalID string, additionalDays int32) (*ExtendResult, error)
	RequestReturn(ctx context.Context, actor domain.Actor, rentalID string) error
	ProcessReturn(ctx context.Context, actor domain.Actor, rentalID string, conditions []ReturnConditionInput, returnDate time.Time) (*settlement.Result, error)
	ApplyManualPenalty(ctx context.Context, actor domain.Actor, rentalID string, penaltyType domain.ManualPenaltyType, amount int64, note string) error
	GetRental(ctx context.Context, actor domain.Actor, rentalID string) (*RentalDetail, error)
	ListUserRentals(ctx context.Context, actor domain.Actor, userID int64, page, pageSize int32) ([]domain.Rental, int32, error)
	ListRentals(ctx context.Context, actor domain.Actor, f domain.RentalFilter, page, pageSize int32) ([]domain.Rental, int32, error)
	DepositHistory(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.DepositRecord, int32, error)
	MarkOverdueRentals(ctx context.Context, asOf time.Time) ([]domain.Rental, error)
}

type RecordPaymentInput struct {
	RentalID      string             `json:"rental_id"`
	Amount        int64              `json:"amount"`
	PaymentMethod string             `json:"payment_method"`
	PaymentType   domain.PaymentType `json:"payment_type"`
}

type PaymentService interface {
	RecordPayment(ctx context.Context, actor domain.Actor, input RecordPaymentInput) (string, error)
	// ConfirmPayment records the gateway's verdict for a pending payment; a
	// successful rental_fee payment also confirms the rental.
	ConfirmPayment(ctx context.Context, paymentID string, gatewayStatus string, success bool) error
	GetPayment(ctx context.Context, actor domain.Actor, paymentID string) (*domain.Payment, error)
	ListRentalPayments(ctx context.Context, actor domain.Actor, rentalID string) ([]domain.Payment, error)
	RefundDeposit(ctx context.Context, actor domain.Actor, rentalID string, amount int64, method, note string) (string, error)
}

type CostumeService interface {
	ListCostumes(ctx context.Context, f domain.CostumeFilter, page, pageSize int32) ([]domain.Costume, int32, error)
	GetCostume(ctx context.Context, id int64) (*domain.Costume, error)
	TopRented(ctx context.Context, limit int32) ([]domain.Costume, error)
	CreateCostume(ctx context.Context, actor domain.Actor, c *domain.Costume) error
	UpdateCostume(ctx context.Context, actor domain.Actor, id int64, upd domain.CostumeUpdate) error
	DeleteCostume(ctx context.Context, actor domain.Actor, id int64) error
}

type PenaltyService interface {
	ListRules(ctx context.Context, includeInactive bool) ([]domain.PenaltyRule, error)
	GetRule(ctx context.Context, id int64) (*domain.PenaltyRule, error)
	CreateRule(ctx context.Context, actor domain.Actor, rule *domain.PenaltyRule) error
	UpdateRule(ctx context.Context, actor domain.Actor, id int64, upd domain.PenaltyRuleUpdate) error
	DeactivateRule(ctx context.Context, actor domain.Actor, id int64) error
}

// EmailService sends customer notifications. Calls are best-effort and never
// run inside a database transaction.
type EmailService interface {
	SendRentalConfirmation(ctx context.Context, email, name, rentalID string, totalAmount int64) error
	SendOverdueReminder(ctx context.Context, email, name, rentalID string, dueDate time.Time) error
}
