package service

import (
	"context"
	"time"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/logger"
	"costume-rental-backend/internal/repository"
	"costume-rental-backend/internal/utils"
)

type paymentService struct {
	store    repository.Store
	emailSvc EmailService
}

func NewPaymentService(store repository.Store, emailSvc EmailService) PaymentService {
	return &paymentService{store: store, emailSvc: emailSvc}
}

func (s *paymentService) RecordPayment(ctx context.Context, actor domain.Actor, input RecordPaymentInput) (string, error) {
	if !domain.SupportedPaymentMethods[input.PaymentMethod] {
		return "", domain.Validationf("unsupported payment method %q", input.PaymentMethod)
	}
	switch input.PaymentType {
	case domain.PaymentTypeRentalFee:
		if input.Amount <= 0 {
			return "", domain.Validationf("rental fee payment amount must be positive")
		}
	case domain.PaymentTypeRefund:
		if input.Amount >= 0 {
			return "", domain.Validationf("refund amount must be negative")
		}
	default:
		return "", domain.Validationf("unknown payment type %q", input.PaymentType)
	}

	repos := s.store.Repos()
	rental, err := repos.Rentals.GetByID(ctx, input.RentalID)
	if err != nil {
		return "", err
	}
	if !actor.CanAccess(rental) {
		return "", domain.Forbiddenf("rental %s does not belong to user %d", input.RentalID, actor.UserID)
	}

	now := time.Now()
	payment := &domain.Payment{
		RentalID:      rental.ID,
		UserID:        rental.UserID,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		PaymentType:   input.PaymentType,
		Status:        domain.PaymentStatusPending,
	}
	if input.PaymentType == domain.PaymentTypeRefund {
		payment.ID = utils.NewRefundCode(now)
	} else {
		payment.ID = utils.NewPaymentCode(now)
	}

	if err := repos.Payments.Create(ctx, payment); err != nil {
		return "", err
	}

	logger.Info("payment recorded",
		"payment_id", payment.ID,
		"rental_id", payment.RentalID,
		"amount", payment.Amount,
		"type", payment.PaymentType)
	return payment.ID, nil
}

// ConfirmPayment applies the gateway's verdict. A successful rental_fee
// payment marks the rental paid and moves a pending rental to confirmed; the
// rental update reads committed state and may run in its own transaction.
func (s *paymentService) ConfirmPayment(ctx context.Context, paymentID string, gatewayStatus string, success bool) error {
	repos := s.store.Repos()
	payment, err := repos.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}

	status := domain.PaymentStatusFailed
	if success {
		status = domain.PaymentStatusSuccess
	}
	if err := repos.Payments.UpdateStatus(ctx, paymentID, status, gatewayStatus); err != nil {
		return err
	}

	if !success || payment.PaymentType != domain.PaymentTypeRentalFee {
		logger.Info("payment confirmed", "payment_id", paymentID, "status", status)
		return nil
	}

	err = s.store.InTx(ctx, func(r *repository.Repositories) error {
		rental, err := r.Rentals.GetByID(ctx, payment.RentalID)
		if err != nil {
			return err
		}
		now := time.Now()
		if err := r.Rentals.UpdatePaymentState(ctx, rental.ID, domain.PaymentStatePaid, &now); err != nil {
			return err
		}
		if rental.RentalStatus == domain.RentalStatusPending {
			// A concurrent confirmation already moved the rental along; the
			// payment outcome still stands.
			if err := r.Rentals.UpdateStatus(ctx, rental.ID, domain.RentalStatusConfirmed); err != nil && !domain.IsConflict(err) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("payment confirmed", "payment_id", paymentID, "rental_id", payment.RentalID)
	s.notifyConfirmation(ctx, payment.RentalID)
	return nil
}

// notifyConfirmation emails the customer after the transaction committed.
// Failures are logged and swallowed.
func (s *paymentService) notifyConfirmation(ctx context.Context, rentalID string) {
	if s.emailSvc == nil {
		return
	}
	repos := s.store.Repos()
	rental, err := repos.Rentals.GetByID(ctx, rentalID)
	if err != nil {
		logger.Warn("confirmation email skipped", "rental_id", rentalID, "error", err)
		return
	}
	user, err := repos.Users.GetByID(ctx, rental.UserID)
	if err != nil {
		logger.Warn("confirmation email skipped", "rental_id", rentalID, "error", err)
		return
	}
	if err := s.emailSvc.SendRentalConfirmation(ctx, user.Email, user.FullName, rental.ID, rental.TotalAmountPaid); err != nil {
		logger.Warn("confirmation email failed", "rental_id", rentalID, "error", err)
	}
}

func (s *paymentService) GetPayment(ctx context.Context, actor domain.Actor, paymentID string) (*domain.Payment, error) {
	payment, err := s.store.Repos().Payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.UserID != payment.UserID {
		return nil, domain.Forbiddenf("payment %s does not belong to user %d", paymentID, actor.UserID)
	}
	return payment, nil
}

func (s *paymentService) ListRentalPayments(ctx context.Context, actor domain.Actor, rentalID string) ([]domain.Payment, error) {
	repos := s.store.Repos()
	rental, err := repos.Rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(rental) {
		return nil, domain.Forbiddenf("rental %s does not belong to user %d", rentalID, actor.UserID)
	}
	return repos.Payments.ListByRental(ctx, rentalID)
}

// RefundDeposit records the deposit payout after settlement. The amount is
// capped at what settlement left refundable.
func (s *paymentService) RefundDeposit(ctx context.Context, actor domain.Actor, rentalID string, amount int64, method, note string) (string, error) {
	if !actor.IsAdmin() {
		return "", domain.Forbiddenf("admin role required")
	}
	if amount <= 0 {
		return "", domain.Validationf("refund amount must be positive")
	}
	if !domain.SupportedPaymentMethods[method] {
		return "", domain.Validationf("unsupported payment method %q", method)
	}

	rental, err := s.store.Repos().Rentals.GetByID(ctx, rentalID)
	if err != nil {
		return "", err
	}
	if rental.RentalStatus != domain.RentalStatusCompleted {
		return "", domain.InvalidStatef("cannot refund deposit for rental %s in status %s", rentalID, rental.RentalStatus)
	}

	refundable := rental.TotalDeposit - rental.TotalFine
	if refundable < 0 {
		refundable = 0
	}
	if amount > refundable {
		amount = refundable
	}
	if amount == 0 {
		return "", domain.Validationf("rental %s has no refundable deposit", rentalID)
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:            utils.NewRefundCode(now),
		RentalID:      rental.ID,
		UserID:        rental.UserID,
		Amount:        -amount,
		PaymentMethod: method,
		PaymentType:   domain.PaymentTypeRefund,
		Status:        domain.PaymentStatusSuccess,
	}

	err = s.store.InTx(ctx, func(r *repository.Repositories) error {
		if err := r.Payments.Create(ctx, payment); err != nil {
			return err
		}
		if err := r.Rentals.SetDepositRefund(ctx, rentalID, amount); err != nil {
			return err
		}
		if note != "" {
			return r.Rentals.AppendAdminNote(ctx, rentalID, note)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	logger.Info("deposit refunded",
		"rental_id", rentalID,
		"payment_id", payment.ID,
		"amount", amount)
	return payment.ID, nil
}
