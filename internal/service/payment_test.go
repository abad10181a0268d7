package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"costume-rental-backend/internal/domain"
)

func TestRecordPayment_Validation(t *testing.T) {
	store, _, _, _, _, _ := newMockStore()
	svc := NewPaymentService(store, nil)
	ctx := context.Background()

	cases := []struct {
		name  string
		input RecordPaymentInput
	}{
		{"BadMethod", RecordPaymentInput{RentalID: "RENT1", Amount: 1000, PaymentMethod: "iou", PaymentType: domain.PaymentTypeRentalFee}},
		{"UnknownType", RecordPaymentInput{RentalID: "RENT1", Amount: 1000, PaymentMethod: "cash", PaymentType: "tip"}},
		{"NonPositiveFee", RecordPaymentInput{RentalID: "RENT1", Amount: 0, PaymentMethod: "cash", PaymentType: domain.PaymentTypeRentalFee}},
		{"NonNegativeRefund", RecordPaymentInput{RentalID: "RENT1", Amount: 1000, PaymentMethod: "cash", PaymentType: domain.PaymentTypeRefund}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RecordPayment(ctx, customer, tc.input)
			assert.True(t, domain.IsValidation(err))
		})
	}
}

func TestRecordPayment_Success(t *testing.T) {
	store, _, rentals, _, payments, _ := newMockStore()
	svc := NewPaymentService(store, nil)
	ctx := context.Background()

	rentals.On("GetByID", ctx, "RENT1").Return(&domain.Rental{ID: "RENT1", UserID: 7}, nil)
	payments.On("Create", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.RentalID == "RENT1" &&
			p.UserID == 7 &&
			p.Amount == 500000 &&
			p.Status == domain.PaymentStatusPending &&
			strings.HasPrefix(p.ID, "PAY")
	})).Return(nil)

	id, err := svc.RecordPayment(ctx, customer, RecordPaymentInput{
		RentalID: "RENT1", Amount: 500000, PaymentMethod: "momo",
		PaymentType: domain.PaymentTypeRentalFee,
	})
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "PAY"))
	payments.AssertExpectations(t)
}

func TestRecordPayment_RefundUsesRefundCode(t *testing.T) {
	store, _, rentals, _, payments, _ := newMockStore()
	svc := NewPaymentService(store, nil)
	ctx := context.Background()

	rentals.On("GetByID", ctx, "RENT1").Return(&domain.Rental{ID: "RENT1", UserID: 1}, nil)
	payments.On("Create", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
		return strings.HasPrefix(p.ID, "REF") && p.Amount == -200000
	})).Return(nil)

	id, err := svc.RecordPayment(ctx, admin, RecordPaymentInput{
		RentalID: "RENT1", Amount: -200000, PaymentMethod: "banking",
		PaymentType: domain.PaymentTypeRefund,
	})
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "REF"))
}

func TestConfirmPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessMarksRentalPaidAndConfirmed", func(t *testing.T) {
		store, _, rentals, _, payments, users := newMockStore()
		email := new(MockEmailService)
		svc := NewPaymentService(store, email)

		payments.On("GetByID", ctx, "PAY1").Return(&domain.Payment{
			ID: "PAY1", RentalID: "RENT1", UserID: 7,
			PaymentType: domain.PaymentTypeRentalFee, Status: domain.PaymentStatusPending,
		}, nil)
		payments.On("UpdateStatus", ctx, "PAY1", domain.PaymentStatusSuccess, "00").Return(nil)
		rentals.On("GetByID", ctx, "RENT1").Return(&domain.Rental{
			ID: "RENT1", UserID: 7, RentalStatus: domain.RentalStatusPending,
			TotalAmountPaid: 1200000,
		}, nil)
		rentals.On("UpdatePaymentState", ctx, "RENT1", domain.PaymentStatePaid,
			mock.AnythingOfType("*time.Time")).Return(nil)
		rentals.On("UpdateStatus", ctx, "RENT1", domain.RentalStatusConfirmed).Return(nil)
		users.On("GetByID", ctx, int64(7)).Return(&domain.User{
			ID: 7, Email: "a@b.vn", FullName: "An",
		}, nil)
		email.On("SendRentalConfirmation", ctx, "a@b.vn", "An", "RENT1", int64(1200000)).Return(nil)

		err := svc.ConfirmPayment(ctx, "PAY1", "00", true)
		assert.NoError(t, err)
		rentals.AssertExpectations(t)
		email.AssertExpectations(t)
	})

	t.Run("SuccessOnConfirmedRentalSkipsStatusChange", func(t *testing.T) {
		store, _, rentals, _, payments, users := newMockStore()
		svc := NewPaymentService(store, nil)

		payments.On("GetByID", ctx, "PAY1").Return(&domain.Payment{
			ID: "PAY1", RentalID: "RENT1",
			PaymentType: domain.PaymentTypeRentalFee, Status: domain.PaymentStatusPending,
		}, nil)
		payments.On("UpdateStatus", ctx, "PAY1", domain.PaymentStatusSuccess, "00").Return(nil)
		rentals.On("GetByID", ctx, "RENT1").Return(&domain.Rental{
			ID: "RENT1", RentalStatus: domain.RentalStatusRenting,
		}, nil)
		rentals.On("UpdatePaymentState", ctx, "RENT1", domain.PaymentStatePaid,
			mock.AnythingOfType("*time.Time")).Return(nil)

		err := svc.ConfirmPayment(ctx, "PAY1", "00", true)
		assert.NoError(t, err)
		rentals.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("StatusRaceDoesNotFailConfirmation", func(t *testing.T) {
		store, _, rentals, _, payments, _ := newMockStore()
		svc := NewPaymentService(store, nil)

		payments.On("GetByID", ctx, "PAY1").Return(&domain.Payment{
			ID: "PAY1", RentalID: "RENT1",
			PaymentType: domain.PaymentTypeRentalFee, Status: domain.PaymentStatusPending,
		}, nil)
		payments.On("UpdateStatus", ctx, "PAY1", domain.PaymentStatusSuccess, "00").Return(nil)
		rentals.On("GetByID", ctx, "RENT1").Return(&domain.Rental{
			ID: "RENT1", RentalStatus: domain.RentalStatusPending,
		}, nil)
		rentals.On("UpdatePaymentState", ctx, "RENT1", domain.PaymentStatePaid,
			mock.AnythingOfType("*time.Time")).Return(nil)
		// An admin confirmed the rental between the read and the write.
		rentals.On("UpdateStatus", ctx, "RENT1", domain.RentalStatusConfirmed).
			Return(domain.Conflictf("rental %s can no longer move to %s", "RENT1", domain.RentalStatusConfirmed))

		err := svc.ConfirmPayment(ctx, "PAY1", "00", true)
		assert.NoError(t, err)
	})

	t.Run("FailureLeavesRentalUntouched", func(t *testing.T) {
		store, _, rentals, _, payments, _ := newMockStore()
		svc := NewPaymentService(store, nil)

		payments.On("GetByID", ctx, "PAY1").Return(&domain.Payment{
			ID: "PAY1", RentalID: "RENT1",
			PaymentType: domain.PaymentTypeRentalFee, Status: domain.PaymentStatusPending,
		}, nil)
		payments.On("UpdateStatus", ctx, "PAY1", domain.PaymentStatusFailed, "97").Return(nil)

		err := svc.ConfirmPayment(ctx, "PAY1", "97", false)
		assert.NoError(t, err)
		rentals.AssertNotCalled(t, "UpdatePaymentState", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AlreadySettledPaymentConflicts", func(t *testing.T) {
		store, _, _, _, payments, _ := newMockStore()
		svc := NewPaymentService(store, nil)

		payments.On("GetByID", ctx, "PAY1").Return(&domain.Payment{
			ID: "PAY1", RentalID: "RENT1",
			PaymentType: domain.PaymentTypeRentalFee, Status: domain.PaymentStatusSuccess,
		}, nil)
		payments.On("UpdateStatus", ctx, "PAY1", domain.PaymentStatusSuccess, "00").
			Return(domain.Conflictf("payment %s is not pending", "PAY1"))

		err := svc.ConfirmPayment(ctx, "PAY1", "00", true)
		assert.True(t, domain.IsConflict(err))
	})

	t.Run("EmailFailureIsSwallowed", func(t *testing.T) {
		store, _, rentals, _, payments, users := newMockStore()
		email := new(MockEmailService)
		svc := NewPaymentService(store, email)

		payments.On("GetByID", ctx, "PAY1").Return(&domain.Payment{
			ID: "PAY1", RentalID: "RENT1",
			PaymentType: domain.PaymentTypeRentalFee, Status: domain.PaymentStatusPending,
		}, nil)
		payments.On("UpdateStatus", ctx, "PAY1", domain.PaymentStatusSuccess, "00").Return(nil)
		rentals.On("GetByID", ctx, "RENT1").Return(&domain.Rental{
			ID: "RENT1", UserID: 7, RentalStatus: domain.RentalStatusRenting,
		}, nil)
		rentals.On("UpdatePaymentState", ctx, "RENT1", domain.PaymentStatePaid,
			mock.AnythingOfType("*time.Time")).Return(nil)
		users.On("GetByID", ctx, int64(7)).Return(&domain.User{ID: 7, Email: "a@b.vn"}, nil)
		email.On("SendRentalConfirmation", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("sendgrid down"))

		err := svc.ConfirmPayment(ctx, "PAY1", "00", true)
		assert.NoError(t, err)
	})
}

func TestGetPayment_AccessCheck(t *testing.T) {
	store, _, _, _, payments, _ := newMockStore()
	svc := NewPaymentService(store, nil)
	ctx := context.Background()

	payments.On("GetByID", ctx, "PAY1").Return(&domain.Payment{
		ID: "PAY1", UserID: 99,
	}, nil)

	_, err := svc.GetPayment(ctx, customer, "PAY1")
	assert.True(t, domain.IsForbidden(err))

	got, err := svc.GetPayment(ctx, admin, "PAY1")
	assert.NoError(t, err)
	assert.Equal(t, "PAY1", got.ID)
}

func TestRefundDeposit(t *testing.T) {
	ctx := context.Background()

	completed := func(deposit, fine int64) *domain.Rental {
		return &domain.Rental{
			ID: "RENT1", UserID: 7,
			RentalStatus: domain.RentalStatusCompleted,
			TotalDeposit: deposit, TotalFine: fine,
		}
	}

	t.Run("AdminOnly", func(t *testing.T) {
		store, _, _, _, _, _ := newMockStore()
		svc := NewPaymentService(store, nil)

		_, err := svc.RefundDeposit(ctx, customer, "RENT1", 100000, "cash", "")
		assert.True(t, domain.IsForbidden(err))
	})

	t.Run("CompletedOnly", func(t *testing.T) {
		store, _, rentals, _, _, _ := newMockStore()
		svc := NewPaymentService(store, nil)

		rentals.On("GetByID", ctx, "RENT1").Return(&domain.Rental{
			ID: "RENT1", RentalStatus: domain.RentalStatusReturned,
		}, nil)

		_, err := svc.RefundDeposit(ctx, admin, "RENT1", 100000, "cash", "")
		assert.True(t, domain.IsInvalidState(err))
	})

	t.Run("CappedAtRefundable", func(t *testing.T) {
		store, _, rentals, _, payments, _ := newMockStore()
		svc := NewPaymentService(store, nil)

		rentals.On("GetByID", ctx, "RENT1").Return(completed(600000, 150000), nil)
		// Requested 600000 but only 450000 survives the fine.
		payments.On("Create", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.Amount == -450000 && p.Status == domain.PaymentStatusSuccess
		})).Return(nil)
		rentals.On("SetDepositRefund", ctx, "RENT1", int64(450000)).Return(nil)
		rentals.On("AppendAdminNote", ctx, "RENT1", "paid in cash").Return(nil)

		id, err := svc.RefundDeposit(ctx, admin, "RENT1", 600000, "cash", "paid in cash")
		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(id, "REF"))
		payments.AssertExpectations(t)
		rentals.AssertExpectations(t)
	})

	t.Run("FineConsumesDeposit", func(t *testing.T) {
		store, _, rentals, _, payments, _ := newMockStore()
		svc := NewPaymentService(store, nil)

		rentals.On("GetByID", ctx, "RENT1").Return(completed(300000, 500000), nil)

		_, err := svc.RefundDeposit(ctx, admin, "RENT1", 300000, "cash", "")
		assert.True(t, domain.IsValidation(err))
		payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestListRentalPayments_AccessCheck(t *testing.T) {
	store, _, rentals, _, payments, _ := newMockStore()
	svc := NewPaymentService(store, nil)
	ctx := context.Background()

	rentals.On("GetByID", ctx, "RENT1").Return(&domain.Rental{ID: "RENT1", UserID: 99}, nil)

	_, err := svc.ListRentalPayments(ctx, customer, "RENT1")
	assert.True(t, domain.IsForbidden(err))
	payments.AssertNotCalled(t, "ListByRental", mock.Anything, mock.Anything)
}
