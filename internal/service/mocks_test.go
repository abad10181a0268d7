package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
)

// mockStore satisfies repository.Store. InTx simply invokes fn against the
// same mock repositories; the error it returns stands in for a rollback.
type mockStore struct {
	repos *repository.Repositories
}

func newMockStore() (*mockStore, *MockCostumeRepo, *MockRentalRepo, *MockPenaltyRepo, *MockPaymentRepo, *MockUserRepo) {
	costumes := new(MockCostumeRepo)
	rentals := new(MockRentalRepo)
	penalties := new(MockPenaltyRepo)
	payments := new(MockPaymentRepo)
	users := new(MockUserRepo)
	store := &mockStore{repos: &repository.Repositories{
		Costumes:  costumes,
		Rentals:   rentals,
		Penalties: penalties,
		Payments:  payments,
		Users:     users,
	}}
	return store, costumes, rentals, penalties, payments, users
}

func (s *mockStore) Repos() *repository.Repositories { return s.repos }

func (s *mockStore) InTx(ctx context.Context, fn func(r *repository.Repositories) error) error {
	return fn(s.repos)
}

// MockCostumeRepo
type MockCostumeRepo struct {
	mock.Mock
}

func (m *MockCostumeRepo) Create(ctx context.Context, c *domain.Costume) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCostumeRepo) GetByID(ctx context.Context, id int64) (*domain.Costume, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Costume), args.Error(1)
}
func (m *MockCostumeRepo) List(ctx context.Context, f domain.CostumeFilter, page, pageSize int32) ([]domain.Costume, int32, error) {
	args := m.Called(ctx, f, page, pageSize)
	return args.Get(0).([]domain.Costume), args.Get(1).(int32), args.Error(2)
}
func (m *MockCostumeRepo) TopRented(ctx context.Context, limit int32) ([]domain.Costume, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Costume), args.Error(1)
}
func (m *MockCostumeRepo) Update(ctx context.Context, id int64, upd domain.CostumeUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}
func (m *MockCostumeRepo) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCostumeRepo) Reserve(ctx context.Context, costumeID int64, qty int32) (*domain.Costume, error) {
	args := m.Called(ctx, costumeID, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Costume), args.Error(1)
}
func (m *MockCostumeRepo) Release(ctx context.Context, costumeID int64, qty int32) error {
	args := m.Called(ctx, costumeID, qty)
	return args.Error(0)
}

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, r *domain.Rental, items []domain.RentalItem) error {
	args := m.Called(ctx, r, items)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) GetItems(ctx context.Context, rentalID string) ([]domain.RentalItem, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.RentalItem), args.Error(1)
}
func (m *MockRentalRepo) UpdateStatus(ctx context.Context, id string, status domain.RentalStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockRentalRepo) UpdatePaymentState(ctx context.Context, id string, state domain.PaymentState, paidAt *time.Time) error {
	args := m.Called(ctx, id, state, paidAt)
	return args.Error(0)
}
func (m *MockRentalRepo) Extend(ctx context.Context, id string, additionalDays int32, newDueDate time.Time, extensionFee int64) error {
	args := m.Called(ctx, id, additionalDays, newDueDate, extensionFee)
	return args.Error(0)
}
func (m *MockRentalRepo) AddPenalty(ctx context.Context, id string, lateDelta, damageDelta, otherDelta int64) error {
	args := m.Called(ctx, id, lateDelta, damageDelta, otherDelta)
	return args.Error(0)
}
func (m *MockRentalRepo) AppendAdminNote(ctx context.Context, id string, note string) error {
	args := m.Called(ctx, id, note)
	return args.Error(0)
}
func (m *MockRentalRepo) SetItemReturn(ctx context.Context, itemID int64, cond domain.ReturnCondition, description string, lateFee, damageFee int64) error {
	args := m.Called(ctx, itemID, cond, description, lateFee, damageFee)
	return args.Error(0)
}
func (m *MockRentalRepo) Settle(ctx context.Context, id string, returnDate time.Time, lateFee, damageFee, totalFine, depositRefund, additionalCharge int64) error {
	args := m.Called(ctx, id, returnDate, lateFee, damageFee, totalFine, depositRefund, additionalCharge)
	return args.Error(0)
}
func (m *MockRentalRepo) SetDepositRefund(ctx context.Context, id string, amount int64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}
func (m *MockRentalRepo) ListByUser(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) List(ctx context.Context, f domain.RentalFilter, page, pageSize int32) ([]domain.Rental, int32, error) {
	args := m.Called(ctx, f, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalRepo) MarkOverdue(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) DepositHistory(ctx context.Context, page, pageSize int32) ([]domain.DepositRecord, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.DepositRecord), args.Get(1).(int32), args.Error(2)
}

// MockPenaltyRepo
type MockPenaltyRepo struct {
	mock.Mock
}

func (m *MockPenaltyRepo) ListActive(ctx context.Context) ([]domain.PenaltyRule, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.PenaltyRule), args.Error(1)
}
func (m *MockPenaltyRepo) List(ctx context.Context, includeInactive bool) ([]domain.PenaltyRule, error) {
	args := m.Called(ctx, includeInactive)
	return args.Get(0).([]domain.PenaltyRule), args.Error(1)
}
func (m *MockPenaltyRepo) GetByID(ctx context.Context, id int64) (*domain.PenaltyRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PenaltyRule), args.Error(1)
}
func (m *MockPenaltyRepo) Create(ctx context.Context, rule *domain.PenaltyRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}
func (m *MockPenaltyRepo) Update(ctx context.Context, id int64, upd domain.PenaltyRuleUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}
func (m *MockPenaltyRepo) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) ListByRental(ctx context.Context, rentalID string) ([]domain.Payment, error) {
	args := m.Called(ctx, rentalID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, gatewayStatus string) error {
	args := m.Called(ctx, id, status, gatewayStatus)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendRentalConfirmation(ctx context.Context, email, name, rentalID string, totalAmount int64) error {
	args := m.Called(ctx, email, name, rentalID, totalAmount)
	return args.Error(0)
}
func (m *MockEmailService) SendOverdueReminder(ctx context.Context, email, name, rentalID string, dueDate time.Time) error {
	args := m.Called(ctx, email, name, rentalID, dueDate)
	return args.Error(0)
}
