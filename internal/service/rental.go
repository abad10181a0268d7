package service

import (
	"context"
	"sort"
	"time"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/logger"
	"costume-rental-backend/internal/repository"
	"costume-rental-backend/internal/settlement"
	"costume-rental-backend/internal/utils"
)

type rentalService struct {
	store repository.Store
}

func NewRentalService(store repository.Store) RentalService {
	return &rentalService{store: store}
}

// aggregatedItem is one requested costume with duplicate lines merged, used
// so reserve and release always move the exact total quantity per costume.
type aggregatedItem struct {
	CostumeID int64
	Quantity  int32
}

// aggregateItems merges duplicate costume lines and sorts by ascending
// costume id. The sort fixes the lock acquisition order across concurrent
// multi-item rentals.
func aggregateItems(items []RentalItemInput) []aggregatedItem {
	byCostume := make(map[int64]int32, len(items))
	for _, it := range items {
		byCostume[it.CostumeID] += it.Quantity
	}
	agg := make([]aggregatedItem, 0, len(byCostume))
	for id, qty := range byCostume {
		agg = append(agg, aggregatedItem{CostumeID: id, Quantity: qty})
	}
	sort.Slice(agg, func(i, j int) bool { return agg[i].CostumeID < agg[j].CostumeID })
	return agg
}

func validateCreateInput(input CreateRentalInput) error {
	if len(input.Items) == 0 {
		return domain.Validationf("rental must contain at least one item")
	}
	if input.RentalDays <= 0 {
		return domain.Validationf("rental_days must be positive")
	}
	if input.StartDate.IsZero() {
		return domain.Validationf("start_date is required")
	}
	if !domain.SupportedPaymentMethods[input.PaymentMethod] {
		return domain.Validationf("unsupported payment method %q", input.PaymentMethod)
	}
	for _, it := range input.Items {
		if it.Quantity <= 0 {
			return domain.Validationf("quantity for costume %d must be positive", it.CostumeID)
		}
	}
	return nil
}

func (s *rentalService) CreateRental(ctx context.Context, actor domain.Actor, input CreateRentalInput) (*CreateRentalResult, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	now := time.Now()
	agg := aggregateItems(input.Items)

	rental := &domain.Rental{
		ID:            utils.NewRentalCode(now),
		UserID:        actor.UserID,
		RentalDays:    input.RentalDays,
		StartDate:     input.StartDate,
		DueDate:       input.StartDate.AddDate(0, 0, int(input.RentalDays)),
		PaymentStatus: domain.PaymentStatePending,
		RentalStatus:  domain.RentalStatusPending,
		PaymentMethod: input.PaymentMethod,
	}

	err := s.store.InTx(ctx, func(r *repository.Repositories) error {
		items := make([]domain.RentalItem, 0, len(agg))
		for _, a := range agg {
			costume, err := r.Costumes.Reserve(ctx, a.CostumeID, a.Quantity)
			if err != nil {
				return err
			}
			item := domain.RentalItem{
				CostumeID:     costume.ID,
				Quantity:      a.Quantity,
				DailyPrice:    costume.DailyPrice,
				DepositAmount: costume.DepositAmount,
				RentalFee:     costume.DailyPrice * int64(input.RentalDays) * int64(a.Quantity),
				ItemDeposit:   costume.DepositAmount * int64(a.Quantity),
			}
			rental.TotalItems += a.Quantity
			rental.TotalRentalFee += item.RentalFee
			rental.TotalDeposit += item.ItemDeposit
			items = append(items, item)
		}
		rental.TotalAmountPaid = rental.TotalRentalFee + rental.TotalDeposit
		return r.Rentals.Create(ctx, rental, items)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("rental created",
		"rental_id", rental.ID,
		"user_id", rental.UserID,
		"total_amount", rental.TotalAmountPaid)

	return &CreateRentalResult{
		RentalID:    rental.ID,
		TotalAmount: rental.TotalAmountPaid,
	}, nil
}

// QuoteRental prices a would-be rental without touching inventory. Stock may
// change before the real CreateRental, so the quote makes no availability
// promise.
func (s *rentalService) QuoteRental(ctx context.Context, input CreateRentalInput) (*QuoteResult, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	result := &QuoteResult{}
	for _, a := range aggregateItems(input.Items) {
		costume, err := repos.Costumes.GetByID(ctx, a.CostumeID)
		if err != nil {
			return nil, err
		}
		item := QuoteItemResult{
			CostumeID:   costume.ID,
			CostumeName: costume.Name,
			Quantity:    a.Quantity,
			RentalFee:   costume.DailyPrice * int64(input.RentalDays) * int64(a.Quantity),
			ItemDeposit: costume.DepositAmount * int64(a.Quantity),
		}
		result.TotalRentalFee += item.RentalFee
		result.TotalDeposit += item.ItemDeposit
		result.Items = append(result.Items, item)
	}
	result.TotalAmount = result.TotalRentalFee + result.TotalDeposit
	return result, nil
}

func (s *rentalService) CancelRental(ctx context.Context, actor domain.Actor, rentalID string) error {
	rental, err := s.store.Repos().Rentals.GetByID(ctx, rentalID)
	if err != nil {
		return err
	}
	if !actor.CanAccess(rental) {
		return domain.Forbiddenf("rental %s does not belong to user %d", rentalID, actor.UserID)
	}
	if !domain.CanTransition(rental.RentalStatus, domain.RentalStatusCancelled) {
		return domain.InvalidStatef("cannot cancel rental %s in status %s", rentalID, rental.RentalStatus)
	}

	err = s.store.InTx(ctx, func(r *repository.Repositories) error {
		if err := r.Rentals.UpdateStatus(ctx, rentalID, domain.RentalStatusCancelled); err != nil {
			return err
		}
		items, err := r.Rentals.GetItems(ctx, rentalID)
		if err != nil {
			return err
		}
		for costumeID, qty := range aggregateByCostume(items, nil) {
			if err := r.Costumes.Release(ctx, costumeID, qty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("rental cancelled", "rental_id", rentalID, "user_id", actor.UserID)
	return nil
}

// aggregateByCostume sums item quantities per costume, skipping items whose
// id is in the skip set (lost items are never released).
func aggregateByCostume(items []domain.RentalItem, skip map[int64]bool) map[int64]int32 {
	byCostume := make(map[int64]int32, len(items))
	for _, it := range items {
		if skip[it.ID] {
			continue
		}
		byCostume[it.CostumeID] += it.Quantity
	}
	return byCostume
}

func (s *rentalService) ConfirmDelivery(ctx context.Context, actor domain.Actor, rentalID string) error {
	return s.adminTransition(ctx, actor, rentalID, domain.RentalStatusOutForDelivery)
}

func (s *rentalService) ConfirmReceipt(ctx context.Context, actor domain.Actor, rentalID string) error {
	return s.adminTransition(ctx, actor, rentalID, domain.RentalStatusRenting)
}

func (s *rentalService) adminTransition(ctx context.Context, actor domain.Actor, rentalID string, to domain.RentalStatus) error {
	if !actor.IsAdmin() {
		return domain.Forbiddenf("admin role required")
	}
	rental, err := s.store.Repos().Rentals.GetByID(ctx, rentalID)
	if err != nil {
		return err
	}
	if !domain.CanTransition(rental.RentalStatus, to) {
		return domain.InvalidStatef("cannot move rental %s from %s to %s", rentalID, rental.RentalStatus, to)
	}
	return s.store.Repos().Rentals.UpdateStatus(ctx, rentalID, to)
}

func (s *rentalService) ExtendRental(ctx context.Context, actor domain.Actor, rentalID string, additionalDays int32) (*ExtendResult, error) {
	if additionalDays <= 0 {
		return nil, domain.Validationf("additional_days must be positive")
	}

	repos := s.store.Repos()
	rental, err := repos.Rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(rental) {
		return nil, domain.Forbiddenf("rental %s does not belong to user %d", rentalID, actor.UserID)
	}
	if rental.RentalStatus != domain.RentalStatusRenting {
		return nil, domain.InvalidStatef("cannot extend rental %s in status %s", rentalID, rental.RentalStatus)
	}

	items, err := repos.Rentals.GetItems(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	var fee int64
	for _, it := range items {
		fee += it.DailyPrice * int64(additionalDays) * int64(it.Quantity)
	}
	newDueDate := rental.DueDate.AddDate(0, 0, int(additionalDays))

	if err := repos.Rentals.Extend(ctx, rentalID, additionalDays, newDueDate, fee); err != nil {
		return nil, err
	}

	logger.Info("rental extended",
		"rental_id", rentalID,
		"additional_days", additionalDays,
		"extension_fee", fee)

	return &ExtendResult{ExtensionFee: fee, NewDueDate: newDueDate}, nil
}

func (s *rentalService) RequestReturn(ctx context.Context, actor domain.Actor, rentalID string) error {
	rental, err := s.store.Repos().Rentals.GetByID(ctx, rentalID)
	if err != nil {
		return err
	}
	if !actor.CanAccess(rental) {
		return domain.Forbiddenf("rental %s does not belong to user %d", rentalID, actor.UserID)
	}
	if !domain.CanTransition(rental.RentalStatus, domain.RentalStatusReturned) {
		return domain.InvalidStatef("cannot request return for rental %s in status %s", rentalID, rental.RentalStatus)
	}
	return s.store.Repos().Rentals.UpdateStatus(ctx, rentalID, domain.RentalStatusReturned)
}

// ProcessReturn settles the rental: computes fees for every line item,
// persists the per-item outcomes, releases non-lost inventory and writes the
// rental-level totals, all in one transaction.
func (s *rentalService) ProcessReturn(ctx context.Context, actor domain.Actor, rentalID string, conditions []ReturnConditionInput, returnDate time.Time) (*settlement.Result, error) {
	if !actor.IsAdmin() {
		return nil, domain.Forbiddenf("admin role required")
	}
	if returnDate.IsZero() {
		returnDate = time.Now()
	}

	repos := s.store.Repos()
	rental, err := repos.Rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.RentalStatus != domain.RentalStatusReturned && rental.RentalStatus != domain.RentalStatusOverdue {
		return nil, domain.InvalidStatef("cannot process return for rental %s in status %s", rentalID, rental.RentalStatus)
	}

	activeRules, err := repos.Penalties.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	rules := settlement.NewRuleSet(activeRules)

	conds := make([]settlement.ItemCondition, 0, len(conditions))
	descByItem := make(map[int64]string, len(conditions))
	for _, c := range conditions {
		conds = append(conds, settlement.ItemCondition{
			ItemID:    c.ItemID,
			Condition: c.Condition,
		})
		descByItem[c.ItemID] = c.DamageDescription
	}

	var result *settlement.Result
	err = s.store.InTx(ctx, func(r *repository.Repositories) error {
		items, err := r.Rentals.GetItems(ctx, rentalID)
		if err != nil {
			return err
		}

		result, err = settlement.Settle(items, conds, rules,
			rental.RentalDays, rental.DueDate, returnDate, rental.TotalDeposit, rental.OtherFees)
		if err != nil {
			return err
		}

		// The guarded settle goes first: it locks the rental row and fails
		// with a conflict if another settlement got there already, so the
		// releases below never run twice for the same rental.
		if err := r.Rentals.Settle(ctx, rentalID, returnDate,
			result.TotalLateFee, result.TotalDamageFee, result.TotalFine,
			result.DepositRefund, result.AdditionalCharge); err != nil {
			return err
		}

		lost := make(map[int64]bool)
		for _, ir := range result.Items {
			if err := r.Rentals.SetItemReturn(ctx, ir.ItemID, ir.Condition, descByItem[ir.ItemID], ir.LateFee, ir.DamageFee); err != nil {
				return err
			}
			if ir.Condition == domain.ReturnConditionLost {
				lost[ir.ItemID] = true
			}
		}

		for costumeID, qty := range aggregateByCostume(items, lost) {
			if err := r.Costumes.Release(ctx, costumeID, qty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("rental settled",
		"rental_id", rentalID,
		"overdue_days", result.OverdueDays,
		"total_fine", result.TotalFine,
		"deposit_refund", result.DepositRefund,
		"additional_charge", result.AdditionalCharge)

	return result, nil
}

func (s *rentalService) ApplyManualPenalty(ctx context.Context, actor domain.Actor, rentalID string, penaltyType domain.ManualPenaltyType, amount int64, note string) error {
	if !actor.IsAdmin() {
		return domain.Forbiddenf("admin role required")
	}
	if !domain.ValidManualPenaltyType(penaltyType) {
		return domain.Validationf("unknown penalty type %q", penaltyType)
	}
	if amount <= 0 {
		return domain.Validationf("penalty amount must be positive")
	}

	var lateDelta, damageDelta, otherDelta int64
	switch penaltyType {
	case domain.ManualPenaltyLate:
		lateDelta = amount
	case domain.ManualPenaltyDamage:
		damageDelta = amount
	case domain.ManualPenaltyOther:
		otherDelta = amount
	}

	err := s.store.InTx(ctx, func(r *repository.Repositories) error {
		if err := r.Rentals.AddPenalty(ctx, rentalID, lateDelta, damageDelta, otherDelta); err != nil {
			return err
		}
		if note != "" {
			return r.Rentals.AppendAdminNote(ctx, rentalID, note)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("manual penalty applied",
		"rental_id", rentalID,
		"penalty_type", penaltyType,
		"amount", amount)
	return nil
}

func (s *rentalService) GetRental(ctx context.Context, actor domain.Actor, rentalID string) (*RentalDetail, error) {
	repos := s.store.Repos()
	rental, err := repos.Rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(rental) {
		return nil, domain.Forbiddenf("rental %s does not belong to user %d", rentalID, actor.UserID)
	}
	items, err := repos.Rentals.GetItems(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	return &RentalDetail{Rental: rental, Items: items}, nil
}

func (s *rentalService) ListUserRentals(ctx context.Context, actor domain.Actor, userID int64, page, pageSize int32) ([]domain.Rental, int32, error) {
	if !actor.IsAdmin() && actor.UserID != userID {
		return nil, 0, domain.Forbiddenf("cannot list rentals of user %d", userID)
	}
	return s.store.Repos().Rentals.ListByUser(ctx, userID, page, pageSize)
}

func (s *rentalService) ListRentals(ctx context.Context, actor domain.Actor, f domain.RentalFilter, page, pageSize int32) ([]domain.Rental, int32, error) {
	if !actor.IsAdmin() {
		return nil, 0, domain.Forbiddenf("admin role required")
	}
	return s.store.Repos().Rentals.List(ctx, f, page, pageSize)
}

func (s *rentalService) DepositHistory(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.DepositRecord, int32, error) {
	if !actor.IsAdmin() {
		return nil, 0, domain.Forbiddenf("admin role required")
	}
	return s.store.Repos().Rentals.DepositHistory(ctx, page, pageSize)
}

// MarkOverdueRentals flips every renting rental past its due date to overdue.
// Called by the scheduler; asOf is injected for testability.
func (s *rentalService) MarkOverdueRentals(ctx context.Context, asOf time.Time) ([]domain.Rental, error) {
	rentals, err := s.store.Repos().Rentals.MarkOverdue(ctx, asOf)
	if err != nil {
		return nil, err
	}
	if len(rentals) > 0 {
		logger.Info("marked rentals overdue", "count", len(rentals))
	}
	return rentals, nil
}
