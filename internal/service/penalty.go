package service

import (
	"context"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/logger"
	"costume-rental-backend/internal/repository"
)

type penaltyService struct {
	store repository.Store
}

func NewPenaltyService(store repository.Store) PenaltyService {
	return &penaltyService{store: store}
}

func (s *penaltyService) ListRules(ctx context.Context, includeInactive bool) ([]domain.PenaltyRule, error) {
	return s.store.Repos().Penalties.List(ctx, includeInactive)
}

func (s *penaltyService) GetRule(ctx context.Context, id int64) (*domain.PenaltyRule, error) {
	return s.store.Repos().Penalties.GetByID(ctx, id)
}

func (s *penaltyService) CreateRule(ctx context.Context, actor domain.Actor, rule *domain.PenaltyRule) error {
	if !actor.IsAdmin() {
		return domain.Forbiddenf("admin role required")
	}
	if err := validateRule(rule.PenaltyType, rule.CalculationType, rule.Value, rule.MinAmount, rule.MaxAmount); err != nil {
		return err
	}
	if rule.Name == "" {
		return domain.Validationf("rule name is required")
	}
	if rule.Status == "" {
		rule.Status = domain.RuleStatusActive
	}

	if err := s.store.Repos().Penalties.Create(ctx, rule); err != nil {
		return err
	}
	logger.Info("penalty rule created", "rule_id", rule.ID, "penalty_type", rule.PenaltyType)
	return nil
}

func (s *penaltyService) UpdateRule(ctx context.Context, actor domain.Actor, id int64, upd domain.PenaltyRuleUpdate) error {
	if !actor.IsAdmin() {
		return domain.Forbiddenf("admin role required")
	}
	if upd.Empty() {
		return domain.Validationf("no fields to update")
	}
	if upd.CalculationType != nil && !domain.ValidCalculationType(*upd.CalculationType) {
		return domain.Validationf("unknown calculation type %q", *upd.CalculationType)
	}
	if upd.Value != nil && *upd.Value < 0 {
		return domain.Validationf("rule value cannot be negative")
	}
	if upd.MinAmount != nil && *upd.MinAmount < 0 {
		return domain.Validationf("min_amount cannot be negative")
	}
	if upd.MaxAmount != nil && *upd.MaxAmount < 0 {
		return domain.Validationf("max_amount cannot be negative")
	}
	if upd.MinAmount != nil && upd.MaxAmount != nil && *upd.MinAmount > *upd.MaxAmount {
		return domain.Validationf("min_amount cannot exceed max_amount")
	}
	return s.store.Repos().Penalties.Update(ctx, id, upd)
}

func (s *penaltyService) DeactivateRule(ctx context.Context, actor domain.Actor, id int64) error {
	if !actor.IsAdmin() {
		return domain.Forbiddenf("admin role required")
	}
	if err := s.store.Repos().Penalties.Deactivate(ctx, id); err != nil {
		return err
	}
	logger.Info("penalty rule deactivated", "rule_id", id)
	return nil
}

func validateRule(pt domain.PenaltyType, ct domain.CalculationType, value float64, min, max *int64) error {
	if !domain.ValidPenaltyType(pt) {
		return domain.Validationf("unknown penalty type %q", pt)
	}
	if !domain.ValidCalculationType(ct) {
		return domain.Validationf("unknown calculation type %q", ct)
	}
	if value < 0 {
		return domain.Validationf("rule value cannot be negative")
	}
	if min != nil && *min < 0 {
		return domain.Validationf("min_amount cannot be negative")
	}
	if max != nil && *max < 0 {
		return domain.Validationf("max_amount cannot be negative")
	}
	if min != nil && max != nil && *min > *max {
		return domain.Validationf("min_amount cannot exceed max_amount")
	}
	return nil
}
