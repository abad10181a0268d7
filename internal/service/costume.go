package service

import (
	"context"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/logger"
	"costume-rental-backend/internal/repository"
)

type costumeService struct {
	store repository.Store
}

func NewCostumeService(store repository.Store) CostumeService {
	return &costumeService{store: store}
}

func (s *costumeService) ListCostumes(ctx context.Context, f domain.CostumeFilter, page, pageSize int32) ([]domain.Costume, int32, error) {
	return s.store.Repos().Costumes.List(ctx, f, page, pageSize)
}

func (s *costumeService) GetCostume(ctx context.Context, id int64) (*domain.Costume, error) {
	return s.store.Repos().Costumes.GetByID(ctx, id)
}

func (s *costumeService) TopRented(ctx context.Context, limit int32) ([]domain.Costume, error) {
	return s.store.Repos().Costumes.TopRented(ctx, limit)
}

func (s *costumeService) CreateCostume(ctx context.Context, actor domain.Actor, c *domain.Costume) error {
	if !actor.IsAdmin() {
		return domain.Forbiddenf("admin role required")
	}
	if c.Name == "" {
		return domain.Validationf("costume name is required")
	}
	if c.DailyPrice <= 0 {
		return domain.Validationf("daily_price must be positive")
	}
	if c.DepositAmount < 0 || c.OriginalValue < 0 {
		return domain.Validationf("deposit_amount and original_value cannot be negative")
	}
	if c.TotalQuantity <= 0 {
		return domain.Validationf("total_quantity must be positive")
	}
	if c.Status == "" {
		c.Status = domain.CostumeStatusAvailable
	}

	if err := s.store.Repos().Costumes.Create(ctx, c); err != nil {
		return err
	}
	logger.Info("costume created", "costume_id", c.ID, "name", c.Name)
	return nil
}

func (s *costumeService) UpdateCostume(ctx context.Context, actor domain.Actor, id int64, upd domain.CostumeUpdate) error {
	if !actor.IsAdmin() {
		return domain.Forbiddenf("admin role required")
	}
	if upd.Empty() {
		return domain.Validationf("no fields to update")
	}
	if upd.DailyPrice != nil && *upd.DailyPrice <= 0 {
		return domain.Validationf("daily_price must be positive")
	}
	if upd.DepositAmount != nil && *upd.DepositAmount < 0 {
		return domain.Validationf("deposit_amount cannot be negative")
	}
	if upd.TotalQuantity != nil && *upd.TotalQuantity <= 0 {
		return domain.Validationf("total_quantity must be positive")
	}
	if upd.Status != nil && *upd.Status == domain.CostumeStatusDeleted {
		return domain.Validationf("use delete to remove a costume")
	}
	return s.store.Repos().Costumes.Update(ctx, id, upd)
}

func (s *costumeService) DeleteCostume(ctx context.Context, actor domain.Actor, id int64) error {
	if !actor.IsAdmin() {
		return domain.Forbiddenf("admin role required")
	}
	if err := s.store.Repos().Costumes.SoftDelete(ctx, id); err != nil {
		return err
	}
	logger.Info("costume deleted", "costume_id", id)
	return nil
}
