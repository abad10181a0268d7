package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository"
)

type penaltyRepository struct {
	db repository.DBTX
}

func NewPenaltyRepository(db repository.DBTX) repository.PenaltyRepository {
	return &penaltyRepository{db: db}
}

const penaltyColumns = `id, penalty_type, name, description, calculation_type, value,
	min_amount, max_amount, status, created_at, updated_at`

func scanPenaltyRule(row interface{ Scan(...any) error }) (*domain.PenaltyRule, error) {
	rule := &domain.PenaltyRule{}
	var minAmount, maxAmount sql.NullInt64
	err := row.Scan(&rule.ID, &rule.PenaltyType, &rule.Name, &rule.Description, &rule.CalculationType, &rule.Value,
		&minAmount, &maxAmount, &rule.Status, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if minAmount.Valid {
		rule.MinAmount = &minAmount.Int64
	}
	if maxAmount.Valid {
		rule.MaxAmount = &maxAmount.Int64
	}
	return rule, nil
}

func (r *penaltyRepository) ListActive(ctx context.Context) ([]domain.PenaltyRule, error) {
	query := `SELECT ` + penaltyColumns + ` FROM penalty_config WHERE status = 'active' ORDER BY penalty_type, id`
	return r.collect(ctx, query)
}

func (r *penaltyRepository) List(ctx context.Context, includeInactive bool) ([]domain.PenaltyRule, error) {
	query := `SELECT ` + penaltyColumns + ` FROM penalty_config`
	if !includeInactive {
		query += ` WHERE status = 'active'`
	}
	query += ` ORDER BY penalty_type, id`
	return r.collect(ctx, query)
}

func (r *penaltyRepository) collect(ctx context.Context, query string, args ...any) ([]domain.PenaltyRule, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("list penalty rules", err)
	}
	defer rows.Close()

	var rules []domain.PenaltyRule
	for rows.Next() {
		rule, err := scanPenaltyRule(rows)
		if err != nil {
			return nil, storageErr("scan penalty rule", err)
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

func (r *penaltyRepository) GetByID(ctx context.Context, id int64) (*domain.PenaltyRule, error) {
	query := `SELECT ` + penaltyColumns + ` FROM penalty_config WHERE id = $1`
	rule, err := scanPenaltyRule(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("penalty rule %d not found", id)
	}
	if err != nil {
		return nil, storageErr("get penalty rule", err)
	}
	return rule, nil
}

func (r *penaltyRepository) Create(ctx context.Context, rule *domain.PenaltyRule) error {
	query := `INSERT INTO penalty_config (penalty_type, name, description, calculation_type, value,
	            min_amount, max_amount, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		rule.PenaltyType, rule.Name, rule.Description, rule.CalculationType, rule.Value,
		rule.MinAmount, rule.MaxAmount, rule.Status, now).Scan(&rule.ID)
	if err != nil {
		return storageErr("insert penalty rule", err)
	}
	return nil
}

func (r *penaltyRepository) Update(ctx context.Context, id int64, upd domain.PenaltyRuleUpdate) error {
	if upd.Empty() {
		return domain.Validationf("no fields to update")
	}

	set := []string{}
	args := []any{}
	idx := 1
	add := func(col string, val any) {
		set = append(set, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.CalculationType != nil {
		add("calculation_type", *upd.CalculationType)
	}
	if upd.Value != nil {
		add("value", *upd.Value)
	}
	if upd.MinAmount != nil {
		add("min_amount", *upd.MinAmount)
	}
	if upd.MaxAmount != nil {
		add("max_amount", *upd.MaxAmount)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	set = append(set, "updated_at = NOW()")

	query := "UPDATE penalty_config SET " + strings.Join(set, ", ") + fmt.Sprintf(" WHERE id = $%d", idx)
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return storageErr("update penalty rule", err)
	}
	return requireRow(res, "penalty rule %d not found", id)
}

func (r *penaltyRepository) Deactivate(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE penalty_config SET status = 'inactive', updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return storageErr("deactivate penalty rule", err)
	}
	return requireRow(res, "penalty rule %d not found", id)
}
