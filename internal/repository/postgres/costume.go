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

type costumeRepository struct {
	db repository.DBTX
}

func NewCostumeRepository(db repository.DBTX) repository.CostumeRepository {
	return &costumeRepository{db: db}
}

const costumeColumns = `id, name, description, brand, size, color, item_condition,
	daily_price, deposit_amount, original_value, total_quantity, available_quantity,
	rental_count, status, created_at, updated_at`

func scanCostume(row interface{ Scan(...any) error }) (*domain.Costume, error) {
	c := &domain.Costume{}
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Brand, &c.Size, &c.Color, &c.ItemCondition,
		&c.DailyPrice, &c.DepositAmount, &c.OriginalValue, &c.TotalQuantity, &c.AvailableQuantity,
		&c.RentalCount, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *costumeRepository) Create(ctx context.Context, c *domain.Costume) error {
	query := `INSERT INTO costumes (name, description, brand, size, color, item_condition,
	            daily_price, deposit_amount, original_value, total_quantity, available_quantity,
	            status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10, $11, $12, $12) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, c.Name, c.Description, c.Brand, c.Size, c.Color, c.ItemCondition,
		c.DailyPrice, c.DepositAmount, c.OriginalValue, c.TotalQuantity, c.Status, now).Scan(&c.ID)
	if err != nil {
		return storageErr("insert costume", err)
	}
	c.AvailableQuantity = c.TotalQuantity
	return nil
}

func (r *costumeRepository) GetByID(ctx context.Context, id int64) (*domain.Costume, error) {
	query := `SELECT ` + costumeColumns + ` FROM costumes WHERE id = $1 AND status <> 'deleted'`
	c, err := scanCostume(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("costume %d not found", id)
	}
	if err != nil {
		return nil, storageErr("get costume", err)
	}
	return c, nil
}

// Reserve locks the costume row for the duration of the enclosing transaction,
// verifies availability and decrements it. The locked snapshot is returned so
// the caller can capture the price fields that were actually charged.
func (r *costumeRepository) Reserve(ctx context.Context, costumeID int64, qty int32) (*domain.Costume, error) {
	query := `SELECT ` + costumeColumns + ` FROM costumes WHERE id = $1 AND status <> 'deleted' FOR UPDATE`
	c, err := scanCostume(r.db.QueryRowContext(ctx, query, costumeID))
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("costume %d not found", costumeID)
	}
	if err != nil {
		return nil, storageErr("lock costume", err)
	}

	if c.AvailableQuantity < qty {
		return nil, domain.InsufficientStockf("costume %q has only %d of %d requested", c.Name, c.AvailableQuantity, qty)
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE costumes SET available_quantity = available_quantity - $1, updated_at = NOW() WHERE id = $2`,
		qty, costumeID)
	if err != nil {
		return nil, storageErr("reserve costume", err)
	}
	c.AvailableQuantity -= qty
	return c, nil
}

// Release returns quantity to the pool, never exceeding total_quantity, and
// counts one completed rental cycle for popularity ranking.
func (r *costumeRepository) Release(ctx context.Context, costumeID int64, qty int32) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE costumes
		 SET available_quantity = LEAST(total_quantity, available_quantity + $1),
		     rental_count = rental_count + 1,
		     updated_at = NOW()
		 WHERE id = $2`,
		qty, costumeID)
	if err != nil {
		return storageErr("release costume", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("release costume", err)
	}
	if n == 0 {
		return domain.NotFoundf("costume %d not found", costumeID)
	}
	return nil
}

func (r *costumeRepository) List(ctx context.Context, f domain.CostumeFilter, page, pageSize int32) ([]domain.Costume, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := `SELECT ` + costumeColumns + ` FROM costumes WHERE status <> 'deleted'`
	args := []any{}
	idx := 1

	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}
	if f.AvailableOnly {
		query += " AND available_quantity > 0"
	}
	if f.MinPrice > 0 {
		query += fmt.Sprintf(" AND daily_price >= $%d", idx)
		args = append(args, f.MinPrice)
		idx++
	}
	if f.MaxPrice > 0 {
		query += fmt.Sprintf(" AND daily_price <= $%d", idx)
		args = append(args, f.MaxPrice)
		idx++
	}
	if f.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d OR brand ILIKE $%d)", idx, idx, idx)
		args = append(args, "%"+f.Search+"%")
		idx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, storageErr("count costumes", err)
	}

	sortMap := map[domain.CostumeSort]string{
		domain.CostumeSortNewest:    "created_at DESC",
		domain.CostumeSortPriceAsc:  "daily_price ASC",
		domain.CostumeSortPriceDesc: "daily_price DESC",
		domain.CostumeSortPopular:   "rental_count DESC",
		domain.CostumeSortNameAsc:   "name ASC",
	}
	order, ok := sortMap[f.SortBy]
	if !ok {
		order = "created_at DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", order, idx, idx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, storageErr("list costumes", err)
	}
	defer rows.Close()

	var costumes []domain.Costume
	for rows.Next() {
		c, err := scanCostume(rows)
		if err != nil {
			return nil, 0, storageErr("scan costume", err)
		}
		costumes = append(costumes, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageErr("iterate costumes", err)
	}
	return costumes, count, nil
}

func (r *costumeRepository) TopRented(ctx context.Context, limit int32) ([]domain.Costume, error) {
	if limit < 1 {
		limit = 10
	}
	query := `SELECT ` + costumeColumns + ` FROM costumes WHERE status <> 'deleted' ORDER BY rental_count DESC, id ASC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, storageErr("top rented costumes", err)
	}
	defer rows.Close()

	var costumes []domain.Costume
	for rows.Next() {
		c, err := scanCostume(rows)
		if err != nil {
			return nil, storageErr("scan costume", err)
		}
		costumes = append(costumes, *c)
	}
	return costumes, rows.Err()
}

// Update applies a tagged partial update. A total_quantity change shifts
// available_quantity by the same delta and refuses to push it negative (units
// out on rental cannot be edited away).
func (r *costumeRepository) Update(ctx context.Context, id int64, upd domain.CostumeUpdate) error {
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
	if upd.Brand != nil {
		add("brand", *upd.Brand)
	}
	if upd.Size != nil {
		add("size", *upd.Size)
	}
	if upd.Color != nil {
		add("color", *upd.Color)
	}
	if upd.ItemCondition != nil {
		add("item_condition", *upd.ItemCondition)
	}
	if upd.DailyPrice != nil {
		add("daily_price", *upd.DailyPrice)
	}
	if upd.DepositAmount != nil {
		add("deposit_amount", *upd.DepositAmount)
	}
	if upd.OriginalValue != nil {
		add("original_value", *upd.OriginalValue)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}

	guard := ""
	if upd.TotalQuantity != nil {
		// Shift availability by the same delta, guarded against going negative.
		set = append(set,
			fmt.Sprintf("available_quantity = available_quantity + ($%d - total_quantity)", idx),
			fmt.Sprintf("total_quantity = $%d", idx))
		guard = fmt.Sprintf(" AND available_quantity + ($%d - total_quantity) >= 0", idx)
		args = append(args, *upd.TotalQuantity)
		idx++
	}
	set = append(set, "updated_at = NOW()")

	query := "UPDATE costumes SET " + strings.Join(set, ", ") +
		fmt.Sprintf(" WHERE id = $%d AND status <> 'deleted'", idx) + guard
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return storageErr("update costume", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("update costume", err)
	}
	if n == 0 {
		if upd.TotalQuantity != nil {
			return domain.Conflictf("costume %d not found or quantity change would exceed units out on rental", id)
		}
		return domain.NotFoundf("costume %d not found", id)
	}
	return nil
}

func (r *costumeRepository) SoftDelete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE costumes SET status = 'deleted', updated_at = NOW() WHERE id = $1 AND status <> 'deleted'`, id)
	if err != nil {
		return storageErr("delete costume", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete costume", err)
	}
	if n == 0 {
		return domain.NotFoundf("costume %d not found", id)
	}
	return nil
}
