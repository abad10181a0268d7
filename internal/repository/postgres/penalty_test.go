package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"costume-rental-backend/internal/domain"
	"costume-rental-backend/internal/repository/postgres"
)

var penaltyCols = []string{
	"id", "penalty_type", "name", "description", "calculation_type", "value",
	"min_amount", "max_amount", "status", "created_at", "updated_at",
}

func TestPenaltyRepository_ListActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewPenaltyRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows(penaltyCols).
			AddRow(1, "late", "Late fee", "", "daily_rate", 50000.0, nil, 500000, "active", now, now).
			AddRow(2, "damage_minor", "Minor damage", "", "percentage", 10.0, nil, nil, "active", now, now)

		mock.ExpectQuery("SELECT (.+) FROM penalty_config WHERE status = 'active'").
			WillReturnRows(rows)

		rules, err := repo.ListActive(ctx)
		assert.NoError(t, err)
		assert.Len(t, rules, 2)
		assert.Nil(t, rules[0].MinAmount)
		if assert.NotNil(t, rules[0].MaxAmount) {
			assert.Equal(t, int64(500000), *rules[0].MaxAmount)
		}
		assert.Nil(t, rules[1].MaxAmount)
	})
}

func TestPenaltyRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewPenaltyRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		max := int64(500000)
		rule := &domain.PenaltyRule{
			PenaltyType:     domain.PenaltyTypeLate,
			Name:            "Late fee",
			CalculationType: domain.CalcDailyRate,
			Value:           50000,
			MaxAmount:       &max,
			Status:          domain.RuleStatusActive,
		}

		mock.ExpectQuery("INSERT INTO penalty_config").
			WithArgs(rule.PenaltyType, rule.Name, rule.Description, rule.CalculationType, rule.Value,
				rule.MinAmount, rule.MaxAmount, rule.Status, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

		err := repo.Create(ctx, rule)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), rule.ID)
	})
}

func TestPenaltyRepository_Deactivate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewPenaltyRepository(db)
	ctx := context.Background()

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("UPDATE penalty_config SET status = 'inactive'").
			WithArgs(int64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Deactivate(ctx, 404)
		assert.True(t, domain.IsNotFound(err))
	})
}
