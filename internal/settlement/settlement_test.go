package settlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"costume-rental-backend/internal/domain"
)

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func i64(v int64) *int64 { return &v }

func lateRule(calc domain.CalculationType, value float64, min, max *int64) domain.PenaltyRule {
	return domain.PenaltyRule{
		PenaltyType:     domain.PenaltyTypeLate,
		CalculationType: calc,
		Value:           value,
		MinAmount:       min,
		MaxAmount:       max,
		Status:          domain.RuleStatusActive,
	}
}

func TestOverdueDays(t *testing.T) {
	due := day("2024-01-10")

	assert.Equal(t, int32(0), OverdueDays(day("2024-01-10"), due))
	assert.Equal(t, int32(0), OverdueDays(day("2024-01-08"), due))
	assert.Equal(t, int32(1), OverdueDays(day("2024-01-11"), due))
	assert.Equal(t, int32(3), OverdueDays(day("2024-01-13"), due))
	// A partial day counts as a full one.
	assert.Equal(t, int32(1), OverdueDays(due.Add(2*time.Hour), due))
	assert.Equal(t, int32(2), OverdueDays(due.Add(25*time.Hour), due))
}

func TestLateFeeMonotonicityAndClamp(t *testing.T) {
	rules := []domain.PenaltyRule{lateRule(domain.CalcDailyRate, 50000, i64(0), i64(500000))}

	assert.Equal(t, int64(150000), lateFee(rules, 3, 3, 100000))
	assert.Equal(t, int64(500000), lateFee(rules, 20, 3, 100000))
}

func TestLateFeePercentage(t *testing.T) {
	rules := []domain.PenaltyRule{lateRule(domain.CalcPercentage, 10, nil, nil)}

	// 10% of rental_days * daily_price, independent of how late.
	assert.Equal(t, int64(30000), lateFee(rules, 5, 3, 100000))
}

func TestLateFeeSumsAcrossRules(t *testing.T) {
	rules := []domain.PenaltyRule{
		lateRule(domain.CalcDailyRate, 50000, nil, nil),
		lateRule(domain.CalcPercentage, 10, nil, nil),
	}
	assert.Equal(t, int64(100000+30000), lateFee(rules, 2, 3, 100000))
}

func TestLateFeeMinClampRaises(t *testing.T) {
	rules := []domain.PenaltyRule{lateRule(domain.CalcDailyRate, 10000, i64(100000), nil)}
	assert.Equal(t, int64(100000), lateFee(rules, 1, 3, 100000))
}

func TestDamageFee(t *testing.T) {
	t.Run("Fixed", func(t *testing.T) {
		rules := []domain.PenaltyRule{{CalculationType: domain.CalcFixed, Value: 200000, Status: domain.RuleStatusActive}}
		assert.Equal(t, int64(200000), damageFee(rules, 1000000))
	})

	t.Run("Percentage", func(t *testing.T) {
		rules := []domain.PenaltyRule{{CalculationType: domain.CalcPercentage, Value: 30, Status: domain.RuleStatusActive}}
		assert.Equal(t, int64(300000), damageFee(rules, 1000000))
	})

	t.Run("ByValue", func(t *testing.T) {
		rules := []domain.PenaltyRule{{CalculationType: domain.CalcByValue, Value: 0.5, Status: domain.RuleStatusActive}}
		assert.Equal(t, int64(500000), damageFee(rules, 1000000))
	})
}

func TestLostFeeDefaultAndReplacement(t *testing.T) {
	t.Run("NoRuleChargesBaseValue", func(t *testing.T) {
		assert.Equal(t, int64(1000000), lostFee(nil, 1000000))
	})

	t.Run("FixedRuleReplacesDefault", func(t *testing.T) {
		rules := []domain.PenaltyRule{{CalculationType: domain.CalcFixed, Value: 800000}}
		assert.Equal(t, int64(800000), lostFee(rules, 1000000))
	})

	t.Run("PercentageRuleReplacesDefault", func(t *testing.T) {
		rules := []domain.PenaltyRule{{CalculationType: domain.CalcPercentage, Value: 120}}
		assert.Equal(t, int64(1200000), lostFee(rules, 1000000))
	})
}

func TestBaseValueFallback(t *testing.T) {
	withValue := domain.RentalItem{OriginalValue: 900000, DepositAmount: 300000}
	withoutValue := domain.RentalItem{DepositAmount: 300000}

	assert.Equal(t, int64(900000), baseValue(withValue))
	assert.Equal(t, int64(600000), baseValue(withoutValue))
}

func TestSettleIdentity(t *testing.T) {
	items := []domain.RentalItem{
		{ID: 1, CostumeID: 10, Quantity: 1, DailyPrice: 100000, DepositAmount: 300000, OriginalValue: 1000000},
	}
	rules := NewRuleSet([]domain.PenaltyRule{
		lateRule(domain.CalcDailyRate, 50000, nil, nil),
	})

	t.Run("FineBelowDeposit", func(t *testing.T) {
		res, err := Settle(items,
			[]ItemCondition{{ItemID: 1, Condition: domain.ReturnConditionGood}},
			rules, 3, day("2024-01-04"), day("2024-01-06"), 300000, 0)
		assert.NoError(t, err)
		assert.Equal(t, int32(2), res.OverdueDays)
		assert.Equal(t, int64(100000), res.TotalLateFee)
		assert.Equal(t, int64(100000), res.TotalFine)
		assert.Equal(t, int64(200000), res.DepositRefund)
		assert.Equal(t, int64(0), res.AdditionalCharge)
	})

	t.Run("FineAboveDeposit", func(t *testing.T) {
		res, err := Settle(items,
			[]ItemCondition{{ItemID: 1, Condition: domain.ReturnConditionGood}},
			rules, 3, day("2024-01-04"), day("2024-01-14"), 300000, 0)
		assert.NoError(t, err)
		assert.Equal(t, int64(500000), res.TotalFine)
		assert.Equal(t, int64(0), res.DepositRefund)
		assert.Equal(t, int64(200000), res.AdditionalCharge)
	})

	t.Run("FineEqualsDeposit", func(t *testing.T) {
		res, err := Settle(items,
			[]ItemCondition{{ItemID: 1, Condition: domain.ReturnConditionGood}},
			rules, 3, day("2024-01-04"), day("2024-01-10"), 300000, 0)
		assert.NoError(t, err)
		assert.Equal(t, int64(300000), res.TotalFine)
		assert.Equal(t, int64(0), res.DepositRefund)
		assert.Equal(t, int64(0), res.AdditionalCharge)
	})
}

func TestSettleIncludesOtherFees(t *testing.T) {
	items := []domain.RentalItem{
		{ID: 1, CostumeID: 10, Quantity: 1, DailyPrice: 100000, DepositAmount: 300000},
	}
	res, err := Settle(items,
		[]ItemCondition{{ItemID: 1, Condition: domain.ReturnConditionGood}},
		RuleSet{}, 3, day("2024-01-04"), day("2024-01-04"), 300000, 50000)
	assert.NoError(t, err)
	assert.Equal(t, int64(50000), res.TotalFine)
	assert.Equal(t, int64(250000), res.DepositRefund)
}

func TestSettleLostItem(t *testing.T) {
	items := []domain.RentalItem{
		{ID: 1, CostumeID: 10, Quantity: 1, DailyPrice: 100000, DepositAmount: 300000, OriginalValue: 1000000},
		{ID: 2, CostumeID: 11, Quantity: 2, DailyPrice: 50000, DepositAmount: 100000, OriginalValue: 400000},
	}
	res, err := Settle(items,
		[]ItemCondition{
			{ItemID: 1, Condition: domain.ReturnConditionLost},
			{ItemID: 2, Condition: domain.ReturnConditionGood},
		},
		RuleSet{}, 3, day("2024-01-04"), day("2024-01-04"), 500000, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(1000000), res.TotalDamageFee)
	assert.Equal(t, int64(1000000), res.TotalFine)
	assert.Equal(t, int64(0), res.DepositRefund)
	assert.Equal(t, int64(500000), res.AdditionalCharge)

	assert.Equal(t, domain.ReturnConditionLost, res.Items[0].Condition)
	assert.Equal(t, int64(1000000), res.Items[0].DamageFee)
	assert.Equal(t, int64(0), res.Items[1].DamageFee)
}

func TestSettleMissingCondition(t *testing.T) {
	items := []domain.RentalItem{
		{ID: 1, CostumeID: 10, Quantity: 1},
		{ID: 2, CostumeID: 11, Quantity: 1},
	}
	_, err := Settle(items,
		[]ItemCondition{{ItemID: 1, Condition: domain.ReturnConditionGood}},
		RuleSet{}, 3, day("2024-01-04"), day("2024-01-04"), 0, 0)
	assert.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestSettleInvalidCondition(t *testing.T) {
	items := []domain.RentalItem{{ID: 1, CostumeID: 10, Quantity: 1}}
	_, err := Settle(items,
		[]ItemCondition{{ItemID: 1, Condition: "shredded"}},
		RuleSet{}, 3, day("2024-01-04"), day("2024-01-04"), 0, 0)
	assert.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestNewRuleSetSkipsInactive(t *testing.T) {
	rs := NewRuleSet([]domain.PenaltyRule{
		{PenaltyType: domain.PenaltyTypeLate, Status: domain.RuleStatusActive},
		{PenaltyType: domain.PenaltyTypeLate, Status: domain.RuleStatusInactive},
		{PenaltyType: domain.PenaltyTypeLost, Status: domain.RuleStatusActive},
	})
	assert.Len(t, rs.Late, 1)
	assert.Len(t, rs.Lost, 1)
	assert.Empty(t, rs.DamageMinor)
}
