// Package settlement computes end-of-rental fees. It is pure: callers feed it
// the rental's line items, the reported return conditions and the active
// penalty rules; persistence and inventory release stay with the caller.
package settlement

import (
	"math"
	"time"

	"costume-rental-backend/internal/domain"
)

// RuleSet is the active penalty rules grouped by type.
type RuleSet struct {
	Late        []domain.PenaltyRule
	DamageMinor []domain.PenaltyRule
	DamageMajor []domain.PenaltyRule
	Lost        []domain.PenaltyRule
}

// NewRuleSet groups rules by penalty type, keeping only active ones.
func NewRuleSet(rules []domain.PenaltyRule) RuleSet {
	var rs RuleSet
	for _, rule := range rules {
		if rule.Status != domain.RuleStatusActive {
			continue
		}
		switch rule.PenaltyType {
		case domain.PenaltyTypeLate:
			rs.Late = append(rs.Late, rule)
		case domain.PenaltyTypeDamageMinor:
			rs.DamageMinor = append(rs.DamageMinor, rule)
		case domain.PenaltyTypeDamageMajor:
			rs.DamageMajor = append(rs.DamageMajor, rule)
		case domain.PenaltyTypeLost:
			rs.Lost = append(rs.Lost, rule)
		}
	}
	return rs
}

// OverdueDays is the number of started 24h periods between due and return.
// Zero when the return is on time.
func OverdueDays(returnDate, dueDate time.Time) int32 {
	if !returnDate.After(dueDate) {
		return 0
	}
	hours := returnDate.Sub(dueDate).Hours()
	return int32(math.Ceil(hours / 24))
}

// ItemCondition is one reported return condition, keyed by rental item id.
type ItemCondition struct {
	ItemID      int64
	Condition   domain.ReturnCondition
	Description string
}

// ItemResult is the settlement outcome for one line item. DamageFee carries
// damage and lost fees alike; the distinction only matters for release, which
// the caller reads off Condition.
type ItemResult struct {
	ItemID    int64
	CostumeID int64
	Quantity  int32
	Condition domain.ReturnCondition
	LateFee   int64
	DamageFee int64
}

// Result is the four rental-level settlement numbers plus the per-item
// breakdown. Exactly one of DepositRefund and AdditionalCharge is nonzero
// unless the fine equals the deposit, in which case both are zero.
type Result struct {
	OverdueDays      int32
	TotalLateFee     int64
	TotalDamageFee   int64
	TotalFine        int64
	DepositRefund    int64
	AdditionalCharge int64
	Items            []ItemResult
}

// Settle computes fees for every line item. Every item must have a reported
// condition; otherFees is the rental's accumulated manual penalties, included
// in the fine before the deposit split.
func Settle(items []domain.RentalItem, conditions []ItemCondition, rules RuleSet,
	rentalDays int32, dueDate, returnDate time.Time, totalDeposit, otherFees int64) (*Result, error) {

	condByItem := make(map[int64]ItemCondition, len(conditions))
	for _, c := range conditions {
		if !domain.ValidReturnCondition(c.Condition) {
			return nil, domain.Validationf("invalid return condition %q for item %d", c.Condition, c.ItemID)
		}
		condByItem[c.ItemID] = c
	}

	days := OverdueDays(returnDate, dueDate)
	res := &Result{OverdueDays: days}

	for _, item := range items {
		cond, ok := condByItem[item.ID]
		if !ok {
			return nil, domain.Validationf("missing return condition for item %d", item.ID)
		}

		ir := ItemResult{
			ItemID:    item.ID,
			CostumeID: item.CostumeID,
			Quantity:  item.Quantity,
			Condition: cond.Condition,
		}

		if days > 0 {
			ir.LateFee = lateFee(rules.Late, days, rentalDays, item.DailyPrice)
		}

		switch cond.Condition {
		case domain.ReturnConditionMinorDamage:
			ir.DamageFee = damageFee(rules.DamageMinor, baseValue(item))
		case domain.ReturnConditionMajorDamage:
			ir.DamageFee = damageFee(rules.DamageMajor, baseValue(item))
		case domain.ReturnConditionLost:
			ir.DamageFee = lostFee(rules.Lost, baseValue(item))
		}

		res.TotalLateFee += ir.LateFee
		res.TotalDamageFee += ir.DamageFee
		res.Items = append(res.Items, ir)
	}

	res.TotalFine = res.TotalLateFee + res.TotalDamageFee + otherFees
	if res.TotalFine <= totalDeposit {
		res.DepositRefund = totalDeposit - res.TotalFine
	} else {
		res.AdditionalCharge = res.TotalFine - totalDeposit
	}
	return res, nil
}

// baseValue is the amount damage and loss charges are computed against:
// the item's original value, or twice its deposit when that value is unset.
func baseValue(item domain.RentalItem) int64 {
	if item.OriginalValue > 0 {
		return item.OriginalValue
	}
	return item.DepositAmount * 2
}

func lateFee(rules []domain.PenaltyRule, overdueDays, rentalDays int32, dailyPrice int64) int64 {
	var total int64
	for _, rule := range rules {
		var fee int64
		switch rule.CalculationType {
		case domain.CalcFixed, domain.CalcDailyRate:
			fee = roundMoney(rule.Value * float64(overdueDays))
		case domain.CalcPercentage:
			fee = roundMoney(float64(rentalDays) * float64(dailyPrice) * rule.Value / 100)
		default:
			continue
		}
		total += clamp(fee, rule.MinAmount, rule.MaxAmount)
	}
	return total
}

func damageFee(rules []domain.PenaltyRule, base int64) int64 {
	var total int64
	for _, rule := range rules {
		var fee int64
		switch rule.CalculationType {
		case domain.CalcFixed:
			fee = roundMoney(rule.Value)
		case domain.CalcPercentage:
			fee = roundMoney(float64(base) * rule.Value / 100)
		case domain.CalcByValue:
			fee = roundMoney(float64(base) * rule.Value)
		default:
			continue
		}
		total += clamp(fee, rule.MinAmount, rule.MaxAmount)
	}
	return total
}

// lostFee defaults to the item's base value. A configured lost rule replaces
// the default instead of adding to it.
func lostFee(rules []domain.PenaltyRule, base int64) int64 {
	if len(rules) == 0 {
		return base
	}
	var total int64
	replaced := false
	for _, rule := range rules {
		var fee int64
		switch rule.CalculationType {
		case domain.CalcFixed:
			fee = roundMoney(rule.Value)
		case domain.CalcPercentage:
			fee = roundMoney(float64(base) * rule.Value / 100)
		case domain.CalcByValue:
			fee = roundMoney(float64(base) * rule.Value)
		default:
			continue
		}
		total += clamp(fee, rule.MinAmount, rule.MaxAmount)
		replaced = true
	}
	if !replaced {
		return base
	}
	return total
}

func clamp(fee int64, min, max *int64) int64 {
	if min != nil && fee < *min {
		fee = *min
	}
	if max != nil && fee > *max {
		fee = *max
	}
	return fee
}

// roundMoney rounds a computed fee to a whole currency unit, half away from
// zero, matching how admins expect percentages to land.
func roundMoney(v float64) int64 {
	return int64(math.Round(v))
}
