package domain

import "time"

type PenaltyType string

const (
	PenaltyTypeLate        PenaltyType = "late"
	PenaltyTypeDamageMinor PenaltyType = "damage_minor"
	PenaltyTypeDamageMajor PenaltyType = "damage_major"
	PenaltyTypeLost        PenaltyType = "lost"
)

func ValidPenaltyType(t PenaltyType) bool {
	switch t {
	case PenaltyTypeLate, PenaltyTypeDamageMinor, PenaltyTypeDamageMajor, PenaltyTypeLost:
		return true
	}
	return false
}

// CalculationType is the closed set of fee formulas a rule can use.
type CalculationType string

const (
	// CalcFixed charges Value directly (per overdue day for late rules).
	CalcFixed CalculationType = "fixed"
	// CalcDailyRate charges Value per overdue day.
	CalcDailyRate CalculationType = "daily_rate"
	// CalcPercentage charges Value percent of the rule's base amount.
	CalcPercentage CalculationType = "percentage"
	// CalcByValue charges Value times the item's original value.
	CalcByValue CalculationType = "by_value"
)

func ValidCalculationType(t CalculationType) bool {
	switch t {
	case CalcFixed, CalcDailyRate, CalcPercentage, CalcByValue:
		return true
	}
	return false
}

type RuleStatus string

const (
	RuleStatusActive   RuleStatus = "active"
	RuleStatusInactive RuleStatus = "inactive"
)

// PenaltyRule is one configurable fee formula. Several rules may share a
// penalty type; their computed fees are clamped per rule and then summed
// (except lost, where a rule replaces the default). Read-only to the engine;
// edited through the admin surface.
type PenaltyRule struct {
	ID              int64           `json:"id"`
	PenaltyType     PenaltyType     `json:"penalty_type"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	CalculationType CalculationType `json:"calculation_type"`
	Value           float64         `json:"value"`
	MinAmount       *int64          `json:"min_amount,omitempty"`
	MaxAmount       *int64          `json:"max_amount,omitempty"`
	Status          RuleStatus      `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// PenaltyRuleUpdate is a tagged partial update; nil fields are left untouched.
type PenaltyRuleUpdate struct {
	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	CalculationType *CalculationType `json:"calculation_type,omitempty"`
	Value           *float64         `json:"value,omitempty"`
	MinAmount       *int64           `json:"min_amount,omitempty"`
	MaxAmount       *int64           `json:"max_amount,omitempty"`
	Status          *RuleStatus      `json:"status,omitempty"`
}

func (u PenaltyRuleUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.CalculationType == nil &&
		u.Value == nil && u.MinAmount == nil && u.MaxAmount == nil && u.Status == nil
}

// ManualPenaltyType classifies an admin-applied override fee.
type ManualPenaltyType string

const (
	ManualPenaltyLate   ManualPenaltyType = "late"
	ManualPenaltyDamage ManualPenaltyType = "damage"
	ManualPenaltyOther  ManualPenaltyType = "other"
)

func ValidManualPenaltyType(t ManualPenaltyType) bool {
	return t == ManualPenaltyLate || t == ManualPenaltyDamage || t == ManualPenaltyOther
}
