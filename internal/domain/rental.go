package domain

import (
	"sort"
	"time"
)

type RentalStatus string

const (
	RentalStatusPending        RentalStatus = "pending"
	RentalStatusConfirmed      RentalStatus = "confirmed"
	RentalStatusOutForDelivery RentalStatus = "out_for_delivery"
	RentalStatusRenting        RentalStatus = "renting"
	RentalStatusOverdue        RentalStatus = "overdue"
	RentalStatusReturned       RentalStatus = "returned"
	RentalStatusCompleted      RentalStatus = "completed"
	RentalStatusCancelled      RentalStatus = "cancelled"
)

type PaymentState string

const (
	PaymentStatePending PaymentState = "pending"
	PaymentStatePaid    PaymentState = "paid"
)

// rentalTransitions is the closed set of legal lifecycle moves. Completed and
// cancelled are terminal.
var rentalTransitions = map[RentalStatus][]RentalStatus{
	RentalStatusPending:        {RentalStatusConfirmed, RentalStatusCancelled},
	RentalStatusConfirmed:      {RentalStatusOutForDelivery, RentalStatusCancelled},
	RentalStatusOutForDelivery: {RentalStatusRenting},
	RentalStatusRenting:        {RentalStatusOverdue, RentalStatusReturned},
	RentalStatusOverdue:        {RentalStatusReturned, RentalStatusCompleted},
	RentalStatusReturned:       {RentalStatusCompleted},
}

// CanTransition reports whether moving from one rental status to another is
// permitted by the lifecycle state machine.
func CanTransition(from, to RentalStatus) bool {
	for _, next := range rentalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s RentalStatus) IsTerminal() bool {
	return len(rentalTransitions[s]) == 0
}

// TransitionSources lists every status from which to is reachable, sorted for
// stable query arguments. Status updates use it as a WHERE guard so a
// transition that raced another writer affects zero rows instead of
// overwriting a state it never observed.
func TransitionSources(to RentalStatus) []RentalStatus {
	var sources []RentalStatus
	for from, nexts := range rentalTransitions {
		for _, next := range nexts {
			if next == to {
				sources = append(sources, from)
			}
		}
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	return sources
}

// Rental is the aggregate root. It owns its RentalItems and is only mutated
// through lifecycle transitions; it is never deleted.
type Rental struct {
	ID         string     `json:"id"`
	UserID     int64      `json:"user_id"`
	TotalItems int32      `json:"total_items"`
	RentalDays int32      `json:"rental_days"`
	StartDate  time.Time  `json:"start_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`

	TotalRentalFee   int64 `json:"total_rental_fee"`
	TotalDeposit     int64 `json:"total_deposit"`
	LateFee          int64 `json:"late_fee"`
	DamageFee        int64 `json:"damage_fee"`
	OtherFees        int64 `json:"other_fees"`
	TotalFine        int64 `json:"total_fine"`
	TotalAmountPaid  int64 `json:"total_amount_paid"`
	DepositRefund    int64 `json:"deposit_refund"`
	AdditionalCharge int64 `json:"additional_charge"`

	PaymentStatus PaymentState `json:"payment_status"`
	RentalStatus  RentalStatus `json:"rental_status"`
	PaymentMethod string       `json:"payment_method"`
	AdminNotes    string       `json:"admin_notes,omitempty"`
	PaidAt        *time.Time   `json:"paid_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

type ReturnCondition string

const (
	ReturnConditionUnset       ReturnCondition = ""
	ReturnConditionGood        ReturnCondition = "good"
	ReturnConditionMinorDamage ReturnCondition = "minor_damage"
	ReturnConditionMajorDamage ReturnCondition = "major_damage"
	ReturnConditionLost        ReturnCondition = "lost"
)

// ValidReturnCondition reports whether c is one of the reportable conditions.
func ValidReturnCondition(c ReturnCondition) bool {
	switch c {
	case ReturnConditionGood, ReturnConditionMinorDamage, ReturnConditionMajorDamage, ReturnConditionLost:
		return true
	}
	return false
}

// RentalItem is one line of a rental.
// DailyPrice and DepositAmount are snapshots captured from the costume at
// booking time; catalog price changes never alter an existing rental.
// CostumeName and OriginalValue are joined in from the costume for display and
// settlement; they are not columns of rental_items.
type RentalItem struct {
	ID                int64           `json:"id"`
	RentalID          string          `json:"rental_id"`
	CostumeID         int64           `json:"costume_id"`
	Quantity          int32           `json:"quantity"`
	DailyPrice        int64           `json:"daily_price"`
	DepositAmount     int64           `json:"deposit_amount"`
	RentalFee         int64           `json:"rental_fee"`
	ItemDeposit       int64           `json:"item_deposit"`
	ReturnCondition   ReturnCondition `json:"return_condition"`
	DamageDescription string          `json:"damage_description,omitempty"`
	LateFee           int64           `json:"late_fee"`
	DamageFee         int64           `json:"damage_fee"`

	CostumeName   string `json:"costume_name,omitempty"`
	OriginalValue int64  `json:"original_value,omitempty"`
}

type RentalFilter struct {
	Status        RentalStatus
	PaymentStatus PaymentState
	Search        string
}

// DepositRecord is one row of the admin deposit history report.
type DepositRecord struct {
	RentalID      string     `json:"rental_id"`
	UserID        int64      `json:"user_id"`
	TotalDeposit  int64      `json:"total_deposit"`
	DepositRefund int64      `json:"deposit_refund"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// DateLayout is the wire format for all date-only values.
const DateLayout = "2006-01-02"
