package domain

import "time"

type CostumeStatus string

const (
	CostumeStatusAvailable   CostumeStatus = "available"
	CostumeStatusUnavailable CostumeStatus = "unavailable"
	CostumeStatusDeleted     CostumeStatus = "deleted"
)

// Costume is one inventory unit. AvailableQuantity is owned by the inventory
// ledger (reserve/release) and the guarded quantity update; all monetary
// amounts are whole VND.
type Costume struct {
	ID                int64         `json:"id"`
	Name              string        `json:"name"`
	Description       string        `json:"description"`
	Brand             string        `json:"brand"`
	Size              string        `json:"size"`
	Color             string        `json:"color"`
	ItemCondition     string        `json:"item_condition"`
	DailyPrice        int64         `json:"daily_price"`
	DepositAmount     int64         `json:"deposit_amount"`
	OriginalValue     int64         `json:"original_value"`
	TotalQuantity     int32         `json:"total_quantity"`
	AvailableQuantity int32         `json:"available_quantity"`
	RentalCount       int64         `json:"rental_count"`
	Status            CostumeStatus `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// CostumeUpdate is a tagged partial update; nil fields are left untouched.
// Unknown fields are rejected at the API boundary, never merged blindly.
type CostumeUpdate struct {
	Name          *string        `json:"name,omitempty"`
	Description   *string        `json:"description,omitempty"`
	Brand         *string        `json:"brand,omitempty"`
	Size          *string        `json:"size,omitempty"`
	Color         *string        `json:"color,omitempty"`
	ItemCondition *string        `json:"item_condition,omitempty"`
	DailyPrice    *int64         `json:"daily_price,omitempty"`
	DepositAmount *int64         `json:"deposit_amount,omitempty"`
	OriginalValue *int64         `json:"original_value,omitempty"`
	TotalQuantity *int32         `json:"total_quantity,omitempty"`
	Status        *CostumeStatus `json:"status,omitempty"`
}

// Empty reports whether the update carries no changes.
func (u CostumeUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Brand == nil &&
		u.Size == nil && u.Color == nil && u.ItemCondition == nil &&
		u.DailyPrice == nil && u.DepositAmount == nil && u.OriginalValue == nil &&
		u.TotalQuantity == nil && u.Status == nil
}

type CostumeSort string

const (
	CostumeSortNewest    CostumeSort = "newest"
	CostumeSortPriceAsc  CostumeSort = "price_asc"
	CostumeSortPriceDesc CostumeSort = "price_desc"
	CostumeSortPopular   CostumeSort = "popular"
	CostumeSortNameAsc   CostumeSort = "name_asc"
)

type CostumeFilter struct {
	Status        CostumeStatus
	AvailableOnly bool
	MinPrice      int64
	MaxPrice      int64
	Search        string
	SortBy        CostumeSort
}
