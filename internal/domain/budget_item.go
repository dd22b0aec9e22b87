package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrBudgetItemNotFound    = errors.New("budget item not found")
	ErrBudgetItemNameEmpty   = errors.New("budget item name is required")
	ErrBudgetItemNameTooLong = errors.New("budget item name must be 200 characters or less")
	ErrBudgetItemKindInvalid = errors.New("invalid budget item kind")
	ErrBudgetItemAmountNeg   = errors.New("budget item amount must not be negative")
)

// BudgetItemKind classifies a line item into the dashboard's buckets.
type BudgetItemKind string

const (
	BudgetItemIncome     BudgetItemKind = "income"
	BudgetItemNeed       BudgetItemKind = "need"
	BudgetItemWant       BudgetItemKind = "want"
	BudgetItemInvestment BudgetItemKind = "investment"
)

// IsValid reports whether k is a known budget item kind.
func (k BudgetItemKind) IsValid() bool {
	switch k {
	case BudgetItemIncome, BudgetItemNeed, BudgetItemWant, BudgetItemInvestment:
		return true
	}
	return false
}

// BudgetItem is a named recurring amount: an income source, a needs
// expense, a want, or a manual investment.
type BudgetItem struct {
	ID          uuid.UUID       `json:"id"`
	HouseholdID int32           `json:"householdId"`
	Kind        BudgetItemKind  `json:"kind"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (b *BudgetItem) Validate() error {
	if b.Name == "" {
		return ErrBudgetItemNameEmpty
	}
	if len(b.Name) > MaxNameLength {
		return ErrBudgetItemNameTooLong
	}
	if !b.Kind.IsValid() {
		return ErrBudgetItemKindInvalid
	}
	if b.Amount.IsNegative() {
		return ErrBudgetItemAmountNeg
	}
	return nil
}

type BudgetItemRepository interface {
	Create(item *BudgetItem) (*BudgetItem, error)
	GetByID(householdID int32, id uuid.UUID) (*BudgetItem, error)
	GetAllByHousehold(householdID int32) ([]*BudgetItem, error)
	GetByKind(householdID int32, kind BudgetItemKind) ([]*BudgetItem, error)
	Update(item *BudgetItem) (*BudgetItem, error)
	Delete(householdID int32, id uuid.UUID) error
}
