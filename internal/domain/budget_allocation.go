package domain

import (
	"errors"
	"time"
)

var (
	ErrBudgetAllocationNotFound = errors.New("budget allocation not found")
	ErrBudgetAllocationInvalid  = errors.New("budget allocation percentages must be non-negative and total 100")
)

// Default percentage split applied before a household sets its own.
const (
	DefaultNeedsPct       = 50
	DefaultInvestmentsPct = 40
	DefaultWantsPct       = 10
)

// BudgetAllocation is the percentage split of income into the three
// dashboard buckets for one BS (year, month).
type BudgetAllocation struct {
	ID             int32     `json:"id"`
	HouseholdID    int32     `json:"householdId"`
	Year           int       `json:"year"`
	Month          int       `json:"month"`
	NeedsPct       int32     `json:"needsPct"`
	InvestmentsPct int32     `json:"investmentsPct"`
	WantsPct       int32     `json:"wantsPct"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (a *BudgetAllocation) Validate() error {
	if a.NeedsPct < 0 || a.InvestmentsPct < 0 || a.WantsPct < 0 {
		return ErrBudgetAllocationInvalid
	}
	if a.NeedsPct+a.InvestmentsPct+a.WantsPct != 100 {
		return ErrBudgetAllocationInvalid
	}
	return nil
}

// DefaultBudgetAllocation returns the split used when a household has not
// configured one for the period.
func DefaultBudgetAllocation(householdID int32, year, month int) *BudgetAllocation {
	return &BudgetAllocation{
		HouseholdID:    householdID,
		Year:           year,
		Month:          month,
		NeedsPct:       DefaultNeedsPct,
		InvestmentsPct: DefaultInvestmentsPct,
		WantsPct:       DefaultWantsPct,
	}
}

type BudgetAllocationRepository interface {
	Upsert(allocation *BudgetAllocation) (*BudgetAllocation, error)
	GetByMonth(householdID int32, year, month int) (*BudgetAllocation, error)
}
