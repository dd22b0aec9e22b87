package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rsubedi/hisab/hisab-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// BudgetService handles budget items and the percentage allocation split
type BudgetService struct {
	itemRepo       domain.BudgetItemRepository
	allocationRepo domain.BudgetAllocationRepository
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(itemRepo domain.BudgetItemRepository, allocationRepo domain.BudgetAllocationRepository) *BudgetService {
	return &BudgetService{
		itemRepo:       itemRepo,
		allocationRepo: allocationRepo,
	}
}

// CreateItemInput contains input for creating a budget item
type CreateItemInput struct {
	Kind   domain.BudgetItemKind
	Name   string
	Amount decimal.Decimal
}

// CreateItem creates a budget item
func (s *BudgetService) CreateItem(householdID int32, input CreateItemInput) (*domain.BudgetItem, error) {
	item := &domain.BudgetItem{
		ID:          uuid.New(),
		HouseholdID: householdID,
		Kind:        input.Kind,
		Name:        strings.TrimSpace(input.Name),
		Amount:      input.Amount,
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return s.itemRepo.Create(item)
}

// UpdateItemInput contains input for updating a budget item
type UpdateItemInput struct {
	Name   string
	Amount decimal.Decimal
}

// UpdateItem updates a budget item's name and amount. Kind is fixed at
// creation.
func (s *BudgetService) UpdateItem(householdID int32, id uuid.UUID, input UpdateItemInput) (*domain.BudgetItem, error) {
	item, err := s.itemRepo.GetByID(householdID, id)
	if err != nil {
		return nil, err
	}

	item.Name = strings.TrimSpace(input.Name)
	item.Amount = input.Amount

	if err := item.Validate(); err != nil {
		return nil, err
	}

	return s.itemRepo.Update(item)
}

// DeleteItem removes a budget item
func (s *BudgetService) DeleteItem(householdID int32, id uuid.UUID) error {
	if _, err := s.itemRepo.GetByID(householdID, id); err != nil {
		return err
	}
	return s.itemRepo.Delete(householdID, id)
}

// GetItems retrieves all budget items for a household
func (s *BudgetService) GetItems(householdID int32) ([]*domain.BudgetItem, error) {
	return s.itemRepo.GetAllByHousehold(householdID)
}

// GetItemsByKind retrieves the household's budget items of one kind
func (s *BudgetService) GetItemsByKind(householdID int32, kind domain.BudgetItemKind) ([]*domain.BudgetItem, error) {
	if !kind.IsValid() {
		return nil, domain.ErrBudgetItemKindInvalid
	}
	return s.itemRepo.GetByKind(householdID, kind)
}

// GetAllocation returns the household's percentage split for a BS period,
// falling back to the 50/40/10 default when none is stored.
func (s *BudgetService) GetAllocation(householdID int32, year, month int) (*domain.BudgetAllocation, error) {
	allocation, err := s.allocationRepo.GetByMonth(householdID, year, month)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetAllocationNotFound) {
			return domain.DefaultBudgetAllocation(householdID, year, month), nil
		}
		return nil, err
	}
	return allocation, nil
}

// SetAllocationInput contains the percentage split for one period
type SetAllocationInput struct {
	NeedsPct       int32
	InvestmentsPct int32
	WantsPct       int32
}

// SetAllocation stores the percentage split for a BS period. The three
// percentages must total exactly 100.
func (s *BudgetService) SetAllocation(householdID int32, year, month int, input SetAllocationInput) (*domain.BudgetAllocation, error) {
	allocation := &domain.BudgetAllocation{
		HouseholdID:    householdID,
		Year:           year,
		Month:          month,
		NeedsPct:       input.NeedsPct,
		InvestmentsPct: input.InvestmentsPct,
		WantsPct:       input.WantsPct,
	}

	if err := allocation.Validate(); err != nil {
		return nil, err
	}

	return s.allocationRepo.Upsert(allocation)
}
