package testutil

import (
	"github.com/google/uuid"
	"github.com/rsubedi/hisab/hisab-backend/internal/domain"
)

// MockLoanRepository is an in-memory implementation of domain.LoanRepository
type MockLoanRepository struct {
	Loans map[uuid.UUID]*domain.Loan
}

// NewMockLoanRepository creates a new MockLoanRepository
func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{Loans: make(map[uuid.UUID]*domain.Loan)}
}

// Create stores a new loan
func (m *MockLoanRepository) Create(loan *domain.Loan) (*domain.Loan, error) {
	m.Loans[loan.ID] = loan
	return loan, nil
}

// GetByID retrieves a loan by ID within a household
func (m *MockLoanRepository) GetByID(householdID int32, id uuid.UUID) (*domain.Loan, error) {
	loan, ok := m.Loans[id]
	if !ok || loan.HouseholdID != householdID {
		return nil, domain.ErrLoanNotFound
	}
	return loan, nil
}

// GetAllByHousehold retrieves all loans for a household
func (m *MockLoanRepository) GetAllByHousehold(householdID int32) ([]*domain.Loan, error) {
	var result []*domain.Loan
	for _, loan := range m.Loans {
		if loan.HouseholdID == householdID {
			result = append(result, loan)
		}
	}
	return result, nil
}

// Update replaces a stored loan
func (m *MockLoanRepository) Update(loan *domain.Loan) (*domain.Loan, error) {
	existing, ok := m.Loans[loan.ID]
	if !ok || existing.HouseholdID != loan.HouseholdID {
		return nil, domain.ErrLoanNotFound
	}
	m.Loans[loan.ID] = loan
	return loan, nil
}

// UpdateSchedule replaces a stored loan's schedule
func (m *MockLoanRepository) UpdateSchedule(householdID int32, id uuid.UUID, schedule []domain.ScheduleEntry) error {
	loan, ok := m.Loans[id]
	if !ok || loan.HouseholdID != householdID {
		return domain.ErrLoanNotFound
	}
	loan.Schedule = schedule
	return nil
}

// Delete removes a loan
func (m *MockLoanRepository) Delete(householdID int32, id uuid.UUID) error {
	loan, ok := m.Loans[id]
	if !ok || loan.HouseholdID != householdID {
		return domain.ErrLoanNotFound
	}
	delete(m.Loans, id)
	return nil
}

// AddLoan adds a loan to the mock repository (helper for tests)
func (m *MockLoanRepository) AddLoan(loan *domain.Loan) {
	m.Loans[loan.ID] = loan
}

// MockBudgetItemRepository is an in-memory implementation of domain.BudgetItemRepository
type MockBudgetItemRepository struct {
	Items map[uuid.UUID]*domain.BudgetItem
}

// NewMockBudgetItemRepository creates a new MockBudgetItemRepository
func NewMockBudgetItemRepository() *MockBudgetItemRepository {
	return &MockBudgetItemRepository{Items: make(map[uuid.UUID]*domain.BudgetItem)}
}

// Create stores a new budget item
func (m *MockBudgetItemRepository) Create(item *domain.BudgetItem) (*domain.BudgetItem, error) {
	m.Items[item.ID] = item
	return item, nil
}

// GetByID retrieves a budget item by ID within a household
func (m *MockBudgetItemRepository) GetByID(householdID int32, id uuid.UUID) (*domain.BudgetItem, error) {
	item, ok := m.Items[id]
	if !ok || item.HouseholdID != householdID {
		return nil, domain.ErrBudgetItemNotFound
	}
	return item, nil
}

// GetAllByHousehold retrieves all budget items for a household
func (m *MockBudgetItemRepository) GetAllByHousehold(householdID int32) ([]*domain.BudgetItem, error) {
	var result []*domain.BudgetItem
	for _, item := range m.Items {
		if item.HouseholdID == householdID {
			result = append(result, item)
		}
	}
	return result, nil
}

// GetByKind retrieves the household's budget items of one kind
func (m *MockBudgetItemRepository) GetByKind(householdID int32, kind domain.BudgetItemKind) ([]*domain.BudgetItem, error) {
	var result []*domain.BudgetItem
	for _, item := range m.Items {
		if item.HouseholdID == householdID && item.Kind == kind {
			result = append(result, item)
		}
	}
	return result, nil
}

// Update replaces a stored budget item
func (m *MockBudgetItemRepository) Update(item *domain.BudgetItem) (*domain.BudgetItem, error) {
	existing, ok := m.Items[item.ID]
	if !ok || existing.HouseholdID != item.HouseholdID {
		return nil, domain.ErrBudgetItemNotFound
	}
	m.Items[item.ID] = item
	return item, nil
}

// Delete removes a budget item
func (m *MockBudgetItemRepository) Delete(householdID int32, id uuid.UUID) error {
	item, ok := m.Items[id]
	if !ok || item.HouseholdID != householdID {
		return domain.ErrBudgetItemNotFound
	}
	delete(m.Items, id)
	return nil
}

// AddItem adds a budget item to the mock repository (helper for tests)
func (m *MockBudgetItemRepository) AddItem(item *domain.BudgetItem) {
	m.Items[item.ID] = item
}

type allocationKey struct {
	householdID int32
	year        int
	month       int
}

// MockBudgetAllocationRepository is an in-memory implementation of
// domain.BudgetAllocationRepository
type MockBudgetAllocationRepository struct {
	Allocations map[allocationKey]*domain.BudgetAllocation
	nextID      int32
}

// NewMockBudgetAllocationRepository creates a new MockBudgetAllocationRepository
func NewMockBudgetAllocationRepository() *MockBudgetAllocationRepository {
	return &MockBudgetAllocationRepository{
		Allocations: make(map[allocationKey]*domain.BudgetAllocation),
	}
}

// Upsert creates or replaces the allocation for a period
func (m *MockBudgetAllocationRepository) Upsert(allocation *domain.BudgetAllocation) (*domain.BudgetAllocation, error) {
	key := allocationKey{allocation.HouseholdID, allocation.Year, allocation.Month}
	if existing, ok := m.Allocations[key]; ok {
		allocation.ID = existing.ID
	} else {
		m.nextID++
		allocation.ID = m.nextID
	}
	m.Allocations[key] = allocation
	return allocation, nil
}

// GetByMonth retrieves the allocation for a period
func (m *MockBudgetAllocationRepository) GetByMonth(householdID int32, year, month int) (*domain.BudgetAllocation, error) {
	allocation, ok := m.Allocations[allocationKey{householdID, year, month}]
	if !ok {
		return nil, domain.ErrBudgetAllocationNotFound
	}
	return allocation, nil
}
