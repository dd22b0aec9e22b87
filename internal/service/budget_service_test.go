package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rsubedi/hisab/hisab-backend/internal/domain"
	"github.com/rsubedi/hisab/hisab-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBudgetService() (*BudgetService, *testutil.MockBudgetItemRepository, *testutil.MockBudgetAllocationRepository) {
	itemRepo := testutil.NewMockBudgetItemRepository()
	allocationRepo := testutil.NewMockBudgetAllocationRepository()
	return NewBudgetService(itemRepo, allocationRepo), itemRepo, allocationRepo
}

func TestBudgetService_CreateItem(t *testing.T) {
	svc, _, _ := newBudgetService()

	item, err := svc.CreateItem(1, CreateItemInput{
		Kind:   domain.BudgetItemIncome,
		Name:   "Salary",
		Amount: decimal.NewFromInt(120000),
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.Equal(t, domain.BudgetItemIncome, item.Kind)
	assert.Equal(t, "120000", item.Amount.String())
}

func TestBudgetService_CreateItem_Validation(t *testing.T) {
	svc, _, _ := newBudgetService()

	_, err := svc.CreateItem(1, CreateItemInput{Kind: domain.BudgetItemNeed, Name: ""})
	assert.ErrorIs(t, err, domain.ErrBudgetItemNameEmpty)

	_, err = svc.CreateItem(1, CreateItemInput{Kind: "misc", Name: "Rent"})
	assert.ErrorIs(t, err, domain.ErrBudgetItemKindInvalid)

	_, err = svc.CreateItem(1, CreateItemInput{
		Kind:   domain.BudgetItemWant,
		Name:   "Dining",
		Amount: decimal.NewFromInt(-10),
	})
	assert.ErrorIs(t, err, domain.ErrBudgetItemAmountNeg)
}

func TestBudgetService_UpdateItem(t *testing.T) {
	svc, _, _ := newBudgetService()

	item, err := svc.CreateItem(1, CreateItemInput{
		Kind:   domain.BudgetItemNeed,
		Name:   "Rent",
		Amount: decimal.NewFromInt(25000),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateItem(1, item.ID, UpdateItemInput{
		Name:   "House rent",
		Amount: decimal.NewFromInt(27000),
	})
	require.NoError(t, err)
	assert.Equal(t, "House rent", updated.Name)
	assert.Equal(t, "27000", updated.Amount.String())

	// Wrong household never sees the item.
	_, err = svc.UpdateItem(2, item.ID, UpdateItemInput{Name: "x", Amount: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrBudgetItemNotFound)
}

func TestBudgetService_GetItemsByKind(t *testing.T) {
	svc, _, _ := newBudgetService()

	_, err := svc.CreateItem(1, CreateItemInput{Kind: domain.BudgetItemIncome, Name: "Salary", Amount: decimal.NewFromInt(100000)})
	require.NoError(t, err)
	_, err = svc.CreateItem(1, CreateItemInput{Kind: domain.BudgetItemWant, Name: "Travel", Amount: decimal.NewFromInt(8000)})
	require.NoError(t, err)

	incomes, err := svc.GetItemsByKind(1, domain.BudgetItemIncome)
	require.NoError(t, err)
	require.Len(t, incomes, 1)
	assert.Equal(t, "Salary", incomes[0].Name)

	_, err = svc.GetItemsByKind(1, "misc")
	assert.ErrorIs(t, err, domain.ErrBudgetItemKindInvalid)
}

func TestBudgetService_DeleteItem(t *testing.T) {
	svc, _, _ := newBudgetService()

	item, err := svc.CreateItem(1, CreateItemInput{Kind: domain.BudgetItemWant, Name: "Streaming", Amount: decimal.NewFromInt(1500)})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(1, item.ID))
	assert.ErrorIs(t, svc.DeleteItem(1, item.ID), domain.ErrBudgetItemNotFound)
}

func TestBudgetService_GetAllocation_DefaultsWhenUnset(t *testing.T) {
	svc, _, _ := newBudgetService()

	allocation, err := svc.GetAllocation(1, 2081, 4)

	require.NoError(t, err)
	assert.Equal(t, int32(domain.DefaultNeedsPct), allocation.NeedsPct)
	assert.Equal(t, int32(domain.DefaultInvestmentsPct), allocation.InvestmentsPct)
	assert.Equal(t, int32(domain.DefaultWantsPct), allocation.WantsPct)
}

func TestBudgetService_SetAllocation(t *testing.T) {
	svc, _, _ := newBudgetService()

	_, err := svc.SetAllocation(1, 2081, 4, SetAllocationInput{NeedsPct: 60, InvestmentsPct: 30, WantsPct: 10})
	require.NoError(t, err)

	allocation, err := svc.GetAllocation(1, 2081, 4)
	require.NoError(t, err)
	assert.Equal(t, int32(60), allocation.NeedsPct)

	// Other periods keep the default.
	other, err := svc.GetAllocation(1, 2081, 5)
	require.NoError(t, err)
	assert.Equal(t, int32(domain.DefaultNeedsPct), other.NeedsPct)
}

func TestBudgetService_SetAllocation_MustTotal100(t *testing.T) {
	svc, _, _ := newBudgetService()

	_, err := svc.SetAllocation(1, 2081, 4, SetAllocationInput{NeedsPct: 60, InvestmentsPct: 30, WantsPct: 20})
	assert.ErrorIs(t, err, domain.ErrBudgetAllocationInvalid)

	_, err = svc.SetAllocation(1, 2081, 4, SetAllocationInput{NeedsPct: 120, InvestmentsPct: -30, WantsPct: 10})
	assert.ErrorIs(t, err, domain.ErrBudgetAllocationInvalid)
}
