package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rsubedi/hisab/hisab-backend/internal/calendar"
	"github.com/rsubedi/hisab/hisab-backend/internal/domain"
	"github.com/rsubedi/hisab/hisab-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashboardFixture() (*DashboardService, *testutil.MockBudgetItemRepository, *testutil.MockLoanRepository, *testutil.MockBudgetAllocationRepository) {
	itemRepo := testutil.NewMockBudgetItemRepository()
	loanRepo := testutil.NewMockLoanRepository()
	allocationRepo := testutil.NewMockBudgetAllocationRepository()
	loanService := NewLoanService(loanRepo)
	budgetService := NewBudgetService(itemRepo, allocationRepo)
	return NewDashboardService(itemRepo, loanService, budgetService), itemRepo, loanRepo, allocationRepo
}

func addItem(repo *testutil.MockBudgetItemRepository, kind domain.BudgetItemKind, name string, amount int64) {
	repo.AddItem(&domain.BudgetItem{
		ID:          uuid.New(),
		HouseholdID: 1,
		Kind:        kind,
		Name:        name,
		Amount:      decimal.NewFromInt(amount),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	})
}

func TestDashboardService_GetSummary_NoLoans(t *testing.T) {
	svc, itemRepo, _, _ := newDashboardFixture()

	addItem(itemRepo, domain.BudgetItemIncome, "Salary", 100000)
	addItem(itemRepo, domain.BudgetItemNeed, "Rent", 25000)
	addItem(itemRepo, domain.BudgetItemWant, "Dining", 5000)
	addItem(itemRepo, domain.BudgetItemInvestment, "SIP", 10000)

	summary, err := svc.GetSummary(1, calendar.YearMonth{Year: 2081, Month: 4})
	require.NoError(t, err)

	assert.Equal(t, "100000", summary.TotalIncome.String())
	assert.Equal(t, "25000", summary.TotalNeeds.String())
	assert.Equal(t, "5000", summary.TotalWants.String())
	assert.Equal(t, "10000", summary.TotalInvestments.String())
	assert.Equal(t, "60000", summary.NetCashFlow.String())

	// Default 50/40/10 split.
	assert.Equal(t, "50000", summary.NeedsBudget.String())
	assert.Equal(t, "40000", summary.InvestmentsBudget.String())
	assert.Equal(t, "10000", summary.WantsBudget.String())
	assert.Equal(t, "25000", summary.RemainingNeeds.String())
	assert.Equal(t, "30000", summary.RemainingInvestments.String())
	assert.Equal(t, "5000", summary.RemainingWants.String())

	assert.Zero(t, summary.TotalOutstanding)
	assert.Empty(t, summary.Loans)
}

func TestDashboardService_GetSummary_LoanDueThisMonth(t *testing.T) {
	svc, itemRepo, loanRepo, _ := newDashboardFixture()

	addItem(itemRepo, domain.BudgetItemIncome, "Salary", 200000)
	addItem(itemRepo, domain.BudgetItemNeed, "Rent", 20000)

	loan := &domain.Loan{
		ID:           uuid.New(),
		HouseholdID:  1,
		Name:         "Home loan",
		Principal:    1000000,
		Rate:         10.0,
		Years:        5,
		StartYearBS:  2081,
		StartMonthBS: 1,
	}
	loan.Schedule = GenerateLoanSchedule(loan.Principal, loan.Rate, loan.Years)
	loanRepo.AddLoan(loan)

	target := calendar.YearMonth{Year: 2081, Month: 1}
	summary, err := svc.GetSummary(1, target)
	require.NoError(t, err)

	require.Len(t, summary.Loans, 1)
	st := summary.Loans[0].Status
	require.NotNil(t, st.NextPayment)

	// Entry 1 is due this month: its interest lands in needs and its
	// principal in investments.
	wantNeeds := decimal.NewFromInt(20000).Add(decimal.NewFromFloat(st.NextPayment.Interest))
	assert.True(t, summary.TotalNeeds.Equal(wantNeeds), "needs %s want %s", summary.TotalNeeds, wantNeeds)

	wantInvestments := decimal.NewFromFloat(st.NextPayment.Principal)
	assert.True(t, summary.TotalInvestments.Equal(wantInvestments))

	assert.Equal(t, 1000000.0, summary.TotalOutstanding)
	assert.InDelta(t, st.EMI, summary.TotalScheduledEMI, 1e-9)
	assert.Equal(t, 60, summary.LongestRemaining)
}

func TestDashboardService_GetSummary_LoanNotDueThisMonth(t *testing.T) {
	svc, itemRepo, loanRepo, _ := newDashboardFixture()

	addItem(itemRepo, domain.BudgetItemIncome, "Salary", 200000)

	// Loan starts later than the viewed month: no contribution to the
	// month's buckets, but outstanding/EMI aggregates still count it.
	loan := &domain.Loan{
		ID:           uuid.New(),
		HouseholdID:  1,
		Name:         "Car loan",
		Principal:    500000,
		Rate:         12.0,
		Years:        3,
		StartYearBS:  2082,
		StartMonthBS: 1,
	}
	loan.Schedule = GenerateLoanSchedule(loan.Principal, loan.Rate, loan.Years)
	loanRepo.AddLoan(loan)

	summary, err := svc.GetSummary(1, calendar.YearMonth{Year: 2081, Month: 6})
	require.NoError(t, err)

	assert.Equal(t, "0", summary.TotalNeeds.String())
	assert.Equal(t, "0", summary.TotalInvestments.String())
	assert.Equal(t, 500000.0, summary.TotalOutstanding)
}

func TestDashboardService_GetSummary_UsesStoredAllocation(t *testing.T) {
	svc, itemRepo, _, allocationRepo := newDashboardFixture()

	addItem(itemRepo, domain.BudgetItemIncome, "Salary", 100000)
	_, err := allocationRepo.Upsert(&domain.BudgetAllocation{
		HouseholdID:    1,
		Year:           2081,
		Month:          4,
		NeedsPct:       70,
		InvestmentsPct: 20,
		WantsPct:       10,
	})
	require.NoError(t, err)

	summary, err := svc.GetSummary(1, calendar.YearMonth{Year: 2081, Month: 4})
	require.NoError(t, err)

	assert.Equal(t, "70000", summary.NeedsBudget.String())
	assert.Equal(t, "20000", summary.InvestmentsBudget.String())
}
