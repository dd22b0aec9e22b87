package service

import (
	"github.com/rsubedi/hisab/hisab-backend/internal/calendar"
	"github.com/rsubedi/hisab/hisab-backend/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DashboardService assembles the per-month household summary
type DashboardService struct {
	itemRepo      domain.BudgetItemRepository
	loanService   *LoanService
	budgetService *BudgetService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(itemRepo domain.BudgetItemRepository, loanService *LoanService, budgetService *BudgetService) *DashboardService {
	return &DashboardService{
		itemRepo:      itemRepo,
		loanService:   loanService,
		budgetService: budgetService,
	}
}

// GetSummary builds the dashboard summary for a household and BS period.
// This month's loan interest counts toward needs and this month's
// scheduled principal reduction toward investments, mirroring how the
// budget buckets are presented to the user.
func (s *DashboardService) GetSummary(householdID int32, target calendar.YearMonth) (*domain.DashboardSummary, error) {
	items, err := s.itemRepo.GetAllByHousehold(householdID)
	if err != nil {
		return nil, err
	}

	totalIncome := decimal.Zero
	needsExpenses := decimal.Zero
	totalWants := decimal.Zero
	manualInvestments := decimal.Zero
	for _, item := range items {
		switch item.Kind {
		case domain.BudgetItemIncome:
			totalIncome = totalIncome.Add(item.Amount)
		case domain.BudgetItemNeed:
			needsExpenses = needsExpenses.Add(item.Amount)
		case domain.BudgetItemWant:
			totalWants = totalWants.Add(item.Amount)
		case domain.BudgetItemInvestment:
			manualInvestments = manualInvestments.Add(item.Amount)
		}
	}

	loans, err := s.loanService.GetLoanStatuses(householdID, target)
	if err != nil {
		return nil, err
	}

	var totalInterest, principalReduction, totalOutstanding, totalEMI float64
	longestRemaining := 0
	for _, lws := range loans {
		st := lws.Status

		// Only a payment actually due in the viewed period contributes to
		// the month's needs/investments figures.
		if st.NextPayment != nil && st.NextPayment.DueDate.Compare(target) == 0 {
			totalInterest += st.NextPayment.Interest
			principalReduction += st.NextPayment.Principal
		}

		totalOutstanding += st.CurrentOutstandingBalance
		totalEMI += st.EMI
		if st.PaymentsRemaining > longestRemaining {
			longestRemaining = st.PaymentsRemaining
		}
	}

	totalNeeds := needsExpenses.Add(decimal.NewFromFloat(totalInterest))
	totalInvestments := manualInvestments.Add(decimal.NewFromFloat(principalReduction))

	allocation, err := s.budgetService.GetAllocation(householdID, target.Year, target.Month)
	if err != nil {
		return nil, err
	}

	needsBudget := bucketBudget(totalIncome, allocation.NeedsPct)
	investmentsBudget := bucketBudget(totalIncome, allocation.InvestmentsPct)
	wantsBudget := bucketBudget(totalIncome, allocation.WantsPct)

	netCashFlow := totalIncome.Sub(totalNeeds).Sub(totalWants).Sub(totalInvestments)

	return &domain.DashboardSummary{
		Period:               target,
		TotalIncome:          totalIncome,
		TotalNeeds:           totalNeeds,
		TotalWants:           totalWants,
		TotalInvestments:     totalInvestments,
		NetCashFlow:          netCashFlow,
		Allocation:           allocation,
		NeedsBudget:          needsBudget,
		InvestmentsBudget:    investmentsBudget,
		WantsBudget:          wantsBudget,
		RemainingNeeds:       needsBudget.Sub(totalNeeds),
		RemainingInvestments: investmentsBudget.Sub(totalInvestments),
		RemainingWants:       wantsBudget.Sub(totalWants),
		TotalOutstanding:     totalOutstanding,
		TotalScheduledEMI:    totalEMI,
		LongestRemaining:     longestRemaining,
		Loans:                loans,
	}, nil
}

func bucketBudget(income decimal.Decimal, pct int32) decimal.Decimal {
	return income.Mul(decimal.NewFromInt32(pct)).Div(hundred)
}
