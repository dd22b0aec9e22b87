package domain

import (
	"github.com/rsubedi/hisab/hisab-backend/internal/calendar"
	"github.com/shopspring/decimal"
)

// LoanWithStatus pairs a loan with its status for the viewed period.
type LoanWithStatus struct {
	Loan   *Loan      `json:"loan"`
	Status LoanStatus `json:"status"`
}

// DashboardSummary aggregates the household's budget and loans for one BS
// period. Loan interest lands in the needs bucket and principal reduction
// in the investments bucket, alongside the manually entered items.
type DashboardSummary struct {
	Period calendar.YearMonth `json:"period"`

	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalNeeds       decimal.Decimal `json:"totalNeeds"`
	TotalWants       decimal.Decimal `json:"totalWants"`
	TotalInvestments decimal.Decimal `json:"totalInvestments"`
	NetCashFlow      decimal.Decimal `json:"netCashFlow"`

	Allocation *BudgetAllocation `json:"allocation"`

	NeedsBudget          decimal.Decimal `json:"needsBudget"`
	InvestmentsBudget    decimal.Decimal `json:"investmentsBudget"`
	WantsBudget          decimal.Decimal `json:"wantsBudget"`
	RemainingNeeds       decimal.Decimal `json:"remainingNeeds"`
	RemainingInvestments decimal.Decimal `json:"remainingInvestments"`
	RemainingWants       decimal.Decimal `json:"remainingWants"`

	TotalOutstanding  float64 `json:"totalOutstanding"`
	TotalScheduledEMI float64 `json:"totalScheduledEmi"`
	LongestRemaining  int     `json:"longestRemaining"`

	Loans []LoanWithStatus `json:"loans"`
}
