package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/rsubedi/hisab/hisab-backend/internal/domain"
	"github.com/rsubedi/hisab/hisab-backend/internal/middleware"
	"github.com/rsubedi/hisab/hisab-backend/internal/service"
)

// DashboardHandler handles dashboard summary HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// LoanSummaryResponse pairs a loan with its status for the viewed period
type LoanSummaryResponse struct {
	Loan   LoanResponse       `json:"loan"`
	Status LoanStatusResponse `json:"status"`
}

// DashboardResponse represents the monthly dashboard summary
type DashboardResponse struct {
	Period               PeriodResponse        `json:"period"`
	TotalIncome          string                `json:"totalIncome"`
	TotalNeeds           string                `json:"totalNeeds"`
	TotalWants           string                `json:"totalWants"`
	TotalInvestments     string                `json:"totalInvestments"`
	NetCashFlow          string                `json:"netCashFlow"`
	Allocation           AllocationResponse    `json:"allocation"`
	NeedsBudget          string                `json:"needsBudget"`
	InvestmentsBudget    string                `json:"investmentsBudget"`
	WantsBudget          string                `json:"wantsBudget"`
	RemainingNeeds       string                `json:"remainingNeeds"`
	RemainingInvestments string                `json:"remainingInvestments"`
	RemainingWants       string                `json:"remainingWants"`
	TotalOutstanding     float64               `json:"totalOutstanding"`
	TotalScheduledEMI    float64               `json:"totalScheduledEmi"`
	LongestRemaining     int                   `json:"longestRemaining"`
	Loans                []LoanSummaryResponse `json:"loans"`
}

// GetDashboard handles GET /api/v1/dashboard/:year/:month
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	period, verr := parsePeriodParams(c)
	if verr != nil {
		return verr
	}

	summary, err := h.dashboardService.GetSummary(householdID, period)
	if err != nil {
		log.Error().
			Err(err).
			Int32("household_id", householdID).
			Int("year", period.Year).
			Int("month", period.Month).
			Msg("Failed to build dashboard summary")
		return NewInternalError(c, "Failed to build dashboard summary")
	}

	return c.JSON(http.StatusOK, toDashboardResponse(summary))
}

func toDashboardResponse(s *domain.DashboardSummary) DashboardResponse {
	loans := make([]LoanSummaryResponse, len(s.Loans))
	for i, ls := range s.Loans {
		loans[i] = LoanSummaryResponse{
			Loan:   toLoanResponse(ls.Loan, false),
			Status: toLoanStatusResponse(ls.Status),
		}
	}
	return DashboardResponse{
		Period:               toPeriodResponse(s.Period),
		TotalIncome:          s.TotalIncome.String(),
		TotalNeeds:           s.TotalNeeds.String(),
		TotalWants:           s.TotalWants.String(),
		TotalInvestments:     s.TotalInvestments.String(),
		NetCashFlow:          s.NetCashFlow.String(),
		Allocation:           toAllocationResponse(s.Allocation),
		NeedsBudget:          s.NeedsBudget.String(),
		InvestmentsBudget:    s.InvestmentsBudget.String(),
		WantsBudget:          s.WantsBudget.String(),
		RemainingNeeds:       s.RemainingNeeds.String(),
		RemainingInvestments: s.RemainingInvestments.String(),
		RemainingWants:       s.RemainingWants.String(),
		TotalOutstanding:     s.TotalOutstanding,
		TotalScheduledEMI:    s.TotalScheduledEMI,
		LongestRemaining:     s.LongestRemaining,
		Loans:                loans,
	}
}
