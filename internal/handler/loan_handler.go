package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/rsubedi/hisab/hisab-backend/internal/calendar"
	"github.com/rsubedi/hisab/hisab-backend/internal/domain"
	"github.com/rsubedi/hisab/hisab-backend/internal/middleware"
	"github.com/rsubedi/hisab/hisab-backend/internal/service"
)

// LoanHandler handles loan-related HTTP requests
type LoanHandler struct {
	loanService *service.LoanService
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService *service.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// CreateLoanRequest represents the create loan request body
type CreateLoanRequest struct {
	Name           string  `json:"name"`
	Principal      float64 `json:"principal"`
	Rate           float64 `json:"rate"`
	Years          int     `json:"years"`
	StartDateYear  int     `json:"startDateYear"`
	StartDateMonth int     `json:"startDateMonth"`
	ExtraPrincipal float64 `json:"extraPrincipal"`
}

// UpdateLoanRequest represents the update loan request body
type UpdateLoanRequest struct {
	Name           string  `json:"name"`
	Principal      float64 `json:"principal"`
	Rate           float64 `json:"rate"`
	Years          int     `json:"years"`
	StartDateYear  int     `json:"startDateYear"`
	StartDateMonth int     `json:"startDateMonth"`
	ExtraPrincipal float64 `json:"extraPrincipal"`
}

// SetPaymentStatusRequest represents the payment status update body
type SetPaymentStatusRequest struct {
	Status string `json:"status"`
}

// ScheduleEntryResponse represents one amortization period in API responses
type ScheduleEntryResponse struct {
	Month       int     `json:"month"`
	Payment     float64 `json:"payment"`
	Principal   float64 `json:"principal"`
	Interest    float64 `json:"interest"`
	Balance     float64 `json:"balance"`
	Status      string  `json:"status"`
	PaymentDate *string `json:"paymentDate,omitempty"`
}

// PeriodResponse represents a BS calendar period in API responses
type PeriodResponse struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Label string `json:"label"`
}

// DuePaymentResponse represents a schedule entry with its resolved due period
type DuePaymentResponse struct {
	ScheduleEntryResponse
	DueDate PeriodResponse `json:"dueDate"`
}

// LoanResponse represents a loan in API responses
type LoanResponse struct {
	ID             string                  `json:"id"`
	HouseholdID    int32                   `json:"householdId"`
	Name           string                  `json:"name"`
	Principal      float64                 `json:"principal"`
	Rate           float64                 `json:"rate"`
	Years          int                     `json:"years"`
	StartDateYear  int                     `json:"startDateYear"`
	StartDateMonth int                     `json:"startDateMonth"`
	ExtraPrincipal float64                 `json:"extraPrincipal"`
	Schedule       []ScheduleEntryResponse `json:"schedule,omitempty"`
	CreatedAt      string                  `json:"createdAt"`
	UpdatedAt      string                  `json:"updatedAt"`
}

// LoanStatusResponse represents the derived loan status for one period
type LoanStatusResponse struct {
	EMI                       float64              `json:"emi"`
	StartBalance              float64              `json:"startBalance"`
	EndBalance                float64              `json:"endBalance"`
	InterestPaid              float64              `json:"interestPaid"`
	PrincipalPaid             float64              `json:"principalPaid"`
	ExtraPrincipal            float64              `json:"extraPrincipal"`
	PaymentsMadeTotal         int                  `json:"paymentsMadeTotal"`
	PaymentsRemaining         int                  `json:"paymentsRemaining"`
	CurrentOutstandingBalance float64              `json:"currentOutstandingBalance"`
	IsPaidOff                 bool                 `json:"isPaidOff"`
	NextPayment               *DuePaymentResponse  `json:"nextPayment,omitempty"`
	OverduePayments           []DuePaymentResponse `json:"overduePayments"`
}

// CreateLoan handles POST /api/v1/loans
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	var req CreateLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	loan, err := h.loanService.CreateLoan(householdID, service.CreateLoanInput{
		Name:           req.Name,
		Principal:      req.Principal,
		Rate:           req.Rate,
		Years:          req.Years,
		StartYearBS:    req.StartDateYear,
		StartMonthBS:   req.StartDateMonth,
		ExtraPrincipal: req.ExtraPrincipal,
	})
	if err != nil {
		if verr := mapLoanValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Int32("household_id", householdID).Msg("Failed to create loan")
		return NewInternalError(c, "Failed to create loan")
	}

	log.Info().Int32("household_id", householdID).Str("loan_id", loan.ID.String()).Str("name", loan.Name).Msg("Loan created")

	return c.JSON(http.StatusCreated, toLoanResponse(loan, true))
}

// GetLoans handles GET /api/v1/loans
func (h *LoanHandler) GetLoans(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	loans, err := h.loanService.GetLoans(householdID)
	if err != nil {
		log.Error().Err(err).Int32("household_id", householdID).Msg("Failed to get loans")
		return NewInternalError(c, "Failed to get loans")
	}

	response := make([]LoanResponse, len(loans))
	for i, loan := range loans {
		response[i] = toLoanResponse(loan, false)
	}
	return c.JSON(http.StatusOK, response)
}

// GetLoan handles GET /api/v1/loans/:id
func (h *LoanHandler) GetLoan(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	loan, err := h.loanService.GetLoanByID(householdID, id)
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "Loan not found")
		}
		log.Error().Err(err).Int32("household_id", householdID).Str("loan_id", id.String()).Msg("Failed to get loan")
		return NewInternalError(c, "Failed to get loan")
	}

	return c.JSON(http.StatusOK, toLoanResponse(loan, true))
}

// UpdateLoan handles PUT /api/v1/loans/:id
func (h *LoanHandler) UpdateLoan(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	var req UpdateLoanRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	loan, err := h.loanService.UpdateLoan(householdID, id, service.UpdateLoanInput{
		Name:           req.Name,
		Principal:      req.Principal,
		Rate:           req.Rate,
		Years:          req.Years,
		StartYearBS:    req.StartDateYear,
		StartMonthBS:   req.StartDateMonth,
		ExtraPrincipal: req.ExtraPrincipal,
	})
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "Loan not found")
		}
		if verr := mapLoanValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Int32("household_id", householdID).Str("loan_id", id.String()).Msg("Failed to update loan")
		return NewInternalError(c, "Failed to update loan")
	}

	log.Info().Int32("household_id", householdID).Str("loan_id", loan.ID.String()).Msg("Loan updated")

	return c.JSON(http.StatusOK, toLoanResponse(loan, true))
}

// DeleteLoan handles DELETE /api/v1/loans/:id
func (h *LoanHandler) DeleteLoan(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	if err := h.loanService.DeleteLoan(householdID, id); err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "Loan not found")
		}
		log.Error().Err(err).Int32("household_id", householdID).Str("loan_id", id.String()).Msg("Failed to delete loan")
		return NewInternalError(c, "Failed to delete loan")
	}

	log.Info().Int32("household_id", householdID).Str("loan_id", id.String()).Msg("Loan deleted")
	return c.NoContent(http.StatusNoContent)
}

// GetSchedule handles GET /api/v1/loans/:id/schedule
func (h *LoanHandler) GetSchedule(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	loan, err := h.loanService.GetLoanByID(householdID, id)
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "Loan not found")
		}
		log.Error().Err(err).Int32("household_id", householdID).Str("loan_id", id.String()).Msg("Failed to get schedule")
		return NewInternalError(c, "Failed to get schedule")
	}

	response := make([]ScheduleEntryResponse, len(loan.Schedule))
	for i, entry := range loan.Schedule {
		response[i] = toScheduleEntryResponse(entry)
	}
	return c.JSON(http.StatusOK, response)
}

// GetLoanStatus handles GET /api/v1/loans/:id/status/:year/:month
func (h *LoanHandler) GetLoanStatus(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	target, verr := parsePeriodParams(c)
	if verr != nil {
		return verr
	}

	_, status, err := h.loanService.GetLoanStatus(householdID, id, target)
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "Loan not found")
		}
		log.Error().Err(err).Int32("household_id", householdID).Str("loan_id", id.String()).Msg("Failed to get loan status")
		return NewInternalError(c, "Failed to get loan status")
	}

	return c.JSON(http.StatusOK, toLoanStatusResponse(status))
}

// SetPaymentStatus handles PATCH /api/v1/loans/:id/payments/:month
func (h *LoanHandler) SetPaymentStatus(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid loan ID", nil)
	}

	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 {
		return NewValidationError(c, "Invalid payment month", []ValidationError{
			{Field: "month", Message: "Must be a positive schedule index"},
		})
	}

	var req SetPaymentStatusRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	loan, err := h.loanService.SetPaymentStatus(householdID, id, month, domain.PaymentStatus(req.Status))
	if err != nil {
		if errors.Is(err, domain.ErrLoanNotFound) {
			return NewNotFoundError(c, "Loan not found")
		}
		if errors.Is(err, domain.ErrPaymentNotFound) {
			return NewNotFoundError(c, "Schedule entry not found")
		}
		if errors.Is(err, domain.ErrPaymentStatusInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "status", Message: "Must be 'pending', 'paid', or 'skipped'"},
			})
		}
		log.Error().Err(err).Int32("household_id", householdID).Str("loan_id", id.String()).Int("month", month).Msg("Failed to set payment status")
		return NewInternalError(c, "Failed to set payment status")
	}

	log.Info().
		Int32("household_id", householdID).
		Str("loan_id", id.String()).
		Int("month", month).
		Str("status", req.Status).
		Msg("Payment status updated")

	return c.JSON(http.StatusOK, toLoanResponse(loan, true))
}

// mapLoanValidationError converts domain validation errors to problem
// details, or returns nil when err is not a validation error.
func mapLoanValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrLoanNameEmpty):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrLoanNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 200 characters or less"},
		})
	case errors.Is(err, domain.ErrLoanPrincipalInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "principal", Message: "Principal must be positive"},
		})
	case errors.Is(err, domain.ErrLoanRateInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "rate", Message: "Rate must not be negative"},
		})
	case errors.Is(err, domain.ErrLoanYearsInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "years", Message: "Term must be at least 1 year"},
		})
	case errors.Is(err, domain.ErrLoanStartInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "startDateMonth", Message: "Start month must be between 1 and 12"},
		})
	case errors.Is(err, domain.ErrLoanExtraInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "extraPrincipal", Message: "Extra principal must not be negative"},
		})
	}
	return nil
}

// parsePeriodParams reads and validates the :year/:month BS period params.
func parsePeriodParams(c echo.Context) (calendar.YearMonth, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1900 || year > 2300 {
		return calendar.YearMonth{}, NewValidationError(c, "Invalid year", nil)
	}

	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return calendar.YearMonth{}, NewValidationError(c, "Invalid month", nil)
	}

	return calendar.YearMonth{Year: year, Month: month}, nil
}

func toScheduleEntryResponse(entry domain.ScheduleEntry) ScheduleEntryResponse {
	resp := ScheduleEntryResponse{
		Month:     entry.Month,
		Payment:   entry.Payment,
		Principal: entry.Principal,
		Interest:  entry.Interest,
		Balance:   entry.Balance,
		Status:    string(entry.Status),
	}
	if entry.PaymentDate != nil {
		paidAt := entry.PaymentDate.Format(time.RFC3339)
		resp.PaymentDate = &paidAt
	}
	return resp
}

func toPeriodResponse(ym calendar.YearMonth) PeriodResponse {
	return PeriodResponse{Year: ym.Year, Month: ym.Month, Label: ym.String()}
}

func toDuePaymentResponse(p domain.DuePayment) DuePaymentResponse {
	return DuePaymentResponse{
		ScheduleEntryResponse: toScheduleEntryResponse(p.ScheduleEntry),
		DueDate:               toPeriodResponse(p.DueDate),
	}
}

func toLoanStatusResponse(status domain.LoanStatus) LoanStatusResponse {
	resp := LoanStatusResponse{
		EMI:                       status.EMI,
		StartBalance:              status.StartBalance,
		EndBalance:                status.EndBalance,
		InterestPaid:              status.InterestPaid,
		PrincipalPaid:             status.PrincipalPaid,
		ExtraPrincipal:            status.ExtraPrincipal,
		PaymentsMadeTotal:         status.PaymentsMadeTotal,
		PaymentsRemaining:         status.PaymentsRemaining,
		CurrentOutstandingBalance: status.CurrentOutstandingBalance,
		IsPaidOff:                 status.IsPaidOff,
		OverduePayments:           make([]DuePaymentResponse, len(status.OverduePayments)),
	}
	if status.NextPayment != nil {
		next := toDuePaymentResponse(*status.NextPayment)
		resp.NextPayment = &next
	}
	for i, p := range status.OverduePayments {
		resp.OverduePayments[i] = toDuePaymentResponse(p)
	}
	return resp
}

// toLoanResponse converts a domain loan; the schedule is included only for
// single-loan responses to keep list payloads small.
func toLoanResponse(loan *domain.Loan, includeSchedule bool) LoanResponse {
	resp := LoanResponse{
		ID:             loan.ID.String(),
		HouseholdID:    loan.HouseholdID,
		Name:           loan.Name,
		Principal:      loan.Principal,
		Rate:           loan.Rate,
		Years:          loan.Years,
		StartDateYear:  loan.StartYearBS,
		StartDateMonth: loan.StartMonthBS,
		ExtraPrincipal: loan.ExtraPrincipal,
		CreatedAt:      loan.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      loan.UpdatedAt.Format(time.RFC3339),
	}
	if includeSchedule {
		resp.Schedule = make([]ScheduleEntryResponse, len(loan.Schedule))
		for i, entry := range loan.Schedule {
			resp.Schedule[i] = toScheduleEntryResponse(entry)
		}
	}
	return resp
}
