package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/rsubedi/hisab/hisab-backend/internal/domain"
	"github.com/rsubedi/hisab/hisab-backend/internal/service"
	"github.com/rsubedi/hisab/hisab-backend/internal/testutil"
)

func newDashboardHandlerFixture() (*DashboardHandler, *testutil.MockBudgetItemRepository, *testutil.MockLoanRepository) {
	itemRepo := testutil.NewMockBudgetItemRepository()
	allocationRepo := testutil.NewMockBudgetAllocationRepository()
	loanRepo := testutil.NewMockLoanRepository()
	loanService := service.NewLoanService(loanRepo)
	budgetService := service.NewBudgetService(itemRepo, allocationRepo)
	dashboardService := service.NewDashboardService(itemRepo, loanService, budgetService)
	return NewDashboardHandler(dashboardService), itemRepo, loanRepo
}

func TestGetDashboard_Success(t *testing.T) {
	e := echo.New()
	handler, itemRepo, _ := newDashboardHandlerFixture()

	householdID := int32(1)
	now := time.Now()
	itemRepo.AddItem(&domain.BudgetItem{
		ID:          uuid.New(),
		HouseholdID: householdID,
		Kind:        domain.BudgetItemIncome,
		Name:        "Salary",
		Amount:      decimal.NewFromInt(100000),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	itemRepo.AddItem(&domain.BudgetItem{
		ID:          uuid.New(),
		HouseholdID: householdID,
		Kind:        domain.BudgetItemNeed,
		Name:        "Rent",
		Amount:      decimal.NewFromInt(25000),
		CreatedAt:   now,
		UpdatedAt:   now,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/2081/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("year", "month")
	c.SetParamValues("2081", "1")
	setupHouseholdContext(c, householdID)

	if err := handler.GetDashboard(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response DashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.TotalIncome != "100000" {
		t.Errorf("Expected total income '100000', got %s", response.TotalIncome)
	}
	if response.TotalNeeds != "25000" {
		t.Errorf("Expected total needs '25000', got %s", response.TotalNeeds)
	}
	// Default 50/40/10 split applies when no allocation is stored
	if response.Allocation.NeedsPct != 50 {
		t.Errorf("Expected default needs pct 50, got %d", response.Allocation.NeedsPct)
	}
	if response.NeedsBudget != "50000" {
		t.Errorf("Expected needs budget '50000', got %s", response.NeedsBudget)
	}
	if response.Period.Label != "Baishakh 2081" {
		t.Errorf("Expected period label 'Baishakh 2081', got %s", response.Period.Label)
	}
}

func TestGetDashboard_IncludesLoans(t *testing.T) {
	e := echo.New()
	handler, _, loanRepo := newDashboardHandlerFixture()

	householdID := int32(1)
	now := time.Now()
	loanRepo.AddLoan(&domain.Loan{
		ID:           uuid.New(),
		HouseholdID:  householdID,
		Name:         "Home Loan",
		Principal:    1000000,
		Rate:         10.0,
		Years:        5,
		StartYearBS:  2081,
		StartMonthBS: 1,
		Schedule:     service.GenerateLoanSchedule(1000000, 10.0, 5),
		CreatedAt:    now,
		UpdatedAt:    now,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/2081/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("year", "month")
	c.SetParamValues("2081", "1")
	setupHouseholdContext(c, householdID)

	if err := handler.GetDashboard(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response DashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if len(response.Loans) != 1 {
		t.Fatalf("Expected 1 loan, got %d", len(response.Loans))
	}
	if response.TotalOutstanding != 1000000 {
		t.Errorf("Expected total outstanding 1000000, got %f", response.TotalOutstanding)
	}
	if response.LongestRemaining != 60 {
		t.Errorf("Expected longest remaining 60, got %d", response.LongestRemaining)
	}
	if response.Loans[0].Status.NextPayment == nil {
		t.Error("Expected a next payment on the loan status")
	}
}

func TestGetDashboard_MissingHousehold(t *testing.T) {
	e := echo.New()
	handler, _, _ := newDashboardHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/2081/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("year", "month")
	c.SetParamValues("2081", "1")

	if err := handler.GetDashboard(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestGetDashboard_InvalidPeriod(t *testing.T) {
	e := echo.New()
	handler, _, _ := newDashboardHandlerFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/2081/0", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("year", "month")
	c.SetParamValues("2081", "0")
	setupHouseholdContext(c, 1)

	if err := handler.GetDashboard(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}
