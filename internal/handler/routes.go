package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/rsubedi/hisab/hisab-backend/internal/middleware"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, loanHandler *LoanHandler, budgetHandler *BudgetHandler, dashboardHandler *DashboardHandler) {
	// API version 1, scoped to the household named in the request header
	api := e.Group("/api/v1")
	api.Use(middleware.HouseholdScope())

	// Loan routes
	loans := api.Group("/loans")
	loans.POST("", loanHandler.CreateLoan)
	loans.GET("", loanHandler.GetLoans)
	loans.GET("/:id", loanHandler.GetLoan)
	loans.PUT("/:id", loanHandler.UpdateLoan)
	loans.DELETE("/:id", loanHandler.DeleteLoan)
	loans.GET("/:id/schedule", loanHandler.GetSchedule)
	loans.GET("/:id/status/:year/:month", loanHandler.GetLoanStatus)
	loans.PATCH("/:id/payments/:month", loanHandler.SetPaymentStatus)

	// Budget item routes
	items := api.Group("/budget-items")
	items.POST("", budgetHandler.CreateBudgetItem)
	items.GET("", budgetHandler.GetBudgetItems)
	items.PUT("/:id", budgetHandler.UpdateBudgetItem)
	items.DELETE("/:id", budgetHandler.DeleteBudgetItem)

	// Allocation routes
	allocations := api.Group("/allocations")
	allocations.GET("/:year/:month", budgetHandler.GetAllocation)
	allocations.PUT("/:year/:month", budgetHandler.SetAllocation)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("/:year/:month", dashboardHandler.GetDashboard)
}
