package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/rsubedi/hisab/hisab-backend/internal/domain"
	"github.com/rsubedi/hisab/hisab-backend/internal/middleware"
	"github.com/rsubedi/hisab/hisab-backend/internal/service"
)

// BudgetHandler handles budget item and allocation HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateBudgetItemRequest represents the create budget item request body
type CreateBudgetItemRequest struct {
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// UpdateBudgetItemRequest represents the update budget item request body
type UpdateBudgetItemRequest struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// BudgetItemResponse represents a budget item in API responses
type BudgetItemResponse struct {
	ID          string `json:"id"`
	HouseholdID int32  `json:"householdId"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// SetAllocationRequest represents the allocation upsert request body
type SetAllocationRequest struct {
	NeedsPct       int32 `json:"needsPct"`
	InvestmentsPct int32 `json:"investmentsPct"`
	WantsPct       int32 `json:"wantsPct"`
}

// AllocationResponse represents a monthly allocation split in API responses
type AllocationResponse struct {
	NeedsPct       int32 `json:"needsPct"`
	InvestmentsPct int32 `json:"investmentsPct"`
	WantsPct       int32 `json:"wantsPct"`
}

// CreateBudgetItem handles POST /api/v1/budget-items
func (h *BudgetHandler) CreateBudgetItem(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	var req CreateBudgetItemRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	item, err := h.budgetService.CreateItem(householdID, service.CreateItemInput{
		Kind:   domain.BudgetItemKind(req.Kind),
		Name:   req.Name,
		Amount: amount,
	})
	if err != nil {
		if verr := mapBudgetItemValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Int32("household_id", householdID).Msg("Failed to create budget item")
		return NewInternalError(c, "Failed to create budget item")
	}

	log.Info().
		Int32("household_id", householdID).
		Str("item_id", item.ID.String()).
		Str("kind", string(item.Kind)).
		Msg("Budget item created")

	return c.JSON(http.StatusCreated, toBudgetItemResponse(item))
}

// GetBudgetItems handles GET /api/v1/budget-items with optional ?kind= filter
func (h *BudgetHandler) GetBudgetItems(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	var (
		items []*domain.BudgetItem
		err   error
	)
	if kind := c.QueryParam("kind"); kind != "" {
		items, err = h.budgetService.GetItemsByKind(householdID, domain.BudgetItemKind(kind))
		if errors.Is(err, domain.ErrBudgetItemKindInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "kind", Message: "Must be 'income', 'need', 'want', or 'investment'"},
			})
		}
	} else {
		items, err = h.budgetService.GetItems(householdID)
	}
	if err != nil {
		log.Error().Err(err).Int32("household_id", householdID).Msg("Failed to get budget items")
		return NewInternalError(c, "Failed to get budget items")
	}

	response := make([]BudgetItemResponse, len(items))
	for i, item := range items {
		response[i] = toBudgetItemResponse(item)
	}
	return c.JSON(http.StatusOK, response)
}

// UpdateBudgetItem handles PUT /api/v1/budget-items/:id
func (h *BudgetHandler) UpdateBudgetItem(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget item ID", nil)
	}

	var req UpdateBudgetItemRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	item, err := h.budgetService.UpdateItem(householdID, id, service.UpdateItemInput{
		Name:   req.Name,
		Amount: amount,
	})
	if err != nil {
		if errors.Is(err, domain.ErrBudgetItemNotFound) {
			return NewNotFoundError(c, "Budget item not found")
		}
		if verr := mapBudgetItemValidationError(c, err); verr != nil {
			return verr
		}
		log.Error().Err(err).Int32("household_id", householdID).Str("item_id", id.String()).Msg("Failed to update budget item")
		return NewInternalError(c, "Failed to update budget item")
	}

	log.Info().Int32("household_id", householdID).Str("item_id", item.ID.String()).Msg("Budget item updated")

	return c.JSON(http.StatusOK, toBudgetItemResponse(item))
}

// DeleteBudgetItem handles DELETE /api/v1/budget-items/:id
func (h *BudgetHandler) DeleteBudgetItem(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid budget item ID", nil)
	}

	if err := h.budgetService.DeleteItem(householdID, id); err != nil {
		if errors.Is(err, domain.ErrBudgetItemNotFound) {
			return NewNotFoundError(c, "Budget item not found")
		}
		log.Error().Err(err).Int32("household_id", householdID).Str("item_id", id.String()).Msg("Failed to delete budget item")
		return NewInternalError(c, "Failed to delete budget item")
	}

	log.Info().Int32("household_id", householdID).Str("item_id", id.String()).Msg("Budget item deleted")
	return c.NoContent(http.StatusNoContent)
}

// GetAllocation handles GET /api/v1/allocations/:year/:month
func (h *BudgetHandler) GetAllocation(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	period, verr := parsePeriodParams(c)
	if verr != nil {
		return verr
	}

	allocation, err := h.budgetService.GetAllocation(householdID, period.Year, period.Month)
	if err != nil {
		log.Error().Err(err).Int32("household_id", householdID).Msg("Failed to get allocation")
		return NewInternalError(c, "Failed to get allocation")
	}

	return c.JSON(http.StatusOK, toAllocationResponse(allocation))
}

// SetAllocation handles PUT /api/v1/allocations/:year/:month
func (h *BudgetHandler) SetAllocation(c echo.Context) error {
	householdID := middleware.GetHouseholdID(c)
	if householdID == 0 {
		return NewUnauthorizedError(c, "Household required")
	}

	period, verr := parsePeriodParams(c)
	if verr != nil {
		return verr
	}

	var req SetAllocationRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	allocation, err := h.budgetService.SetAllocation(householdID, period.Year, period.Month, service.SetAllocationInput{
		NeedsPct:       req.NeedsPct,
		InvestmentsPct: req.InvestmentsPct,
		WantsPct:       req.WantsPct,
	})
	if err != nil {
		if errors.Is(err, domain.ErrBudgetAllocationInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "needsPct", Message: "Percentages must be non-negative and total 100"},
			})
		}
		log.Error().Err(err).Int32("household_id", householdID).Msg("Failed to set allocation")
		return NewInternalError(c, "Failed to set allocation")
	}

	log.Info().
		Int32("household_id", householdID).
		Int("year", period.Year).
		Int("month", period.Month).
		Msg("Allocation updated")

	return c.JSON(http.StatusOK, toAllocationResponse(allocation))
}

func mapBudgetItemValidationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrBudgetItemNameEmpty):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrBudgetItemNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 200 characters or less"},
		})
	case errors.Is(err, domain.ErrBudgetItemKindInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "kind", Message: "Must be 'income', 'need', 'want', or 'investment'"},
		})
	case errors.Is(err, domain.ErrBudgetItemAmountNeg):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must not be negative"},
		})
	}
	return nil
}

func toBudgetItemResponse(item *domain.BudgetItem) BudgetItemResponse {
	return BudgetItemResponse{
		ID:          item.ID.String(),
		HouseholdID: item.HouseholdID,
		Kind:        string(item.Kind),
		Name:        item.Name,
		Amount:      item.Amount.String(),
		CreatedAt:   item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   item.UpdatedAt.Format(time.RFC3339),
	}
}

func toAllocationResponse(a *domain.BudgetAllocation) AllocationResponse {
	return AllocationResponse{
		NeedsPct:       a.NeedsPct,
		InvestmentsPct: a.InvestmentsPct,
		WantsPct:       a.WantsPct,
	}
}
