package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rsubedi/hisab/hisab-backend/internal/domain"
)

// BudgetAllocationRepository implements domain.BudgetAllocationRepository using PostgreSQL
type BudgetAllocationRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetAllocationRepository creates a new BudgetAllocationRepository
func NewBudgetAllocationRepository(pool *pgxpool.Pool) *BudgetAllocationRepository {
	return &BudgetAllocationRepository{pool: pool}
}

const allocationColumns = `id, household_id, year, month, needs_pct, investments_pct, wants_pct, created_at, updated_at`

// Upsert creates or replaces the allocation split for one household month
func (r *BudgetAllocationRepository) Upsert(allocation *domain.BudgetAllocation) (*domain.BudgetAllocation, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO budget_allocations (household_id, year, month, needs_pct, investments_pct, wants_pct)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (household_id, year, month)
		DO UPDATE SET needs_pct = EXCLUDED.needs_pct,
		              investments_pct = EXCLUDED.investments_pct,
		              wants_pct = EXCLUDED.wants_pct,
		              updated_at = now()
		RETURNING `+allocationColumns,
		allocation.HouseholdID, allocation.Year, allocation.Month,
		allocation.NeedsPct, allocation.InvestmentsPct, allocation.WantsPct,
	)
	return scanAllocation(row)
}

// GetByMonth retrieves the allocation split for one household month
func (r *BudgetAllocationRepository) GetByMonth(householdID int32, year, month int) (*domain.BudgetAllocation, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+allocationColumns+`
		FROM budget_allocations
		WHERE household_id = $1 AND year = $2 AND month = $3`,
		householdID, year, month,
	)
	allocation, err := scanAllocation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBudgetAllocationNotFound
	}
	return allocation, err
}

func scanAllocation(row pgx.Row) (*domain.BudgetAllocation, error) {
	var a domain.BudgetAllocation
	err := row.Scan(
		&a.ID, &a.HouseholdID, &a.Year, &a.Month,
		&a.NeedsPct, &a.InvestmentsPct, &a.WantsPct,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
