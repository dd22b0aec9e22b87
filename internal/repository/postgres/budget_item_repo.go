package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rsubedi/hisab/hisab-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// BudgetItemRepository implements domain.BudgetItemRepository using PostgreSQL
type BudgetItemRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetItemRepository creates a new BudgetItemRepository
func NewBudgetItemRepository(pool *pgxpool.Pool) *BudgetItemRepository {
	return &BudgetItemRepository{pool: pool}
}

const budgetItemColumns = `id, household_id, kind, name, amount, created_at, updated_at`

// Create creates a new budget item
func (r *BudgetItemRepository) Create(item *domain.BudgetItem) (*domain.BudgetItem, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(item.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO budget_items (id, household_id, kind, name, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+budgetItemColumns,
		item.ID, item.HouseholdID, string(item.Kind), item.Name, amount,
	)
	return scanBudgetItem(row)
}

// GetByID retrieves a budget item by its ID within a household
func (r *BudgetItemRepository) GetByID(householdID int32, id uuid.UUID) (*domain.BudgetItem, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+budgetItemColumns+`
		FROM budget_items
		WHERE id = $1 AND household_id = $2`,
		id, householdID,
	)
	item, err := scanBudgetItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBudgetItemNotFound
	}
	return item, err
}

// GetAllByHousehold retrieves all budget items for a household
func (r *BudgetItemRepository) GetAllByHousehold(householdID int32) ([]*domain.BudgetItem, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+budgetItemColumns+`
		FROM budget_items
		WHERE household_id = $1
		ORDER BY created_at`,
		householdID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBudgetItems(rows)
}

// GetByKind retrieves all budget items of one kind for a household
func (r *BudgetItemRepository) GetByKind(householdID int32, kind domain.BudgetItemKind) ([]*domain.BudgetItem, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+budgetItemColumns+`
		FROM budget_items
		WHERE household_id = $1 AND kind = $2
		ORDER BY created_at`,
		householdID, string(kind),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBudgetItems(rows)
}

// Update updates a budget item's name and amount
func (r *BudgetItemRepository) Update(item *domain.BudgetItem) (*domain.BudgetItem, error) {
	ctx := context.Background()

	amount, err := decimalToPgNumeric(item.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE budget_items
		SET name = $3, amount = $4, updated_at = now()
		WHERE id = $1 AND household_id = $2
		RETURNING `+budgetItemColumns,
		item.ID, item.HouseholdID, item.Name, amount,
	)
	updated, err := scanBudgetItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBudgetItemNotFound
	}
	return updated, err
}

// Delete removes a budget item
func (r *BudgetItemRepository) Delete(householdID int32, id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM budget_items
		WHERE id = $1 AND household_id = $2`,
		id, householdID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetItemNotFound
	}
	return nil
}

func scanBudgetItem(row pgx.Row) (*domain.BudgetItem, error) {
	var (
		item   domain.BudgetItem
		kind   string
		amount pgtype.Numeric
	)
	err := row.Scan(&item.ID, &item.HouseholdID, &kind, &item.Name, &amount, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.Kind = domain.BudgetItemKind(kind)
	item.Amount = pgNumericToDecimal(amount)
	return &item, nil
}

func collectBudgetItems(rows pgx.Rows) ([]*domain.BudgetItem, error) {
	items := make([]*domain.BudgetItem, 0)
	for rows.Next() {
		item, err := scanBudgetItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func decimalToPgNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var num pgtype.Numeric
	if err := num.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return num, nil
}

func pgNumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
