package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rsubedi/hisab/hisab-backend/internal/domain"
)

// LoanRepository implements domain.LoanRepository using PostgreSQL.
// The amortization schedule is stored as a JSONB document alongside the
// loan terms; it is regenerated by the service layer, never by SQL.
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new LoanRepository
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

const loanColumns = `id, household_id, name, principal, rate, years, start_year_bs, start_month_bs, extra_principal, schedule, created_at, updated_at`

// Create creates a new loan
func (r *LoanRepository) Create(loan *domain.Loan) (*domain.Loan, error) {
	ctx := context.Background()

	schedule, err := json.Marshal(loan.Schedule)
	if err != nil {
		return nil, fmt.Errorf("marshal schedule: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO loans (id, household_id, name, principal, rate, years, start_year_bs, start_month_bs, extra_principal, schedule)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+loanColumns,
		loan.ID, loan.HouseholdID, loan.Name, loan.Principal, loan.Rate, loan.Years,
		loan.StartYearBS, loan.StartMonthBS, loan.ExtraPrincipal, schedule,
	)
	return scanLoan(row)
}

// GetByID retrieves a loan by its ID within a household
func (r *LoanRepository) GetByID(householdID int32, id uuid.UUID) (*domain.Loan, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT `+loanColumns+`
		FROM loans
		WHERE id = $1 AND household_id = $2`,
		id, householdID,
	)
	loan, err := scanLoan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLoanNotFound
	}
	return loan, err
}

// GetAllByHousehold retrieves all loans for a household
func (r *LoanRepository) GetAllByHousehold(householdID int32) ([]*domain.Loan, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT `+loanColumns+`
		FROM loans
		WHERE household_id = $1
		ORDER BY created_at`,
		householdID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loans := make([]*domain.Loan, 0)
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

// Update updates a loan's terms and schedule
func (r *LoanRepository) Update(loan *domain.Loan) (*domain.Loan, error) {
	ctx := context.Background()

	schedule, err := json.Marshal(loan.Schedule)
	if err != nil {
		return nil, fmt.Errorf("marshal schedule: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE loans
		SET name = $3, principal = $4, rate = $5, years = $6, start_year_bs = $7,
		    start_month_bs = $8, extra_principal = $9, schedule = $10, updated_at = now()
		WHERE id = $1 AND household_id = $2
		RETURNING `+loanColumns,
		loan.ID, loan.HouseholdID, loan.Name, loan.Principal, loan.Rate, loan.Years,
		loan.StartYearBS, loan.StartMonthBS, loan.ExtraPrincipal, schedule,
	)
	updated, err := scanLoan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLoanNotFound
	}
	return updated, err
}

// UpdateSchedule replaces only the stored schedule document
func (r *LoanRepository) UpdateSchedule(householdID int32, id uuid.UUID, schedule []domain.ScheduleEntry) error {
	ctx := context.Background()

	doc, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE loans
		SET schedule = $3, updated_at = now()
		WHERE id = $1 AND household_id = $2`,
		id, householdID, doc,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}
	return nil
}

// Delete removes a loan
func (r *LoanRepository) Delete(householdID int32, id uuid.UUID) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM loans
		WHERE id = $1 AND household_id = $2`,
		id, householdID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}
	return nil
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var (
		loan      domain.Loan
		schedule  []byte
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(
		&loan.ID, &loan.HouseholdID, &loan.Name, &loan.Principal, &loan.Rate, &loan.Years,
		&loan.StartYearBS, &loan.StartMonthBS, &loan.ExtraPrincipal, &schedule,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(schedule) > 0 {
		if err := json.Unmarshal(schedule, &loan.Schedule); err != nil {
			return nil, fmt.Errorf("unmarshal schedule: %w", err)
		}
	}
	loan.CreatedAt = createdAt
	loan.UpdatedAt = updatedAt
	return &loan, nil
}
