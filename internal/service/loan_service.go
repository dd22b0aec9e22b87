package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rsubedi/hisab/hisab-backend/internal/calendar"
	"github.com/rsubedi/hisab/hisab-backend/internal/domain"
)

// LoanService handles loan business logic
type LoanService struct {
	loanRepo domain.LoanRepository
}

// NewLoanService creates a new LoanService
func NewLoanService(loanRepo domain.LoanRepository) *LoanService {
	return &LoanService{loanRepo: loanRepo}
}

// CreateLoanInput contains input for creating a loan
type CreateLoanInput struct {
	Name           string
	Principal      float64
	Rate           float64
	Years          int
	StartYearBS    int
	StartMonthBS   int
	ExtraPrincipal float64
}

// CreateLoan creates a loan and generates its amortization schedule
func (s *LoanService) CreateLoan(householdID int32, input CreateLoanInput) (*domain.Loan, error) {
	loan := &domain.Loan{
		ID:             uuid.New(),
		HouseholdID:    householdID,
		Name:           strings.TrimSpace(input.Name),
		Principal:      input.Principal,
		Rate:           input.Rate,
		Years:          input.Years,
		StartYearBS:    input.StartYearBS,
		StartMonthBS:   input.StartMonthBS,
		ExtraPrincipal: input.ExtraPrincipal,
	}

	if err := loan.Validate(); err != nil {
		return nil, err
	}

	loan.Schedule = GenerateLoanSchedule(loan.Principal, loan.Rate, loan.Years)

	return s.loanRepo.Create(loan)
}

// UpdateLoanInput contains input for updating a loan
type UpdateLoanInput struct {
	Name           string
	Principal      float64
	Rate           float64
	Years          int
	StartYearBS    int
	StartMonthBS   int
	ExtraPrincipal float64
}

// UpdateLoan updates a loan. When principal, rate, term, or the start
// period change, the schedule is regenerated; paid and skipped marks are
// carried over by sequence index so user-asserted history survives an
// edit to the loan terms.
func (s *LoanService) UpdateLoan(householdID int32, id uuid.UUID, input UpdateLoanInput) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(householdID, id)
	if err != nil {
		return nil, err
	}

	coreChanged := loan.Principal != input.Principal ||
		loan.Rate != input.Rate ||
		loan.Years != input.Years ||
		loan.StartYearBS != input.StartYearBS ||
		loan.StartMonthBS != input.StartMonthBS

	loan.Name = strings.TrimSpace(input.Name)
	loan.Principal = input.Principal
	loan.Rate = input.Rate
	loan.Years = input.Years
	loan.StartYearBS = input.StartYearBS
	loan.StartMonthBS = input.StartMonthBS
	loan.ExtraPrincipal = input.ExtraPrincipal

	if err := loan.Validate(); err != nil {
		return nil, err
	}

	if coreChanged {
		regenerated := GenerateLoanSchedule(loan.Principal, loan.Rate, loan.Years)
		carryOverPaymentMarks(loan.Schedule, regenerated)
		loan.Schedule = regenerated
	}

	return s.loanRepo.Update(loan)
}

// carryOverPaymentMarks copies user-asserted status and payment dates from
// the old schedule onto the regenerated one, matched by sequence index.
func carryOverPaymentMarks(old, regenerated []domain.ScheduleEntry) {
	for i := range regenerated {
		if i >= len(old) {
			return
		}
		if old[i].Status != domain.PaymentStatusPending {
			regenerated[i].Status = old[i].Status
			regenerated[i].PaymentDate = old[i].PaymentDate
		}
	}
}

// GetLoans retrieves all loans for a household
func (s *LoanService) GetLoans(householdID int32) ([]*domain.Loan, error) {
	return s.loanRepo.GetAllByHousehold(householdID)
}

// GetLoanByID retrieves a loan by ID within a household
func (s *LoanService) GetLoanByID(householdID int32, id uuid.UUID) (*domain.Loan, error) {
	return s.loanRepo.GetByID(householdID, id)
}

// DeleteLoan removes a loan together with its schedule
func (s *LoanService) DeleteLoan(householdID int32, id uuid.UUID) error {
	// Verify loan exists before deleting
	_, err := s.loanRepo.GetByID(householdID, id)
	if err != nil {
		return err
	}
	return s.loanRepo.Delete(householdID, id)
}

// SetPaymentStatus marks one schedule entry paid, skipped, or pending
// again. The payment timestamp is recorded only on the transition to paid.
func (s *LoanService) SetPaymentStatus(householdID int32, id uuid.UUID, month int, status domain.PaymentStatus) (*domain.Loan, error) {
	if !status.IsValid() {
		return nil, domain.ErrPaymentStatusInvalid
	}

	loan, err := s.loanRepo.GetByID(householdID, id)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range loan.Schedule {
		if loan.Schedule[i].Month != month {
			continue
		}
		loan.Schedule[i].Status = status
		if status == domain.PaymentStatusPaid {
			now := time.Now()
			loan.Schedule[i].PaymentDate = &now
		} else {
			loan.Schedule[i].PaymentDate = nil
		}
		found = true
		break
	}
	if !found {
		return nil, domain.ErrPaymentNotFound
	}

	if err := s.loanRepo.UpdateSchedule(householdID, id, loan.Schedule); err != nil {
		return nil, err
	}
	return loan, nil
}

// GetLoanStatus computes the status of one loan for the target BS period
func (s *LoanService) GetLoanStatus(householdID int32, id uuid.UUID, target calendar.YearMonth) (*domain.Loan, domain.LoanStatus, error) {
	loan, err := s.loanRepo.GetByID(householdID, id)
	if err != nil {
		return nil, domain.LoanStatus{}, err
	}
	return loan, CalculateLoanStatus(loan, target), nil
}

// GetLoanStatuses computes statuses for every loan in the household
func (s *LoanService) GetLoanStatuses(householdID int32, target calendar.YearMonth) ([]domain.LoanWithStatus, error) {
	loans, err := s.loanRepo.GetAllByHousehold(householdID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.LoanWithStatus, len(loans))
	for i, loan := range loans {
		result[i] = domain.LoanWithStatus{
			Loan:   loan,
			Status: CalculateLoanStatus(loan, target),
		}
	}
	return result, nil
}
