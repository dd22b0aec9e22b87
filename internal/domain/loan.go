package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rsubedi/hisab/hisab-backend/internal/calendar"
)

var (
	ErrLoanNotFound         = errors.New("loan not found")
	ErrLoanNameEmpty        = errors.New("loan name is required")
	ErrLoanNameTooLong      = errors.New("loan name must be 200 characters or less")
	ErrLoanPrincipalInvalid = errors.New("loan principal must be positive")
	ErrLoanRateInvalid      = errors.New("loan interest rate must not be negative")
	ErrLoanYearsInvalid     = errors.New("loan term must be at least 1 year")
	ErrLoanStartInvalid     = errors.New("loan start month must be between 1 and 12")
	ErrLoanExtraInvalid     = errors.New("extra principal must not be negative")
	ErrPaymentNotFound      = errors.New("schedule entry not found")
	ErrPaymentStatusInvalid = errors.New("invalid payment status")
)

// PaymentStatus is the externally-owned state of a schedule entry. The
// engine only ever emits pending; paid and skipped are asserted by users.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusSkipped PaymentStatus = "skipped"
)

// IsValid reports whether s is one of the known payment statuses.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusSkipped:
		return true
	}
	return false
}

// ScheduleEntry is one amortization period. Month is the 1-based sequence
// index within the schedule, not a calendar month; the due period is
// resolved against the loan's start via calendar.PaymentDate.
type ScheduleEntry struct {
	Month       int           `json:"month"`
	Payment     float64       `json:"payment"`
	Principal   float64       `json:"principal"`
	Interest    float64       `json:"interest"`
	Balance     float64       `json:"balance"`
	Status      PaymentStatus `json:"status"`
	PaymentDate *time.Time    `json:"paymentDate,omitempty"`
}

// Loan is a borrowing agreement tracked against the BS calendar.
// Schedule is derived from the other fields and regenerated whenever
// principal, rate, years, or the start period change.
type Loan struct {
	ID             uuid.UUID       `json:"id"`
	HouseholdID    int32           `json:"householdId"`
	Name           string          `json:"name"`
	Principal      float64         `json:"principal"`
	Rate           float64         `json:"rate"`
	Years          int             `json:"years"`
	StartYearBS    int             `json:"startDateYear"`
	StartMonthBS   int             `json:"startDateMonth"`
	ExtraPrincipal float64         `json:"extraPrincipal"`
	Schedule       []ScheduleEntry `json:"schedule,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (l *Loan) Validate() error {
	if l.Name == "" {
		return ErrLoanNameEmpty
	}
	if len(l.Name) > MaxNameLength {
		return ErrLoanNameTooLong
	}
	if l.Principal <= 0 {
		return ErrLoanPrincipalInvalid
	}
	if l.Rate < 0 {
		return ErrLoanRateInvalid
	}
	if l.Years < 1 {
		return ErrLoanYearsInvalid
	}
	if l.StartMonthBS < 1 || l.StartMonthBS > 12 {
		return ErrLoanStartInvalid
	}
	if l.ExtraPrincipal < 0 {
		return ErrLoanExtraInvalid
	}
	return nil
}

// Start returns the first payment period.
func (l *Loan) Start() calendar.YearMonth {
	return calendar.YearMonth{Year: l.StartYearBS, Month: l.StartMonthBS}
}

// TermMonths returns the nominal number of payment periods.
func (l *Loan) TermMonths() int {
	return l.Years * 12
}

// DuePayment pairs a schedule entry with its resolved due period.
type DuePayment struct {
	ScheduleEntry
	DueDate calendar.YearMonth `json:"dueDate"`
}

// LoanStatus is a derived snapshot of a loan relative to a target period.
// It is never stored; recompute it for every query.
type LoanStatus struct {
	EMI                       float64      `json:"emi"`
	StartBalance              float64      `json:"startBalance"`
	EndBalance                float64      `json:"endBalance"`
	InterestPaid              float64      `json:"interestPaid"`
	PrincipalPaid             float64      `json:"principalPaid"`
	ExtraPrincipal            float64      `json:"extraPrincipal"`
	PaymentsMadeTotal         int          `json:"paymentsMadeTotal"`
	PaymentsRemaining         int          `json:"paymentsRemaining"`
	CurrentOutstandingBalance float64      `json:"currentOutstandingBalance"`
	IsPaidOff                 bool         `json:"isPaidOff"`
	NextPayment               *DuePayment  `json:"nextPayment,omitempty"`
	OverduePayments           []DuePayment `json:"overduePayments"`
}

type LoanRepository interface {
	Create(loan *Loan) (*Loan, error)
	GetByID(householdID int32, id uuid.UUID) (*Loan, error)
	GetAllByHousehold(householdID int32) ([]*Loan, error)
	Update(loan *Loan) (*Loan, error)
	UpdateSchedule(householdID int32, id uuid.UUID, schedule []ScheduleEntry) error
	Delete(householdID int32, id uuid.UUID) error
}
