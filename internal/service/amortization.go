package service

import (
	"math"
	"sort"

	"github.com/rsubedi/hisab/hisab-backend/internal/calendar"
	"github.com/rsubedi/hisab/hisab-backend/internal/domain"
)

// BalanceEpsilon is the threshold under which a remaining balance is
// treated as fully repaid.
const BalanceEpsilon = 0.01

// CalculateEMI returns the fixed monthly installment for a loan.
// annualRate is a percentage (10.0 means 10%). Returns 0 for degenerate
// inputs (non-positive principal, term, or rate); callers must treat a 0
// result as "not amortizable", not as a real zero payment.
func CalculateEMI(principal, annualRate float64, years int) float64 {
	rate := annualRate / 12 / 100
	months := years * 12

	if principal <= 0 || months <= 0 || rate <= 0 {
		return 0
	}

	power := math.Pow(1+rate, float64(months))
	return principal * rate * power / (power - 1)
}

// GenerateLoanSchedule builds the full amortization schedule for the given
// terms. It returns an empty schedule when the EMI is degenerate. The
// final period is trued up so the last payment never exceeds the remaining
// balance plus interest, and stored balances within BalanceEpsilon of zero
// are clamped to 0.
func GenerateLoanSchedule(principal, annualRate float64, years int) []domain.ScheduleEntry {
	monthlyRate := annualRate / 12 / 100
	totalMonths := years * 12
	emi := CalculateEMI(principal, annualRate, years)

	if emi == 0 {
		return []domain.ScheduleEntry{}
	}

	balance := principal
	schedule := make([]domain.ScheduleEntry, 0, totalMonths)

	for i := 0; i < totalMonths; i++ {
		if balance <= BalanceEpsilon {
			break
		}

		interest := balance * monthlyRate
		principalPayment := emi - interest
		payment := emi

		if balance < emi {
			principalPayment = balance
			payment = balance + interest
		}

		balance -= principalPayment

		stored := balance
		if stored < BalanceEpsilon {
			stored = 0
		}

		schedule = append(schedule, domain.ScheduleEntry{
			Month:     i + 1,
			Payment:   payment,
			Principal: principalPayment,
			Interest:  interest,
			Balance:   stored,
			Status:    domain.PaymentStatusPending,
		})
	}

	return schedule
}

// CalculateLoanStatus derives the point-in-time status of a loan relative
// to the target BS period. Schedule entries are expected in ascending
// Month order; an unsorted schedule is sorted on a copy before evaluation
// so the first-unpaid selection stays correct.
func CalculateLoanStatus(loan *domain.Loan, target calendar.YearMonth) domain.LoanStatus {
	emi := CalculateEMI(loan.Principal, loan.Rate, loan.Years)

	if len(loan.Schedule) == 0 {
		return domain.LoanStatus{
			EMI:                       emi,
			CurrentOutstandingBalance: loan.Principal,
			IsPaidOff:                 loan.Principal <= 0,
			OverduePayments:           []domain.DuePayment{},
		}
	}

	schedule := loan.Schedule
	if !sort.SliceIsSorted(schedule, func(i, j int) bool { return schedule[i].Month < schedule[j].Month }) {
		sorted := make([]domain.ScheduleEntry, len(schedule))
		copy(sorted, schedule)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Month < sorted[j].Month })
		schedule = sorted
	}

	start := loan.Start()

	paymentsMade := 0
	var nextPayment *domain.DuePayment
	overdue := []domain.DuePayment{}

	for _, entry := range schedule {
		if entry.Status == domain.PaymentStatusPaid {
			paymentsMade++
			continue
		}

		dueDate := calendar.PaymentDate(start, entry.Month)
		if dueDate.Before(target) {
			overdue = append(overdue, domain.DuePayment{ScheduleEntry: entry, DueDate: dueDate})
		} else if nextPayment == nil {
			nextPayment = &domain.DuePayment{ScheduleEntry: entry, DueDate: dueDate}
		}
	}

	// Outstanding balance comes from the latest paid entry only.
	outstanding := loan.Principal
	for i := len(schedule) - 1; i >= 0; i-- {
		if schedule[i].Status == domain.PaymentStatusPaid {
			outstanding = schedule[i].Balance
			break
		}
	}

	isPaidOff := outstanding <= BalanceEpsilon && len(overdue) == 0

	// The entry due in the target period itself, paid or not, sources the
	// period's interest and scheduled principal figures.
	var interestPaid, principalPaid float64
	for _, entry := range schedule {
		if calendar.PaymentDate(start, entry.Month).Compare(target) == 0 {
			interestPaid = entry.Interest
			principalPaid = entry.Principal
			break
		}
	}

	return domain.LoanStatus{
		EMI:                       emi,
		StartBalance:              outstanding,
		EndBalance:                outstanding,
		InterestPaid:              interestPaid,
		PrincipalPaid:             principalPaid + loan.ExtraPrincipal,
		ExtraPrincipal:            loan.ExtraPrincipal,
		PaymentsMadeTotal:         paymentsMade,
		PaymentsRemaining:         loan.TermMonths() - paymentsMade,
		CurrentOutstandingBalance: outstanding,
		IsPaidOff:                 isPaidOff,
		NextPayment:               nextPayment,
		OverduePayments:           overdue,
	}
}
