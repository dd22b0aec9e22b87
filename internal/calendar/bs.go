// Package calendar models Bikram Sambat (BS) year/month values as plain
// ordinal pairs with 12-month wraparound. No conversion to or from the
// Gregorian calendar happens here: a YearMonth is only meaningful when
// compared against other YearMonth values produced the same way.
package calendar

import "fmt"

// MonthNames holds the BS month names, index 0 = Baishakh.
var MonthNames = [12]string{
	"Baishakh", "Jestha", "Asar", "Shrawan", "Bhadra", "Asoj",
	"Kartik", "Mangsir", "Poush", "Magh", "Falgun", "Chaitra",
}

// YearMonth is a BS calendar period. Month is 1-based (1–12).
type YearMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// IsValid reports whether the month falls in the 1–12 range.
func (ym YearMonth) IsValid() bool {
	return ym.Month >= 1 && ym.Month <= 12
}

// AddMonths returns the period n months after ym. Negative n goes backward.
func (ym YearMonth) AddMonths(n int) YearMonth {
	total := ym.Year*12 + (ym.Month - 1) + n
	year := total / 12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}
	return YearMonth{Year: year, Month: month + 1}
}

// Next returns the following month.
func (ym YearMonth) Next() YearMonth {
	return ym.AddMonths(1)
}

// Prev returns the preceding month.
func (ym YearMonth) Prev() YearMonth {
	return ym.AddMonths(-1)
}

// Compare returns -1 if ym is before other, 0 if equal, 1 if after.
func (ym YearMonth) Compare(other YearMonth) int {
	a := ym.Year*12 + ym.Month
	b := other.Year*12 + other.Month
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether ym precedes other.
func (ym YearMonth) Before(other YearMonth) bool {
	return ym.Compare(other) < 0
}

func (ym YearMonth) String() string {
	if ym.IsValid() {
		return fmt.Sprintf("%s %d", MonthNames[ym.Month-1], ym.Year)
	}
	return fmt.Sprintf("%d-%02d", ym.Year, ym.Month)
}

// PaymentDate resolves the due period for the monthNumber-th payment
// (1-based) of a schedule that starts at start. The first payment falls in
// the start period itself.
func PaymentDate(start YearMonth, monthNumber int) YearMonth {
	return start.AddMonths(monthNumber - 1)
}
