package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

var secondsPerHour = decimal.NewFromInt(3600)

// ComputePayments derives one payment per clock record against the period
// window. Both the worked interval and the scheduled shift are clipped to the
// window; overtime is the positive excess of worked hours over scheduled
// hours, never negative. Nothing is persisted here.
func ComputePayments(period Period, records []ClockRecord) []Payment {
	var payments []Payment
	for _, record := range records {
		payments = append(payments, computePayment(period, record))
	}
	return payments
}

func computePayment(period Period, record ClockRecord) Payment {
	effectiveStart := laterOf(record.StartedAt, period.StartingAt)
	effectiveEnd := earlierOf(record.EndedAt, period.EndingAt)
	regular := hoursBetween(effectiveStart, effectiveEnd)

	projectedStart := laterOf(record.Shift.StartingAt, period.StartingAt)
	projectedEnd := earlierOf(record.Shift.EndingAt, period.EndingAt)
	projected := hoursBetween(projectedStart, projectedEnd)

	overTime := decimal.Zero
	if regular.GreaterThan(projected) {
		overTime = regular.Sub(projected)
	}

	return Payment{
		PeriodID:     period.ID,
		EmployeeID:   record.EmployeeID,
		ShiftID:      record.ShiftID,
		RegularHours: regular,
		OverTime:     overTime,
		HourlyRate:   record.Shift.MinimumHourlyRate,
		TotalAmount:  record.Shift.MinimumHourlyRate.Mul(regular),
		Splitted:     !effectiveStart.Equal(record.StartedAt) || !effectiveEnd.Equal(record.EndedAt),
	}
}

// hoursBetween is exact elapsed-seconds divided by 3600; rounding is left to
// presentation.
func hoursBetween(start, end time.Time) decimal.Decimal {
	if end.Before(start) {
		return decimal.Zero
	}
	return decimal.NewFromInt(end.Unix() - start.Unix()).Div(secondsPerHour)
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
