package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func ts(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

func TestComputePaymentOvertime(t *testing.T) {
	period := Period{
		ID:         "per-1",
		StartingAt: ts(2023, time.January, 1, 0, 0, 0),
		EndingAt:   ts(2023, time.January, 7, 23, 59, 59),
	}
	rate := decimal.NewFromInt(15)
	record := ClockRecord{
		ID:         "clk-1",
		EmployeeID: "emp-1",
		ShiftID:    "shf-1",
		StartedAt:  ts(2023, time.January, 3, 8, 0, 0),
		EndedAt:    ts(2023, time.January, 3, 16, 0, 0),
		Shift: ScheduledShift{
			StartingAt:        ts(2023, time.January, 3, 8, 0, 0),
			EndingAt:          ts(2023, time.January, 3, 15, 0, 0),
			MinimumHourlyRate: rate,
		},
	}

	payments := ComputePayments(period, []ClockRecord{record})
	if len(payments) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(payments))
	}
	p := payments[0]
	if !p.RegularHours.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("expected 8 regular hours, got %s", p.RegularHours)
	}
	if !p.OverTime.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected 1 overtime hour, got %s", p.OverTime)
	}
	if !p.TotalAmount.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected total 120, got %s", p.TotalAmount)
	}
	if p.Splitted {
		t.Fatalf("expected payment not to be splitted")
	}
	if p.PeriodID != "per-1" || p.EmployeeID != "emp-1" || p.ShiftID != "shf-1" {
		t.Fatalf("unexpected payment identity: %+v", p)
	}
}

func TestComputePaymentClipsToPeriod(t *testing.T) {
	period := Period{
		StartingAt: ts(2023, time.January, 7, 0, 0, 0),
		EndingAt:   ts(2023, time.January, 10, 23, 59, 59),
	}
	record := ClockRecord{
		StartedAt: ts(2023, time.January, 5, 0, 0, 0),
		EndedAt:   ts(2023, time.January, 9, 0, 0, 0),
		Shift: ScheduledShift{
			StartingAt:        ts(2023, time.January, 5, 0, 0, 0),
			EndingAt:          ts(2023, time.January, 9, 0, 0, 0),
			MinimumHourlyRate: decimal.NewFromInt(10),
		},
	}

	p := ComputePayments(period, []ClockRecord{record})[0]
	if !p.RegularHours.Equal(decimal.NewFromInt(48)) {
		t.Fatalf("expected 48 regular hours after clipping, got %s", p.RegularHours)
	}
	if !p.Splitted {
		t.Fatalf("expected a clipped record to be marked splitted")
	}
	if !p.OverTime.Equal(decimal.Zero) {
		t.Fatalf("expected no overtime, got %s", p.OverTime)
	}
}

func TestComputePaymentOvertimeNeverNegative(t *testing.T) {
	period := Period{
		StartingAt: ts(2023, time.January, 1, 0, 0, 0),
		EndingAt:   ts(2023, time.January, 7, 23, 59, 59),
	}
	record := ClockRecord{
		StartedAt: ts(2023, time.January, 2, 9, 0, 0),
		EndedAt:   ts(2023, time.January, 2, 12, 0, 0),
		Shift: ScheduledShift{
			StartingAt:        ts(2023, time.January, 2, 9, 0, 0),
			EndingAt:          ts(2023, time.January, 2, 17, 0, 0),
			MinimumHourlyRate: decimal.NewFromInt(12),
		},
	}

	p := ComputePayments(period, []ClockRecord{record})[0]
	if !p.RegularHours.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("expected 3 regular hours, got %s", p.RegularHours)
	}
	if !p.OverTime.Equal(decimal.Zero) {
		t.Fatalf("expected zero overtime for under-worked shift, got %s", p.OverTime)
	}
}

func TestComputePaymentFractionalHours(t *testing.T) {
	period := Period{
		StartingAt: ts(2023, time.March, 1, 0, 0, 0),
		EndingAt:   ts(2023, time.March, 7, 23, 59, 59),
	}
	record := ClockRecord{
		StartedAt: ts(2023, time.March, 2, 9, 0, 0),
		EndedAt:   ts(2023, time.March, 2, 9, 45, 0),
		Shift: ScheduledShift{
			StartingAt:        ts(2023, time.March, 2, 9, 0, 0),
			EndingAt:          ts(2023, time.March, 2, 10, 0, 0),
			MinimumHourlyRate: decimal.NewFromInt(20),
		},
	}

	p := ComputePayments(period, []ClockRecord{record})[0]
	if !p.RegularHours.Equal(decimal.RequireFromString("0.75")) {
		t.Fatalf("expected 0.75 regular hours, got %s", p.RegularHours)
	}
	if !p.TotalAmount.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("expected total 15, got %s", p.TotalAmount)
	}
}
