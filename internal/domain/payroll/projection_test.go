package payroll

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestProjectPaymentsBucketsByDay(t *testing.T) {
	store := &fakeStore{
		employer: weeklyEmployer(),
		records: []ClockRecord{
			shiftRecord("emp-1", ts(2023, time.February, 1, 8, 0, 0), ts(2023, time.February, 1, 16, 0, 0)),
			shiftRecord("emp-2", ts(2023, time.February, 1, 9, 0, 0), ts(2023, time.February, 1, 17, 0, 0)),
			shiftRecord("emp-3", ts(2023, time.February, 3, 8, 0, 0), ts(2023, time.February, 3, 16, 0, 0)),
		},
	}
	svc := NewService(store)

	days, err := svc.ProjectPayments(context.Background(), "org-1", ts(2023, time.February, 1, 0, 0, 0), 7, PeriodTypeDays, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(days) != 7 {
		t.Fatalf("expected 7 day buckets, got %d", len(days))
	}
	if days[0].Date != "2023-02-01" {
		t.Fatalf("expected first bucket 2023-02-01, got %s", days[0].Date)
	}
	if len(days[0].Clockins) != 2 {
		t.Fatalf("expected 2 clockins on 2023-02-01, got %d", len(days[0].Clockins))
	}
	if len(days[2].Clockins) != 1 {
		t.Fatalf("expected 1 clockin on 2023-02-03, got %d", len(days[2].Clockins))
	}
	if len(days[1].Clockins) != 0 {
		t.Fatalf("expected an empty bucket on 2023-02-02, got %d", len(days[1].Clockins))
	}
}

func TestProjectPaymentsBetweenPeriods(t *testing.T) {
	store := &fakeStore{
		employer: weeklyEmployer(),
		records: []ClockRecord{
			// Straddles the end of the 7-day window (2023-02-08T00:00:00).
			shiftRecord("emp-1", ts(2023, time.February, 7, 22, 0, 0), ts(2023, time.February, 8, 6, 0, 0)),
		},
	}
	svc := NewService(store)

	days, err := svc.ProjectPayments(context.Background(), "org-1", ts(2023, time.February, 1, 0, 0, 0), 7, PeriodTypeDays, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	var day *ProjectionDay
	for i := range days {
		if days[i].Date == "2023-02-07" {
			day = &days[i]
		}
	}
	if day == nil {
		t.Fatalf("expected a 2023-02-07 bucket")
	}
	if len(day.BetweenPeriods) != 1 {
		t.Fatalf("expected 1 between-periods record, got %d", len(day.BetweenPeriods))
	}
	if len(day.Clockins) != 0 {
		t.Fatalf("expected the straddling record not to count as a plain clockin, got %d", len(day.Clockins))
	}
}

func TestProjectPaymentsAddsDayKeysOutsideWindow(t *testing.T) {
	store := &fakeStore{
		employer: weeklyEmployer(),
		records: []ClockRecord{
			// Starts on the boundary day itself, outside the base 7-day range.
			shiftRecord("emp-1", ts(2023, time.February, 8, 0, 0, 0), ts(2023, time.February, 8, 8, 0, 0)),
		},
	}
	svc := NewService(store)

	days, err := svc.ProjectPayments(context.Background(), "org-1", ts(2023, time.February, 1, 0, 0, 0), 7, PeriodTypeDays, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(days) != 8 {
		t.Fatalf("expected an extra day key beyond the base 7, got %d buckets", len(days))
	}
	last := days[len(days)-1]
	if last.Date != "2023-02-08" {
		t.Fatalf("expected appended bucket 2023-02-08, got %s", last.Date)
	}
	if len(last.BetweenPeriods) != 1 {
		t.Fatalf("expected 1 between-periods record in the extra bucket, got %d", len(last.BetweenPeriods))
	}
}

func TestProjectPaymentsFiltersByEmployee(t *testing.T) {
	store := &fakeStore{
		employer: weeklyEmployer(),
		records: []ClockRecord{
			shiftRecord("emp-1", ts(2023, time.February, 1, 8, 0, 0), ts(2023, time.February, 1, 16, 0, 0)),
			shiftRecord("emp-2", ts(2023, time.February, 1, 9, 0, 0), ts(2023, time.February, 1, 17, 0, 0)),
		},
	}
	svc := NewService(store)

	days, err := svc.ProjectPayments(context.Background(), "org-1", ts(2023, time.February, 1, 0, 0, 0), 7, PeriodTypeDays, "emp-2")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(days[0].Clockins) != 1 {
		t.Fatalf("expected 1 clockin for emp-2, got %d", len(days[0].Clockins))
	}
	if days[0].Clockins[0].EmployeeID != "emp-2" {
		t.Fatalf("expected emp-2's record, got %s", days[0].Clockins[0].EmployeeID)
	}
}

func TestProjectPaymentsDefaultsLength(t *testing.T) {
	store := &fakeStore{employer: weeklyEmployer()}
	svc := NewService(store)

	days, err := svc.ProjectPayments(context.Background(), "org-1", ts(2023, time.February, 1, 0, 0, 0), 0, PeriodTypeDays, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(days) != DefaultProjectionDays {
		t.Fatalf("expected %d default buckets, got %d", DefaultProjectionDays, len(days))
	}
}

func TestProjectPaymentsRejectsUnsupportedUnit(t *testing.T) {
	svc := NewService(&fakeStore{employer: weeklyEmployer()})

	_, err := svc.ProjectPayments(context.Background(), "org-1", ts(2023, time.February, 1, 0, 0, 0), 7, "HOURS", "")
	if !errors.Is(err, ErrUnsupportedPeriodType) {
		t.Fatalf("expected ErrUnsupportedPeriodType, got %v", err)
	}
}

func TestProjectPaymentsRequiresEmployerAndStart(t *testing.T) {
	svc := NewService(&fakeStore{employer: weeklyEmployer()})

	if _, err := svc.ProjectPayments(context.Background(), "", ts(2023, time.February, 1, 0, 0, 0), 7, PeriodTypeDays, ""); !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("expected ErrMissingParameter without employer, got %v", err)
	}
	if _, err := svc.ProjectPayments(context.Background(), "org-1", time.Time{}, 7, PeriodTypeDays, ""); !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("expected ErrMissingParameter without start, got %v", err)
	}
}

func TestEmployeePaymentsRequiresTalentAndStart(t *testing.T) {
	svc := NewService(&fakeStore{employer: weeklyEmployer()})

	if _, err := svc.EmployeePayments(context.Background(), "", ts(2023, time.February, 1, 0, 0, 0), ""); !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("expected ErrMissingParameter without talent id, got %v", err)
	}
	if _, err := svc.EmployeePayments(context.Background(), "emp-1", time.Time{}, ""); !errors.Is(err, ErrMissingParameter) {
		t.Fatalf("expected ErrMissingParameter without start date, got %v", err)
	}
}
