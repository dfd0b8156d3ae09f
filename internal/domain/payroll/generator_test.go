package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// fakeStore drives the generation loop in memory. CommitPeriod advances the
// last period boundary the way the real store does, so repeated runs see
// their own output.
type fakeStore struct {
	employer   Employer
	records    []ClockRecord
	lastEnding time.Time
	hasPeriods bool

	committed  []Period
	commitErrs []error // popped per commit; nil means success
	lockCalls  int
}

func (f *fakeStore) GetEmployer(ctx context.Context, employerID string) (Employer, error) {
	if employerID != f.employer.ID {
		return Employer{}, ErrEmployerNotFound
	}
	return f.employer, nil
}

func (f *fakeStore) ListEmployerIDs(ctx context.Context) ([]string, error) {
	return []string{f.employer.ID}, nil
}

func (f *fakeStore) LastPeriodEnding(ctx context.Context, employerID string) (time.Time, bool, error) {
	return f.lastEnding, f.hasPeriods, nil
}

func (f *fakeStore) ClockRecordsOverlapping(ctx context.Context, employerID string, start, end time.Time) ([]ClockRecord, error) {
	var out []ClockRecord
	for _, r := range f.records {
		if !r.StartedAt.After(end) && !r.EndedAt.Before(start) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) ClockRecordsWithin(ctx context.Context, employerID, employeeID string, start, end time.Time) ([]ClockRecord, error) {
	var out []ClockRecord
	for _, r := range f.records {
		if employeeID != "" && r.EmployeeID != employeeID {
			continue
		}
		if !r.StartedAt.Before(start) && !r.EndedAt.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) ClockRecordsCrossing(ctx context.Context, employerID, employeeID string, boundary time.Time) ([]ClockRecord, error) {
	var out []ClockRecord
	for _, r := range f.records {
		if employeeID != "" && r.EmployeeID != employeeID {
			continue
		}
		if !r.StartedAt.After(boundary) && !r.EndedAt.Before(boundary) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) CommitPeriod(ctx context.Context, period *Period, payments []Payment) error {
	if len(f.commitErrs) > 0 {
		err := f.commitErrs[0]
		f.commitErrs = f.commitErrs[1:]
		if err != nil {
			return err
		}
	}
	period.ID = "per-fake"
	f.committed = append(f.committed, *period)
	f.lastEnding = period.EndingAt
	f.hasPeriods = true
	return nil
}

func (f *fakeStore) GetPeriod(ctx context.Context, periodID string) (Period, error) {
	for _, p := range f.committed {
		if p.ID == periodID {
			return p, nil
		}
	}
	return Period{}, ErrPeriodNotFound
}

func (f *fakeStore) ListPeriods(ctx context.Context, filter PeriodFilter, limit, offset int) ([]Period, error) {
	return f.committed, nil
}

func (f *fakeStore) CountPeriods(ctx context.Context, filter PeriodFilter) (int, error) {
	return len(f.committed), nil
}

func (f *fakeStore) ListPaymentsForPeriod(ctx context.Context, periodID string) ([]Payment, error) {
	return nil, nil
}

func (f *fakeStore) ListEmployeePayments(ctx context.Context, employeeID, employerID string, from time.Time) ([]Payment, error) {
	return nil, nil
}

func (f *fakeStore) WithEmployerLock(ctx context.Context, employerID string, fn func(context.Context) error) error {
	f.lockCalls++
	return fn(ctx)
}

func weeklyEmployer() Employer {
	return Employer{
		ID:            "org-1",
		Name:          "Test Kitchen",
		PeriodLength:  7,
		PeriodType:    PeriodTypeDays,
		PeriodStartAt: "00:00:00",
		CreatedAt:     ts(2023, time.January, 1, 0, 0, 0),
	}
}

func shiftRecord(employeeID string, start, end time.Time) ClockRecord {
	return ClockRecord{
		ID:         "clk-" + employeeID,
		EmployeeID: employeeID,
		ShiftID:    "shf-" + employeeID,
		StartedAt:  start,
		EndedAt:    end,
		Shift: ScheduledShift{
			StartingAt:        start,
			EndingAt:          end,
			MinimumHourlyRate: decimal.NewFromInt(15),
		},
	}
}

func TestGeneratePeriodsFirstPeriodAnchoredToJoinDate(t *testing.T) {
	store := &fakeStore{
		employer: weeklyEmployer(),
		records: []ClockRecord{
			shiftRecord("emp-1", ts(2023, time.January, 3, 8, 0, 0), ts(2023, time.January, 3, 16, 0, 0)),
		},
	}
	svc := NewService(store)

	periods, err := svc.GeneratePeriods(context.Background(), "org-1", ts(2023, time.January, 10, 0, 0, 0))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(periods))
	}
	p := periods[0]
	if !p.StartingAt.Equal(ts(2023, time.January, 1, 0, 0, 0)) {
		t.Fatalf("expected period to start 2023-01-01T00:00:00, got %s", p.StartingAt)
	}
	if !p.EndingAt.Equal(ts(2023, time.January, 7, 23, 59, 59)) {
		t.Fatalf("expected period to end 2023-01-07T23:59:59, got %s", p.EndingAt)
	}
	if p.Status != PeriodStatusOpen {
		t.Fatalf("expected OPEN status, got %s", p.Status)
	}
	if len(p.Payments) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(p.Payments))
	}
	if !p.Payments[0].RegularHours.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("expected 8 regular hours, got %s", p.Payments[0].RegularHours)
	}
	if store.lockCalls != 1 {
		t.Fatalf("expected the employer lock to be taken once, got %d", store.lockCalls)
	}
}

func TestGeneratePeriodsAnchorsToConfiguredStartingTime(t *testing.T) {
	employer := weeklyEmployer()
	employer.PeriodStartAt = "06:00:00"
	employer.CreatedAt = ts(2023, time.January, 1, 14, 25, 10)
	store := &fakeStore{
		employer: employer,
		records: []ClockRecord{
			shiftRecord("emp-1", ts(2023, time.January, 2, 8, 0, 0), ts(2023, time.January, 2, 12, 0, 0)),
		},
	}
	svc := NewService(store)

	periods, err := svc.GeneratePeriods(context.Background(), "org-1", ts(2023, time.January, 9, 0, 0, 0))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(periods))
	}
	if !periods[0].StartingAt.Equal(ts(2023, time.January, 1, 6, 0, 0)) {
		t.Fatalf("expected period to start at 06:00:00 on the join day, got %s", periods[0].StartingAt)
	}
	if !periods[0].EndingAt.Equal(ts(2023, time.January, 8, 5, 59, 59)) {
		t.Fatalf("expected period to end 2023-01-08T05:59:59, got %s", periods[0].EndingAt)
	}
}

func TestGeneratePeriodsAreContiguous(t *testing.T) {
	store := &fakeStore{
		employer: weeklyEmployer(),
		records: []ClockRecord{
			shiftRecord("emp-1", ts(2023, time.January, 3, 8, 0, 0), ts(2023, time.January, 3, 16, 0, 0)),
			shiftRecord("emp-2", ts(2023, time.January, 10, 8, 0, 0), ts(2023, time.January, 10, 16, 0, 0)),
			shiftRecord("emp-3", ts(2023, time.January, 18, 8, 0, 0), ts(2023, time.January, 18, 16, 0, 0)),
		},
	}
	svc := NewService(store)

	periods, err := svc.GeneratePeriods(context.Background(), "org-1", ts(2023, time.January, 25, 0, 0, 0))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(periods) != 3 {
		t.Fatalf("expected 3 periods, got %d", len(periods))
	}
	for i := 1; i < len(periods); i++ {
		want := periods[i-1].EndingAt.Add(time.Second)
		if !periods[i].StartingAt.Equal(want) {
			t.Fatalf("period %d should start at %s, got %s", i, want, periods[i].StartingAt)
		}
	}
}

func TestGeneratePeriodsSkipsEmptyWindows(t *testing.T) {
	store := &fakeStore{
		employer: weeklyEmployer(),
		records: []ClockRecord{
			// Work only in the third week; the first two windows stay empty.
			shiftRecord("emp-1", ts(2023, time.January, 18, 8, 0, 0), ts(2023, time.January, 18, 16, 0, 0)),
		},
	}
	svc := NewService(store)

	periods, err := svc.GeneratePeriods(context.Background(), "org-1", ts(2023, time.January, 25, 0, 0, 0))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(periods))
	}
	if len(store.committed) != 1 {
		t.Fatalf("expected exactly 1 committed period, got %d", len(store.committed))
	}
	// The skipped windows still advance the boundary.
	if !periods[0].StartingAt.Equal(ts(2023, time.January, 15, 0, 0, 0)) {
		t.Fatalf("expected third window start 2023-01-15, got %s", periods[0].StartingAt)
	}
}

func TestGeneratePeriodsIdempotentWhenCaughtUp(t *testing.T) {
	store := &fakeStore{
		employer: weeklyEmployer(),
		records: []ClockRecord{
			shiftRecord("emp-1", ts(2023, time.January, 3, 8, 0, 0), ts(2023, time.January, 3, 16, 0, 0)),
		},
	}
	svc := NewService(store)
	asOf := ts(2023, time.January, 10, 0, 0, 0)

	if _, err := svc.GeneratePeriods(context.Background(), "org-1", asOf); err != nil {
		t.Fatalf("expected no error on first run, got %v", err)
	}
	again, err := svc.GeneratePeriods(context.Background(), "org-1", asOf)
	if err != nil {
		t.Fatalf("expected no error on second run, got %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected no new periods on a caught-up run, got %d", len(again))
	}
	if len(store.committed) != 1 {
		t.Fatalf("expected the store to hold 1 period, got %d", len(store.committed))
	}
}

func TestGeneratePeriodsRejectsUnsupportedPeriodType(t *testing.T) {
	employer := weeklyEmployer()
	employer.PeriodType = "WEEKS"
	store := &fakeStore{employer: employer}
	svc := NewService(store)

	_, err := svc.GeneratePeriods(context.Background(), "org-1", ts(2023, time.January, 10, 0, 0, 0))
	if !errors.Is(err, ErrUnsupportedPeriodType) {
		t.Fatalf("expected ErrUnsupportedPeriodType, got %v", err)
	}
	if len(store.committed) != 0 {
		t.Fatalf("expected no committed periods, got %d", len(store.committed))
	}
}

func TestGeneratePeriodsUnknownEmployer(t *testing.T) {
	store := &fakeStore{employer: weeklyEmployer()}
	svc := NewService(store)

	_, err := svc.GeneratePeriods(context.Background(), "org-missing", ts(2023, time.January, 10, 0, 0, 0))
	if !errors.Is(err, ErrEmployerNotFound) {
		t.Fatalf("expected ErrEmployerNotFound, got %v", err)
	}
}

func TestGeneratePeriodsCommitFailureKeepsEarlierPeriods(t *testing.T) {
	boom := errors.New("insert payment: connection reset")
	store := &fakeStore{
		employer: weeklyEmployer(),
		records: []ClockRecord{
			shiftRecord("emp-1", ts(2023, time.January, 3, 8, 0, 0), ts(2023, time.January, 3, 16, 0, 0)),
			shiftRecord("emp-2", ts(2023, time.January, 10, 8, 0, 0), ts(2023, time.January, 10, 16, 0, 0)),
		},
		commitErrs: []error{nil, boom},
	}
	svc := NewService(store)

	periods, err := svc.GeneratePeriods(context.Background(), "org-1", ts(2023, time.January, 25, 0, 0, 0))
	if !errors.Is(err, boom) {
		t.Fatalf("expected commit error to surface, got %v", err)
	}
	if len(periods) != 1 {
		t.Fatalf("expected the first committed period to stand, got %d", len(periods))
	}
	if len(store.committed) != 1 {
		t.Fatalf("expected 1 period in the store, got %d", len(store.committed))
	}
}

func TestGeneratePeriodsReportsMetrics(t *testing.T) {
	store := &fakeStore{
		employer: weeklyEmployer(),
		records: []ClockRecord{
			shiftRecord("emp-1", ts(2023, time.January, 18, 8, 0, 0), ts(2023, time.January, 18, 16, 0, 0)),
		},
	}
	svc := NewService(store)
	var gotCommitted, gotDiscarded int
	var gotFailed bool
	svc.Metrics = generationMetricsFunc(func(committed, discarded int, failed bool) {
		gotCommitted, gotDiscarded, gotFailed = committed, discarded, failed
	})

	if _, err := svc.GeneratePeriods(context.Background(), "org-1", ts(2023, time.January, 25, 0, 0, 0)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotCommitted != 1 || gotDiscarded != 2 || gotFailed {
		t.Fatalf("expected committed=1 discarded=2 failed=false, got %d/%d/%v", gotCommitted, gotDiscarded, gotFailed)
	}
}

type generationMetricsFunc func(committed, discarded int, failed bool)

func (f generationMetricsFunc) RecordGeneration(committed, discarded int, failed bool) {
	f(committed, discarded, failed)
}

func TestGenerateAllPeriodsJoinsEmployerErrors(t *testing.T) {
	employer := weeklyEmployer()
	employer.PeriodType = "WEEKS"
	store := &fakeStore{employer: employer}
	svc := NewService(store)

	_, err := svc.GenerateAllPeriods(context.Background(), ts(2023, time.January, 10, 0, 0, 0))
	if !errors.Is(err, ErrUnsupportedPeriodType) {
		t.Fatalf("expected the per-employer error to be joined, got %v", err)
	}
}
