package payroll

import (
	"context"
	"time"
)

type StoreAPI interface {
	GetEmployer(ctx context.Context, employerID string) (Employer, error)
	ListEmployerIDs(ctx context.Context) ([]string, error)
	LastPeriodEnding(ctx context.Context, employerID string) (time.Time, bool, error)
	ClockRecordsOverlapping(ctx context.Context, employerID string, start, end time.Time) ([]ClockRecord, error)
	ClockRecordsWithin(ctx context.Context, employerID, employeeID string, start, end time.Time) ([]ClockRecord, error)
	ClockRecordsCrossing(ctx context.Context, employerID, employeeID string, boundary time.Time) ([]ClockRecord, error)
	CommitPeriod(ctx context.Context, period *Period, payments []Payment) error
	GetPeriod(ctx context.Context, periodID string) (Period, error)
	ListPeriods(ctx context.Context, filter PeriodFilter, limit, offset int) ([]Period, error)
	CountPeriods(ctx context.Context, filter PeriodFilter) (int, error)
	ListPaymentsForPeriod(ctx context.Context, periodID string) ([]Payment, error)
	ListEmployeePayments(ctx context.Context, employeeID, employerID string, from time.Time) ([]Payment, error)
	WithEmployerLock(ctx context.Context, employerID string, fn func(context.Context) error) error
}
