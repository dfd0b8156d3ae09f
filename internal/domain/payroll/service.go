package payroll

import (
	"context"
	"time"
)

// GenerationMetrics receives counters from period generation runs. The
// platform metrics collector implements it; a nil value disables reporting.
type GenerationMetrics interface {
	RecordGeneration(committed, discarded int, failed bool)
}

type Service struct {
	store   StoreAPI
	Metrics GenerationMetrics
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) ListPeriods(ctx context.Context, filter PeriodFilter, limit, offset int) ([]Period, int, error) {
	total, err := s.store.CountPeriods(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	periods, err := s.store.ListPeriods(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return periods, total, nil
}

func (s *Service) GetPeriod(ctx context.Context, periodID string) (PeriodWithPayments, error) {
	if periodID == "" {
		return PeriodWithPayments{}, ErrMissingParameter
	}
	period, err := s.store.GetPeriod(ctx, periodID)
	if err != nil {
		return PeriodWithPayments{}, err
	}
	payments, err := s.store.ListPaymentsForPeriod(ctx, periodID)
	if err != nil {
		return PeriodWithPayments{}, err
	}
	return PeriodWithPayments{Period: period, Payments: payments}, nil
}

// EmployeePayments lists the persisted payments for one talent from a start
// date on, optionally narrowed to a single employer. Talent and start date
// are mandatory.
func (s *Service) EmployeePayments(ctx context.Context, employeeID string, from time.Time, employerID string) ([]Payment, error) {
	if employeeID == "" || from.IsZero() {
		return nil, ErrMissingParameter
	}
	return s.store.ListEmployeePayments(ctx, employeeID, employerID, from)
}

func (s *Service) recordGeneration(committed, discarded int, failed bool) {
	if s.Metrics == nil {
		return
	}
	s.Metrics.RecordGeneration(committed, discarded, failed)
}
