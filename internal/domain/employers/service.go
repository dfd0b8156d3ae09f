package employers

import (
	"context"
	"time"
)

const periodTypeDays = "DAYS"

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Employer, int, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	list, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (s *Service) Get(ctx context.Context, employerID string) (Employer, error) {
	return s.store.Get(ctx, employerID)
}

// Update applies the provided fields after validating that the resulting
// payroll settings are ones period generation can act on.
func (s *Service) Update(ctx context.Context, employerID string, in UpdateInput) (Employer, error) {
	if in.Name == nil && in.PeriodLength == nil && in.PeriodType == nil && in.PeriodStartAt == nil {
		return Employer{}, ErrNothingToUpdate
	}

	employer, err := s.store.Get(ctx, employerID)
	if err != nil {
		return Employer{}, err
	}

	if in.Name != nil {
		employer.Name = *in.Name
	}
	if in.PeriodLength != nil {
		employer.PeriodLength = *in.PeriodLength
	}
	if in.PeriodType != nil {
		employer.PeriodType = *in.PeriodType
	}
	if in.PeriodStartAt != nil {
		employer.PeriodStartAt = *in.PeriodStartAt
	}

	if employer.PeriodLength <= 0 {
		return Employer{}, ErrInvalidPeriodLength
	}
	if employer.PeriodType != periodTypeDays {
		return Employer{}, ErrInvalidPeriodType
	}
	if _, err := time.Parse("15:04:05", employer.PeriodStartAt); err != nil {
		return Employer{}, ErrInvalidStartingTime
	}

	return s.store.Update(ctx, employer)
}
