package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// periodGap is the smallest time unit between consecutive periods: period n
// starts exactly one second after period n-1 ends.
const periodGap = time.Second

// GeneratePeriods partitions everything before asOf into contiguous payroll
// periods for one employer and persists each period together with all of its
// payments as a single transactional unit. Candidate windows containing no
// clock records are discarded without ever touching the database.
//
// Runs for the same employer are serialized through the store's employer
// lock; the loop itself is a read-modify-write on the last period boundary.
func (s *Service) GeneratePeriods(ctx context.Context, employerID string, asOf time.Time) ([]PeriodWithPayments, error) {
	employer, err := s.store.GetEmployer(ctx, employerID)
	if err != nil {
		return nil, err
	}
	if employer.PeriodType != PeriodTypeDays {
		return nil, ErrUnsupportedPeriodType
	}
	if employer.PeriodLength <= 0 {
		return nil, fmt.Errorf("employer %s has invalid payroll period length %d", employer.ID, employer.PeriodLength)
	}

	var committed []PeriodWithPayments
	discarded := 0
	err = s.store.WithEmployerLock(ctx, employerID, func(ctx context.Context) error {
		lastEnd, found, err := s.store.LastPeriodEnding(ctx, employerID)
		if err != nil {
			return err
		}
		if !found {
			// No periods yet: generate since the employer joined, with the
			// first period starting at the configured anchor time-of-day.
			anchored, err := anchorToClock(employer.CreatedAt, employer.PeriodStartAt)
			if err != nil {
				return err
			}
			lastEnd = anchored.Add(-periodGap)
		}

		length := time.Duration(employer.PeriodLength) * 24 * time.Hour
		endingAt := lastEnd.Add(length)
		for endingAt.Before(asOf) {
			startingAt := endingAt.Add(-length).Add(periodGap)
			period := Period{
				EmployerID: employer.ID,
				StartingAt: startingAt,
				EndingAt:   endingAt,
				Length:     employer.PeriodLength,
				LengthType: employer.PeriodType,
				Status:     PeriodStatusOpen,
			}

			records, err := s.store.ClockRecordsOverlapping(ctx, employer.ID, startingAt, endingAt)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				discarded++
			} else {
				payments := ComputePayments(period, records)
				if err := s.store.CommitPeriod(ctx, &period, payments); err != nil {
					return fmt.Errorf("commit period [%s, %s] for employer %s: %w",
						startingAt.Format(time.RFC3339), endingAt.Format(time.RFC3339), employer.ID, err)
				}
				committed = append(committed, PeriodWithPayments{Period: period, Payments: payments})
			}

			endingAt = endingAt.Add(length)
		}
		return nil
	})

	s.recordGeneration(len(committed), discarded, err != nil)
	if err != nil {
		// Periods committed in earlier iterations stand; only the in-flight
		// period was rolled back by the store.
		return committed, err
	}
	return committed, nil
}

// GenerateAllPeriods runs generation for every employer. A failure aborts
// only that employer's loop; the sweep continues and the errors are joined.
func (s *Service) GenerateAllPeriods(ctx context.Context, asOf time.Time) ([]PeriodWithPayments, error) {
	employerIDs, err := s.store.ListEmployerIDs(ctx)
	if err != nil {
		return nil, err
	}

	var all []PeriodWithPayments
	var errs []error
	for _, employerID := range employerIDs {
		periods, err := s.GeneratePeriods(ctx, employerID, asOf)
		all = append(all, periods...)
		if err != nil {
			errs = append(errs, fmt.Errorf("employer %s: %w", employerID, err))
		}
	}
	return all, errors.Join(errs...)
}

// anchorToClock replaces the clock fields of t with the employer's configured
// period starting time, keeping the calendar day.
func anchorToClock(t time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse(clockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid payroll period starting time %q: %w", clock, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), parsed.Hour(), parsed.Minute(), parsed.Second(), 0, t.Location()), nil
}
