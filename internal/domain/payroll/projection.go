package payroll

import (
	"context"
	"time"
)

// ProjectPayments estimates what payments for an open or future window would
// look like, grouped by calendar day. Clock records fully inside
// [start, start+lengthDays) land in their start day's Clockins bucket; records
// straddling the end boundary land in BetweenPeriods keyed by their start day,
// which may add day keys outside the base range. Nothing is persisted.
func (s *Service) ProjectPayments(ctx context.Context, employerID string, start time.Time, lengthDays int, lengthType, employeeID string) ([]ProjectionDay, error) {
	if lengthType != PeriodTypeDays {
		return nil, ErrUnsupportedPeriodType
	}
	if employerID == "" || start.IsZero() {
		return nil, ErrMissingParameter
	}
	if lengthDays <= 0 {
		lengthDays = DefaultProjectionDays
	}
	end := start.Add(time.Duration(lengthDays) * 24 * time.Hour)

	within, err := s.store.ClockRecordsWithin(ctx, employerID, employeeID, start, end)
	if err != nil {
		return nil, err
	}
	crossing, err := s.store.ClockRecordsCrossing(ctx, employerID, employeeID, end)
	if err != nil {
		return nil, err
	}

	days := make(map[string]*ProjectionDay, lengthDays)
	order := make([]string, 0, lengthDays)
	for i := 0; i < lengthDays; i++ {
		date := start.Add(time.Duration(i) * 24 * time.Hour).Format(dateLayout)
		days[date] = &ProjectionDay{Date: date}
		order = append(order, date)
	}

	bucket := func(date string) *ProjectionDay {
		day, ok := days[date]
		if !ok {
			day = &ProjectionDay{Date: date}
			days[date] = day
			order = append(order, date)
		}
		return day
	}

	for _, record := range within {
		day := bucket(record.StartedAt.Format(dateLayout))
		day.Clockins = append(day.Clockins, record)
	}
	for _, record := range crossing {
		day := bucket(record.StartedAt.Format(dateLayout))
		day.BetweenPeriods = append(day.BetweenPeriods, record)
	}

	out := make([]ProjectionDay, 0, len(order))
	for _, date := range order {
		out = append(out, *days[date])
	}
	return out, nil
}
