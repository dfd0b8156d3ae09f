package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

func (s *Store) GetEmployer(ctx context.Context, employerID string) (Employer, error) {
	var employer Employer
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, payroll_period_length, payroll_period_type, payroll_period_starting_time, created_at
    FROM employers
    WHERE id = $1
  `, employerID).Scan(&employer.ID, &employer.Name, &employer.PeriodLength, &employer.PeriodType, &employer.PeriodStartAt, &employer.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employer{}, ErrEmployerNotFound
	}
	if err != nil {
		return Employer{}, err
	}
	return employer, nil
}

func (s *Store) ListEmployerIDs(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, "SELECT id FROM employers ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) LastPeriodEnding(ctx context.Context, employerID string) (time.Time, bool, error) {
	var ending time.Time
	err := s.DB.QueryRow(ctx, `
    SELECT ending_at
    FROM payroll_periods
    WHERE employer_id = $1
    ORDER BY starting_at DESC
    LIMIT 1
  `, employerID).Scan(&ending)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return ending, true, nil
}

const clockRecordColumns = `
    c.id, c.employee_id, c.shift_id, c.started_at, c.ended_at,
    sh.starting_at, sh.ending_at, sh.minimum_hourly_rate`

func (s *Store) ClockRecordsOverlapping(ctx context.Context, employerID string, start, end time.Time) ([]ClockRecord, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+clockRecordColumns+`
    FROM clockins c
    JOIN shifts sh ON c.shift_id = sh.id
    WHERE sh.employer_id = $1
      AND c.ended_at IS NOT NULL
      AND c.started_at <= $3
      AND c.ended_at >= $2
    ORDER BY c.started_at
  `, employerID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClockRecords(rows)
}

func (s *Store) ClockRecordsWithin(ctx context.Context, employerID, employeeID string, start, end time.Time) ([]ClockRecord, error) {
	query := `
    SELECT ` + clockRecordColumns + `
    FROM clockins c
    JOIN shifts sh ON c.shift_id = sh.id
    WHERE sh.employer_id = $1
      AND c.ended_at IS NOT NULL
      AND c.started_at >= $2
      AND c.ended_at <= $3
  `
	args := []any{employerID, start, end}
	if employeeID != "" {
		query += fmt.Sprintf(" AND c.employee_id = $%d", len(args)+1)
		args = append(args, employeeID)
	}
	query += " ORDER BY c.started_at"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClockRecords(rows)
}

func (s *Store) ClockRecordsCrossing(ctx context.Context, employerID, employeeID string, boundary time.Time) ([]ClockRecord, error) {
	query := `
    SELECT ` + clockRecordColumns + `
    FROM clockins c
    JOIN shifts sh ON c.shift_id = sh.id
    WHERE sh.employer_id = $1
      AND c.ended_at IS NOT NULL
      AND c.started_at <= $2
      AND c.ended_at >= $2
  `
	args := []any{employerID, boundary}
	if employeeID != "" {
		query += fmt.Sprintf(" AND c.employee_id = $%d", len(args)+1)
		args = append(args, employeeID)
	}
	query += " ORDER BY c.started_at"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanClockRecords(rows)
}

func scanClockRecords(rows pgx.Rows) ([]ClockRecord, error) {
	var records []ClockRecord
	for rows.Next() {
		var record ClockRecord
		if err := rows.Scan(
			&record.ID, &record.EmployeeID, &record.ShiftID, &record.StartedAt, &record.EndedAt,
			&record.Shift.StartingAt, &record.Shift.EndingAt, &record.Shift.MinimumHourlyRate,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// CommitPeriod persists a period and every one of its payments inside one
// transaction: either the whole period materializes or none of it does.
func (s *Store) CommitPeriod(ctx context.Context, period *Period, payments []Payment) error {
	if len(payments) == 0 {
		return nil
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
    INSERT INTO payroll_periods (employer_id, starting_at, ending_at, length, length_type, status)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id, created_at
  `, period.EmployerID, period.StartingAt, period.EndingAt, period.Length, period.LengthType, period.Status).Scan(&period.ID, &period.CreatedAt)
	if err != nil {
		return err
	}

	for i := range payments {
		payments[i].PeriodID = period.ID
		if err := tx.QueryRow(ctx, `
      INSERT INTO payroll_period_payments
        (period_id, employee_id, shift_id, regular_hours, over_time, hourly_rate, total_amount, splitted_payment)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
      RETURNING id
    `, period.ID, payments[i].EmployeeID, payments[i].ShiftID, payments[i].RegularHours,
			payments[i].OverTime, payments[i].HourlyRate, payments[i].TotalAmount, payments[i].Splitted,
		).Scan(&payments[i].ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *Store) GetPeriod(ctx context.Context, periodID string) (Period, error) {
	var period Period
	err := s.DB.QueryRow(ctx, `
    SELECT id, employer_id, starting_at, ending_at, length, length_type, status, created_at
    FROM payroll_periods
    WHERE id = $1
  `, periodID).Scan(&period.ID, &period.EmployerID, &period.StartingAt, &period.EndingAt,
		&period.Length, &period.LengthType, &period.Status, &period.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Period{}, ErrPeriodNotFound
	}
	if err != nil {
		return Period{}, err
	}
	return period, nil
}

func (s *Store) ListPeriods(ctx context.Context, filter PeriodFilter, limit, offset int) ([]Period, error) {
	query := `
    SELECT id, employer_id, starting_at, ending_at, length, length_type, status, created_at
    FROM payroll_periods
    WHERE 1=1
  `
	var args []any
	if filter.EmployerID != "" {
		query += fmt.Sprintf(" AND employer_id = $%d", len(args)+1)
		args = append(args, filter.EmployerID)
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}
	query += fmt.Sprintf(" ORDER BY starting_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []Period
	for rows.Next() {
		var period Period
		if err := rows.Scan(&period.ID, &period.EmployerID, &period.StartingAt, &period.EndingAt,
			&period.Length, &period.LengthType, &period.Status, &period.CreatedAt); err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}
	return periods, rows.Err()
}

func (s *Store) CountPeriods(ctx context.Context, filter PeriodFilter) (int, error) {
	query := "SELECT COUNT(1) FROM payroll_periods WHERE 1=1"
	var args []any
	if filter.EmployerID != "" {
		query += fmt.Sprintf(" AND employer_id = $%d", len(args)+1)
		args = append(args, filter.EmployerID)
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filter.Status)
	}
	var total int
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListPaymentsForPeriod(ctx context.Context, periodID string) ([]Payment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, period_id, employee_id, shift_id, regular_hours, over_time, hourly_rate, total_amount, splitted_payment
    FROM payroll_period_payments
    WHERE period_id = $1
    ORDER BY employee_id, shift_id
  `, periodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (s *Store) ListEmployeePayments(ctx context.Context, employeeID, employerID string, from time.Time) ([]Payment, error) {
	query := `
    SELECT p.id, p.period_id, p.employee_id, p.shift_id, p.regular_hours, p.over_time, p.hourly_rate, p.total_amount, p.splitted_payment
    FROM payroll_period_payments p
    JOIN payroll_periods pp ON p.period_id = pp.id
    WHERE p.employee_id = $1
      AND pp.starting_at >= $2
  `
	args := []any{employeeID, from}
	if employerID != "" {
		query += fmt.Sprintf(" AND pp.employer_id = $%d", len(args)+1)
		args = append(args, employerID)
	}
	query += " ORDER BY pp.starting_at"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func scanPayments(rows pgx.Rows) ([]Payment, error) {
	var payments []Payment
	for rows.Next() {
		var payment Payment
		if err := rows.Scan(&payment.ID, &payment.PeriodID, &payment.EmployeeID, &payment.ShiftID,
			&payment.RegularHours, &payment.OverTime, &payment.HourlyRate, &payment.TotalAmount, &payment.Splitted); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// WithEmployerLock serializes period generation per employer with a postgres
// advisory lock held on a dedicated connection for the duration of fn.
// Different employers proceed fully in parallel.
func (s *Store) WithEmployerLock(ctx context.Context, employerID string, fn func(context.Context) error) error {
	conn, err := s.DB.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock(hashtextextended($1, 0))", employerID); err != nil {
		return err
	}
	defer func() {
		// Unlock even when ctx was canceled mid-run; the connection is only
		// returned to the pool after the lock is released.
		_, _ = conn.Exec(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock(hashtextextended($1, 0))", employerID)
	}()

	return fn(ctx)
}
