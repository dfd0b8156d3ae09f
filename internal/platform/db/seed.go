package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"jobcore/internal/platform/config"
)

// Seed provisions a demo employer with a handful of employees, shifts and
// completed clockins so period generation has something to chew on. Every
// step is idempotent.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	employerID, err := ensureEmployer(ctx, pool, cfg.SeedEmployerName)
	if err != nil {
		return err
	}

	employeeIDs, err := ensureEmployees(ctx, pool, employerID)
	if err != nil {
		return err
	}

	return ensureShiftsWithClockins(ctx, pool, employerID, employeeIDs)
}

func ensureEmployer(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM employers WHERE name = $1", name).Scan(&id)
	if err == nil {
		return id, nil
	}

	createdAt := time.Now().UTC().AddDate(0, 0, -21).Truncate(24 * time.Hour)
	err = pool.QueryRow(ctx, `
    INSERT INTO employers (name, payroll_period_length, payroll_period_type, payroll_period_starting_time, created_at)
    VALUES ($1, 7, 'DAYS', '00:00:00', $2)
    RETURNING id
  `, name, createdAt).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func ensureEmployees(ctx context.Context, pool *pgxpool.Pool, employerID string) ([]string, error) {
	names := []string{"Alex Rivera", "Sam Okafor", "Jordan Lee"}
	ids := make([]string, 0, len(names))
	for _, name := range names {
		var id string
		err := pool.QueryRow(ctx, "SELECT id FROM employees WHERE full_name = $1", name).Scan(&id)
		if err == nil {
			ids = append(ids, id)
			continue
		}
		err = pool.QueryRow(ctx, `
      INSERT INTO employees (full_name)
      VALUES ($1)
      RETURNING id
    `, name).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func ensureShiftsWithClockins(ctx context.Context, pool *pgxpool.Pool, employerID string, employeeIDs []string) error {
	var existing int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM shifts WHERE employer_id = $1", employerID).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	base := time.Now().UTC().AddDate(0, 0, -14).Truncate(24 * time.Hour)
	for day := 0; day < 10; day++ {
		for i, employeeID := range employeeIDs {
			shiftStart := base.AddDate(0, 0, day).Add(time.Duration(8+i) * time.Hour)
			shiftEnd := shiftStart.Add(8 * time.Hour)

			var shiftID string
			err := pool.QueryRow(ctx, `
        INSERT INTO shifts (employer_id, starting_at, ending_at, minimum_hourly_rate)
        VALUES ($1,$2,$3,$4)
        RETURNING id
      `, employerID, shiftStart, shiftEnd, 15.50).Scan(&shiftID)
			if err != nil {
				return err
			}

			// Clock in a touch late and out a touch early, like real people.
			if _, err := pool.Exec(ctx, `
        INSERT INTO clockins (employee_id, shift_id, started_at, ended_at)
        VALUES ($1,$2,$3,$4)
      `, employeeID, shiftID, shiftStart.Add(4*time.Minute), shiftEnd.Add(-6*time.Minute)); err != nil {
				return err
			}
		}
	}
	return nil
}
