package employers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employerColumns = `
    id, name, payroll_period_length, payroll_period_type, payroll_period_starting_time, created_at, updated_at`

func (s *Store) List(ctx context.Context, limit, offset int) ([]Employer, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employerColumns+`
    FROM employers
    ORDER BY name
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Employer
	for rows.Next() {
		var e Employer
		if err := rows.Scan(&e.ID, &e.Name, &e.PeriodLength, &e.PeriodType, &e.PeriodStartAt, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employers").Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) Get(ctx context.Context, employerID string) (Employer, error) {
	var e Employer
	err := s.DB.QueryRow(ctx, `
    SELECT `+employerColumns+`
    FROM employers
    WHERE id = $1
  `, employerID).Scan(&e.ID, &e.Name, &e.PeriodLength, &e.PeriodType, &e.PeriodStartAt, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employer{}, ErrNotFound
	}
	if err != nil {
		return Employer{}, err
	}
	return e, nil
}

func (s *Store) Update(ctx context.Context, employer Employer) (Employer, error) {
	err := s.DB.QueryRow(ctx, `
    UPDATE employers
    SET name = $2,
        payroll_period_length = $3,
        payroll_period_type = $4,
        payroll_period_starting_time = $5,
        updated_at = NOW()
    WHERE id = $1
    RETURNING updated_at
  `, employer.ID, employer.Name, employer.PeriodLength, employer.PeriodType, employer.PeriodStartAt).Scan(&employer.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employer{}, ErrNotFound
	}
	if err != nil {
		return Employer{}, err
	}
	return employer, nil
}
