package notifications

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateNotification(ctx context.Context, employerID, ntype, title, body string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (employer_id, type, title, body)
    VALUES ($1,$2,$3,$4)
  `, employerID, ntype, title, body)
	return err
}

func (s *Store) EmployerEmail(ctx context.Context, employerID string) (string, error) {
	var email string
	if err := s.DB.QueryRow(ctx, "SELECT COALESCE(contact_email, '') FROM employers WHERE id = $1", employerID).Scan(&email); err != nil {
		return "", err
	}
	return email, nil
}

func (s *Store) ListNotifications(ctx context.Context, employerID string, limit, offset int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employer_id, type, title, body, read_at, created_at
    FROM notifications
    WHERE employer_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, employerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.EmployerID, &n.Type, &n.Title, &n.Body, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) CountNotifications(ctx context.Context, employerID string) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM notifications WHERE employer_id = $1", employerID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) MarkRead(ctx context.Context, employerID, notificationID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read_at = now()
    WHERE employer_id = $1 AND id = $2
  `, employerID, notificationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) EmailSettings(ctx context.Context, employerID string) (bool, string, error) {
	var enabled bool
	var from string
	err := s.DB.QueryRow(ctx, `
    SELECT email_notifications_enabled, COALESCE(email_from, '')
    FROM employer_settings
    WHERE employer_id = $1
  `, employerID).Scan(&enabled, &from)
	if errors.Is(err, pgx.ErrNoRows) {
		// No row yet means notifications were never configured: disabled.
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}
	return enabled, from, nil
}

func (s *Store) UpdateSettings(ctx context.Context, employerID string, enabled bool, from string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO employer_settings (employer_id, email_notifications_enabled, email_from)
    VALUES ($1,$2,$3)
    ON CONFLICT (employer_id) DO UPDATE
      SET email_notifications_enabled = EXCLUDED.email_notifications_enabled,
          email_from = EXCLUDED.email_from,
          updated_at = now()
  `, employerID, enabled, nullIfEmpty(from))
	return err
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
