package notifications

import (
	"context"
	"log/slog"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Service struct {
	store       StoreAPI
	Mailer      Mailer
	DefaultFrom string
}

func New(store StoreAPI, mailer Mailer) *Service {
	return &Service{store: store, Mailer: mailer, DefaultFrom: "no-reply@jobcore.example"}
}

// Create records a notification for the employer and, when the employer has
// email delivery enabled, mirrors it to their contact address. Email failures
// are logged and never fail the caller.
func (s *Service) Create(ctx context.Context, employerID, ntype, title, body string) error {
	if err := s.store.CreateNotification(ctx, employerID, ntype, title, body); err != nil {
		return err
	}

	if s.Mailer == nil {
		return nil
	}

	enabled, from := s.getEmailSettings(ctx, employerID)
	if !enabled {
		return nil
	}
	if from == "" {
		from = s.DefaultFrom
	}

	email, err := s.store.EmployerEmail(ctx, employerID)
	if err != nil {
		slog.Warn("notification email lookup failed", "err", err)
		return nil
	}
	if email == "" {
		return nil
	}
	if err := s.Mailer.Send(ctx, from, email, title, body); err != nil {
		slog.Warn("notification email send failed", "err", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, employerID string, limit, offset int) ([]Notification, error) {
	return s.store.ListNotifications(ctx, employerID, limit, offset)
}

func (s *Service) Count(ctx context.Context, employerID string) (int, error) {
	return s.store.CountNotifications(ctx, employerID)
}

func (s *Service) MarkRead(ctx context.Context, employerID, notificationID string) error {
	return s.store.MarkRead(ctx, employerID, notificationID)
}

func (s *Service) getEmailSettings(ctx context.Context, employerID string) (bool, string) {
	enabled, from, err := s.store.EmailSettings(ctx, employerID)
	if err != nil {
		return false, ""
	}
	return enabled, from
}

func (s *Service) GetSettings(ctx context.Context, employerID string) (bool, string, error) {
	return s.store.EmailSettings(ctx, employerID)
}

func (s *Service) UpdateSettings(ctx context.Context, employerID string, enabled bool, from string) error {
	return s.store.UpdateSettings(ctx, employerID, enabled, from)
}
