package notifications

import "context"

type StoreAPI interface {
	CreateNotification(ctx context.Context, employerID, ntype, title, body string) error
	EmployerEmail(ctx context.Context, employerID string) (string, error)
	ListNotifications(ctx context.Context, employerID string, limit, offset int) ([]Notification, error)
	CountNotifications(ctx context.Context, employerID string) (int, error)
	MarkRead(ctx context.Context, employerID, notificationID string) error
	EmailSettings(ctx context.Context, employerID string) (bool, string, error)
	UpdateSettings(ctx context.Context, employerID string, enabled bool, from string) error
}
