package notifications

import "time"

type Notification struct {
	ID         string     `json:"id"`
	EmployerID string     `json:"employerId"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	ReadAt     *time.Time `json:"readAt"`
	CreatedAt  time.Time  `json:"createdAt"`
}
