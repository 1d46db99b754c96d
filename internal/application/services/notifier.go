package services

import (
	"context"
	"log"

	"github.com/pulsecrm/reporting/internal/infrastructure/persistence"
	"github.com/pulsecrm/reporting/pkg/query"
)

// Notification severities. Info gets the neutral toast, error the
// destructive one.
const (
	SeverityInfo  = "info"
	SeverityError = "error"
)

// Notifier is the "show message to user" collaborator. Fire-and-forget:
// implementations must not fail the caller. Injected into ReportService
// so the executor is testable without a delivery surface.
type Notifier interface {
	Notify(ctx context.Context, tenantID, recipientID, severity, title, body string)
}

// NotificationService is the persistence-backed Notifier: toasts land in
// the notification table and the client polls them.
type NotificationService struct {
	repo *persistence.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo *persistence.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Notify stores one notification. Failures are logged, never propagated:
// a broken toast must not break the report.
func (s *NotificationService) Notify(ctx context.Context, tenantID, recipientID, severity, title, body string) {
	if _, err := s.repo.Insert(ctx, tenantID, recipientID, title, body, severity); err != nil {
		log.Printf("⚠️ Failed to store notification for %s: %v", recipientID, err)
	}
}

// ListUnread returns the user's unread notifications
func (s *NotificationService) ListUnread(ctx context.Context, tenantID, recipientID string) ([]query.Row, error) {
	return s.repo.ListUnread(ctx, tenantID, recipientID, 20)
}

// MarkRead marks a notification as read
func (s *NotificationService) MarkRead(ctx context.Context, tenantID, recipientID, id string) error {
	return s.repo.MarkRead(ctx, tenantID, recipientID, id)
}
