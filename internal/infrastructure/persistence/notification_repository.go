package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/pulsecrm/reporting/pkg/constants"
	"github.com/pulsecrm/reporting/pkg/query"
	"github.com/pulsecrm/reporting/pkg/utils"
)

// NotificationRepository stores the user-visible toasts this service
// raises (query failures, mostly). Append plus mark-as-read; delivery is
// the client's problem.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Insert appends one notification row and returns its id.
func (r *NotificationRepository) Insert(ctx context.Context, tenantID, recipientID, title, body, severity string) (string, error) {
	id := utils.GenerateID()
	q := query.Insert(constants.TableNotification, map[string]interface{}{
		constants.FieldID:                      id,
		constants.FieldTenantID:                tenantID,
		constants.FieldNotificationRecipientID: recipientID,
		constants.FieldNotificationTitle:       title,
		constants.FieldNotificationBody:        body,
		constants.FieldNotificationSeverity:    severity,
		constants.FieldNotificationIsRead:      false,
		constants.FieldNotificationCreatedDate: time.Now(),
	}).Build()

	if _, err := r.db.ExecContext(ctx, q.SQL, q.Params...); err != nil {
		return "", err
	}
	return id, nil
}

// ListUnread returns the recipient's unread notifications, newest first.
func (r *NotificationRepository) ListUnread(ctx context.Context, tenantID, recipientID string, limit int) ([]query.Row, error) {
	if limit <= 0 {
		limit = 20
	}

	builder := query.From(constants.TableNotification)
	builder.Select([]string{
		constants.FieldNotificationTitle,
		constants.FieldNotificationBody,
		constants.FieldNotificationSeverity,
		constants.FieldNotificationIsRead,
		constants.FieldNotificationCreatedDate,
	})
	builder.ForTenant(tenantID)
	builder.Where(builder.Qualify(constants.FieldNotificationRecipientID)+" = ?", recipientID)
	builder.Where(builder.Qualify(constants.FieldNotificationIsRead)+" = ?", false)
	builder.OrderBy(constants.FieldNotificationCreatedDate, "desc")
	builder.Limit(limit)

	q := builder.Build()
	rows, err := r.db.QueryContext(ctx, q.SQL, q.Params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return query.ScanRows(rows)
}

// MarkRead flags one notification as read, scoped to its recipient so a
// user cannot touch another tenant's rows.
func (r *NotificationRepository) MarkRead(ctx context.Context, tenantID, recipientID, id string) error {
	q := query.Update(constants.TableNotification).
		Set(map[string]interface{}{constants.FieldNotificationIsRead: true}).
		Where("`"+constants.FieldID+"` = ?", id).
		Where("`"+constants.FieldTenantID+"` = ?", tenantID).
		Where("`"+constants.FieldNotificationRecipientID+"` = ?", recipientID).
		Build()

	_, err := r.db.ExecContext(ctx, q.SQL, q.Params...)
	return err
}
