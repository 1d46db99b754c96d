package constants

// Common column names shared across all tenant tables.
const (
	FieldID        = "id"
	FieldTenantID  = "tenant_id"
	FieldOwnerID   = "owner_id"
	FieldIsDeleted = "is_deleted"
	FieldName      = "name"
	FieldMessage   = "message"

	IsDeletedFalse = 0
)

// Notification columns.
const (
	FieldNotificationRecipientID = "recipient_id"
	FieldNotificationTitle       = "title"
	FieldNotificationBody        = "body"
	FieldNotificationSeverity    = "severity"
	FieldNotificationIsRead      = "is_read"
	FieldNotificationCreatedDate = "created_date"
)
