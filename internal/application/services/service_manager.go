package services

import (
	"database/sql"

	"github.com/pulsecrm/reporting/internal/infrastructure/persistence"
)

// ServiceManager wires repositories and services once at boot and hands
// them to the HTTP layer.
type ServiceManager struct {
	Report        *ReportService
	Notifications *NotificationService
}

// NewServiceManager creates the full service graph on top of one DB handle
func NewServiceManager(db *sql.DB) *ServiceManager {
	notificationRepo := persistence.NewNotificationRepository(db)
	reportRepo := persistence.NewReportRepository(db)

	notifications := NewNotificationService(notificationRepo)
	reportSvc := NewReportService(reportRepo, notifications, NewSQLGuard())

	return &ServiceManager{
		Report:        reportSvc,
		Notifications: notifications,
	}
}
