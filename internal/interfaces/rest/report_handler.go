package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulsecrm/reporting/internal/application/services"
	"github.com/pulsecrm/reporting/pkg/errors"
	"github.com/pulsecrm/reporting/pkg/report"
)

// ReportHandler serves the builder's read-only surface: the source and
// field catalogs, and the preview/KPI execution endpoints.
type ReportHandler struct {
	svc *services.ServiceManager
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(svc *services.ServiceManager) *ReportHandler {
	return &ReportHandler{svc: svc}
}

type sourceInfo struct {
	APIName string `json:"api_name"`
	Label   string `json:"label"`
}

// ListSources returns the supported data sources
func (h *ReportHandler) ListSources(c *gin.Context) {
	sources := make([]sourceInfo, 0)
	for _, s := range report.AllSources() {
		sources = append(sources, sourceInfo{APIName: string(s), Label: s.Label()})
	}
	c.JSON(http.StatusOK, gin.H{"sources": sources})
}

// ListFields returns the field catalog for one data source
func (h *ReportHandler) ListFields(c *gin.Context) {
	source := report.Source(c.Param("source"))
	if !source.Valid() {
		RespondAppError(c, errors.NewNotFoundError("data source", c.Param("source")))
		return
	}
	c.JSON(http.StatusOK, gin.H{"fields": source.Catalog()})
}

// Status reports whether the caller has a preview in flight, so the
// builder UI can show its loading state across polls.
func (h *ReportHandler) Status(c *gin.Context) {
	user := GetUserFromContext(c)
	if user == nil {
		RespondAppError(c, errors.NewUnauthorizedError("session not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"loading": h.svc.Report.Loading(user)})
}

// PreviewRequest is the execute-report payload: the configuration as the
// builder holds it, plus optional tenant-defined KPI expressions.
type PreviewRequest struct {
	Config     report.Config      `json:"config" binding:"required"`
	CustomKPIs []report.CustomKPI `json:"custom_kpis,omitempty"`
}

// Preview executes the configuration and returns rows plus the rendered view
func (h *ReportHandler) Preview(c *gin.Context) {
	var req PreviewRequest
	if !BindJSON(c, &req) {
		return
	}

	user := GetUserFromContext(c)
	if user == nil {
		RespondAppError(c, errors.NewUnauthorizedError("session not found"))
		return
	}

	result := h.svc.Report.Preview(c.Request.Context(), user, &req.Config, req.CustomKPIs)
	c.JSON(http.StatusOK, result)
}

// KPIs executes the configuration and returns only the summary cards
func (h *ReportHandler) KPIs(c *gin.Context) {
	var req PreviewRequest
	if !BindJSON(c, &req) {
		return
	}

	user := GetUserFromContext(c)
	if user == nil {
		RespondAppError(c, errors.NewUnauthorizedError("session not found"))
		return
	}

	result := h.svc.Report.KPIs(c.Request.Context(), user, &req.Config, req.CustomKPIs)
	c.JSON(http.StatusOK, result)
}
