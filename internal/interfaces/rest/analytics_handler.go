package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulsecrm/reporting/internal/application/services"
	"github.com/pulsecrm/reporting/pkg/errors"
)

// AnalyticsHandler exposes the admin-only raw SELECT endpoint. The SQL
// guard rewrites every statement before it reaches the store.
type AnalyticsHandler struct {
	svc *services.ServiceManager
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(svc *services.ServiceManager) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// AdminQueryRequest carries a raw analytics statement.
type AdminQueryRequest struct {
	SQL    string        `json:"sql"`
	Params []interface{} `json:"params"`
}

// ExecuteAdminQuery runs a guarded raw SELECT. Requires the admin
// profile; the RequireAdmin middleware enforces that before we get here.
func (h *AnalyticsHandler) ExecuteAdminQuery(c *gin.Context) {
	var req AdminQueryRequest
	if !BindJSON(c, &req) {
		return
	}

	if req.SQL == "" {
		RespondAppError(c, errors.NewValidationError("sql", "SQL query cannot be empty"))
		return
	}

	user := GetUserFromContext(c)
	if user == nil {
		RespondAppError(c, errors.NewUnauthorizedError("session not found"))
		return
	}

	results, err := h.svc.Report.ExecuteRawSQL(c.Request.Context(), req.SQL, req.Params, user)
	if err != nil {
		RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": results,
	})
}
