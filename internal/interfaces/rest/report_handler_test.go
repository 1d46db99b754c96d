package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsecrm/reporting/internal/application/services"
	"github.com/pulsecrm/reporting/pkg/auth"
	"github.com/pulsecrm/reporting/pkg/constants"
	"github.com/pulsecrm/reporting/pkg/query"
	"github.com/pulsecrm/reporting/pkg/report"
)

type stubStore struct {
	rows []query.Row
	err  error
}

func (s *stubStore) Find(ctx context.Context, tenantID string, cfg *report.Config) ([]query.Row, error) {
	return s.rows, s.err
}

func (s *stubStore) ExecuteRawSQL(ctx context.Context, sqlText string, params []interface{}) ([]query.Row, error) {
	return s.rows, s.err
}

type noopNotifier struct{}

func (noopNotifier) Notify(ctx context.Context, tenantID, recipientID, severity, title, body string) {
}

func newTestRouter(store *stubStore, user *auth.UserSession) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := &services.ServiceManager{
		Report: services.NewReportService(store, noopNotifier{}, services.NewSQLGuard()),
	}
	handler := NewReportHandler(svc)

	router := gin.New()
	if user != nil {
		router.Use(func(c *gin.Context) {
			c.Set(constants.ContextKeyUser, *user)
		})
	}
	router.GET("/api/report/status", handler.Status)
	router.GET("/api/report/sources", handler.ListSources)
	router.GET("/api/report/sources/:source/fields", handler.ListFields)
	router.POST("/api/report/preview", handler.Preview)
	router.POST("/api/report/kpis", handler.KPIs)
	return router
}

func sessionUser() *auth.UserSession {
	return &auth.UserSession{ID: "user-1", TenantID: "tenant-1", ProfileID: "standard"}
}

func TestStatus(t *testing.T) {
	router := newTestRouter(&stubStore{}, sessionUser())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/report/status", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"loading":false`)
}

func TestStatusWithoutSessionIsUnauthorized(t *testing.T) {
	router := newTestRouter(&stubStore{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/report/status", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListSources(t *testing.T) {
	router := newTestRouter(&stubStore{}, sessionUser())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/report/sources", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Sources []struct {
			APIName string `json:"api_name"`
			Label   string `json:"label"`
		} `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Sources, 7)
	assert.Equal(t, "contacts", body.Sources[0].APIName)
	assert.Equal(t, "Contacts", body.Sources[0].Label)
}

func TestListFields(t *testing.T) {
	router := newTestRouter(&stubStore{}, sessionUser())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/report/sources/deals/fields", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"close_date"`)
}

func TestListFieldsUnknownSource(t *testing.T) {
	router := newTestRouter(&stubStore{}, sessionUser())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/report/sources/invoices/fields", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestPreviewReturnsRenderedView(t *testing.T) {
	store := &stubStore{rows: []query.Row{
		{"id": "d-1", "name": "Acme deal", "value": 1500.0},
	}}
	router := newTestRouter(store, sessionUser())

	payload := `{"config":{"data_source":"deals","fields":["name","value"],"visualization_type":"table"}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/report/preview", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		RequestID uint64 `json:"request_id"`
		Stale     bool   `json:"stale"`
		View      struct {
			Kind string `json:"kind"`
		} `json:"view"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Stale)
	assert.Equal(t, "table", body.View.Kind)
	assert.NotZero(t, body.RequestID)
}

func TestPreviewWithoutSessionIsUnauthorized(t *testing.T) {
	router := newTestRouter(&stubStore{}, nil)

	payload := `{"config":{"data_source":"deals","fields":["name"]}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/report/preview", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPreviewRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(&stubStore{}, sessionUser())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/report/preview", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKPIsStripRows(t *testing.T) {
	store := &stubStore{rows: []query.Row{
		{"id": "d-1", "name": "Acme deal", "value": 1500.0, "status": "won"},
	}}
	router := newTestRouter(store, sessionUser())

	payload := `{"config":{"data_source":"deals","fields":["name","value","status"],"visualization_type":"table"}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/report/kpis", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Rows []query.Row `json:"rows"`
		View struct {
			Kind string `json:"kind"`
		} `json:"view"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Rows)
	assert.Equal(t, "kpi_cards", body.View.Kind)
}
