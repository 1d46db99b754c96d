package services

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"github.com/pulsecrm/reporting/pkg/auth"
	pkgErrors "github.com/pulsecrm/reporting/pkg/errors"
	"github.com/pulsecrm/reporting/pkg/expression"
	"github.com/pulsecrm/reporting/pkg/query"
	"github.com/pulsecrm/reporting/pkg/report"
)

// ReportStore is the data-store boundary the executor talks to.
type ReportStore interface {
	Find(ctx context.Context, tenantID string, cfg *report.Config) ([]query.Row, error)
	ExecuteRawSQL(ctx context.Context, sqlText string, params []interface{}) ([]query.Row, error)
}

// ReportService is the report executor: it runs a configuration against
// the store, absorbs failures into the notification side-channel, and
// guards against stale responses overwriting newer ones.
type ReportService struct {
	store    ReportStore
	notifier Notifier
	guard    *SQLGuard
	engine   *expression.Engine

	mu       sync.Mutex
	sessions map[string]*sessionState
}

// sessionState is the per-user executor state. seq tags every run; a
// response is discarded when a newer run was issued by the same user
// while it was in flight. Most-recent-wins applies within one session
// only, so one user's previews never invalidate another's. There is no
// cancellation of the in-flight query itself, only of its result.
type sessionState struct {
	seq      atomic.Uint64
	inFlight atomic.Int64
}

// NewReportService creates a new ReportService
func NewReportService(store ReportStore, notifier Notifier, guard *SQLGuard) *ReportService {
	return &ReportService{
		store:    store,
		notifier: notifier,
		guard:    guard,
		engine:   expression.NewEngine(),
		sessions: make(map[string]*sessionState),
	}
}

func (s *ReportService) session(userID string) *sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[userID]
	if !ok {
		st = &sessionState{}
		s.sessions[userID] = st
	}
	return st
}

// PreviewResult is what one executor run hands back to the caller.
type PreviewResult struct {
	RequestID  uint64           `json:"request_id"`
	Stale      bool             `json:"stale"`
	Rows       []query.Row      `json:"rows"`
	View       report.View      `json:"view"`
	CustomKPIs []report.KPICard `json:"custom_kpis,omitempty"`
}

// Loading reports whether the user has a preview currently in flight.
func (s *ReportService) Loading(user *auth.UserSession) bool {
	return s.session(user.ID).inFlight.Load() > 0
}

// Preview executes a configuration and renders it. It never returns an
// error: data-store failures are logged, surfaced once through the
// notifier, and rendered as the standard no-data state. Configuration
// problems (no source, no fields) degrade to a placeholder without
// touching the store.
func (s *ReportService) Preview(ctx context.Context, user *auth.UserSession, cfg *report.Config, custom []report.CustomKPI) PreviewResult {
	session := s.session(user.ID)
	id := session.seq.Add(1)

	cfg.Normalize()

	if !cfg.Source.Valid() || len(cfg.Fields) == 0 {
		return PreviewResult{
			RequestID: id,
			Rows:      []query.Row{},
			View:      report.Render(nil, cfg),
		}
	}

	session.inFlight.Add(1)
	rows, err := s.store.Find(ctx, user.TenantID, cfg)
	session.inFlight.Add(-1)

	// The same user issued a newer preview while this one ran; its result
	// must not overwrite the newer one, and its failure is not worth a
	// toast.
	if session.seq.Load() != id {
		return PreviewResult{RequestID: id, Stale: true, Rows: []query.Row{}}
	}

	if err != nil {
		log.Printf("❌ Report query failed (source=%s tenant=%s): %v", cfg.Source, user.TenantID, err)
		s.notifier.Notify(ctx, user.TenantID, user.ID, SeverityError,
			"Report failed", "The report could not be loaded. Please try again.")
		rows = []query.Row{}
	}

	result := PreviewResult{
		RequestID: id,
		Rows:      rows,
		View:      report.Render(rows, cfg),
	}

	if len(custom) > 0 && len(rows) > 0 {
		result.CustomKPIs = report.EvalCustomKPIs(s.engine, rows, cfg, custom)
	}

	return result
}

// KPIs executes a configuration and returns only the summary cards, with
// the same failure policy as Preview.
func (s *ReportService) KPIs(ctx context.Context, user *auth.UserSession, cfg *report.Config, custom []report.CustomKPI) PreviewResult {
	cfg.SetVisualization(report.VisualizationKPICards)
	res := s.Preview(ctx, user, cfg, custom)
	res.Rows = []query.Row{}
	return res
}

// ExecuteRawSQL runs an admin-authored SELECT after the guard has
// validated and tenant-scoped it. Unlike Preview this returns errors:
// admins asked for raw SQL and get the real diagnostics.
func (s *ReportService) ExecuteRawSQL(ctx context.Context, sqlText string, params []interface{}, user *auth.UserSession) ([]query.Row, error) {
	if !user.IsAdmin() {
		return nil, pkgErrors.NewPermissionError("run", "raw analytics queries")
	}

	guarded, err := s.guard.ValidateAndRewrite(sqlText, user)
	if err != nil {
		return nil, pkgErrors.NewValidationError("sql", err.Error())
	}

	return s.store.ExecuteRawSQL(ctx, guarded, params)
}
