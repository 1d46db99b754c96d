package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	pkgErrors "github.com/pulsecrm/reporting/pkg/errors"
	"github.com/pulsecrm/reporting/pkg/expression"
	"github.com/pulsecrm/reporting/pkg/query"
	"github.com/pulsecrm/reporting/pkg/report"
)

// PreviewLimit caps every report query. The preview surface never pages.
const PreviewLimit = 100

// ReportRepository translates a report configuration into a data-store
// query. Purely read-only: filtering, ordering and the row cap become
// query parameters; nothing is post-processed here.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Find executes a normalized configuration for one tenant and returns at
// most PreviewLimit rows. The configuration must already be catalog-clean
// (see Config.Normalize); unknown fields here are a programmer error.
func (r *ReportRepository) Find(ctx context.Context, tenantID string, cfg *report.Config) ([]query.Row, error) {
	if !cfg.Source.Valid() {
		return nil, pkgErrors.NewValidationError("data_source", fmt.Sprintf("unknown data source: %s", cfg.Source))
	}
	if len(cfg.Fields) == 0 {
		return nil, pkgErrors.NewValidationError("fields", "at least one field is required")
	}

	table := cfg.Source.Table()
	builder := query.From(table)
	builder.Select(selectedColumns(cfg))
	builder.ForTenant(tenantID)
	builder.ExcludeDeleted()

	for _, f := range cfg.Filters {
		condition, arg, err := translateFilter(builder, f)
		if err != nil {
			return nil, err
		}
		builder.Where(condition, arg)
	}

	if cfg.FilterExpr != "" {
		sqlWhere, args, err := expression.ToSQL(cfg.FilterExpr, func(name string) (string, bool) {
			if !cfg.Source.Has(name) {
				return "", false
			}
			return builder.Qualify(name), true
		})
		if err != nil {
			return nil, pkgErrors.NewValidationError("filter_expr", err.Error())
		}
		builder.WhereRaw(sqlWhere, args)
	}

	for _, s := range cfg.Sorts {
		builder.OrderBy(s.Field, string(s.Direction))
	}

	builder.Limit(PreviewLimit)

	q := builder.Build()
	rows, err := r.db.QueryContext(ctx, q.SQL, q.Params...)
	if err != nil {
		return nil, pkgErrors.NewQueryError(string(cfg.Source), err)
	}
	defer rows.Close()

	return query.ScanRows(rows)
}

// selectedColumns merges Fields with the extra columns the visualizer
// needs (comparison fields and the grouping dimension) without duplicates.
func selectedColumns(cfg *report.Config) []string {
	cols := append([]string{}, cfg.Fields...)
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		seen[c] = true
	}
	for _, extra := range append(append([]string{}, cfg.ComparisonFields...), cfg.Grouping...) {
		if !seen[extra] && cfg.Source.Has(extra) {
			cols = append(cols, extra)
			seen[extra] = true
		}
	}
	return cols
}

// translateFilter maps one predicate to a SQL condition plus its bind
// argument. contains is case-insensitive; ordinal operators bind a value
// typed by the filter's declared kind.
func translateFilter(b *query.Builder, f report.Filter) (string, interface{}, error) {
	col := b.Qualify(f.Field)

	switch f.Operator {
	case report.OpEquals:
		return fmt.Sprintf("%s = ?", col), f.Value.Raw, nil
	case report.OpNotEquals:
		return fmt.Sprintf("%s != ?", col), f.Value.Raw, nil
	case report.OpContains:
		return fmt.Sprintf("LOWER(%s) LIKE ?", col), "%" + strings.ToLower(f.Value.Raw) + "%", nil
	case report.OpGreaterThan:
		arg, err := ordinalArg(f)
		return fmt.Sprintf("%s > ?", col), arg, err
	case report.OpLessThan:
		arg, err := ordinalArg(f)
		return fmt.Sprintf("%s < ?", col), arg, err
	}
	return "", nil, pkgErrors.NewValidationError("operator", fmt.Sprintf("unsupported operator: %s", f.Operator))
}

func ordinalArg(f report.Filter) (interface{}, error) {
	switch f.Value.Kind {
	case report.KindNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(f.Value.Raw), 64)
		if err != nil {
			return nil, pkgErrors.NewValidationError(f.Field, fmt.Sprintf("not a number: %q", f.Value.Raw))
		}
		return n, nil
	case report.KindDate:
		t, err := time.Parse("2006-01-02", strings.TrimSpace(f.Value.Raw))
		if err != nil {
			return nil, pkgErrors.NewValidationError(f.Field, fmt.Sprintf("not a date (want YYYY-MM-DD): %q", f.Value.Raw))
		}
		return t, nil
	default:
		return f.Value.Raw, nil
	}
}

// ExecuteRawSQL runs an admin analytics statement that has already been
// validated and rewritten by the SQL guard.
func (r *ReportRepository) ExecuteRawSQL(ctx context.Context, sqlText string, params []interface{}) ([]query.Row, error) {
	rows, err := r.db.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("raw query error: %w", err)
	}
	defer rows.Close()

	return query.ScanRows(rows)
}
