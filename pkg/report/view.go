package report

import (
	"github.com/pulsecrm/reporting/pkg/query"
)

// ViewKind tags the View union.
type ViewKind string

const (
	ViewPlaceholder ViewKind = "placeholder"
	ViewTable       ViewKind = "table"
	ViewChart       ViewKind = "chart"
	ViewKPICards    ViewKind = "kpi_cards"
)

// View is the renderable output of a report: exactly one of the payload
// members is set, selected by Kind. Configuration problems degrade to a
// placeholder with an explanatory message, never an error.
type View struct {
	Kind    ViewKind    `json:"kind"`
	Message string      `json:"message,omitempty"`
	Table   *TableView  `json:"table,omitempty"`
	Chart   *ChartView  `json:"chart,omitempty"`
	KPIs    []KPICard   `json:"kpis,omitempty"`
	Rows    []query.Row `json:"rows,omitempty"`
}

const (
	msgSelectFields    = "Select fields to preview your report"
	msgNoData          = "No data available"
	msgNoMeasure       = "Add a numeric field (value, amount or count) to draw a bar chart"
	msgNoDimension     = "Add a category field (name, status or stage) to group by"
	msgNoCategory      = "Add a category field (status, stage or type) to draw a pie chart"
	msgComparisonCount = "Pick exactly two comparison fields"
)

func placeholder(msg string) View {
	return View{Kind: ViewPlaceholder, Message: msg}
}

// Render turns a result set plus its configuration into a View. Pure:
// inputs are never mutated and identical inputs yield identical output.
func Render(rows []query.Row, cfg *Config) View {
	if cfg == nil || len(cfg.Fields) == 0 {
		return placeholder(msgSelectFields)
	}
	if len(rows) == 0 {
		return placeholder(msgNoData)
	}

	switch cfg.Visualization {
	case VisualizationBarChart:
		return renderBarChart(rows, cfg)
	case VisualizationPieChart:
		return renderPieChart(rows, cfg)
	case VisualizationKPICards:
		return renderKPICards(rows, cfg)
	case VisualizationComparison:
		return renderComparison(rows, cfg)
	default:
		return renderTable(rows, cfg)
	}
}
