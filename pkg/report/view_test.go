package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsecrm/reporting/pkg/query"
)

func dealsConfig(fields ...string) *Config {
	cfg := NewConfig()
	cfg.SetSource(SourceDeals)
	for _, f := range fields {
		cfg.ToggleField(f, true)
	}
	return cfg
}

func TestRenderEmptyFieldsAlwaysPlaceholder(t *testing.T) {
	rows := []query.Row{{"name": "Acme"}}

	for _, viz := range []Visualization{
		VisualizationTable,
		VisualizationBarChart,
		VisualizationPieChart,
		VisualizationKPICards,
		VisualizationComparison,
	} {
		cfg := dealsConfig()
		cfg.SetVisualization(viz)

		view := Render(rows, cfg)
		assert.Equal(t, ViewPlaceholder, view.Kind, "visualization %s", viz)
		assert.Equal(t, msgSelectFields, view.Message)
	}
}

func TestRenderEmptyRowsIsNoData(t *testing.T) {
	cfg := dealsConfig("name", "value")
	view := Render(nil, cfg)

	assert.Equal(t, ViewPlaceholder, view.Kind)
	assert.Equal(t, msgNoData, view.Message)
}

func TestRenderTableColumnsFollowSelectionOrder(t *testing.T) {
	cfg := dealsConfig("value", "name", "status")
	rows := []query.Row{
		{"name": "Acme deal", "value": 1500.0, "status": "won"},
		{"name": "Globex deal", "value": nil, "status": "lost"},
	}

	view := Render(rows, cfg)
	require.Equal(t, ViewTable, view.Kind)
	require.NotNil(t, view.Table)

	assert.Equal(t, []Column{
		{Field: "value", Label: "Value"},
		{Field: "name", Label: "Name"},
		{Field: "status", Label: "Status"},
	}, view.Table.Columns)

	require.Len(t, view.Table.Rows, 2)
	assert.Equal(t, "$1,500.00", view.Table.Rows[0][0].Text)
	assert.Equal(t, "Acme deal", view.Table.Rows[0][1].Text)
	assert.Equal(t, Cell{Text: "won", Format: FormatBadge, Tone: TonePositive}, view.Table.Rows[0][2])

	assert.Equal(t, "-", view.Table.Rows[1][0].Text, "nil renders as dash")
	assert.Equal(t, Cell{Text: "lost", Format: FormatBadge, Tone: ToneNegative}, view.Table.Rows[1][2])
}

func TestRenderTableFormatsDates(t *testing.T) {
	cfg := dealsConfig("name", "close_date")
	rows := []query.Row{
		{"name": "Acme deal", "close_date": "2026-03-15 00:00:00"},
		{"name": "Globex deal", "close_date": nil},
	}

	view := Render(rows, cfg)
	require.Equal(t, ViewTable, view.Kind)

	assert.Equal(t, Cell{Text: "Mar 15, 2026", Format: FormatDate}, view.Table.Rows[0][1])
	assert.Equal(t, "-", view.Table.Rows[1][1].Text)
}

func TestRenderComparisonRequiresExactlyTwoFields(t *testing.T) {
	for _, comparison := range [][]string{nil, {"value"}, {"value", "probability", "name"}} {
		cfg := dealsConfig("name", "value", "probability")
		cfg.SetVisualization(VisualizationComparison)
		cfg.ComparisonFields = comparison

		view := Render([]query.Row{{"name": "A", "value": 1.0, "probability": 2.0}}, cfg)
		assert.Equal(t, ViewPlaceholder, view.Kind, "comparison fields: %v", comparison)
		assert.Equal(t, msgComparisonCount, view.Message)
		assert.Nil(t, view.Chart, "must never emit a partial chart")
	}
}

func TestRenderComparisonPairsPerRecord(t *testing.T) {
	cfg := dealsConfig("name", "value", "probability")
	cfg.SetVisualization(VisualizationComparison)
	cfg.ComparisonFields = []string{"value", "probability"}

	rows := []query.Row{
		{"name": "Acme", "value": 1000.0, "probability": 80.0},
		{"name": "Globex", "value": 500.0, "probability": 40.0},
	}

	view := Render(rows, cfg)
	require.Equal(t, ViewChart, view.Kind)
	require.NotNil(t, view.Chart)

	assert.Equal(t, []string{"Value", "Probability"}, view.Chart.Series)
	assert.Equal(t, []ComparisonPoint{
		{Name: "Acme", First: 1000, Second: 80},
		{Name: "Globex", First: 500, Second: 40},
	}, view.Chart.Pairs)
}

func TestRenderDoesNotMutateInputs(t *testing.T) {
	cfg := dealsConfig("name", "value", "status")
	rows := []query.Row{{"name": "Acme", "value": 10.0, "status": "won"}}

	Render(rows, cfg)

	assert.Equal(t, []string{"name", "value", "status"}, cfg.Fields)
	assert.Equal(t, query.Row{"name": "Acme", "value": 10.0, "status": "won"}, rows[0])
}
