package report

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsecrm/reporting/pkg/query"
)

func TestBarChartGroupsAndSums(t *testing.T) {
	cfg := dealsConfig("stage", "value")
	cfg.SetVisualization(VisualizationBarChart)

	rows := []query.Row{
		{"stage": "A", "value": 10.0},
		{"stage": "A", "value": 5.0},
		{"stage": "B", "value": 3.0},
	}

	view := Render(rows, cfg)
	require.Equal(t, ViewChart, view.Kind)
	require.NotNil(t, view.Chart)

	assert.Equal(t, "stage", view.Chart.Dimension)
	assert.Equal(t, "value", view.Chart.Measure)
	assert.Equal(t, []ChartPoint{
		{Name: "A", Value: 15},
		{Name: "B", Value: 3},
	}, view.Chart.Points, "first-seen dimension order, summed measure")
}

func TestBarChartHandlesStringNumbers(t *testing.T) {
	// The driver returns DECIMAL columns as strings.
	cfg := dealsConfig("stage", "value")
	cfg.SetVisualization(VisualizationBarChart)

	rows := []query.Row{
		{"stage": "A", "value": "10.5"},
		{"stage": "A", "value": "4.5"},
	}

	view := Render(rows, cfg)
	require.Equal(t, ViewChart, view.Kind)
	assert.Equal(t, []ChartPoint{{Name: "A", Value: 15}}, view.Chart.Points)
}

func TestBarChartDegradesWithoutMeasure(t *testing.T) {
	cfg := dealsConfig("name", "stage")
	cfg.SetVisualization(VisualizationBarChart)

	view := Render([]query.Row{{"name": "Acme", "stage": "A"}}, cfg)
	assert.Equal(t, ViewPlaceholder, view.Kind)
	assert.Equal(t, msgNoMeasure, view.Message)
}

func TestBarChartDegradesWithoutDimension(t *testing.T) {
	cfg := dealsConfig("value")
	cfg.SetVisualization(VisualizationBarChart)

	view := Render([]query.Row{{"value": 10.0}}, cfg)
	assert.Equal(t, ViewPlaceholder, view.Kind)
	assert.Equal(t, msgNoDimension, view.Message)
}

func TestBarChartGroupingOverridesDimension(t *testing.T) {
	cfg := dealsConfig("name", "stage", "value")
	cfg.SetVisualization(VisualizationBarChart)
	cfg.Grouping = []string{"stage"}

	rows := []query.Row{
		{"name": "D1", "stage": "A", "value": 1.0},
		{"name": "D2", "stage": "A", "value": 2.0},
	}

	view := Render(rows, cfg)
	require.Equal(t, ViewChart, view.Kind)
	assert.Equal(t, "stage", view.Chart.Dimension)
	assert.Equal(t, []ChartPoint{{Name: "A", Value: 3}}, view.Chart.Points)
}

func TestPieChartCountsFirstSeenOrder(t *testing.T) {
	cfg := dealsConfig("status")
	cfg.SetVisualization(VisualizationPieChart)

	rows := []query.Row{
		{"status": "won"},
		{"status": "won"},
		{"status": "lost"},
	}

	view := Render(rows, cfg)
	require.Equal(t, ViewChart, view.Kind)
	require.NotNil(t, view.Chart)

	assert.Equal(t, []ChartPoint{
		{Name: "won", Value: 2},
		{Name: "lost", Value: 1},
	}, view.Chart.Points)
}

func TestPieChartCapsSlices(t *testing.T) {
	cfg := dealsConfig("stage")
	cfg.SetVisualization(VisualizationPieChart)

	rows := make([]query.Row, 0)
	// Nine distinct stages; stage-0 and stage-1 get extra weight.
	for i := 0; i < 9; i++ {
		rows = append(rows, query.Row{"stage": fmt.Sprintf("stage-%d", i)})
	}
	rows = append(rows, query.Row{"stage": "stage-0"}, query.Row{"stage": "stage-1"})

	view := Render(rows, cfg)
	require.Equal(t, ViewChart, view.Kind)
	require.Len(t, view.Chart.Points, maxPieSlices)

	assert.Equal(t, "stage-0", view.Chart.Points[0].Name, "largest slices kept in first-seen order")
	assert.Equal(t, float64(2), view.Chart.Points[0].Value)
	assert.Equal(t, "stage-1", view.Chart.Points[1].Name)
}

func TestPieChartDegradesWithoutCategory(t *testing.T) {
	cfg := dealsConfig("value")
	cfg.SetVisualization(VisualizationPieChart)

	view := Render([]query.Row{{"value": 10.0}}, cfg)
	assert.Equal(t, ViewPlaceholder, view.Kind)
	assert.Equal(t, msgNoCategory, view.Message)
}
