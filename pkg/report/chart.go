package report

import (
	"sort"
	"strings"

	"github.com/pulsecrm/reporting/pkg/query"
	"github.com/pulsecrm/reporting/pkg/utils"
)

// ChartPoint is one bar or pie slice.
type ChartPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ComparisonPoint is one paired-bar entry: the two nominated field values
// for a single record.
type ComparisonPoint struct {
	Name   string  `json:"name"`
	First  float64 `json:"first"`
	Second float64 `json:"second"`
}

// ChartView is the chart visualization payload.
type ChartView struct {
	Type      Visualization     `json:"type"`
	Dimension string            `json:"dimension,omitempty"`
	Measure   string            `json:"measure,omitempty"`
	Points    []ChartPoint      `json:"points,omitempty"`
	Series    []string          `json:"series,omitempty"`
	Pairs     []ComparisonPoint `json:"pairs,omitempty"`
}

// Pie charts cap the number of slices so the legend stays readable.
const maxPieSlices = 6

func isMeasureField(field string) bool {
	f := strings.ToLower(field)
	return strings.Contains(f, "value") || strings.Contains(f, "amount") || strings.Contains(f, "count")
}

func isDimensionField(field string) bool {
	f := strings.ToLower(field)
	return strings.Contains(f, "name") || strings.Contains(f, "status") || strings.Contains(f, "stage")
}

func isCategoryField(field string) bool {
	f := strings.ToLower(field)
	return strings.Contains(f, "status") || strings.Contains(f, "stage") || strings.Contains(f, "type")
}

// pickField returns the first selected field matching the predicate; an
// explicit grouping entry wins over the heuristic.
func pickField(cfg *Config, match func(string) bool) string {
	if len(cfg.Grouping) > 0 && cfg.Source.Has(cfg.Grouping[0]) {
		return cfg.Grouping[0]
	}
	for _, f := range cfg.Fields {
		if match(f) {
			return f
		}
	}
	return ""
}

func pickMeasure(cfg *Config) string {
	// Grouping names the dimension, never the measure.
	for _, f := range cfg.Fields {
		if isMeasureField(f) {
			return f
		}
	}
	return ""
}

func renderBarChart(rows []query.Row, cfg *Config) View {
	measure := pickMeasure(cfg)
	if measure == "" {
		return placeholder(msgNoMeasure)
	}
	dimension := pickField(cfg, isDimensionField)
	if dimension == "" || dimension == measure {
		return placeholder(msgNoDimension)
	}

	// Group by dimension value, first-seen order, summing the measure.
	sums := make(map[string]float64)
	order := make([]string, 0)
	for _, row := range rows {
		key := utils.ToString(row[dimension])
		if key == "" {
			key = "-"
		}
		if _, seen := sums[key]; !seen {
			order = append(order, key)
		}
		if f, ok := utils.ToFloat(row[measure]); ok {
			sums[key] += f
		}
	}

	points := make([]ChartPoint, 0, len(order))
	for _, key := range order {
		points = append(points, ChartPoint{Name: key, Value: sums[key]})
	}

	return View{Kind: ViewChart, Chart: &ChartView{
		Type:      VisualizationBarChart,
		Dimension: dimension,
		Measure:   measure,
		Points:    points,
	}}
}

func renderPieChart(rows []query.Row, cfg *Config) View {
	category := pickField(cfg, isCategoryField)
	if category == "" {
		return placeholder(msgNoCategory)
	}

	// Count occurrences per distinct value, first-seen order.
	counts := make(map[string]float64)
	order := make([]string, 0)
	for _, row := range rows {
		key := utils.ToString(row[category])
		if key == "" {
			key = "-"
		}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	// Keep only the largest slices when over the cap, preserving
	// first-seen order among the survivors.
	keep := order
	if len(order) > maxPieSlices {
		ranked := append([]string(nil), order...)
		sort.SliceStable(ranked, func(i, j int) bool {
			return counts[ranked[i]] > counts[ranked[j]]
		})
		top := make(map[string]bool, maxPieSlices)
		for _, key := range ranked[:maxPieSlices] {
			top[key] = true
		}
		keep = keep[:0:0]
		for _, key := range order {
			if top[key] {
				keep = append(keep, key)
			}
		}
	}

	points := make([]ChartPoint, 0, len(keep))
	for _, key := range keep {
		points = append(points, ChartPoint{Name: key, Value: counts[key]})
	}

	return View{Kind: ViewChart, Chart: &ChartView{
		Type:      VisualizationPieChart,
		Dimension: category,
		Points:    points,
	}}
}

func renderComparison(rows []query.Row, cfg *Config) View {
	if len(cfg.ComparisonFields) != 2 {
		return placeholder(msgComparisonCount)
	}
	first, second := cfg.ComparisonFields[0], cfg.ComparisonFields[1]

	label := labelField(cfg)

	pairs := make([]ComparisonPoint, 0, len(rows))
	for _, row := range rows {
		name := utils.ToString(row[label])
		if name == "" {
			name = utils.ToString(row["id"])
		}
		a, _ := utils.ToFloat(row[first])
		b, _ := utils.ToFloat(row[second])
		pairs = append(pairs, ComparisonPoint{Name: name, First: a, Second: b})
	}

	return View{Kind: ViewChart, Chart: &ChartView{
		Type:   VisualizationComparison,
		Series: []string{cfg.Source.FieldLabel(first), cfg.Source.FieldLabel(second)},
		Pairs:  pairs,
	}}
}

// labelField finds the record's display-name column for axis labels.
func labelField(cfg *Config) string {
	for _, f := range cfg.Fields {
		if strings.Contains(strings.ToLower(f), "name") {
			return f
		}
	}
	return "name"
}
