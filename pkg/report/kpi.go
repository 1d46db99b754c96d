package report

import (
	"fmt"
	"strings"

	"github.com/pulsecrm/reporting/pkg/expression"
	"github.com/pulsecrm/reporting/pkg/query"
	"github.com/pulsecrm/reporting/pkg/utils"
)

// KPIFormat selects how a KPI value is rendered.
type KPIFormat string

const (
	KPICurrency KPIFormat = "currency"
	KPICount    KPIFormat = "count"
	KPIPercent  KPIFormat = "percent"
	KPIText     KPIFormat = "text"
)

// KPICard is one rendered summary card.
type KPICard struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Icon  string `json:"icon"`
}

// KPIDef is one entry in a source's KPI table. Compute returns the value
// plus an ok flag; ok=false omits the card (e.g. Avg Probability when no
// row carries a probability).
type KPIDef struct {
	Label   string
	Format  KPIFormat
	Compute func(rows []query.Row) (float64, bool)
}

// Icons rotate per card position. Cosmetic and stable for a given config.
var kpiIcons = []string{"trending-up", "hash", "award", "percent", "calendar", "target"}

func kpiIcon(i int) string {
	return kpiIcons[i%len(kpiIcons)]
}

func sumField(field string) func(rows []query.Row) (float64, bool) {
	return func(rows []query.Row) (float64, bool) {
		total := 0.0
		for _, row := range rows {
			if f, ok := utils.ToFloat(row[field]); ok {
				total += f
			}
		}
		return total, true
	}
}

func countAll(rows []query.Row) (float64, bool) {
	return float64(len(rows)), true
}

func countWhere(field, value string) func(rows []query.Row) (float64, bool) {
	return func(rows []query.Row) (float64, bool) {
		n := 0.0
		for _, row := range rows {
			if strings.EqualFold(utils.ToString(row[field]), value) {
				n++
			}
		}
		return n, true
	}
}

// avgField averages the rows that actually carry the field; when no row
// does, the card is omitted rather than rendered as zero.
func avgField(field string) func(rows []query.Row) (float64, bool) {
	return func(rows []query.Row) (float64, bool) {
		total, n := 0.0, 0
		for _, row := range rows {
			if f, ok := utils.ToFloat(row[field]); ok {
				total += f
				n++
			}
		}
		if n == 0 {
			return 0, false
		}
		return total / float64(n), true
	}
}

// kpiDefs is the per-source KPI definition table: a deliberate per-domain
// heuristic, resolved through one exhaustive dispatch over Source.
func kpiDefs(source Source) []KPIDef {
	switch source {
	case SourceDeals:
		return []KPIDef{
			{Label: "Total Deal Value", Format: KPICurrency, Compute: sumField("value")},
			{Label: "Total Deals", Format: KPICount, Compute: countAll},
			{Label: "Won Deals", Format: KPICount, Compute: countWhere("status", "won")},
			{Label: "Avg Probability", Format: KPIPercent, Compute: avgField("probability")},
		}
	case SourceContracts:
		return []KPIDef{
			{Label: "Total Contract Value", Format: KPICurrency, Compute: sumField("value")},
			{Label: "Total Contracts", Format: KPICount, Compute: countAll},
			{Label: "Active Contracts", Format: KPICount, Compute: countWhere("status", "active")},
			{Label: "Due Contracts", Format: KPICount, Compute: countWhere("status", "due")},
		}
	case SourceContractPayments:
		return []KPIDef{
			{Label: "Total Payment Amount", Format: KPICurrency, Compute: sumField("amount")},
			{Label: "Payments", Format: KPICount, Compute: countAll},
			{Label: "Paid", Format: KPICount, Compute: countWhere("status", "paid")},
			{Label: "Overdue", Format: KPICount, Compute: countWhere("status", "overdue")},
		}
	case SourceContacts, SourceCompanies, SourceSites, SourceCustomers:
		return nil
	}
	return nil
}

func formatKPIValue(v float64, format KPIFormat) string {
	switch format {
	case KPICurrency:
		return CurrencyString(v)
	case KPIPercent:
		return fmt.Sprintf("%.1f%%", v)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func renderKPICards(rows []query.Row, cfg *Config) View {
	defs := kpiDefs(cfg.Source)

	cards := make([]KPICard, 0, len(defs)+2)
	for _, def := range defs {
		val, ok := def.Compute(rows)
		if !ok {
			continue
		}
		cards = append(cards, KPICard{
			Label: def.Label,
			Value: formatKPIValue(val, def.Format),
			Icon:  kpiIcon(len(cards)),
		})
	}

	// Sources without a bespoke table get the generic pair.
	if len(cards) == 0 {
		cards = append(cards,
			KPICard{Label: "Total Records", Value: formatKPIValue(float64(len(rows)), KPICount), Icon: kpiIcon(0)},
			KPICard{Label: "Data Source", Value: cfg.Source.Label(), Icon: kpiIcon(1)},
		)
	}

	return View{Kind: ViewKPICards, KPIs: cards}
}

// CustomKPI is a tenant-defined card computed by an expression over the
// aggregate environment: count, plus sum_<field> and avg_<field> for every
// numeric-looking selected field (e.g. "ROUND(sum_value / count, 1)").
type CustomKPI struct {
	Label  string    `json:"label"`
	Expr   string    `json:"expr"`
	Format KPIFormat `json:"format"`
}

// EvalCustomKPIs evaluates tenant-defined KPI expressions. Cards whose
// expression fails or yields a non-number are dropped, not errored.
func EvalCustomKPIs(engine *expression.Engine, rows []query.Row, cfg *Config, custom []CustomKPI) []KPICard {
	if len(custom) == 0 {
		return nil
	}

	env := aggregateEnv(rows, cfg)

	cards := make([]KPICard, 0, len(custom))
	for _, kpi := range custom {
		out, err := engine.Evaluate(kpi.Expr, env)
		if err != nil {
			continue
		}
		val, ok := utils.ToFloat(out)
		if !ok {
			continue
		}
		format := kpi.Format
		if format == "" {
			format = KPICount
		}
		cards = append(cards, KPICard{
			Label: kpi.Label,
			Value: formatKPIValue(val, format),
			Icon:  kpiIcon(len(cards)),
		})
	}
	return cards
}

func aggregateEnv(rows []query.Row, cfg *Config) map[string]interface{} {
	env := map[string]interface{}{
		"count": float64(len(rows)),
	}
	for _, field := range cfg.Fields {
		if !isMeasureField(field) && field != "probability" {
			continue
		}
		if sum, ok := sumField(field)(rows); ok {
			env["sum_"+field] = sum
		}
		if avg, ok := avgField(field)(rows); ok {
			env["avg_"+field] = avg
		}
	}
	return env
}
