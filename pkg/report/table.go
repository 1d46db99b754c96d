package report

import (
	"fmt"
	"strings"

	"github.com/pulsecrm/reporting/pkg/query"
	"github.com/pulsecrm/reporting/pkg/utils"
)

// CellFormat tells the client how a cell was rendered.
type CellFormat string

const (
	FormatText     CellFormat = "text"
	FormatDate     CellFormat = "date"
	FormatCurrency CellFormat = "currency"
	FormatBadge    CellFormat = "badge"
)

// BadgeTone maps a badge to its visual treatment.
type BadgeTone string

const (
	TonePositive BadgeTone = "positive"
	ToneNeutral  BadgeTone = "neutral"
	ToneNegative BadgeTone = "negative"
	ToneOutline  BadgeTone = "outline"
	TonePlain    BadgeTone = "plain"
)

// Column describes one table column.
type Column struct {
	Field string `json:"field"`
	Label string `json:"label"`
}

// Cell is one formatted table cell.
type Cell struct {
	Text   string     `json:"text"`
	Format CellFormat `json:"format"`
	Tone   BadgeTone  `json:"tone,omitempty"`
}

// TableView is the table visualization payload: one column per selected
// field in selection order, one row of cells per result row.
type TableView struct {
	Columns []Column `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

func renderTable(rows []query.Row, cfg *Config) View {
	columns := make([]Column, 0, len(cfg.Fields))
	for _, f := range cfg.Fields {
		columns = append(columns, Column{Field: f, Label: cfg.Source.FieldLabel(f)})
	}

	out := make([][]Cell, 0, len(rows))
	for _, row := range rows {
		cells := make([]Cell, 0, len(cfg.Fields))
		for _, f := range cfg.Fields {
			cells = append(cells, FormatCell(f, row[f]))
		}
		out = append(out, cells)
	}

	return View{Kind: ViewTable, Table: &TableView{Columns: columns, Rows: out}}
}

// FormatCell renders a single raw value according to the field's naming
// conventions: date-ish fields as localized dates, value/amount fields as
// currency, booleans as Yes/No badges, status-ish values as toned badges.
// nil renders as "-".
func FormatCell(field string, val interface{}) Cell {
	if val == nil {
		return Cell{Text: "-", Format: FormatText}
	}

	if _, isBool := val.(bool); isBool || isBooleanish(field, val) {
		if utils.ToBool(val) {
			return Cell{Text: "Yes", Format: FormatBadge, Tone: TonePositive}
		}
		return Cell{Text: "No", Format: FormatBadge, Tone: ToneOutline}
	}

	if IsDateField(field) {
		if t, ok := utils.ToTime(val); ok {
			return Cell{Text: t.Format("Jan 2, 2006"), Format: FormatDate}
		}
		return Cell{Text: utils.ToString(val), Format: FormatText}
	}

	if IsCurrencyField(field) {
		if f, ok := utils.ToFloat(val); ok {
			return Cell{Text: CurrencyString(f), Format: FormatCurrency}
		}
	}

	if IsStatusField(field) {
		text := utils.ToString(val)
		return Cell{Text: text, Format: FormatBadge, Tone: StatusTone(text)}
	}

	text := utils.ToString(val)
	if text == "" {
		return Cell{Text: "-", Format: FormatText}
	}
	return Cell{Text: text, Format: FormatText}
}

// IsDateField applies the naming heuristic for timestamp columns.
func IsDateField(field string) bool {
	f := strings.ToLower(field)
	return strings.Contains(f, "date") || strings.Contains(f, "_at")
}

// IsCurrencyField applies the naming heuristic for monetary columns.
func IsCurrencyField(field string) bool {
	f := strings.ToLower(field)
	return strings.Contains(f, "value") || strings.Contains(f, "amount")
}

// IsStatusField applies the naming heuristic for status/stage columns.
func IsStatusField(field string) bool {
	f := strings.ToLower(field)
	return strings.Contains(f, "status") || strings.Contains(f, "stage")
}

func isBooleanish(field string, val interface{}) bool {
	f := strings.ToLower(field)
	if !strings.HasPrefix(f, "is_") && !strings.HasPrefix(f, "has_") {
		return false
	}
	switch val.(type) {
	case bool, int, int32, int64:
		return true
	}
	return false
}

// StatusTone resolves the fixed status -> tone mapping.
func StatusTone(status string) BadgeTone {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active", "won", "completed", "paid":
		return TonePositive
	case "pending", "in_progress", "due":
		return ToneNeutral
	case "cancelled", "lost", "overdue":
		return ToneNegative
	case "draft", "proposal":
		return ToneOutline
	}
	return TonePlain
}

// CurrencyString renders a float as a dollar amount with thousands
// separators, e.g. 1234.5 -> "$1,234.50".
func CurrencyString(f float64) string {
	neg := f < 0
	if neg {
		f = -f
	}

	whole := int64(f)
	cents := int64((f-float64(whole))*100 + 0.5)
	if cents >= 100 {
		whole++
		cents -= 100
	}

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(digits[i : i+3])
	}

	out := fmt.Sprintf("$%s.%02d", b.String(), cents)
	if neg {
		out = "-" + out
	}
	return out
}
