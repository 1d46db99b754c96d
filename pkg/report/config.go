package report

// Visualization selects how a result set is rendered.
type Visualization string

const (
	VisualizationTable      Visualization = "table"
	VisualizationBarChart   Visualization = "bar_chart"
	VisualizationPieChart   Visualization = "pie_chart"
	VisualizationKPICards   Visualization = "kpi_cards"
	VisualizationComparison Visualization = "comparison_chart"
)

// Operator is the closed set of filter predicates.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
)

// Valid reports whether op is one of the supported operators.
func (op Operator) Valid() bool {
	switch op {
	case OpEquals, OpNotEquals, OpContains, OpGreaterThan, OpLessThan:
		return true
	}
	return false
}

// ValueKind discriminates how a filter value is interpreted when the
// operator has ordering semantics.
type ValueKind string

const (
	KindText   ValueKind = "text"
	KindNumber ValueKind = "number"
	KindDate   ValueKind = "date"
)

// FilterValue carries a filter operand with its declared kind, so that
// greater_than/less_than compare numerically or by date instead of
// guessing from the raw string.
type FilterValue struct {
	Kind ValueKind `json:"kind"`
	Raw  string    `json:"raw"`
}

// Filter is one predicate in a query configuration.
type Filter struct {
	Field    string      `json:"field"`
	Operator Operator    `json:"operator"`
	Value    FilterValue `json:"value"`
}

// Direction of a sort key.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Sort is one ordering key; multiple entries form a multi-key sort,
// primary key first.
type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Config is the full declarative description of a report: which source to
// query, which fields to show, how to filter and order them, and how to
// render the result. Pure data; execution and rendering live elsewhere.
type Config struct {
	Source           Source        `json:"data_source"`
	Fields           []string      `json:"fields"`
	Filters          []Filter      `json:"filters"`
	Sorts            []Sort        `json:"sorting"`
	Grouping         []string      `json:"grouping"`
	ComparisonFields []string      `json:"comparison_fields"`
	Visualization    Visualization `json:"visualization_type"`

	// FilterExpr is an optional advanced predicate in expression syntax,
	// e.g. "status == 'won' && value > 1000". Validated against the
	// catalog at execution time.
	FilterExpr string `json:"filter_expr,omitempty"`
}

// NewConfig returns an empty configuration: no source, nothing selected,
// table visualization.
func NewConfig() *Config {
	return &Config{
		Fields:           []string{},
		Filters:          []Filter{},
		Sorts:            []Sort{},
		Grouping:         []string{},
		ComparisonFields: []string{},
		Visualization:    VisualizationTable,
	}
}

// SetSource replaces the data source. Field identifiers are not shared
// across sources, so every dependent selection is cleared.
func (c *Config) SetSource(s Source) {
	c.Source = s
	c.Fields = []string{}
	c.Filters = []Filter{}
	c.Sorts = []Sort{}
	c.Grouping = []string{}
	c.ComparisonFields = []string{}
	c.FilterExpr = ""
}

// ToggleField adds or removes a field. Order is the order fields were
// first toggled on; toggling off and on again moves the field to the end.
func (c *Config) ToggleField(fieldID string, included bool) {
	idx := -1
	for i, f := range c.Fields {
		if f == fieldID {
			idx = i
			break
		}
	}

	if included {
		if idx == -1 && c.Source.Has(fieldID) {
			c.Fields = append(c.Fields, fieldID)
		}
		return
	}

	if idx != -1 {
		c.Fields = append(c.Fields[:idx], c.Fields[idx+1:]...)
	}
}

// AddFilter appends a blank predicate.
func (c *Config) AddFilter() {
	c.Filters = append(c.Filters, Filter{
		Operator: OpEquals,
		Value:    FilterValue{Kind: KindText},
	})
}

// FilterPatch carries partial changes for UpdateFilter; nil fields are
// left untouched.
type FilterPatch struct {
	Field    *string
	Operator *Operator
	Value    *FilterValue
}

// UpdateFilter merges a patch into the predicate at index. Out-of-range
// indexes are a no-op: the UI drives these calls with indexes that can go
// stale between render and handler.
func (c *Config) UpdateFilter(index int, patch FilterPatch) {
	if index < 0 || index >= len(c.Filters) {
		return
	}
	if patch.Field != nil {
		c.Filters[index].Field = *patch.Field
	}
	if patch.Operator != nil {
		c.Filters[index].Operator = *patch.Operator
	}
	if patch.Value != nil {
		c.Filters[index].Value = *patch.Value
	}
}

// RemoveFilter deletes the predicate at index; out-of-range is a no-op.
func (c *Config) RemoveFilter(index int) {
	if index < 0 || index >= len(c.Filters) {
		return
	}
	c.Filters = append(c.Filters[:index], c.Filters[index+1:]...)
}

// AddSort appends a blank sort key.
func (c *Config) AddSort() {
	c.Sorts = append(c.Sorts, Sort{Direction: Ascending})
}

// SortPatch carries partial changes for UpdateSort.
type SortPatch struct {
	Field     *string
	Direction *Direction
}

// UpdateSort merges a patch into the sort key at index; out-of-range is a
// no-op.
func (c *Config) UpdateSort(index int, patch SortPatch) {
	if index < 0 || index >= len(c.Sorts) {
		return
	}
	if patch.Field != nil {
		c.Sorts[index].Field = *patch.Field
	}
	if patch.Direction != nil {
		c.Sorts[index].Direction = *patch.Direction
	}
}

// RemoveSort deletes the sort key at index; out-of-range is a no-op.
func (c *Config) RemoveSort(index int) {
	if index < 0 || index >= len(c.Sorts) {
		return
	}
	c.Sorts = append(c.Sorts[:index], c.Sorts[index+1:]...)
}

// SetVisualization switches the rendering mode. Fields and filters stay
// valid across visualization changes, so nothing else is touched.
func (c *Config) SetVisualization(v Visualization) {
	c.Visualization = v
}

// Normalize strips selections that do not belong to the active source's
// catalog. The builder UI structurally prevents invalid states, but
// configurations also arrive over the API, so this runs before execution.
func (c *Config) Normalize() {
	if !c.Source.Valid() {
		c.Fields = []string{}
		c.Filters = []Filter{}
		c.Sorts = []Sort{}
		c.Grouping = []string{}
		c.ComparisonFields = []string{}
		return
	}

	c.Fields = c.keepKnown(c.Fields)
	c.Grouping = c.keepKnown(c.Grouping)
	c.ComparisonFields = c.keepKnown(c.ComparisonFields)

	filters := c.Filters[:0]
	for _, f := range c.Filters {
		if f.Field == "" || !c.Source.Has(f.Field) || !f.Operator.Valid() {
			continue
		}
		filters = append(filters, f)
	}
	c.Filters = filters

	sorts := c.Sorts[:0]
	for _, s := range c.Sorts {
		if s.Field == "" || !c.Source.Has(s.Field) {
			continue
		}
		if s.Direction != Descending {
			s.Direction = Ascending
		}
		sorts = append(sorts, s)
	}
	c.Sorts = sorts
}

func (c *Config) keepKnown(ids []string) []string {
	kept := ids[:0]
	for _, id := range ids {
		if c.Source.Has(id) {
			kept = append(kept, id)
		}
	}
	return kept
}
