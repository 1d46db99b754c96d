package query

import (
	"fmt"
	"strings"

	"github.com/pulsecrm/reporting/pkg/constants"
)

// QueryType represents the type of SQL query
type QueryType string

const (
	QueryTypeSelect QueryType = "SELECT"
	QueryTypeInsert QueryType = "INSERT"
	QueryTypeUpdate QueryType = "UPDATE"
)

// QueryResult represents the built SQL query and parameters
type QueryResult struct {
	SQL    string
	Params []interface{}
}

// Builder is a fluent SQL query builder. Report execution only ever reads;
// INSERT/UPDATE exist for the notification store.
type Builder struct {
	queryType    QueryType
	table        string
	fields       []string
	whereClauses []string
	params       []interface{}
	orderClauses []string
	groupBy      string
	limit        *int
	values       map[string]interface{}
}

// From creates a new SELECT query builder
func From(table string) *Builder {
	return &Builder{
		queryType:    QueryTypeSelect,
		table:        table,
		fields:       make([]string, 0),
		whereClauses: make([]string, 0),
		params:       make([]interface{}, 0),
		orderClauses: make([]string, 0),
	}
}

// Insert creates a new INSERT query builder
func Insert(table string, data map[string]interface{}) *Builder {
	return &Builder{
		queryType: QueryTypeInsert,
		table:     table,
		values:    data,
		params:    make([]interface{}, 0),
	}
}

// Update creates a new UPDATE query builder
func Update(table string) *Builder {
	return &Builder{
		queryType:    QueryTypeUpdate,
		table:        table,
		values:       make(map[string]interface{}),
		whereClauses: make([]string, 0),
		params:       make([]interface{}, 0),
	}
}

// Select specifies which fields to select
func (b *Builder) Select(fields []string) *Builder {
	if b.queryType != QueryTypeSelect {
		return b
	}

	for _, field := range fields {
		if field == "*" {
			b.fields = append(b.fields, "*")
			continue
		}
		b.fields = append(b.fields, b.qualify(field))
	}

	// Always ensure ID is present
	hasID := false
	for _, f := range b.fields {
		if strings.Contains(f, ".`id`") || f == "id" || f == "*" {
			hasID = true
			break
		}
	}
	if !hasID {
		b.fields = append([]string{b.qualify(constants.FieldID)}, b.fields...)
	}

	return b
}

// AddSelectRaw adds a raw select expression
func (b *Builder) AddSelectRaw(expression string, alias ...string) *Builder {
	if b.queryType != QueryTypeSelect {
		return b
	}

	if len(alias) > 0 && alias[0] != "" {
		b.fields = append(b.fields, fmt.Sprintf("%s as `%s`", expression, alias[0]))
	} else {
		b.fields = append(b.fields, expression)
	}
	return b
}

// Where adds a WHERE condition
func (b *Builder) Where(condition string, value ...interface{}) *Builder {
	b.whereClauses = append(b.whereClauses, condition)
	if len(value) > 0 {
		b.params = append(b.params, value...)
	}
	return b
}

// WhereRaw adds a raw WHERE condition with parameters
func (b *Builder) WhereRaw(sql string, params []interface{}) *Builder {
	if sql != "" {
		b.whereClauses = append(b.whereClauses, sql)
		b.params = append(b.params, params...)
	}
	return b
}

// ForTenant scopes the query to a single tenant's rows
func (b *Builder) ForTenant(tenantID string) *Builder {
	return b.Where(fmt.Sprintf("%s = ?", b.qualify(constants.FieldTenantID)), tenantID)
}

// ExcludeDeleted adds is_deleted = 0 condition
func (b *Builder) ExcludeDeleted() *Builder {
	return b.Where(fmt.Sprintf("%s = %d", b.qualify(constants.FieldIsDeleted), constants.IsDeletedFalse))
}

// Set sets values for UPDATE query
func (b *Builder) Set(data map[string]interface{}) *Builder {
	if b.queryType != QueryTypeUpdate {
		return b
	}

	b.values = data
	return b
}

// OrderBy appends an ORDER BY key; repeated calls build a multi-key sort,
// primary key first.
func (b *Builder) OrderBy(field string, direction string) *Builder {
	if b.queryType != QueryTypeSelect {
		return b
	}

	dir := "ASC"
	if strings.EqualFold(direction, "desc") {
		dir = "DESC"
	}
	b.orderClauses = append(b.orderClauses, fmt.Sprintf("%s %s", b.qualify(field), dir))
	return b
}

// GroupBy adds GROUP BY clause
func (b *Builder) GroupBy(field string) *Builder {
	if b.queryType != QueryTypeSelect {
		return b
	}

	if b.groupBy == "" {
		b.groupBy = fmt.Sprintf("GROUP BY %s", b.qualify(field))
	} else {
		b.groupBy += fmt.Sprintf(", %s", b.qualify(field))
	}
	return b
}

// GroupByRaw adds a raw GROUP BY clause
func (b *Builder) GroupByRaw(sql string) *Builder {
	if b.queryType != QueryTypeSelect {
		return b
	}

	b.groupBy = fmt.Sprintf("GROUP BY %s", sql)
	return b
}

// Limit adds LIMIT clause
func (b *Builder) Limit(n int) *Builder {
	if b.queryType != QueryTypeSelect {
		return b
	}

	b.limit = &n
	return b
}

// Qualify returns the backtick-quoted, table-prefixed form of a column.
// Exposed so callers building raw fragments quote consistently.
func (b *Builder) Qualify(field string) string {
	return b.qualify(field)
}

func (b *Builder) qualify(field string) string {
	if strings.Contains(field, ".") || strings.Contains(field, "`") {
		return field
	}
	return fmt.Sprintf("`%s`.`%s`", b.table, field)
}

// Build constructs the final SQL query
func (b *Builder) Build() QueryResult {
	var sql string
	var params []interface{}

	switch b.queryType {
	case QueryTypeSelect:
		sql = b.buildSelect()
		params = b.params

	case QueryTypeInsert:
		sql, params = b.buildInsert()

	case QueryTypeUpdate:
		sql, params = b.buildUpdate()
	}

	return QueryResult{
		SQL:    sql,
		Params: params,
	}
}

func (b *Builder) buildSelect() string {
	var parts []string

	fields := "*"
	if len(b.fields) > 0 {
		fields = strings.Join(b.fields, ", ")
	}
	parts = append(parts, fmt.Sprintf("SELECT %s FROM `%s`", fields, b.table))

	if len(b.whereClauses) > 0 {
		parts = append(parts, fmt.Sprintf("WHERE %s", strings.Join(b.whereClauses, " AND ")))
	}

	if b.groupBy != "" {
		parts = append(parts, b.groupBy)
	}

	if len(b.orderClauses) > 0 {
		parts = append(parts, fmt.Sprintf("ORDER BY %s", strings.Join(b.orderClauses, ", ")))
	}

	if b.limit != nil {
		parts = append(parts, fmt.Sprintf("LIMIT %d", *b.limit))
	}

	return strings.Join(parts, " ")
}

func (b *Builder) buildInsert() (string, []interface{}) {
	var cols []string
	var placeholders []string
	var params []interface{}

	for key, val := range b.values {
		cols = append(cols, fmt.Sprintf("`%s`", key))
		placeholders = append(placeholders, "?")
		params = append(params, val)
	}

	sql := fmt.Sprintf("INSERT INTO `%s` (%s) VALUES (%s)",
		b.table,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "))

	return sql, params
}

func (b *Builder) buildUpdate() (string, []interface{}) {
	var setClauses []string
	var params []interface{}

	for key, val := range b.values {
		setClauses = append(setClauses, fmt.Sprintf("`%s` = ?", key))
		params = append(params, val)
	}

	sql := fmt.Sprintf("UPDATE `%s` SET %s", b.table, strings.Join(setClauses, ", "))

	if len(b.whereClauses) > 0 {
		sql += fmt.Sprintf(" WHERE %s", strings.Join(b.whereClauses, " AND "))
		params = append(params, b.params...)
	}

	return sql, params
}
