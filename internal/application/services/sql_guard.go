package services

import (
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/format"
	"github.com/pingcap/tidb/pkg/parser/opcode"
	"github.com/pingcap/tidb/pkg/parser/test_driver" // ValueExpr implementation

	"github.com/pulsecrm/reporting/pkg/auth"
	"github.com/pulsecrm/reporting/pkg/constants"
	"github.com/pulsecrm/reporting/pkg/report"
)

// SQLGuard parses admin analytics SQL and enforces the rules that make it
// safe to forward to the data store: one statement, SELECT only, only
// reportable tables, and a tenant filter injected into the WHERE clause.
type SQLGuard struct {
	parser *parser.Parser
}

// NewSQLGuard creates a new SQLGuard
func NewSQLGuard() *SQLGuard {
	return &SQLGuard{parser: parser.New()}
}

// ValidateAndRewrite returns the guarded SQL, or an error describing the
// violation. The tenant predicate is injected as a literal: the tenant id
// comes from a verified token, never from the request body.
func (g *SQLGuard) ValidateAndRewrite(sqlText string, user *auth.UserSession) (string, error) {
	stmtNodes, _, err := g.parser.Parse(sqlText, "", "")
	if err != nil {
		return "", fmt.Errorf("SQL parse error: %v", err)
	}

	if len(stmtNodes) != 1 {
		return "", fmt.Errorf("only single SQL statements are allowed")
	}

	selectStmt, ok := stmtNodes[0].(*ast.SelectStmt)
	if !ok {
		return "", fmt.Errorf("only SELECT statements are allowed in analytics")
	}

	visitor := &tableVisitor{}
	selectStmt.Accept(visitor)
	if visitor.err != nil {
		return "", visitor.err
	}

	// Inject after the visitor pass to avoid mutating the AST mid-walk.
	injectTenantFilter(selectStmt, user.TenantID)

	var sb strings.Builder
	restoreCtx := format.NewRestoreCtx(format.DefaultRestoreFlags, &sb)
	if err := selectStmt.Restore(restoreCtx); err != nil {
		return "", fmt.Errorf("SQL restore error: %v", err)
	}

	return sb.String(), nil
}

// injectTenantFilter ANDs "tenant_id = '<id>'" onto the WHERE clause.
func injectTenantFilter(stmt *ast.SelectStmt, tenantID string) {
	colExpr := &ast.ColumnNameExpr{
		Name: &ast.ColumnName{Name: ast.NewCIStr(constants.FieldTenantID)},
	}

	rightExpr := &test_driver.ValueExpr{}
	rightExpr.SetString(tenantID)

	cond := &ast.BinaryOperationExpr{
		Op: opcode.EQ,
		L:  colExpr,
		R:  rightExpr,
	}

	if stmt.Where == nil {
		stmt.Where = cond
	} else {
		stmt.Where = &ast.BinaryOperationExpr{
			Op: opcode.LogicAnd,
			L:  stmt.Where,
			R:  cond,
		}
	}
}

// tableVisitor rejects any table outside the reportable set.
type tableVisitor struct {
	err error
}

func (v *tableVisitor) Enter(in ast.Node) (ast.Node, bool) {
	if v.err != nil {
		return in, true
	}

	if t, ok := in.(*ast.TableName); ok {
		name := t.Name.O
		if name != "" && !isReportableTable(name) {
			v.err = fmt.Errorf("access denied: cannot query table '%s'", name)
			return in, true
		}
	}
	return in, false
}

func (v *tableVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}

func isReportableTable(name string) bool {
	for _, s := range report.AllSources() {
		if strings.EqualFold(s.Table(), name) {
			return true
		}
	}
	return false
}
