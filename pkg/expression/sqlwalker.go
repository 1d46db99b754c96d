package expression

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// ColumnResolver maps a bare identifier from an expression to a quoted,
// table-qualified SQL column. Returning false rejects the identifier,
// which is how the field catalog bounds what an expression may touch.
type ColumnResolver func(name string) (string, bool)

// SQLWalker converts an expr AST into a parameterised SQL WHERE fragment.
type SQLWalker struct {
	builder strings.Builder
	args    []interface{}
	resolve ColumnResolver
	err     error
}

// ToSQL converts an advanced filter expression (expr syntax, e.g.
// "status == 'won' && value > 1000") into a SQL condition plus bind args.
// Every identifier must be accepted by the resolver.
func ToSQL(expression string, resolve ColumnResolver) (string, []interface{}, error) {
	tree, err := parser.Parse(expression)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse filter expression: %w", err)
	}

	walker := &SQLWalker{
		args:    make([]interface{}, 0),
		resolve: resolve,
	}
	walker.walk(&tree.Node)

	if walker.err != nil {
		return "", nil, walker.err
	}
	return walker.builder.String(), walker.args, nil
}

// isNilNode checks if a node represents a null value. expr parses null as
// either a NilNode or an IdentifierNode spelled "null"/"nil".
func isNilNode(node ast.Node) bool {
	if _, ok := node.(*ast.NilNode); ok {
		return true
	}
	if id, ok := node.(*ast.IdentifierNode); ok {
		val := strings.ToLower(id.Value)
		return val == "null" || val == "nil"
	}
	return false
}

func (w *SQLWalker) walk(node *ast.Node) {
	if w.err != nil {
		return
	}
	if node == nil || *node == nil {
		return
	}

	switch v := (*node).(type) {
	case *ast.BinaryNode:
		w.visitBinary(v)
	case *ast.UnaryNode:
		w.visitUnary(v)
	case *ast.IdentifierNode:
		w.writeColumn(v.Value)
	case *ast.IntegerNode:
		w.builder.WriteString("?")
		w.args = append(w.args, v.Value)
	case *ast.FloatNode:
		w.builder.WriteString("?")
		w.args = append(w.args, v.Value)
	case *ast.StringNode:
		w.builder.WriteString("?")
		w.args = append(w.args, v.Value)
	case *ast.BoolNode:
		w.builder.WriteString("?")
		w.args = append(w.args, v.Value)
	case *ast.NilNode:
		w.builder.WriteString("NULL")
	case *ast.CallNode:
		w.visitCall(v)
	default:
		w.err = fmt.Errorf("unsupported node type: %T", *node)
	}
}

func (w *SQLWalker) writeColumn(name string) {
	if w.resolve == nil {
		w.builder.WriteString(name)
		return
	}
	col, ok := w.resolve(name)
	if !ok {
		w.err = fmt.Errorf("unknown field in filter expression: %s", name)
		return
	}
	w.builder.WriteString(col)
}

func (w *SQLWalker) visitUnary(node *ast.UnaryNode) {
	switch node.Operator {
	case "!", "not":
		w.builder.WriteString("NOT (")
		w.walk(&node.Node)
		w.builder.WriteString(")")
	case "-":
		w.builder.WriteString("-")
		w.walk(&node.Node)
	default:
		w.err = fmt.Errorf("unsupported unary operator: %s", node.Operator)
	}
}

func (w *SQLWalker) visitBinary(node *ast.BinaryNode) {
	// Null comparisons need IS NULL / IS NOT NULL syntax.
	rightIsNil := isNilNode(node.Right)
	leftIsNil := isNilNode(node.Left)

	if rightIsNil || leftIsNil {
		fieldNode := node.Left
		if leftIsNil {
			fieldNode = node.Right
		}

		w.builder.WriteString("(")
		w.walk(&fieldNode)
		switch node.Operator {
		case "==":
			w.builder.WriteString(" IS NULL")
		case "!=":
			w.builder.WriteString(" IS NOT NULL")
		default:
			w.err = fmt.Errorf("unsupported operator for null comparison: %s", node.Operator)
		}
		w.builder.WriteString(")")
		return
	}

	w.builder.WriteString("(")
	w.walk(&node.Left)
	w.builder.WriteString(" ")

	switch node.Operator {
	case "==":
		w.builder.WriteString("=")
	case "&&", "and":
		w.builder.WriteString("AND")
	case "||", "or":
		w.builder.WriteString("OR")
	case "!=", "<", ">", "<=", ">=", "+", "-", "*", "/":
		w.builder.WriteString(node.Operator)
	default:
		w.err = fmt.Errorf("unsupported operator: %s", node.Operator)
	}

	w.builder.WriteString(" ")
	w.walk(&node.Right)
	w.builder.WriteString(")")
}

func (w *SQLWalker) visitCall(node *ast.CallNode) {
	callee, ok := node.Callee.(*ast.IdentifierNode)
	if !ok {
		w.err = fmt.Errorf("unsupported callee type: %T", node.Callee)
		return
	}

	switch strings.ToUpper(callee.Value) {
	case "UPPER":
		w.builder.WriteString("UPPER(")
		w.walkArgs(node.Arguments)
		w.builder.WriteString(")")

	case "LOWER":
		w.builder.WriteString("LOWER(")
		w.walkArgs(node.Arguments)
		w.builder.WriteString(")")

	case "TODAY":
		w.builder.WriteString("CURDATE()")

	case "CONTAINS":
		// CONTAINS(field, 'text') -> LOWER(field) LIKE '%text%'
		if len(node.Arguments) != 2 {
			w.err = fmt.Errorf("CONTAINS requires 2 arguments")
			return
		}
		strArg, ok := node.Arguments[1].(*ast.StringNode)
		if !ok {
			w.err = fmt.Errorf("CONTAINS second argument must be a string literal")
			return
		}
		w.builder.WriteString("LOWER(")
		arg0 := node.Arguments[0]
		w.walk(&arg0)
		w.builder.WriteString(") LIKE ?")
		w.args = append(w.args, "%"+strings.ToLower(strArg.Value)+"%")

	case "STARTS_WITH":
		if len(node.Arguments) != 2 {
			w.err = fmt.Errorf("STARTS_WITH requires 2 arguments")
			return
		}
		strArg, ok := node.Arguments[1].(*ast.StringNode)
		if !ok {
			w.err = fmt.Errorf("STARTS_WITH second argument must be a string literal")
			return
		}
		arg0 := node.Arguments[0]
		w.walk(&arg0)
		w.builder.WriteString(" LIKE ?")
		w.args = append(w.args, strArg.Value+"%")

	default:
		w.err = fmt.Errorf("unsupported function: %s", callee.Value)
	}
}

func (w *SQLWalker) walkArgs(args []ast.Node) {
	for i, arg := range args {
		if i > 0 {
			w.builder.WriteString(", ")
		}
		argNode := arg
		w.walk(&argNode)
	}
}
