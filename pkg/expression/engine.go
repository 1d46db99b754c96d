package expression

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Engine is a wrapper around expr-lang/expr with a compiled-program cache.
// It evaluates computed KPI formulas against an aggregate environment
// (e.g. "total / count * 100") and row-level predicates during preview.
type Engine struct {
	programCache map[string]*vm.Program
	mu           sync.RWMutex
}

// NewEngine creates a new expression engine
func NewEngine() *Engine {
	return &Engine{
		programCache: make(map[string]*vm.Program),
	}
}

// Evaluate compiles (if needed) and runs an expression against the given environment
func (e *Engine) Evaluate(expression string, env map[string]interface{}) (interface{}, error) {
	program, err := e.getProgram(expression)
	if err != nil {
		return nil, err
	}
	return expr.Run(program, env)
}

// EvaluateBool runs an expression expected to yield a boolean. Non-boolean
// results are a validation problem on the caller's side, reported as error.
func (e *Engine) EvaluateBool(expression string, env map[string]interface{}) (bool, error) {
	out, err := e.Evaluate(expression, env)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("expression did not evaluate to a boolean: %q", expression)
	}
	return b, nil
}

// Validate compiles an expression without running it
func (e *Engine) Validate(expression string) error {
	_, err := e.getProgram(expression)
	return err
}

func (e *Engine) getProgram(expression string) (*vm.Program, error) {
	e.mu.RLock()
	if prog, ok := e.programCache[expression]; ok {
		e.mu.RUnlock()
		return prog, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	// Double check
	if prog, ok := e.programCache[expression]; ok {
		return prog, nil
	}

	options := []expr.Option{
		expr.AllowUndefinedVariables(),
		expr.Function("TODAY", func(params ...interface{}) (interface{}, error) {
			return time.Now().Format("2006-01-02"), nil
		}),
		expr.Function("IF", func(params ...interface{}) (interface{}, error) {
			if len(params) != 3 {
				return nil, fmt.Errorf("IF requires 3 arguments (condition, true_value, false_value)")
			}
			cond, ok := params[0].(bool)
			if !ok {
				return nil, fmt.Errorf("IF condition must be boolean")
			}
			if cond {
				return params[1], nil
			}
			return params[2], nil
		}),
		expr.Function("ROUND", func(params ...interface{}) (interface{}, error) {
			if len(params) != 2 {
				return nil, fmt.Errorf("ROUND requires 2 arguments")
			}
			val, err := toFloat(params[0])
			if err != nil {
				return nil, fmt.Errorf("ROUND arg 1 must be number")
			}
			prec, err := toInt(params[1])
			if err != nil {
				return nil, fmt.Errorf("ROUND arg 2 must be integer")
			}
			mult := 1.0
			for i := 0; i < prec; i++ {
				mult *= 10
			}
			return float64(int(val*mult+0.5)) / mult, nil
		}),
		expr.Function("PCT", func(params ...interface{}) (interface{}, error) {
			if len(params) != 2 {
				return nil, fmt.Errorf("PCT requires 2 arguments (part, whole)")
			}
			part, err := toFloat(params[0])
			if err != nil {
				return nil, fmt.Errorf("PCT arg 1 must be number")
			}
			whole, err := toFloat(params[1])
			if err != nil {
				return nil, fmt.Errorf("PCT arg 2 must be number")
			}
			if whole == 0 {
				return 0.0, nil
			}
			return part / whole * 100, nil
		}),
		expr.Function("COALESCE", func(params ...interface{}) (interface{}, error) {
			for _, p := range params {
				if p != nil {
					return p, nil
				}
			}
			return nil, nil
		}),
		expr.Function("CONTAINS", func(params ...interface{}) (interface{}, error) {
			if len(params) != 2 {
				return nil, fmt.Errorf("CONTAINS requires 2 arguments")
			}
			haystack, ok1 := params[0].(string)
			needle, ok2 := params[1].(string)
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("CONTAINS arguments must be strings")
			}
			return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle)), nil
		}),
		expr.Function("UPPER", func(params ...interface{}) (interface{}, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("UPPER requires 1 argument")
			}
			s, ok := params[0].(string)
			if !ok {
				return nil, fmt.Errorf("UPPER argument must be string")
			}
			return strings.ToUpper(s), nil
		}),
		expr.Function("LOWER", func(params ...interface{}) (interface{}, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("LOWER requires 1 argument")
			}
			s, ok := params[0].(string)
			if !ok {
				return nil, fmt.Errorf("LOWER argument must be string")
			}
			return strings.ToLower(s), nil
		}),
	}

	program, err := expr.Compile(expression, options...)
	if err != nil {
		return nil, err
	}

	e.programCache[expression] = program
	return program, nil
}

func toFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case string:
		var f float64
		_, err := fmt.Sscanf(val, "%f", &f)
		return f, err
	}
	return 0, fmt.Errorf("cannot convert %T to float", v)
}

func toInt(v interface{}) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		return int(val), nil
	case float32:
		return int(val), nil
	case string:
		var i int
		_, err := fmt.Sscanf(val, "%d", &i)
		return i, err
	}
	return 0, fmt.Errorf("cannot convert %T to int", v)
}
