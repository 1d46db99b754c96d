package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateArithmetic(t *testing.T) {
	engine := NewEngine()

	out, err := engine.Evaluate("total / count * 100", map[string]interface{}{
		"total": 50.0,
		"count": 200.0,
	})
	require.NoError(t, err)
	assert.Equal(t, 25.0, out)
}

func TestEvaluateFunctions(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name     string
		expr     string
		env      map[string]interface{}
		expected interface{}
	}{
		{
			name:     "IF picks branch",
			expr:     `IF(value > 1000, "big", "small")`,
			env:      map[string]interface{}{"value": 1500.0},
			expected: "big",
		},
		{
			name:     "ROUND to precision",
			expr:     "ROUND(3.14159, 2)",
			expected: 3.14,
		},
		{
			name:     "PCT computes percentage",
			expr:     "PCT(25, 200)",
			expected: 12.5,
		},
		{
			name:     "PCT of zero whole is zero",
			expr:     "PCT(25, 0)",
			expected: 0.0,
		},
		{
			name:     "COALESCE skips nil",
			expr:     `COALESCE(missing, "fallback")`,
			expected: "fallback",
		},
		{
			name:     "CONTAINS is case insensitive",
			expr:     `CONTAINS("Acme Corp", "acme")`,
			expected: true,
		},
		{
			name:     "UPPER",
			expr:     `UPPER("won")`,
			expected: "WON",
		},
		{
			name:     "LOWER",
			expr:     `LOWER("Won")`,
			expected: "won",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := engine.Evaluate(tt.expr, tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestEvaluateBool(t *testing.T) {
	engine := NewEngine()

	ok, err := engine.EvaluateBool(`status == "won" && value > 1000`, map[string]interface{}{
		"status": "won",
		"value":  1500.0,
	})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = engine.EvaluateBool("1 + 1", nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	engine := NewEngine()

	assert.NoError(t, engine.Validate("sum_value / count"))
	assert.Error(t, engine.Validate("sum_value /"))
}

func TestProgramCacheReturnsSameResult(t *testing.T) {
	engine := NewEngine()
	env := map[string]interface{}{"count": 4.0}

	first, err := engine.Evaluate("count * 2", env)
	require.NoError(t, err)
	second, err := engine.Evaluate("count * 2", env)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
