package formula

import (
	"testing"

	"github.com/nullcell/sheetgraph/position"
	"github.com/nullcell/sheetgraph/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(values map[string]value.Value) func(position.Position) value.Value {
	return func(pos position.Position) value.Value {
		if v, ok := values[pos.String()]; ok {
			return v
		}
		return value.Number(0)
	}
}

func TestFormula_Evaluate(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		values  map[string]value.Value
		want    float64
		wantErr *value.FormulaError
	}{
		{name: "literal", expr: "12", want: 12},
		{name: "addition", expr: "A1+B1", values: map[string]value.Value{"A1": value.Number(1), "B1": value.Number(2)}, want: 3},
		{name: "precedence", expr: "A1+B1*C1", values: map[string]value.Value{"A1": value.Number(1), "B1": value.Number(2), "C1": value.Number(3)}, want: 7},
		{name: "parens", expr: "(A1+B1)*C1", values: map[string]value.Value{"A1": value.Number(1), "B1": value.Number(2), "C1": value.Number(3)}, want: 9},
		{name: "unary minus", expr: "-A1*3", values: map[string]value.Value{"A1": value.Number(2)}, want: -6},
		{name: "unary minus on literal", expr: "-5+2", want: -3},
		{name: "division", expr: "A1/B1", values: map[string]value.Value{"A1": value.Number(6), "B1": value.Number(2)}, want: 3},
		{name: "division by zero", expr: "A1/0", values: map[string]value.Value{"A1": value.Number(6)}, wantErr: &value.FormulaError{Category: value.Arithmetic}},
		{name: "text operand coerced", expr: "A1+1", values: map[string]value.Value{"A1": value.Text("41")}, want: 42},
		{name: "unparseable text operand", expr: "A1+1", values: map[string]value.Value{"A1": value.Text("hello")}, wantErr: &value.FormulaError{Category: value.Ref}},
		{name: "propagated error", expr: "A1+1", values: map[string]value.Value{"A1": &value.FormulaError{Category: value.Value}}, wantErr: &value.FormulaError{Category: value.Value}},
		{name: "missing cell is zero", expr: "A1+1", want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse(tt.expr)
			require.NoError(t, err)

			got, gotErr := f.Evaluate(lookupFrom(tt.values))
			if tt.wantErr != nil {
				require.NotNil(t, gotErr)
				assert.True(t, tt.wantErr.Equal(gotErr))
				return
			}
			require.Nil(t, gotErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormula_CanonicalText(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"B1", "B1"},
		{"B1/0", "B1/0"},
		{"A1+B2", "A1+B2"},
		{"(A1+B2)*3", "(A1+B2)*3"},
		{"A1-B2-C3", "(A1-B2)-C3"},
		{"-A1", "-A1"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := Parse(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.CanonicalText())
		})
	}
}

func TestFormula_References(t *testing.T) {
	f, err := Parse("A1+B2*A1")
	require.NoError(t, err)
	assert.Equal(t, []position.Position{
		{Row: 0, Col: 0},
		{Row: 1, Col: 1},
		{Row: 0, Col: 0},
	}, f.References())
}

func TestParse_rejects(t *testing.T) {
	tests := []string{
		"",
		"1+",
		"(1+2",
		"1+2)",
		"A1:B2",
		"SUM(A1)",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.ErrorIs(t, err, ErrFormulaParse)
		})
	}
}
