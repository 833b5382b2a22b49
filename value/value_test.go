package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue_String(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"number", Number(42), "42"},
		{"fractional number", Number(1.5), "1.5"},
		{"text", Text("hello"), "hello"},
		{"ref error", &FormulaError{Category: Ref}, "#REF!"},
		{"value error", &FormulaError{Category: Value}, "#VALUE!"},
		{"arithmetic error", &FormulaError{Category: Arithmetic}, "#ARITHM!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestFormulaError_Equal(t *testing.T) {
	assert.True(t, (&FormulaError{Category: Ref}).Equal(&FormulaError{Category: Ref}))
	assert.False(t, (&FormulaError{Category: Ref}).Equal(&FormulaError{Category: Value}))
	assert.False(t, (&FormulaError{Category: Ref}).Equal(nil))

	var nilErr *FormulaError
	assert.True(t, nilErr.Equal(nil))
}

func TestFormulaError_Error(t *testing.T) {
	var err error = &FormulaError{Category: Arithmetic}
	assert.EqualError(t, err, "#ARITHM!")
}
