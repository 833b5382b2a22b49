package formula

import (
	"math"
	"strconv"

	"github.com/nullcell/sheetgraph/position"
	"github.com/nullcell/sheetgraph/value"
)

// evalNode evaluates n against lookup, which resolves a referenced
// Position's current Value. lookup is responsible for returning a Ref
// error for an out-of-grid Position; evalNode never inspects Valid()
// itself.
func evalNode(n node, lookup func(position.Position) value.Value) (float64, *value.FormulaError) {
	switch n := n.(type) {
	case numberNode:
		return n.Value, nil

	case refNode:
		return coerceToNumber(lookup(n.Pos))

	case unaryNode:
		x, err := evalNode(n.X, lookup)
		if err != nil {
			return 0, err
		}
		if n.Op == '-' {
			return -x, nil
		}
		return x, nil

	case binaryNode:
		x, err := evalNode(n.X, lookup)
		if err != nil {
			return 0, err
		}
		y, err := evalNode(n.Y, lookup)
		if err != nil {
			return 0, err
		}
		var result float64
		switch n.Op {
		case '+':
			result = x + y
		case '-':
			result = x - y
		case '*':
			result = x * y
		case '/':
			if y == 0 {
				return 0, &value.FormulaError{Category: value.Arithmetic}
			}
			result = x / y
		}
		if math.IsInf(result, 0) || math.IsNaN(result) {
			return 0, &value.FormulaError{Category: value.Arithmetic}
		}
		return result, nil
	}
	return 0, &value.FormulaError{Category: value.Value}
}

// coerceToNumber reduces a referenced cell's Value to the float64 a
// formula needs, per spec.md §4.2: a Text cell contributes its parsed
// numeric value, or a Ref error if it has none (an Arithmetic error if
// that value is infinite or NaN); an Error value propagates as-is.
func coerceToNumber(v value.Value) (float64, *value.FormulaError) {
	switch v := v.(type) {
	case value.Number:
		return float64(v), nil
	case value.Text:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return 0, &value.FormulaError{Category: value.Ref}
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, &value.FormulaError{Category: value.Arithmetic}
		}
		return f, nil
	case *value.FormulaError:
		return 0, v
	default:
		return 0, &value.FormulaError{Category: value.Ref}
	}
}
