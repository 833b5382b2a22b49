package formula

import "github.com/nullcell/sheetgraph/position"

// node is an expression-tree node. The model mirrors kalexmills/spreadsheets'
// Expr interface (marker method + type switch), generalized with a Number
// node wide enough for float64 and the unary/binary node shapes
// parameterized over an operator byte instead of a custom Token type.
type node interface {
	isNode()
}

// numberNode is a numeric literal.
type numberNode struct {
	Value float64
}

// refNode is a reference to another cell. The referenced Position may be
// syntactically well-formed but out of the addressable grid (row or column
// >= 16384); that is an evaluation-time Ref error, not a parse error —
// the lookup callback (Sheet.lookup) returns it.
type refNode struct {
	Pos position.Position
}

// unaryNode represents a prefix operator; Op is '-' or '+'.
type unaryNode struct {
	Op byte
	X  node
}

// binaryNode represents an infix operator; Op is one of '+', '-', '*', '/'.
type binaryNode struct {
	Op byte
	X  node
	Y  node
}

func (numberNode) isNode() {}
func (refNode) isNode()    {}
func (unaryNode) isNode()  {}
func (binaryNode) isNode() {}

// cellRefs walks n and collects every refNode's Position, in the order
// they're encountered (left-to-right, pre-order), duplicates included —
// the caller (Sheet) is responsible for deduplication, per spec.
func cellRefs(n node) []position.Position {
	switch n := n.(type) {
	case nil:
		return nil
	case refNode:
		return []position.Position{n.Pos}
	case unaryNode:
		return cellRefs(n.X)
	case binaryNode:
		return append(cellRefs(n.X), cellRefs(n.Y)...)
	default:
		return nil
	}
}
