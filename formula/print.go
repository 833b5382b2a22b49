package formula

import "strconv"

// canonicalText re-emits n as the text stored after the leading '=' of a
// formula cell (spec.md §4.3). Any binary sub-expression nested inside
// another binary or unary node is parenthesized unconditionally — not
// the minimal bracketing a human would write, but one that is guaranteed
// to tokenize back to the identical tree regardless of operator
// precedence or associativity.
func canonicalText(n node) string {
	switch n := n.(type) {
	case numberNode:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	case refNode:
		return n.Pos.String()
	case unaryNode:
		return string(n.Op) + wrapBinary(n.X)
	case binaryNode:
		return wrapBinary(n.X) + string(n.Op) + wrapBinary(n.Y)
	default:
		return ""
	}
}

func wrapBinary(n node) string {
	text := canonicalText(n)
	if _, ok := n.(binaryNode); ok {
		return "(" + text + ")"
	}
	return text
}
