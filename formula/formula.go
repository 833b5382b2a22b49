// Package formula implements spec.md's formula value model: parse a
// formula's text into an expression tree, evaluate it against a cell
// lookup callback, re-emit its canonical text, and enumerate the cells
// it references.
//
// spec.md treats the formula engine as an external black box because the
// system it was distilled from delegates to a standalone formula
// library. This module has no equivalent library to import wholesale, so
// formula is implemented here directly — but its tokenization is grounded
// on a real third-party Excel-formula tokenizer (github.com/xuri/efp)
// rather than a hand-rolled scanner. See SPEC_FULL.md §1 and §4.8.
package formula

import (
	"errors"
	"fmt"

	"github.com/nullcell/sheetgraph/position"
	"github.com/nullcell/sheetgraph/value"
)

// ErrFormulaParse is returned by Parse when text is not a valid formula:
// an unsupported construct (functions, ranges), an unbalanced
// parenthesis, or a malformed literal or reference.
var ErrFormulaParse = errors.New("formula parse error")

// Formula is a parsed, immutable expression tree.
type Formula struct {
	root node
}

// Parse parses text, which must exclude the leading '=' a formula cell
// starts with, into a Formula.
func Parse(text string) (*Formula, error) {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty expression", ErrFormulaParse)
	}

	p := &parser{tokens: tokens}
	root, err := parseExpr(p)
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.tokens) {
		return nil, fmt.Errorf("%w: unexpected trailing token %q", ErrFormulaParse, p.tokens[p.pos].TValue)
	}
	return &Formula{root: root}, nil
}

// Evaluate computes f's value, resolving each cell reference through
// lookup. It returns either a finite number or a FormulaError describing
// why evaluation failed — never both.
func (f *Formula) Evaluate(lookup func(position.Position) value.Value) (float64, *value.FormulaError) {
	return evalNode(f.root, lookup)
}

// CanonicalText re-emits f as the parser would prefer to see it again —
// the form a Cell stores after its leading '='.
func (f *Formula) CanonicalText() string {
	return canonicalText(f.root)
}

// References returns every Position f reads during evaluation, in the
// order they appear in the expression tree, duplicates included. The
// caller (the sheet package) is responsible for deduplication.
func (f *Formula) References() []position.Position {
	return cellRefs(f.root)
}
