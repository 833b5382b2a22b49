package sheet

import (
	"strings"

	"github.com/nullcell/sheetgraph/formula"
	"github.com/nullcell/sheetgraph/position"
	"github.com/nullcell/sheetgraph/value"
)

// cellMode is the state a cell's content puts it in, per spec.md §4.3's
// state-machine table.
type cellMode int

const (
	modeEmpty cellMode = iota
	modeText
	modeFormula
)

// cell is the per-position state holder Sheet owns. Unlike the source
// this spec was distilled from, a cell never stores a back-pointer to its
// dependents — those live in Sheet, keyed by Position (see DESIGN.md).
type cell struct {
	mode      cellMode
	rawText   string // what Text() returns; "=" + canonical for a formula
	textValue string // meaningful only in modeText: rawText without a leading '

	formula     *formula.Formula
	forwardRefs []position.Position // Formula mode only; deduplicated, order preserved

	cached   value.Value // Formula mode only
	hasCache bool
}

func newCell() *cell {
	return &cell{mode: modeEmpty}
}

// set transitions c per spec.md's state-machine table: empty text ->
// Empty, a leading "'" -> Text (stripped), a leading "=" with more than
// one character -> Formula, anything else -> Text verbatim.
func (c *cell) set(text string) error {
	switch {
	case text == "":
		c.reset(modeEmpty, "", "")
		return nil

	case strings.HasPrefix(text, "'"):
		c.reset(modeText, text, text[1:])
		return nil

	case strings.HasPrefix(text, "=") && len(text) > 1:
		f, err := formula.Parse(text[1:])
		if err != nil {
			return err
		}
		c.mode = modeFormula
		c.formula = f
		c.rawText = "=" + f.CanonicalText()
		c.textValue = ""
		c.forwardRefs = dedupPositions(f.References())
		c.cached = nil
		c.hasCache = false
		return nil

	default:
		c.reset(modeText, text, text)
		return nil
	}
}

func (c *cell) reset(mode cellMode, rawText, textValue string) {
	c.mode = mode
	c.rawText = rawText
	c.textValue = textValue
	c.formula = nil
	c.forwardRefs = nil
	c.cached = nil
	c.hasCache = false
}

// clear resets c to Empty. It does not touch any reverse edge — Sheet
// manages those independently of the cell's own lifecycle.
func (c *cell) clear() {
	c.reset(modeEmpty, "", "")
}

// value returns c's evaluated Value, computing and caching a Formula
// cell's result if the cache is empty.
func (c *cell) value(lookup func(position.Position) value.Value) value.Value {
	switch c.mode {
	case modeText:
		return value.Text(c.textValue)
	case modeFormula:
		if !c.hasCache {
			c.recompute(lookup)
		}
		return c.cached
	default: // modeEmpty
		return value.Number(0)
	}
}

func (c *cell) recompute(lookup func(position.Position) value.Value) {
	if c.formula == nil {
		c.cached = &value.FormulaError{Category: value.Value}
		c.hasCache = true
		return
	}
	num, ferr := c.formula.Evaluate(lookup)
	if ferr != nil {
		c.cached = ferr
	} else {
		c.cached = value.Number(num)
	}
	c.hasCache = true
}

// invalidate drops c's cached value, if any. Safe to call on a non-Formula
// cell: it's a no-op there.
func (c *cell) invalidate() {
	c.cached = nil
	c.hasCache = false
}

func (c *cell) text() string { return c.rawText }

func (c *cell) references() []position.Position { return c.forwardRefs }

// dedupPositions removes repeats from refs, preserving first-occurrence
// order, mirroring kalexmills/spreadsheets' use of a set purely to dedupe
// Formula.References() order-stably.
func dedupPositions(refs []position.Position) []position.Position {
	if len(refs) == 0 {
		return nil
	}
	seen := make(map[position.Position]struct{}, len(refs))
	out := make([]position.Position, 0, len(refs))
	for _, p := range refs {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
