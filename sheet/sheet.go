// Package sheet implements the in-memory spreadsheet engine: a grid of
// cells, the bidirectional reference graph between them, pre-commit
// cycle rejection, and lazy, cache-invalidating evaluation.
package sheet

import (
	"fmt"
	"io"
	"log"

	"golang.org/x/exp/maps"

	"github.com/nullcell/sheetgraph/position"
	"github.com/nullcell/sheetgraph/value"
)

// Sheet is a grid of cells addressed by Position. The zero value is not
// usable; construct one with NewSheet. A Sheet is not safe for concurrent
// use: it has no internal locking.
type Sheet struct {
	cells     [][]*cell // jagged, row-major; cells[row] may be shorter than another row
	printable position.Size

	// reverse[p] is the set of positions whose cell's formula reads p.
	// Keying by Position rather than by cell identity means a cell can be
	// replaced wholesale on Set without transplanting back-pointers onto
	// the new occupant by hand — see DESIGN.md's Open Question on this.
	reverse map[position.Position]map[position.Position]struct{}

	logger *log.Logger
	maxDim int

	// Scratch maps reused across calls instead of allocated fresh each
	// time, cleared via maps.Clear before use — the same pattern
	// kalexmills/spreadsheets applies to refersTo before repopulating it.
	cycleVisited      map[position.Position]bool
	cycleOnStack      map[position.Position]bool
	invalidateVisited map[position.Position]bool
}

// NewSheet constructs an empty Sheet.
func NewSheet(opts ...Option) *Sheet {
	s := &Sheet{
		reverse:           make(map[position.Position]map[position.Position]struct{}),
		logger:            discardLogger(),
		maxDim:            defaultMaxDimension,
		cycleVisited:      make(map[position.Position]bool),
		cycleOnStack:      make(map[position.Position]bool),
		invalidateVisited: make(map[position.Position]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sheet) isValidForSheet(pos position.Position) bool {
	return pos.Valid() && pos.Row < s.maxDim && pos.Col < s.maxDim
}

// CellHandle is a read-only view onto one cell, returned by Get. It
// stays valid until the Sheet it came from next changes that cell.
type CellHandle struct {
	cell   *cell
	lookup func(position.Position) value.Value
}

// Value returns the cell's current evaluated value, computing and
// caching it first if necessary.
func (h CellHandle) Value() value.Value { return h.cell.value(h.lookup) }

// Text returns the cell's stored text exactly as PrintTexts would print
// it: the canonical form for a formula, the literal content otherwise.
func (h CellHandle) Text() string { return h.cell.text() }

// References returns every position the cell's formula reads, or nil for
// a non-Formula cell.
func (h CellHandle) References() []position.Position {
	refs := h.cell.references()
	if len(refs) == 0 {
		return nil
	}
	out := make([]position.Position, len(refs))
	copy(out, refs)
	return out
}

// Get returns a handle onto the cell at pos. The second result is false
// if no cell exists at pos — it has been neither written nor referenced
// by a formula, or it was cleared while nothing referenced it — in which
// case the handle is zero and unusable. An empty placeholder created for
// a formula's reference counts as a cell.
func (s *Sheet) Get(pos position.Position) (CellHandle, bool, error) {
	if !s.isValidForSheet(pos) {
		return CellHandle{}, false, fmt.Errorf("%w: %s", ErrInvalidPosition, describe(pos))
	}
	c := s.cellAt(pos)
	if c == nil {
		return CellHandle{}, false, nil
	}
	return CellHandle{cell: c, lookup: s.lookup}, true, nil
}

// Set writes text into the cell at pos, replacing whatever was there.
// An empty string clears the cell. Text beginning with "=" is parsed as
// a formula; a parse failure or an introduced circular reference leaves
// pos's content and the reference edges as they were and returns a
// non-nil error satisfying errors.Is against ErrFormulaParse or
// ErrCircularDependency respectively. A rejected circular write does not
// remove the empty placeholder cells it created for positions it newly
// referenced.
func (s *Sheet) Set(pos position.Position, text string) error {
	if !s.isValidForSheet(pos) {
		return fmt.Errorf("%w: %s", ErrInvalidPosition, describe(pos))
	}

	if existing := s.cellAt(pos); existing != nil && existing.text() == text {
		return nil
	}

	s.growTo(pos)
	previous := s.cellAt(pos)

	next := newCell()
	s.setCellAt(pos, next)

	// The position's dependents must recompute regardless of whether the
	// new content parses: the old value they cached is gone either way
	// once we reach this point, so invalidate first and unconditionally.
	s.invalidateFrom(pos)

	if err := next.set(text); err != nil {
		s.setCellAt(pos, previous)
		return err
	}

	s.rewireForwardRefs(pos, previous, next)

	if roots := validRefs(s, next.references()); len(roots) > 0 && s.hasCycleAmong(roots) {
		s.rollbackSet(pos, previous, next)
		s.updatePrintableSize()
		s.logger.Printf("sheet: rejected write to %s: introduces a circular dependency", describe(pos))
		return fmt.Errorf("%w: %s", ErrCircularDependency, describe(pos))
	}

	s.updatePrintableSize()
	return nil
}

func validRefs(s *Sheet, refs []position.Position) []position.Position {
	out := refs[:0:0]
	for _, r := range refs {
		if s.isValidForSheet(r) {
			out = append(out, r)
		}
	}
	return out
}

// rewireForwardRefs tears down the reverse edges previous (if any) held
// and installs the ones next needs, creating placeholder empty cells for
// any newly-referenced position that doesn't have a cell yet.
func (s *Sheet) rewireForwardRefs(pos position.Position, previous, next *cell) {
	if previous != nil {
		for _, oldRef := range previous.references() {
			if set, ok := s.reverse[oldRef]; ok {
				delete(set, pos)
			}
		}
	}
	for _, newRef := range next.references() {
		if !s.isValidForSheet(newRef) {
			continue
		}
		if s.cellAt(newRef) == nil {
			s.growTo(newRef)
			s.setCellAt(newRef, newCell())
		}
		if s.reverse[newRef] == nil {
			s.reverse[newRef] = make(map[position.Position]struct{})
		}
		s.reverse[newRef][pos] = struct{}{}
	}
}

// rollbackSet undoes a rejected write: it severs the edges failed's
// references introduced, restores the edges previous's references held,
// and puts previous back at pos (nil if there was none).
func (s *Sheet) rollbackSet(pos position.Position, previous, failed *cell) {
	for _, r := range failed.references() {
		if !s.isValidForSheet(r) {
			continue
		}
		if set, ok := s.reverse[r]; ok {
			delete(set, pos)
		}
	}
	if previous != nil {
		for _, r := range previous.references() {
			if !s.isValidForSheet(r) {
				continue
			}
			if s.reverse[r] == nil {
				s.reverse[r] = make(map[position.Position]struct{})
			}
			s.reverse[r][pos] = struct{}{}
		}
	}
	s.setCellAt(pos, previous)
}

// Clear removes whatever is at pos. If another cell still references
// pos, an empty placeholder is kept (so those cells see Number(0) rather
// than losing the edge); otherwise the position reverts to never having
// been written.
func (s *Sheet) Clear(pos position.Position) error {
	if !s.isValidForSheet(pos) {
		return fmt.Errorf("%w: %s", ErrInvalidPosition, describe(pos))
	}
	c := s.cellAt(pos)
	if c == nil {
		return nil
	}

	for _, r := range c.references() {
		if !s.isValidForSheet(r) {
			continue
		}
		if set, ok := s.reverse[r]; ok {
			delete(set, pos)
		}
	}

	if len(s.reverse[pos]) > 0 {
		c.clear()
		s.invalidateFrom(pos)
	} else {
		s.setCellAt(pos, nil)
	}

	s.updatePrintableSize()
	return nil
}

// invalidateFrom drops the cached value of every cell transitively
// dependent on pos, pos included.
func (s *Sheet) invalidateFrom(pos position.Position) {
	maps.Clear(s.invalidateVisited)
	s.invalidateRecursive(pos)
}

func (s *Sheet) invalidateRecursive(pos position.Position) {
	if s.invalidateVisited[pos] {
		return
	}
	s.invalidateVisited[pos] = true
	if c := s.cellAt(pos); c != nil {
		c.invalidate()
	}
	for dep := range s.reverse[pos] {
		s.invalidateRecursive(dep)
	}
}

// lookup resolves a formula's reference to its current Value: Ref error
// for an out-of-grid position, Number(0) for one that's never been
// written, the cell's evaluated value otherwise.
func (s *Sheet) lookup(pos position.Position) value.Value {
	if !s.isValidForSheet(pos) {
		return &value.FormulaError{Category: value.Ref}
	}
	c := s.cellAt(pos)
	if c == nil {
		return value.Number(0)
	}
	return c.value(s.lookup)
}

// growTo ensures row pos.Row exists and every row is padded to at least
// max(pos.Col+1, the current printable width) — spec.md §4.4's jagged
// row-major storage, grown and padded lazily on access.
func (s *Sheet) growTo(pos position.Position) {
	for len(s.cells) <= pos.Row {
		s.cells = append(s.cells, nil)
	}
	width := pos.Col + 1
	if s.printable.Cols > width {
		width = s.printable.Cols
	}
	for r := range s.cells {
		if len(s.cells[r]) < width {
			row := make([]*cell, width)
			copy(row, s.cells[r])
			s.cells[r] = row
		}
	}
}

func (s *Sheet) cellAt(pos position.Position) *cell {
	if pos.Row < 0 || pos.Row >= len(s.cells) {
		return nil
	}
	row := s.cells[pos.Row]
	if pos.Col < 0 || pos.Col >= len(row) {
		return nil
	}
	return row[pos.Col]
}

func (s *Sheet) setCellAt(pos position.Position, c *cell) {
	s.cells[pos.Row][pos.Col] = c
}

// updatePrintableSize rescans the whole grid for the tightest rectangle
// containing every non-empty cell, per spec.md §4.4.5.
func (s *Sheet) updatePrintableSize() {
	var rows, cols int
	for r, row := range s.cells {
		for c, cl := range row {
			if cl != nil && cl.text() != "" {
				if r+1 > rows {
					rows = r + 1
				}
				if c+1 > cols {
					cols = c + 1
				}
			}
		}
	}
	s.printable = position.Size{Rows: rows, Cols: cols}
}

// PrintableSize returns the smallest rectangle, anchored at A1, that
// contains every cell with non-empty text.
func (s *Sheet) PrintableSize() position.Size {
	return s.printable
}

// PrintValues writes the printable rectangle's evaluated values to w,
// tab-separated within a row and newline-terminated per row.
func (s *Sheet) PrintValues(w io.Writer) error {
	return s.printGrid(w, func(c *cell) string {
		if c == nil {
			return ""
		}
		return c.value(s.lookup).String()
	})
}

// PrintTexts writes the printable rectangle's raw cell text to w, in the
// same layout as PrintValues.
func (s *Sheet) PrintTexts(w io.Writer) error {
	return s.printGrid(w, func(c *cell) string {
		if c == nil {
			return ""
		}
		return c.text()
	})
}

func (s *Sheet) printGrid(w io.Writer, render func(*cell) string) error {
	for r := 0; r < s.printable.Rows; r++ {
		for c := 0; c < s.printable.Cols; c++ {
			if c > 0 {
				if _, err := io.WriteString(w, "\t"); err != nil {
					return err
				}
			}
			cl := s.cellAt(position.Position{Row: r, Col: c})
			if _, err := io.WriteString(w, render(cl)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func describe(pos position.Position) string {
	if s := pos.String(); s != "" {
		return s
	}
	return fmt.Sprintf("(%d,%d)", pos.Row, pos.Col)
}
