package sheet

import (
	"errors"

	"github.com/nullcell/sheetgraph/formula"
)

// ErrInvalidPosition is returned when an operation is given a Position
// that is out of the sheet's addressable grid.
var ErrInvalidPosition = errors.New("invalid position")

// ErrCircularDependency is returned by Set when the write would make a
// cell transitively reference itself.
var ErrCircularDependency = errors.New("circular dependency")

// ErrFormulaParse re-exports formula.ErrFormulaParse, so a caller of Set
// can check for a parse failure with errors.Is without importing the
// formula package directly.
var ErrFormulaParse = formula.ErrFormulaParse
