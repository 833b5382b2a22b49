package sheet

import (
	"io"
	"log"
)

// defaultMaxDimension matches position's own address-space limit; a
// Sheet can be configured with a smaller one (see WithMaxCellDimension)
// but never a larger one.
const defaultMaxDimension = 16384

// Option configures a Sheet at construction, grounded on
// artukn-excelize's functional-options constructor pattern.
type Option func(*Sheet)

// WithLogger directs diagnostic output (writes rejected and rolled back
// for a circular dependency) to l instead of the default no-op logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Sheet) { s.logger = l }
}

// WithMaxCellDimension caps both the row and column index a Sheet will
// accept, strictly below Position's own 16384 ceiling. Useful for
// bounding memory use in an embedding that never needs the full grid.
func WithMaxCellDimension(n int) Option {
	return func(s *Sheet) {
		if n > 0 && n <= defaultMaxDimension {
			s.maxDim = n
		}
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
