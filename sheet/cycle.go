package sheet

import (
	"golang.org/x/exp/maps"

	"github.com/nullcell/sheetgraph/position"
)

// hasCycleAmong reports whether the forward-reference graph, walked from
// any of roots, revisits a node already on the current DFS stack. This
// generalizes kalexmills/spreadsheets' topSort, which walks the same
// perm/temp pair across every root in rootReferrers rather than starting
// fresh each time: a node fully explored from one root can't later turn
// out to be part of a cycle reached from a different root, since the
// graph doesn't change between the two checks.
func (s *Sheet) hasCycleAmong(roots []position.Position) bool {
	maps.Clear(s.cycleVisited)
	maps.Clear(s.cycleOnStack)

	var dfs func(p position.Position) bool
	dfs = func(p position.Position) bool {
		if s.cycleOnStack[p] {
			return true
		}
		if s.cycleVisited[p] {
			return false
		}
		s.cycleVisited[p] = true
		s.cycleOnStack[p] = true

		if c := s.cellAt(p); c != nil {
			for _, ref := range c.references() {
				if !s.isValidForSheet(ref) {
					continue
				}
				if dfs(ref) {
					return true
				}
			}
		}

		s.cycleOnStack[p] = false
		return false
	}

	for _, root := range roots {
		if dfs(root) {
			return true
		}
	}
	return false
}
