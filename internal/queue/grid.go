package queue

// Grid is the iteration range of one kernel dispatch: up to three global
// extents, an optional per-dimension offset, and an optional work-group
// shape. A Grid is plain data; the driver validates it at submission.
type Grid struct {
	// Offset shifts the global indices per dimension. Empty means zero.
	Offset []int
	// Global holds the number of work items per dimension.
	Global []int
	// Local holds the work-group shape. Empty lets the driver pick.
	Local []int
}

// NewGrid builds a grid over the given global extents.
func NewGrid(global ...int) Grid {
	return Grid{Global: global}
}

// WithOffset returns a copy of g with the global index offset set.
func (g Grid) WithOffset(offset ...int) Grid {
	g.Offset = offset
	return g
}

// WithLocal returns a copy of g with the work-group shape set.
func (g Grid) WithLocal(local ...int) Grid {
	g.Local = local
	return g
}

// Dims returns the dimensionality of the grid.
func (g Grid) Dims() int { return len(g.Global) }

// Total returns the total number of work items, zero when any extent is
// zero or the grid has no dimensions.
func (g Grid) Total() int {
	if len(g.Global) == 0 {
		return 0
	}
	total := 1
	for _, e := range g.Global {
		total *= e
	}
	return total
}
