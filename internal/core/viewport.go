package core

import "math"

// Viewport maps the simulation's logical pixel space onto a grid of terminal
// cells. Each axis scales independently, so a logical circle is drawn round
// only when the logical aspect ratio matches the cells' on-screen aspect.
type Viewport struct {
	Cols, Rows         int
	LogicalW, LogicalH float64
}

// NewViewport creates a viewport for a cols×rows terminal showing a
// logicalW×logicalH simulation.
func NewViewport(cols, rows int, logicalW, logicalH float64) Viewport {
	return Viewport{Cols: cols, Rows: rows, LogicalW: logicalW, LogicalH: logicalH}
}

// Valid reports whether both spaces are non-empty.
func (v Viewport) Valid() bool {
	return v.Cols > 0 && v.Rows > 0 && v.LogicalW > 0 && v.LogicalH > 0
}

// CellW is the logical width covered by one column.
func (v Viewport) CellW() float64 {
	return v.LogicalW / float64(v.Cols)
}

// CellH is the logical height covered by one row.
func (v Viewport) CellH() float64 {
	return v.LogicalH / float64(v.Rows)
}

// ToCell returns the cell containing logical point (x, y), clamped to the grid.
func (v Viewport) ToCell(x, y float64) (col, row int) {
	col = Clamp(int(math.Floor(x/v.CellW())), 0, v.Cols-1)
	row = Clamp(int(math.Floor(y/v.CellH())), 0, v.Rows-1)
	return col, row
}

// CellCenter returns the logical coordinates of the center of a cell.
func (v Viewport) CellCenter(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * v.CellW(), (float64(row) + 0.5) * v.CellH()
}
