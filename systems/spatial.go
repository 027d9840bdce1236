package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/tideline/components"
)

// SpatialGrid bins particles into uniform cells over the viewport inflated by
// the recycle margin, so pointer queries only visit nearby cells.
// Positions outside the covered area are clamped into the edge cells.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	originX  float32
	originY  float32
	cells    [][]ecs.Entity
}

// NewSpatialGrid creates a grid covering the viewport plus margin on every side.
func NewSpatialGrid(vp Viewport, margin, cellSize float32) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = 64
	}
	g := &SpatialGrid{cellSize: cellSize}
	g.Resize(vp, margin)
	return g
}

// Resize rebuilds the cell layout. Existing contents are discarded.
func (g *SpatialGrid) Resize(vp Viewport, margin float32) {
	g.originX = -margin
	g.originY = -margin
	g.cols = int((vp.Width+2*margin)/g.cellSize) + 1
	g.rows = int((vp.Height+2*margin)/g.cellSize) + 1

	g.cells = make([][]ecs.Entity, g.cols*g.rows)
	for i := range g.cells {
		g.cells[i] = make([]ecs.Entity, 0, 8)
	}
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity at the given position.
func (g *SpatialGrid) Insert(e ecs.Entity, x, y float32) {
	idx := g.clampRow(y)*g.cols + g.clampCol(x)
	g.cells[idx] = append(g.cells[idx], e)
}

// QueryRadiusInto appends entities within radius of (x, y) to dst and returns it.
// Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []ecs.Entity, x, y, radius float32, posMap *ecs.Map1[components.Position]) []ecs.Entity {
	// Clamping the cell range keeps edge cells (which hold clamped positions)
	// in every query whose range falls off the grid on that side.
	minCol, maxCol := g.clampCol(x-radius), g.clampCol(x+radius)
	minRow, maxRow := g.clampRow(y-radius), g.clampRow(y+radius)
	radiusSq := radius * radius

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, e := range g.cells[row*g.cols+col] {
				pos := posMap.Get(e)
				if pos == nil {
					continue
				}
				dx := pos.X - x
				dy := pos.Y - y
				if dx*dx+dy*dy < radiusSq {
					dst = append(dst, e)
				}
			}
		}
	}
	return dst
}

// Len returns the number of binned entities.
func (g *SpatialGrid) Len() int {
	n := 0
	for i := range g.cells {
		n += len(g.cells[i])
	}
	return n
}

func (g *SpatialGrid) clampCol(x float32) int {
	return clampIndex(int((x-g.originX)/g.cellSize), g.cols)
}

func (g *SpatialGrid) clampRow(y float32) int {
	return clampIndex(int((y-g.originY)/g.cellSize), g.rows)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
