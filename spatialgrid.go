package droplet

import (
	"math"

	"github.com/akmonengine/droplet/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// CellKey is the integer coordinate of a grid cell
type CellKey struct {
	X, Y int
}

// Cell holds the indices of the circles overlapping it
type Cell struct {
	bodyIndices []int
}

// Pair is a candidate collision between two circles, by index
type Pair struct {
	A, B int
}

// SpatialGrid is a uniform spatial hash used as broad phase.
// It is rebuilt from scratch every sub-step.
type SpatialGrid struct {
	cellSize float64
	cells    map[CellKey]*Cell
	// occupied cells, in first insertion order
	occupied []CellKey
	pairs    []Pair
}

// NewSpatialGrid creates an empty grid with square cells of cellSize
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[CellKey]*Cell),
		occupied: make([]CellKey, 0, 64),
	}
}

// Insert registers a body index in every cell its AABB overlaps
func (sg *SpatialGrid) Insert(bodyIndex int, aabb actor.AABB) {
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			cellKey := CellKey{x, y}

			cell, ok := sg.cells[cellKey]
			if !ok {
				cell = &Cell{bodyIndices: make([]int, 0, 8)}
				sg.cells[cellKey] = cell
			}
			if len(cell.bodyIndices) == 0 {
				sg.occupied = append(sg.occupied, cellKey)
			}

			cell.bodyIndices = append(cell.bodyIndices, bodyIndex)
		}
	}
}

// Clear empties every cell. Cells left unused since the previous Clear are
// dropped so the map does not grow with every cell a body ever visited.
func (sg *SpatialGrid) Clear() {
	for key, cell := range sg.cells {
		if len(cell.bodyIndices) == 0 {
			delete(sg.cells, key)
			continue
		}
		cell.bodyIndices = cell.bodyIndices[:0]
	}
	sg.occupied = sg.occupied[:0]
}

// FindPairs lists every unordered pair of indices sharing a cell.
// A pair sharing several cells is listed once per cell.
// The returned slice is reused by the next call.
func (sg *SpatialGrid) FindPairs() []Pair {
	sg.pairs = sg.pairs[:0]

	for _, key := range sg.occupied {
		indices := sg.cells[key].bodyIndices
		for i := 0; i < len(indices); i++ {
			for j := i + 1; j < len(indices); j++ {
				sg.pairs = append(sg.pairs, Pair{A: indices[i], B: indices[j]})
			}
		}
	}

	return sg.pairs
}

// worldToCell converts a world position to cell coordinates
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec2) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
	}
}
