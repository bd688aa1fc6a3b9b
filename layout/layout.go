// Package layout is the catalog of grid shapes the solver understands:
// boxed N×N grids, jigsaw regions, and composites built from several
// overlapping grids. A Layout pairs the uniqueness groups with display
// coordinates so parsers and printers can handle non-rectangular shapes.
package layout

import (
	"fmt"

	"github.com/cnpp-xyz/go-cnpp/puzzle"
)

// Coord is the display position of a cell on the composite lattice.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Layout describes a puzzle shape: the value domain, the uniqueness
// groups over cell indexes, and where each cell sits when drawn.
// Cell indexes are row-major over the occupied lattice positions.
type Layout struct {
	Name   string  `json:"name"`
	Domain int     `json:"domain"`
	Groups [][]int `json:"groups"`
	Coords []Coord `json:"coords"`
	Rows   int     `json:"rows"`
	Cols   int     `json:"cols"`
}

// Cells returns the number of cells in the layout.
func (l *Layout) Cells() int {
	return len(l.Coords)
}

// CellAt returns the cell index displayed at (row, col), or -1 when the
// shape has no cell at that position.
func (l *Layout) CellAt(row, col int) int {
	for i, co := range l.Coords {
		if co.Row == row && co.Col == col {
			return i
		}
	}
	return -1
}

// Puzzle constructs the solver model for this layout.
func (l *Layout) Puzzle() (*puzzle.Puzzle, error) {
	return puzzle.NewNamed(l.Name, l.Domain, l.Groups)
}

// Names lists the stock layouts in catalog order.
func Names() []string {
	return []string{"classic", "mini4", "mini6", "hyper", "twin", "samurai"}
}

// ByName resolves a stock layout by its catalog name.
func ByName(name string) (*Layout, error) {
	switch name {
	case "classic":
		return Classic(), nil
	case "mini4":
		return Mini4(), nil
	case "mini6":
		return Mini6(), nil
	case "hyper":
		return Hyper(), nil
	case "twin":
		return Twin(), nil
	case "samurai":
		return Samurai(), nil
	}
	return nil, fmt.Errorf("%w: unknown layout %q", puzzle.ErrInvalidLayout, name)
}
