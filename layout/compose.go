package layout

import (
	"fmt"

	"github.com/cnpp-xyz/go-cnpp/puzzle"
)

// Placement positions a component layout on the composite lattice.
// Offsets are in display rows and columns.
type Placement struct {
	Layout *Layout
	Row    int
	Col    int
}

// Compose builds one layout from several overlapping grids. Cells that
// land on the same lattice position are merged into a single cell, so
// the component groups covering them constrain each other. Composite
// cell indexes run row-major over the occupied positions.
func Compose(name string, places ...Placement) (*Layout, error) {
	if len(places) == 0 {
		return nil, fmt.Errorf("%w: composite needs at least one grid", puzzle.ErrInvalidLayout)
	}
	domain := places[0].Layout.Domain
	for _, pl := range places {
		if pl.Layout.Domain != domain {
			return nil, fmt.Errorf("%w: mixed domains %d and %d", puzzle.ErrInvalidLayout, domain, pl.Layout.Domain)
		}
		if pl.Row < 0 || pl.Col < 0 {
			return nil, fmt.Errorf("%w: negative placement offset (%d,%d)", puzzle.ErrInvalidLayout, pl.Row, pl.Col)
		}
	}

	type pos struct{ r, c int }
	occupied := make(map[pos]bool)
	rows, cols := 0, 0
	for _, pl := range places {
		for _, co := range pl.Layout.Coords {
			p := pos{co.Row + pl.Row, co.Col + pl.Col}
			occupied[p] = true
			if p.r+1 > rows {
				rows = p.r + 1
			}
			if p.c+1 > cols {
				cols = p.c + 1
			}
		}
	}

	index := make(map[pos]int, len(occupied))
	coords := make([]Coord, 0, len(occupied))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if occupied[pos{r, c}] {
				index[pos{r, c}] = len(coords)
				coords = append(coords, Coord{Row: r, Col: c})
			}
		}
	}

	var groups [][]int
	for _, pl := range places {
		for _, g := range pl.Layout.Groups {
			merged := make([]int, len(g))
			for i, c := range g {
				co := pl.Layout.Coords[c]
				merged[i] = index[pos{co.Row + pl.Row, co.Col + pl.Col}]
			}
			groups = append(groups, merged)
		}
	}

	return &Layout{
		Name:   name,
		Domain: domain,
		Groups: groups,
		Coords: coords,
		Rows:   rows,
		Cols:   cols,
	}, nil
}

// Twin is two classic grids sharing one box: the second grid starts at
// the first grid's bottom-right box.
func Twin() *Layout {
	return mustCompose("twin",
		Placement{Layout: Classic(), Row: 0, Col: 0},
		Placement{Layout: Classic(), Row: 6, Col: 6},
	)
}

// Samurai is the five-grid composite: four corner grids each sharing
// one box with the center grid.
func Samurai() *Layout {
	return mustCompose("samurai",
		Placement{Layout: Classic(), Row: 0, Col: 0},
		Placement{Layout: Classic(), Row: 0, Col: 12},
		Placement{Layout: Classic(), Row: 6, Col: 6},
		Placement{Layout: Classic(), Row: 12, Col: 0},
		Placement{Layout: Classic(), Row: 12, Col: 12},
	)
}

func mustCompose(name string, places ...Placement) *Layout {
	l, err := Compose(name, places...)
	if err != nil {
		panic(err)
	}
	return l
}
