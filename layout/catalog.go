package layout

import (
	"fmt"

	"github.com/cnpp-xyz/go-cnpp/puzzle"
)

// Boxed builds the generalized N×N grid where N = boxRows*boxCols:
// N rows, N columns, and N boxes of boxRows×boxCols cells.
func Boxed(boxRows, boxCols int) (*Layout, error) {
	if boxRows < 1 || boxCols < 1 {
		return nil, fmt.Errorf("%w: box shape %dx%d", puzzle.ErrInvalidLayout, boxRows, boxCols)
	}
	if n := boxRows * boxCols; n > puzzle.MaxDomain {
		return nil, fmt.Errorf("%w: domain %d exceeds %d", puzzle.ErrInvalidLayout, n, puzzle.MaxDomain)
	}
	return boxed(boxRows, boxCols), nil
}

// Classic is the standard 9×9 grid with 3×3 boxes.
func Classic() *Layout {
	l := boxed(3, 3)
	l.Name = "classic"
	return l
}

// Mini4 is the 4×4 beginner grid with 2×2 boxes.
func Mini4() *Layout {
	l := boxed(2, 2)
	l.Name = "mini4"
	return l
}

// Mini6 is the 6×6 grid with 2×3 boxes.
func Mini6() *Layout {
	l := boxed(2, 3)
	l.Name = "mini6"
	return l
}

// Hyper is the classic grid with four extra 3×3 windows anchored at
// rows and columns 1 and 5.
func Hyper() *Layout {
	l := boxed(3, 3)
	l.Name = "hyper"
	for _, o := range [][2]int{{1, 1}, {1, 5}, {5, 1}, {5, 5}} {
		window := make([]int, 0, 9)
		for r := o[0]; r < o[0]+3; r++ {
			for c := o[1]; c < o[1]+3; c++ {
				window = append(window, 9*r+c)
			}
		}
		l.Groups = append(l.Groups, window)
	}
	return l
}

// Jigsaw builds an N×N grid whose boxes are replaced by the given
// regions. There must be N regions of N cells each, together covering
// every cell exactly once, and each region must be edge-connected.
func Jigsaw(regions [][]int) (*Layout, error) {
	n := len(regions)
	if n < 2 || n > puzzle.MaxDomain {
		return nil, fmt.Errorf("%w: %d regions", puzzle.ErrInvalidLayout, n)
	}
	cells := n * n

	owner := make([]int, cells)
	for i := range owner {
		owner[i] = -1
	}
	for ri, region := range regions {
		if len(region) != n {
			return nil, fmt.Errorf("%w: region %d has %d cells, want %d", puzzle.ErrInvalidLayout, ri, len(region), n)
		}
		for _, c := range region {
			if c < 0 || c >= cells {
				return nil, fmt.Errorf("%w: region %d cell %d out of range", puzzle.ErrInvalidLayout, ri, c)
			}
			if owner[c] != -1 {
				return nil, fmt.Errorf("%w: cell %d in regions %d and %d", puzzle.ErrInvalidLayout, c, owner[c], ri)
			}
			owner[c] = ri
		}
		if !connected(region, n) {
			return nil, fmt.Errorf("%w: region %d is not contiguous", puzzle.ErrInvalidLayout, ri)
		}
	}

	l := rectangular(n, n, n)
	l.Name = "jigsaw"
	for _, region := range regions {
		g := make([]int, len(region))
		copy(g, region)
		l.Groups = append(l.Groups, g)
	}
	return l, nil
}

// boxed assembles rows, columns, boxes, and coordinates for a grid
// whose box dimensions are known to be valid.
func boxed(boxRows, boxCols int) *Layout {
	n := boxRows * boxCols
	l := rectangular(n, n, n)
	l.Name = fmt.Sprintf("boxed-%dx%d", boxRows, boxCols)
	for br := 0; br < n; br += boxRows {
		for bc := 0; bc < n; bc += boxCols {
			box := make([]int, 0, n)
			for r := br; r < br+boxRows; r++ {
				for c := bc; c < bc+boxCols; c++ {
					box = append(box, n*r+c)
				}
			}
			l.Groups = append(l.Groups, box)
		}
	}
	return l
}

// rectangular builds the row and column groups plus coordinates for a
// full rows×cols lattice.
func rectangular(rows, cols, domain int) *Layout {
	l := &Layout{
		Name:   fmt.Sprintf("grid-%dx%d", rows, cols),
		Domain: domain,
		Rows:   rows,
		Cols:   cols,
		Coords: make([]Coord, 0, rows*cols),
	}
	for r := 0; r < rows; r++ {
		row := make([]int, cols)
		for c := 0; c < cols; c++ {
			row[c] = cols*r + c
			l.Coords = append(l.Coords, Coord{Row: r, Col: c})
		}
		l.Groups = append(l.Groups, row)
	}
	for c := 0; c < cols; c++ {
		col := make([]int, rows)
		for r := 0; r < rows; r++ {
			col[r] = cols*r + c
		}
		l.Groups = append(l.Groups, col)
	}
	return l
}

// connected reports whether the region is edge-connected on an
// n-wide square lattice.
func connected(region []int, n int) bool {
	if len(region) == 0 {
		return false
	}
	in := make(map[int]bool, len(region))
	for _, c := range region {
		in[c] = true
	}
	seen := map[int]bool{region[0]: true}
	queue := []int{region[0]}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		r, col := c/n, c%n
		for _, next := range [][2]int{{r - 1, col}, {r + 1, col}, {r, col - 1}, {r, col + 1}} {
			if next[0] < 0 || next[0] >= n || next[1] < 0 || next[1] >= n {
				continue
			}
			nc := next[0]*n + next[1]
			if in[nc] && !seen[nc] {
				seen[nc] = true
				queue = append(queue, nc)
			}
		}
	}
	return len(seen) == len(region)
}
