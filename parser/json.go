package parser

import (
	"encoding/json"
	"fmt"

	"github.com/cnpp-xyz/go-cnpp/layout"
	"github.com/cnpp-xyz/go-cnpp/puzzle"
)

// Document is the JSON puzzle description. Two forms resolve through
// Build: a stock layout name with grid text,
//
//	{"layout": "classic", "grid": "53..7...."}
//
// and raw groups for arbitrary topologies,
//
//	{"name": "latin3", "domain": 3, "groups": [[0,1,2], ...], "givens": {"0": 1}}
//
// Explicit givens override cells the grid text also sets.
type Document struct {
	Name   string      `json:"name,omitempty"`
	Layout string      `json:"layout,omitempty"`
	Grid   string      `json:"grid,omitempty"`
	Domain int         `json:"domain,omitempty"`
	Groups [][]int     `json:"groups,omitempty"`
	Givens map[int]int `json:"givens,omitempty"`
}

// FromJSON parses a puzzle document from JSON bytes.
func FromJSON(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return &d, nil
}

// ToJSON renders the document as indented JSON.
func ToJSON(d *Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Build resolves the document into a solvable model. The returned
// layout is nil for raw group documents, which carry no display shape.
func (d *Document) Build() (*layout.Layout, *puzzle.Puzzle, map[int]int, error) {
	if d.Layout != "" {
		return d.buildFromLayout()
	}
	if d.Grid != "" {
		return nil, nil, nil, fmt.Errorf("%w: grid text needs a layout name", ErrBadGrid)
	}
	p, err := puzzle.NewNamed(d.Name, d.Domain, d.Groups)
	if err != nil {
		return nil, nil, nil, err
	}
	givens := make(map[int]int, len(d.Givens))
	for c, v := range d.Givens {
		givens[c] = v
	}
	return nil, p, givens, nil
}

func (d *Document) buildFromLayout() (*layout.Layout, *puzzle.Puzzle, map[int]int, error) {
	l, err := layout.ByName(d.Layout)
	if err != nil {
		return nil, nil, nil, err
	}
	if d.Name != "" {
		l.Name = d.Name
	}

	givens := make(map[int]int)
	if d.Grid != "" {
		parsed, err := Parse(l, d.Grid)
		if err != nil {
			return nil, nil, nil, err
		}
		givens = parsed
	}
	for c, v := range d.Givens {
		givens[c] = v
	}

	p, err := l.Puzzle()
	if err != nil {
		return nil, nil, nil, err
	}
	return l, p, givens, nil
}
