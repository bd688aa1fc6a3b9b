package puzzle

// Builder provides a fluent API for constructing puzzles group by group.
//
// Example:
//
//	p, err := puzzle.Build(4).
//	    Group(0, 1, 2, 3).
//	    Group(4, 5, 6, 7).
//	    Group(0, 4, 8, 12).
//	    Done()
type Builder struct {
	name   string
	domain int
	groups [][]int
}

// Build creates a new Builder for the given value domain.
func Build(domain int) *Builder {
	return &Builder{domain: domain}
}

// Named sets the puzzle's display name.
func (b *Builder) Named(name string) *Builder {
	b.name = name
	return b
}

// Group adds a uniqueness group over the given cells.
func (b *Builder) Group(cells ...int) *Builder {
	g := make([]int, len(cells))
	copy(g, cells)
	b.groups = append(b.groups, g)
	return b
}

// Groups adds several uniqueness groups at once.
func (b *Builder) Groups(groups [][]int) *Builder {
	for _, g := range groups {
		b.Group(g...)
	}
	return b
}

// Done validates the accumulated structure and returns the puzzle.
func (b *Builder) Done() (*Puzzle, error) {
	return NewNamed(b.name, b.domain, b.groups)
}
