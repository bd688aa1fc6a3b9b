// Package batch solves puzzle datasets on a bounded worker pool, in the
// shape of the public million-puzzle CSV corpus.
package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/cnpp-xyz/go-cnpp/layout"
	"github.com/cnpp-xyz/go-cnpp/parser"
)

// Job is one dataset row to solve. Expected is nil when the dataset
// carries no solution column.
type Job struct {
	ID       string
	Line     int
	Givens   map[int]int
	Expected []int
	Raw      string
}

// ReadCSV loads jobs from r. The header row names the columns: the quiz
// column is one of "quizzes", "quiz", "puzzle" or "givens"; the optional
// solution column is "solutions" or "solution". Grid cells follow the
// grid text formats of the parser package.
func ReadCSV(l *layout.Layout, r io.Reader) ([]Job, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	quizCol, solCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "quizzes", "quiz", "puzzle", "givens":
			quizCol = i
		case "solutions", "solution":
			solCol = i
		}
	}
	if quizCol < 0 {
		return nil, fmt.Errorf("no quiz column in header %v", header)
	}

	var jobs []Job
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		givens, err := parser.Parse(l, rec[quizCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		job := Job{
			ID:     uuid.NewString(),
			Line:   line,
			Givens: givens,
			Raw:    rec[quizCol],
		}
		if solCol >= 0 && rec[solCol] != "" {
			expected, err := parseFullGrid(l, rec[solCol])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			job.Expected = expected
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// LoadCSV reads a dataset file.
func LoadCSV(l *layout.Layout, path string) ([]Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(l, f)
}

// parseFullGrid parses a solution row, which must fill every cell.
func parseFullGrid(l *layout.Layout, text string) ([]int, error) {
	m, err := parser.Parse(l, text)
	if err != nil {
		return nil, err
	}
	if len(m) != l.Cells() {
		return nil, fmt.Errorf("%w: solution covers %d of %d cells", parser.ErrBadGrid, len(m), l.Cells())
	}
	values := make([]int, l.Cells())
	for c, v := range m {
		values[c] = v
	}
	return values, nil
}
