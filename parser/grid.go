// Package parser reads and writes puzzle text: grid tokens for humans
// and dataset rows, JSON documents for storage and exchange.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cnpp-xyz/go-cnpp/layout"
)

// ErrBadGrid marks grid text that does not fit the target layout.
var ErrBadGrid = errors.New("malformed grid text")

// Parse reads givens from grid text. Two encodings are accepted:
// whitespace-separated tokens, one per cell, where "?" marks an empty
// cell and "." and "0" are aliases; and, for single-digit domains, one
// character per cell in the same alphabet. Cells follow the layout's
// row-major order.
func Parse(l *layout.Layout, text string) (map[int]int, error) {
	fields := strings.Fields(text)
	if len(fields) == l.Cells() {
		return parseTokens(l, fields)
	}
	compact := strings.Join(fields, "")
	if len(compact) == l.Cells() {
		return parseCompact(l, compact)
	}
	return nil, fmt.Errorf("%w: %d tokens for %d cells", ErrBadGrid, len(fields), l.Cells())
}

func parseTokens(l *layout.Layout, fields []string) (map[int]int, error) {
	givens := make(map[int]int)
	for c, tok := range fields {
		switch tok {
		case "?", ".", "0":
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: cell %d: token %q", ErrBadGrid, c, tok)
		}
		if v < 1 || v > l.Domain {
			return nil, fmt.Errorf("%w: cell %d: value %d outside 1..%d", ErrBadGrid, c, v, l.Domain)
		}
		givens[c] = v
	}
	return givens, nil
}

func parseCompact(l *layout.Layout, s string) (map[int]int, error) {
	if l.Domain > 9 {
		return nil, fmt.Errorf("%w: compact text needs a single-digit domain, layout has %d", ErrBadGrid, l.Domain)
	}
	givens := make(map[int]int)
	for c := 0; c < len(s); c++ {
		switch ch := s[c]; {
		case ch == '?' || ch == '.' || ch == '0':
		case ch >= '1' && ch <= '9':
			v := int(ch - '0')
			if v > l.Domain {
				return nil, fmt.Errorf("%w: cell %d: value %d outside 1..%d", ErrBadGrid, c, v, l.Domain)
			}
			givens[c] = v
		default:
			return nil, fmt.Errorf("%w: cell %d: character %q", ErrBadGrid, c, ch)
		}
	}
	return givens, nil
}

// Format renders cell values row-major under the layout's display
// coordinates: "?" for empty cells, blank space where the shape has no
// cell. values[i] is the value of cell i, 0 when empty.
func Format(l *layout.Layout, values []int) string {
	width := len(strconv.Itoa(l.Domain))
	gap := strings.Repeat(" ", width)

	var b strings.Builder
	for r := 0; r < l.Rows; r++ {
		line := make([]string, 0, l.Cols)
		for c := 0; c < l.Cols; c++ {
			cell := l.CellAt(r, c)
			switch {
			case cell == -1:
				line = append(line, gap)
			case values[cell] == 0:
				line = append(line, fmt.Sprintf("%*s", width, "?"))
			default:
				line = append(line, fmt.Sprintf("%*d", width, values[cell]))
			}
		}
		b.WriteString(strings.TrimRight(strings.Join(line, " "), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

// FormatCompact renders one character per cell with 0 for empty cells,
// the dataset row encoding. It refuses domains above nine.
func FormatCompact(l *layout.Layout, values []int) (string, error) {
	if l.Domain > 9 {
		return "", fmt.Errorf("%w: compact text needs a single-digit domain, layout has %d", ErrBadGrid, l.Domain)
	}
	b := make([]byte, l.Cells())
	for c := 0; c < l.Cells(); c++ {
		b[c] = byte('0' + values[c])
	}
	return string(b), nil
}
