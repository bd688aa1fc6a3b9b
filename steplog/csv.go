package steplog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var csvHeader = []string{"seq", "depth", "strategy", "kind", "cell", "value", "eliminated"}

// WriteCSV writes records with a header row. Eliminated values join
// with "|" inside their field.
func WriteCSV(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range recs {
		row := []string{
			strconv.Itoa(rec.Seq),
			strconv.Itoa(rec.Depth),
			rec.Strategy,
			rec.Kind,
			strconv.Itoa(rec.Cell),
			strconv.Itoa(rec.Value),
			joinInts(rec.Eliminated),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a trace written by WriteCSV.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) != len(csvHeader) || header[0] != "seq" {
		return nil, fmt.Errorf("unexpected header: %v", header)
	}

	var recs []Record
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		rec := Record{Strategy: row[2], Kind: row[3]}
		if rec.Seq, err = strconv.Atoi(row[0]); err != nil {
			return nil, fmt.Errorf("line %d: seq: %w", line, err)
		}
		if rec.Depth, err = strconv.Atoi(row[1]); err != nil {
			return nil, fmt.Errorf("line %d: depth: %w", line, err)
		}
		if rec.Cell, err = strconv.Atoi(row[4]); err != nil {
			return nil, fmt.Errorf("line %d: cell: %w", line, err)
		}
		if rec.Value, err = strconv.Atoi(row[5]); err != nil {
			return nil, fmt.Errorf("line %d: value: %w", line, err)
		}
		if rec.Eliminated, err = splitInts(row[6]); err != nil {
			return nil, fmt.Errorf("line %d: eliminated: %w", line, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// SaveCSV writes a trace to a file.
func SaveCSV(path string, recs []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()
	if err := WriteCSV(f, recs); err != nil {
		return err
	}
	return f.Close()
}

// LoadCSV reads a trace from a file.
func LoadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

func joinInts(values []int) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "|")
}

func splitInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "|")
	values := make([]int, len(parts))
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
