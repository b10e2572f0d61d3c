// Package csvsheet reads and writes the score sheets lecturers exchange with
// the result API.
package csvsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrTooManyRows is returned when a sheet exceeds the configured row limit.
var ErrTooManyRows = errors.New("sheet exceeds row limit")

// Row is one data line of a sheet. Line is the 1-based line in the file.
type Row struct {
	Line   int
	Values map[string]string
}

// Get returns the trimmed value for column.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Values[NormalizeHeader(column)])
}

// Read parses a sheet with the given columns. The header line is optional:
// when the first record names every column (case and separators ignored) it
// drives the mapping, otherwise columns are taken positionally. Blank lines
// are skipped. maxRows <= 0 disables the limit.
func Read(r io.Reader, columns []string, maxRows int) ([]Row, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("csv requires at least one column")
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		index   map[string]int
		rows    []Row
		started bool
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if !started {
			started = true
			if hdr, ok := headerIndex(record, columns); ok {
				index = hdr
				continue
			}
			index = positional(columns)
		}
		if blank(record) {
			continue
		}
		if maxRows > 0 && len(rows) >= maxRows {
			return nil, fmt.Errorf("%w of %d", ErrTooManyRows, maxRows)
		}
		values := make(map[string]string, len(index))
		for name, pos := range index {
			if pos < len(record) {
				values[name] = record[pos]
			}
		}
		rows = append(rows, Row{Line: line, Values: values})
	}
	return rows, nil
}

// Render writes headers followed by rows as CSV bytes.
func Render(headers []string, rows [][]string) ([]byte, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range rows {
		record := make([]string, len(headers))
		copy(record, row)
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// NormalizeHeader lower-cases a column name and drops spaces, dashes and underscores.
func NormalizeHeader(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '\ufeff':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}

func positional(columns []string) map[string]int {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[NormalizeHeader(col)] = i
	}
	return index
}

func headerIndex(record []string, columns []string) (map[string]int, bool) {
	seen := make(map[string]int, len(record))
	for i, field := range record {
		seen[NormalizeHeader(field)] = i
	}
	index := make(map[string]int, len(columns))
	for _, col := range columns {
		pos, ok := seen[NormalizeHeader(col)]
		if !ok {
			return nil, false
		}
		index[NormalizeHeader(col)] = pos
	}
	return index, true
}

func blank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
