// Waypoint - Attraction Recommendations and Similarity Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/waypoint

package catalogimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"unicode/utf8"
)

// Row is one data row keyed by lower-cased header name.
type Row struct {
	// Line is the 1-based line number in the source file.
	Line   int
	Fields map[string]string
}

// Get returns the trimmed value of column, or "" when absent.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Fields[column])
}

// CSVReader reads header-addressed rows from a delimited file.
type CSVReader struct {
	file    *os.File
	csv     *csv.Reader
	header  []string
	skipped int
}

// OpenCSV opens path and reads its header. required lists the columns that
// must be present.
func OpenCSV(path, delimiter string, required ...string) (*CSVReader, error) {
	comma, err := parseDelimiter(delimiter)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	r := newCSV(f, comma)
	header, err := r.Read()
	if err != nil {
		_ = f.Close()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: missing header row", path)
		}
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}

	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}
	for _, col := range required {
		if !slices.Contains(header, col) {
			_ = f.Close()
			return nil, fmt.Errorf("%s: missing required column %q", path, col)
		}
	}

	return &CSVReader{file: f, csv: r, header: header}, nil
}

// ReadBatch returns up to n rows. Malformed lines are skipped and counted in
// Skipped. An empty slice with a nil error means the file is exhausted.
func (r *CSVReader) ReadBatch(n int) ([]Row, error) {
	rows := make([]Row, 0, n)
	for len(rows) < n {
		record, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			r.skipped++
			continue
		}
		if err != nil {
			return rows, fmt.Errorf("read row: %w", err)
		}
		if len(record) != len(r.header) {
			r.skipped++
			continue
		}

		line, _ := r.csv.FieldPos(0)
		row := Row{Line: line, Fields: make(map[string]string, len(record))}
		for i, v := range record {
			row.Fields[r.header[i]] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Skipped returns how many malformed lines were dropped so far.
func (r *CSVReader) Skipped() int {
	return r.skipped
}

// Close closes the underlying file.
func (r *CSVReader) Close() error {
	return r.file.Close()
}

// CountRows returns the number of data rows in path, excluding the header.
func CountRows(path, delimiter string) (int64, error) {
	comma, err := parseDelimiter(delimiter)
	if err != nil {
		return 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := newCSV(f, comma)
	var n int64
	for {
		_, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if err != nil && !errors.As(err, &parseErr) {
			return 0, fmt.Errorf("count rows in %s: %w", path, err)
		}
		n++
	}
	if n > 0 {
		n-- // header
	}
	return n, nil
}

func newCSV(f io.Reader, comma rune) *csv.Reader {
	r := csv.NewReader(f)
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r
}

func parseDelimiter(delimiter string) (rune, error) {
	if delimiter == "" {
		return ';', nil
	}
	if utf8.RuneCountInString(delimiter) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", delimiter)
	}
	d, _ := utf8.DecodeRuneInString(delimiter)
	if d == '"' || d == '\r' || d == '\n' || d == utf8.RuneError {
		return 0, fmt.Errorf("invalid delimiter %q", delimiter)
	}
	return d, nil
}

