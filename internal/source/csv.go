package source

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jask/jaskcal/internal/dataview"
)

// LoadCSVFile loads a CSV file with a header row.
func LoadCSVFile(path string, b Binding) (*dataview.DataView, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	dv, err := LoadCSV(f, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dv, nil
}

// LoadCSV reads CSV with a header row from r.
func LoadCSV(r io.Reader, b Binding) (*dataview.DataView, error) {
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1

	header, err := csvr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var records [][]string
	line := 1
	for {
		line++
		rec, err := csvr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return build(header, records, b, dateCell)
}
