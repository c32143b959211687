package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/breezeport-dev/breezeport/internal/model"
)

// CSVParser parses comma-separated Zelle activity exports.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse reads all rows from a CSV export.
func (p *CSVParser) Parse(r io.Reader) ([]model.BankRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // bank exports pad rows inconsistently

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	return parseRows(records)
}
