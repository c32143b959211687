// Package ingest reads bank Zelle activity exports. Both CSV and XLSX
// containers are supported through a small parser registry; everything
// downstream works on model.BankRow.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/breezeport-dev/breezeport/internal/model"
)

// Column labels recognized in a header row.
const (
	labelDescription = "Description"
	labelPostingDate = "Posting Date"
	labelAmount      = "Amount"
)

// Positional defaults for files without a header row.
const (
	defaultColDescription = 0
	defaultColDate        = 1
	defaultColAmount      = 2
)

// Accepted posting-date layouts, tried in order.
var dateLayouts = []string{"01/02/2006", "2006-01-02"}

// ErrNoRows means the file parsed but contained no transaction rows.
var ErrNoRows = errors.New("no transaction rows found")

// Parser converts one container format into bank rows.
type Parser interface {
	Parse(r io.Reader) ([]model.BankRow, error)
	Format() string
}

// Registry holds parsers by format name.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// ForFile returns the parser matching a file's extension, or an error
// for unsupported extensions.
func (r *Registry) ForFile(path string) (Parser, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if p := r.Get(ext); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVParser{})
	r.Register(&XLSXParser{})
	return r
}

// columnLayout maps the three required columns to cell indexes.
type columnLayout struct {
	description int
	date        int
	amount      int
}

// detectHeader inspects the first row. A row containing any of the
// known labels is a header; the layout then follows the labels, and
// all three must be present. Otherwise every row is data and the
// positional defaults apply.
func detectHeader(first []string) (layout columnLayout, isHeader bool, err error) {
	found := map[string]int{}
	for i, cell := range first {
		switch strings.TrimSpace(cell) {
		case labelDescription:
			found[labelDescription] = i
		case labelPostingDate:
			found[labelPostingDate] = i
		case labelAmount:
			found[labelAmount] = i
		}
	}

	if len(found) == 0 {
		return columnLayout{
			description: defaultColDescription,
			date:        defaultColDate,
			amount:      defaultColAmount,
		}, false, nil
	}

	for _, label := range []string{labelDescription, labelPostingDate, labelAmount} {
		if _, ok := found[label]; !ok {
			return columnLayout{}, true, fmt.Errorf("header row is missing the %q column", label)
		}
	}
	return columnLayout{
		description: found[labelDescription],
		date:        found[labelPostingDate],
		amount:      found[labelAmount],
	}, true, nil
}

// parseRows converts raw records into bank rows, applying header
// detection and dropping rows that are blank across every cell.
func parseRows(records [][]string) ([]model.BankRow, error) {
	if len(records) == 0 {
		return nil, ErrNoRows
	}

	layout, isHeader, err := detectHeader(records[0])
	if err != nil {
		return nil, err
	}

	data := records
	firstRowNum := 1
	if isHeader {
		data = records[1:]
		firstRowNum = 2
	}

	var rows []model.BankRow
	for i, rec := range data {
		if blankRecord(rec) {
			continue
		}
		row, err := parseRow(rec, layout)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", firstRowNum+i, err)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows, nil
}

func parseRow(rec []string, layout columnLayout) (model.BankRow, error) {
	desc, err := cell(rec, layout.description, labelDescription)
	if err != nil {
		return model.BankRow{}, err
	}
	dateStr, err := cell(rec, layout.date, labelPostingDate)
	if err != nil {
		return model.BankRow{}, err
	}
	amountStr, err := cell(rec, layout.amount, labelAmount)
	if err != nil {
		return model.BankRow{}, err
	}

	date, err := parseDate(dateStr)
	if err != nil {
		return model.BankRow{}, err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(amountStr))
	if err != nil {
		return model.BankRow{}, fmt.Errorf("parsing amount %q: %w", amountStr, err)
	}

	return model.BankRow{Description: desc, PostingDate: date, Amount: amount}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized posting date %q", s)
}

func cell(rec []string, i int, label string) (string, error) {
	if i >= len(rec) {
		return "", fmt.Errorf("missing %q cell", label)
	}
	return rec[i], nil
}

func blankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
