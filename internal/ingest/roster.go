package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Roster column labels. The header row is mandatory for bulk uploads.
const (
	labelBreezeID  = "Breeze ID"
	labelFirstName = "First Name"
	labelLastName  = "Last Name"
)

// RosterEntry is one alias assignment from a bulk directory upload.
type RosterEntry struct {
	AccountID int
	Name      string
}

// ParseRoster reads a bulk directory CSV with "Breeze ID",
// "First Name", "Last Name" columns. Each row yields one alias upsert:
// the first and last names joined and trimmed.
func ParseRoster(r io.Reader) ([]RosterEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading roster CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoRows
	}

	cols := map[string]int{}
	for i, cell := range records[0] {
		cols[strings.TrimSpace(cell)] = i
	}
	for _, label := range []string{labelBreezeID, labelFirstName, labelLastName} {
		if _, ok := cols[label]; !ok {
			return nil, fmt.Errorf("roster is missing the %q column", label)
		}
	}

	var entries []RosterEntry
	for i, rec := range records[1:] {
		if blankRecord(rec) {
			continue
		}

		idStr, err := cell(rec, cols[labelBreezeID], labelBreezeID)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		id, err := strconv.Atoi(strings.TrimSpace(idStr))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("row %d: invalid Breeze ID %q", i+2, idStr)
		}

		first, _ := cell(rec, cols[labelFirstName], labelFirstName)
		last, _ := cell(rec, cols[labelLastName], labelLastName)
		name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
		if name == "" {
			return nil, fmt.Errorf("row %d: empty name", i+2)
		}

		entries = append(entries, RosterEntry{AccountID: id, Name: name})
	}
	return entries, nil
}
