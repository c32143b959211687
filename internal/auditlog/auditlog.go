// Package auditlog keeps an append-only CSV trail of reconciliation
// actions so a batch can be reconstructed after the fact.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Entry is one row in the reconcile log.
type Entry struct {
	Timestamp time.Time
	SessionID string
	Action    string // "save", "cancel", "export", "persist-error"
	Name      string // payer name the action applied to
	AccountID int    // 0 when not applicable
	Details   string
}

// Header is the CSV header for reconcile-log.csv.
const Header = "timestamp,session_id,action,name,account_id,details"

const (
	numFields    = 6
	logDir       = "logs"
	logFile      = "logs/reconcile-log.csv"
	colTimestamp = 0
	colSession   = 1
	colAction    = 2
	colName      = 3
	colAccountID = 4
	colDetails   = 5
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colSession] = e.SessionID
	row[colAction] = e.Action
	row[colName] = e.Name
	if e.AccountID != 0 {
		row[colAccountID] = strconv.Itoa(e.AccountID)
	}
	row[colDetails] = e.Details
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	var accountID int
	if record[colAccountID] != "" {
		accountID, err = strconv.Atoi(record[colAccountID])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing account_id %q: %w", record[colAccountID], err)
		}
	}

	return Entry{
		Timestamp: ts,
		SessionID: record[colSession],
		Action:    record[colAction],
		Name:      record[colName],
		AccountID: accountID,
		Details:   record[colDetails],
	}, nil
}

// Append writes entries to <workDir>/logs/reconcile-log.csv, creating
// the file and header if needed.
func Append(workDir string, entries []Entry) error {
	dir := filepath.Join(workDir, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(workDir, logFile)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening reconcile log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <workDir>/logs/reconcile-log.csv.
// Returns an empty slice if the file does not exist.
func Read(workDir string) ([]Entry, error) {
	path := filepath.Join(workDir, logFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening reconcile log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading reconcile log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
