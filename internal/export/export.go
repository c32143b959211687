// Package export serializes finalized donation records into the Breeze
// import format.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/breezeport-dev/breezeport/internal/model"
)

// Header is the fixed column order of the Breeze import file.
const Header = "Breeze ID,First Name,Last Name,Date,Amount,Fund,Method,Batch Name,Batch Number,Check Number,Note"

// SheetName is the sheet title in spreadsheet output.
const SheetName = "BreezeCMS"

const dateFormat = "01/02/2006"

const (
	numFields   = 11
	colBreezeID = 0
	colFirst    = 1
	colLast     = 2
	colDate     = 3
	colAmount   = 4
	colFund     = 5
	colMethod   = 6
	colBatch    = 7
	colBatchNum = 8
	colCheckNum = 9
	colNote     = 10
)

// Filename returns the output artifact name for an extension, e.g.
// "BreezeCMS_Output.csv".
func Filename(ext string) string {
	return "BreezeCMS_Output." + strings.TrimPrefix(ext, ".")
}

// MarshalRecord converts a DonationRecord to a CSV row. Unresolved
// records carry the MISSING marker in the Breeze ID column.
func MarshalRecord(rec model.DonationRecord) []string {
	row := make([]string, numFields)

	if rec.Resolved() {
		row[colBreezeID] = strconv.Itoa(rec.BreezeID)
	} else {
		row[colBreezeID] = model.MissingID
	}

	row[colFirst] = rec.FirstName
	row[colLast] = rec.LastName
	row[colDate] = rec.Date.Format(dateFormat)
	row[colAmount] = rec.Amount.StringFixed(2)
	row[colFund] = rec.Fund
	row[colMethod] = rec.Method
	row[colBatch] = rec.BatchName
	row[colBatchNum] = rec.BatchNumber
	row[colCheckNum] = rec.CheckNumber
	row[colNote] = rec.Note

	return row
}

// WriteCSV writes records as a Breeze import CSV, header included.
func WriteCSV(w io.Writer, records []model.DonationRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, rec := range records {
		if err := cw.Write(MarshalRecord(rec)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// BuildXLSX builds a Breeze import workbook with a single sheet. The
// caller owns the returned file and must Close it.
func BuildXLSX(records []model.DonationRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	header := strings.Split(Header, ",")
	if err := writeSheetRow(f, 1, header); err != nil {
		f.Close()
		return nil, err
	}
	for i, rec := range records {
		if err := writeSheetRow(f, i+2, MarshalRecord(rec)); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeSheetRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("addressing row %d: %w", rowNum, err)
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
		return fmt.Errorf("writing row %d: %w", rowNum, err)
	}
	return nil
}
