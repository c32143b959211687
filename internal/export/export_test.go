package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breezeport-dev/breezeport/internal/model"
)

func sampleRecords() []model.DonationRecord {
	return []model.DonationRecord{
		{
			BreezeID:    10,
			FirstName:   "Alice",
			LastName:    "Smith",
			Date:        time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.NewFromFloat(50),
			Fund:        "Tithe",
			Method:      "Zelle",
			BatchName:   "Zelle Import",
			BatchNumber: "100",
		},
		{
			FirstName:   "Bob",
			LastName:    "Jones",
			Date:        time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.NewFromFloat(25.5),
			Fund:        "Tithe",
			Method:      "Zelle",
			BatchName:   "Zelle Import",
			BatchNumber: "100",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRecords()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"Breeze ID", "First Name", "Last Name", "Date", "Amount", "Fund",
		"Method", "Batch Name", "Batch Number", "Check Number", "Note",
	}, records[0])

	assert.Equal(t, []string{"10", "Alice", "Smith", "03/02/2025", "50.00", "Tithe", "Zelle", "Zelle Import", "100", "", ""}, records[1])
	assert.Equal(t, "MISSING", records[2][0], "unresolved records export the marker")
	assert.Equal(t, "25.50", records[2][4])
}

func TestBuildXLSX(t *testing.T) {
	f, err := BuildXLSX(sampleRecords())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, SheetName, f.GetSheetName(0))

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Breeze ID", rows[0][0])
	assert.Equal(t, "10", rows[1][0])
	assert.Equal(t, "MISSING", rows[2][0])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "BreezeCMS_Output.csv", Filename("csv"))
	assert.Equal(t, "BreezeCMS_Output.xlsx", Filename(".xlsx"))
}
