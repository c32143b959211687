package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVWithHeader(t *testing.T) {
	input := `Details,Posting Date,Description,Amount,Type
DEBIT,03/02/2025,Zelle payment from Alice Smith Conf777,50.00,ACH_CREDIT
DEBIT,03/03/2025,Zelle payment from Bob Jones Conf888,25.50,ACH_CREDIT
`
	rows, err := (&CSVParser{}).Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Zelle payment from Alice Smith Conf777", rows[0].Description)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), rows[0].PostingDate)
	assert.Equal(t, "50", rows[0].Amount.String())
	assert.Equal(t, "25.5", rows[1].Amount.String())
}

func TestCSVWithoutHeader(t *testing.T) {
	// No known labels in the first row: positional columns apply and
	// the first row is data.
	input := `Zelle payment from Alice Smith Conf777,2025-03-02,50.00
Zelle payment from Bob Jones Conf888,2025-03-03,25.50
`
	rows, err := (&CSVParser{}).Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), rows[0].PostingDate)
}

func TestCSVHeaderMissingRequiredColumn(t *testing.T) {
	input := `Description,Posting Date,Type
Zelle payment from Alice Smith Conf,03/02/2025,ACH
`
	_, err := (&CSVParser{}).Parse(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Amount"`)
}

func TestCSVSkipsBlankRows(t *testing.T) {
	input := `Description,Posting Date,Amount
Zelle payment from Alice Smith Conf,03/02/2025,50.00
,,
Zelle payment from Bob Jones Conf,03/03/2025,25.00
`
	rows, err := (&CSVParser{}).Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestCSVBadDate(t *testing.T) {
	input := `Description,Posting Date,Amount
Zelle payment from Alice Smith Conf,not-a-date,50.00
`
	_, err := (&CSVParser{}).Parse(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestCSVEmptyFile(t *testing.T) {
	_, err := (&CSVParser{}).Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoRows)

	_, err = (&CSVParser{}).Parse(strings.NewReader("Description,Posting Date,Amount\n"))
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestForFile(t *testing.T) {
	r := DefaultRegistry()

	p, err := r.ForFile("statements/march.csv")
	require.NoError(t, err)
	assert.Equal(t, "csv", p.Format())

	p, err = r.ForFile("statements/March.XLSX")
	require.NoError(t, err)
	assert.Equal(t, "xlsx", p.Format())

	_, err = r.ForFile("statements/march.pdf")
	assert.Error(t, err)
}
