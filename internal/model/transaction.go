package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankRow represents one parsed row of a bank's Zelle activity export.
// Rows are read-only input: the pipeline never mutates them.
type BankRow struct {
	Description string // free-text narration, e.g. "Zelle payment from ..."
	PostingDate time.Time
	Amount      decimal.Decimal
}
