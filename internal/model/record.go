package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MissingID marks a DonationRecord whose payer has not been resolved
// to a Breeze account yet. It is the value written to the Breeze ID
// column when a record is exported unresolved.
const MissingID = "MISSING"

// DonationRecord is one output row of the Breeze import file, derived
// from a single BankRow. BreezeID is the only field that changes after
// creation: it transitions from 0 (unresolved) to a concrete account ID
// during reconciliation.
type DonationRecord struct {
	BreezeID    int // 0 = unresolved
	FirstName   string
	LastName    string
	Date        time.Time
	Amount      decimal.Decimal
	Fund        string
	Method      string
	BatchName   string
	BatchNumber string
	CheckNumber string
	Note        string
}

// Resolved reports whether the record carries a concrete Breeze ID.
func (r DonationRecord) Resolved() bool {
	return r.BreezeID > 0
}

// FullName returns the extracted payer name as emitted by the batch
// mapper: first and last name joined, trimmed. Reconciliation patches
// records by exact equality on this value.
func (r DonationRecord) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}
