// Package batch maps a parsed bank export onto Breeze donation records.
package batch

import (
	"strings"

	"github.com/breezeport-dev/breezeport/internal/extract"
	"github.com/breezeport-dev/breezeport/internal/match"
	"github.com/breezeport-dev/breezeport/internal/model"
)

// Params carry the operator-supplied metadata stamped onto every
// record of one batch.
type Params struct {
	BatchName   string
	BatchNumber string
	Fund        string
	Method      string
}

// Mapper converts bank rows into donation records, resolving payer
// names against the directory. It only reads the directory; all
// mutation happens later, during reconciliation.
type Mapper struct {
	matcher *match.Matcher
}

// NewMapper creates a Mapper using the given matcher.
func NewMapper(matcher *match.Matcher) *Mapper {
	return &Mapper{matcher: matcher}
}

// Map produces one DonationRecord per row plus the distinct unresolved
// payer names in first-seen order. Names dedupe by exact string
// equality, so several rows from the same payer queue once and all of
// them patch together when that name is resolved.
func (m *Mapper) Map(rows []model.BankRow, params Params) ([]model.DonationRecord, []string) {
	var records []model.DonationRecord
	var queue []string
	seen := make(map[string]bool)

	for _, row := range rows {
		if blank(row) {
			continue
		}

		first, last := extract.Name(row.Description)
		fullName := strings.TrimSpace(first + " " + last)

		rec := model.DonationRecord{
			FirstName:   first,
			LastName:    last,
			Date:        row.PostingDate,
			Amount:      row.Amount,
			Fund:        params.Fund,
			Method:      params.Method,
			BatchName:   params.BatchName,
			BatchNumber: params.BatchNumber,
		}

		if id, ok := m.matcher.Resolve(fullName); ok {
			rec.BreezeID = id
		} else if !seen[fullName] {
			seen[fullName] = true
			queue = append(queue, fullName)
		}

		records = append(records, rec)
	}

	return records, queue
}

func blank(row model.BankRow) bool {
	return row.Description == "" && row.PostingDate.IsZero() && row.Amount.IsZero()
}
