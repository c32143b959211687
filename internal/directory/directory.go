// Package directory maintains the in-memory mapping from Breeze account
// IDs to the Zelle payer names linked to them.
package directory

import (
	"sort"
	"strconv"
	"strings"

	"github.com/breezeport-dev/breezeport/internal/model"
)

// Normalize lowercases a name, trims it, and collapses internal
// whitespace runs to single spaces. Both sides of every exact-match
// comparison go through this.
func Normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Service provides lookup and mutation over the account directory.
// Accounts are kept sorted by ascending ID so that lookups resolve
// ties deterministically.
type Service struct {
	accounts []model.Account
	byID     map[int]int // account ID -> index into accounts
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	s := &Service{}
	s.reset(accounts)
	return s
}

func (s *Service) reset(accounts []model.Account) {
	sorted := make([]model.Account, len(accounts))
	copy(sorted, accounts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	s.accounts = sorted
	s.byID = make(map[int]int, len(sorted))
	for i, a := range sorted {
		s.byID[a.ID] = i
	}
}

// All returns all accounts in ascending ID order.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by ID.
func (s *Service) Get(id int) (model.Account, bool) {
	i, ok := s.byID[id]
	if !ok {
		return model.Account{}, false
	}
	return s.accounts[i], true
}

// Exists reports whether an account ID is present.
func (s *Service) Exists(id int) bool {
	_, ok := s.byID[id]
	return ok
}

// LookupExact returns the first account (ascending ID) holding an alias
// that normalizes to the same string as name. An empty name never
// matches.
func (s *Service) LookupExact(name string) (int, bool) {
	key := Normalize(name)
	if key == "" {
		return 0, false
	}
	for _, a := range s.accounts {
		for _, alias := range a.Aliases {
			if Normalize(alias) == key {
				return a.ID, true
			}
		}
	}
	return 0, false
}

// HasAlias reports whether the account already carries the alias,
// compared after normalization.
func HasAlias(a model.Account, name string) bool {
	key := Normalize(name)
	for _, alias := range a.Aliases {
		if Normalize(alias) == key {
			return true
		}
	}
	return false
}

// Upsert adds the given aliases to the account, creating the account if
// absent. Aliases already present (after normalization) are skipped, so
// the call is idempotent. It returns the resulting account.
func (s *Service) Upsert(id int, aliases ...string) model.Account {
	i, ok := s.byID[id]
	if !ok {
		s.insert(model.Account{ID: id})
		i = s.byID[id]
	}

	a := s.accounts[i]
	for _, alias := range aliases {
		if HasAlias(a, alias) {
			continue
		}
		a.Aliases = append(a.Aliases, alias)
	}
	s.accounts[i] = a
	return a
}

// ReplaceAliases swaps an account's alias list wholesale. Used by the
// account-edit surface. Reports whether the account exists.
func (s *Service) ReplaceAliases(id int, aliases []string) bool {
	i, ok := s.byID[id]
	if !ok {
		return false
	}
	s.accounts[i].Aliases = aliases
	return true
}

// Delete removes an account. Historical export records that reference
// the ID are left untouched.
func (s *Service) Delete(id int) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	kept := make([]model.Account, 0, len(s.accounts)-1)
	for _, a := range s.accounts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.reset(kept)
	return true
}

// Search returns accounts whose ID matches the query exactly or whose
// aliases contain the query as a case-insensitive substring.
func (s *Service) Search(query string) []model.Account {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.accounts
	}
	q := strings.ToLower(query)

	var out []model.Account
	for _, a := range s.accounts {
		if matchesQuery(a, query, q) {
			out = append(out, a)
		}
	}
	return out
}

func matchesQuery(a model.Account, query, lowered string) bool {
	if id, err := strconv.Atoi(query); err == nil && a.ID == id {
		return true
	}
	for _, alias := range a.Aliases {
		if strings.Contains(strings.ToLower(alias), lowered) {
			return true
		}
	}
	return false
}

func (s *Service) insert(a model.Account) {
	at := sort.Search(len(s.accounts), func(i int) bool { return s.accounts[i].ID >= a.ID })
	s.accounts = append(s.accounts, model.Account{})
	copy(s.accounts[at+1:], s.accounts[at:])
	s.accounts[at] = a

	for i := at; i < len(s.accounts); i++ {
		s.byID[s.accounts[i].ID] = i
	}
}
