// Package match resolves extracted payer names against the account
// directory, exactly where possible and by fuzzy ranking otherwise.
package match

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/breezeport-dev/breezeport/internal/directory"
)

const (
	// maxSuggestions caps the ranked list shown to the operator.
	maxSuggestions = 5
	// minScore filters out candidates too dissimilar to be useful.
	minScore = 0.5
)

// Suggestion is a ranked candidate account for an unresolved name.
type Suggestion struct {
	AccountID int
	Name      string // the alias that produced the match
	Score     float64
}

// Matcher resolves names against a directory snapshot.
type Matcher struct {
	dir *directory.Service
}

// New creates a Matcher over the given directory.
func New(dir *directory.Service) *Matcher {
	return &Matcher{dir: dir}
}

// Resolve returns the account ID whose alias set contains name, using
// the directory's normalization rule.
func (m *Matcher) Resolve(name string) (int, bool) {
	return m.dir.LookupExact(name)
}

// Suggest ranks directory accounts by similarity to name, most relevant
// first. Every alias is searched both as stored and in a reduced
// "first + last token" form, and the query runs both ways too, so a
// stored middle name or initial on either side does not hide a match.
// An account appears once, at its best score.
func (m *Matcher) Suggest(name string) []Suggestion {
	query := directory.Normalize(name)
	if query == "" {
		return nil
	}

	entries := m.searchEntries()
	best := make(map[int]Suggestion)

	for _, q := range dedupe(query, reduce(query)) {
		for _, e := range entries {
			score := similarity(q, e.key)
			if score < minScore {
				continue
			}
			if prev, ok := best[e.accountID]; !ok || score > prev.Score {
				best[e.accountID] = Suggestion{AccountID: e.accountID, Name: e.display, Score: score}
			}
		}
	}

	out := make([]Suggestion, 0, len(best))
	for _, s := range best {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].AccountID < out[j].AccountID
	})

	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

type entry struct {
	accountID int
	display   string
	key       string // normalized form compared against the query
}

func (m *Matcher) searchEntries() []entry {
	var entries []entry
	for _, a := range m.dir.All() {
		for _, alias := range a.Aliases {
			key := directory.Normalize(alias)
			if key == "" {
				continue
			}
			entries = append(entries, entry{accountID: a.ID, display: alias, key: key})
			if reduced := reduce(key); reduced != key {
				entries = append(entries, entry{accountID: a.ID, display: alias, key: reduced})
			}
		}
	}
	return entries
}

// reduce collapses a normalized name to its first and last tokens,
// dropping middle names and initials.
func reduce(name string) string {
	tokens := strings.Fields(name)
	if len(tokens) <= 2 {
		return name
	}
	return tokens[0] + " " + tokens[len(tokens)-1]
}

// similarity maps levenshtein distance into [0,1]; identical strings
// score 1.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

func dedupe(queries ...string) []string {
	var out []string
	for _, q := range queries {
		seen := false
		for _, prev := range out {
			if prev == q {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, q)
		}
	}
	return out
}
