// Package extract pulls payer names out of bank transaction narrations.
package extract

import "strings"

// Prefix is the fixed narration prefix of a Zelle payment row.
// The match is exact and case-sensitive.
const Prefix = "Zelle payment from "

// Name splits a narration into a (firstName, lastName) pair.
//
// Narrations that do not start with Prefix yield two empty strings and
// flow through the pipeline as an empty unresolved name. For matching
// narrations the first word becomes the first name and the trailing
// word is dropped entirely: banks append a confirmation token after the
// payer name, so the last word is never part of it. The interior words
// form the last name. A two-word narration therefore has no last name.
func Name(description string) (firstName, lastName string) {
	if !strings.HasPrefix(description, Prefix) {
		return "", ""
	}

	trimmed := strings.TrimSpace(strings.TrimPrefix(description, Prefix))
	words := strings.Split(trimmed, " ")

	// Drop the trailing confirmation token.
	words = words[:len(words)-1]
	if len(words) == 0 {
		return "", ""
	}

	return words[0], strings.Join(words[1:], " ")
}
