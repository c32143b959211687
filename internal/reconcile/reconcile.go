// Package reconcile drives the interactive resolution of payer names
// that did not match any directory account. It is a resumable state
// machine: the front end asks for the current prompt, collects an
// account ID from the operator, and feeds it back through Save. The
// session never blocks waiting for input.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/breezeport-dev/breezeport/internal/directory"
	"github.com/breezeport-dev/breezeport/internal/match"
	"github.com/breezeport-dev/breezeport/internal/model"
	"github.com/breezeport-dev/breezeport/internal/store"
)

// State is the lifecycle phase of a Session.
type State string

const (
	// StateAwaitingInput means the session is suspended on the current
	// queue entry until the operator saves or cancels.
	StateAwaitingInput State = "awaiting-input"
	// StateDone means every queued name has been resolved.
	StateDone State = "done"
	// StateCancelled means the operator abandoned the batch. Directory
	// changes from earlier saves are kept; the batch records are not.
	StateCancelled State = "cancelled"
)

// ErrInvalidAccountID rejects Save calls without a positive account ID.
var ErrInvalidAccountID = errors.New("account ID must be a positive integer")

// ErrNotAwaitingInput rejects transitions on a finished session.
var ErrNotAwaitingInput = errors.New("session is not awaiting input")

// PersistError reports that an account was committed in memory but the
// durable write failed. The session has already advanced; the operator
// can re-save the account from the accounts surface later.
type PersistError struct {
	AccountID int
	Name      string
	Err       error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("saving account %d for %q: %v", e.AccountID, e.Name, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Prompt is what the front end shows for the current queue entry.
type Prompt struct {
	Name        string
	Suggestions []match.Suggestion
	Position    int // 1-based index into the queue
	Total       int
}

// Session walks the unresolved-name queue of one batch.
type Session struct {
	ID string

	dir     *directory.Service
	matcher *match.Matcher
	store   store.Store

	records     []model.DonationRecord
	queue       []string
	pos         int
	state       State
	suggestions []match.Suggestion
}

// NewSession starts a reconciliation run over a mapped batch. With an
// empty queue the session is immediately Done.
func NewSession(dir *directory.Service, st store.Store, records []model.DonationRecord, queue []string) *Session {
	s := &Session{
		ID:      uuid.NewString(),
		dir:     dir,
		matcher: match.New(dir),
		store:   st,
		records: records,
		queue:   queue,
		state:   StateAwaitingInput,
	}
	if len(queue) == 0 {
		s.state = StateDone
		return s
	}
	s.suggestions = s.matcher.Suggest(s.queue[0])
	return s
}

// State returns the session's current phase.
func (s *Session) State() State {
	return s.state
}

// Current returns the prompt for the queue entry the session is
// suspended on. ok is false unless the session is awaiting input.
func (s *Session) Current() (Prompt, bool) {
	if s.state != StateAwaitingInput {
		return Prompt{}, false
	}
	return Prompt{
		Name:        s.queue[s.pos],
		Suggestions: s.suggestions,
		Position:    s.pos + 1,
		Total:       len(s.queue),
	}, true
}

// Save resolves the current name to accountID: the name is added as an
// alias (creating the account if needed), every pending record carrying
// the name is patched, the account is written to the store, and the
// session advances.
//
// A store failure comes back as a *PersistError after the in-memory
// commit and the advance have both happened; it is a warning to
// surface, not a rollback.
func (s *Session) Save(ctx context.Context, accountID int) error {
	if s.state != StateAwaitingInput {
		return ErrNotAwaitingInput
	}
	if accountID <= 0 {
		return ErrInvalidAccountID
	}

	name := s.queue[s.pos]
	account := s.dir.Upsert(accountID, name)

	for i := range s.records {
		if !s.records[i].Resolved() && s.records[i].FullName() == name {
			s.records[i].BreezeID = accountID
		}
	}

	var persistErr error
	if err := s.store.Upsert(ctx, account); err != nil {
		persistErr = &PersistError{AccountID: accountID, Name: name, Err: err}
	}

	s.advance()
	return persistErr
}

// Cancel abandons the batch. Prior saves stay committed; the batch's
// records are discarded and no artifact is produced.
func (s *Session) Cancel() {
	if s.state != StateAwaitingInput {
		return
	}
	s.state = StateCancelled
	s.records = nil
	s.suggestions = nil
}

// Records returns the fully patched batch once the session is Done.
func (s *Session) Records() ([]model.DonationRecord, bool) {
	if s.state != StateDone {
		return nil, false
	}
	return s.records, true
}

func (s *Session) advance() {
	s.pos++
	if s.pos >= len(s.queue) {
		s.state = StateDone
		s.suggestions = nil
		return
	}
	// Suggestions rank against the directory as it stands now, so an
	// account created two saves ago can surface for this name.
	s.suggestions = s.matcher.Suggest(s.queue[s.pos])
}
