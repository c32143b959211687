package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breezeport-dev/breezeport/internal/batch"
	"github.com/breezeport-dev/breezeport/internal/directory"
	"github.com/breezeport-dev/breezeport/internal/match"
	"github.com/breezeport-dev/breezeport/internal/model"
)

// fakeStore records upserts and optionally fails them.
type fakeStore struct {
	upserts []model.Account
	deletes []int
	err     error
}

func (f *fakeStore) List(context.Context) ([]model.Account, error) { return nil, nil }

func (f *fakeStore) Upsert(_ context.Context, a model.Account) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, a)
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id int) error {
	f.deletes = append(f.deletes, id)
	return nil
}

func mapBatch(t *testing.T, dir *directory.Service, descriptions ...string) ([]model.DonationRecord, []string) {
	t.Helper()
	var rows []model.BankRow
	for _, d := range descriptions {
		rows = append(rows, model.BankRow{
			Description: d,
			PostingDate: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.NewFromInt(25),
		})
	}
	m := batch.NewMapper(match.New(dir))
	return m.Map(rows, batch.Params{BatchName: "Zelle Import", BatchNumber: "100", Fund: "Tithe", Method: "Zelle"})
}

func TestSessionEndToEnd(t *testing.T) {
	dir := directory.NewService([]model.Account{{ID: 10, Aliases: []string{"Alice Smith"}}})
	st := &fakeStore{}

	records, queue := mapBatch(t, dir,
		"Zelle payment from Alice Smith Confirmed",
		"Zelle payment from Bob Jones Confirmed",
	)
	require.Len(t, records, 2)
	assert.Equal(t, 10, records[0].BreezeID, "known payer resolves during mapping")
	require.Equal(t, []string{"Bob Jones"}, queue)

	s := NewSession(dir, st, records, queue)
	require.Equal(t, StateAwaitingInput, s.State())

	prompt, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "Bob Jones", prompt.Name)
	assert.Equal(t, 1, prompt.Position)
	assert.Equal(t, 1, prompt.Total)

	require.NoError(t, s.Save(context.Background(), 20))
	require.Equal(t, StateDone, s.State())

	// Directory gained the account and the store saw it.
	a, found := dir.Get(20)
	require.True(t, found)
	assert.Equal(t, []string{"Bob Jones"}, a.Aliases)
	require.Len(t, st.upserts, 1)
	assert.Equal(t, 20, st.upserts[0].ID)

	// Both records are fully resolved.
	final, done := s.Records()
	require.True(t, done)
	assert.Equal(t, 10, final[0].BreezeID)
	assert.Equal(t, 20, final[1].BreezeID)
}

func TestSavePatchesEveryMatchingRecord(t *testing.T) {
	dir := directory.NewService(nil)
	records, queue := mapBatch(t, dir,
		"Zelle payment from Bob Jones ConfA",
		"Zelle payment from Bob Jones ConfB",
		"Zelle payment from Bob Jones ConfC",
	)
	require.Len(t, queue, 1)

	s := NewSession(dir, &fakeStore{}, records, queue)
	require.NoError(t, s.Save(context.Background(), 42))

	final, done := s.Records()
	require.True(t, done)
	for _, r := range final {
		assert.Equal(t, 42, r.BreezeID)
	}
}

func TestCancelKeepsEarlierSaves(t *testing.T) {
	dir := directory.NewService(nil)
	st := &fakeStore{}
	records, queue := mapBatch(t, dir,
		"Zelle payment from Carol White ConfA",
		"Zelle payment from Bob Jones ConfB",
	)
	require.Len(t, queue, 2)

	s := NewSession(dir, st, records, queue)
	require.NoError(t, s.Save(context.Background(), 31)) // Carol White

	s.Cancel()
	assert.Equal(t, StateCancelled, s.State())

	// No artifact from a cancelled batch.
	_, done := s.Records()
	assert.False(t, done)

	// The earlier directory mutation stands.
	assert.True(t, dir.Exists(31))
	require.Len(t, st.upserts, 1)

	// A finished session ignores further transitions.
	assert.ErrorIs(t, s.Save(context.Background(), 99), ErrNotAwaitingInput)
	s.Cancel()
	assert.Equal(t, StateCancelled, s.State())
}

func TestSaveRejectsNonPositiveID(t *testing.T) {
	dir := directory.NewService(nil)
	records, queue := mapBatch(t, dir, "Zelle payment from Bob Jones Conf")

	s := NewSession(dir, &fakeStore{}, records, queue)
	assert.ErrorIs(t, s.Save(context.Background(), 0), ErrInvalidAccountID)
	assert.ErrorIs(t, s.Save(context.Background(), -3), ErrInvalidAccountID)
	assert.Equal(t, StateAwaitingInput, s.State(), "rejected save does not advance")
	assert.False(t, dir.Exists(0))
}

func TestSaveAppendsAliasToExistingAccount(t *testing.T) {
	dir := directory.NewService([]model.Account{{ID: 10, Aliases: []string{"Robert Jones"}}})
	records, queue := mapBatch(t, dir, "Zelle payment from Bob Jones Conf")

	s := NewSession(dir, &fakeStore{}, records, queue)
	require.NoError(t, s.Save(context.Background(), 10))

	a, _ := dir.Get(10)
	assert.Equal(t, []string{"Robert Jones", "Bob Jones"}, a.Aliases)
}

func TestSaveStoreFailureAdvancesAnyway(t *testing.T) {
	dir := directory.NewService(nil)
	st := &fakeStore{err: errors.New("disk full")}
	records, queue := mapBatch(t, dir, "Zelle payment from Bob Jones Conf")

	s := NewSession(dir, st, records, queue)
	err := s.Save(context.Background(), 20)

	var perr *PersistError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 20, perr.AccountID)
	assert.Equal(t, "Bob Jones", perr.Name)

	// In-memory state committed and the session moved on.
	assert.True(t, dir.Exists(20))
	assert.Equal(t, StateDone, s.State())
	final, done := s.Records()
	require.True(t, done)
	assert.Equal(t, 20, final[0].BreezeID)
}

func TestSuggestionsSeeAccountsCreatedMidSession(t *testing.T) {
	dir := directory.NewService(nil)
	records, queue := mapBatch(t, dir,
		"Zelle payment from Dan Brown ConfA",
		"Zelle payment from Don Brown ConfB",
	)
	require.Len(t, queue, 2)

	s := NewSession(dir, &fakeStore{}, records, queue)
	require.NoError(t, s.Save(context.Background(), 50)) // Dan Brown

	prompt, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "Don Brown", prompt.Name)
	require.NotEmpty(t, prompt.Suggestions, "account 50 should rank for the similar name")
	assert.Equal(t, 50, prompt.Suggestions[0].AccountID)
}

func TestEmptyQueueIsImmediatelyDone(t *testing.T) {
	dir := directory.NewService([]model.Account{{ID: 10, Aliases: []string{"Alice Smith"}}})
	records, queue := mapBatch(t, dir, "Zelle payment from Alice Smith Conf")
	require.Empty(t, queue)

	s := NewSession(dir, &fakeStore{}, records, queue)
	assert.Equal(t, StateDone, s.State())

	_, ok := s.Current()
	assert.False(t, ok)

	final, done := s.Records()
	require.True(t, done)
	require.Len(t, final, 1)
}
