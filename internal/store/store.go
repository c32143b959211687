// Package store persists the account directory to a durable local
// database. The pipeline only sees the narrow Store interface; the
// in-memory directory remains the source of truth within a run.
package store

import (
	"context"

	"github.com/breezeport-dev/breezeport/internal/model"
)

// Store is the directory persistence collaborator.
type Store interface {
	List(ctx context.Context) ([]model.Account, error)
	Upsert(ctx context.Context, account model.Account) error
	Delete(ctx context.Context, accountID int) error
}
