package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/breezeport-dev/breezeport/internal/model"
)

// SQLite implements Store on a local sqlite database file.
type SQLite struct {
	db *sql.DB
}

// Open opens (and migrates) the sqlite database at path.
func Open(path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// List returns all accounts with their aliases in stored order.
func (s *SQLite) List(ctx context.Context) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT a.id, al.name
	FROM accounts a
	LEFT JOIN account_aliases al ON al.account_id = a.id
	ORDER BY a.id, al.position`)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var id int
		var name sql.NullString
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scanning account row: %w", err)
		}

		if len(accounts) == 0 || accounts[len(accounts)-1].ID != id {
			accounts = append(accounts, model.Account{ID: id})
		}
		if name.Valid {
			last := &accounts[len(accounts)-1]
			last.Aliases = append(last.Aliases, name.String)
		}
	}
	return accounts, rows.Err()
}

// Upsert writes the full alias set of one account, replacing whatever
// the database held for it before.
func (s *SQLite) Upsert(ctx context.Context, account model.Account) error {
	return s.withTx(func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO accounts(id) VALUES (?)
		ON CONFLICT(id) DO UPDATE SET updated_at = CURRENT_TIMESTAMP`, account.ID)
		if err != nil {
			return fmt.Errorf("upserting account %d: %w", account.ID, err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM account_aliases WHERE account_id = ?`, account.ID); err != nil {
			return fmt.Errorf("clearing aliases for %d: %w", account.ID, err)
		}

		for i, alias := range account.Aliases {
			_, err := tx.ExecContext(ctx, `
			INSERT INTO account_aliases(account_id, name, position) VALUES (?, ?, ?)`,
				account.ID, alias, i)
			if err != nil {
				return fmt.Errorf("inserting alias %q for %d: %w", alias, account.ID, err)
			}
		}
		return nil
	})
}

// Delete removes an account and its aliases.
func (s *SQLite) Delete(ctx context.Context, accountID int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, accountID)
	if err != nil {
		return fmt.Errorf("deleting account %d: %w", accountID, err)
	}
	return nil
}

func (s *SQLite) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
