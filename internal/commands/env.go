package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/breezeport-dev/breezeport/internal/config"
	"github.com/breezeport-dev/breezeport/internal/directory"
	"github.com/breezeport-dev/breezeport/internal/store"
)

// env bundles the services every command needs from a workspace.
type env struct {
	workDir string
	cfg     *config.Config
	store   *store.SQLite
	dir     *directory.Service
}

// openEnv loads the workspace config, opens the directory database, and
// hydrates the in-memory directory from it.
func openEnv(ctx context.Context, workDir string) (*env, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(absDir, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("loading config (run `breezeport init`?): %w", err)
	}

	dbPath := cfg.Storage.DatabasePath
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(absDir, dbPath)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening directory database: %w", err)
	}

	accounts, err := st.List(ctx)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("loading directory: %w", err)
	}

	return &env{
		workDir: absDir,
		cfg:     cfg,
		store:   st,
		dir:     directory.NewService(accounts),
	}, nil
}

func (e *env) close() {
	_ = e.store.Close()
}
