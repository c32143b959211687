package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breezeport-dev/breezeport/internal/config"
)

func TestRunInit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir))

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	assert.FileExists(t, filepath.Join(dir, "breeze.db"))
	assert.DirExists(t, filepath.Join(dir, "export"))
	assert.DirExists(t, filepath.Join(dir, "logs"))
}

func TestRunInitRefusesExistingConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runInit(dir))

	err := runInit(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	root := NewRootCommand()
	root.SetArgs([]string{"init", dir})
	require.NoError(t, root.Execute())

	_, err := os.Stat(filepath.Join(dir, config.FileName))
	assert.NoError(t, err)
}
