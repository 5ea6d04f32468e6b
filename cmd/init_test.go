package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/apolog/internal/config"
	"github.com/chriserin/apolog/internal/db"
)

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
	return dir
}

func runInit(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunInit(&buf))
	return buf.String()
}

func TestInit_CreatesProjectDirectory(t *testing.T) {
	dir := inTempDir(t)
	out := runInit(t)

	info, err := os.Stat(filepath.Join(dir, ".apolog"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Contains(t, out, ".apolog/ created")
}

func TestInit_ProjectDirectoryAlreadyExists(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".apolog"), 0o755))

	out := runInit(t)
	assert.Contains(t, out, ".apolog/ already exists")
}

func TestInit_WritesDefaultConfig(t *testing.T) {
	inTempDir(t)
	out := runInit(t)

	assert.Contains(t, out, filepath.Join(".apolog", "config.yaml")+" created")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestInit_KeepsExistingConfig(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".apolog"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".apolog", "config.yaml"), []byte("history: runs.db\n"), 0o644))

	out := runInit(t)

	assert.Contains(t, out, "config.yaml already exists")
	assert.Contains(t, out, "runs.db created")
	_, err := os.Stat(filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
}

func TestInit_InitializesHistoryDatabase(t *testing.T) {
	dir := inTempDir(t)
	out := runInit(t)

	dbPath := filepath.Join(dir, ".apolog", "history.db")
	sqlDB, err := db.Open(dbPath)
	require.NoError(t, err)
	defer sqlDB.Close()

	runs, err := db.ListRuns(sqlDB, 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.Contains(t, out, ".apolog/history.db created")
}

func TestInit_DatabaseAlreadyExists(t *testing.T) {
	inTempDir(t)
	runInit(t)

	out := runInit(t)
	assert.Contains(t, out, ".apolog/history.db already exists")
}

func TestInit_CreatesGitignore(t *testing.T) {
	dir := inTempDir(t)
	out := runInit(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, ".apolog/history.db\n", string(data))
	assert.Contains(t, out, ".gitignore created")
}

func TestInit_AppendsToGitignore(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("vendor/"), 0o644))

	out := runInit(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "vendor/\n.apolog/history.db\n", string(data))
	assert.Contains(t, out, ".apolog/history.db added to .gitignore")
}

func TestInit_GitignoreEntryNotDuplicated(t *testing.T) {
	dir := inTempDir(t)
	runInit(t)

	out := runInit(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, ".apolog/history.db\n", string(data))
	assert.Contains(t, out, "already in .gitignore")
}

func TestInit_HistoryDisabled(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".apolog"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".apolog", "config.yaml"), []byte("history: off\n"), 0o644))

	out := runInit(t)

	assert.Contains(t, out, "run history disabled")
	_, err := os.Stat(filepath.Join(dir, ".apolog", "history.db"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, ".gitignore"))
	assert.True(t, os.IsNotExist(err))
}
