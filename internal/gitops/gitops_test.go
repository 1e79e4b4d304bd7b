package gitops

import (
	"bytes"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainwave-dev/atm/internal/model"
	"github.com/brainwave-dev/atm/internal/store"
)

var testAuthor = Author{Name: "Test Author", Email: "test@example.com"}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func gitLog(t *testing.T, dir, format string) []string {
	t.Helper()
	cmd := exec.Command("git", "log", "--format="+format)
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(out)), "\n")
}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	_, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git directory should exist")
}

func TestIsRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")

	sub := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	assert.True(t, IsRepo(sub), "subdirectory of a repo is inside the work tree")
}

func TestCommitFiles(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))

	changed, err := HasChanges(dir, "a.json")
	require.NoError(t, err)
	assert.True(t, changed)

	hash, err := CommitFiles(dir, "atm: test commit", testAuthor, "a.json")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.Equal(t, []string{"atm: test commit"}, gitLog(t, dir, "%s"))
	assert.Equal(t, []string{"Test Author <test@example.com>"}, gitLog(t, dir, "%an <%ae>"))

	changed, err = HasChanges(dir, "a.json")
	require.NoError(t, err)
	assert.False(t, changed)

	// Only the named file was committed.
	changed, err = HasChanges(dir, "other.txt")
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestAutoCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "atm_data.json")

	repo, err := NewAutoCommit(store.NewJSONFile(path), path, testAuthor, nil)
	require.NoError(t, err)
	assert.True(t, IsRepo(dir))

	s := model.Store{"alice": model.NewAccount("h1")}
	require.NoError(t, repo.Save(s))

	// Saving identical content does not create an empty commit.
	require.NoError(t, repo.Save(s))

	s["bob"] = model.NewAccount("h2")
	require.NoError(t, repo.Save(s))

	assert.Equal(t, []string{"atm: save 2 account(s)", "atm: save 1 account(s)"}, gitLog(t, dir, "%s"))

	got, err := repo.Load()
	require.NoError(t, err)
	assert.Len(t, got, 2)
	require.NoError(t, repo.Close())
}

func TestAutoCommit_SaveErrorSkipsCommit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	mem := store.NewMemory(nil)
	mem.SaveErr = assert.AnError

	repo, err := NewAutoCommit(mem, filepath.Join(dir, "atm_data.json"), testAuthor, nil)
	require.NoError(t, err)

	err = repo.Save(model.Store{})
	require.ErrorIs(t, err, assert.AnError)
}

func TestAutoCommit_GitFailureKeepsSave(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "atm_data.json")

	var logBuf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logBuf, nil))
	repo, err := NewAutoCommit(store.NewJSONFile(path), path, testAuthor, log)
	require.NoError(t, err)

	// Break the repository after wrapping so git commands fail.
	require.NoError(t, os.RemoveAll(filepath.Join(dir, ".git")))

	s := model.Store{"alice": model.NewAccount("h1")}
	require.NoError(t, repo.Save(s), "data already on disk must not be reported as a failed save")

	got, err := repo.Load()
	require.NoError(t, err)
	assert.Contains(t, got, "alice")
	assert.Contains(t, logBuf.String(), "level=WARN")
}
