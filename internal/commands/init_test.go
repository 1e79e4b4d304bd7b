package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainwave-dev/atm/internal/config"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "atm-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "atm")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/atm")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runATM(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runATMWithInput(t, "", args...)
}

// runATMWithInput runs the binary with the given lines on stdin.
func runATMWithInput(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Stdin = strings.NewReader(stdin)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func TestVersion(t *testing.T) {
	out, err := runATM(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "atm version dev")
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	out, err := runATM(t, "init", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Initialized ATM data directory")

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, config.DriverJSON, cfg.Storage.Driver)
	assert.Equal(t, "atm_data.json", cfg.Storage.Path)
	assert.False(t, cfg.Git.AutoCommit)
}

func TestInit_SQLite(t *testing.T) {
	dir := t.TempDir()
	_, err := runATM(t, "init", dir, "--driver", "sqlite")
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "atm.db", cfg.Storage.Path)
}

func TestInit_BadDriver(t *testing.T) {
	dir := t.TempDir()
	_, err := runATM(t, "init", dir, "--driver", "postgres")
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, config.FileName))
	assert.True(t, os.IsNotExist(statErr), "no config should be written")
}

func TestInit_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	_, err := runATM(t, "init", dir)
	require.NoError(t, err)

	out, err := runATM(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, out, "already exists")

	_, err = runATM(t, "init", dir, "--force")
	require.NoError(t, err)
}

func TestInit_Git(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	_, err := runATM(t, "init", dir, "--git")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	data, err := os.ReadFile(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "auto_commit: true")
}
