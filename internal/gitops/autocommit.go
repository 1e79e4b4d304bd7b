package gitops

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/brainwave-dev/atm/internal/model"
	"github.com/brainwave-dev/atm/internal/store"
)

// AutoCommit wraps a Repository and commits the data file after every save.
type AutoCommit struct {
	store.Repository

	dir    string
	file   string
	author Author
	log    *slog.Logger
}

// NewAutoCommit wraps repo, whose data lives at dataPath. The directory holding
// dataPath is initialized as a git repository if it is not inside one already.
func NewAutoCommit(repo store.Repository, dataPath string, author Author, log *slog.Logger) (*AutoCommit, error) {
	abs, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	if !IsRepo(dir) {
		if err := Init(dir); err != nil {
			return nil, err
		}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &AutoCommit{
		Repository: repo,
		dir:        dir,
		file:       filepath.Base(abs),
		author:     author,
		log:        log,
	}, nil
}

// Save persists s through the wrapped repository, then commits the data file
// if it changed. Once the data is saved, git failures are logged as warnings
// and not returned, so callers never roll back data that is already on disk.
func (a *AutoCommit) Save(s model.Store) error {
	if err := a.Repository.Save(s); err != nil {
		return err
	}

	changed, err := HasChanges(a.dir, a.file)
	if err != nil {
		a.log.Warn("checking data file for changes", "file", a.file, "err", err)
		return nil
	}
	if !changed {
		return nil
	}

	msg := fmt.Sprintf("atm: save %d account(s)", s.Users())
	hash, err := CommitFiles(a.dir, msg, a.author, a.file)
	if err != nil {
		a.log.Warn("committing data file", "file", a.file, "err", err)
		return nil
	}
	a.log.Debug("committed data file", "file", a.file, "commit", hash)
	return nil
}
