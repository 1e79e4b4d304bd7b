package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/brainwave-dev/atm/internal/model"
)

// JSONFile stores all accounts in one indented JSON document.
type JSONFile struct {
	path string
}

// NewJSONFile returns a repository backed by the file at path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the backing file path.
func (j *JSONFile) Path() string {
	return j.path
}

// Load reads the backing file. A missing or empty file is an empty store.
func (j *JSONFile) Load() (model.Store, error) {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Store{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading store %s: %w", j.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return model.Store{}, nil
	}

	var s model.Store
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing store %s: %w", j.path, err)
	}
	if s == nil {
		s = model.Store{}
	}
	for id, acct := range s {
		if acct == nil {
			return nil, fmt.Errorf("parsing store %s: account %q is null", j.path, id)
		}
		if acct.Transactions == nil {
			acct.Transactions = []model.TransactionRecord{}
		}
	}
	return s, nil
}

// Save writes the store to a temp file next to the target and renames it into place.
func (j *JSONFile) Save(s model.Store) error {
	if s == nil {
		s = model.Store{}
	}
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling store: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(j.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(j.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp store: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp store: %w", err)
	}
	if err := os.Rename(tmp.Name(), j.path); err != nil {
		return fmt.Errorf("replacing store %s: %w", j.path, err)
	}
	return nil
}

// Close is a no-op.
func (j *JSONFile) Close() error { return nil }
