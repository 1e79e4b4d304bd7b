// Package store persists the account Store as a single unit.
package store

import (
	"fmt"

	"github.com/brainwave-dev/atm/internal/config"
	"github.com/brainwave-dev/atm/internal/model"
)

// Repository loads and saves the whole account store.
type Repository interface {
	// Load returns the persisted store, or an empty store if nothing was saved yet.
	Load() (model.Store, error)
	// Save replaces the persisted store with s.
	Save(s model.Store) error
	Close() error
}

// Open returns the repository selected by cfg.Driver.
func Open(cfg config.StorageConfig) (Repository, error) {
	switch cfg.Driver {
	case config.DriverJSON:
		return NewJSONFile(cfg.Path), nil
	case config.DriverSQLite:
		return OpenSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
