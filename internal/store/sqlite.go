package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/brainwave-dev/atm/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	user_id       TEXT PRIMARY KEY,
	password_hash TEXT NOT NULL,
	balance       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS transactions (
	user_id     TEXT NOT NULL REFERENCES accounts(user_id),
	seq         INTEGER NOT NULL,
	id          TEXT NOT NULL,
	timestamp   TEXT NOT NULL,
	kind        TEXT NOT NULL,
	amount      TEXT NOT NULL,
	description TEXT NOT NULL,
	PRIMARY KEY (user_id, seq)
);`

// SQLite stores accounts in an embedded SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Load reads every account and its transactions, ordered by insertion.
func (s *SQLite) Load() (model.Store, error) {
	out := model.Store{}

	rows, err := s.db.Query(`SELECT user_id, password_hash, balance FROM accounts`)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID, hash, balance string
		if err := rows.Scan(&userID, &hash, &balance); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		bal, err := decimal.NewFromString(balance)
		if err != nil {
			return nil, fmt.Errorf("parsing balance %q for %s: %w", balance, userID, err)
		}
		out[userID] = &model.Account{
			PasswordHash: hash,
			Balance:      bal,
			Transactions: []model.TransactionRecord{},
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}

	txRows, err := s.db.Query(`SELECT user_id, id, timestamp, kind, amount, description
		FROM transactions ORDER BY user_id, seq`)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer txRows.Close()

	for txRows.Next() {
		var userID, id, ts, kind, amount, desc string
		if err := txRows.Scan(&userID, &id, &ts, &kind, &amount, &desc); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		acct, ok := out[userID]
		if !ok {
			return nil, fmt.Errorf("transaction %s references unknown account %q", id, userID)
		}
		rec, err := unmarshalRecord(id, ts, kind, amount, desc)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", id, err)
		}
		acct.Transactions = append(acct.Transactions, rec)
	}
	if err := txRows.Err(); err != nil {
		return nil, fmt.Errorf("reading transactions: %w", err)
	}
	return out, nil
}

// Save replaces all rows inside a single SQL transaction.
func (s *SQLite) Save(st model.Store) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clearing transactions: %w", err)
	}
	if _, err = tx.Exec(`DELETE FROM accounts`); err != nil {
		return fmt.Errorf("clearing accounts: %w", err)
	}

	insAcct, err := tx.Prepare(`INSERT INTO accounts (user_id, password_hash, balance) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing account insert: %w", err)
	}
	defer insAcct.Close()

	insTx, err := tx.Prepare(`INSERT INTO transactions (user_id, seq, id, timestamp, kind, amount, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing transaction insert: %w", err)
	}
	defer insTx.Close()

	for userID, acct := range st {
		if _, err = insAcct.Exec(userID, acct.PasswordHash, acct.Balance.String()); err != nil {
			return fmt.Errorf("inserting account %s: %w", userID, err)
		}
		for i, rec := range acct.Transactions {
			if _, err = insTx.Exec(userID, i, rec.ID.String(), rec.Timestamp, string(rec.Kind), rec.Amount.String(), rec.Description); err != nil {
				return fmt.Errorf("inserting transaction %d for %s: %w", i, userID, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func unmarshalRecord(id, ts, kind, amount, desc string) (model.TransactionRecord, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("parsing id %q: %w", id, err)
	}
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("parsing amount %q: %w", amount, err)
	}
	return model.TransactionRecord{
		ID:          uid,
		Timestamp:   ts,
		Kind:        model.TransactionKind(kind),
		Amount:      amt,
		Description: desc,
	}, nil
}
