// Package account implements the ledger operations for a single user.
package account

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brainwave-dev/atm/internal/model"
	"github.com/brainwave-dev/atm/internal/store"
)

// NoRecordsMessage is shown for an account without transactions.
const NoRecordsMessage = "Your account has no transaction records yet."

// Engine runs account operations for one user against a loaded store.
// Every mutation is persisted through the repository before it returns.
type Engine struct {
	repo   store.Repository
	data   model.Store
	userID string
	now    func() time.Time
	log    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for transaction timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New loads the store from repo and binds the engine to userID.
func New(repo store.Repository, userID string, opts ...Option) (*Engine, error) {
	data, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	e := &Engine{
		repo:   repo,
		data:   data,
		userID: userID,
		now:    time.Now,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With("user", userID)
	return e, nil
}

// Exists reports whether the bound user has an account.
func (e *Engine) Exists() bool {
	_, ok := e.data[e.userID]
	return ok
}

// CreateAccount creates an account with a zero balance and empty log.
func (e *Engine) CreateAccount(password string) error {
	if e.Exists() {
		return ErrAccountExists
	}
	err := e.mutate(func(s model.Store) error {
		s[e.userID] = model.NewAccount(HashPassword(password))
		return nil
	})
	if err != nil {
		return err
	}
	e.log.Debug("account created")
	return nil
}

// ResetPassword replaces the stored password hash. The old password is not checked.
func (e *Engine) ResetPassword(newPassword string) error {
	err := e.mutate(func(s model.Store) error {
		acct, ok := s[e.userID]
		if !ok {
			return ErrNoAccount
		}
		acct.PasswordHash = HashPassword(newPassword)
		return nil
	})
	if err != nil {
		return err
	}
	e.log.Debug("password reset")
	return nil
}

// Authenticate reports whether password matches the stored hash.
// A missing account never authenticates.
func (e *Engine) Authenticate(password string) bool {
	acct, ok := e.data[e.userID]
	if !ok {
		return false
	}
	match := acct.PasswordHash == HashPassword(password)
	e.log.Debug("authenticate", "ok", match)
	return match
}

// Deposit adds amount to the balance and records it.
func (e *Engine) Deposit(amount decimal.Decimal) (model.TransactionRecord, error) {
	if !validAmount(amount) {
		return model.TransactionRecord{}, ErrInvalidAmount
	}
	var rec model.TransactionRecord
	err := e.mutate(func(s model.Store) error {
		acct, ok := s[e.userID]
		if !ok {
			return ErrNoAccount
		}
		acct.Balance = acct.Balance.Add(amount)
		rec = e.record(acct, model.KindDeposit, amount, "Deposited: "+FormatMoney(amount))
		return nil
	})
	if err != nil {
		return model.TransactionRecord{}, err
	}
	e.log.Debug("deposit", "amount", amount.String())
	return rec, nil
}

// Withdraw subtracts amount from the balance and records it.
// Withdrawals above the balance are rejected, never clamped.
func (e *Engine) Withdraw(amount decimal.Decimal) (model.TransactionRecord, error) {
	if !validAmount(amount) {
		return model.TransactionRecord{}, ErrInvalidAmount
	}
	var rec model.TransactionRecord
	err := e.mutate(func(s model.Store) error {
		acct, ok := s[e.userID]
		if !ok {
			return ErrNoAccount
		}
		if acct.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}
		acct.Balance = acct.Balance.Sub(amount)
		rec = e.record(acct, model.KindWithdrawal, amount, "Withdrew: "+FormatMoney(amount))
		return nil
	})
	if err != nil {
		return model.TransactionRecord{}, err
	}
	e.log.Debug("withdraw", "amount", amount.String())
	return rec, nil
}

// Balance returns the current balance.
func (e *Engine) Balance() (decimal.Decimal, error) {
	acct, ok := e.data[e.userID]
	if !ok {
		return decimal.Zero, ErrNoAccount
	}
	return acct.Balance, nil
}

// History returns a copy of the transaction log in insertion order.
func (e *Engine) History() ([]model.TransactionRecord, error) {
	acct, ok := e.data[e.userID]
	if !ok {
		return nil, ErrNoAccount
	}
	out := make([]model.TransactionRecord, len(acct.Transactions))
	copy(out, acct.Transactions)
	return out, nil
}

// FormatHistory joins records into newline-separated history lines.
func FormatHistory(records []model.TransactionRecord) string {
	if len(records) == 0 {
		return NoRecordsMessage
	}
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = r.String()
	}
	return strings.Join(lines, "\n")
}

// validAmount reports whether amount is positive and in whole cents.
func validAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.Equal(amount.Truncate(2))
}

// FormatMoney renders an amount as "$12.50".
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func (e *Engine) record(acct *model.Account, kind model.TransactionKind, amount decimal.Decimal, desc string) model.TransactionRecord {
	rec := model.TransactionRecord{
		ID:          uuid.New(),
		Timestamp:   e.now().Format(model.TimestampLayout),
		Kind:        kind,
		Amount:      amount,
		Description: desc,
	}
	acct.Transactions = append(acct.Transactions, rec)
	return rec
}

// mutate applies fn to a copy of the store and persists it. The in-memory
// store only changes when both fn and the save succeed.
func (e *Engine) mutate(fn func(model.Store) error) error {
	next := e.data.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := e.repo.Save(next); err != nil {
		return fmt.Errorf("saving accounts: %w", err)
	}
	e.data = next
	return nil
}
