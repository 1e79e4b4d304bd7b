package model

import "github.com/shopspring/decimal"

// Store is the full persisted collection of accounts, keyed by user ID.
type Store map[string]*Account

// Account holds one user's credentials, balance and transaction log.
type Account struct {
	PasswordHash string              `json:"password"`
	Balance      decimal.Decimal     `json:"balance"`
	Transactions []TransactionRecord `json:"transactions"`
}

// NewAccount returns an account with a zero balance and an empty log.
func NewAccount(passwordHash string) *Account {
	return &Account{
		PasswordHash: passwordHash,
		Balance:      decimal.Zero,
		Transactions: []TransactionRecord{},
	}
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	cp := *a
	cp.Transactions = make([]TransactionRecord, len(a.Transactions))
	copy(cp.Transactions, a.Transactions)
	return &cp
}

// Clone returns a deep copy of the store. A nil store clones to an empty one.
func (s Store) Clone() Store {
	out := make(Store, len(s))
	for id, acct := range s {
		out[id] = acct.Clone()
	}
	return out
}

// Users returns the number of accounts in the store.
func (s Store) Users() int {
	return len(s)
}
