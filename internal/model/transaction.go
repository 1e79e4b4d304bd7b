package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimestampLayout is the format of TransactionRecord.Timestamp ("YYYY-MM-DD HH:MM:SS").
const TimestampLayout = "2006-01-02 15:04:05"

// TransactionKind classifies a ledger entry.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
)

const (
	depositPrefix    = "Deposited: $"
	withdrawalPrefix = "Withdrew: $"
)

// TransactionRecord is one timestamped ledger entry. Records are append-only.
type TransactionRecord struct {
	ID          uuid.UUID       `json:"id"`
	Timestamp   string          `json:"timestamp"`
	Kind        TransactionKind `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// String renders the record as a history line: "2025-01-03 10:00:00 - Deposited: $5.00".
func (r TransactionRecord) String() string {
	return r.Timestamp + " - " + r.Description
}

// UnmarshalJSON accepts the object form and the plain history-line form
// written by earlier versions of the data file.
func (r *TransactionRecord) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var line string
		if err := json.Unmarshal(data, &line); err != nil {
			return err
		}
		rec, err := ParseLine(line)
		if err != nil {
			return err
		}
		*r = rec
		return nil
	}
	type plain TransactionRecord
	return json.Unmarshal(data, (*plain)(r))
}

// ParseLine parses a history line such as "2025-01-03 10:00:00 - Withdrew: $30.0".
// The ID is derived from the line so repeated loads yield the same record.
func ParseLine(line string) (TransactionRecord, error) {
	ts, desc, ok := strings.Cut(line, " - ")
	if !ok {
		return TransactionRecord{}, fmt.Errorf("transaction %q: missing \" - \" separator", line)
	}
	if _, err := time.Parse(TimestampLayout, ts); err != nil {
		return TransactionRecord{}, fmt.Errorf("transaction %q: parsing timestamp: %w", line, err)
	}

	var kind TransactionKind
	var amountText string
	switch {
	case strings.HasPrefix(desc, depositPrefix):
		kind, amountText = KindDeposit, strings.TrimPrefix(desc, depositPrefix)
	case strings.HasPrefix(desc, withdrawalPrefix):
		kind, amountText = KindWithdrawal, strings.TrimPrefix(desc, withdrawalPrefix)
	default:
		return TransactionRecord{}, fmt.Errorf("transaction %q: unknown description", line)
	}

	amount, err := decimal.NewFromString(amountText)
	if err != nil {
		return TransactionRecord{}, fmt.Errorf("transaction %q: parsing amount: %w", line, err)
	}

	return TransactionRecord{
		ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte(line)),
		Timestamp:   ts,
		Kind:        kind,
		Amount:      amount,
		Description: desc,
	}, nil
}
