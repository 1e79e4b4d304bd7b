// Package statement exports an account's transaction log as CSV.
package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/brainwave-dev/atm/internal/model"
)

// Header is the CSV header for a statement.
const Header = "id,timestamp,kind,amount,description"

const (
	numFields      = 5
	colID          = 0
	colTimestamp   = 1
	colKind        = 2
	colAmount      = 3
	colDescription = 4
)

// MarshalRecord converts a TransactionRecord to a CSV row.
func MarshalRecord(r model.TransactionRecord) []string {
	row := make([]string, numFields)
	row[colID] = r.ID.String()
	row[colTimestamp] = r.Timestamp
	row[colKind] = string(r.Kind)
	row[colAmount] = r.Amount.StringFixed(2)
	row[colDescription] = r.Description
	return row
}

// UnmarshalRecord converts a CSV row to a TransactionRecord.
func UnmarshalRecord(record []string) (model.TransactionRecord, error) {
	if len(record) != numFields {
		return model.TransactionRecord{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	id, err := uuid.Parse(record[colID])
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("parsing id %q: %w", record[colID], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.TransactionRecord{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	kind := model.TransactionKind(record[colKind])
	switch kind {
	case model.KindDeposit, model.KindWithdrawal:
	default:
		return model.TransactionRecord{}, fmt.Errorf("unknown kind %q", record[colKind])
	}

	return model.TransactionRecord{
		ID:          id,
		Timestamp:   record[colTimestamp],
		Kind:        kind,
		Amount:      amount,
		Description: record[colDescription],
	}, nil
}

// Write writes records as a statement CSV, header first.
func Write(w io.Writer, records []model.TransactionRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range records {
		if err := cw.Write(MarshalRecord(r)); err != nil {
			return fmt.Errorf("writing record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read parses a statement CSV written by Write.
func Read(r io.Reader) ([]model.TransactionRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}

	if len(rows) <= 1 {
		return nil, nil
	}

	var records []model.TransactionRecord
	for i, row := range rows[1:] {
		rec, err := UnmarshalRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
