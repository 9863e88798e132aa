package accounts

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/propbooks-dev/propbooks/internal/model"
)

const (
	numFields  = 7
	colID      = 0
	colCode    = 1
	colName    = 2
	colType    = 3
	colParent  = 4
	colBalance = 5
	colDesc    = 6
)

// ReadAccounts reads chart-of-accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes chart-of-accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"account_id", "code", "account_name", "account_type", "parent_id", "balance", "description"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colID] = acct.ID
	row[colCode] = acct.Code
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	row[colParent] = acct.ParentID
	row[colBalance] = acct.Balance.StringFixed(2)
	row[colDesc] = acct.Description
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	accountType, err := model.ParseAccountType(record[colType])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing account_type: %w", err)
	}

	balance := decimal.Zero
	if record[colBalance] != "" {
		balance, err = decimal.NewFromString(record[colBalance])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
		}
	}

	return model.Account{
		ID:          record[colID],
		Code:        record[colCode],
		Name:        record[colName],
		Type:        accountType,
		ParentID:    record[colParent],
		Balance:     balance,
		Description: record[colDesc],
	}, nil
}
