package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/propbooks-dev/propbooks/internal/model"
)

// GenericParser parses the common "code,name,type,parent_code,balance"
// chart export most bookkeeping tools can produce. Parent references are
// by code; each imported account uses its code as the ID so parent links
// resolve within the batch.
type GenericParser struct{}

const (
	genericNumFields  = 6
	genericColCode    = 0
	genericColName    = 1
	genericColType    = 2
	genericColParent  = 3
	genericColBalance = 4
	genericColDesc    = 5
)

// Format returns the parser name.
func (p *GenericParser) Format() string { return "generic" }

// Parse reads a generic chart export and returns Accounts.
func (p *GenericParser) Parse(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = genericNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading generic CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := parseGenericRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

func parseGenericRow(rec []string) (model.Account, error) {
	accountType, err := model.ParseAccountType(rec[genericColType])
	if err != nil {
		return model.Account{}, err
	}

	balance := decimal.Zero
	if rec[genericColBalance] != "" {
		balance, err = decimal.NewFromString(rec[genericColBalance])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing balance %q: %w", rec[genericColBalance], err)
		}
	}

	return model.Account{
		ID:          rec[genericColCode],
		Code:        rec[genericColCode],
		Name:        rec[genericColName],
		Type:        accountType,
		ParentID:    rec[genericColParent],
		Balance:     balance,
		Description: rec[genericColDesc],
	}, nil
}
