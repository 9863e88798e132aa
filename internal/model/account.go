package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

// AccountTypes returns the five account types in statement order.
func AccountTypes() []AccountType {
	return []AccountType{
		AccountTypeAsset,
		AccountTypeLiability,
		AccountTypeEquity,
		AccountTypeRevenue,
		AccountTypeExpense,
	}
}

// ParseAccountType converts a string to an AccountType, rejecting unknown values.
func ParseAccountType(s string) (AccountType, error) {
	switch at := AccountType(s); at {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return at, nil
	}
	return "", fmt.Errorf("unknown account type %q", s)
}

// Account represents a row in chart-of-accounts.csv.
type Account struct {
	ID          string
	Code        string // sort key within a sibling group, e.g. "1010"
	Name        string
	Type        AccountType
	ParentID    string // empty = top-level
	Balance     decimal.Decimal
	Description string
}
