package accounts

import "github.com/propbooks-dev/propbooks/internal/model"

// DefaultChart returns the starter chart of accounts for a property
// management company. Seeded accounts use their code as the ID so the
// file stays readable; imported and hand-added accounts may use any
// opaque ID.
func DefaultChart() []model.Account {
	return []model.Account{
		{ID: "1000", Code: "1000", Name: "Assets", Type: model.AccountTypeAsset},
		{ID: "1010", Code: "1010", Name: "Operating Bank Account", Type: model.AccountTypeAsset, ParentID: "1000", Description: "Primary operating account"},
		{ID: "1020", Code: "1020", Name: "Security Deposit Escrow", Type: model.AccountTypeAsset, ParentID: "1000", Description: "Tenant deposits held in escrow"},
		{ID: "1100", Code: "1100", Name: "Accounts Receivable", Type: model.AccountTypeAsset, ParentID: "1000", Description: "Rent and fees billed, not yet collected"},
		{ID: "2000", Code: "2000", Name: "Liabilities", Type: model.AccountTypeLiability},
		{ID: "2010", Code: "2010", Name: "Security Deposits Payable", Type: model.AccountTypeLiability, ParentID: "2000", Description: "Deposits owed back to tenants"},
		{ID: "2100", Code: "2100", Name: "Accounts Payable", Type: model.AccountTypeLiability, ParentID: "2000"},
		{ID: "3000", Code: "3000", Name: "Owner Equity", Type: model.AccountTypeEquity},
		{ID: "4000", Code: "4000", Name: "Revenue", Type: model.AccountTypeRevenue},
		{ID: "4010", Code: "4010", Name: "Rental Income", Type: model.AccountTypeRevenue, ParentID: "4000"},
		{ID: "4020", Code: "4020", Name: "Late Fee Income", Type: model.AccountTypeRevenue, ParentID: "4000"},
		{ID: "4030", Code: "4030", Name: "Application Fee Income", Type: model.AccountTypeRevenue, ParentID: "4000"},
		{ID: "5000", Code: "5000", Name: "Expenses", Type: model.AccountTypeExpense},
		{ID: "5010", Code: "5010", Name: "Repairs & Maintenance", Type: model.AccountTypeExpense, ParentID: "5000"},
		{ID: "5020", Code: "5020", Name: "Property Management Fees", Type: model.AccountTypeExpense, ParentID: "5000"},
		{ID: "5030", Code: "5030", Name: "Utilities", Type: model.AccountTypeExpense, ParentID: "5000"},
		{ID: "5040", Code: "5040", Name: "Insurance", Type: model.AccountTypeExpense, ParentID: "5000"},
		{ID: "5050", Code: "5050", Name: "Property Taxes", Type: model.AccountTypeExpense, ParentID: "5000"},
	}
}
