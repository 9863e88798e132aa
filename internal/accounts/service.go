package accounts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/propbooks-dev/propbooks/internal/ledger"
	"github.com/propbooks-dev/propbooks/internal/model"
)

// Service provides in-memory lookup over the chart of accounts.
type Service struct {
	accounts []model.Account
	byID     map[string]model.Account
	byCode   map[string]model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	s := &Service{
		accounts: accounts,
		byID:     make(map[string]model.Account, len(accounts)),
		byCode:   make(map[string]model.Account, len(accounts)),
	}
	for _, a := range accounts {
		s.byID[a.ID] = a
		if _, taken := s.byCode[a.Code]; !taken {
			s.byCode[a.Code] = a
		}
	}
	return s
}

// Load reads chart-of-accounts.csv from a books repo root and returns a Service.
func Load(repoRoot string) (*Service, error) {
	path := filepath.Join(repoRoot, "accounts", "chart-of-accounts.csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts in input order.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by ID.
func (s *Service) Get(id string) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// GetByCode returns an account by code. With duplicate codes the first wins.
func (s *Service) GetByCode(code string) (model.Account, bool) {
	a, ok := s.byCode[code]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Tree derives the account forest from the flat list.
func (s *Service) Tree() []*ledger.AccountNode {
	return ledger.BuildForest(s.accounts)
}

// Rollup returns flat balance totals per account type.
func (s *Service) Rollup() map[model.AccountType]decimal.Decimal {
	return ledger.RollupByType(s.accounts)
}

// Validate flags structural problems in the chart: duplicate IDs and
// duplicate codes. Parent/child type mismatches are deliberately not checked;
// the data model allows them and the hierarchy tolerates them.
func (s *Service) Validate() []error {
	var errs []error

	ids := make(map[string]int)
	codes := make(map[string]int)
	for _, a := range s.accounts {
		ids[a.ID]++
		codes[a.Code]++
	}
	for _, a := range s.accounts {
		if ids[a.ID] > 1 {
			errs = append(errs, fmt.Errorf("duplicate account id %q", a.ID))
			ids[a.ID] = 0
		}
		if codes[a.Code] > 1 {
			errs = append(errs, fmt.Errorf("duplicate account code %q", a.Code))
			codes[a.Code] = 0
		}
	}
	return errs
}

// Merge folds imported accounts into the chart: accounts whose code already
// exists replace the stored balance/name/description, new codes append.
// Returns counts of appended and updated accounts.
func (s *Service) Merge(incoming []model.Account) (added, updated int) {
	for _, in := range incoming {
		if existing, ok := s.byCode[in.Code]; ok {
			existing.Name = in.Name
			existing.Balance = in.Balance
			if in.Description != "" {
				existing.Description = in.Description
			}
			for i, a := range s.accounts {
				if a.ID == existing.ID {
					s.accounts[i] = existing
				}
			}
			s.byID[existing.ID] = existing
			s.byCode[existing.Code] = existing
			updated++
			continue
		}
		s.accounts = append(s.accounts, in)
		s.byID[in.ID] = in
		s.byCode[in.Code] = in
		added++
	}
	return added, updated
}

// Save writes the chart of accounts to accounts/chart-of-accounts.csv.
func (s *Service) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, "accounts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	path := filepath.Join(dir, "chart-of-accounts.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}
