package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propbooks-dev/propbooks/internal/model"
)

func acct(id, code, name string, parentID string, balance string, at model.AccountType) model.Account {
	b, _ := decimal.NewFromString(balance)
	return model.Account{ID: id, Code: code, Name: name, Type: at, ParentID: parentID, Balance: b}
}

func TestBuildForest_Empty(t *testing.T) {
	assert.Empty(t, BuildForest(nil))
	assert.Empty(t, BuildForest([]model.Account{}))
}

func TestBuildForest_ParentChildOrdering(t *testing.T) {
	accounts := []model.Account{
		acct("1", "1000", "Assets", "", "0", model.AccountTypeAsset),
		acct("3", "1100", "Accounts Receivable", "1", "15000", model.AccountTypeAsset),
		acct("2", "1001", "Cash", "1", "125000", model.AccountTypeAsset),
	}

	forest := BuildForest(accounts)
	require.Len(t, forest, 1)
	root := forest[0]
	assert.Equal(t, "1000", root.Account.Code)

	require.Len(t, root.Children, 2)
	assert.Equal(t, "1001", root.Children[0].Account.Code, "children sorted by code")
	assert.Equal(t, "1100", root.Children[1].Account.Code)
}

func TestBuildForest_RootsSortedByCode(t *testing.T) {
	accounts := []model.Account{
		acct("e", "5000", "Expenses", "", "0", model.AccountTypeExpense),
		acct("a", "1000", "Assets", "", "0", model.AccountTypeAsset),
		acct("r", "4000", "Revenue", "", "0", model.AccountTypeRevenue),
	}

	forest := BuildForest(accounts)
	require.Len(t, forest, 3)
	assert.Equal(t, "1000", forest[0].Account.Code)
	assert.Equal(t, "4000", forest[1].Account.Code)
	assert.Equal(t, "5000", forest[2].Account.Code)
}

func TestBuildForest_DanglingParentBecomesRoot(t *testing.T) {
	accounts := []model.Account{
		acct("1", "1000", "Assets", "", "0", model.AccountTypeAsset),
		acct("2", "1010", "Orphan", "missing", "0", model.AccountTypeAsset),
	}

	forest := BuildForest(accounts)
	require.Len(t, forest, 2, "unresolvable parent reference degrades to a root")
	assert.Equal(t, "Orphan", forest[1].Account.Name)
	assert.Empty(t, forest[1].Children)
}

func TestBuildForest_SelfParentBecomesRoot(t *testing.T) {
	accounts := []model.Account{
		acct("1", "1000", "Loop", "1", "0", model.AccountTypeAsset),
	}

	forest := BuildForest(accounts)
	require.Len(t, forest, 1)
	assert.Empty(t, forest[0].Children)
}

func TestBuildForest_EveryAccountExactlyOnce(t *testing.T) {
	accounts := []model.Account{
		acct("1", "1000", "Assets", "", "0", model.AccountTypeAsset),
		acct("2", "1010", "Cash", "1", "0", model.AccountTypeAsset),
		acct("3", "1020", "Escrow", "1", "0", model.AccountTypeAsset),
		acct("4", "1011", "Petty Cash", "2", "0", model.AccountTypeAsset),
		acct("5", "4000", "Revenue", "", "0", model.AccountTypeRevenue),
		acct("6", "9999", "Orphan", "nope", "0", model.AccountTypeExpense),
	}

	seen := make(map[string]int)
	for _, root := range BuildForest(accounts) {
		root.Walk(func(n *AccountNode, _ int) {
			seen[n.Account.ID]++
		})
	}

	require.Len(t, seen, len(accounts), "no account lost")
	for id, count := range seen {
		assert.Equal(t, 1, count, "account %s duplicated", id)
	}
}

func TestBuildForest_DuplicateCodesKeepInputOrder(t *testing.T) {
	accounts := []model.Account{
		acct("first", "2000", "First", "", "0", model.AccountTypeLiability),
		acct("second", "2000", "Second", "", "0", model.AccountTypeLiability),
		acct("third", "1000", "Third", "", "0", model.AccountTypeAsset),
	}

	forest := BuildForest(accounts)
	require.Len(t, forest, 3)
	assert.Equal(t, "third", forest[0].Account.ID)
	assert.Equal(t, "first", forest[1].Account.ID, "stable sort preserves input order on ties")
	assert.Equal(t, "second", forest[2].Account.ID)
}

func TestBuildForest_InputNotMutated(t *testing.T) {
	accounts := []model.Account{
		acct("2", "1010", "Cash", "1", "0", model.AccountTypeAsset),
		acct("1", "1000", "Assets", "", "0", model.AccountTypeAsset),
	}

	BuildForest(accounts)

	assert.Equal(t, "2", accounts[0].ID, "input order untouched")
	assert.Equal(t, "1", accounts[1].ID)
}

func TestBuildForest_DeepNestingWithDepth(t *testing.T) {
	accounts := []model.Account{
		acct("1", "1000", "Assets", "", "0", model.AccountTypeAsset),
		acct("2", "1010", "Bank", "1", "0", model.AccountTypeAsset),
		acct("3", "1011", "Checking", "2", "0", model.AccountTypeAsset),
	}

	forest := BuildForest(accounts)
	require.Len(t, forest, 1)

	depths := make(map[string]int)
	forest[0].Walk(func(n *AccountNode, depth int) {
		depths[n.Account.Code] = depth
	})
	assert.Equal(t, 0, depths["1000"])
	assert.Equal(t, 1, depths["1010"])
	assert.Equal(t, 2, depths["1011"])
}

func TestSubtreeBalance(t *testing.T) {
	accounts := []model.Account{
		acct("1", "1000", "Assets", "", "100", model.AccountTypeAsset),
		acct("2", "1001", "Cash", "1", "125000", model.AccountTypeAsset),
		acct("3", "1100", "AR", "1", "15000", model.AccountTypeAsset),
	}

	forest := BuildForest(accounts)
	require.Len(t, forest, 1)
	assert.True(t, forest[0].SubtreeBalance().Equal(decimal.NewFromInt(140100)),
		"subtree total is own balance plus descendants, got %s", forest[0].SubtreeBalance())
}

func TestRollupByType(t *testing.T) {
	accounts := []model.Account{
		acct("1", "1000", "Assets", "", "0", model.AccountTypeAsset),
		acct("2", "1001", "Cash", "1", "125000", model.AccountTypeAsset),
		acct("3", "1100", "AR", "1", "15000", model.AccountTypeAsset),
		acct("4", "4010", "Rent", "", "2400.50", model.AccountTypeRevenue),
	}

	totals := RollupByType(accounts)

	assert.True(t, totals[model.AccountTypeAsset].Equal(decimal.NewFromInt(140000)),
		"asset total %s", totals[model.AccountTypeAsset])
	assert.True(t, totals[model.AccountTypeRevenue].Equal(decimal.RequireFromString("2400.50")))
	assert.True(t, totals[model.AccountTypeLiability].IsZero(), "absent types report zero")
	assert.True(t, totals[model.AccountTypeEquity].IsZero())
	assert.True(t, totals[model.AccountTypeExpense].IsZero())
}

func TestRollupByType_FlatNotHierarchical(t *testing.T) {
	// A branch account's own balance counts once; children are not folded in.
	accounts := []model.Account{
		acct("1", "1000", "Assets", "", "50", model.AccountTypeAsset),
		acct("2", "1010", "Cash", "1", "100", model.AccountTypeAsset),
	}

	totals := RollupByType(accounts)
	assert.True(t, totals[model.AccountTypeAsset].Equal(decimal.NewFromInt(150)))
}

func TestRollupByType_TotalMatchesInputSum(t *testing.T) {
	accounts := []model.Account{
		acct("1", "1000", "A", "", "10.25", model.AccountTypeAsset),
		acct("2", "2000", "L", "", "3.75", model.AccountTypeLiability),
		acct("3", "5000", "E", "x", "6", model.AccountTypeExpense),
	}

	totals := RollupByType(accounts)
	sum := decimal.Zero
	for _, v := range totals {
		sum = sum.Add(v)
	}
	assert.True(t, sum.Equal(decimal.NewFromInt(20)), "rollup total %s", sum)
}
