// Package ledger derives display structures from the flat chart of accounts.
// The flat list is the source of truth; everything here is a disposable
// projection, rebuilt on every call and safe to call from any caller.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/propbooks-dev/propbooks/internal/model"
)

// AccountNode wraps an Account with its children ordered by code.
type AccountNode struct {
	Account  model.Account
	Children []*AccountNode
}

// SubtreeBalance returns the node's own balance plus all descendants.
// Display-only convenience; rollups by type stay flat (see RollupByType).
func (n *AccountNode) SubtreeBalance() decimal.Decimal {
	total := n.Account.Balance
	for _, c := range n.Children {
		total = total.Add(c.SubtreeBalance())
	}
	return total
}

// Walk visits the node and its descendants depth-first, passing each node's
// depth (0 for the receiver).
func (n *AccountNode) Walk(fn func(node *AccountNode, depth int)) {
	n.walk(fn, 0)
}

func (n *AccountNode) walk(fn func(node *AccountNode, depth int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// BuildForest converts a flat account list into an ordered forest.
//
// Parent resolution is a single-level lookup: an account whose ParentID does
// not match any ID in the input becomes a root. That is a defined fallback
// for partial or filtered datasets, not an error. Because no transitive walk
// happens, cyclic parent data yields misgrouped nodes rather than a hang.
//
// Sibling lists (the root list included) are sorted by Code using plain
// string comparison; duplicate codes keep input order. The input slice is
// never mutated.
func BuildForest(accounts []model.Account) []*AccountNode {
	nodes := make(map[string]*AccountNode, len(accounts))
	for _, a := range accounts {
		nodes[a.ID] = &AccountNode{Account: a}
	}

	var roots []*AccountNode
	for _, a := range accounts {
		n := nodes[a.ID]
		parent, ok := nodes[a.ParentID]
		if a.ParentID != "" && ok && parent != n {
			parent.Children = append(parent.Children, n)
			continue
		}
		roots = append(roots, n)
	}

	sortSiblings(roots)
	return roots
}

func sortSiblings(nodes []*AccountNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Account.Code < nodes[j].Account.Code
	})
	for _, n := range nodes {
		sortSiblings(n.Children)
	}
}

// RollupByType sums each account's own recorded balance per account type.
// Flat aggregation: a child's balance is never folded into an ancestor's.
// Every type appears in the result, zero when no account matches.
func RollupByType(accounts []model.Account) map[model.AccountType]decimal.Decimal {
	totals := make(map[model.AccountType]decimal.Decimal, 5)
	for _, at := range model.AccountTypes() {
		totals[at] = decimal.Zero
	}
	for _, a := range accounts {
		totals[a.Type] = totals[a.Type].Add(a.Balance)
	}
	return totals
}
