package domain

import (
	"fmt"
	"sort"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// AccountTypeOrder is the order in which top-level groups are presented.
var AccountTypeOrder = []AccountType{Asset, Liability, Equity, Revenue, Expense}

// Valid reports whether t is one of the five supported account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// NormalBalance is the side on which an account naturally increases.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "DEBIT"
	CreditNormal NormalBalance = "CREDIT"
)

// NormalBalance derives the increasing side from the account type.
func (t AccountType) NormalBalance() NormalBalance {
	switch t {
	case Asset, Expense:
		return DebitNormal
	default:
		return CreditNormal
	}
}

// Account represents a node in a tenant's chart of accounts.
type Account struct {
	TenantID    string      `json:"tenantID"`
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`
	ParentCode  *string     `json:"parentCode,omitempty"`
	Description string      `json:"description"`
	IsActive    bool        `json:"isActive"`
	AuditFields
}

// NormalBalance is a convenience for a.AccountType.NormalBalance().
func (a Account) NormalBalance() NormalBalance {
	return a.AccountType.NormalBalance()
}

// AccountNode is an account plus its children, ordered by code.
type AccountNode struct {
	Account
	Depth    int            `json:"depth"`
	Children []*AccountNode `json:"children,omitempty"`
}

// AccountTree indexes a validated chart of accounts.
type AccountTree struct {
	Roots  []*AccountNode
	byCode map[string]*AccountNode
}

// BuildAccountTree validates the parent graph and links it. Every non-root
// parent must exist, share the child's type, and the graph must be acyclic.
func BuildAccountTree(accounts []Account) (*AccountTree, error) {
	tree := &AccountTree{byCode: make(map[string]*AccountNode, len(accounts))}
	for _, acc := range accounts {
		if acc.Code == "" {
			return nil, fmt.Errorf("account with empty code")
		}
		if _, dup := tree.byCode[acc.Code]; dup {
			return nil, fmt.Errorf("duplicate account code %s", acc.Code)
		}
		if !acc.AccountType.Valid() {
			return nil, fmt.Errorf("account %s has unknown type %q", acc.Code, acc.AccountType)
		}
		tree.byCode[acc.Code] = &AccountNode{Account: acc}
	}

	for _, node := range tree.byCode {
		if node.ParentCode == nil || *node.ParentCode == "" {
			tree.Roots = append(tree.Roots, node)
			continue
		}
		parent, ok := tree.byCode[*node.ParentCode]
		if !ok {
			return nil, fmt.Errorf("account %s references missing parent %s", node.Code, *node.ParentCode)
		}
		if parent.AccountType != node.AccountType {
			return nil, fmt.Errorf("account %s (%s) cannot sit under %s (%s)", node.Code, node.AccountType, parent.Code, parent.AccountType)
		}
		parent.Children = append(parent.Children, node)
	}

	// A cycle has no root, so anything unreachable from the roots is on one.
	visited := make(map[string]bool, len(tree.byCode))
	var walk func(n *AccountNode, depth int)
	walk = func(n *AccountNode, depth int) {
		visited[n.Code] = true
		n.Depth = depth
		sort.Slice(n.Children, func(i, j int) bool { return n.Children[i].Code < n.Children[j].Code })
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	sortNodes(tree.Roots)
	for _, root := range tree.Roots {
		walk(root, 0)
	}
	if len(visited) != len(tree.byCode) {
		for code := range tree.byCode {
			if !visited[code] {
				return nil, fmt.Errorf("account %s is part of a parent cycle", code)
			}
		}
	}
	return tree, nil
}

func sortNodes(nodes []*AccountNode) {
	typeRank := make(map[AccountType]int, len(AccountTypeOrder))
	for i, t := range AccountTypeOrder {
		typeRank[t] = i
	}
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].AccountType != nodes[j].AccountType {
			return typeRank[nodes[i].AccountType] < typeRank[nodes[j].AccountType]
		}
		return nodes[i].Code < nodes[j].Code
	})
}

// Node returns the node for code.
func (t *AccountTree) Node(code string) (*AccountNode, bool) {
	n, ok := t.byCode[code]
	return n, ok
}

// SubtreeCodes returns code and every descendant code, depth first.
func (t *AccountTree) SubtreeCodes(code string) []string {
	n, ok := t.byCode[code]
	if !ok {
		return nil
	}
	var codes []string
	var walk func(*AccountNode)
	walk = func(n *AccountNode) {
		codes = append(codes, n.Code)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return codes
}

// RootsOfType returns the top-level accounts of the given type.
func (t *AccountTree) RootsOfType(accountType AccountType) []*AccountNode {
	var roots []*AccountNode
	for _, r := range t.Roots {
		if r.AccountType == accountType {
			roots = append(roots, r)
		}
	}
	return roots
}

// Walk visits every node in presentation order.
func (t *AccountTree) Walk(fn func(*AccountNode)) {
	var walk func(*AccountNode)
	walk = func(n *AccountNode) {
		fn(n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range t.Roots {
		walk(r)
	}
}
