package accounts

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reports/internal/model"
)

// Node is an account annotated with the aggregated total of its own
// transactions plus every descendant's.
type Node struct {
	model.Account
	Children []*Node        `json:"children"`
	Total    decimal.Decimal `json:"total"`
	Depth    int             `json:"depth"`
}

// AmountFunc selects the figure of a transaction that gets aggregated.
type AmountFunc func(model.Transaction) decimal.Decimal

// TransactionAmount aggregates the transaction-currency amount.
func TransactionAmount(t model.Transaction) decimal.Decimal { return t.Amount }

// BaseAmount aggregates the base-currency amount.
func BaseAmount(t model.Transaction) decimal.Decimal { return t.BaseCurrencyAmount }

// BuildTree builds the account forest rooted at top-level accounts whose
// type is in types, aggregating transaction amounts bottom-up.
func BuildTree(accts []model.Account, txns []model.Transaction, types ...model.AccountType) ([]*Node, error) {
	return BuildTreeBy(accts, txns, types, TransactionAmount)
}

// BuildTreeBy is BuildTree with an explicit amount selector.
//
// Children are linked by ParentID regardless of their type; only the roots
// are filtered. An account whose parent does not exist is a root. The caller
// owns date and entity filtering of txns.
func BuildTreeBy(accts []model.Account, txns []model.Transaction, types []model.AccountType, amount AmountFunc) ([]*Node, error) {
	forest := []*Node{}
	if len(accts) == 0 {
		return forest, nil
	}

	parents, err := resolveParents(accts)
	if err != nil {
		return nil, err
	}
	if err := checkAcyclic(accts, parents); err != nil {
		return nil, err
	}

	direct := make(map[string]decimal.Decimal)
	for _, t := range txns {
		direct[t.AccountID] = direct[t.AccountID].Add(amount(t))
	}

	nodes := make([]*Node, len(accts))
	for i, a := range accts {
		nodes[i] = &Node{Account: a, Children: []*Node{}, Total: direct[a.ID]}
	}

	allowed := make(map[model.AccountType]bool, len(types))
	for _, at := range types {
		allowed[at] = true
	}

	for i, p := range parents {
		if p < 0 {
			if allowed[nodes[i].Type] {
				forest = append(forest, nodes[i])
			}
			continue
		}
		nodes[p].Children = append(nodes[p].Children, nodes[i])
	}

	// Breadth-first order puts every child after its parent, so a reverse
	// pass sees children finished before their parent.
	order := make([]*Node, 0, len(nodes))
	order = append(order, forest...)
	for i := 0; i < len(order); i++ {
		n := order[i]
		for _, c := range n.Children {
			c.Depth = n.Depth + 1
			order = append(order, c)
		}
	}
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		for _, c := range n.Children {
			n.Total = n.Total.Add(c.Total)
		}
	}

	return forest, nil
}

// resolveParents maps each account to its parent's index, or -1 for roots.
func resolveParents(accts []model.Account) ([]int, error) {
	index := make(map[string]int, len(accts))
	for i, a := range accts {
		if _, dup := index[a.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAccount, a.ID)
		}
		index[a.ID] = i
	}

	parents := make([]int, len(accts))
	for i, a := range accts {
		parents[i] = -1
		if a.ParentID == "" {
			continue
		}
		if p, ok := index[a.ParentID]; ok {
			parents[i] = p
		}
	}
	return parents, nil
}

func checkAcyclic(accts []model.Account, parents []int) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(parents))

	for start := range parents {
		var path []int
		i := start
		for i >= 0 && state[i] == unvisited {
			state[i] = visiting
			path = append(path, i)
			i = parents[i]
		}

		if i >= 0 && state[i] == visiting {
			var cycle []string
			for k, j := range path {
				if j == i {
					for _, m := range path[k:] {
						cycle = append(cycle, accts[m].ID)
					}
					break
				}
			}
			cycle = append(cycle, accts[i].ID)
			return &CyclicHierarchyError{Cycle: cycle}
		}

		for _, j := range path {
			state[j] = done
		}
	}
	return nil
}

// SumRoots returns the sum of the forest's root totals.
func SumRoots(forest []*Node) decimal.Decimal {
	sum := decimal.Zero
	for _, n := range forest {
		sum = sum.Add(n.Total)
	}
	return sum
}

// DirectTotal returns the part of n.Total posted to n itself.
func DirectTotal(n *Node) decimal.Decimal {
	d := n.Total
	for _, c := range n.Children {
		d = d.Sub(c.Total)
	}
	return d
}

// Walk visits every node depth-first, parents before children.
func Walk(forest []*Node, fn func(*Node)) {
	stack := make([]*Node, 0, len(forest))
	for i := len(forest) - 1; i >= 0; i-- {
		stack = append(stack, forest[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(n)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

// SortByNumber orders roots and every child list by account number, then name.
func SortByNumber(forest []*Node) {
	less := func(list []*Node) func(i, j int) bool {
		return func(i, j int) bool {
			if list[i].Number != list[j].Number {
				return list[i].Number < list[j].Number
			}
			return list[i].Name < list[j].Name
		}
	}
	sort.SliceStable(forest, less(forest))
	Walk(forest, func(n *Node) {
		sort.SliceStable(n.Children, less(n.Children))
	})
}

// Uncategorized returns the IDs of transactions posted to unknown accounts.
func Uncategorized(accts []model.Account, txns []model.Transaction) []string {
	known := make(map[string]bool, len(accts))
	for _, a := range accts {
		known[a.ID] = true
	}
	var ids []string
	for _, t := range txns {
		if !known[t.AccountID] {
			ids = append(ids, t.ID)
		}
	}
	return ids
}
