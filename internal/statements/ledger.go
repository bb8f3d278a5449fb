package statements

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reports/internal/accounts"
	"github.com/cleared-dev/reports/internal/model"
)

// ledger is a validated, date-sorted copy of the input with account roles
// resolved once.
type ledger struct {
	accts  []model.Account
	txns   []model.Transaction
	roles  map[string]model.AccountRole
	amount accounts.AmountFunc
}

func newLedger(txns []model.Transaction, accts []model.Account, opts Options) (*ledger, error) {
	if err := checkDates(txns); err != nil {
		return nil, err
	}

	sorted := make([]model.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Day().Before(sorted[j].Day())
	})

	return &ledger{
		accts:  accts,
		txns:   sorted,
		roles:  opts.classifier().Roles(accts),
		amount: opts.amount(),
	}, nil
}

func checkDates(txns []model.Transaction) error {
	for _, t := range txns {
		if t.Date.IsZero() {
			return &model.InvalidDateError{TransactionID: t.ID}
		}
	}
	return nil
}

// between returns the transactions dated within [start, end] by calendar day.
// l.txns is sorted, so the result is a subslice.
func (l *ledger) between(start, end time.Time) []model.Transaction {
	lo := sort.Search(len(l.txns), func(i int) bool {
		return !l.txns[i].Day().Before(start)
	})
	hi := sort.Search(len(l.txns), func(i int) bool {
		return l.txns[i].Day().After(end)
	})
	if hi < lo {
		hi = lo
	}
	return l.txns[lo:hi:hi]
}

// through returns every transaction dated on or before day.
func (l *ledger) through(day time.Time) []model.Transaction {
	hi := sort.Search(len(l.txns), func(i int) bool {
		return l.txns[i].Day().After(day)
	})
	return l.txns[:hi:hi]
}

// roleTotals totals txns by account role over the whole account forest.
func (l *ledger) roleTotals(txns []model.Transaction) (map[model.AccountRole]decimal.Decimal, error) {
	forest, err := accounts.BuildTreeBy(l.accts, txns, model.AccountTypes, l.amount)
	if err != nil {
		return nil, err
	}
	return l.rolesIn(forest), nil
}

// rolesIn totals a forest by role. Postings on an account count toward the
// account's own role; an account without a role inherits the nearest
// ancestor's. Transactions on unknown or role-less accounts contribute
// nothing.
func (l *ledger) rolesIn(forest []*accounts.Node) map[model.AccountRole]decimal.Decimal {
	type item struct {
		node *accounts.Node
		role model.AccountRole
	}
	sums := make(map[model.AccountRole]decimal.Decimal)
	stack := make([]item, 0, len(forest))
	for _, n := range forest {
		stack = append(stack, item{node: n})
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		role := it.role
		if own := l.roles[it.node.ID]; own != model.RoleNone {
			role = own
		}
		if role != model.RoleNone {
			sums[role] = sums[role].Add(accounts.DirectTotal(it.node))
		}
		for _, c := range it.node.Children {
			stack = append(stack, item{node: c, role: role})
		}
	}
	return sums
}

func (l *ledger) forest(txns []model.Transaction, types ...model.AccountType) ([]*accounts.Node, error) {
	return accounts.BuildTreeBy(l.accts, txns, types, l.amount)
}

func (l *ledger) rootSum(txns []model.Transaction, types ...model.AccountType) (decimal.Decimal, error) {
	forest, err := l.forest(txns, types...)
	if err != nil {
		return decimal.Zero, err
	}
	return accounts.SumRoots(forest), nil
}
