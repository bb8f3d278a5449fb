package statements

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reports/internal/model"
)

// ErrInvalidDateRange is returned when a window ends before it starts.
var ErrInvalidDateRange = errors.New("invalid date range")

// CashFlowStatement is an indirect-method statement of cash flows.
type CashFlowStatement struct {
	StartDate                   string          `json:"startDate"`
	EndDate                     string          `json:"endDate"`
	NetIncome                   decimal.Decimal `json:"netIncome"`
	DepreciationAndAmortization decimal.Decimal `json:"depreciationAndAmortization"`
	ChangeInAccountsReceivable  decimal.Decimal `json:"changeInAccountsReceivable"`
	ChangeInInventory           decimal.Decimal `json:"changeInInventory"`
	ChangeInAccountsPayable     decimal.Decimal `json:"changeInAccountsPayable"`
	CashFromOperations          decimal.Decimal `json:"cashFromOperations"`
	CashFromInvesting           decimal.Decimal `json:"cashFromInvesting"`
	CashFromFinancing           decimal.Decimal `json:"cashFromFinancing"`
	NetChangeInCash             decimal.Decimal `json:"netChangeInCash"`
	StartCash                   decimal.Decimal `json:"startCash"`
	EndCash                     decimal.Decimal `json:"endCash"`
}

// ChangesInWorkingCapital is the sum of the three working-capital movements.
func (s CashFlowStatement) ChangesInWorkingCapital() decimal.Decimal {
	return s.ChangeInAccountsReceivable.Add(s.ChangeInInventory).Add(s.ChangeInAccountsPayable)
}

// CalculateCashFlows computes the statement of cash flows for the inclusive
// calendar-day window [start, end].
//
// Opening cash is every cash-role posting dated before start; closing cash
// is every one dated on or before end. Expense and depreciation totals are
// taken as magnitudes, so net income is income less expenses and D&A is
// always added back.
func CalculateCashFlows(txns []model.Transaction, accts []model.Account, start, end time.Time, opts Options) (CashFlowStatement, error) {
	l, err := newLedger(txns, accts, opts)
	if err != nil {
		return CashFlowStatement{}, err
	}
	return l.cashFlows(model.Day(start), model.Day(end))
}

func (l *ledger) cashFlows(start, end time.Time) (CashFlowStatement, error) {
	if end.Before(start) {
		return CashFlowStatement{}, fmt.Errorf("%w: %s is before %s",
			ErrInvalidDateRange, end.Format(model.DateFormat), start.Format(model.DateFormat))
	}

	window := l.between(start, end)

	income, err := l.rootSum(window, model.AccountTypeIncome)
	if err != nil {
		return CashFlowStatement{}, err
	}
	expense, err := l.rootSum(window, model.AccountTypeExpense)
	if err != nil {
		return CashFlowStatement{}, err
	}

	sums, err := l.roleTotals(window)
	if err != nil {
		return CashFlowStatement{}, err
	}
	s := CashFlowStatement{
		StartDate:                   start.Format(model.DateFormat),
		EndDate:                     end.Format(model.DateFormat),
		NetIncome:                   income.Sub(expense.Abs()),
		DepreciationAndAmortization: sums[model.RoleDepreciation].Abs(),
		ChangeInAccountsReceivable:  sums[model.RoleAccountsReceivable],
		ChangeInInventory:           sums[model.RoleInventory],
		ChangeInAccountsPayable:     sums[model.RoleAccountsPayable],
		CashFromInvesting:           sums[model.RoleCapitalExpenditure],
		CashFromFinancing:           sums[model.RoleFinancing],
	}
	s.CashFromOperations = s.NetIncome.
		Add(s.DepreciationAndAmortization).
		Sub(s.ChangeInAccountsReceivable).
		Sub(s.ChangeInInventory).
		Add(s.ChangeInAccountsPayable)
	s.NetChangeInCash = s.CashFromOperations.Add(s.CashFromInvesting).Add(s.CashFromFinancing)

	if s.StartCash, err = l.cashThrough(start.AddDate(0, 0, -1)); err != nil {
		return CashFlowStatement{}, err
	}
	if s.EndCash, err = l.cashThrough(end); err != nil {
		return CashFlowStatement{}, err
	}
	return s, nil
}

func (l *ledger) cashThrough(day time.Time) (decimal.Decimal, error) {
	sums, err := l.roleTotals(l.through(day))
	if err != nil {
		return decimal.Zero, err
	}
	return sums[model.RoleCash], nil
}
