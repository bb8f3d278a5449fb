package statements

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reports/internal/accounts"
	"github.com/cleared-dev/reports/internal/model"
)

// Placeholder metadata consumed by the narrative layer.
var (
	DefaultIndustries  = []string{"Professional Services"}
	DefaultScenario    = "Base Case"
	DefaultCompetitors = []string{}
)

// accumulator is carried from one month to the next.
type accumulator struct {
	cumulative       []model.Transaction
	retainedEarnings decimal.Decimal
}

// Transform buckets txns into calendar months and computes each month's
// income statement, cumulative balance sheet and cash flow.
//
// An empty ledger yields one placeholder period labelled "No Data". Months
// without transactions are omitted unless opts.FillEmptyMonths is set.
// Transactions posted to unknown accounts are listed in the diagnostics.
func Transform(txns []model.Transaction, accts []model.Account, companyName, currency string, opts Options) (model.ReportData, error) {
	report := model.ReportData{
		CompanyName: companyName,
		Currency:    currency,
		PeriodType:  model.PeriodTypeMonthly,
		Industries:  append([]string(nil), DefaultIndustries...),
		Scenario:    DefaultScenario,
		Competitors: append([]string{}, DefaultCompetitors...),
	}

	if len(txns) == 0 {
		report.Periods = []model.PeriodData{{Label: model.NoDataLabel}}
		return report, nil
	}

	l, err := newLedger(txns, accts, opts)
	if err != nil {
		return model.ReportData{}, err
	}

	keys, buckets := bucketByMonth(l.txns)
	if opts.FillEmptyMonths {
		keys = fillMonths(keys)
	}

	periods := make([]model.PeriodData, 0, len(keys))
	acc := accumulator{retainedEarnings: decimal.Zero}
	for _, key := range keys {
		var p model.PeriodData
		p, acc, err = l.period(key, buckets[key], acc)
		if err != nil {
			return model.ReportData{}, err
		}
		periods = append(periods, p)
	}

	report.Periods = periods
	report.Diagnostics.UncategorizedTransactionIDs = accounts.Uncategorized(accts, txns)
	return report, nil
}

// bucketByMonth groups sorted txns by "YYYY-MM". Each bucket is a
// capacity-capped subslice of txns.
func bucketByMonth(txns []model.Transaction) ([]string, map[string][]model.Transaction) {
	var keys []string
	buckets := make(map[string][]model.Transaction)
	start := 0
	for i := 1; i <= len(txns); i++ {
		if i < len(txns) && txns[i].MonthKey() == txns[start].MonthKey() {
			continue
		}
		key := txns[start].MonthKey()
		keys = append(keys, key)
		buckets[key] = txns[start:i:i]
		start = i
	}
	sort.Strings(keys)
	return keys, buckets
}

// fillMonths returns every month key from the first to the last of keys.
func fillMonths(keys []string) []string {
	if len(keys) < 2 {
		return keys
	}
	first, _ := time.Parse("2006-01", keys[0])
	last, _ := time.Parse("2006-01", keys[len(keys)-1])

	var all []string
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		all = append(all, m.Format("2006-01"))
	}
	return all
}

func monthBounds(key string) (time.Time, time.Time) {
	start, _ := time.Parse("2006-01", key)
	return start, start.AddDate(0, 1, -1)
}

// period computes one month and returns the accumulator for the next.
func (l *ledger) period(key string, month []model.Transaction, acc accumulator) (model.PeriodData, accumulator, error) {
	start, end := monthBounds(key)

	incomeTree, err := l.forest(month, model.AccountTypeIncome)
	if err != nil {
		return model.PeriodData{}, acc, err
	}
	expenseTree, err := l.forest(month, model.AccountTypeExpense)
	if err != nil {
		return model.PeriodData{}, acc, err
	}

	totalIncome := accounts.SumRoots(incomeTree)
	totalExpense := accounts.SumRoots(expenseTree).Abs()
	netIncome := totalIncome.Sub(totalExpense)

	revenue := l.rolesIn(incomeTree)
	services := revenue[model.RoleServiceRevenue]
	sales := revenue[model.RoleSalesRevenue]

	next := accumulator{
		cumulative:       append(acc.cumulative[:len(acc.cumulative):len(acc.cumulative)], month...),
		retainedEarnings: acc.retainedEarnings.Add(netIncome),
	}

	assetTree, err := l.forest(next.cumulative, model.AccountTypeAsset)
	if err != nil {
		return model.PeriodData{}, acc, err
	}
	liabilityTree, err := l.forest(next.cumulative, model.AccountTypeLiability)
	if err != nil {
		return model.PeriodData{}, acc, err
	}
	equityTree, err := l.forest(next.cumulative, model.AccountTypeEquity)
	if err != nil {
		return model.PeriodData{}, acc, err
	}
	assets := l.rolesIn(assetTree)
	liabilities := l.rolesIn(liabilityTree)
	totalEquity := accounts.SumRoots(equityTree)

	cf, err := l.cashFlows(start, end)
	if err != nil {
		return model.PeriodData{}, acc, err
	}

	p := model.PeriodData{
		Key:       key,
		Label:     start.Format("Jan 2006"),
		StartDate: start.Format(model.DateFormat),
		EndDate:   end.Format(model.DateFormat),
		IncomeStatement: model.IncomeStatement{
			RevenueServices:    money(services),
			RevenueSaleOfGoods: money(sales),
			OtherRevenue:       money(totalIncome.Sub(services).Sub(sales)),
			TotalIncome:        money(totalIncome),
			OtherGAndA:         money(totalExpense),
			TotalExpense:       money(totalExpense),
			NetIncome:          money(netIncome),
		},
		BalanceSheet: model.BalanceSheet{
			Cash:               money(assets[model.RoleCash]),
			AccountsReceivable: money(assets[model.RoleAccountsReceivable]),
			Inventory:          money(assets[model.RoleInventory]),
			TotalAssets:        money(accounts.SumRoots(assetTree)),
			AccountsPayable:    money(liabilities[model.RoleAccountsPayable]),
			TotalLiabilities:   money(accounts.SumRoots(liabilityTree)),
			ShareCapital:       money(totalEquity.Sub(next.retainedEarnings)),
			RetainedEarnings:   money(next.retainedEarnings),
			TotalEquity:        money(totalEquity),
		},
		CashFlow: model.CashFlow{
			NetIncome:                money(cf.NetIncome),
			DepreciationAmortization: money(cf.DepreciationAndAmortization),
			ChangesInWorkingCapital:  money(cf.ChangesInWorkingCapital()),
			CashFromOperations:       money(cf.CashFromOperations),
			CapitalExpenditures:      money(cf.CashFromInvesting),
			IssuanceOfDebt:           money(cf.CashFromFinancing),
			NetChangeInCash:          money(cf.NetChangeInCash),
			BeginningCash:            money(cf.StartCash),
			EndingCash:               money(cf.EndCash),
		},
	}
	return p, next, nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
