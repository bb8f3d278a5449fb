package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cleared-dev/reports/internal/accounts"
	"github.com/cleared-dev/reports/internal/model"
	"github.com/cleared-dev/reports/internal/runlog"
	"github.com/cleared-dev/reports/internal/statements"
)

const (
	formatText = "text"
	formatJSON = "json"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	numberStyle = cellStyle.Align(lipgloss.Right)
)

func checkFormat(format string) error {
	if format != formatText && format != formatJSON {
		return fmt.Errorf("unknown format %q (want %s or %s)", format, formatText, formatJSON)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTable returns a bordered table whose first column is left-aligned
// and the rest right-aligned.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})
}

type lineItem struct {
	label string
	value func(model.PeriodData) string
}

type section struct {
	title string
	lines []lineItem
}

var reportSections = []section{
	{"Income Statement", []lineItem{
		{"Services revenue", func(p model.PeriodData) string { return p.IncomeStatement.RevenueServices }},
		{"Sales revenue", func(p model.PeriodData) string { return p.IncomeStatement.RevenueSaleOfGoods }},
		{"Total income", func(p model.PeriodData) string { return p.IncomeStatement.TotalIncome }},
		{"Total expense", func(p model.PeriodData) string { return p.IncomeStatement.TotalExpense }},
		{"Net income", func(p model.PeriodData) string { return p.IncomeStatement.NetIncome }},
	}},
	{"Balance Sheet", []lineItem{
		{"Cash", func(p model.PeriodData) string { return p.BalanceSheet.Cash }},
		{"Accounts receivable", func(p model.PeriodData) string { return p.BalanceSheet.AccountsReceivable }},
		{"Inventory", func(p model.PeriodData) string { return p.BalanceSheet.Inventory }},
		{"Total assets", func(p model.PeriodData) string { return p.BalanceSheet.TotalAssets }},
		{"Accounts payable", func(p model.PeriodData) string { return p.BalanceSheet.AccountsPayable }},
		{"Total liabilities", func(p model.PeriodData) string { return p.BalanceSheet.TotalLiabilities }},
		{"Share capital", func(p model.PeriodData) string { return p.BalanceSheet.ShareCapital }},
		{"Retained earnings", func(p model.PeriodData) string { return p.BalanceSheet.RetainedEarnings }},
		{"Total equity", func(p model.PeriodData) string { return p.BalanceSheet.TotalEquity }},
	}},
	{"Cash Flow", []lineItem{
		{"Cash from operations", func(p model.PeriodData) string { return p.CashFlow.CashFromOperations }},
		{"Capital expenditures", func(p model.PeriodData) string { return p.CashFlow.CapitalExpenditures }},
		{"Issuance of debt", func(p model.PeriodData) string { return p.CashFlow.IssuanceOfDebt }},
		{"Net change in cash", func(p model.PeriodData) string { return p.CashFlow.NetChangeInCash }},
		{"Ending cash", func(p model.PeriodData) string { return p.CashFlow.EndingCash }},
	}},
}

func renderReport(w io.Writer, r model.ReportData) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s (%s)", r.CompanyName, r.Currency)))

	if len(r.Periods) == 1 && r.Periods[0].Label == model.NoDataLabel {
		fmt.Fprintln(w, dimStyle.Render("No data"))
		return
	}

	headers := []string{""}
	for _, p := range r.Periods {
		headers = append(headers, p.Label)
	}
	t := newTable(headers...)
	for _, s := range reportSections {
		t.Row(append([]string{s.title}, make([]string, len(r.Periods))...)...)
		for _, line := range s.lines {
			row := []string{"  " + line.label}
			for _, p := range r.Periods {
				row = append(row, line.value(p))
			}
			t.Row(row...)
		}
	}
	fmt.Fprintln(w, t.Render())

	if ids := r.Diagnostics.UncategorizedTransactionIDs; len(ids) > 0 {
		fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d transactions posted to unknown accounts: %s", len(ids), strings.Join(ids, ", "))))
	}
}

// renderReports prints reports keyed by entity in entity order.
func renderReports(w io.Writer, reports map[string]model.ReportData) {
	keys := make([]string, 0, len(reports))
	for k := range reports {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			fmt.Fprintln(w)
		}
		renderReport(w, reports[k])
	}
}

func renderCashFlow(w io.Writer, cf statements.CashFlowStatement) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Statement of cash flows, %s to %s", cf.StartDate, cf.EndDate)))

	t := newTable("", "Amount")
	rows := []struct {
		label string
		value string
	}{
		{"Net income", cf.NetIncome.StringFixed(2)},
		{"Depreciation and amortization", cf.DepreciationAndAmortization.StringFixed(2)},
		{"Change in accounts receivable", cf.ChangeInAccountsReceivable.StringFixed(2)},
		{"Change in inventory", cf.ChangeInInventory.StringFixed(2)},
		{"Change in accounts payable", cf.ChangeInAccountsPayable.StringFixed(2)},
		{"Cash from operations", cf.CashFromOperations.StringFixed(2)},
		{"Cash from investing", cf.CashFromInvesting.StringFixed(2)},
		{"Cash from financing", cf.CashFromFinancing.StringFixed(2)},
		{"Net change in cash", cf.NetChangeInCash.StringFixed(2)},
		{"Cash at start", cf.StartCash.StringFixed(2)},
		{"Cash at end", cf.EndCash.StringFixed(2)},
	}
	for _, r := range rows {
		t.Row(r.label, r.value)
	}
	fmt.Fprintln(w, t.Render())
}

func renderTree(w io.Writer, forest []*accounts.Node) {
	t := newTable("Account", "Type", "Total")
	var walk func(n *accounts.Node)
	walk = func(n *accounts.Node) {
		label := strings.Repeat("  ", n.Depth) + n.Name
		if n.Number != "" {
			label = strings.Repeat("  ", n.Depth) + n.Number + " " + n.Name
		}
		t.Row(label, string(n.Type), n.Total.StringFixed(2))
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, root := range forest {
		walk(root)
	}
	fmt.Fprintln(w, t.Render())
}

func renderHistory(w io.Writer, entries []runlog.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No runs recorded."))
		return
	}
	t := newTable("Time", "Command", "Entity", "Subject", "Count", "Commit")
	for _, e := range entries {
		t.Row(
			e.Timestamp.Local().Format("2006-01-02 15:04"),
			e.Command,
			e.Entity,
			e.Subject,
			fmt.Sprint(e.Count),
			e.CommitHash,
		)
	}
	fmt.Fprintln(w, t.Render())
}
