package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodTypeMonthly is the only bucketing the transformer produces.
const PeriodTypeMonthly = "Monthly"

// NoDataLabel labels the placeholder period emitted for an empty ledger.
const NoDataLabel = "No Data"

// IncomeStatement holds flow figures for one period.
// Monetary fields are strings so editing surfaces can round-trip them;
// use ParseField to read them back.
type IncomeStatement struct {
	RevenueServices    string `json:"revenueServices"`
	RevenueSaleOfGoods string `json:"revenueSaleOfGoods"`
	OtherRevenue       string `json:"otherRevenue"`
	TotalIncome        string `json:"totalIncome"`
	OtherGAndA         string `json:"otherGAndA"`
	TotalExpense       string `json:"totalExpense"`
	NetIncome          string `json:"netIncomeForPeriod"`
}

// BalanceSheet holds point-in-time figures cumulative through period end.
type BalanceSheet struct {
	Cash               string `json:"cash"`
	AccountsReceivable string `json:"accountsReceivable"`
	Inventory          string `json:"inventory"`
	TotalAssets        string `json:"totalAssets"`
	AccountsPayable    string `json:"accountsPayable"`
	TotalLiabilities   string `json:"totalLiabilities"`
	ShareCapital       string `json:"shareCapital"`
	RetainedEarnings   string `json:"retainedEarnings"`
	TotalEquity        string `json:"totalEquity"`
}

// CashFlow holds for-period cash flow figures.
type CashFlow struct {
	NetIncome                string `json:"netIncome"`
	DepreciationAmortization string `json:"depreciationAmortization"`
	ChangesInWorkingCapital  string `json:"changesInWorkingCapital"`
	CashFromOperations       string `json:"cashFromOperations"`
	CapitalExpenditures      string `json:"capitalExpenditures"`
	IssuanceOfDebt           string `json:"issuanceOfDebt"`
	NetChangeInCash          string `json:"netChangeInCash"`
	BeginningCash            string `json:"beginningCash"`
	EndingCash               string `json:"endingCash"`
}

// Segment is an optional per-segment breakdown filled in by editors.
type Segment struct {
	Name            string `json:"name"`
	Revenue         string `json:"revenue"`
	OperatingIncome string `json:"operatingIncome"`
}

// ESG holds optional sustainability figures filled in by editors.
type ESG struct {
	CarbonEmissions   string `json:"carbonEmissions"`
	EnergyConsumption string `json:"energyConsumption"`
	WaterUsage        string `json:"waterUsage"`
}

// Budget holds optional planned figures filled in by editors.
type Budget struct {
	Revenue  string `json:"revenue"`
	Expenses string `json:"expenses"`
}

// PeriodData is one time-bucketed snapshot.
type PeriodData struct {
	Key             string          `json:"key"`
	Label           string          `json:"periodLabel"`
	StartDate       string          `json:"startDate"`
	EndDate         string          `json:"endDate"`
	IncomeStatement IncomeStatement `json:"incomeStatement"`
	BalanceSheet    BalanceSheet    `json:"balanceSheet"`
	CashFlow        CashFlow        `json:"cashFlow"`
	Segments        []Segment       `json:"segments,omitempty"`
	ESG             *ESG            `json:"esg,omitempty"`
	Budget          *Budget         `json:"budget,omitempty"`
}

// Diagnostics carries non-fatal data-integrity findings.
type Diagnostics struct {
	UncategorizedTransactionIDs []string `json:"uncategorizedTransactionIds,omitempty"`
}

// ReportData is the sequence of periods handed to the narrative layer.
type ReportData struct {
	ReportID    string       `json:"reportId,omitempty"`
	GeneratedAt time.Time    `json:"generatedAt,omitzero"`
	CompanyName string       `json:"companyName"`
	Currency    string       `json:"currency"`
	PeriodType  string       `json:"periodType"`
	Periods     []PeriodData `json:"periods"`
	Industries  []string     `json:"industries"`
	Scenario    string       `json:"scenario"`
	Competitors []string     `json:"competitors"`
	Diagnostics Diagnostics  `json:"diagnostics"`
}

// ParseField parses a user-editable monetary string.
// A blank field is zero; anything else must be numeric.
func ParseField(name, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s %q: %w", name, value, err)
	}
	return d, nil
}
