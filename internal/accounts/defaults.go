package accounts

import "github.com/cleared-dev/reports/internal/model"

// DefaultChart returns the default chart of accounts for an entity type.
func DefaultChart(entityType string) []model.Account {
	switch entityType {
	case "llc_single_member":
		return llcSingleMemberChart()
	default:
		return llcSingleMemberChart()
	}
}

func llcSingleMemberChart() []model.Account {
	return []model.Account{
		{ID: "1000", Number: "1000", Name: "Current Assets", Type: model.AccountTypeAsset},
		{ID: "1010", Number: "1010", Name: "Business Checking", Type: model.AccountTypeAsset, Role: model.RoleCash, ParentID: "1000", Description: "Primary checking account"},
		{ID: "1020", Number: "1020", Name: "Business Savings", Type: model.AccountTypeAsset, Role: model.RoleCash, ParentID: "1000", Description: "Savings account"},
		{ID: "1100", Number: "1100", Name: "Accounts Receivable", Type: model.AccountTypeAsset, ParentID: "1000", Description: "Invoices awaiting payment"},
		{ID: "1200", Number: "1200", Name: "Inventory", Type: model.AccountTypeAsset, ParentID: "1000", Description: "Goods held for sale"},
		{ID: "1500", Number: "1500", Name: "Equipment", Type: model.AccountTypeAsset, Description: "Computers and office equipment"},
		{ID: "2000", Number: "2000", Name: "Current Liabilities", Type: model.AccountTypeLiability},
		{ID: "2010", Number: "2010", Name: "Credit Card", Type: model.AccountTypeLiability, ParentID: "2000", Description: "Business credit card"},
		{ID: "2100", Number: "2100", Name: "Accounts Payable", Type: model.AccountTypeLiability, ParentID: "2000", Description: "Bills awaiting payment"},
		{ID: "2500", Number: "2500", Name: "Loans Payable", Type: model.AccountTypeLiability, Role: model.RoleFinancing, Description: "Term loans and lines of credit"},
		{ID: "3000", Number: "3000", Name: "Owner's Equity", Type: model.AccountTypeEquity, Description: "Owner's equity"},
		{ID: "3010", Number: "3010", Name: "Owner Contributions", Type: model.AccountTypeEquity, Role: model.RoleFinancing, ParentID: "3000", Description: "Capital contributed by the owner"},
		{ID: "4000", Number: "4000", Name: "Revenue", Type: model.AccountTypeIncome},
		{ID: "4010", Number: "4010", Name: "Consulting Revenue", Type: model.AccountTypeIncome, ParentID: "4000"},
		{ID: "4020", Number: "4020", Name: "Product Sales", Type: model.AccountTypeIncome, ParentID: "4000"},
		{ID: "5000", Number: "5000", Name: "Operating Expenses", Type: model.AccountTypeExpense},
		{ID: "5010", Number: "5010", Name: "Advertising & Marketing", Type: model.AccountTypeExpense, ParentID: "5000", Description: "Advertising costs"},
		{ID: "5020", Number: "5020", Name: "Software & SaaS", Type: model.AccountTypeExpense, ParentID: "5000", Description: "Software subscriptions"},
		{ID: "5030", Number: "5030", Name: "Office Supplies", Type: model.AccountTypeExpense, ParentID: "5000", Description: "Office supplies and expenses"},
		{ID: "5040", Number: "5040", Name: "Professional Services", Type: model.AccountTypeExpense, ParentID: "5000", Description: "Legal, accounting, consulting"},
		{ID: "5050", Number: "5050", Name: "Shipping & Postage", Type: model.AccountTypeExpense, ParentID: "5000", Description: "Postage and shipping costs"},
		{ID: "5090", Number: "5090", Name: "Depreciation", Type: model.AccountTypeExpense, ParentID: "5000", Description: "Depreciation of equipment"},
	}
}
