package model

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
)

// AccountTypes lists every account type in statement order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeIncome,
	AccountTypeExpense,
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	for _, at := range AccountTypes {
		if at == t {
			return true
		}
	}
	return false
}

// AccountRole tags an account with the statement line it feeds.
// An empty role means the role is inferred from the account name.
type AccountRole string

const (
	RoleNone               AccountRole = ""
	RoleCash               AccountRole = "cash"
	RoleAccountsReceivable AccountRole = "accounts_receivable"
	RoleInventory          AccountRole = "inventory"
	RoleAccountsPayable    AccountRole = "accounts_payable"
	RoleDepreciation       AccountRole = "depreciation"
	RoleCapitalExpenditure AccountRole = "capital_expenditure"
	RoleFinancing          AccountRole = "financing"
	RoleServiceRevenue     AccountRole = "service_revenue"
	RoleSalesRevenue       AccountRole = "sales_revenue"
)

// AccountRoles lists every non-empty role.
var AccountRoles = []AccountRole{
	RoleCash,
	RoleAccountsReceivable,
	RoleInventory,
	RoleAccountsPayable,
	RoleDepreciation,
	RoleCapitalExpenditure,
	RoleFinancing,
	RoleServiceRevenue,
	RoleSalesRevenue,
}

// Valid reports whether r is empty or a known role.
func (r AccountRole) Valid() bool {
	if r == RoleNone {
		return true
	}
	for _, known := range AccountRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Account represents a row in chart-of-accounts.csv.
type Account struct {
	ID          string      `json:"id"`
	Number      string      `json:"accountNumber,omitempty"`
	Name        string      `json:"name"`
	Type        AccountType `json:"type"`
	Role        AccountRole `json:"role,omitempty"`
	ParentID    string      `json:"parentId,omitempty"` // "" = top-level
	Description string      `json:"description,omitempty"`
	IsArchived  bool        `json:"isArchived,omitempty"`
}
