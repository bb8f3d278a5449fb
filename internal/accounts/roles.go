package accounts

import (
	"strings"

	"github.com/cleared-dev/reports/internal/model"
)

// rolePriority is the order name patterns are tried in. Financing comes
// before payable so "Loans Payable" is not treated as trade payables.
var rolePriority = []model.AccountRole{
	model.RoleDepreciation,
	model.RoleCapitalExpenditure,
	model.RoleFinancing,
	model.RoleAccountsReceivable,
	model.RoleAccountsPayable,
	model.RoleInventory,
	model.RoleCash,
	model.RoleServiceRevenue,
	model.RoleSalesRevenue,
}

var defaultPatterns = map[model.AccountRole][]string{
	model.RoleDepreciation:       {"depreciation", "amortization"},
	model.RoleCapitalExpenditure: {"capital expenditure", "capex", "equipment", "property", "fixed asset"},
	model.RoleFinancing:          {"loan", "debt", "share capital", "common stock", "owner contribution", "dividend"},
	model.RoleAccountsReceivable: {"receivable"},
	model.RoleAccountsPayable:    {"payable"},
	model.RoleInventory:          {"inventory"},
	model.RoleCash:               {"bank", "cash"},
	model.RoleServiceRevenue:     {"consulting"},
	model.RoleSalesRevenue:       {"sales"},
}

// Classifier resolves the statement role of an account: the explicit Role
// when set, otherwise the first name pattern that matches.
type Classifier struct {
	patterns map[model.AccountRole][]string
}

// NewClassifier returns a Classifier using the built-in name patterns plus
// extra patterns per role. Matching is case-insensitive.
func NewClassifier(extra map[model.AccountRole][]string) *Classifier {
	patterns := make(map[model.AccountRole][]string, len(defaultPatterns))
	for role, pats := range defaultPatterns {
		patterns[role] = append([]string(nil), pats...)
	}
	for role, pats := range extra {
		for _, p := range pats {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				patterns[role] = append(patterns[role], p)
			}
		}
	}
	return &Classifier{patterns: patterns}
}

// DefaultClassifier uses the built-in name patterns only.
var DefaultClassifier = NewClassifier(nil)

// Role returns the role of acct.
func (c *Classifier) Role(acct model.Account) model.AccountRole {
	if acct.Role != model.RoleNone {
		return acct.Role
	}
	return c.Infer(acct.Name)
}

// Infer matches an account name against the name patterns.
func (c *Classifier) Infer(name string) model.AccountRole {
	lower := strings.ToLower(name)
	for _, role := range rolePriority {
		for _, p := range c.patterns[role] {
			if strings.Contains(lower, p) {
				return role
			}
		}
	}
	return model.RoleNone
}

// Roles maps account IDs to their resolved roles.
func (c *Classifier) Roles(accts []model.Account) map[string]model.AccountRole {
	roles := make(map[string]model.AccountRole, len(accts))
	for _, a := range accts {
		roles[a.ID] = c.Role(a)
	}
	return roles
}
