// Package reports aggregates the transactions and budgets of a period and
// exports the result.
package reports

import (
	"sort"
	"strings"

	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/shopspring/decimal"
)

type CategoryTotal struct {
	Category string          `yaml:"category"`
	Amount   decimal.Decimal `yaml:"amount"`
}

type BudgetUsage struct {
	Category  string          `yaml:"category"`
	Budget    decimal.Decimal `yaml:"budget"`
	Spent     decimal.Decimal `yaml:"spent"`
	Remaining decimal.Decimal `yaml:"remaining"`
	Exceeded  bool            `yaml:"exceeded"`
}

type Report struct {
	Period     models.Period   `yaml:"-"`
	Currency   string          `yaml:"currency"`
	Income     decimal.Decimal `yaml:"income"`
	Expense    decimal.Decimal `yaml:"expense"`
	Balance    decimal.Decimal `yaml:"balance"`
	ByCategory []CategoryTotal `yaml:"expenses_by_category"`
	Budgets    []BudgetUsage   `yaml:"budgets"`
}

// Build totals the transactions that fall inside p. Expenses are grouped by
// category, largest first; each budget is charged with the expenses of its
// category in p.
func Build(p models.Period, currency string, expenses, incomes []models.Transaction, budgets []models.Budget) Report {
	r := Report{
		Period:     p,
		Currency:   currency,
		Income:     decimal.Zero,
		Expense:    decimal.Zero,
		ByCategory: []CategoryTotal{},
		Budgets:    []BudgetUsage{},
	}

	for _, t := range incomes {
		if p.Contains(t.OccurredAt) {
			r.Income = r.Income.Add(t.Amount)
		}
	}

	spent := map[string]decimal.Decimal{}
	for _, t := range expenses {
		if !p.Contains(t.OccurredAt) {
			continue
		}
		r.Expense = r.Expense.Add(t.Amount)
		key := categoryKey(t.Category)
		spent[key] = spent[key].Add(t.Amount)
	}
	r.Balance = r.Income.Sub(r.Expense)

	for _, t := range expenses {
		key := categoryKey(t.Category)
		if amount, ok := spent[key]; ok {
			r.ByCategory = append(r.ByCategory, CategoryTotal{Category: t.Category, Amount: amount})
			delete(spent, key)
		}
	}
	sort.SliceStable(r.ByCategory, func(i, j int) bool {
		if c := r.ByCategory[i].Amount.Cmp(r.ByCategory[j].Amount); c != 0 {
			return c > 0
		}
		return r.ByCategory[i].Category < r.ByCategory[j].Category
	})

	totals := make(map[string]decimal.Decimal, len(r.ByCategory))
	for _, c := range r.ByCategory {
		totals[categoryKey(c.Category)] = c.Amount
	}
	for _, b := range budgets {
		if !p.Contains(b.PeriodStart) {
			continue
		}
		used := totals[categoryKey(b.Category)]
		r.Budgets = append(r.Budgets, BudgetUsage{
			Category:  b.Category,
			Budget:    b.Amount,
			Spent:     used,
			Remaining: b.Amount.Sub(used),
			Exceeded:  used.GreaterThan(b.Amount),
		})
	}
	sort.SliceStable(r.Budgets, func(i, j int) bool { return r.Budgets[i].Category < r.Budgets[j].Category })

	return r
}

func categoryKey(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}
