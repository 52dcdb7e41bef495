package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/dmitrijs2005/gophbudget/internal/client/services"
	"github.com/dmitrijs2005/gophbudget/internal/common"
)

var errUsageDelete = errors.New("usage: delete <budget|expense|income> <id>")

func (a *App) transactions(kind models.Kind) (services.TransactionService, error) {
	switch kind {
	case models.KindExpense:
		return a.expenses, nil
	case models.KindIncome:
		return a.incomes, nil
	}
	return nil, fmt.Errorf("unknown transaction kind %q", kind)
}

// currency is the display currency of the signed-in user.
func (a *App) currency(ctx context.Context) string {
	u, err := a.users.CurrentUser(ctx)
	if err != nil || u == nil || u.Currency == "" {
		return common.DefaultCurrency
	}
	return u.Currency
}

// List prints the budgets or transactions of a period, optionally narrowed
// to one category: "expenses 2025-10 food".
func (a *App) List(ctx context.Context, kind models.Kind, args []string) error {
	var periodArg, category string
	if len(args) > 0 {
		periodArg = args[0]
	}
	if len(args) > 1 {
		category = strings.Join(args[1:], " ")
	}

	p, err := ParsePeriod(periodArg, a.now())
	if err != nil {
		return err
	}
	userID, currency := a.userID(), a.currency(ctx)

	if kind == models.KindBudget {
		var items []models.Budget
		if category != "" {
			items, err = a.budgets.GetBudgetsByCategory(ctx, userID, category, p)
		} else {
			items, err = a.budgets.GetBudgets(ctx, userID, p)
		}
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(a.out, "No budgets for", p)
			return nil
		}
		renderTable(a.out, budgetTable(items, currency))
		return nil
	}

	txs, err := a.transactions(kind)
	if err != nil {
		return err
	}
	var items []models.Transaction
	if category != "" {
		items, err = txs.GetTransactionsByCategory(ctx, userID, category, p)
	} else {
		items, err = txs.GetTransactions(ctx, userID, p)
	}
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintf(a.out, "No %ss for %s\n", kind, p)
		return nil
	}
	renderTable(a.out, transactionTable(items, currency))
	return nil
}

func (a *App) AddBudget(ctx context.Context) error {
	category, err := GetSimpleText(a.reader, "-Enter category", a.out)
	if err != nil {
		return err
	}
	amount, err := GetAmount(a.reader, "-Enter monthly amount", a.out)
	if err != nil {
		return err
	}
	month, err := GetDate(a.reader, "-Enter any day of the month", a.out, a.now())
	if err != nil {
		return err
	}

	b, err := a.budgets.AddBudget(ctx, models.Budget{
		UserID:      a.userID(),
		Category:    category,
		Amount:      amount,
		PeriodStart: month,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, green("Budget added:"), b.ID)
	return nil
}

func (a *App) AddTransaction(ctx context.Context, kind models.Kind) error {
	txs, err := a.transactions(kind)
	if err != nil {
		return err
	}

	category, err := GetSimpleText(a.reader, "-Enter category", a.out)
	if err != nil {
		return err
	}
	amount, err := GetAmount(a.reader, "-Enter amount", a.out)
	if err != nil {
		return err
	}
	name, err := GetSimpleText(a.reader, "-Enter name", a.out)
	if err != nil {
		return err
	}
	description, err := GetSimpleText(a.reader, "-Enter description (optional)", a.out)
	if err != nil {
		return err
	}
	occurred, err := GetDate(a.reader, "-Enter date", a.out, a.now())
	if err != nil {
		return err
	}

	t, err := txs.AddTransaction(ctx, models.Transaction{
		UserID:      a.userID(),
		Kind:        kind,
		Category:    category,
		Amount:      amount,
		Name:        name,
		Description: description,
		OccurredAt:  occurred,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s\n", green(strings.ToUpper(string(kind[:1]))+string(kind[1:])+" added:"), t.ID)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsageDelete
	}
	kind, id := models.Kind(strings.ToLower(args[0])), args[1]

	var err error
	switch kind {
	case models.KindBudget:
		err = a.budgets.DeleteBudget(ctx, a.userID(), id)
	case models.KindExpense, models.KindIncome:
		txs, _ := a.transactions(kind)
		err = txs.DeleteTransaction(ctx, a.userID(), id)
	default:
		return errUsageDelete
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted", kind, id)
	return nil
}
