package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/dmitrijs2005/gophbudget/internal/client/reports"
)

var errUsageExport = errors.New("usage: export <file.csv|file.yaml|file.pdf> [period]")

func (a *App) buildReport(ctx context.Context, periodArg string) (reports.Report, error) {
	p, err := ParsePeriod(periodArg, a.now())
	if err != nil {
		return reports.Report{}, err
	}
	userID := a.userID()

	expenses, err := a.expenses.GetTransactions(ctx, userID, p)
	if err != nil {
		return reports.Report{}, err
	}
	incomes, err := a.incomes.GetTransactions(ctx, userID, p)
	if err != nil {
		return reports.Report{}, err
	}

	// budgets are stored per month, so a day or week still needs its month
	budgets, err := a.budgets.GetBudgets(ctx, userID, models.Monthly(p.Start))
	if err != nil {
		return reports.Report{}, err
	}
	if p.End.After(models.Monthly(p.Start).End) {
		budgets, err = a.budgets.GetBudgets(ctx, userID, p)
		if err != nil {
			return reports.Report{}, err
		}
	}

	return reports.Build(p, a.currency(ctx), expenses, incomes, budgets), nil
}

func (a *App) Report(ctx context.Context, args []string) error {
	var periodArg string
	if len(args) > 0 {
		periodArg = args[0]
	}
	r, err := a.buildReport(ctx, periodArg)
	if err != nil {
		return err
	}
	renderReport(a.out, r)
	return nil
}

func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsageExport
	}
	var periodArg string
	if len(args) > 1 {
		periodArg = args[1]
	}
	r, err := a.buildReport(ctx, periodArg)
	if err != nil {
		return err
	}
	path, err := reports.Export(r, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, green("Report written to"), path)
	return nil
}
