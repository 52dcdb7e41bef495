package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/dmitrijs2005/gophbudget/internal/client/reports"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var (
	green  = color.New(color.FgGreen, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow, color.Bold).SprintFunc()
	red    = color.New(color.FgRed, color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
)

var errSyncDisabled = errors.New("offline writes are dropped, nothing to sync")

func printBanner(w io.Writer) {
	fmt.Fprintln(w, cyan("gophbudget")+" - personal finances, online or not")
	fmt.Fprintln(w, "Type 'help' for the list of commands.")
}

func modeColor(m Mode) func(a ...any) string {
	if m == ModeOnline {
		return green
	}
	return yellow
}

func renderTable(w io.Writer, data pterm.TableData) {
	s, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(data).
		Srender()
	if err != nil {
		fmt.Fprintln(w, red(err.Error()))
		return
	}
	fmt.Fprintln(w, s)
}

func syncMark(synced bool) string {
	if synced {
		return ""
	}
	return "*"
}

func budgetTable(items []models.Budget, currency string) pterm.TableData {
	data := pterm.TableData{{"ID", "Month", "Category", "Amount", "Remaining", ""}}
	for _, b := range items {
		data = append(data, []string{
			b.ID,
			b.PeriodStart.Format("2006-01"),
			b.Category,
			models.FormatAmount(b.Amount, currency),
			models.FormatAmount(b.RemainingAmount, currency),
			syncMark(b.Synced),
		})
	}
	return data
}

func transactionTable(items []models.Transaction, currency string) pterm.TableData {
	data := pterm.TableData{{"ID", "Date", "Category", "Name", "Amount", "Receipt", ""}}
	for _, t := range items {
		receipt := ""
		if t.ReceiptRef != "" {
			receipt = "yes"
		}
		data = append(data, []string{
			t.ID,
			t.OccurredAt.Format(time.DateOnly),
			t.Category,
			t.Name,
			models.FormatAmount(t.Amount, currency),
			receipt,
			syncMark(t.Synced),
		})
	}
	return data
}

func renderReport(w io.Writer, r reports.Report) {
	fmt.Fprintln(w, cyan("Report for "+r.Period.String()))
	renderTable(w, pterm.TableData{
		{"Income", "Expense", "Balance"},
		{
			models.FormatAmount(r.Income, r.Currency),
			models.FormatAmount(r.Expense, r.Currency),
			models.FormatAmount(r.Balance, r.Currency),
		},
	})

	if len(r.ByCategory) > 0 {
		data := pterm.TableData{{"Category", "Spent"}}
		for _, c := range r.ByCategory {
			data = append(data, []string{c.Category, models.FormatAmount(c.Amount, r.Currency)})
		}
		renderTable(w, data)
	}

	if len(r.Budgets) > 0 {
		data := pterm.TableData{{"Category", "Budget", "Spent", "Remaining"}}
		for _, b := range r.Budgets {
			remaining := models.FormatAmount(b.Remaining, r.Currency)
			if b.Exceeded {
				remaining = red(remaining)
			}
			data = append(data, []string{
				b.Category,
				models.FormatAmount(b.Budget, r.Currency),
				models.FormatAmount(b.Spent, r.Currency),
				remaining,
			})
		}
		renderTable(w, data)
	}
}
