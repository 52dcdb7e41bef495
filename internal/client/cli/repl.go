package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophbudget/internal/client/models"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	LoginWithGoogle(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	List(ctx context.Context, kind models.Kind, args []string) error
	AddBudget(ctx context.Context) error
	AddTransaction(ctx context.Context, kind models.Kind) error
	Delete(ctx context.Context, args []string) error
	Report(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Attach(ctx context.Context, args []string) error
	Receipt(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	Status(ctx context.Context) error
	Sync(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, google [id-token], status, exit"
	helpLoggedIn  = "Available commands: budgets|expenses|incomes [period], addbudget, addexpense, addincome,\n" +
		"  delete <budget|expense|income> <id>, report [period], export <file.csv|yaml|pdf> [period],\n" +
		"  attach <expense|income> <id> <file>, receipt <ref>, profile [name|currency <value>],\n" +
		"  status, sync, logout, exit\n" +
		"Periods: 2025, 2025-10, 2025-10-05, day, week, month, year (default: this month)"
)

// runREPL starts a read-eval-print loop for the gophbudget CLI.
//
// It reads a line from the scanner, takes the first token as the command
// and hands the rest to the matching method on a. Commands that need a
// session are refused while signed out. The loop exits on scanner EOF, on
// "exit"/"quit" or when ctx is done.
//
// Errors returned by command handlers are printed and otherwise ignored,
// so a failing command never ends the session.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("gb %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		if err := dispatch(ctx, a, cmd, args); err != nil {
			printlnFn(red("error:"), err)
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			printlnFn(helpLoggedIn)
		} else {
			printlnFn(helpLoggedOut)
		}
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "google":
		return a.LoginWithGoogle(ctx, args)
	case "status":
		return a.Status(ctx)
	}

	if !isSessionCommand(cmd) {
		printlnFn("Unknown command:", cmd)
		return nil
	}
	if !a.isLoggedIn() {
		printlnFn("Please login or register first.")
		return nil
	}

	switch cmd {
	case "budgets", "b":
		return a.List(ctx, models.KindBudget, args)
	case "expenses", "e":
		return a.List(ctx, models.KindExpense, args)
	case "incomes", "i":
		return a.List(ctx, models.KindIncome, args)
	case "addbudget":
		return a.AddBudget(ctx)
	case "addexpense":
		return a.AddTransaction(ctx, models.KindExpense)
	case "addincome":
		return a.AddTransaction(ctx, models.KindIncome)
	case "delete", "rm":
		return a.Delete(ctx, args)
	case "report":
		return a.Report(ctx, args)
	case "export":
		return a.Export(ctx, args)
	case "attach":
		return a.Attach(ctx, args)
	case "receipt":
		return a.Receipt(ctx, args)
	case "profile":
		return a.Profile(ctx, args)
	case "sync":
		return a.Sync(ctx)
	case "logout":
		return a.Logout(ctx)
	}
	return nil
}

func isSessionCommand(cmd string) bool {
	switch cmd {
	case "budgets", "b", "expenses", "e", "incomes", "i",
		"addbudget", "addexpense", "addincome", "delete", "rm",
		"report", "export", "attach", "receipt", "profile", "sync", "logout":
		return true
	}
	return false
}
