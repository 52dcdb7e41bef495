package cli

import (
	"bufio"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	return f.record("register", nil)
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) LoginWithGoogle(ctx context.Context, args []string) error {
	f.loggedIn = true
	return f.record("google", args)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) List(ctx context.Context, kind models.Kind, args []string) error {
	return f.record("list:"+string(kind), args)
}
func (f *fakeExec) AddBudget(ctx context.Context) error { return f.record("addbudget", nil) }
func (f *fakeExec) AddTransaction(ctx context.Context, kind models.Kind) error {
	return f.record("add:"+string(kind), nil)
}
func (f *fakeExec) Delete(ctx context.Context, args []string) error  { return f.record("delete", args) }
func (f *fakeExec) Report(ctx context.Context, args []string) error  { return f.record("report", args) }
func (f *fakeExec) Export(ctx context.Context, args []string) error  { return f.record("export", args) }
func (f *fakeExec) Attach(ctx context.Context, args []string) error  { return f.record("attach", args) }
func (f *fakeExec) Receipt(ctx context.Context, args []string) error { return f.record("receipt", args) }
func (f *fakeExec) Profile(ctx context.Context, args []string) error { return f.record("profile", args) }
func (f *fakeExec) Status(ctx context.Context) error                 { return f.record("status", nil) }
func (f *fakeExec) Sync(ctx context.Context) error {
	f.calls = append(f.calls, "sync")
	return errors.New("offline")
}

func silence(t *testing.T) *[]string {
	t.Helper()
	var printed []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = strings.TrimSpace(strings.ReplaceAll(toString(v), "\n", " "))
		}
		printed = append(printed, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &printed
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case error:
		return x.Error()
	}
	return ""
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	silence(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"budgets",
		"login",
		"help",
		"expenses 2025-10 food",
		"incomes",
		"addexpense",
		"addincome",
		"addbudget",
		"delete expense 42",
		"report year",
		"export out.pdf 2025",
		"sync",
		"foobar",
		"logout",
		"exit",
		"status",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewScanner(input))

	assert.Equal(t, []string{
		"login", "list:expense", "list:income", "add:expense", "add:income", "addbudget",
		"delete", "report", "export", "sync", "logout",
	}, exec.calls)
	assert.Equal(t, []string{"2025-10", "food"}, exec.args[1])
	assert.Equal(t, []string{"expense", "42"}, exec.args[6])
	assert.Equal(t, []string{"out.pdf", "2025"}, exec.args[8])
}

func TestRunREPL_SessionCommandsNeedLogin(t *testing.T) {
	printed := silence(t)

	input := strings.NewReader("budgets\nattach expense 1 r.png\nstatus\ngoogle tok\nquit\n")
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(input))

	assert.Equal(t, []string{"status", "google"}, exec.calls)
	assert.Equal(t, []string{"tok"}, exec.args[1])
	assert.Contains(t, *printed, "Please login or register first.")
	assert.Contains(t, *printed, "Bye!")
}

func TestRunREPL_StopsOnEOFAndCancel(t *testing.T) {
	silence(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader("budgets")))
	assert.Equal(t, []string{"list:budget"}, exec.calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec = &fakeExec{loggedIn: true}
	runREPL(ctx, exec, func() string { return "s" }, bufio.NewScanner(strings.NewReader("budgets\n")))
	assert.Empty(t, exec.calls)
}
