package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/changes"
	"github.com/dmitrijs2005/gophbudget/internal/client/client"
	"github.com/dmitrijs2005/gophbudget/internal/client/config"
	"github.com/dmitrijs2005/gophbudget/internal/client/connectivity"
	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/dmitrijs2005/gophbudget/internal/client/offlinefirst"
	"github.com/dmitrijs2005/gophbudget/internal/client/session"
	"github.com/dmitrijs2005/gophbudget/internal/client/services"
	"github.com/dmitrijs2005/gophbudget/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Session is the part of session.Session the commands read.
type Session interface {
	Current() (session.UserInfo, bool)
}

// SyncState reports and flushes local changes that did not reach the server.
type SyncState interface {
	Unsynced(ctx context.Context, userID string) (int, error)
	Queued(ctx context.Context, userID string) (int, error)
	Sync(ctx context.Context) (int, error)
}

type App struct {
	config *config.Config
	log    logging.Logger

	session  Session
	conn     offlinefirst.Connectivity
	sync     SyncState
	auth     services.AuthService
	budgets  services.BudgetService
	expenses services.TransactionService
	incomes  services.TransactionService
	users    services.UserService
	receipts services.ReceiptService

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time

	// run starts the background loops; nil in tests.
	run   func(ctx context.Context)
	close func() error
}

// NewApp opens the local database, connects the API client and wires the
// services. Nothing runs in the background until Run.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	mode, err := offlinefirst.ParseWriteMode(c.OfflineWrites)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	broker := changes.NewBroker()
	repos := client.NewRepositories(db, broker)

	sess := session.New(repos.Metadata, broker)
	if err := sess.Load(ctx); err != nil {
		log.Warn(ctx, "stored session ignored", "error", err)
	}
	if info, ok := sess.Current(); ok {
		api.SetTokens(info.AccessToken, info.RefreshToken)
	}
	api.OnTokensRefreshed(func(access, refresh string) {
		if err := sess.UpdateTokens(context.Background(), access, refresh); err != nil {
			log.Warn(context.Background(), "rotated tokens not persisted", "error", err)
		}
	})

	monitor := connectivity.NewMonitor(api, c.OnlineCheckInterval, log)

	var syncer *offlinefirst.Syncer
	if mode == offlinefirst.WriteModeOutbox {
		syncer = offlinefirst.NewSyncer(repos.Outbox, monitor, func() (string, bool) {
			info, ok := sess.Current()
			// an offline session has no tokens to replay with
			return info.UserID, ok && !info.Offline
		}, c.SyncInterval, log)
	}

	policyConfig := func(kind models.Kind) offlinefirst.Config {
		pc := offlinefirst.Config{Kind: kind, Mode: mode, Changes: broker, Log: log, FetchTimeout: c.RequestTimeout}
		if syncer != nil {
			pc.Outbox = repos.Outbox
			pc.OnQueued = syncer.Kick
		}
		return pc
	}

	budgets := offlinefirst.NewListPolicy[models.Budget](repos.Budgets,
		client.NewRemoteBudgets(api, c.RequestTimeout, log), monitor, policyConfig(models.KindBudget))
	expenses := offlinefirst.NewListPolicy[models.Transaction](repos.Expenses,
		client.NewRemoteTransactions(api, models.KindExpense, c.RequestTimeout, log), monitor, policyConfig(models.KindExpense))
	incomes := offlinefirst.NewListPolicy[models.Transaction](repos.Incomes,
		client.NewRemoteTransactions(api, models.KindIncome, c.RequestTimeout, log), monitor, policyConfig(models.KindIncome))
	users := offlinefirst.NewPolicy[models.User](repos.Users,
		client.NewRemoteUsers(api, c.RequestTimeout, log), monitor, policyConfig(models.KindUser))

	if syncer != nil {
		syncer.Register(models.KindBudget, budgets)
		syncer.Register(models.KindExpense, expenses)
		syncer.Register(models.KindIncome, incomes)
		syncer.Register(models.KindUser, users)
	}

	a := &App{
		config:   c,
		log:      log,
		session:  sess,
		conn:     monitor,
		sync:     &syncState{repos: repos, syncer: syncer},
		auth:     services.NewAuthService(api, repos.Metadata, sess, repos.Users, log),
		budgets:  services.NewBudgetService(budgets),
		expenses: services.NewExpenseService(expenses),
		incomes:  services.NewIncomeService(incomes),
		users:    services.NewUserService(sess, users, broker),
		receipts: services.NewReceiptService(api, monitor, nil),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		now:      time.Now,
	}

	a.run = func(ctx context.Context) {
		go a.announceModes(ctx, monitor.Watch(ctx))
		if syncer != nil {
			go func() { _ = syncer.Run(ctx) }()
			return
		}
		go func() { _ = monitor.Run(ctx) }()
	}
	a.close = func() error {
		_ = api.Close()
		return db.Close()
	}
	return a, nil
}

// Run starts the connectivity monitor (and the outbox sync) and blocks in
// the REPL until the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.close != nil {
		defer a.close()
	}
	if a.run != nil {
		a.run(ctx)
	}

	printBanner(a.out)
	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
	return nil
}

func (a *App) mode() Mode {
	if a.conn.IsCurrentlyOnline() {
		return ModeOnline
	}
	return ModeOffline
}

func (a *App) isLoggedIn() bool {
	_, ok := a.session.Current()
	return ok
}

func (a *App) userID() string {
	info, _ := a.session.Current()
	return info.UserID
}

// status renders the prompt prefix: "(alice@example.com online)".
func (a *App) status() string {
	s := string(a.mode())
	if info, ok := a.session.Current(); ok {
		s = info.Username + " " + s
	}
	return "(" + s + ")"
}

func (a *App) announceModes(ctx context.Context, transitions <-chan bool) {
	for online := range transitions {
		if online {
			fmt.Fprintln(a.out, modeColor(ModeOnline)("Switched to online mode"))
			if info, ok := a.session.Current(); ok && info.Offline {
				fmt.Fprintln(a.out, "Signed in offline: run 'login' again to sync your changes.")
			}
			continue
		}
		fmt.Fprintln(a.out, modeColor(ModeOffline)("Switched to offline mode"))
	}
	a.log.Debug(ctx, "mode announcements stopped")
}

type syncState struct {
	repos  *client.Repositories
	syncer *offlinefirst.Syncer
}

func (s *syncState) Unsynced(ctx context.Context, userID string) (int, error) {
	total := 0
	counters := []func(context.Context, string) (int, error){
		s.repos.Budgets.CountUnsynced,
		s.repos.Expenses.CountUnsynced,
		s.repos.Incomes.CountUnsynced,
		s.repos.Users.CountUnsynced,
	}
	for _, count := range counters {
		n, err := count(ctx, userID)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (s *syncState) Queued(ctx context.Context, userID string) (int, error) {
	return s.repos.Outbox.Count(ctx, userID)
}

func (s *syncState) Sync(ctx context.Context) (int, error) {
	if s.syncer == nil {
		return 0, errSyncDisabled
	}
	return s.syncer.Drain(ctx)
}
