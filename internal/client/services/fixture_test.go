package services

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/gophbudget/internal/client/changes"
	"github.com/dmitrijs2005/gophbudget/internal/client/client"
	"github.com/dmitrijs2005/gophbudget/internal/client/migrations"
	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/dmitrijs2005/gophbudget/internal/client/offlinefirst"
	"github.com/dmitrijs2005/gophbudget/internal/client/session"
	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/cryptox"
	"github.com/dmitrijs2005/gophbudget/internal/logging"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// fakeClient implements client.Client for unit tests. Methods a test does
// not set up panic through the nil embedded interface.
type fakeClient struct {
	client.Client

	accounts map[string][2][]byte // email -> salt, verifier
	userIDs  map[string]string

	getSaltErr error
	loginErr   error

	federated    client.FederatedIdentity
	federatedErr error

	saveProfileErr error
	savedProfiles  []models.User

	addedTx   []models.Transaction
	updatedTx []models.Transaction

	uploadURL string

	access, refresh string
}

func newFakeClient() *fakeClient {
	return &fakeClient{accounts: map[string][2][]byte{}, userIDs: map[string]string{}}
}

func (f *fakeClient) Register(_ context.Context, username string, salt, verifier []byte) error {
	if _, ok := f.accounts[username]; ok {
		return common.ErrAlreadyExists
	}
	f.accounts[username] = [2][]byte{salt, verifier}
	f.userIDs[username] = "uid-" + username
	return nil
}

func (f *fakeClient) GetSalt(_ context.Context, username string) ([]byte, error) {
	if f.getSaltErr != nil {
		return nil, f.getSaltErr
	}
	acc, ok := f.accounts[username]
	if !ok {
		return []byte("0123456789abcdef"), nil
	}
	return acc[0], nil
}

func (f *fakeClient) Login(_ context.Context, username string, verifier []byte) (string, error) {
	if f.loginErr != nil {
		return "", f.loginErr
	}
	acc, ok := f.accounts[username]
	if !ok || string(acc[1]) != string(verifier) {
		return "", client.ErrUnauthorized
	}
	f.access, f.refresh = "access-"+username, "refresh-"+username
	return f.userIDs[username], nil
}

func (f *fakeClient) FederatedLogin(context.Context, string) (client.FederatedIdentity, error) {
	if f.federatedErr != nil {
		return client.FederatedIdentity{}, f.federatedErr
	}
	f.access, f.refresh = "g-access", "g-refresh"
	return f.federated, nil
}

func (f *fakeClient) Tokens() (string, string) { return f.access, f.refresh }

func (f *fakeClient) SetTokens(access, refresh string) { f.access, f.refresh = access, refresh }

func (f *fakeClient) SaveProfile(_ context.Context, u models.User) error {
	if f.saveProfileErr != nil {
		return f.saveProfileErr
	}
	f.savedProfiles = append(f.savedProfiles, u)
	return nil
}

func (f *fakeClient) Ping(context.Context) error { return nil }

func (f *fakeClient) AddTransaction(_ context.Context, t models.Transaction) error {
	f.addedTx = append(f.addedTx, t)
	return nil
}

func (f *fakeClient) UpdateTransaction(_ context.Context, t models.Transaction) error {
	f.updatedTx = append(f.updatedTx, t)
	return nil
}

func (f *fakeClient) PresignReceiptUpload(context.Context, string) (string, string, error) {
	return f.uploadURL, "receipts/u1/2025/10/abc", nil
}

func (f *fakeClient) PresignReceiptDownload(_ context.Context, key string) (string, error) {
	return "https://storage.example/" + key, nil
}

type env struct {
	db      *sql.DB
	broker  *changes.Broker
	repos   *client.Repositories
	session *session.Session
	client  *fakeClient
	conn    *switchConn
}

type switchConn struct{ online atomic.Bool }

func (c *switchConn) IsCurrentlyOnline() bool { return c.online.Load() }

func newEnv(t *testing.T, online bool) *env {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db))

	broker := changes.NewBroker()
	repos := client.NewRepositories(db, broker)
	e := &env{
		db:      db,
		broker:  broker,
		repos:   repos,
		session: session.New(repos.Metadata, broker),
		client:  newFakeClient(),
		conn:    &switchConn{},
	}
	e.conn.online.Store(online)
	return e
}

func (e *env) config(kind models.Kind) offlinefirst.Config {
	return offlinefirst.Config{Kind: kind, Mode: offlinefirst.WriteModeOutbox, Outbox: e.repos.Outbox, Changes: e.broker}
}

func (e *env) auth() AuthService {
	return NewAuthService(e.client, e.repos.Metadata, e.session, e.repos.Users, logging.NewNop())
}

func (e *env) incomes() TransactionService {
	remote := client.NewRemoteTransactions(e.client, models.KindIncome, 0, logging.NewNop())
	return NewIncomeService(offlinefirst.NewListPolicy[models.Transaction](e.repos.Incomes, remote, e.conn, e.config(models.KindIncome)))
}

func verifierFor(password string) []byte {
	return cryptox.VerifierFor([]byte(password), []byte("0123456789abcdef"))
}

func sessionFor(userID string) session.UserInfo {
	return session.UserInfo{UserID: userID, Username: userID + "@example.com"}
}
