package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/dbx"
	"github.com/dmitrijs2005/gophbudget/internal/server/models"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/budgets"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	byName    map[string]*models.User
	bySubject map[string]*models.User
	getErr    error
	createErr error
	created   int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byName: map[string]*models.User{}, bySubject: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byName[u.UserName]; ok {
		return nil, common.ErrAlreadyExists
	}
	f.created++
	u.ID = "u-" + u.UserName
	f.byName[u.UserName] = u
	return u, nil
}

func (f *fakeUsersRepo) CreateFederated(ctx context.Context, username, subject string) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created++
	u := &models.User{ID: "u-" + subject, UserName: username, GoogleSubject: subject}
	f.bySubject[subject] = u
	return u, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[login]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetUserByGoogleSubject(ctx context.Context, subject string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.bySubject[subject]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

type fakeRefreshRepo struct {
	tokens    map[string]*models.RefreshToken
	createErr error
	deleteErr error
	purgedAt  time.Time
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrNotFound
	}
	return rt, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.tokens, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.purgedAt = now
	var n int64
	for k, rt := range f.tokens {
		if rt.Expires.Before(now) {
			delete(f.tokens, k)
			n++
		}
	}
	return n, nil
}

type fakeProfilesRepo struct {
	rows map[string]models.Profile
}

func (f *fakeProfilesRepo) Get(ctx context.Context, userID string) (*models.Profile, error) {
	p, ok := f.rows[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProfilesRepo) Upsert(ctx context.Context, p *models.Profile) error {
	f.rows[p.UserID] = *p
	return nil
}

func (f *fakeProfilesRepo) Delete(ctx context.Context, userID string) error {
	if _, ok := f.rows[userID]; !ok {
		return common.ErrNotFound
	}
	delete(f.rows, userID)
	return nil
}

type fakeBudgetsRepo struct {
	rows    map[string]models.Budget
	updates int
	deletes int
}

func (f *fakeBudgetsRepo) Create(ctx context.Context, b *models.Budget) error {
	if _, ok := f.rows[b.ID]; ok {
		return common.ErrAlreadyExists
	}
	f.rows[b.ID] = *b
	return nil
}

func (f *fakeBudgetsRepo) Get(ctx context.Context, id string) (*models.Budget, error) {
	b, ok := f.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &b, nil
}

func (f *fakeBudgetsRepo) Update(ctx context.Context, b *models.Budget) error {
	f.updates++
	f.rows[b.ID] = *b
	return nil
}

func (f *fakeBudgetsRepo) Delete(ctx context.Context, userID, id string) error {
	f.deletes++
	delete(f.rows, id)
	return nil
}

func (f *fakeBudgetsRepo) List(ctx context.Context, filter models.ListFilter) ([]models.Budget, error) {
	var out []models.Budget
	for _, b := range f.rows {
		if b.UserID != filter.UserID || b.PeriodStart.Before(filter.Start) || b.PeriodStart.After(filter.End) {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(filter.Category, b.Category) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

type fakeTransactionsRepo struct {
	rows    map[string]models.Transaction
	deletes int
}

func (f *fakeTransactionsRepo) Create(ctx context.Context, t *models.Transaction) error {
	if _, ok := f.rows[t.ID]; ok {
		return common.ErrAlreadyExists
	}
	f.rows[t.ID] = *t
	return nil
}

func (f *fakeTransactionsRepo) Get(ctx context.Context, id string) (*models.Transaction, error) {
	t, ok := f.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &t, nil
}

func (f *fakeTransactionsRepo) Update(ctx context.Context, t *models.Transaction) error {
	f.rows[t.ID] = *t
	return nil
}

func (f *fakeTransactionsRepo) Delete(ctx context.Context, userID, kind, id string) error {
	f.deletes++
	delete(f.rows, id)
	return nil
}

func (f *fakeTransactionsRepo) List(ctx context.Context, kind string, filter models.ListFilter) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, t := range f.rows {
		if t.UserID == filter.UserID && t.Kind == kind {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeRepoManager struct {
	users         *fakeUsersRepo
	refresh       *fakeRefreshRepo
	profiles      *fakeProfilesRepo
	budgets       *fakeBudgetsRepo
	transactions  *fakeTransactionsRepo
	migrationsRun int
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:        newFakeUsersRepo(),
		refresh:      newFakeRefreshRepo(),
		profiles:     &fakeProfilesRepo{rows: map[string]models.Profile{}},
		budgets:      &fakeBudgetsRepo{rows: map[string]models.Budget{}},
		transactions: &fakeTransactionsRepo{rows: map[string]models.Transaction{}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error {
	m.migrationsRun++
	return nil
}
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.users }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.refresh }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository           { return m.profiles }
func (m *fakeRepoManager) Budgets(dbx.DBTX) budgets.Repository             { return m.budgets }
func (m *fakeRepoManager) Transactions(dbx.DBTX) transactions.Repository   { return m.transactions }
