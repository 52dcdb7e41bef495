package client

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophbudget/internal/client/changes"
	"github.com/dmitrijs2005/gophbudget/internal/client/migrations"
	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/dmitrijs2005/gophbudget/internal/client/repositories/budgets"
	"github.com/dmitrijs2005/gophbudget/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophbudget/internal/client/repositories/outbox"
	"github.com/dmitrijs2005/gophbudget/internal/client/repositories/transactions"
	"github.com/dmitrijs2005/gophbudget/internal/client/repositories/users"
	"github.com/dmitrijs2005/gophbudget/internal/filex"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	Metadata *metadata.SQLiteRepository
	Budgets  *budgets.SQLiteRepository
	Expenses *transactions.SQLiteRepository
	Incomes  *transactions.SQLiteRepository
	Users    *users.SQLiteRepository
	Outbox   *outbox.SQLiteRepository
	Changes  *changes.Broker
}

func NewRepositories(db *sql.DB, broker *changes.Broker) *Repositories {
	return &Repositories{
		Metadata: metadata.NewSQLiteRepository(db),
		Budgets:  budgets.NewSQLiteRepository(db, broker),
		Expenses: transactions.NewSQLiteRepository(db, models.KindExpense, broker),
		Incomes:  transactions.NewSQLiteRepository(db, models.KindIncome, broker),
		Users:    users.NewSQLiteRepository(db, broker),
		Outbox:   outbox.NewSQLiteRepository(db),
		Changes:  broker,
	}
}

// InitDatabase opens the local database and brings its schema up to date.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if err := filex.EnsureParentDir(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
