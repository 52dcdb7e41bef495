package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophbudget/internal/dbx"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/budgets"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a handle, so the same
// constructors serve both *sql.DB and a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Budgets(db dbx.DBTX) budgets.Repository
	Transactions(db dbx.DBTX) transactions.Repository
}
