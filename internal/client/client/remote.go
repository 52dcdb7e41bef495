package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/dmitrijs2005/gophbudget/internal/logging"
)

// The remote stores below adapt Client to the shape the offline-first policy
// expects. Reads never fail: any error is logged and reported as "nothing
// there". Writes return the mapped error so the caller can queue the change.

type remoteBase struct {
	timeout time.Duration
	log     logging.Logger
}

func (r remoteBase) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (r remoteBase) degrade(ctx context.Context, op string, err error, args ...any) {
	r.log.Warn(ctx, "remote read failed, treating as empty", append([]any{"op", op, "error", err}, args...)...)
}

func ownedBy[T models.Entity](userID string, items []T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it.OwnerID() == userID {
			out = append(out, it)
		}
	}
	return out
}

type RemoteBudgets struct {
	remoteBase
	c Client
}

func NewRemoteBudgets(c Client, timeout time.Duration, log logging.Logger) *RemoteBudgets {
	return &RemoteBudgets{remoteBase: remoteBase{timeout: timeout, log: log.With("module", "remote_budgets")}, c: c}
}

func (r *RemoteBudgets) Get(ctx context.Context, userID, id string) (models.Budget, bool) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	b, err := r.c.GetBudget(ctx, id)
	if err != nil {
		r.degrade(ctx, "get", err, "id", id)
		return models.Budget{}, false
	}
	return b, b.UserID == userID
}

func (r *RemoteBudgets) ListByPeriod(ctx context.Context, userID string, p models.Period) []models.Budget {
	return r.ListByCategory(ctx, userID, "", p)
}

func (r *RemoteBudgets) ListByCategory(ctx context.Context, userID, category string, p models.Period) []models.Budget {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	list, err := r.c.ListBudgets(ctx, p, category)
	if err != nil {
		r.degrade(ctx, "list", err, "period", p.String(), "category", category)
		return []models.Budget{}
	}
	return ownedBy(userID, list)
}

func (r *RemoteBudgets) Add(ctx context.Context, b models.Budget) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()
	return r.c.AddBudget(ctx, b)
}

func (r *RemoteBudgets) Update(ctx context.Context, b models.Budget) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()
	return r.c.UpdateBudget(ctx, b)
}

func (r *RemoteBudgets) Delete(ctx context.Context, _ string, id string) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()
	return r.c.DeleteBudget(ctx, id)
}

type RemoteTransactions struct {
	remoteBase
	c    Client
	kind models.Kind
}

func NewRemoteTransactions(c Client, kind models.Kind, timeout time.Duration, log logging.Logger) *RemoteTransactions {
	return &RemoteTransactions{
		remoteBase: remoteBase{timeout: timeout, log: log.With("module", "remote_"+string(kind))},
		c:          c,
		kind:       kind,
	}
}

func (r *RemoteTransactions) Get(ctx context.Context, userID, id string) (models.Transaction, bool) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	t, err := r.c.GetTransaction(ctx, r.kind, id)
	if err != nil {
		r.degrade(ctx, "get", err, "id", id)
		return models.Transaction{}, false
	}
	return t, t.UserID == userID && t.Kind == r.kind
}

func (r *RemoteTransactions) ListByPeriod(ctx context.Context, userID string, p models.Period) []models.Transaction {
	return r.ListByCategory(ctx, userID, "", p)
}

func (r *RemoteTransactions) ListByCategory(ctx context.Context, userID, category string, p models.Period) []models.Transaction {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	list, err := r.c.ListTransactions(ctx, r.kind, p, category)
	if err != nil {
		r.degrade(ctx, "list", err, "period", p.String(), "category", category)
		return []models.Transaction{}
	}
	return ownedBy(userID, list)
}

func (r *RemoteTransactions) Add(ctx context.Context, t models.Transaction) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()
	return r.c.AddTransaction(ctx, t)
}

func (r *RemoteTransactions) Update(ctx context.Context, t models.Transaction) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()
	return r.c.UpdateTransaction(ctx, t)
}

func (r *RemoteTransactions) Delete(ctx context.Context, _ string, id string) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()
	return r.c.DeleteTransaction(ctx, r.kind, id)
}

// RemoteUsers exposes the caller's own profile. Insert and update are both
// a save on the server.
type RemoteUsers struct {
	remoteBase
	c Client
}

func NewRemoteUsers(c Client, timeout time.Duration, log logging.Logger) *RemoteUsers {
	return &RemoteUsers{remoteBase: remoteBase{timeout: timeout, log: log.With("module", "remote_users")}, c: c}
}

func (r *RemoteUsers) Get(ctx context.Context, userID, id string) (models.User, bool) {
	if userID != id {
		return models.User{}, false
	}
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	u, err := r.c.GetProfile(ctx)
	if err != nil {
		r.degrade(ctx, "get", err, "id", id)
		return models.User{}, false
	}
	return u, u.ID == id
}

func (r *RemoteUsers) Add(ctx context.Context, u models.User) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()
	return r.c.SaveProfile(ctx, u)
}

func (r *RemoteUsers) Update(ctx context.Context, u models.User) error {
	return r.Add(ctx, u)
}

func (r *RemoteUsers) Delete(ctx context.Context, _ string, _ string) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()
	return r.c.DeleteProfile(ctx)
}
