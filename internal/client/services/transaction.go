package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/dmitrijs2005/gophbudget/internal/client/offlinefirst"
)

// TransactionService manages one kind of transaction: expenses or incomes.
type TransactionService interface {
	Kind() models.Kind
	GetTransactions(ctx context.Context, userID string, p models.Period) ([]models.Transaction, error)
	GetTransactionsByCategory(ctx context.Context, userID, category string, p models.Period) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, userID, id string) (models.Transaction, bool, error)
	WatchTransactions(ctx context.Context, userID string, p models.Period) <-chan []models.Transaction
	AddTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error)
	UpdateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id string) error
}

type transactionService struct {
	kind   models.Kind
	policy *offlinefirst.ListPolicy[models.Transaction]
	now    func() time.Time
}

func NewExpenseService(policy *offlinefirst.ListPolicy[models.Transaction]) TransactionService {
	return newTransactionService(models.KindExpense, policy)
}

func NewIncomeService(policy *offlinefirst.ListPolicy[models.Transaction]) TransactionService {
	return newTransactionService(models.KindIncome, policy)
}

func newTransactionService(kind models.Kind, policy *offlinefirst.ListPolicy[models.Transaction]) *transactionService {
	if policy.Kind() != kind {
		panic(fmt.Sprintf("services: %s service over a %s policy", kind, policy.Kind()))
	}
	return &transactionService{kind: kind, policy: policy, now: time.Now}
}

func (s *transactionService) Kind() models.Kind { return s.kind }

func (s *transactionService) GetTransactions(ctx context.Context, userID string, p models.Period) ([]models.Transaction, error) {
	return s.policy.ReadList(ctx, userID, p)
}

func (s *transactionService) GetTransactionsByCategory(ctx context.Context, userID, category string, p models.Period) ([]models.Transaction, error) {
	return s.policy.ReadListByCategory(ctx, userID, category, p)
}

func (s *transactionService) GetTransaction(ctx context.Context, userID, id string) (models.Transaction, bool, error) {
	return s.policy.ReadOne(ctx, userID, id)
}

func (s *transactionService) WatchTransactions(ctx context.Context, userID string, p models.Period) <-chan []models.Transaction {
	return s.policy.WatchList(ctx, userID, p)
}

func (s *transactionService) prepare(t models.Transaction) (models.Transaction, error) {
	t.Kind = s.kind
	t.Category = strings.TrimSpace(t.Category)
	if err := validateMoney(t.Amount, t.Category); err != nil {
		return t, err
	}
	if t.OccurredAt.IsZero() {
		t.OccurredAt = stamp(s.now)
	}
	t.UpdatedAt = stamp(s.now)
	return t, nil
}

func (s *transactionService) AddTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	t, err := s.prepare(t)
	if err != nil {
		return t, err
	}
	t.ID = ensureID(t.ID)
	return t, s.policy.Add(ctx, t)
}

func (s *transactionService) UpdateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	t, err := s.prepare(t)
	if err != nil {
		return t, err
	}
	return t, s.policy.Update(ctx, t)
}

func (s *transactionService) DeleteTransaction(ctx context.Context, userID, id string) error {
	return s.policy.Delete(ctx, userID, id)
}
