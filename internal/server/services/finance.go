package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/server/models"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

// FinanceService exposes budgets and transactions scoped to the calling user.
// Touching another user's row is common.ErrForbidden.
type FinanceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewFinanceService(db *sql.DB, m repomanager.RepositoryManager) *FinanceService {
	return &FinanceService{db: db, repomanager: m, now: time.Now}
}

func validateMoney(amount decimal.Decimal, category string) error {
	if !amount.IsPositive() {
		return common.ErrInvalidAmount
	}
	if strings.TrimSpace(category) == "" {
		return common.ErrInvalidCategory
	}
	return nil
}

func validateFilter(f models.ListFilter) error {
	if f.End.Before(f.Start) {
		return common.ErrInvalidPeriod
	}
	return nil
}

func validateKind(kind string) error {
	if !models.IsTransactionKind(kind) {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, kind)
	}
	return nil
}

// claim binds an incoming entity to userID. A foreign non-empty owner is refused.
func claim(owner *string, userID string) error {
	if *owner != "" && *owner != userID {
		return common.ErrForbidden
	}
	*owner = userID
	return nil
}

func (s *FinanceService) stamp(t *time.Time) {
	if t.IsZero() {
		*t = s.now().UTC()
	}
}

func (s *FinanceService) ListBudgets(ctx context.Context, f models.ListFilter) ([]models.Budget, error) {
	if err := validateFilter(f); err != nil {
		return nil, err
	}
	return s.repomanager.Budgets(s.db).List(ctx, f)
}

func (s *FinanceService) GetBudget(ctx context.Context, userID, id string) (*models.Budget, error) {
	b, err := s.repomanager.Budgets(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, common.ErrForbidden
	}
	return b, nil
}

// AddBudget inserts b. Reusing an id is common.ErrAlreadyExists.
func (s *FinanceService) AddBudget(ctx context.Context, userID string, b *models.Budget) error {
	if err := s.prepareBudget(userID, b); err != nil {
		return err
	}
	return s.repomanager.Budgets(s.db).Create(ctx, b)
}

func (s *FinanceService) UpdateBudget(ctx context.Context, userID string, b *models.Budget) error {
	if err := s.prepareBudget(userID, b); err != nil {
		return err
	}
	if _, err := s.GetBudget(ctx, userID, b.ID); err != nil {
		return err
	}
	return s.repomanager.Budgets(s.db).Update(ctx, b)
}

func (s *FinanceService) DeleteBudget(ctx context.Context, userID, id string) error {
	if _, err := s.GetBudget(ctx, userID, id); err != nil {
		return err
	}
	return s.repomanager.Budgets(s.db).Delete(ctx, userID, id)
}

func (s *FinanceService) prepareBudget(userID string, b *models.Budget) error {
	if b.ID == "" {
		return fmt.Errorf("%w: budget id is required", ErrInvalidInput)
	}
	if err := validateMoney(b.Amount, b.Category); err != nil {
		return err
	}
	if err := claim(&b.UserID, userID); err != nil {
		return err
	}
	s.stamp(&b.UpdatedAt)
	return nil
}

func (s *FinanceService) ListTransactions(ctx context.Context, kind string, f models.ListFilter) ([]models.Transaction, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	if err := validateFilter(f); err != nil {
		return nil, err
	}
	return s.repomanager.Transactions(s.db).List(ctx, kind, f)
}

// GetTransaction treats a row of the other kind as missing.
func (s *FinanceService) GetTransaction(ctx context.Context, userID, kind, id string) (*models.Transaction, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	t, err := s.repomanager.Transactions(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != userID {
		return nil, common.ErrForbidden
	}
	if t.Kind != kind {
		return nil, common.ErrNotFound
	}
	return t, nil
}

func (s *FinanceService) AddTransaction(ctx context.Context, userID string, t *models.Transaction) error {
	if err := s.prepareTransaction(userID, t); err != nil {
		return err
	}
	return s.repomanager.Transactions(s.db).Create(ctx, t)
}

func (s *FinanceService) UpdateTransaction(ctx context.Context, userID string, t *models.Transaction) error {
	if err := s.prepareTransaction(userID, t); err != nil {
		return err
	}
	if _, err := s.GetTransaction(ctx, userID, t.Kind, t.ID); err != nil {
		return err
	}
	return s.repomanager.Transactions(s.db).Update(ctx, t)
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, userID, kind, id string) error {
	if _, err := s.GetTransaction(ctx, userID, kind, id); err != nil {
		return err
	}
	return s.repomanager.Transactions(s.db).Delete(ctx, userID, kind, id)
}

func (s *FinanceService) prepareTransaction(userID string, t *models.Transaction) error {
	if t.ID == "" {
		return fmt.Errorf("%w: transaction id is required", ErrInvalidInput)
	}
	if err := validateKind(t.Kind); err != nil {
		return err
	}
	if err := validateMoney(t.Amount, t.Category); err != nil {
		return err
	}
	if err := claim(&t.UserID, userID); err != nil {
		return err
	}
	s.stamp(&t.UpdatedAt)
	return nil
}
