package services

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/models"
	"github.com/dmitrijs2005/gophbudget/internal/client/offlinefirst"
)

type BudgetService interface {
	GetBudgets(ctx context.Context, userID string, p models.Period) ([]models.Budget, error)
	GetBudgetsByCategory(ctx context.Context, userID, category string, p models.Period) ([]models.Budget, error)
	GetBudget(ctx context.Context, userID, id string) (models.Budget, bool, error)
	WatchBudgets(ctx context.Context, userID string, p models.Period) <-chan []models.Budget
	AddBudget(ctx context.Context, b models.Budget) (models.Budget, error)
	UpdateBudget(ctx context.Context, b models.Budget) (models.Budget, error)
	DeleteBudget(ctx context.Context, userID, id string) error
}

type budgetService struct {
	policy *offlinefirst.ListPolicy[models.Budget]
	now    func() time.Time
}

func NewBudgetService(policy *offlinefirst.ListPolicy[models.Budget]) BudgetService {
	return &budgetService{policy: policy, now: time.Now}
}

func (s *budgetService) GetBudgets(ctx context.Context, userID string, p models.Period) ([]models.Budget, error) {
	return s.policy.ReadList(ctx, userID, p)
}

func (s *budgetService) GetBudgetsByCategory(ctx context.Context, userID, category string, p models.Period) ([]models.Budget, error) {
	return s.policy.ReadListByCategory(ctx, userID, category, p)
}

func (s *budgetService) GetBudget(ctx context.Context, userID, id string) (models.Budget, bool, error) {
	return s.policy.ReadOne(ctx, userID, id)
}

func (s *budgetService) WatchBudgets(ctx context.Context, userID string, p models.Period) <-chan []models.Budget {
	return s.policy.WatchList(ctx, userID, p)
}

// prepare validates b and pins PeriodStart to the first instant of its month.
func (s *budgetService) prepare(b models.Budget) (models.Budget, error) {
	b.Category = strings.TrimSpace(b.Category)
	if err := validateMoney(b.Amount, b.Category); err != nil {
		return b, err
	}
	if b.PeriodStart.IsZero() {
		b.PeriodStart = s.now()
	}
	b.PeriodStart = models.Monthly(b.PeriodStart).Start
	b.UpdatedAt = stamp(s.now)
	return b, nil
}

// AddBudget stores a new budget. A zero RemainingAmount starts at Amount.
func (s *budgetService) AddBudget(ctx context.Context, b models.Budget) (models.Budget, error) {
	b, err := s.prepare(b)
	if err != nil {
		return b, err
	}
	b.ID = ensureID(b.ID)
	if b.RemainingAmount.IsZero() {
		b.RemainingAmount = b.Amount
	}
	return b, s.policy.Add(ctx, b)
}

func (s *budgetService) UpdateBudget(ctx context.Context, b models.Budget) (models.Budget, error) {
	b, err := s.prepare(b)
	if err != nil {
		return b, err
	}
	return b, s.policy.Update(ctx, b)
}

func (s *budgetService) DeleteBudget(ctx context.Context, userID, id string) error {
	return s.policy.Delete(ctx, userID, id)
}
