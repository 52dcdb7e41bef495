package grpc

import (
	"github.com/dmitrijs2005/gophbudget/internal/api"
	"github.com/dmitrijs2005/gophbudget/internal/server/models"
)

func budgetFromAPI(b api.Budget) *models.Budget {
	return &models.Budget{
		ID:              b.ID,
		UserID:          b.UserID,
		Category:        b.Category,
		Amount:          b.Amount,
		RemainingAmount: b.RemainingAmount,
		PeriodStart:     b.PeriodStart,
		UpdatedAt:       b.UpdatedAt,
	}
}

func budgetToAPI(b models.Budget) api.Budget {
	return api.Budget{
		ID:              b.ID,
		UserID:          b.UserID,
		Category:        b.Category,
		Amount:          b.Amount,
		RemainingAmount: b.RemainingAmount,
		PeriodStart:     b.PeriodStart,
		UpdatedAt:       b.UpdatedAt,
	}
}

func transactionFromAPI(t api.Transaction) *models.Transaction {
	return &models.Transaction{
		ID:          t.ID,
		UserID:      t.UserID,
		Kind:        t.Kind,
		Category:    t.Category,
		Amount:      t.Amount,
		Name:        t.Name,
		Description: t.Description,
		OccurredAt:  t.OccurredAt,
		ReceiptRef:  t.ReceiptRef,
		UpdatedAt:   t.UpdatedAt,
	}
}

func transactionToAPI(t models.Transaction) api.Transaction {
	return api.Transaction{
		ID:          t.ID,
		UserID:      t.UserID,
		Kind:        t.Kind,
		Category:    t.Category,
		Amount:      t.Amount,
		Name:        t.Name,
		Description: t.Description,
		OccurredAt:  t.OccurredAt,
		ReceiptRef:  t.ReceiptRef,
		UpdatedAt:   t.UpdatedAt,
	}
}

func profileFromAPI(p api.Profile) *models.Profile {
	return &models.Profile{
		UserID:      p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Currency:    p.Currency,
		PhotoRef:    p.PhotoRef,
		UpdatedAt:   p.UpdatedAt,
	}
}

func profileToAPI(p models.Profile) api.Profile {
	return api.Profile{
		ID:          p.UserID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Currency:    p.Currency,
		PhotoRef:    p.PhotoRef,
		UpdatedAt:   p.UpdatedAt,
	}
}

func filterFromAPI(userID string, req *api.ListRequest) models.ListFilter {
	return models.ListFilter{UserID: userID, Start: req.Start, End: req.End, Category: req.Category}
}
