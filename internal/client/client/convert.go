package client

import (
	"github.com/dmitrijs2005/gophbudget/internal/api"
	"github.com/dmitrijs2005/gophbudget/internal/client/models"
)

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

func budgetFromAPI(b api.Budget) models.Budget {
	return models.Budget{
		ID:              b.ID,
		UserID:          b.UserID,
		Category:        b.Category,
		Amount:          b.Amount,
		RemainingAmount: b.RemainingAmount,
		PeriodStart:     b.PeriodStart,
		UpdatedAt:       b.UpdatedAt,
		Synced:          true,
	}
}

func transactionToAPI(t models.Transaction) api.Transaction {
	return api.Transaction{
		ID:          t.ID,
		UserID:      t.UserID,
		Kind:        string(t.Kind),
		Category:    t.Category,
		Amount:      t.Amount,
		Name:        t.Name,
		Description: t.Description,
		OccurredAt:  t.OccurredAt,
		ReceiptRef:  t.ReceiptRef,
		UpdatedAt:   t.UpdatedAt,
	}
}

func transactionFromAPI(t api.Transaction) models.Transaction {
	return models.Transaction{
		ID:          t.ID,
		UserID:      t.UserID,
		Kind:        models.Kind(t.Kind),
		Category:    t.Category,
		Amount:      t.Amount,
		Name:        t.Name,
		Description: t.Description,
		OccurredAt:  t.OccurredAt,
		ReceiptRef:  t.ReceiptRef,
		UpdatedAt:   t.UpdatedAt,
		Synced:      true,
	}
}

func profileToAPI(u models.User) api.Profile {
	return api.Profile{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Currency:    u.Currency,
		PhotoRef:    u.PhotoRef,
		UpdatedAt:   u.UpdatedAt,
	}
}

func profileFromAPI(p api.Profile) models.User {
	return models.User{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		Currency:    p.Currency,
		PhotoRef:    p.PhotoRef,
		UpdatedAt:   p.UpdatedAt,
		Synced:      true,
	}
}
