package services

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func validateMoney(amount decimal.Decimal, category string) error {
	if !amount.IsPositive() {
		return common.ErrInvalidAmount
	}
	if strings.TrimSpace(category) == "" {
		return common.ErrInvalidCategory
	}
	return nil
}

func ensureID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func stamp(now func() time.Time) time.Time {
	return now().UTC().Truncate(time.Millisecond)
}
