package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget caps spending on one category for the month starting at PeriodStart.
type Budget struct {
	ID              string
	UserID          string
	Category        string
	Amount          decimal.Decimal
	RemainingAmount decimal.Decimal
	PeriodStart     time.Time
	Synced          bool
	UpdatedAt       time.Time
}

func (b Budget) EntityID() string { return b.ID }
func (b Budget) OwnerID() string  { return b.UserID }
func (b Budget) EntityKind() Kind { return KindBudget }
