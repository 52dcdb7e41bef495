package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	KindExpense = "expense"
	KindIncome  = "income"
)

func IsTransactionKind(k string) bool {
	return k == KindExpense || k == KindIncome
}

type Budget struct {
	ID              string
	UserID          string
	Category        string
	Amount          decimal.Decimal
	RemainingAmount decimal.Decimal
	PeriodStart     time.Time
	UpdatedAt       time.Time
}

type Transaction struct {
	ID          string
	UserID      string
	Kind        string
	Category    string
	Amount      decimal.Decimal
	Name        string
	Description string
	OccurredAt  time.Time
	ReceiptRef  string
	UpdatedAt   time.Time
}

// ListFilter selects rows whose date lies in [Start, End] and, when
// Category is set, whose category matches it case-insensitively.
type ListFilter struct {
	UserID   string
	Start    time.Time
	End      time.Time
	Category string
}
