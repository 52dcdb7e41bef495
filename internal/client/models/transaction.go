package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an expense or an income, depending on Kind.
type Transaction struct {
	ID          string
	UserID      string
	Kind        Kind
	Category    string
	Amount      decimal.Decimal
	Name        string
	Description string
	OccurredAt  time.Time
	// ReceiptRef is the object-storage key of an attached receipt, if any.
	ReceiptRef string
	Synced     bool
	UpdatedAt  time.Time
}

func (t Transaction) EntityID() string { return t.ID }
func (t Transaction) OwnerID() string  { return t.UserID }
func (t Transaction) EntityKind() Kind { return t.Kind }

func IsTransactionKind(k Kind) bool {
	return k == KindExpense || k == KindIncome
}
