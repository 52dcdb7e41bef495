// Package models defines the client-side finance entities and the small value
// types (Period, money helpers, outbox operations) the repositories share.
package models

import "time"

// Kind names an entity type. It doubles as the outbox/change-broker topic.
type Kind string

const (
	KindBudget  Kind = "budget"
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
	KindUser    Kind = "user"
)

func (k Kind) Valid() bool {
	switch k {
	case KindBudget, KindExpense, KindIncome, KindUser:
		return true
	}
	return false
}

// Entity is what the offline-first policy needs to know about a record.
type Entity interface {
	EntityID() string
	OwnerID() string
	EntityKind() Kind
}

// Op is the kind of mutation recorded in the outbox.
type Op string

const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// OutboxOp is a pending remote mutation.
type OutboxOp struct {
	Seq       int64
	Kind      Kind
	EntityID  string
	UserID    string
	Op        Op
	Payload   []byte
	Attempts  int
	LastError string
	// Sent is set once the op may have reached the server, even if the
	// attempt reported a failure.
	Sent bool
	// Revision grows every time a later write is folded into the op.
	Revision  int64
	CreatedAt time.Time
}
