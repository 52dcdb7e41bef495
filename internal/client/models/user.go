package models

import "time"

type User struct {
	ID          string
	Email       string
	DisplayName string
	Currency    string
	PhotoRef    string
	Synced      bool
	UpdatedAt   time.Time
}

func (u User) EntityID() string { return u.ID }
func (u User) OwnerID() string  { return u.ID }
func (u User) EntityKind() Kind { return KindUser }
