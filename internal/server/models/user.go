// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a credential record. Password users carry Salt and Verifier;
// federated users carry GoogleSubject instead.
type User struct {
	ID            string
	UserName      string
	Salt          []byte
	Verifier      []byte
	GoogleSubject string
	CreatedAt     time.Time
}

// Profile is the user-editable part of an account. It lives apart from the
// credential and may be absent.
type Profile struct {
	UserID      string
	Email       string
	DisplayName string
	Currency    string
	PhotoRef    string
	UpdatedAt   time.Time
}
