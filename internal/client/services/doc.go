// Package services contains the application services of the gophbudget
// client: budgets, expenses and incomes, the current user, authentication
// and receipt attachments. Entity services sit on top of the offline-first
// policies; the CLI only talks to this package.
package services
