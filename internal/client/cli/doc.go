// Package cli provides the interactive gophbudget command-line client.
//
// It wires configuration, local storage, the offline-first services and an
// interactive REPL. The prompt shows who is signed in and whether the server
// is reachable; every command works offline against the local database.
//
// Key features:
//   - Sign up / sign in (online with offline fallback) / Google sign-in / sign out
//   - Budgets, expenses and incomes: add, list, delete
//   - Monthly report, exported as CSV, YAML or PDF
//   - Receipt attachments for transactions
//   - Status of queued changes and a manual sync
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
