// Package client contains the client side of the remote store.
//
// # Overview
//
// The package provides:
//  1. The Client interface: auth calls (Register/GetSalt/Login/FederatedLogin),
//     Ping, and CRUD for budgets, transactions and the user profile.
//  2. GRPCClient, which injects the access token via an interceptor,
//     transparently refreshes an expired token once, and maps gRPC status
//     codes to sentinel errors.
//  3. Remote stores (RemoteBudgets, RemoteTransactions, RemoteUsers) that
//     bound every call by a timeout and turn read failures into empty results.
//  4. Local persistence bootstrap (InitDatabase, NewRepositories).
//
// # Error Handling
//
// Sentinel errors can be matched with errors.Is: ErrUnavailable,
// ErrUnauthorized, ErrLocalDataNotAvailable, plus common.ErrNotFound and
// common.ErrAlreadyExists.
package client
