// Package common contains shared constants and sentinel errors used across
// gophbudget components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// DefaultCurrency is assigned to profiles created without an explicit currency.
const DefaultCurrency = "EUR"
