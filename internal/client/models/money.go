package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/shopspring/decimal"
)

// ParseAmount parses a user-entered amount. Both "12.50" and "12,50" are
// accepted; the result must be strictly positive.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", common.ErrInvalidAmount, s)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: must be positive", common.ErrInvalidAmount)
	}
	return d.Round(2), nil
}

// FormatAmount renders d with two decimals and the currency code.
func FormatAmount(d decimal.Decimal, currency string) string {
	if currency == "" {
		currency = common.DefaultCurrency
	}
	return d.StringFixed(2) + " " + currency
}
