package assert

import (
	"context"

	"github.com/shopspring/decimal"
)

// NonNegative returns an error if amount is below zero.
func (a *Asserter) NonNegative(ctx context.Context, amount decimal.Decimal, msg string, kv ...any) error {
	if !amount.IsNegative() {
		return nil
	}

	return a.fail(ctx, "NonNegative", msg, append([]any{"amount", amount.String()}, kv...))
}

// BalanceConsistent returns an error unless total equals available plus held.
func (a *Asserter) BalanceConsistent(ctx context.Context, available, held, total decimal.Decimal, kv ...any) error {
	if available.Add(held).Equal(total) {
		return nil
	}

	pairs := append([]any{
		"available", available.String(),
		"held", held.String(),
		"total", total.String(),
	}, kv...)

	return a.fail(ctx, "BalanceConsistent", "total must equal available plus held", pairs)
}
