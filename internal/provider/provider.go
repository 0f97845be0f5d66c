package provider

import (
    "context"

    "github.com/shopspring/decimal"
)

// Quoter maps a user-facing symbol to a current price in the provider's
// fixed currency.
//
// ok=false with a nil error means the symbol is not quotable by this
// provider (no request was attempted). A non-nil error is a provider
// failure; callers treat it as "no live price" and fall back.
type Quoter interface {
    Name() string
    FetchPrice(ctx context.Context, symbol string) (price decimal.Decimal, ok bool, err error)
}
