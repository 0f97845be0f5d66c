package model

import (
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/shopspring/decimal"
)

// AssetType classifies an investment and determines which quote
// provider (if any) applies.
type AssetType string

const (
    AssetStocks       AssetType = "Stocks"
    AssetCrypto       AssetType = "Crypto"
    AssetMutualFunds  AssetType = "Mutual Funds"
    AssetFixedDeposit AssetType = "Fixed Deposit"
    AssetGold         AssetType = "Gold"
    AssetRealEstate   AssetType = "Real Estate"
    AssetOther        AssetType = "Other"
)

// Investment is the record shape exchanged with the record store and
// decorated by the sync engine. Quantity stays a string because it
// arrives from free-form user input; parsing failures mean the record
// is simply not priceable.
type Investment struct {
    ID           uuid.UUID       `json:"id"`
    UserID       string          `json:"user_id"`
    Name         string          `json:"name"`
    Symbol       string          `json:"symbol,omitempty"`
    AssetType    AssetType       `json:"asset_type"`
    Quantity     string          `json:"quantity,omitempty"`
    TotalCost    decimal.Decimal `json:"total_cost"`
    CurrentValue decimal.Decimal `json:"current_value"`
    CreatedAt    time.Time       `json:"created_at,omitempty"`
}

// ParseQuantity returns the record quantity as a decimal.
// Empty, malformed, or negative quantities report ok=false.
func (inv Investment) ParseQuantity() (decimal.Decimal, bool) {
    s := strings.TrimSpace(inv.Quantity)
    if s == "" {
        return decimal.Decimal{}, false
    }
    d, err := decimal.NewFromString(s)
    if err != nil || d.IsNegative() {
        return decimal.Decimal{}, false
    }
    return d, true
}
