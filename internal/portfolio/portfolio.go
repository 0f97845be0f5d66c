package portfolio

import (
    "sort"

    "github.com/shopspring/decimal"

    "investtrack/internal/model"
)

// TypeTotal sums one asset class of a synced portfolio.
type TypeTotal struct {
    Invested decimal.Decimal `json:"invested"`
    Current  decimal.Decimal `json:"current"`
}

// Totals is the headline math for the list surface. Gain is simply
// Current - Invested; records must already carry CurrentValue.
type Totals struct {
    Invested decimal.Decimal               `json:"invested"`
    Current  decimal.Decimal               `json:"current"`
    Gain     decimal.Decimal               `json:"gain"`
    ByType   map[model.AssetType]TypeTotal `json:"by_type"`
}

// Summarize folds a synced record collection into Totals.
func Summarize(records []model.Investment) Totals {
    t := Totals{ByType: make(map[model.AssetType]TypeTotal)}
    for _, r := range records {
        t.Invested = t.Invested.Add(r.TotalCost)
        t.Current = t.Current.Add(r.CurrentValue)
        bt := t.ByType[r.AssetType]
        bt.Invested = bt.Invested.Add(r.TotalCost)
        bt.Current = bt.Current.Add(r.CurrentValue)
        t.ByType[r.AssetType] = bt
    }
    t.Gain = t.Current.Sub(t.Invested)
    return t
}

// Sort orders records for display: current value descending, ties by
// symbol ascending, then by id so equal rows stay deterministic.
func Sort(records []model.Investment) {
    sort.Slice(records, func(i, j int) bool {
        if c := records[i].CurrentValue.Cmp(records[j].CurrentValue); c != 0 {
            return c > 0
        }
        if records[i].Symbol != records[j].Symbol {
            return records[i].Symbol < records[j].Symbol
        }
        return records[i].ID.String() < records[j].ID.String()
    })
}
