package search

import (
    "context"
    "log"
    "strings"
    "unicode/utf8"

    "investtrack/internal/provider/finnhub"
)

// MaxResults caps how many matches a lookup returns.
const MaxResults = 10

// MinQueryLen is the shortest query worth a network call.
const MinQueryLen = 2

// SymbolAPI is the slice of the stock API client the service needs.
type SymbolAPI interface {
    Search(ctx context.Context, query string) ([]finnhub.SearchResult, error)
}

// Service filters the raw provider search down to what the symbol
// picker shows: common stocks (or untyped entries), no dotted listings,
// at most MaxResults, provider order preserved.
type Service struct {
    Client SymbolAPI
}

func New(client SymbolAPI) *Service {
    return &Service{Client: client}
}

// Search never fails: provider trouble is logged and reported as an
// empty result list.
func (s *Service) Search(ctx context.Context, query string) []finnhub.SearchResult {
    q := strings.TrimSpace(query)
    if utf8.RuneCountInString(q) < MinQueryLen {
        return []finnhub.SearchResult{}
    }

    raw, err := s.Client.Search(ctx, q)
    if err != nil {
        log.Printf("search: %q: %v", q, err)
        return []finnhub.SearchResult{}
    }

    out := make([]finnhub.SearchResult, 0, MaxResults)
    for _, r := range raw {
        if strings.Contains(r.Symbol, ".") { continue }
        if r.Type != "Common Stock" && r.Type != "" { continue }
        out = append(out, r)
        if len(out) == MaxResults { break }
    }
    return out
}
