package main

import (
    "encoding/json"
    "errors"
    "net/http"
    "strings"

    "github.com/google/uuid"

    "investtrack/internal/model"
    "investtrack/internal/portfolio"
    "investtrack/internal/provider/finnhub"
    "investtrack/internal/records"
)

type portfolioResponse struct {
    Investments []model.Investment `json:"investments"`
    Totals      portfolio.Totals   `json:"totals"`
}

type searchResponse struct {
    Results []finnhub.SearchResult `json:"results"`
}

// handlePortfolio returns the user's records decorated with live
// values, sorted for the list surface.
func (a *app) handlePortfolio(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
        return
    }
    user := strings.TrimSpace(r.URL.Query().Get("user"))
    if user == "" {
        http.Error(w, "missing user query param", http.StatusBadRequest)
        return
    }
    invs, err := a.store.ListByUser(r.Context(), user)
    if err != nil {
        http.Error(w, "record store unavailable", http.StatusBadGateway)
        return
    }
    synced := a.engine.SyncPrices(r.Context(), invs)
    portfolio.Sort(synced)
    writeJSON(w, portfolioResponse{
        Investments: synced,
        Totals:      portfolio.Summarize(synced),
    })
}

func (a *app) handleSearch(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
        return
    }
    results := []finnhub.SearchResult{}
    if a.search != nil {
        results = a.search.Search(r.Context(), r.URL.Query().Get("q"))
    }
    writeJSON(w, searchResponse{Results: results})
}

func (a *app) handleInvestments(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodPost {
        http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
        return
    }
    var inv model.Investment
    dec := json.NewDecoder(r.Body)
    dec.DisallowUnknownFields()
    if err := dec.Decode(&inv); err != nil {
        http.Error(w, "invalid JSON body", http.StatusBadRequest)
        return
    }
    if inv.UserID == "" || inv.Name == "" || inv.AssetType == "" {
        http.Error(w, "user_id, name and asset_type are required", http.StatusBadRequest)
        return
    }
    if err := a.store.Create(r.Context(), &inv); err != nil {
        http.Error(w, "could not save investment", http.StatusBadGateway)
        return
    }
    w.WriteHeader(http.StatusCreated)
    writeJSON(w, inv)
}

// handleInvestmentByID serves PUT/DELETE on /api/investments/{id}.
func (a *app) handleInvestmentByID(w http.ResponseWriter, r *http.Request) {
    raw := strings.TrimPrefix(r.URL.Path, "/api/investments/")
    id, err := uuid.Parse(raw)
    if err != nil {
        http.Error(w, "invalid investment id", http.StatusBadRequest)
        return
    }

    switch r.Method {
    case http.MethodPut:
        var inv model.Investment
        dec := json.NewDecoder(r.Body)
        dec.DisallowUnknownFields()
        if err := dec.Decode(&inv); err != nil {
            http.Error(w, "invalid JSON body", http.StatusBadRequest)
            return
        }
        inv.ID = id
        if err := a.store.Update(r.Context(), &inv); err != nil {
            if errors.Is(err, records.ErrNotFound) {
                http.Error(w, "investment not found", http.StatusNotFound)
                return
            }
            http.Error(w, "could not update investment", http.StatusBadGateway)
            return
        }
        writeJSON(w, inv)
    case http.MethodDelete:
        if err := a.store.Delete(r.Context(), id); err != nil {
            if errors.Is(err, records.ErrNotFound) {
                http.Error(w, "investment not found", http.StatusNotFound)
                return
            }
            http.Error(w, "could not delete investment", http.StatusBadGateway)
            return
        }
        w.WriteHeader(http.StatusNoContent)
    default:
        http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
    }
}

func writeJSON(w http.ResponseWriter, v any) {
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    _ = enc.Encode(v)
}
