package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
)

// SearchResult is one entry from the symbol search endpoint.
type SearchResult struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type searchBody struct {
	Result []SearchResult `json:"result"`
}

// Search runs a free-text symbol lookup. Results are returned exactly
// as the provider orders them; filtering is the caller's concern.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	values := maps.Clone(c.query)
	values.Set("q", query)

	url := fmt.Sprintf("%s/search?%s", c.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("search %q: unexpected status code: %d", query, res.StatusCode)
	}

	var body searchBody
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	return body.Result, nil
}
