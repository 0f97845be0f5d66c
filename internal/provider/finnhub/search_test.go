package finnhub_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	finnhub "investtrack/internal/provider/finnhub"
)

func TestSearch(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, http.MethodGet, req.Method)
			require.Contains(t, req.URL.Path, "/search")
			require.Equal(t, "apple", req.URL.Query().Get("q"))
			require.Equal(t, "test-key", req.URL.Query().Get("token"))

			buffer := &bytes.Buffer{}
			require.NoError(t, json.NewEncoder(buffer).Encode(map[string]any{
				"count": 2,
				"result": []map[string]string{
					{"symbol": "AAPL", "description": "APPLE INC", "type": "Common Stock"},
					{"symbol": "APC.BE", "description": "APPLE INC", "type": "Common Stock"},
				},
			}))

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(buffer),
			}, nil
		}).
		Times(1)

	// Arrange: setup a new Finnhub API client
	client, err := finnhub.NewClient("test-key", finnhub.WithHTTPClient(httpClient))
	require.NoError(t, err)

	// Act: call Search
	results, err := client.Search(t.Context(), "apple")
	require.NoError(t, err)

	// Assert: results come back unfiltered in provider order.
	require.Len(t, results, 2)
	require.Equal(t, "AAPL", results[0].Symbol)
	require.Equal(t, "APC.BE", results[1].Symbol)
	require.Equal(t, "Common Stock", results[0].Type)
}

func TestSearch_Non2xxStatus(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method to return an auth failure
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusUnauthorized,
				Body:       io.NopCloser(bytes.NewBufferString(`{"error":"Invalid API key"}`)),
			}, nil
		}).
		Times(1)

	// Arrange: setup a new Finnhub API client
	client, err := finnhub.NewClient("bad-key", finnhub.WithHTTPClient(httpClient))
	require.NoError(t, err)

	// Act: call Search
	_, err = client.Search(t.Context(), "apple")

	// Assert: the status surfaces as an error.
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
}
