package finnhub_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	finnhub "investtrack/internal/provider/finnhub"
)

func TestNewClient(t *testing.T) {
	t.Parallel()

	// Assert: a valid key should return a client.
	client, err := finnhub.NewClient("test")
	require.NoErrorf(t, err, "unexpected error: %v", err)
	require.NotNilf(t, client, "unexpected nil client")
}

func TestGetQuote(t *testing.T) {
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
			require.Contains(t, req.URL.Path, "/quote")
			require.Equal(t, "test-key", req.URL.Query().Get("token"))
			require.Equal(t, "AAPL", req.URL.Query().Get("symbol"))

			buffer := &bytes.Buffer{}
			require.NoError(t, json.NewEncoder(buffer).Encode(map[string]any{
				"c": 150.25, "h": 151, "l": 149.5, "o": 150, "pc": 148.9,
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
	require.NotNil(t, client)

	// Act: call GetQuote
	quote, err := client.GetQuote(t.Context(), "AAPL")
	require.NoError(t, err)

	// Assert: the current price carries the wire precision.
	require.Equal(t, "150.25", quote.Current.String())
	require.Equal(t, "148.9", quote.PreviousClose.String())
}

func TestGetQuote_Non2xxStatus(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method to return a rate-limit response
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusTooManyRequests,
				Body:       io.NopCloser(bytes.NewBufferString(`{"error":"limit"}`)),
			}, nil
		}).
		Times(1)

	// Arrange: setup a new Finnhub API client
	client, err := finnhub.NewClient("test-key", finnhub.WithHTTPClient(httpClient))
	require.NoError(t, err)

	// Act: call GetQuote
	_, err = client.GetQuote(t.Context(), "AAPL")

	// Assert: the status code surfaces as an error.
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}

func TestGetQuote_ErrPerformingRequest(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method to fail
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(nil, fmt.Errorf("connection refused")).
		Times(1)

	// Arrange: setup a new Finnhub API client
	client, err := finnhub.NewClient("test-key", finnhub.WithHTTPClient(httpClient))
	require.NoError(t, err)

	// Act: call GetQuote
	_, err = client.GetQuote(t.Context(), "AAPL")

	// Assert: the transport error is wrapped.
	require.Error(t, err)
	require.Contains(t, err.Error(), "performing request")
}

func TestGetQuote_MalformedBody(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method with an invalid payload
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString("not json")),
			}, nil
		}).
		Times(1)

	// Arrange: setup a new Finnhub API client
	client, err := finnhub.NewClient("test-key", finnhub.WithHTTPClient(httpClient))
	require.NoError(t, err)

	// Act: call GetQuote
	_, err = client.GetQuote(t.Context(), "AAPL")

	// Assert: decoding fails.
	require.Error(t, err)
	require.Contains(t, err.Error(), "decoding")
}

func TestWithBaseURL(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock http client
	httpClient := NewMockHTTPClient(ctrl)

	// Arrange: define a base url
	baseURL := "http://localhost:8080"

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Truef(t, req.URL.String()[:len(baseURL)] == baseURL, "expected url to start with base url, received: %s", req.URL.String())

			buffer := &bytes.Buffer{}
			require.NoError(t, json.NewEncoder(buffer).Encode(map[string]any{"c": 1}))

			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(buffer),
			}, nil
		}).
		Times(1)

	// Arrange: create a new client with an overridden base URL.
	client, err := finnhub.NewClient("test", finnhub.WithHTTPClient(httpClient), finnhub.WithBaseURL(baseURL))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call GetQuote against the overridden base URL.
	_, err = client.GetQuote(t.Context(), "AAPL")
	require.NoError(t, err)
}

func TestWithHeader(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock http client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "bar", req.Header.Get("foo"))

			buffer := &bytes.Buffer{}
			require.NoError(t, json.NewEncoder(buffer).Encode(map[string]any{"c": 1}))
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(buffer),
			}, nil
		}).
		Times(1)

	// Arrange: create a new client with a custom header.
	client, err := finnhub.NewClient("test", finnhub.WithHTTPClient(httpClient), finnhub.WithHeader(http.Header{
		"foo": []string{"bar"},
	}))
	require.NoError(t, err)
	require.NotNil(t, client)

	// Act: call GetQuote with the custom header.
	_, err = client.GetQuote(t.Context(), "AAPL")
	require.NoError(t, err)
}
