package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gameprice-tracker/internal/domain"
	"gameprice-tracker/internal/history"
	"gameprice-tracker/internal/metrics"
	"gameprice-tracker/internal/search"
	"gameprice-tracker/internal/storage"
)

type fakeMetadata struct{}

func (fakeMetadata) Fetch(context.Context, string) domain.GameMetadata {
	return domain.GameMetadata{Title: "Elden Ring", CoverImageURL: "https://img.invalid/er.jpg"}
}

type fakePrices struct {
	data domain.GameData
	err  error
}

func (f fakePrices) FetchPrices(context.Context, string, []string) (domain.GameData, error) {
	return f.data, f.err
}

func newTestServer(prices fakePrices) (*Server, *history.Store) {
	store := history.NewStore(storage.NewMemory(), metrics.NewRegistry(), zerolog.Nop())
	svc := search.NewService(fakeMetadata{}, prices, store, metrics.NewRegistry(), zerolog.Nop())
	rates := domain.ExchangeRates{"USD": 1, "SGD": 1.35, "TRY": 32.5, "IDR": 16200}
	return New(svc, store, rates, zerolog.Nop()), store
}

func doRequest(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	srv.Register(mux)

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandleSearch(t *testing.T) {
	prices := fakePrices{data: domain.GameData{
		Title:       "elden ring",
		Description: "An action RPG.",
		Prices: []domain.PriceInfo{
			{Region: "United States", RegionCode: "US", Currency: "USD", Amount: 59.99, OriginalAmount: 59.99},
			{Region: "Turkey", RegionCode: "TR", Currency: "TRY", Amount: 999, OriginalAmount: 1299},
		},
	}}
	srv, _ := newTestServer(prices)

	rec := doRequest(t, srv, http.MethodPost, "/api/search", `{"query": "elden ring", "regions": ["US", "TR"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp searchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "Elden Ring", resp.Title, "metadata title overlays provider title")
	assert.Equal(t, "USD", resp.DisplayCurrency)
	require.Len(t, resp.Prices, 2)
	// cheapest first: 999 TRY ~= 30.74 USD
	assert.Equal(t, "TR", resp.Prices[0].RegionCode)
	assert.InDelta(t, 30.74, resp.Prices[0].Converted, 0.01)
	assert.Contains(t, resp.Prices[0].Display, "30.74")
}

func TestHandleSearch_Validation(t *testing.T) {
	srv, _ := newTestServer(fakePrices{})

	t.Run("bad json", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/search", "{nope")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty query", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/search", `{"query": "  ", "regions": ["US"]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no regions", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/search", `{"query": "elden ring", "regions": []}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleSearch_ErrorMapping(t *testing.T) {
	t.Run("missing credential", func(t *testing.T) {
		srv, _ := newTestServer(fakePrices{err: domain.ErrMissingCredential})
		rec := doRequest(t, srv, http.MethodPost, "/api/search", `{"query": "q", "regions": ["US"]}`)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("provider error", func(t *testing.T) {
		srv, _ := newTestServer(fakePrices{err: &domain.ProviderError{StatusCode: 429}})
		rec := doRequest(t, srv, http.MethodPost, "/api/search", `{"query": "q", "regions": ["US"]}`)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("schema violation", func(t *testing.T) {
		srv, _ := newTestServer(fakePrices{err: &domain.SchemaError{Reason: "empty"}})
		rec := doRequest(t, srv, http.MethodPost, "/api/search", `{"query": "q", "regions": ["US"]}`)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestHandleRegions(t *testing.T) {
	srv, _ := newTestServer(fakePrices{})

	rec := doRequest(t, srv, http.MethodGet, "/api/regions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []domain.Region
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 4)
	assert.Equal(t, "US", got[0].Code)
}

func TestHandleRates(t *testing.T) {
	srv, _ := newTestServer(fakePrices{})

	rec := doRequest(t, srv, http.MethodGet, "/api/rates", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got domain.ExchangeRates
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1.35, got["SGD"])
}

func TestHandleHistory(t *testing.T) {
	srv, store := newTestServer(fakePrices{})
	store.Record(context.Background(), "Elden Ring",
		[]domain.PriceInfo{{RegionCode: "US", Currency: "USD", Amount: 49.99}}, "2024-06-01")

	t.Run("missing params", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/history?title=x", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("recorded series", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/history?title=elden+ring&region=US", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var got []domain.HistoryPoint
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, 49.99, got[0].Amount)
	})

	t.Run("unknown game is empty, not an error", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/history?title=nope&region=US", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
	})
}
