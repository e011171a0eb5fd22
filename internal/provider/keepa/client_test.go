package keepa

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asin-scout/internal/provider"
)

const sampleProduct = `{
	"products": [{
		"asin": "B00TEST001",
		"title": "Sample Product",
		"stats": {
			"current": 2480,
			"avg30": 2450,
			"avg90": 2400,
			"avg180": -1,
			"buyBoxPrice": 2480,
			"buyBoxIsAmazon": false,
			"salesRank": 45210,
			"rankCoefficient": 0.18,
			"offerCount": 12,
			"weightGrams": 450,
			"packageDims": [210, 148, 40]
		}
	}]
}`

func TestFetchSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/product", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "B00TEST001", r.URL.Query().Get("asin"))
		_, _ = w.Write([]byte(sampleProduct))
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key", 0)

	snap, err := c.FetchSnapshot(context.Background(), "B00TEST001")
	require.NoError(t, err)

	assert.Equal(t, "B00TEST001", snap.Identifier)
	assert.Equal(t, "Sample Product", snap.Title)

	require.NotNil(t, snap.BuyBoxPrice)
	assert.True(t, snap.BuyBoxPrice.Equal(decimal.RequireFromString("24.80")), "buybox = %s", snap.BuyBoxPrice)
	require.NotNil(t, snap.AvgPrice30d)
	assert.True(t, snap.AvgPrice30d.Equal(decimal.RequireFromString("24.50")))

	// -1 on the wire means absent, never a price.
	assert.Nil(t, snap.AvgPrice180d)

	require.NotNil(t, snap.SalesRank)
	assert.Equal(t, int64(45210), *snap.SalesRank)
	require.NotNil(t, snap.RankVolatility)
	assert.InDelta(t, 0.18, *snap.RankVolatility, 1e-9)
	assert.Equal(t, 12, snap.OfferCount)

	require.NotNil(t, snap.WeightKG)
	assert.InDelta(t, 0.45, *snap.WeightKG, 1e-9)
	require.Len(t, snap.DimensionsCM, 3)
	assert.InDelta(t, 21.0, snap.DimensionsCM[0], 1e-9)

	require.NoError(t, snap.Validate())
}

func TestFetchSnapshot_SparseStats(t *testing.T) {
	sparse := `{"products":[{"asin":"B00TEST002","title":"Sparse","stats":{
		"current":-1,"avg30":-1,"avg90":1700,"avg180":-1,"buyBoxPrice":-1,
		"buyBoxIsAmazon":true,"salesRank":-1,"offerCount":0}}]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sparse))
	}))
	defer srv.Close()

	snap, err := New(srv.URL, "k", 0).FetchSnapshot(context.Background(), "B00TEST002")
	require.NoError(t, err)

	assert.Nil(t, snap.BuyBoxPrice)
	assert.Nil(t, snap.CurrentPrice)
	assert.Nil(t, snap.SalesRank)
	assert.Nil(t, snap.RankVolatility, "absent rank history stays absent")
	assert.True(t, snap.BuyBoxIsAmazon)
	require.NotNil(t, snap.AvgPrice90d)
	assert.True(t, snap.AvgPrice90d.Equal(decimal.RequireFromString("17.00")))
}

func TestFetchSnapshot_ErrorMapping(t *testing.T) {
	cases := []struct {
		name      string
		status    int
		body      string
		wantErr   error
		retryable bool
	}{
		{"not found", http.StatusNotFound, "", provider.ErrNotFound, false},
		{"rate limited", http.StatusTooManyRequests, "", provider.ErrRateLimited, true},
		{"server error", http.StatusBadGateway, "", provider.ErrTransient, true},
		{"empty products", http.StatusOK, `{"products":[]}`, provider.ErrNotFound, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, "k", 0).FetchSnapshot(context.Background(), "B00TEST001")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr), "want %v, got %v", tc.wantErr, err)
			assert.Equal(t, tc.retryable, provider.Retryable(err))
		})
	}
}

func TestFetchSnapshot_MalformedResponseNotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"products": [`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "k", 0).FetchSnapshot(context.Background(), "B00TEST001")
	require.Error(t, err)
	assert.False(t, provider.Retryable(err))
}

func TestFetchSnapshot_NetworkErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := New(srv.URL, "k", 0).FetchSnapshot(context.Background(), "B00TEST001")
	require.Error(t, err)
	assert.True(t, errors.Is(err, provider.ErrTransient))
}
