// Package keepa implements the market-data provider contract against a
// Keepa-style product stats API. Wire sentinels (-1 for absent prices and
// ranks) are converted to nil pointers here; they never cross into the
// domain model.
package keepa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"asin-scout/internal/domain"
	"asin-scout/internal/provider"
)

// DefaultTimeout bounds one product lookup.
const DefaultTimeout = 30 * time.Second

// Client fetches product snapshots over the provider's REST API.
type Client struct {
	apiKey string
	client *resty.Client
}

// New creates a Client for the given API endpoint. A zero timeout falls back
// to DefaultTimeout.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)

	return &Client{
		apiKey: apiKey,
		client: client,
	}
}

// Compile-time interface check.
var _ provider.Provider = (*Client)(nil)

// productResponse is the provider's wire envelope.
type productResponse struct {
	Products []wireProduct `json:"products"`
}

type wireProduct struct {
	ASIN  string    `json:"asin"`
	Title string    `json:"title"`
	Stats wireStats `json:"stats"`
}

// wireStats carries provider conventions: prices in minor currency units,
// -1 meaning "no data" for integer fields.
type wireStats struct {
	Current        int64    `json:"current"`
	Avg30          int64    `json:"avg30"`
	Avg90          int64    `json:"avg90"`
	Avg180         int64    `json:"avg180"`
	BuyBoxPrice    int64    `json:"buyBoxPrice"`
	BuyBoxIsAmazon bool     `json:"buyBoxIsAmazon"`
	SalesRank      int64    `json:"salesRank"`
	RankCV         *float64 `json:"rankCoefficient"`
	OfferCount     int      `json:"offerCount"`
	WeightGrams    int      `json:"weightGrams"`
	PackageDimsMM  []int    `json:"packageDims"`
}

// FetchSnapshot retrieves one product's market snapshot.
func (c *Client) FetchSnapshot(ctx context.Context, identifier string) (*domain.MarketSnapshot, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"key":    c.apiKey,
			"asin":   identifier,
			"stats":  "180",
			"buybox": "1",
		}).
		Get("/product")
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w: %v", identifier, provider.ErrTransient, err)
	}

	switch {
	case resp.StatusCode() == http.StatusOK:
		// fall through to decoding
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("fetch %s: %w", identifier, provider.ErrNotFound)
	case resp.StatusCode() == http.StatusTooManyRequests:
		return nil, fmt.Errorf("fetch %s: %w", identifier, provider.ErrRateLimited)
	case resp.StatusCode() >= http.StatusInternalServerError:
		return nil, fmt.Errorf("fetch %s: %w: status %d", identifier, provider.ErrTransient, resp.StatusCode())
	default:
		// Client-side errors are permanent; retrying cannot help.
		return nil, fmt.Errorf("fetch %s: unexpected status %d", identifier, resp.StatusCode())
	}

	var body productResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("fetch %s: malformed response: %w", identifier, err)
	}
	if len(body.Products) == 0 {
		return nil, fmt.Errorf("fetch %s: %w", identifier, provider.ErrNotFound)
	}

	return toSnapshot(identifier, body.Products[0]), nil
}

func toSnapshot(identifier string, p wireProduct) *domain.MarketSnapshot {
	s := p.Stats

	snap := &domain.MarketSnapshot{
		Identifier:     identifier,
		Title:          p.Title,
		CurrentPrice:   minorUnitsToPrice(s.Current),
		AvgPrice30d:    minorUnitsToPrice(s.Avg30),
		AvgPrice90d:    minorUnitsToPrice(s.Avg90),
		AvgPrice180d:   minorUnitsToPrice(s.Avg180),
		BuyBoxPrice:    minorUnitsToPrice(s.BuyBoxPrice),
		BuyBoxIsAmazon: s.BuyBoxIsAmazon,
		RankVolatility: s.RankCV,
		OfferCount:     s.OfferCount,
	}

	if s.SalesRank > 0 {
		rank := s.SalesRank
		snap.SalesRank = &rank
	}
	if s.WeightGrams > 0 {
		kg := float64(s.WeightGrams) / 1000
		snap.WeightKG = &kg
	}
	if len(s.PackageDimsMM) == 3 {
		snap.DimensionsCM = []float64{
			float64(s.PackageDimsMM[0]) / 10,
			float64(s.PackageDimsMM[1]) / 10,
			float64(s.PackageDimsMM[2]) / 10,
		}
	}
	return snap
}

// minorUnitsToPrice converts a wire price in minor currency units to a
// decimal, treating negative sentinels as absent.
func minorUnitsToPrice(v int64) *decimal.Decimal {
	if v < 0 {
		return nil
	}
	d := decimal.New(v, -2)
	return &d
}
