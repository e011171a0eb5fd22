// Package config loads and validates the application configuration.
//
// Values are read by viper from a TOML file, with environment variables
// (SCOUT_ prefix) taking precedence. Money amounts are configured as
// strings and parsed to decimals so no precision is lost on load.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"asin-scout/internal/decision"
	"asin-scout/internal/fees"
	"asin-scout/internal/risk"
)

// Config stores all configuration for the application.
type Config struct {
	Provider ProviderConfig
	Batch    BatchConfig
	IO       IOConfig
	Storage  StorageConfig
	Fees     FeesConfig
	Risk     RiskConfig
	Policy   PolicyConfig
}

// ProviderConfig defines the market data provider settings.
type ProviderConfig struct {
	BaseURL          string `mapstructure:"base_url"`
	APIKey           string `mapstructure:"api_key"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
	ArchiveSnapshots bool   `mapstructure:"archive_snapshots"`
}

// Timeout returns the provider HTTP timeout.
func (c ProviderConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BatchConfig defines the batch evaluation settings.
type BatchConfig struct {
	MaxInFlight      int    `mapstructure:"max_in_flight"`
	MaxRetries       uint64 `mapstructure:"max_retries"`
	InitialBackoffMS int    `mapstructure:"initial_backoff_ms"`
	MaxBackoffMS     int    `mapstructure:"max_backoff_ms"`
}

// InitialBackoff returns the first retry delay.
func (c BatchConfig) InitialBackoff() time.Duration {
	return time.Duration(c.InitialBackoffMS) * time.Millisecond
}

// MaxBackoff returns the retry delay ceiling.
func (c BatchConfig) MaxBackoff() time.Duration {
	return time.Duration(c.MaxBackoffMS) * time.Millisecond
}

// IOConfig defines input and output file locations.
type IOConfig struct {
	InputPath     string `mapstructure:"input_path"`
	OutputDir     string `mapstructure:"output_dir"`
	WriteWorkbook bool   `mapstructure:"write_workbook"`
}

// StorageConfig defines optional persistence backends. An empty DSN
// disables the corresponding backend.
type StorageConfig struct {
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	ClickHouseDSN string `mapstructure:"clickhouse_dsn"`
}

// FeesConfig defines the marketplace fee schedule.
type FeesConfig struct {
	ReferralBands    []ReferralBandConfig    `mapstructure:"referral_bands"`
	FulfillmentTiers []FulfillmentTierConfig `mapstructure:"fulfillment_tiers"`
	OversizeFee      string                  `mapstructure:"oversize_fee"`
	UnknownSizeFee   string                  `mapstructure:"unknown_size_fee"`
}

// ReferralBandConfig is one referral fee band. An empty MaxPrice marks
// the open-ended top band.
type ReferralBandConfig struct {
	MaxPrice string `mapstructure:"max_price"`
	Rate     string `mapstructure:"rate"`
}

// FulfillmentTierConfig is one fulfillment fee size tier.
type FulfillmentTierConfig struct {
	MaxDimensionSumCM float64 `mapstructure:"max_dimension_sum_cm"`
	MaxWeightKG       float64 `mapstructure:"max_weight_kg"`
	Fee               string  `mapstructure:"fee"`
}

// Schedule converts the fee configuration to a validated fee schedule.
func (c FeesConfig) Schedule() (fees.Schedule, error) {
	var s fees.Schedule

	for i, band := range c.ReferralBands {
		rate, err := decimal.NewFromString(band.Rate)
		if err != nil {
			return s, fmt.Errorf("config: referral band %d rate: %w", i, err)
		}
		b := fees.ReferralBand{Rate: rate}
		if band.MaxPrice != "" {
			maxPrice, err := decimal.NewFromString(band.MaxPrice)
			if err != nil {
				return s, fmt.Errorf("config: referral band %d max_price: %w", i, err)
			}
			b.MaxPrice = &maxPrice
		}
		s.ReferralBands = append(s.ReferralBands, b)
	}

	for i, tier := range c.FulfillmentTiers {
		fee, err := decimal.NewFromString(tier.Fee)
		if err != nil {
			return s, fmt.Errorf("config: fulfillment tier %d fee: %w", i, err)
		}
		s.FulfillmentTiers = append(s.FulfillmentTiers, fees.FulfillmentTier{
			MaxDimensionSumCM: tier.MaxDimensionSumCM,
			MaxWeightKG:       tier.MaxWeightKG,
			Fee:               fee,
		})
	}

	var err error
	if s.OversizeFee, err = decimal.NewFromString(c.OversizeFee); err != nil {
		return s, fmt.Errorf("config: oversize_fee: %w", err)
	}
	if s.UnknownSizeFee, err = decimal.NewFromString(c.UnknownSizeFee); err != nil {
		return s, fmt.Errorf("config: unknown_size_fee: %w", err)
	}

	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("config: fee schedule: %w", err)
	}
	return s, nil
}

// RiskConfig defines the risk flag thresholds.
type RiskConfig struct {
	MaxVolatility float64 `mapstructure:"max_volatility"`
	MaxOffers     int     `mapstructure:"max_offers"`
	WorstRank     int64   `mapstructure:"worst_rank"`
}

// Thresholds converts the risk configuration to validated thresholds.
func (c RiskConfig) Thresholds() (risk.Thresholds, error) {
	t := risk.Thresholds{
		MaxVolatility: c.MaxVolatility,
		MaxOffers:     c.MaxOffers,
		WorstRank:     c.WorstRank,
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("config: risk thresholds: %w", err)
	}
	return t, nil
}

// PolicyConfig defines the accept/reject policy.
type PolicyConfig struct {
	MinMarginPct        string `mapstructure:"min_margin_pct"`
	MinROIPct           string `mapstructure:"min_roi_pct"`
	MinNetProfit        string `mapstructure:"min_net_profit"`
	RejectOnVolatility  bool   `mapstructure:"reject_on_volatility"`
	RejectOnCompetition bool   `mapstructure:"reject_on_competition"`
	RejectOnRank        bool   `mapstructure:"reject_on_rank"`
	RejectOnAmazonBB    bool   `mapstructure:"reject_on_amazon_buybox"`
}

// Policy converts the policy configuration to a validated decision policy.
func (c PolicyConfig) Policy() (decision.Policy, error) {
	var p decision.Policy
	var err error

	if p.MinMarginPct, err = decimal.NewFromString(c.MinMarginPct); err != nil {
		return p, fmt.Errorf("config: min_margin_pct: %w", err)
	}
	if p.MinROIPct, err = decimal.NewFromString(c.MinROIPct); err != nil {
		return p, fmt.Errorf("config: min_roi_pct: %w", err)
	}
	if p.MinNetProfit, err = decimal.NewFromString(c.MinNetProfit); err != nil {
		return p, fmt.Errorf("config: min_net_profit: %w", err)
	}

	p.RejectOnVolatility = c.RejectOnVolatility
	p.RejectOnCompetition = c.RejectOnCompetition
	p.RejectOnRank = c.RejectOnRank
	p.RejectOnAmazonBuyBox = c.RejectOnAmazonBB

	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("config: policy: %w", err)
	}
	return p, nil
}

// Load reads the configuration file at path and applies environment
// overrides. Validation covers presence and shape only; the derived
// Schedule, Thresholds and Policy methods run the domain validation.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	v.SetEnvPrefix("SCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider.base_url", "https://api.keepa.com")
	v.SetDefault("provider.timeout_seconds", 30)
	v.SetDefault("batch.max_in_flight", 4)
	v.SetDefault("batch.max_retries", 2)
	v.SetDefault("batch.initial_backoff_ms", 500)
	v.SetDefault("batch.max_backoff_ms", 30000)
	v.SetDefault("io.output_dir", ".")
	v.SetDefault("fees.oversize_fee", "12.00")
	v.SetDefault("fees.unknown_size_fee", "2.00")
}

// Validate checks the fields that have no domain-level validator.
func (c Config) Validate() error {
	if c.Provider.APIKey == "" {
		return fmt.Errorf("config: provider.api_key is required")
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("config: provider.base_url is required")
	}
	if c.Provider.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: provider.timeout_seconds must be positive")
	}
	if c.Provider.ArchiveSnapshots && c.Storage.ClickHouseDSN == "" {
		return fmt.Errorf("config: provider.archive_snapshots requires storage.clickhouse_dsn")
	}
	if c.IO.InputPath == "" {
		return fmt.Errorf("config: io.input_path is required")
	}
	if c.Batch.MaxInFlight <= 0 {
		return fmt.Errorf("config: batch.max_in_flight must be positive")
	}
	if c.Batch.InitialBackoffMS <= 0 || c.Batch.MaxBackoffMS < c.Batch.InitialBackoffMS {
		return fmt.Errorf("config: batch backoff window is invalid")
	}
	return nil
}
