// Package marketdata wraps the external market-data provider: symbol lookup to
// a quote/profile and daily OHLCV history for a date range.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"stockstalk/internal/config"
)

// ErrSymbolNotFound is returned when the provider has no data for a symbol.
var ErrSymbolNotFound = errors.New("symbol not found")

// Quote is the provider's current view of a symbol.
type Quote struct {
	Symbol    string
	ShortName string
	LongName  string
	Price     *float64
	Extended  Extended
}

// DisplayName returns the short name, then the long name, then fallback.
func (q *Quote) DisplayName(fallback string) string {
	if q.ShortName != "" {
		return q.ShortName
	}
	if q.LongName != "" {
		return q.LongName
	}
	return fallback
}

// Extended holds the descriptive quote fields returned alongside a detail
// refresh. Any field the provider omits stays nil.
type Extended struct {
	MarketCap     *float64 `json:"marketCap"`
	PERatio       *float64 `json:"peRatio"`
	DayHigh       *float64 `json:"dayHigh"`
	DayLow        *float64 `json:"dayLow"`
	Volume        *float64 `json:"volume"`
	AvgVolume     *float64 `json:"avgVolume"`
	YearHigh      *float64 `json:"yearHigh"`
	YearLow       *float64 `json:"yearLow"`
	DividendYield *float64 `json:"dividendYield"`
	Sector        *string  `json:"sector"`
	Industry      *string  `json:"industry"`
	PriceChange   *float64 `json:"priceChange"`
	PercentChange *float64 `json:"percentChange"`
}

// Bar is one daily OHLCV record. Date is midnight UTC of the trading day.
type Bar struct {
	Date   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}

// Gateway resolves symbols and fetches daily bars.
type Gateway interface {
	// Name returns the provider's display name.
	Name() string

	// Profile returns the current quote for symbol, or ErrSymbolNotFound.
	Profile(ctx context.Context, symbol string) (*Quote, error)

	// History returns daily bars in [start, end), oldest first.
	History(ctx context.Context, symbol string, start, end time.Time) ([]Bar, error)
}

// ProviderError reports a failed provider call for one symbol.
type ProviderError struct {
	Provider string
	Symbol   string
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Symbol, e.Err)
}

// Unwrap exposes the cause so errors.Is(err, ErrSymbolNotFound) works.
func (e *ProviderError) Unwrap() error { return e.Err }

// New builds the gateway selected by cfg.MarketDataProvider.
func New(cfg *config.Config) Gateway {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	switch cfg.MarketDataProvider {
	case config.ProviderFinanceGo:
		return NewFinanceGoGateway(httpClient)
	default:
		gw := NewYahooGateway(httpClient)
		if cfg.YahooBaseURL != "" {
			gw.SetBaseURL(cfg.YahooBaseURL)
		}
		return gw
	}
}

// roundPrice converts a provider float to a two-decimal price.
func roundPrice(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// tradingDay truncates t to midnight UTC of its calendar day.
func tradingDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
