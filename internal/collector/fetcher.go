package collector

import (
	"context"

	"github.com/shopspring/decimal"

	"TrendScanner/internal/model"
)

// Fetcher defines the interface for fetching daily price history.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
	Name() string
}

// QuoteFetcher looks up a symbol's market capitalisation.
type QuoteFetcher interface {
	FetchMarketCap(ctx context.Context, symbol string) (decimal.Decimal, error)
}
