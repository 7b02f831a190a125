package collector

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"TrendScanner/internal/model"
)

// MockFetcher returns controllable fixed data for testing.
// A symbol with no entry in Bars or MarketCaps is an error.
type MockFetcher struct {
	Bars       map[string][]model.OHLCV
	Errors     map[string]error
	MarketCaps map[string]decimal.Decimal

	Calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, _ int) ([]model.OHLCV, error) {
	m.Calls = append(m.Calls, symbol)
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	bars, ok := m.Bars[symbol]
	if !ok {
		return nil, fmt.Errorf("mock: no bars for %s", symbol)
	}
	return bars, nil
}

func (m *MockFetcher) FetchMarketCap(_ context.Context, symbol string) (decimal.Decimal, error) {
	m.Calls = append(m.Calls, symbol)
	if err, ok := m.Errors[symbol]; ok {
		return decimal.Zero, err
	}
	mc, ok := m.MarketCaps[symbol]
	if !ok {
		return decimal.Zero, fmt.Errorf("mock: no market cap for %s", symbol)
	}
	return mc, nil
}
