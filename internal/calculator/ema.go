package calculator

import (
	"errors"

	"TrendScanner/internal/model"
)

// CalculateEMASeries computes the exponential moving average of prices over the given span.
// The first output equals the first price; each later value is alpha*price + (1-alpha)*previous,
// with alpha = 2/(span+1). The result has the same length as prices.
func CalculateEMASeries(prices []float64, span int) ([]float64, error) {
	if span < 1 {
		return nil, errors.New("span must be at least 1")
	}
	if len(prices) == 0 {
		return nil, errors.New("no prices for EMA calculation")
	}
	alpha := 2.0 / float64(span+1)
	out := make([]float64, len(prices))
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = alpha*prices[i] + (1-alpha)*out[i-1]
	}
	return out, nil
}

// CalculateEMA returns only the most recent EMA value.
func CalculateEMA(prices []float64, span int) (float64, error) {
	series, err := CalculateEMASeries(prices, span)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}

// CalculateTrendIndicators computes EMA30/60/120 over daily closes and takes the last bar's range.
// The caller is responsible for checking the minimum history length.
func CalculateTrendIndicators(dailyBars []model.OHLCV) (model.TrendIndicators, error) {
	if len(dailyBars) == 0 {
		return model.TrendIndicators{}, errors.New("no daily bars provided")
	}
	closes := extractCloses(dailyBars)

	ema30, err := CalculateEMA(closes, model.ShortSpan)
	if err != nil {
		return model.TrendIndicators{}, err
	}
	ema60, err := CalculateEMA(closes, model.MediumSpan)
	if err != nil {
		return model.TrendIndicators{}, err
	}
	ema120, err := CalculateEMA(closes, model.LongSpan)
	if err != nil {
		return model.TrendIndicators{}, err
	}

	last := dailyBars[len(dailyBars)-1]
	return model.TrendIndicators{
		EMA30:     ema30,
		EMA60:     ema60,
		EMA120:    ema120,
		LastLow:   last.Low,
		LastHigh:  last.High,
		LastClose: last.Close,
		Bars:      len(dailyBars),
	}, nil
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
