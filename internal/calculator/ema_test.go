package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TrendScanner/internal/model"
)

func TestCalculateEMASeries_SeededWithFirstPrice(t *testing.T) {
	prices := []float64{10, 11, 12, 13}
	out, err := CalculateEMASeries(prices, 3)
	require.NoError(t, err)
	require.Len(t, out, len(prices))

	// alpha = 0.5
	assert.Equal(t, 10.0, out[0])
	assert.InDelta(t, 10.5, out[1], 1e-12)
	assert.InDelta(t, 11.25, out[2], 1e-12)
	assert.InDelta(t, 12.125, out[3], 1e-12)
}

func TestCalculateEMASeries_LengthMatchesInput(t *testing.T) {
	for _, n := range []int{1, 2, 50, 250} {
		prices := make([]float64, n)
		for i := range prices {
			prices[i] = float64(100 + i%7)
		}
		out, err := CalculateEMASeries(prices, 30)
		require.NoError(t, err)
		assert.Len(t, out, n)
		assert.Equal(t, prices[0], out[0])
	}
}

func TestCalculateEMASeries_SpanOneTracksPrice(t *testing.T) {
	prices := []float64{5, 9, 2, 7}
	out, err := CalculateEMASeries(prices, 1)
	require.NoError(t, err)
	assert.Equal(t, prices, out)
}

func TestCalculateEMASeries_InvalidInput(t *testing.T) {
	_, err := CalculateEMASeries(nil, 30)
	assert.Error(t, err)

	_, err = CalculateEMASeries([]float64{1}, 0)
	assert.Error(t, err)
}

func TestCalculateEMA_ConstantSeries(t *testing.T) {
	prices := make([]float64, 200)
	for i := range prices {
		prices[i] = 42
	}
	v, err := CalculateEMA(prices, 120)
	require.NoError(t, err)
	assert.InDelta(t, 42.0, v, 1e-9)
}

func TestCalculateTrendIndicators_RisingSeries(t *testing.T) {
	bars := make([]model.OHLCV, 130)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = model.OHLCV{Open: c, High: c + 1, Low: c - 1, Close: c}
	}
	ind, err := CalculateTrendIndicators(bars)
	require.NoError(t, err)

	assert.Greater(t, ind.EMA30, ind.EMA60)
	assert.Greater(t, ind.EMA60, ind.EMA120)
	assert.Equal(t, 228.0, ind.LastLow)
	assert.Equal(t, 230.0, ind.LastHigh)
	assert.Equal(t, 229.0, ind.LastClose)
	assert.Equal(t, 130, ind.Bars)
}

func TestCalculateTrendIndicators_Empty(t *testing.T) {
	_, err := CalculateTrendIndicators(nil)
	assert.Error(t, err)
}
