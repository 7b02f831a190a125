package strategy

import "TrendScanner/internal/model"

// Qualifies reports whether a symbol passes the trend filter.
// The EMAs must be strictly stacked (ema30 > ema60 > ema120) and the last bar must
// straddle the band: its low below ema30 and its high above ema120.
func Qualifies(ema30, ema60, ema120, lastLow, lastHigh float64) bool {
	return aligned(ema30, ema60, ema120) && straddled(ema30, ema120, lastLow, lastHigh)
}

func aligned(ema30, ema60, ema120 float64) bool {
	return ema30 > ema60 && ema60 > ema120
}

func straddled(ema30, ema120, lastLow, lastHigh float64) bool {
	return lastLow < ema30 && lastHigh > ema120
}

// Evaluate applies the trend filter to precomputed indicators.
// It does not check the history length; that is done before indicators are computed.
func Evaluate(symbol string, ind model.TrendIndicators) *model.TrendSignal {
	sig := &model.TrendSignal{
		Symbol:     symbol,
		Indicators: ind,
		Aligned:    aligned(ind.EMA30, ind.EMA60, ind.EMA120),
		Straddled:  straddled(ind.EMA30, ind.EMA120, ind.LastLow, ind.LastHigh),
	}
	sig.Qualified = sig.Aligned && sig.Straddled
	return sig
}
