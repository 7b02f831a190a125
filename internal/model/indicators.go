package model

// EMA spans used by the trend filter.
const (
	ShortSpan  = 30
	MediumSpan = 60
	LongSpan   = 120
)

// MinHistoryBars is the shortest daily series that can be analysed.
const MinHistoryBars = LongSpan

// TrendIndicators holds the latest EMA values and the last bar's range for one symbol.
type TrendIndicators struct {
	EMA30     float64
	EMA60     float64
	EMA120    float64
	LastLow   float64
	LastHigh  float64
	LastClose float64
	Bars      int
}

// TrendSignal is the outcome of the trend filter for one symbol.
type TrendSignal struct {
	Symbol     string
	Indicators TrendIndicators
	Aligned    bool // EMA30 > EMA60 > EMA120
	Straddled  bool // last low below EMA30 and last high above EMA120
	Qualified  bool
}
