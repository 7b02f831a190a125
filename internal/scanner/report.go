package scanner

import (
	"errors"
	"fmt"
	"time"

	"TrendScanner/internal/model"
)

// ErrInsufficientData marks a symbol whose history is empty or shorter than model.MinHistoryBars.
// It is a normal non-qualifying outcome, not a failure.
var ErrInsufficientData = errors.New("insufficient price history")

// SymbolFailure records why one symbol could not be evaluated.
type SymbolFailure struct {
	Symbol string
	Err    error
}

// ScanReport accumulates the outcome of one scan run.
type ScanReport struct {
	Results      model.SymbolSet
	Signals      []*model.TrendSignal // qualifying signals, in scan order
	Insufficient []string
	Failures     []SymbolFailure
	Attempted    int
	StartedAt    time.Time
	FinishedAt   time.Time
}

func newScanReport(now time.Time) *ScanReport {
	return &ScanReport{
		Results:   model.NewSymbolSet(),
		StartedAt: now,
	}
}

// collect folds a qualifying signal into the result set.
func (r *ScanReport) collect(sig *model.TrendSignal) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("collect result: %v", p)
		}
	}()
	r.Results.Add(sig.Symbol)
	r.Signals = append(r.Signals, sig)
	return nil
}
