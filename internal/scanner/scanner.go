package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"TrendScanner/internal/calculator"
	"TrendScanner/internal/collector"
	"TrendScanner/internal/model"
	"TrendScanner/internal/strategy"
)

const (
	DefaultDelay       = time.Second
	DefaultHistoryDays = 365

	progressEvery = 50
)

// Scanner walks the ticker universe one symbol at a time and applies the trend filter.
type Scanner struct {
	fetcher     collector.Fetcher
	delay       time.Duration
	historyDays int
	logger      *zap.Logger
	now         func() time.Time
	wait        func(ctx context.Context, d time.Duration) error
}

// Option configures the scanner.
type Option func(*Scanner)

// WithDelay sets the pause applied after every symbol attempt.
func WithDelay(d time.Duration) Option {
	return func(s *Scanner) {
		s.delay = d
	}
}

// WithHistoryDays sets how many calendar days of daily bars are requested per symbol.
func WithHistoryDays(days int) Option {
	return func(s *Scanner) {
		s.historyDays = days
	}
}

// NewScanner creates a Scanner with a one second delay and one year of history.
func NewScanner(fetcher collector.Fetcher, logger *zap.Logger, opts ...Option) *Scanner {
	s := &Scanner{
		fetcher:     fetcher,
		delay:       DefaultDelay,
		historyDays: DefaultHistoryDays,
		logger:      logger,
		now:         time.Now,
		wait:        collector.Pause,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan evaluates every symbol in order. Per-symbol failures are recorded in the report and never
// stop the run. If ctx is cancelled the loop stops and ctx.Err() is returned with no report.
func (s *Scanner) Scan(ctx context.Context, symbols []string) (*ScanReport, error) {
	report := newScanReport(s.now())
	s.logger.Info("scan started", zap.Int("symbols", len(symbols)), zap.String("source", s.fetcher.Name()))

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			s.logger.Info("scan interrupted", zap.Int("completed", report.Attempted))
			return nil, err
		}

		sig, err := s.analyze(ctx, symbol)
		report.Attempted++
		switch {
		case errors.Is(err, ErrInsufficientData):
			s.logger.Warn("insufficient data", zap.String("symbol", symbol), zap.Error(err))
			report.Insufficient = append(report.Insufficient, symbol)
		case err != nil:
			if ctx.Err() != nil {
				s.logger.Info("scan interrupted", zap.Int("completed", report.Attempted-1))
				return nil, ctx.Err()
			}
			s.logger.Error("analyze symbol failed", zap.String("symbol", symbol), zap.Error(err))
			report.Failures = append(report.Failures, SymbolFailure{Symbol: symbol, Err: err})
		case sig.Qualified:
			ind := sig.Indicators
			s.logger.Info("symbol qualified",
				zap.String("symbol", symbol),
				zap.Float64("ema30", ind.EMA30),
				zap.Float64("ema60", ind.EMA60),
				zap.Float64("ema120", ind.EMA120),
				zap.Float64("last_low", ind.LastLow),
				zap.Float64("last_high", ind.LastHigh),
			)
			if err := report.collect(sig); err != nil {
				s.logger.Error("aggregate result failed", zap.String("symbol", symbol), zap.Error(err))
			}
		}

		if report.Attempted%progressEvery == 0 {
			s.logger.Info("scan progress", zap.Int("completed", report.Attempted), zap.Int("total", len(symbols)))
		}

		if err := s.wait(ctx, s.delay); err != nil {
			s.logger.Info("scan interrupted", zap.Int("completed", report.Attempted))
			return nil, err
		}
	}

	report.FinishedAt = s.now()
	s.logger.Info("scan finished",
		zap.Int("attempted", report.Attempted),
		zap.Int("qualified", report.Results.Len()),
		zap.Int("insufficient", len(report.Insufficient)),
		zap.Int("failed", len(report.Failures)),
		zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, nil
}

// analyze fetches one symbol's history and evaluates it. A panic while computing
// indicators is turned into an error so one bad series cannot end the run.
func (s *Scanner) analyze(ctx context.Context, symbol string) (sig *model.TrendSignal, err error) {
	defer func() {
		if p := recover(); p != nil {
			sig, err = nil, fmt.Errorf("analyze %s: panic: %v", symbol, p)
		}
	}()

	bars, err := s.fetcher.FetchDailyBars(ctx, symbol, s.historyDays)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	if len(bars) < model.MinHistoryBars {
		return nil, fmt.Errorf("%w: %d bars, need %d", ErrInsufficientData, len(bars), model.MinHistoryBars)
	}

	ind, err := calculator.CalculateTrendIndicators(bars)
	if err != nil {
		return nil, fmt.Errorf("calculate indicators: %w", err)
	}
	return strategy.Evaluate(symbol, ind), nil
}
