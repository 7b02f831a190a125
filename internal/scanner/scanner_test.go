package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"TrendScanner/internal/collector"
	"TrendScanner/internal/model"
)

// risingBars returns n bars with steadily rising closes whose last bar dips below EMA30,
// which passes both filter conditions.
func risingBars(n int) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = model.OHLCV{Open: c, High: c + 1, Low: c - 1, Close: c}
	}
	last := &bars[n-1]
	last.Low = 100
	return bars
}

// fallingBars returns n bars with falling closes; the EMAs stack the wrong way.
func fallingBars(n int) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	for i := range bars {
		c := 500 - float64(i)
		bars[i] = model.OHLCV{Open: c, High: c + 1, Low: c - 1, Close: c}
	}
	return bars
}

type waitRecorder struct {
	calls []time.Duration
}

func (w *waitRecorder) wait(ctx context.Context, d time.Duration) error {
	w.calls = append(w.calls, d)
	return ctx.Err()
}

func newTestScanner(t *testing.T, f collector.Fetcher, opts ...Option) (*Scanner, *waitRecorder) {
	t.Helper()
	s := NewScanner(f, zaptest.NewLogger(t), opts...)
	w := &waitRecorder{}
	s.wait = w.wait
	return s, w
}

func TestScan_InsufficientAndQualified(t *testing.T) {
	f := &collector.MockFetcher{Bars: map[string][]model.OHLCV{
		"X": risingBars(130)[:50],
		"Y": risingBars(130),
	}}
	s, _ := newTestScanner(t, f)

	report, err := s.Scan(context.Background(), []string{"X", "Y"})
	require.NoError(t, err)

	assert.True(t, report.Results.Equal(model.NewSymbolSet("Y")))
	assert.Equal(t, []string{"X"}, report.Insufficient)
	assert.Empty(t, report.Failures)
	assert.Equal(t, 2, report.Attempted)
	require.Len(t, report.Signals, 1)
	assert.Equal(t, "Y", report.Signals[0].Symbol)
}

func TestScan_EmptyHistoryIsInsufficient(t *testing.T) {
	f := &collector.MockFetcher{Bars: map[string][]model.OHLCV{
		"EMPTY": {},
		"SHORT": risingBars(119),
	}}
	s, _ := newTestScanner(t, f)

	report, err := s.Scan(context.Background(), []string{"EMPTY", "SHORT"})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Results.Len())
	assert.Equal(t, []string{"EMPTY", "SHORT"}, report.Insufficient)
	assert.Empty(t, report.Failures)
}

func TestScan_ExactlyMinimumHistoryIsEvaluated(t *testing.T) {
	f := &collector.MockFetcher{Bars: map[string][]model.OHLCV{
		"EDGE": risingBars(model.MinHistoryBars),
	}}
	s, _ := newTestScanner(t, f)

	report, err := s.Scan(context.Background(), []string{"EDGE"})
	require.NoError(t, err)
	assert.Empty(t, report.Insufficient)
	assert.True(t, report.Results.Has("EDGE"))
}

func TestScan_ProviderFailureDoesNotStopRun(t *testing.T) {
	f := &collector.MockFetcher{
		Bars: map[string][]model.OHLCV{
			"X": risingBars(200),
			"Z": fallingBars(200),
		},
		Errors: map[string]error{"Y": errors.New("connection reset")},
	}
	s, _ := newTestScanner(t, f)

	report, err := s.Scan(context.Background(), []string{"X", "Y", "Z"})
	require.NoError(t, err)

	assert.True(t, report.Results.Equal(model.NewSymbolSet("X")))
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "Y", report.Failures[0].Symbol)
	assert.ErrorContains(t, report.Failures[0].Err, "connection reset")
	assert.Equal(t, []string{"X", "Y", "Z"}, f.Calls)
}

func TestScan_DelayAfterEveryAttempt(t *testing.T) {
	f := &collector.MockFetcher{
		Bars:   map[string][]model.OHLCV{"A": risingBars(10), "C": risingBars(150)},
		Errors: map[string]error{"B": errors.New("boom")},
	}
	s, w := newTestScanner(t, f, WithDelay(1500*time.Millisecond))

	_, err := s.Scan(context.Background(), []string{"A", "B", "C"})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{1500 * time.Millisecond, 1500 * time.Millisecond, 1500 * time.Millisecond}, w.calls)
}

func TestScan_DuplicatesAreNotRemoved(t *testing.T) {
	f := &collector.MockFetcher{Bars: map[string][]model.OHLCV{"A": risingBars(150)}}
	s, _ := newTestScanner(t, f)

	report, err := s.Scan(context.Background(), []string{"A", "A"})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Attempted)
	assert.Equal(t, []string{"A", "A"}, f.Calls)
	assert.Equal(t, 1, report.Results.Len())
}

type panicFetcher struct{}

func (panicFetcher) Name() string { return "panic" }

func (panicFetcher) FetchDailyBars(_ context.Context, symbol string, _ int) ([]model.OHLCV, error) {
	if symbol == "BAD" {
		panic("malformed payload")
	}
	return risingBars(150), nil
}

func TestScan_PanicIsIsolated(t *testing.T) {
	s, _ := newTestScanner(t, panicFetcher{})

	report, err := s.Scan(context.Background(), []string{"BAD", "GOOD"})
	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "BAD", report.Failures[0].Symbol)
	assert.True(t, report.Results.Has("GOOD"))
}

func TestScan_InterruptDiscardsResults(t *testing.T) {
	f := &collector.MockFetcher{Bars: map[string][]model.OHLCV{
		"A": risingBars(150),
		"B": risingBars(150),
	}}
	s, _ := newTestScanner(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	s.wait = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	report, err := s.Scan(ctx, []string{"A", "B"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, report)
	assert.Equal(t, []string{"A"}, f.Calls)
}

func TestScanReport_CollectNilSignal(t *testing.T) {
	r := newScanReport(time.Now())
	assert.Error(t, r.collect(nil))
	assert.Equal(t, 0, r.Results.Len())
}
