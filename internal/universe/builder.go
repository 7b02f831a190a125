package universe

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"TrendScanner/internal/collector"
)

// DefaultMinMarketCap is the capitalisation a symbol must exceed to enter the universe.
var DefaultMinMarketCap = decimal.NewFromInt(1_000_000_000)

// Result is the outcome of one universe build.
type Result struct {
	Candidates int
	Retained   []string
	Errors     []string
}

// Builder assembles the ticker universe from the exchange listing files.
type Builder struct {
	Client       *http.Client
	Quotes       collector.QuoteFetcher
	MinMarketCap decimal.Decimal
	Delay        time.Duration
	ErrorDelay   time.Duration

	logger *zap.Logger
	wait   func(ctx context.Context, d time.Duration) error
}

func NewBuilder(client *http.Client, quotes collector.QuoteFetcher, logger *zap.Logger) *Builder {
	return &Builder{
		Client:       client,
		Quotes:       quotes,
		MinMarketCap: DefaultMinMarketCap,
		Delay:        2 * time.Second,
		ErrorDelay:   5 * time.Second,
		logger:       logger,
		wait:         collector.Pause,
	}
}

// Candidates downloads both listing files and returns the sorted union of their symbols.
func (b *Builder) Candidates(ctx context.Context, nasdaqURL, otherURL string) ([]string, error) {
	nasdaq, err := DownloadListing(ctx, b.Client, nasdaqURL, NasdaqSymbolColumn)
	if err != nil {
		return nil, err
	}
	other, err := DownloadListing(ctx, b.Client, otherURL, OtherSymbolColumn)
	if err != nil {
		return nil, err
	}
	b.logger.Info("listings downloaded", zap.Int("nasdaq", len(nasdaq)), zap.Int("other", len(other)))

	union := make(map[string]struct{}, len(nasdaq)+len(other))
	for _, s := range nasdaq {
		union[s] = struct{}{}
	}
	for _, s := range other {
		union[s] = struct{}{}
	}
	out := make([]string, 0, len(union))
	for s := range union {
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}

// Build keeps the candidates whose market cap is strictly above MinMarketCap.
// Symbols whose lookup fails are listed in Result.Errors and left out.
func (b *Builder) Build(ctx context.Context, nasdaqURL, otherURL string) (*Result, error) {
	candidates, err := b.Candidates(ctx, nasdaqURL, otherURL)
	if err != nil {
		return nil, err
	}
	res := &Result{Candidates: len(candidates)}

	for i, symbol := range candidates {
		mc, err := b.Quotes.FetchMarketCap(ctx, symbol)
		delay := b.Delay
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			b.logger.Warn("market cap lookup failed", zap.String("symbol", symbol), zap.Error(err))
			res.Errors = append(res.Errors, symbol)
			delay = b.ErrorDelay
		} else if mc.GreaterThan(b.MinMarketCap) {
			res.Retained = append(res.Retained, symbol)
		}
		b.logger.Debug("market cap checked",
			zap.String("symbol", symbol),
			zap.String("progress", fmt.Sprintf("%d/%d", i+1, len(candidates))),
		)
		if err := b.wait(ctx, delay); err != nil {
			return nil, err
		}
	}

	b.logger.Info("universe built",
		zap.Int("candidates", res.Candidates),
		zap.Int("retained", len(res.Retained)),
		zap.Int("errors", len(res.Errors)),
	)
	return res, nil
}
