package universe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"TrendScanner/internal/collector"
)

const nasdaqListed = `Symbol|Security Name|Market Category|Test Issue|Financial Status|Round Lot Size|ETF|NextShares
AAPL|Apple Inc. - Common Stock|Q|N|N|100|N|N
QQQ|Invesco QQQ Trust|G|N|N|100|Y|N
ZXZZT|NASDAQ TEST STOCK|G|Y|N|100|N|N
MSFT|Microsoft Corporation - Common Stock|Q|N|N|100|N|N
File Creation Time: 1015202608:00|||||||
`

const otherListed = `ACT Symbol|Security Name|Exchange|CQS Symbol|ETF|Round Lot Size|Test Issue|NASDAQ Symbol
BRK.B|Berkshire Hathaway Inc.|N|BRK.B|N|100|N|BRK.B
SPY|SPDR S&P 500|P|SPY|Y|100|N|SPY
MSFT|Dup row|N|MSFT|N|100|N|MSFT
NTEST|NYSE Test|N|NTEST|N|100|Y|NTEST
File Creation Time: 1015202608:00|||||||
`

func TestParseListing_Nasdaq(t *testing.T) {
	symbols, err := ParseListing(strings.NewReader(nasdaqListed), NasdaqSymbolColumn)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, symbols)
}

func TestParseListing_Other(t *testing.T) {
	symbols, err := ParseListing(strings.NewReader(otherListed), OtherSymbolColumn)
	require.NoError(t, err)
	assert.Equal(t, []string{"BRK.B", "MSFT"}, symbols)
}

func TestParseListing_MissingColumn(t *testing.T) {
	_, err := ParseListing(strings.NewReader(nasdaqListed), OtherSymbolColumn)
	assert.Error(t, err)
}

func newListingServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/nasdaqlisted.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(nasdaqListed))
	})
	mux.HandleFunc("/otherlisted.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(otherListed))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestBuilder_Build(t *testing.T) {
	srv := newListingServer(t)
	quotes := &collector.MockFetcher{
		MarketCaps: map[string]decimal.Decimal{
			"AAPL":  decimal.NewFromInt(3_000_000_000_000),
			"MSFT":  decimal.NewFromInt(1_000_000_000), // not strictly above
			"BRK.B": decimal.NewFromInt(900_000_000_000),
		},
		Errors: map[string]error{"BRK.B": errors.New("rate limited")},
	}
	b := NewBuilder(srv.Client(), quotes, zaptest.NewLogger(t))
	var waits []time.Duration
	b.wait = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	res, err := b.Build(context.Background(), srv.URL+"/nasdaqlisted.txt", srv.URL+"/otherlisted.txt")
	require.NoError(t, err)

	assert.Equal(t, 3, res.Candidates)
	assert.Equal(t, []string{"AAPL"}, res.Retained)
	assert.Equal(t, []string{"BRK.B"}, res.Errors)
	// sorted candidates: AAPL, BRK.B, MSFT
	assert.Equal(t, []time.Duration{2 * time.Second, 5 * time.Second, 2 * time.Second}, waits)
}

func TestBuilder_ListingDownloadFails(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	b := NewBuilder(srv.Client(), &collector.MockFetcher{}, zaptest.NewLogger(t))
	_, err := b.Build(context.Background(), srv.URL+"/a", srv.URL+"/b")
	assert.Error(t, err)
}

func TestTickers_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "final_tickers.json")
	require.NoError(t, SaveTickers(path, []string{"AAPL", "MSFT"}))

	got, err := LoadTickers(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, got)
}

func TestTickers_SaveNilWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error_tickers.json")
	require.NoError(t, SaveTickers(path, nil))

	got, err := LoadTickers(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadTickers_Missing(t *testing.T) {
	_, err := LoadTickers(filepath.Join(t.TempDir(), "none.json"))
	assert.Error(t, err)
}
