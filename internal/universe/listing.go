package universe

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Symbol columns in the two NASDAQ Trader directory files.
const (
	NasdaqSymbolColumn = "Symbol"
	OtherSymbolColumn  = "ACT Symbol"
)

const footerPrefix = "File Creation Time"

// ParseListing reads a pipe-delimited symbol directory file and returns the unique symbols
// that are neither test issues nor ETFs, in file order.
func ParseListing(r io.Reader, symbolColumn string) ([]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = '|'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	symIdx, ok := col[symbolColumn]
	if !ok {
		return nil, fmt.Errorf("column %q not found", symbolColumn)
	}
	testIdx, ok := col["Test Issue"]
	if !ok {
		return nil, errors.New(`column "Test Issue" not found`)
	}
	etfIdx, ok := col["ETF"]
	if !ok {
		return nil, errors.New(`column "ETF" not found`)
	}

	seen := make(map[string]struct{})
	var symbols []string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) > 0 && strings.HasPrefix(rec[0], footerPrefix) {
			continue
		}
		if len(rec) <= symIdx || len(rec) <= testIdx || len(rec) <= etfIdx {
			continue
		}
		if rec[testIdx] != "N" || rec[etfIdx] != "N" {
			continue
		}
		sym := strings.TrimSpace(rec[symIdx])
		if sym == "" {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		symbols = append(symbols, sym)
	}
	return symbols, nil
}

// DownloadListing fetches and parses one directory file.
func DownloadListing(ctx context.Context, client *http.Client, url, symbolColumn string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}
	symbols, err := ParseListing(resp.Body, symbolColumn)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return symbols, nil
}
