package universe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoadTickers reads a JSON array of ticker symbols.
func LoadTickers(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tickers: %w", err)
	}
	var symbols []string
	if err := json.Unmarshal(data, &symbols); err != nil {
		return nil, fmt.Errorf("decode tickers %s: %w", path, err)
	}
	return symbols, nil
}

// SaveTickers writes symbols as a JSON array, creating parent directories.
func SaveTickers(path string, symbols []string) error {
	if symbols == nil {
		symbols = []string{}
	}
	data, err := json.Marshal(symbols)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
