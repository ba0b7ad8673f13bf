// Package loader reads company records from the data directory.
// One JSON file per company, named <ticker>.json (lowercase).
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/neil-k-zero/intrinsic-value-calc/internal/contracts"
)

// ErrNotFound is returned when no data file exists for a ticker
var ErrNotFound = errors.New("company data file not found")

// Store loads company records from one directory
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the data file path for a ticker
func (s *Store) Path(ticker string) string {
	return filepath.Join(s.dir, strings.ToLower(ticker)+".json")
}

// Load reads and validates the record for one ticker
func (s *Store) Load(ticker string) (*contracts.CompanyRecord, error) {
	data, err := os.ReadFile(s.Path(ticker))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("ticker %s: %w", ticker, ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", s.Path(ticker), err)
	}
	return Parse(data)
}

// Parse decodes and validates one record from raw JSON
func Parse(data []byte) (*contracts.CompanyRecord, error) {
	var rec contracts.CompanyRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode company record: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("validate company record: %w", err)
	}
	return &rec, nil
}

// List returns the tickers available in the data directory, sorted
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir %s: %w", s.dir, err)
	}
	tickers := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		tickers = append(tickers, strings.ToUpper(strings.TrimSuffix(e.Name(), ".json")))
	}
	sort.Strings(tickers)
	return tickers, nil
}
