package schema

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"

	"github.com/spektr-org/dreamlight/engine"
)

// ============================================================================
// AUTO-DISCOVERY — match a CSV header against the built-in contracts
// ============================================================================
// Classification pipeline:
//   1. Read the header row
//   2. Keep every contract whose required columns are all present
//   3. Pick the most specific one (most required columns)
// Ties go to the contract listed first in Builtins.
// ============================================================================

// ErrUnknownDataset reports a header that satisfies no built-in contract.
var ErrUnknownDataset = errors.New("header matches no known dataset")

// Builtins returns every tabular contract, most specific first.
func Builtins() []Config {
	return []Config{
		DreamsWithLight(),
		WideMonthly(),
		LightRadial(),
		LongMonthly(),
		MonthlyRadiance(),
	}
}

// Discover returns the built-in contract that fits headers.
func Discover(headers []string) (Config, error) {
	var (
		best  Config
		score = -1
	)
	for _, c := range Builtins() {
		if len(c.MissingColumns(headers)) > 0 {
			continue
		}
		if n := len(c.RequiredColumns()); n > score {
			best, score = c, n
		}
	}
	if score < 0 {
		return Config{}, fmt.Errorf("%w: %v", ErrUnknownDataset, headers)
	}
	return best, nil
}

// DiscoverFromCSV reads the header row of data and calls Discover.
func DiscoverFromCSV(data []byte) (Config, error) {
	headers, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return Config{}, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	return Discover(headers)
}

// DiscoverKind is Discover reduced to the dataset kind.
func DiscoverKind(headers []string) (engine.DatasetKind, bool) {
	c, err := Discover(headers)
	return c.Kind, err == nil
}
