// Package universe defines the supported index universes and converts a
// located constituent table into the sector/ticker relation.
package universe

import (
	"fmt"
	"strings"
)

// SectorIndex is the sentinel sector label assigned to benchmark rows.
const SectorIndex = "Index"

// Universe describes one equity index: where its constituent list lives,
// which columns identify ticker and sector, and the reserved benchmark
// symbol for the index itself.
type Universe struct {
	Name         string
	Slug         string
	SourceURL    string
	TickerColumn string
	SectorColumn string
	IndexSymbol  string
}

var (
	Dow30 = Universe{
		Name:         "Dow Jones Industrial Average",
		Slug:         "dow30",
		SourceURL:    "https://en.wikipedia.org/wiki/Dow_Jones_Industrial_Average",
		TickerColumn: "Symbol",
		SectorColumn: "Industry",
		IndexSymbol:  "^DJI",
	}

	Nasdaq100 = Universe{
		Name:         "NASDAQ-100",
		Slug:         "nasdaq100",
		SourceURL:    "https://en.wikipedia.org/wiki/Nasdaq-100",
		TickerColumn: "Ticker",
		SectorColumn: "ICB Industry",
		IndexSymbol:  "^NDX",
	}

	SP500 = Universe{
		Name:         "S&P 500",
		Slug:         "sp500",
		SourceURL:    "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies",
		TickerColumn: "Symbol",
		SectorColumn: "GICS Sector",
		IndexSymbol:  "^GSPC",
	}
)

// All returns the supported universes in a stable order.
func All() []Universe {
	return []Universe{Dow30, Nasdaq100, SP500}
}

// Lookup resolves a universe by its slug.
func Lookup(slug string) (Universe, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, u := range All() {
		if u.Slug == slug {
			return u, nil
		}
	}
	return Universe{}, fmt.Errorf("unknown universe %q (expected one of: dow30, nasdaq100, sp500)", slug)
}

// TickersFile is the output filename for the enriched constituent list.
func (u Universe) TickersFile() string {
	return u.Slug + "_tickers.csv"
}

// PricesFile is the output filename for the joined daily price history.
func (u Universe) PricesFile(historyYears int) string {
	indexSlug := strings.ToLower(strings.TrimPrefix(u.IndexSymbol, "^"))
	return fmt.Sprintf("%s_prices_daily_%dy_plus_%s.csv", u.Slug, historyYears, indexSlug)
}
