package pipeline

import (
	"fmt"
	"sort"
	"time"

	"github.com/marketgrid/indexflow/internal/universe"
	"github.com/marketgrid/indexflow/pkg/dataflows"
)

// ErrPriceStructure reports an unexpected shape in downloaded price data.
// Unlike a missing metadata field this is fatal: emitting rows from a
// malformed history would corrupt the whole relation.
type ErrPriceStructure struct {
	Symbol string
	Reason string
}

func (e *ErrPriceStructure) Error() string {
	return fmt.Sprintf("price structure mismatch for %s: %s", e.Symbol, e.Reason)
}

// JoinParams carries everything the price join needs.
type JoinParams struct {
	// History is the bulk per-ticker download, grouped by symbol.
	History map[string][]*dataflows.MarketData
	// Constituents supplies the sector label per ticker.
	Constituents []universe.Constituent
	// IndexSeries is the separately fetched benchmark history.
	IndexSeries []*dataflows.MarketData
	// IndexSymbol is the reserved benchmark ticker, e.g. "^DJI".
	IndexSymbol string
	// DataSource and ExtractedAt are stamped on every row; ExtractedAt
	// is captured once per run, not per row.
	DataSource  string
	ExtractedAt time.Time
}

// JoinPrices reshapes the grouped history into long form, left-joins the
// sector relation on ticker, appends the benchmark series under the
// "Index" sentinel sector, and stamps source and extraction time. Every
// input row survives: a ticker absent from the sector relation keeps an
// empty sector rather than being dropped.
func JoinPrices(p JoinParams) ([]PriceRow, error) {
	sectorByTicker := make(map[string]string, len(p.Constituents))
	for _, c := range p.Constituents {
		sectorByTicker[c.Ticker] = c.Sector
	}

	// Deterministic row order: symbols sorted, bars in delivery order.
	symbols := make([]string, 0, len(p.History))
	for symbol := range p.History {
		if symbol == p.IndexSymbol {
			return nil, &ErrPriceStructure{
				Symbol: symbol,
				Reason: "reserved benchmark symbol present in constituent history",
			}
		}
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	seen := make(map[string]map[time.Time]bool, len(symbols)+1)
	var rows []PriceRow

	appendBar := func(symbol, sector string, bar *dataflows.MarketData, padAbsent bool) error {
		if bar == nil {
			return &ErrPriceStructure{Symbol: symbol, Reason: "nil price bar"}
		}
		if bar.Date.IsZero() {
			return &ErrPriceStructure{Symbol: symbol, Reason: "price bar without trade date"}
		}

		day := bar.Date.Truncate(24 * time.Hour)
		if seen[symbol] == nil {
			seen[symbol] = make(map[time.Time]bool)
		}
		if seen[symbol][day] {
			return &ErrPriceStructure{
				Symbol: symbol,
				Reason: fmt.Sprintf("duplicate bar for %s", day.Format("2006-01-02")),
			}
		}
		seen[symbol][day] = true

		row := PriceRow{
			TradeDate:   bar.Date,
			Ticker:      symbol,
			Sector:      sector,
			Open:        bar.Open,
			High:        bar.High,
			Low:         bar.Low,
			Close:       bar.Close,
			DataSource:  p.DataSource,
			ExtractedAt: p.ExtractedAt,
		}

		// The benchmark series commonly arrives without adjusted close
		// or volume; pad those with nulls so its column set matches the
		// constituent rows exactly.
		if padAbsent && bar.AdjClose.IsZero() {
			row.AdjClose = nil
		} else {
			adj := bar.AdjClose
			row.AdjClose = &adj
		}
		if padAbsent && bar.Volume == 0 {
			row.Volume = nil
		} else {
			vol := bar.Volume
			row.Volume = &vol
		}

		rows = append(rows, row)
		return nil
	}

	for _, symbol := range symbols {
		sector := sectorByTicker[symbol] // empty if unknown; row kept anyway
		for _, bar := range p.History[symbol] {
			if err := appendBar(symbol, sector, bar, false); err != nil {
				return nil, err
			}
		}
	}

	for _, bar := range p.IndexSeries {
		if err := appendBar(p.IndexSymbol, universe.SectorIndex, bar, true); err != nil {
			return nil, err
		}
	}

	return rows, nil
}
