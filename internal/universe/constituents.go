package universe

import (
	"fmt"

	"github.com/marketgrid/indexflow/internal/htmltable"
)

// Constituent is one (ticker, sector) pair from a universe snapshot.
type Constituent struct {
	Ticker string
	Sector string
}

// SectorMap groups tickers by sector label while remembering the order
// sectors were first seen, so output stays readable for humans. Duplicate
// tickers within a sector are preserved in encounter order.
type SectorMap struct {
	sectors []string
	tickers map[string][]string
}

// BuildSectorMap reads the ticker and sector columns from a located table
// and groups tickers under their sector labels.
func BuildSectorMap(table *htmltable.Table, tickerCol, sectorCol string) (*SectorMap, error) {
	tickers, err := table.Column(tickerCol)
	if err != nil {
		return nil, fmt.Errorf("reading ticker column: %w", err)
	}
	sectors, err := table.Column(sectorCol)
	if err != nil {
		return nil, fmt.Errorf("reading sector column: %w", err)
	}

	sm := &SectorMap{tickers: make(map[string][]string)}
	for i, ticker := range tickers {
		if ticker == "" {
			continue
		}
		sector := sectors[i]
		if _, seen := sm.tickers[sector]; !seen {
			sm.sectors = append(sm.sectors, sector)
		}
		sm.tickers[sector] = append(sm.tickers[sector], ticker)
	}

	return sm, nil
}

// Sectors returns sector labels in first-seen order.
func (sm *SectorMap) Sectors() []string {
	return sm.sectors
}

// Tickers returns the tickers recorded under a sector, in encounter order.
func (sm *SectorMap) Tickers(sector string) []string {
	return sm.tickers[sector]
}

// Flatten produces one Constituent per (sector, ticker) pair, grouped by
// sector. Grouping is for readability only; consumers must not rely on
// row order.
func (sm *SectorMap) Flatten() []Constituent {
	var rows []Constituent
	for _, sector := range sm.sectors {
		for _, ticker := range sm.tickers[sector] {
			rows = append(rows, Constituent{Ticker: ticker, Sector: sector})
		}
	}
	return rows
}

// Len reports the total number of (sector, ticker) pairs.
func (sm *SectorMap) Len() int {
	n := 0
	for _, tickers := range sm.tickers {
		n += len(tickers)
	}
	return n
}

// TickerList extracts the ticker symbols from a constituent relation,
// preserving order.
func TickerList(rows []Constituent) []string {
	tickers := make([]string, len(rows))
	for i, row := range rows {
		tickers[i] = row.Ticker
	}
	return tickers
}
