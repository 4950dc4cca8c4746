// Package pipeline runs the four-stage extraction for one index
// universe: locate the constituent table, extract the sector relation,
// enrich each ticker with metadata, then download and join daily price
// history.
package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/marketgrid/indexflow/config"
	"github.com/marketgrid/indexflow/internal/htmltable"
	"github.com/marketgrid/indexflow/internal/universe"
	"github.com/marketgrid/indexflow/pkg/dataflows"
)

// PageFetcher fetches the raw constituent page.
type PageFetcher interface {
	FetchHTML(url string) (string, error)
}

// MarketDataProvider supplies per-ticker metadata and daily history.
type MarketDataProvider interface {
	dataflows.MetadataFetcher
	dataflows.HistoryFetcher
}

// Pipeline is a single-shot, stateless extraction run for one universe.
type Pipeline struct {
	cfg    *config.Config
	pages  PageFetcher
	market MarketDataProvider
	out    OutputWriter

	// Optional progress callbacks, wired up by the CLI.
	OnEnrichProgress   func(done, total int, symbol string)
	OnDownloadProgress func(done, total int, symbol string, err error)
}

// New assembles a pipeline from its collaborators.
func New(cfg *config.Config, pages PageFetcher, market MarketDataProvider, out OutputWriter) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		pages:  pages,
		market: market,
		out:    out,
	}
}

// Result summarizes one completed run.
type Result struct {
	Universe           universe.Universe
	Constituents       int
	EnrichmentFailures int
	PriceRows          int
	SkippedTickers     []string
	TickersPath        string
	PricesPath         string
}

// Run executes the full extraction for one universe. Table location,
// page fetch, and price-structure errors are fatal; per-ticker metadata
// failures are tolerated and surface as null fields.
func (p *Pipeline) Run(u universe.Universe) (*Result, error) {
	result := &Result{Universe: u}

	// Stage 1: fetch the page and locate the constituent table.
	html, err := p.pages.FetchHTML(u.SourceURL)
	if err != nil {
		return nil, fmt.Errorf("fetching %s constituents: %w", u.Name, err)
	}

	tables, err := htmltable.Parse(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing %s page: %w", u.Name, err)
	}

	table, err := htmltable.Locate(tables, u.TickerColumn, u.SectorColumn)
	if err != nil {
		return nil, fmt.Errorf("locating %s constituent table: %w", u.Name, err)
	}

	// Stage 2: extract the sector relation.
	sectorMap, err := universe.BuildSectorMap(table, u.TickerColumn, u.SectorColumn)
	if err != nil {
		return nil, fmt.Errorf("extracting %s constituents: %w", u.Name, err)
	}
	constituents := sectorMap.Flatten()
	if len(constituents) == 0 {
		return nil, fmt.Errorf("no constituents extracted for %s", u.Name)
	}
	result.Constituents = len(constituents)

	// Stage 3: enrich each ticker, then write the tickers file. A partial
	// enrichment still yields a complete, valid output.
	enricher := dataflows.NewMetadataEnricher(p.market, p.cfg.MetadataLookupDelay)
	if p.OnEnrichProgress != nil {
		enricher.OnProgress(p.OnEnrichProgress)
	}
	outcomes := enricher.Enrich(universe.TickerList(constituents))

	tickerRows := make([]TickerRow, len(constituents))
	for i, c := range constituents {
		meta := outcomes[i].Metadata
		if outcomes[i].Err != nil {
			result.EnrichmentFailures++
		}
		tickerRows[i] = TickerRow{
			Sector:      c.Sector,
			Ticker:      c.Ticker,
			CompanyName: meta.CompanyName,
			MarketCap:   meta.MarketCap,
			TrailingPE:  meta.TrailingPE,
		}
	}

	tickersPath, err := p.out.WriteTickers(u.TickersFile(), tickerRows)
	if err != nil {
		return nil, fmt.Errorf("writing %s tickers file: %w", u.Name, err)
	}
	result.TickersPath = tickersPath

	// Stage 4: bulk history, benchmark series, join, prices file.
	end := time.Now()
	start := end.AddDate(-p.cfg.HistoryYears, 0, 0)

	downloader := dataflows.NewBulkDownloader(p.market, p.cfg.DownloadWorkers)
	if p.OnDownloadProgress != nil {
		downloader.OnProgress(p.OnDownloadProgress)
	}
	history, failures := downloader.Download(universe.TickerList(constituents), start, end)

	for symbol := range failures {
		result.SkippedTickers = append(result.SkippedTickers, symbol)
	}
	sort.Strings(result.SkippedTickers)
	if len(history) == 0 {
		return nil, &ErrPriceStructure{Symbol: u.Slug, Reason: "bulk download returned no history"}
	}

	indexSeries, err := p.market.GetDailyHistory(u.IndexSymbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("downloading %s benchmark series: %w", u.IndexSymbol, err)
	}

	rows, err := JoinPrices(JoinParams{
		History:      history,
		Constituents: constituents,
		IndexSeries:  indexSeries,
		IndexSymbol:  u.IndexSymbol,
		DataSource:   p.cfg.DataSourceLabel,
		ExtractedAt:  time.Now(),
	})
	if err != nil {
		return nil, err
	}
	result.PriceRows = len(rows)

	pricesPath, err := p.out.WritePrices(u.PricesFile(p.cfg.HistoryYears), rows)
	if err != nil {
		return nil, fmt.Errorf("writing %s prices file: %w", u.Name, err)
	}
	result.PricesPath = pricesPath

	return result, nil
}
