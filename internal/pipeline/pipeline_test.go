package pipeline

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/marketgrid/indexflow/config"
	"github.com/marketgrid/indexflow/internal/htmltable"
	"github.com/marketgrid/indexflow/internal/universe"
	"github.com/marketgrid/indexflow/pkg/dataflows"
)

const constituentsPage = `
<html><body>
<table>
  <tr><th>Company</th><th>Symbol[1]</th><th>Industry</th></tr>
  <tr><td>Alpha Corp</td><td>AAA</td><td>Sector1</td></tr>
  <tr><td>Beta Ltd</td><td>BBB</td><td>Sector1</td></tr>
  <tr><td>Gamma Inc</td><td>CCC</td><td>Sector2</td></tr>
</table>
</body></html>`

type stubPages struct {
	html string
	err  error
}

func (s *stubPages) FetchHTML(url string) (string, error) {
	return s.html, s.err
}

type stubMarket struct {
	metadataFail map[string]bool
	history      map[string][]*dataflows.MarketData
	historyFail  map[string]bool
}

func (s *stubMarket) GetCompanyMetadata(symbol string) (*dataflows.CompanyMetadata, error) {
	if s.metadataFail[symbol] {
		return nil, fmt.Errorf("metadata lookup failed for %s", symbol)
	}
	name := symbol + " Company"
	cap := 1e9
	return &dataflows.CompanyMetadata{Symbol: symbol, CompanyName: &name, MarketCap: &cap}, nil
}

func (s *stubMarket) GetDailyHistory(symbol string, start, end time.Time) ([]*dataflows.MarketData, error) {
	if s.historyFail[symbol] {
		return nil, fmt.Errorf("history download failed for %s", symbol)
	}
	return s.history[symbol], nil
}

type memoryWriter struct {
	tickers []TickerRow
	prices  []PriceRow
}

func (m *memoryWriter) WriteTickers(filename string, rows []TickerRow) (string, error) {
	m.tickers = rows
	return filename, nil
}

func (m *memoryWriter) WritePrices(filename string, rows []PriceRow) (string, error) {
	m.prices = rows
	return filename, nil
}

func testUniverse() universe.Universe {
	return universe.Universe{
		Name:         "Test Universe",
		Slug:         "test",
		SourceURL:    "https://example.com/constituents",
		TickerColumn: "Symbol",
		SectorColumn: "Industry",
		IndexSymbol:  "^DJI",
	}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.MetadataLookupDelay = 0
	cfg.HistoryYears = 10
	cfg.DownloadWorkers = 2
	cfg.DataSourceLabel = "test-source"
	return cfg
}

func TestPipelineRun(t *testing.T) {
	market := &stubMarket{
		metadataFail: map[string]bool{"BBB": true},
		history: map[string][]*dataflows.MarketData{
			"AAA":  {bar("AAA", 2, 100), bar("AAA", 3, 101)},
			"BBB":  {bar("BBB", 2, 50), bar("BBB", 3, 51)},
			"CCC":  {bar("CCC", 2, 30), bar("CCC", 3, 31)},
			"^DJI": {indexBar("^DJI", 2, 38000), indexBar("^DJI", 3, 38100)},
		},
	}
	out := &memoryWriter{}

	p := New(testConfig(), &stubPages{html: constituentsPage}, market, out)
	result, err := p.Run(testUniverse())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Constituents != 3 {
		t.Errorf("expected 3 constituents, got %d", result.Constituents)
	}
	if result.EnrichmentFailures != 1 {
		t.Errorf("expected 1 enrichment failure, got %d", result.EnrichmentFailures)
	}

	// Tickers file: one row per constituent, failed lookup all-null.
	if len(out.tickers) != 3 {
		t.Fatalf("expected 3 ticker rows, got %d", len(out.tickers))
	}
	for _, row := range out.tickers {
		if row.Ticker == "BBB" {
			if row.CompanyName != nil || row.MarketCap != nil || row.TrailingPE != nil {
				t.Error("failed enrichment should leave all metadata fields null")
			}
		} else if row.CompanyName == nil {
			t.Errorf("ticker %s missing company name", row.Ticker)
		}
	}

	// Prices: 3 tickers * 2 days + 2 index rows.
	if len(out.prices) != 8 {
		t.Fatalf("expected 8 price rows, got %d", len(out.prices))
	}
	if result.PriceRows != 8 {
		t.Errorf("result reports %d price rows", result.PriceRows)
	}

	// The whole relation shares one extraction timestamp.
	stamp := out.prices[0].ExtractedAt
	for _, row := range out.prices {
		if !row.ExtractedAt.Equal(stamp) {
			t.Error("price rows carry different extraction timestamps")
		}
		if row.DataSource != "test-source" {
			t.Errorf("unexpected data source %q", row.DataSource)
		}
	}
}

func TestPipelineTableNotFoundIsFatal(t *testing.T) {
	out := &memoryWriter{}
	p := New(testConfig(), &stubPages{html: constituentsPage}, &stubMarket{}, out)

	u := testUniverse()
	u.TickerColumn = "Ticker"
	u.SectorColumn = "ICB Industry"

	_, err := p.Run(u)
	var notFound *htmltable.ErrTableNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrTableNotFound, got %v", err)
	}

	// Fatal before any output: no partial files.
	if out.tickers != nil || out.prices != nil {
		t.Error("no output should be written after a fatal table location error")
	}
}

func TestPipelinePageFetchFailureIsFatal(t *testing.T) {
	p := New(testConfig(), &stubPages{err: fmt.Errorf("status 503")}, &stubMarket{}, &memoryWriter{})

	if _, err := p.Run(testUniverse()); err == nil {
		t.Fatal("expected fatal error on page fetch failure")
	}
}

func TestPipelineSkipsFailedDownloads(t *testing.T) {
	market := &stubMarket{
		history: map[string][]*dataflows.MarketData{
			"AAA":  {bar("AAA", 2, 100)},
			"CCC":  {bar("CCC", 2, 30)},
			"^DJI": {indexBar("^DJI", 2, 38000)},
		},
		historyFail: map[string]bool{"BBB": true},
	}
	out := &memoryWriter{}

	p := New(testConfig(), &stubPages{html: constituentsPage}, market, out)
	result, err := p.Run(testUniverse())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.SkippedTickers) != 1 || result.SkippedTickers[0] != "BBB" {
		t.Errorf("expected BBB skipped, got %v", result.SkippedTickers)
	}
	// 2 constituent rows + 1 index row.
	if len(out.prices) != 3 {
		t.Errorf("expected 3 price rows, got %d", len(out.prices))
	}
}

func TestPipelineBenchmarkFailureIsFatal(t *testing.T) {
	market := &stubMarket{
		history: map[string][]*dataflows.MarketData{
			"AAA": {bar("AAA", 2, 100)},
			"BBB": {bar("BBB", 2, 50)},
			"CCC": {bar("CCC", 2, 30)},
		},
		historyFail: map[string]bool{"^DJI": true},
	}
	out := &memoryWriter{}

	p := New(testConfig(), &stubPages{html: constituentsPage}, market, out)
	if _, err := p.Run(testUniverse()); err == nil {
		t.Fatal("expected fatal error when benchmark series fails")
	}
	if out.prices != nil {
		t.Error("no prices file should be written after a fatal benchmark failure")
	}
}
