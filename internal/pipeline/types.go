package pipeline

import (
	"time"

	"github.com/shopspring/decimal"
)

// TickerRow is the serialized form of one enriched constituent. The
// nullable fields stay nil when enrichment failed or the provider had no
// value.
type TickerRow struct {
	Sector      string
	Ticker      string
	CompanyName *string
	MarketCap   *float64
	TrailingPE  *float64
}

// PriceRow is one row of the final long-format price relation: one
// (trade date, ticker) pair. Sector is empty for tickers missing from the
// constituent relation and "Index" for benchmark rows. AdjClose and
// Volume are nullable because the benchmark series may not carry them.
type PriceRow struct {
	TradeDate   time.Time
	Ticker      string
	Sector      string
	Open        decimal.Decimal
	High        decimal.Decimal
	Low         decimal.Decimal
	Close       decimal.Decimal
	AdjClose    *decimal.Decimal
	Volume      *int64
	DataSource  string
	ExtractedAt time.Time
}

// OutputWriter serializes pipeline results. Implemented by csvio.
type OutputWriter interface {
	WriteTickers(filename string, rows []TickerRow) (string, error)
	WritePrices(filename string, rows []PriceRow) (string, error)
}
