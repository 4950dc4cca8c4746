package dataflows

import (
	"time"

	"github.com/marketgrid/indexflow/config"
	"github.com/shopspring/decimal"
)

// Config is an alias for the main application config
type Config = config.Config

// MarketData represents one daily price bar for a symbol
type MarketData struct {
	Symbol    string          `json:"symbol"`
	Date      time.Time       `json:"date"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	AdjClose  decimal.Decimal `json:"adj_close"`
	Volume    int64           `json:"volume"`
	Timestamp time.Time       `json:"timestamp"`
}

// CompanyMetadata is the point-in-time metadata record for one ticker.
// Every field except Symbol is nullable: absence is an expected terminal
// state, not an error.
type CompanyMetadata struct {
	Symbol      string   `json:"symbol"`
	CompanyName *string  `json:"company_name"`
	MarketCap   *float64 `json:"market_cap"`
	TrailingPE  *float64 `json:"trailing_pe"`
}

// EnrichmentOutcome is the tagged per-ticker result of a metadata lookup.
// A failed lookup keeps its reason in Err while Metadata carries all-null
// fields, so the CSV contract is unaffected but the failure stays
// observable.
type EnrichmentOutcome struct {
	Symbol   string
	Metadata *CompanyMetadata
	Err      error
}

// MetadataFetcher looks up the metadata record for a single ticker.
type MetadataFetcher interface {
	GetCompanyMetadata(symbol string) (*CompanyMetadata, error)
}

// HistoryFetcher downloads the daily price history for a single symbol.
type HistoryFetcher interface {
	GetDailyHistory(symbol string, start, end time.Time) ([]*MarketData, error)
}
