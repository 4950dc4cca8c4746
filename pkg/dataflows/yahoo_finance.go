package dataflows

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
)

// YahooFinanceClient handles Yahoo Finance data operations
type YahooFinanceClient struct {
	cache *CacheManager
}

// NewYahooFinanceClient creates a new Yahoo Finance client
func NewYahooFinanceClient(config *Config) *YahooFinanceClient {
	cacheDir := filepath.Join(config.DataCacheDir, "yahoo_finance")
	cache := NewCacheManager(cacheDir, 24*time.Hour, config.CacheEnabled) // 24 hour cache

	return &YahooFinanceClient{
		cache: cache,
	}
}

// GetDailyHistory gets daily price bars for a symbol over a date range.
// Index symbols such as "^DJI" are accepted unchanged.
func (yf *YahooFinanceClient) GetDailyHistory(symbol string, start, end time.Time) ([]*MarketData, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	symbol = NormalizeSymbol(symbol)

	// Create cache key with date range
	cacheKey := map[string]interface{}{
		"symbol": symbol,
		"start":  start.Format("2006-01-02"),
		"end":    end.Format("2006-01-02"),
	}

	// Check cache first
	var cached []*MarketData
	if yf.cache.Get("yahoo", "historical", cacheKey, &cached) {
		return cached, nil
	}

	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)

	result := make([]*MarketData, 0)
	for iter.Next() {
		bar := iter.Bar()

		result = append(result, &MarketData{
			Symbol:    symbol,
			Date:      time.Unix(int64(bar.Timestamp), 0),
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
			AdjClose:  bar.AdjClose,
			Volume:    int64(bar.Volume),
			Timestamp: time.Now(),
		})
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get historical data for %s: %w", symbol, err)
	}

	// Cache the result
	yf.cache.Set("yahoo", "historical", cacheKey, result)

	return result, nil
}

// GetHistoryYears gets daily history for a trailing window of whole years.
func (yf *YahooFinanceClient) GetHistoryYears(symbol string, years int) ([]*MarketData, error) {
	end := time.Now()
	start := end.AddDate(-years, 0, 0)

	return yf.GetDailyHistory(symbol, start, end)
}

// GetCompanyMetadata fetches the point-in-time metadata record for a
// ticker. Fields the provider does not report come back nil; the caller
// decides whether that is tolerable.
func (yf *YahooFinanceClient) GetCompanyMetadata(symbol string) (*CompanyMetadata, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	symbol = NormalizeSymbol(symbol)

	// Check cache first
	var cached CompanyMetadata
	if yf.cache.Get("yahoo", "metadata", symbol, &cached) {
		return &cached, nil
	}

	q, err := equity.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata for %s: %w", symbol, err)
	}
	if q == nil {
		return nil, fmt.Errorf("empty metadata response for %s", symbol)
	}

	meta := &CompanyMetadata{Symbol: symbol}

	// Prefer the short display name, fall back to the long one.
	if q.ShortName != "" {
		name := q.ShortName
		meta.CompanyName = &name
	} else if q.LongName != "" {
		name := q.LongName
		meta.CompanyName = &name
	}

	// The provider reports zero for fields it does not have; treat those
	// as absent rather than as real values.
	if q.MarketCap > 0 {
		cap := float64(q.MarketCap)
		meta.MarketCap = &cap
	}
	if q.TrailingPE != 0 {
		pe := q.TrailingPE
		meta.TrailingPE = &pe
	}

	// Cache the result
	yf.cache.Set("yahoo", "metadata", symbol, meta)

	return meta, nil
}
