package dataflows

import (
	"time"
)

// MetadataEnricher runs per-ticker metadata lookups sequentially with a
// fixed delay between requests as a crude rate limiter. A failure for one
// ticker never aborts the batch: that ticker's record comes back with
// all-null fields and the lookup error preserved on its outcome.
type MetadataEnricher struct {
	fetcher  MetadataFetcher
	delay    time.Duration
	progress func(done, total int, symbol string)
}

// NewMetadataEnricher creates an enricher over the given fetcher.
func NewMetadataEnricher(fetcher MetadataFetcher, delay time.Duration) *MetadataEnricher {
	return &MetadataEnricher{
		fetcher: fetcher,
		delay:   delay,
	}
}

// OnProgress registers a callback invoked after every lookup.
func (e *MetadataEnricher) OnProgress(fn func(done, total int, symbol string)) {
	e.progress = fn
}

// Enrich looks up metadata for every ticker, returning exactly one
// outcome per input ticker in input order. The returned Metadata is never
// nil: a failed lookup yields a record with all-null fields.
func (e *MetadataEnricher) Enrich(tickers []string) []EnrichmentOutcome {
	outcomes := make([]EnrichmentOutcome, 0, len(tickers))

	for i, ticker := range tickers {
		outcome := EnrichmentOutcome{Symbol: ticker}

		meta, err := e.fetcher.GetCompanyMetadata(ticker)
		if err != nil || meta == nil {
			outcome.Metadata = &CompanyMetadata{Symbol: ticker}
			outcome.Err = err
		} else {
			outcome.Metadata = meta
		}

		outcomes = append(outcomes, outcome)

		if e.progress != nil {
			e.progress(i+1, len(tickers), ticker)
		}

		// Stay under the provider's rate limit.
		if e.delay > 0 && i < len(tickers)-1 {
			time.Sleep(e.delay)
		}
	}

	return outcomes
}
