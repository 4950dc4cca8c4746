package dataflows

import (
	"sync"
	"time"
)

// BulkDownloader fetches daily history for many symbols with a bounded
// number of concurrent workers. The reshape/join downstream only starts
// once the whole batch has completed.
type BulkDownloader struct {
	fetcher  HistoryFetcher
	workers  int
	progress func(done, total int, symbol string, err error)
}

// NewBulkDownloader creates a downloader with the given worker limit.
func NewBulkDownloader(fetcher HistoryFetcher, workers int) *BulkDownloader {
	if workers < 1 {
		workers = 1
	}
	return &BulkDownloader{
		fetcher: fetcher,
		workers: workers,
	}
}

// OnProgress registers a callback invoked as each symbol completes.
func (d *BulkDownloader) OnProgress(fn func(done, total int, symbol string, err error)) {
	d.progress = fn
}

// Download fetches history for every symbol over the date range. Symbols
// whose download fails entirely are reported in the second return value
// and excluded from the history map; symbols with partial history keep
// whatever rows the provider returned.
func (d *BulkDownloader) Download(symbols []string, start, end time.Time) (map[string][]*MarketData, map[string]error) {
	symbols = UniqueSymbols(symbols)

	history := make(map[string][]*MarketData, len(symbols))
	failures := make(map[string]error)

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, d.workers)
	done := 0

	for _, symbol := range symbols {
		wg.Add(1)
		sem <- struct{}{}

		go func(symbol string) {
			defer wg.Done()
			defer func() { <-sem }()

			bars, err := d.fetcher.GetDailyHistory(symbol, start, end)

			mu.Lock()
			if err != nil {
				failures[symbol] = err
			} else {
				history[symbol] = bars
			}
			done++
			completed := done
			mu.Unlock()

			if d.progress != nil {
				d.progress(completed, len(symbols), symbol, err)
			}
		}(symbol)
	}

	wg.Wait()

	return history, failures
}
