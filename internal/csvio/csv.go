// Package csvio serializes pipeline output to the fixed CSV contracts.
package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/marketgrid/indexflow/internal/pipeline"
)

// Column contracts. Order is fixed and identical across universes.
var (
	tickersHeader = []string{"Sector", "Ticker Symbol", "Company_Name", "Market_Cap", "Trailing_PE"}
	pricesHeader  = []string{
		"Trade_Date", "Ticker", "Sector", "Open", "High", "Low", "Close",
		"Adj Close", "Volume", "Data_Source", "Extracted_At",
	}
)

// Writer emits CSV files into a single output directory.
type Writer struct {
	outputDir string
}

// NewWriter creates a writer rooted at outputDir.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// WriteTickers writes the enriched constituent list. Null metadata fields
// are rendered as empty cells.
func (w *Writer) WriteTickers(filename string, rows []pipeline.TickerRow) (string, error) {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Sector,
			row.Ticker,
			nullableString(row.CompanyName),
			nullableFloat(row.MarketCap),
			nullableFloat(row.TrailingPE),
		})
	}

	return w.writeFile(filename, tickersHeader, records)
}

// WritePrices writes the joined long-format price relation.
func (w *Writer) WritePrices(filename string, rows []pipeline.PriceRow) (string, error) {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		adjClose := ""
		if row.AdjClose != nil {
			adjClose = row.AdjClose.String()
		}
		volume := ""
		if row.Volume != nil {
			volume = strconv.FormatInt(*row.Volume, 10)
		}

		records = append(records, []string{
			row.TradeDate.Format("2006-01-02"),
			row.Ticker,
			row.Sector,
			row.Open.String(),
			row.High.String(),
			row.Low.String(),
			row.Close.String(),
			adjClose,
			volume,
			row.DataSource,
			row.ExtractedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return w.writeFile(filename, pricesHeader, records)
}

func (w *Writer) writeFile(filename string, header []string, records [][]string) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filePath := filepath.Join(w.outputDir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return filePath, nil
}

func nullableString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullableFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
