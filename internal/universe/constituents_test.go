package universe

import (
	"testing"

	"github.com/marketgrid/indexflow/internal/htmltable"
)

func componentsTable() *htmltable.Table {
	return &htmltable.Table{
		Header: []string{"Company", "Symbol", "Industry"},
		Rows: [][]string{
			{"Apple Inc.", "AAPL", "Information technology"},
			{"Microsoft", "MSFT", "Information technology"},
			{"Boeing", "BA", "Aerospace and defense"},
			{"Caterpillar", "CAT", "Construction and mining"},
		},
	}
}

func TestBuildSectorMap(t *testing.T) {
	sm, err := BuildSectorMap(componentsTable(), "Symbol", "Industry")
	if err != nil {
		t.Fatalf("BuildSectorMap: %v", err)
	}

	if sm.Len() != 4 {
		t.Fatalf("expected 4 constituents, got %d", sm.Len())
	}

	sectors := sm.Sectors()
	if len(sectors) != 3 {
		t.Fatalf("expected 3 sectors, got %d", len(sectors))
	}
	if sectors[0] != "Information technology" {
		t.Errorf("expected first-seen sector order, got %v", sectors)
	}

	it := sm.Tickers("Information technology")
	if len(it) != 2 || it[0] != "AAPL" || it[1] != "MSFT" {
		t.Errorf("unexpected tickers for sector: %v", it)
	}
}

func TestFlattenPreservesEveryPair(t *testing.T) {
	sm, err := BuildSectorMap(componentsTable(), "Symbol", "Industry")
	if err != nil {
		t.Fatalf("BuildSectorMap: %v", err)
	}

	rows := sm.Flatten()
	if len(rows) != sm.Len() {
		t.Fatalf("flatten lost rows: %d != %d", len(rows), sm.Len())
	}

	seen := make(map[Constituent]int)
	for _, row := range rows {
		seen[row]++
	}
	for pair, count := range seen {
		if count != 1 {
			t.Errorf("pair %v appears %d times", pair, count)
		}
	}
	if seen[Constituent{Ticker: "CAT", Sector: "Construction and mining"}] != 1 {
		t.Error("expected CAT pair present exactly once")
	}
}

func TestBuildSectorMapDuplicatesPreserved(t *testing.T) {
	table := &htmltable.Table{
		Header: []string{"Symbol", "Industry"},
		Rows: [][]string{
			{"GOOGL", "Communication services"},
			{"GOOG", "Communication services"},
			{"GOOGL", "Communication services"},
		},
	}

	sm, err := BuildSectorMap(table, "Symbol", "Industry")
	if err != nil {
		t.Fatalf("BuildSectorMap: %v", err)
	}

	got := sm.Tickers("Communication services")
	want := []string{"GOOGL", "GOOG", "GOOGL"}
	if len(got) != len(want) {
		t.Fatalf("expected duplicates preserved, got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ticker[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuildSectorMapSkipsEmptyTickers(t *testing.T) {
	table := &htmltable.Table{
		Header: []string{"Symbol", "Industry"},
		Rows: [][]string{
			{"AAPL", "Information technology"},
			{"", "Information technology"},
		},
	}

	sm, err := BuildSectorMap(table, "Symbol", "Industry")
	if err != nil {
		t.Fatalf("BuildSectorMap: %v", err)
	}
	if sm.Len() != 1 {
		t.Errorf("expected empty-ticker row skipped, got %d rows", sm.Len())
	}
}

func TestLookup(t *testing.T) {
	u, err := Lookup("SP500")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if u.IndexSymbol != "^GSPC" {
		t.Errorf("expected ^GSPC, got %s", u.IndexSymbol)
	}

	if _, err := Lookup("ftse100"); err == nil {
		t.Error("expected error for unknown universe")
	}
}

func TestOutputFilenames(t *testing.T) {
	if got := Dow30.TickersFile(); got != "dow30_tickers.csv" {
		t.Errorf("TickersFile = %q", got)
	}
	if got := Dow30.PricesFile(10); got != "dow30_prices_daily_10y_plus_dji.csv" {
		t.Errorf("PricesFile = %q", got)
	}
	if got := SP500.PricesFile(10); got != "sp500_prices_daily_10y_plus_gspc.csv" {
		t.Errorf("PricesFile = %q", got)
	}
}
