package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"mutualfund-bot/config"
)

const testCatalogJSON = `[
  {
    "category": "Equity",
    "funds": [
      {"fund_id": "F1", "fund_name": "Growth Fund", "ratio": "0.5", "cagr": "15", "details_link": "https://example.com/F1"},
      {"fund_id": "F2", "fund_name": "Value Fund", "ratio": "0.4", "cagr": "12", "details_link": "https://example.com/F2"}
    ]
  },
  {
    "category": "Debt",
    "funds": [
      {"fund_id": "D1", "fund_name": "Bond Fund", "ratio": "0.3", "cagr": "7", "details_link": "https://example.com/D1"}
    ]
  }
]`

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(testCatalogJSON), 0644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	cfg := &config.Config{Storage: config.Storage{CatalogPath: path}}
	c, err := Load(cfg)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c
}

func TestCategories(t *testing.T) {
	c := newTestCatalog(t)

	cats := c.Categories()
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cats))
	}
	if cats[0].Category != "Equity" || cats[1].Category != "Debt" {
		t.Errorf("unexpected category order: %q, %q", cats[0].Category, cats[1].Category)
	}
}

func TestCategoryLookupIdempotent(t *testing.T) {
	c := newTestCatalog(t)

	first, ok := c.Category("Equity")
	if !ok {
		t.Fatal("Equity not found")
	}
	second, ok := c.Category("Equity")
	if !ok {
		t.Fatal("Equity not found on second lookup")
	}
	if len(first.Funds) != len(second.Funds) {
		t.Fatalf("fund list changed between lookups: %d vs %d", len(first.Funds), len(second.Funds))
	}
	for i := range first.Funds {
		if first.Funds[i] != second.Funds[i] {
			t.Errorf("fund %d differs between lookups", i)
		}
	}
}

func TestCategoryNotFound(t *testing.T) {
	c := newTestCatalog(t)

	if _, ok := c.Category("Gold"); ok {
		t.Error("expected Gold category to be absent")
	}
}

func TestFindFund(t *testing.T) {
	c := newTestCatalog(t)

	fund, ok := c.FindFund("D1")
	if !ok {
		t.Fatal("D1 not found")
	}
	if fund.FundName != "Bond Fund" {
		t.Errorf("expected Bond Fund, got %q", fund.FundName)
	}

	if _, ok := c.FindFund("NOPE"); ok {
		t.Error("expected NOPE to be absent")
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg := &config.Config{Storage: config.Storage{CatalogPath: filepath.Join(t.TempDir(), "missing.json")}}
	if _, err := Load(cfg); err == nil {
		t.Fatal("expected error for missing catalog file")
	}
}
