// Package catalog loads the fund catalog document once at startup. The
// catalog is immutable for the process lifetime; a reload needs a restart.
package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"mutualfund-bot/config"
	"mutualfund-bot/internal/model"
)

type Catalog struct {
	categories []model.FundCategory
}

func Load(cfg *config.Config) (*Catalog, error) {
	raw, err := os.ReadFile(cfg.Storage.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var categories []model.FundCategory
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}

	return &Catalog{categories: categories}, nil
}

func MustLoad(cfg *config.Config) *Catalog {
	c, err := Load(cfg)
	if err != nil {
		slog.Error("can't load fund catalog", slog.String("path", cfg.Storage.CatalogPath), slog.String("err", err.Error()))
		panic(err)
	}
	slog.Info("fund catalog loaded", slog.Int("categories", len(c.categories)))
	return c
}

// Categories returns the catalog in document order. Callers must not mutate
// the returned slice.
func (c *Catalog) Categories() []model.FundCategory {
	return c.categories
}

// Category returns the first category with the given name.
func (c *Catalog) Category(name string) (model.FundCategory, bool) {
	for _, cat := range c.categories {
		if cat.Category == name {
			return cat, true
		}
	}
	return model.FundCategory{}, false
}

// FindFund scans all categories in document order and returns the first fund
// with a matching id.
func (c *Catalog) FindFund(fundID string) (model.Fund, bool) {
	for _, cat := range c.categories {
		for _, fund := range cat.Funds {
			if fund.FundID == fundID {
				return fund, true
			}
		}
	}
	return model.Fund{}, false
}
