package product

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/akinleyeOJ/culturer-backend/pkg/db/models"
	"github.com/akinleyeOJ/culturer-backend/pkg/enums"
	"github.com/akinleyeOJ/culturer-backend/pkg/money"
)

// Filter narrows an already-fetched page of products. Price bounds arrive as
// display strings ("$25", "100") and are parsed leniently; an unparseable
// bound degrades to zero rather than failing the whole filter.
type Filter struct {
	Query    string
	Category string
	MinPrice string
	MaxPrice string
}

// FilterProducts returns the products matching the filter, preserving input
// order. The input slice is never mutated.
func FilterProducts(items []models.Product, f Filter) []models.Product {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	minBound := parseBound(f.MinPrice)
	maxBound := parseBound(f.MaxPrice)

	out := make([]models.Product, 0, len(items))
	for _, p := range items {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		if !categoryMatches(p.Category, f.Category) {
			continue
		}
		if minBound != nil || maxBound != nil {
			price := money.ParsePrice(p.PriceLabel)
			if minBound != nil && price.LessThan(*minBound) {
				continue
			}
			if maxBound != nil && price.GreaterThan(*maxBound) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// SortProducts returns a sorted copy of the input. Only the price keys sort
// locally; newest and popularity are resolved by the data service's ORDER BY,
// so for those the copy keeps the order the rows arrived in.
func SortProducts(items []models.Product, key enums.RemoteSortKey) []models.Product {
	out := make([]models.Product, len(items))
	copy(out, items)

	switch key {
	case enums.SortKeyPriceAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return money.ParsePrice(out[i].PriceLabel).LessThan(money.ParsePrice(out[j].PriceLabel))
		})
	case enums.SortKeyPriceDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return money.ParsePrice(out[i].PriceLabel).GreaterThan(money.ParsePrice(out[j].PriceLabel))
		})
	}
	return out
}

func parseBound(value string) *decimal.Decimal {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	parsed := money.ParsePrice(v)
	return &parsed
}
