package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/akinleyeOJ/culturer-backend/pkg/db/models"
	"github.com/akinleyeOJ/culturer-backend/pkg/money"
)

// UnknownSellerID groups cart rows whose product snapshot is missing.
const UnknownSellerID = "unknown"

// SellerGroup is one seller's slice of the cart. Shipping is the maximum
// shipping cost across the seller's items, not the sum: each seller ships
// one parcel no matter how many of their items are in the cart.
type SellerGroup struct {
	SellerID   string
	SellerName string
	Items      []models.CartItem
	Subtotal   decimal.Decimal
	Shipping   decimal.Decimal
	ItemCount  int
}

// CartTotals aggregates all seller groups into checkout-ready numbers.
type CartTotals struct {
	Subtotal  decimal.Decimal
	Shipping  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	ItemCount int
}

// GroupBySeller partitions cart items by the product's seller, preserving the
// order sellers first appear in. Items whose product failed to load fall into
// the "unknown" group so a stale cart row never hides the rest of the cart.
func GroupBySeller(items []models.CartItem) []SellerGroup {
	index := make(map[string]int, len(items))
	groups := make([]SellerGroup, 0, len(items))

	for _, item := range items {
		sellerID := UnknownSellerID
		sellerName := "Unknown Seller"
		if item.Product != nil {
			sellerID = item.Product.SellerID.String()
			sellerName = item.Product.SellerName
			if sellerName == "" {
				sellerName = fmt.Sprintf("Seller %s", sellerID[:8])
			}
		}

		pos, ok := index[sellerID]
		if !ok {
			pos = len(groups)
			index[sellerID] = pos
			groups = append(groups, SellerGroup{
				SellerID:   sellerID,
				SellerName: sellerName,
				Subtotal:   decimal.Zero,
				Shipping:   decimal.Zero,
			})
		}

		g := &groups[pos]
		g.Items = append(g.Items, item)
		g.ItemCount += item.Quantity

		if item.Product == nil {
			continue
		}
		price := money.ParsePrice(item.Product.PriceLabel)
		g.Subtotal = g.Subtotal.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))

		shipping := money.ParseShipping(item.Product.ShippingCost)
		if shipping.GreaterThan(g.Shipping) {
			g.Shipping = shipping
		}
	}

	return groups
}

// CalculateTotals sums seller groups and applies a flat tax rate to the
// subtotal. Shipping is never taxed.
func CalculateTotals(groups []SellerGroup, taxRate decimal.Decimal) CartTotals {
	totals := CartTotals{
		Subtotal: decimal.Zero,
		Shipping: decimal.Zero,
	}
	for _, g := range groups {
		totals.Subtotal = totals.Subtotal.Add(g.Subtotal)
		totals.Shipping = totals.Shipping.Add(g.Shipping)
		totals.ItemCount += g.ItemCount
	}
	totals.Tax = totals.Subtotal.Mul(taxRate).Round(2)
	totals.Total = totals.Subtotal.Add(totals.Shipping).Add(totals.Tax)
	return totals
}
