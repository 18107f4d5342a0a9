package cart

import (
	"github.com/shopspring/decimal"

	"github.com/akinleyeOJ/culturer-backend/pkg/db/models"
	"github.com/akinleyeOJ/culturer-backend/pkg/money"
)

// CartItemDTO is one cart row shaped for clients.
type CartItemDTO struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	PriceLabel   string  `json:"price"`
	ShippingCost string  `json:"shipping_cost"`
	ImageEmoji   *string `json:"image_emoji,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`
	Quantity     int     `json:"quantity"`
	LineTotal    string  `json:"line_total"`
	OutOfStock   bool    `json:"out_of_stock"`
}

// SellerGroupDTO is one seller's section of the cart.
type SellerGroupDTO struct {
	SellerID   string        `json:"seller_id"`
	SellerName string        `json:"seller_name"`
	Items      []CartItemDTO `json:"items"`
	Subtotal   string        `json:"subtotal"`
	Shipping   string        `json:"shipping"`
	ItemCount  int           `json:"item_count"`
}

// CartTotalsDTO carries the checkout-ready aggregate numbers.
type CartTotalsDTO struct {
	Subtotal  string `json:"subtotal"`
	Shipping  string `json:"shipping"`
	Tax       string `json:"tax"`
	Total     string `json:"total"`
	ItemCount int    `json:"item_count"`
}

// GroupedCartDTO is the full cart response.
type GroupedCartDTO struct {
	Sellers []SellerGroupDTO `json:"sellers"`
	Totals  CartTotalsDTO    `json:"totals"`
}

func newGroupedCartDTO(groups []SellerGroup, totals CartTotals) *GroupedCartDTO {
	dto := &GroupedCartDTO{
		Sellers: make([]SellerGroupDTO, 0, len(groups)),
		Totals: CartTotalsDTO{
			Subtotal:  money.Format(totals.Subtotal),
			Shipping:  money.Format(totals.Shipping),
			Tax:       money.Format(totals.Tax),
			Total:     money.Format(totals.Total),
			ItemCount: totals.ItemCount,
		},
	}
	for _, g := range groups {
		group := SellerGroupDTO{
			SellerID:   g.SellerID,
			SellerName: g.SellerName,
			Items:      make([]CartItemDTO, 0, len(g.Items)),
			Subtotal:   money.Format(g.Subtotal),
			Shipping:   money.Format(g.Shipping),
			ItemCount:  g.ItemCount,
		}
		for _, item := range g.Items {
			group.Items = append(group.Items, newCartItemDTO(item))
		}
		dto.Sellers = append(dto.Sellers, group)
	}
	return dto
}

func newCartItemDTO(item models.CartItem) CartItemDTO {
	dto := CartItemDTO{
		ID:        item.ID.String(),
		ProductID: item.ProductID.String(),
		Quantity:  item.Quantity,
		LineTotal: money.Format(decimal.Zero),
	}
	if item.Product == nil {
		dto.Name = "Unavailable product"
		return dto
	}
	dto.Name = item.Product.Name
	dto.PriceLabel = item.Product.PriceLabel
	dto.ShippingCost = item.Product.ShippingCost
	dto.ImageEmoji = item.Product.ImageEmoji
	dto.ImageURL = item.Product.ImageURL
	dto.OutOfStock = item.Product.OutOfStock
	line := money.ParsePrice(item.Product.PriceLabel).Mul(decimal.NewFromInt(int64(item.Quantity)))
	dto.LineTotal = money.Format(line)
	return dto
}
