package orders

import (
	"time"

	"github.com/akinleyeOJ/culturer-backend/pkg/db/models"
	"github.com/akinleyeOJ/culturer-backend/pkg/money"
)

// OrderDTO is the buyer-facing order snapshot.
type OrderDTO struct {
	ID        string        `json:"id"`
	Status    string        `json:"status"`
	Subtotal  string        `json:"subtotal"`
	Shipping  string        `json:"shipping"`
	Tax       string        `json:"tax"`
	Total     string        `json:"total"`
	ItemCount int           `json:"item_count"`
	LineItems []LineItemDTO `json:"line_items"`
	CreatedAt time.Time     `json:"created_at"`
}

// LineItemDTO is one product snapshot inside an order.
type LineItemDTO struct {
	ProductID   string `json:"product_id"`
	SellerID    string `json:"seller_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

func newOrderDTO(order models.Order) OrderDTO {
	lines := make([]LineItemDTO, 0, len(order.LineItems))
	for _, line := range order.LineItems {
		lines = append(lines, LineItemDTO{
			ProductID:   line.ProductID.String(),
			SellerID:    line.SellerID.String(),
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   money.Format(money.FromCents(line.UnitPriceCents)),
		})
	}

	return OrderDTO{
		ID:        order.ID.String(),
		Status:    order.Status.String(),
		Subtotal:  money.Format(money.FromCents(order.SubtotalCents)),
		Shipping:  money.Format(money.FromCents(order.ShippingCents)),
		Tax:       money.Format(money.FromCents(order.TaxCents)),
		Total:     money.Format(money.FromCents(order.TotalCents)),
		ItemCount: order.ItemCount,
		LineItems: lines,
		CreatedAt: order.CreatedAt,
	}
}
