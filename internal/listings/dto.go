package listings

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/akinleyeOJ/culturer-backend/pkg/db/models"
	"github.com/akinleyeOJ/culturer-backend/pkg/enums"
	pkgerrors "github.com/akinleyeOJ/culturer-backend/pkg/errors"
	"github.com/akinleyeOJ/culturer-backend/pkg/money"
)

// CreateListingInput is the seller-supplied draft payload.
type CreateListingInput struct {
	Name           string  `json:"name" validate:"required,min=3,max=120"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price          string  `json:"price" validate:"required"`
	ShippingCost   string  `json:"shipping_cost,omitempty"`
	Category       *string `json:"category,omitempty"`
	Condition      string  `json:"condition,omitempty"`
	CulturalOrigin *string `json:"cultural_origin,omitempty" validate:"omitempty,max=120"`
	StockQuantity  int     `json:"stock_quantity" validate:"gte=0"`
	ImageEmoji     *string `json:"image_emoji,omitempty"`
	Publish        bool    `json:"publish"`
}

// UpdateListingInput carries partial edits; nil fields are left untouched.
type UpdateListingInput struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=3,max=120"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Price          *string `json:"price,omitempty"`
	ShippingCost   *string `json:"shipping_cost,omitempty"`
	Category       *string `json:"category,omitempty"`
	Condition      *string `json:"condition,omitempty"`
	CulturalOrigin *string `json:"cultural_origin,omitempty" validate:"omitempty,max=120"`
	StockQuantity  *int    `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
}

// parsePrice turns the seller's price input into the dual representation
// stored on the product row.
func parsePrice(raw string) (label string, cents int, err error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", 0, pkgerrors.New(pkgerrors.CodeValidation, "price is required")
	}

	amount := money.ParsePrice(trimmed)
	if amount.LessThanOrEqual(decimal.Zero) {
		return "", 0, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero")
	}
	return money.Format(amount), money.Cents(amount), nil
}

func parseShipping(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "free") {
		return "Free", nil
	}

	amount := money.ParseShipping(trimmed)
	if amount.LessThan(decimal.Zero) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "shipping cost cannot be negative")
	}
	if amount.IsZero() {
		return "Free", nil
	}
	return money.Format(amount), nil
}

func parseCondition(raw string) (enums.ProductCondition, error) {
	if strings.TrimSpace(raw) == "" {
		return enums.ProductConditionGood, nil
	}
	condition, err := enums.ParseProductCondition(raw)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid condition")
	}
	return condition, nil
}

// ListingDTO is the seller-facing listing shape.
type ListingDTO struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    *string  `json:"description,omitempty"`
	Price          string   `json:"price"`
	PriceCents     int      `json:"price_cents"`
	ShippingCost   string   `json:"shipping_cost"`
	Category       *string  `json:"category,omitempty"`
	Condition      string   `json:"condition"`
	CulturalOrigin *string  `json:"cultural_origin,omitempty"`
	StockQuantity  int      `json:"stock_quantity"`
	OutOfStock     bool     `json:"out_of_stock"`
	Status         string   `json:"status"`
	Images         []string `json:"images"`
	ImageEmoji     *string  `json:"image_emoji,omitempty"`
	ViewCount      int      `json:"view_count"`
}

func newListingDTO(p models.Product) ListingDTO {
	images := make([]string, len(p.Images))
	copy(images, p.Images)

	return ListingDTO{
		ID:             p.ID.String(),
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.PriceLabel,
		PriceCents:     p.PriceCents,
		ShippingCost:   p.ShippingCost,
		Category:       p.Category,
		Condition:      p.Condition.String(),
		CulturalOrigin: p.CulturalOrigin,
		StockQuantity:  p.StockQuantity,
		OutOfStock:     p.OutOfStock,
		Status:         p.Status.String(),
		Images:         images,
		ImageEmoji:     p.ImageEmoji,
		ViewCount:      p.ViewCount,
	}
}
