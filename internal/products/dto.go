package product

import (
	"time"

	"github.com/akinleyeOJ/culturer-backend/pkg/db/models"
	"github.com/akinleyeOJ/culturer-backend/pkg/pagination"
)

// ProductDTO is the client-facing product shape. IsFavorite is relative to
// the viewer and false for anonymous requests.
type ProductDTO struct {
	ID             string    `json:"id"`
	SellerID       string    `json:"seller_id"`
	SellerName     string    `json:"seller_name"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	Price          string    `json:"price"`
	PriceCents     int       `json:"price_cents"`
	ShippingCost   string    `json:"shipping_cost"`
	ImageEmoji     *string   `json:"image_emoji,omitempty"`
	ImageURL       *string   `json:"image_url,omitempty"`
	Images         []string  `json:"images"`
	Category       *string   `json:"category,omitempty"`
	Condition      string    `json:"condition"`
	CulturalOrigin *string   `json:"cultural_origin,omitempty"`
	StockQuantity  int       `json:"stock_quantity"`
	OutOfStock     bool      `json:"out_of_stock"`
	Status         string    `json:"status"`
	ViewCount      int       `json:"view_count"`
	IsFavorite     bool      `json:"is_favorite"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListResult is one page of products plus the range window metadata.
type ListResult struct {
	Products []ProductDTO    `json:"products"`
	Page     pagination.Page `json:"page"`
}

// NewProductDTO maps a product row for the given viewer.
func NewProductDTO(p models.Product, isFavorite bool) ProductDTO {
	images := make([]string, len(p.Images))
	copy(images, p.Images)
	return ProductDTO{
		ID:             p.ID.String(),
		SellerID:       p.SellerID.String(),
		SellerName:     p.SellerName,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.PriceLabel,
		PriceCents:     p.PriceCents,
		ShippingCost:   p.ShippingCost,
		ImageEmoji:     p.ImageEmoji,
		ImageURL:       p.ImageURL,
		Images:         images,
		Category:       p.Category,
		Condition:      p.Condition.String(),
		CulturalOrigin: p.CulturalOrigin,
		StockQuantity:  p.StockQuantity,
		OutOfStock:     p.OutOfStock,
		Status:         p.Status.String(),
		ViewCount:      p.ViewCount,
		IsFavorite:     isFavorite,
		CreatedAt:      p.CreatedAt,
	}
}
