package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/akinleyeOJ/culturer-backend/pkg/enums"
)

// Product represents a marketplace listing. PriceLabel is the display string
// the mobile client renders ("$25", "Free" shipping labels and so on);
// PriceCents is the numeric amount the data service filters and sorts on.
type Product struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID       uuid.UUID              `gorm:"column:seller_id;type:uuid;not null;index:products_seller_id_idx"`
	SellerName     string                 `gorm:"column:seller_name;not null"`
	Name           string                 `gorm:"column:name;not null"`
	Description    *string                `gorm:"column:description"`
	PriceLabel     string                 `gorm:"column:price_label;not null"`
	PriceCents     int                    `gorm:"column:price_cents;not null"`
	ShippingCost   string                 `gorm:"column:shipping_cost;not null;default:'Free'"`
	ImageEmoji     *string                `gorm:"column:image_emoji"`
	ImageURL       *string                `gorm:"column:image_url"`
	Images         pq.StringArray         `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	Category       *string                `gorm:"column:category"`
	Condition      enums.ProductCondition `gorm:"column:condition;not null;default:'good'"`
	CulturalOrigin *string                `gorm:"column:cultural_origin"`
	StockQuantity  int                    `gorm:"column:stock_quantity;not null;default:0"`
	OutOfStock     bool                   `gorm:"column:out_of_stock;not null;default:false"`
	Status         enums.ListingStatus    `gorm:"column:status;not null;default:'active'"`
	ViewCount      int                    `gorm:"column:view_count;not null;default:0"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
