package wishlist

import (
	"time"

	product "github.com/akinleyeOJ/culturer-backend/internal/products"
)

// ItemDTO wraps the product shape included in a wishlist row.
type ItemDTO struct {
	Product   product.ProductDTO `json:"product"`
	CreatedAt time.Time          `json:"created_at"`
}

// ListDTO is the full wishlist response.
type ListDTO struct {
	Items []ItemDTO `json:"items"`
	Count int       `json:"count"`
}

// SkippedItem names a product left out of a bulk add because it was out of
// stock at the time.
type SkippedItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
}

// BulkAddResult reports how a bulk add-to-cart settled. NeedsConfirmation
// means nothing was written yet: some products are out of stock and the
// caller must confirm adding the rest.
type BulkAddResult struct {
	Added             int           `json:"added"`
	Skipped           []SkippedItem `json:"skipped"`
	NeedsConfirmation bool          `json:"needs_confirmation"`
	ReloadRequired    bool          `json:"reload_required"`
}

// BulkRemoveResult reports how a bulk delete settled.
type BulkRemoveResult struct {
	Removed        int  `json:"removed"`
	ReloadRequired bool `json:"reload_required"`
}
