package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types carried on the activity topic.
const (
	TypeProductViewed    = "product.viewed"
	TypeOrderCreated     = "order.created"
	TypeListingPublished = "listing.published"
)

// Envelope wraps every activity payload with routing metadata.
type Envelope struct {
	EventID    string      `json:"event_id"`
	EventType  string      `json:"event_type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// ProductViewedPayload records a product detail open.
type ProductViewedPayload struct {
	ViewerID  uuid.UUID `json:"viewer_id"`
	ProductID uuid.UUID `json:"product_id"`
}

// OrderCreatedPayload records a successful checkout.
type OrderCreatedPayload struct {
	BuyerID    uuid.UUID `json:"buyer_id"`
	OrderID    uuid.UUID `json:"order_id"`
	TotalCents int       `json:"total_cents"`
	ItemCount  int       `json:"item_count"`
}

// ListingPublishedPayload records a listing going live.
type ListingPublishedPayload struct {
	SellerID  uuid.UUID `json:"seller_id"`
	ProductID uuid.UUID `json:"product_id"`
}

func newEnvelope(eventType string, occurredAt time.Time, payload interface{}) Envelope {
	return Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: occurredAt.UTC(),
		Payload:    payload,
	}
}
