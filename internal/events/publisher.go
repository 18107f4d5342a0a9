package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/akinleyeOJ/culturer-backend/pkg/logger"
)

const publishTimeout = 10 * time.Second

// publisher is the slice of *pubsub.Publisher the emitter uses.
type publisher interface {
	Publish(ctx context.Context, msg *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(ctx context.Context) (string, error)
}

// Publisher emits activity events. All methods are fire-and-forget: publish
// failures are logged, never surfaced to the caller.
type Publisher struct {
	pub  publisher
	logg *logger.Logger
	now  func() time.Time
}

// NewPublisher wraps the activity topic publisher. A nil topic publisher
// yields an emitter that drops every event, which keeps local setups
// without Pub/Sub working.
func NewPublisher(topic *gcppubsub.Publisher, logg *logger.Logger) *Publisher {
	return &Publisher{
		pub:  newGCPPublisher(topic),
		logg: logg,
		now:  time.Now,
	}
}

// ProductViewed emits a product.viewed event.
func (p *Publisher) ProductViewed(ctx context.Context, viewerID, productID uuid.UUID) {
	p.emit(ctx, TypeProductViewed, ProductViewedPayload{
		ViewerID:  viewerID,
		ProductID: productID,
	})
}

// OrderCreated emits an order.created event.
func (p *Publisher) OrderCreated(ctx context.Context, buyerID, orderID uuid.UUID, totalCents, itemCount int) {
	p.emit(ctx, TypeOrderCreated, OrderCreatedPayload{
		BuyerID:    buyerID,
		OrderID:    orderID,
		TotalCents: totalCents,
		ItemCount:  itemCount,
	})
}

// ListingPublished emits a listing.published event.
func (p *Publisher) ListingPublished(ctx context.Context, sellerID, productID uuid.UUID) {
	p.emit(ctx, TypeListingPublished, ListingPublishedPayload{
		SellerID:  sellerID,
		ProductID: productID,
	})
}

func (p *Publisher) emit(ctx context.Context, eventType string, payload interface{}) {
	if p == nil || p.pub == nil {
		return
	}

	envelope := newEnvelope(eventType, p.now(), payload)
	data, err := json.Marshal(envelope)
	if err != nil {
		p.logError(ctx, eventType, err)
		return
	}

	msg := &gcppubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event_id":    envelope.EventID,
			"event_type":  eventType,
			"occurred_at": envelope.OccurredAt.Format(time.RFC3339Nano),
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	result := p.pub.Publish(publishCtx, msg)
	if result == nil {
		p.logError(ctx, eventType, errors.New("publisher returned nil result"))
		return
	}
	if _, err := result.Get(publishCtx); err != nil {
		p.logError(ctx, eventType, err)
	}
}

func (p *Publisher) logError(ctx context.Context, eventType string, err error) {
	if p.logg == nil {
		return
	}
	lctx := p.logg.WithField(ctx, "event_type", eventType)
	p.logg.Error(lctx, "failed to publish activity event", err)
}

func newGCPPublisher(topic *gcppubsub.Publisher) publisher {
	if topic == nil {
		return nil
	}
	return &gcpPublisher{Publisher: topic}
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return p.Publisher.Publish(ctx, msg)
}
