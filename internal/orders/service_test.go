package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/akinleyeOJ/culturer-backend/pkg/db/models"
	"github.com/akinleyeOJ/culturer-backend/pkg/enums"
	pkgerrors "github.com/akinleyeOJ/culturer-backend/pkg/errors"
)

type stubStore struct {
	created []*models.Order
	orders  map[uuid.UUID]*models.Order
}

func newStubStore() *stubStore {
	return &stubStore{orders: make(map[uuid.UUID]*models.Order)}
}

func (s *stubStore) Create(_ context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.created = append(s.created, order)
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubStore) GetByID(_ context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, nil
	}
	return order, nil
}

func (s *stubStore) ListForUser(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

type stubCart struct {
	rows []models.CartItem
}

func (s *stubCart) ListForUser(context.Context, uuid.UUID) ([]models.CartItem, error) {
	return s.rows, nil
}

type stubEvents struct {
	orderIDs []uuid.UUID
	totals   []int
}

func (s *stubEvents) OrderCreated(_ context.Context, _, orderID uuid.UUID, totalCents, _ int) {
	s.orderIDs = append(s.orderIDs, orderID)
	s.totals = append(s.totals, totalCents)
}

func cartRow(sellerID uuid.UUID, name, price, shipping string, priceCents, qty int) models.CartItem {
	productID := uuid.New()
	return models.CartItem{
		ID:        uuid.New(),
		ProductID: productID,
		Quantity:  qty,
		Product: &models.Product{
			ID:           productID,
			SellerID:     sellerID,
			SellerName:   "Seller",
			Name:         name,
			PriceLabel:   price,
			PriceCents:   priceCents,
			ShippingCost: shipping,
			Status:       enums.ListingStatusActive,
		},
	}
}

func newTestService(t *testing.T, store *stubStore, cartStub *stubCart, events *stubEvents) Service {
	t.Helper()

	params := ServiceParams{
		Repo:    store,
		Cart:    cartStub,
		TaxRate: decimal.NewFromFloat(0.10),
	}
	if events != nil {
		params.Events = events
	}

	svc, err := NewService(params)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestCheckoutSnapshotsCartTotals(t *testing.T) {
	t.Parallel()

	seller := uuid.New()
	cartStub := &stubCart{rows: []models.CartItem{
		cartRow(seller, "Adire fabric", "$30.00", "$5.00", 3000, 2),
		cartRow(seller, "Shekere", "$40.00", "$8.00", 4000, 1),
	}}
	store := newStubStore()
	events := &stubEvents{}
	svc := newTestService(t, store, cartStub, events)

	dto, err := svc.Checkout(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}

	// subtotal $100, one parcel per seller so shipping is $8 not $13,
	// tax 10% of subtotal only.
	if dto.Subtotal != "$100.00" || dto.Shipping != "$8.00" || dto.Tax != "$10.00" || dto.Total != "$118.00" {
		t.Fatalf("unexpected totals %s / %s / %s / %s", dto.Subtotal, dto.Shipping, dto.Tax, dto.Total)
	}
	if dto.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", dto.ItemCount)
	}
	if dto.Status != enums.OrderStatusPending.String() {
		t.Fatalf("expected pending order, got %q", dto.Status)
	}
	if len(dto.LineItems) != 2 {
		t.Fatalf("expected 2 line items, got %d", len(dto.LineItems))
	}
	if len(events.orderIDs) != 1 || events.totals[0] != 11800 {
		t.Fatalf("unexpected order events %v / %v", events.orderIDs, events.totals)
	}
}

func TestCheckoutSkipsRowsWithoutProduct(t *testing.T) {
	t.Parallel()

	seller := uuid.New()
	stale := models.CartItem{ID: uuid.New(), ProductID: uuid.New(), Quantity: 4}
	cartStub := &stubCart{rows: []models.CartItem{
		stale,
		cartRow(seller, "Clay pot", "$20.00", "Free", 2000, 1),
	}}
	store := newStubStore()
	svc := newTestService(t, store, cartStub, nil)

	dto, err := svc.Checkout(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}
	if dto.ItemCount != 1 || len(dto.LineItems) != 1 {
		t.Fatalf("expected stale row to be dropped, got count %d with %d lines", dto.ItemCount, len(dto.LineItems))
	}
}

func TestCheckoutEmptyCartConflicts(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubStore(), &stubCart{}, nil)

	_, err := svc.Checkout(context.Background(), uuid.New())
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for empty cart, got %v", err)
	}
}

func TestGetOrderScopedToBuyer(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	buyer := uuid.New()
	order := &models.Order{UserID: buyer, Status: enums.OrderStatusPending}
	if _, err := store.Create(context.Background(), order); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	svc := newTestService(t, store, &stubCart{}, nil)

	if _, err := svc.GetOrder(context.Background(), buyer, order.ID); err != nil {
		t.Fatalf("expected buyer to load own order, got %v", err)
	}

	_, err := svc.GetOrder(context.Background(), uuid.New(), order.ID)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign order, got %v", err)
	}
}
