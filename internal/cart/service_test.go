package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/akinleyeOJ/culturer-backend/pkg/db/models"
	pkgerrors "github.com/akinleyeOJ/culturer-backend/pkg/errors"
)

type stubStore struct {
	items map[uuid.UUID]*models.CartItem
}

func newStubStore() *stubStore {
	return &stubStore{items: map[uuid.UUID]*models.CartItem{}}
}

func (s *stubStore) WithTx(tx *gorm.DB) Store { return s }

func (s *stubStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, item := range s.items {
		if item.UserID == userID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *stubStore) GetByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	for _, item := range s.items {
		if item.UserID == userID && item.ProductID == productID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *stubStore) Create(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	copied := *item
	s.items[item.ID] = &copied
	return nil
}

func (s *stubStore) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	if item, ok := s.items[id]; ok {
		item.Quantity = quantity
	}
	return nil
}

func (s *stubStore) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.items, id)
	return nil
}

func (s *stubStore) DeleteByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) error {
	for id, item := range s.items {
		if item.UserID == userID && item.ProductID == productID {
			delete(s.items, id)
		}
	}
	return nil
}

func (s *stubStore) SumQuantities(ctx context.Context, userID uuid.UUID) (int, error) {
	total := 0
	for _, item := range s.items {
		if item.UserID == userID {
			total += item.Quantity
		}
	}
	return total, nil
}

// racingStore makes the first insert lose to a concurrent writer: the rival
// row lands and the insert comes back as a unique violation.
type racingStore struct {
	*stubStore
	raced bool
}

func (s *racingStore) WithTx(tx *gorm.DB) Store { return s }

func (s *racingStore) Create(ctx context.Context, item *models.CartItem) error {
	if !s.raced {
		s.raced = true
		rival := &models.CartItem{UserID: item.UserID, ProductID: item.ProductID, Quantity: 1}
		if err := s.stubStore.Create(ctx, rival); err != nil {
			return err
		}
		return errors.New(`duplicate key value violates unique constraint "cart_items_user_product_key"`)
	}
	return s.stubStore.Create(ctx, item)
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubProducts struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubProducts) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.products[id], nil
}

type stubBadges struct {
	lastTicket uint64
	lastCount  int
	begun      uint64
	calls      int
}

func (s *stubBadges) BeginCartRefresh(userID uuid.UUID) uint64 {
	s.begun++
	return s.begun
}

func (s *stubBadges) SetCartCount(ctx context.Context, userID uuid.UUID, ticket uint64, count int) bool {
	s.lastTicket = ticket
	s.lastCount = count
	s.calls++
	return true
}

func newTestService(t *testing.T, store *stubStore, products *stubProducts, badges *stubBadges) Service {
	t.Helper()
	var notifier badgeNotifier
	if badges != nil {
		notifier = badges
	}
	svc, err := NewService(store, stubTx{}, products, notifier, decimal.RequireFromString("0.10"))
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func inStockProduct(sellerID uuid.UUID, price string) *models.Product {
	return &models.Product{
		ID:           uuid.New(),
		SellerID:     sellerID,
		SellerName:   "Seller",
		Name:         "item",
		PriceLabel:   price,
		ShippingCost: "Free",
	}
}

func TestAddItemCreatesRowWithDefaultQuantity(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	product := inStockProduct(uuid.New(), "$10.00")
	products := &stubProducts{products: map[uuid.UUID]*models.Product{product.ID: product}}
	badges := &stubBadges{}
	svc := newTestService(t, store, products, badges)

	userID := uuid.New()
	item, err := svc.AddItem(context.Background(), userID, product.ID, 0)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", item.Quantity)
	}
	if badges.lastCount != 1 {
		t.Fatalf("expected badge count 1, got %d", badges.lastCount)
	}
}

func TestAddItemRecoversFromInsertRace(t *testing.T) {
	t.Parallel()

	store := &racingStore{stubStore: newStubStore()}
	product := inStockProduct(uuid.New(), "$10.00")
	products := &stubProducts{products: map[uuid.UUID]*models.Product{product.ID: product}}

	svc, err := NewService(store, stubTx{}, products, nil, decimal.RequireFromString("0.10"))
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	userID := uuid.New()
	item, err := svc.AddItem(context.Background(), userID, product.ID, 2)
	if err != nil {
		t.Fatalf("AddItem after insert race: %v", err)
	}
	// The rival row holds quantity 1; our add retries as a bump.
	if item.Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %d", item.Quantity)
	}
	if count, _ := store.SumQuantities(context.Background(), userID); count != 3 {
		t.Fatalf("expected one row with quantity 3, got total %d", count)
	}
}

func TestBadgeRecountCarriesRefreshTicket(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	first := inStockProduct(uuid.New(), "$10.00")
	second := inStockProduct(uuid.New(), "$20.00")
	products := &stubProducts{products: map[uuid.UUID]*models.Product{
		first.ID:  first,
		second.ID: second,
	}}
	badges := &stubBadges{}
	svc := newTestService(t, store, products, badges)

	userID := uuid.New()
	if _, err := svc.AddItem(context.Background(), userID, first.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := svc.AddItem(context.Background(), userID, second.ID, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	// Each mutation opens its own refresh and commits the recount under
	// that same ticket, so a recount can never land under an older ticket.
	if badges.begun != 2 {
		t.Fatalf("expected 2 refresh tickets, got %d", badges.begun)
	}
	if badges.lastTicket != badges.begun {
		t.Fatalf("expected recount under ticket %d, got %d", badges.begun, badges.lastTicket)
	}
	if badges.lastCount != 2 {
		t.Fatalf("expected badge count 2, got %d", badges.lastCount)
	}
}

func TestAddItemBumpsQuantityForExistingPair(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	product := inStockProduct(uuid.New(), "$10.00")
	products := &stubProducts{products: map[uuid.UUID]*models.Product{product.ID: product}}
	svc := newTestService(t, store, products, nil)

	userID := uuid.New()
	if _, err := svc.AddItem(context.Background(), userID, product.ID, 2); err != nil {
		t.Fatalf("first AddItem: %v", err)
	}
	item, err := svc.AddItem(context.Background(), userID, product.ID, 3)
	if err != nil {
		t.Fatalf("second AddItem: %v", err)
	}
	if item.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", item.Quantity)
	}
	if len(store.items) != 1 {
		t.Fatalf("expected a single cart row, got %d", len(store.items))
	}
}

func TestAddItemRejectsOutOfStockProduct(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	product := inStockProduct(uuid.New(), "$10.00")
	product.OutOfStock = true
	products := &stubProducts{products: map[uuid.UUID]*models.Product{product.ID: product}}
	svc := newTestService(t, store, products, nil)

	_, err := svc.AddItem(context.Background(), uuid.New(), product.ID, 1)
	if err == nil {
		t.Fatal("expected error for out of stock product")
	}
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestUpdateQuantityZeroRemovesRow(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	product := inStockProduct(uuid.New(), "$10.00")
	products := &stubProducts{products: map[uuid.UUID]*models.Product{product.ID: product}}
	svc := newTestService(t, store, products, nil)

	userID := uuid.New()
	if _, err := svc.AddItem(context.Background(), userID, product.ID, 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := svc.UpdateQuantity(context.Background(), userID, product.ID, 0); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if len(store.items) != 0 {
		t.Fatalf("expected cart row removed, got %d rows", len(store.items))
	}
}

func TestGetCartGroupsAndTotals(t *testing.T) {
	t.Parallel()

	store := newStubStore()
	sellerA := uuid.New()
	sellerB := uuid.New()
	productA := inStockProduct(sellerA, "$10.00")
	productA.ShippingCost = "$5.00"
	productB := inStockProduct(sellerB, "$20.00")
	products := &stubProducts{products: map[uuid.UUID]*models.Product{
		productA.ID: productA,
		productB.ID: productB,
	}}
	svc := newTestService(t, store, products, nil)

	userID := uuid.New()
	if _, err := svc.AddItem(context.Background(), userID, productA.ID, 2); err != nil {
		t.Fatalf("AddItem A: %v", err)
	}
	if _, err := svc.AddItem(context.Background(), userID, productB.ID, 1); err != nil {
		t.Fatalf("AddItem B: %v", err)
	}

	// rows in the stub carry no product snapshot; attach them as the repo would
	for _, item := range store.items {
		item.Product = products.products[item.ProductID]
	}

	dto, err := svc.GetCart(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if len(dto.Sellers) != 2 {
		t.Fatalf("expected 2 seller groups, got %d", len(dto.Sellers))
	}
	if dto.Totals.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", dto.Totals.ItemCount)
	}
	if dto.Totals.Subtotal != "$40.00" {
		t.Fatalf("expected subtotal $40.00, got %s", dto.Totals.Subtotal)
	}
	if dto.Totals.Shipping != "$5.00" {
		t.Fatalf("expected shipping $5.00, got %s", dto.Totals.Shipping)
	}
	if dto.Totals.Tax != "$4.00" {
		t.Fatalf("expected tax $4.00, got %s", dto.Totals.Tax)
	}
	if dto.Totals.Total != "$49.00" {
		t.Fatalf("expected total $49.00, got %s", dto.Totals.Total)
	}
}
