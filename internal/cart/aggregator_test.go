package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/akinleyeOJ/culturer-backend/pkg/db/models"
)

func cartItem(sellerID uuid.UUID, sellerName, price, shipping string, qty int) models.CartItem {
	return models.CartItem{
		ID:        uuid.New(),
		ProductID: uuid.New(),
		Quantity:  qty,
		Product: &models.Product{
			ID:           uuid.New(),
			SellerID:     sellerID,
			SellerName:   sellerName,
			Name:         "item",
			PriceLabel:   price,
			ShippingCost: shipping,
		},
	}
}

func TestGroupBySellerShippingIsMaxNotSum(t *testing.T) {
	t.Parallel()

	seller := uuid.New()
	items := []models.CartItem{
		cartItem(seller, "Kente Works", "$20.00", "$5.00", 1),
		cartItem(seller, "Kente Works", "$35.00", "$8.00", 1),
	}

	groups := GroupBySeller(items)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if got := groups[0].Shipping; !got.Equal(decimal.RequireFromString("8")) {
		t.Fatalf("expected shipping 8, got %s", got)
	}
	if got := groups[0].Subtotal; !got.Equal(decimal.RequireFromString("55")) {
		t.Fatalf("expected subtotal 55, got %s", got)
	}
}

func TestCalculateTotalsItemCountSumsQuantities(t *testing.T) {
	t.Parallel()

	items := []models.CartItem{
		cartItem(uuid.New(), "A", "$10.00", "Free", 2),
		cartItem(uuid.New(), "B", "$15.00", "Free", 3),
	}

	totals := CalculateTotals(GroupBySeller(items), decimal.RequireFromString("0.10"))
	if totals.ItemCount != 5 {
		t.Fatalf("expected item count 5, got %d", totals.ItemCount)
	}
}

func TestCalculateTotalsAppliesFlatTaxOnSubtotalOnly(t *testing.T) {
	t.Parallel()

	items := []models.CartItem{
		cartItem(uuid.New(), "A", "$100.00", "$10.00", 1),
	}

	totals := CalculateTotals(GroupBySeller(items), decimal.RequireFromString("0.10"))
	if !totals.Subtotal.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("expected subtotal 100, got %s", totals.Subtotal)
	}
	if !totals.Tax.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("expected tax 10, got %s", totals.Tax)
	}
	if !totals.Total.Equal(decimal.RequireFromString("120")) {
		t.Fatalf("expected total 120, got %s", totals.Total)
	}
}

func TestGroupBySellerPreservesFirstAppearanceOrder(t *testing.T) {
	t.Parallel()

	first := uuid.New()
	second := uuid.New()
	items := []models.CartItem{
		cartItem(first, "First", "$5.00", "Free", 1),
		cartItem(second, "Second", "$5.00", "Free", 1),
		cartItem(first, "First", "$5.00", "Free", 1),
	}

	groups := GroupBySeller(items)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].SellerID != first.String() || groups[1].SellerID != second.String() {
		t.Fatalf("unexpected group order: %s, %s", groups[0].SellerID, groups[1].SellerID)
	}
	if len(groups[0].Items) != 2 {
		t.Fatalf("expected 2 items in first group, got %d", len(groups[0].Items))
	}
}

func TestGroupBySellerFallbacks(t *testing.T) {
	t.Parallel()

	seller := uuid.New()
	items := []models.CartItem{
		{ID: uuid.New(), ProductID: uuid.New(), Quantity: 1}, // product failed to load
		cartItem(seller, "", "$5.00", "Free", 1),
	}

	groups := GroupBySeller(items)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].SellerID != UnknownSellerID {
		t.Fatalf("expected unknown seller group, got %s", groups[0].SellerID)
	}
	want := "Seller " + seller.String()[:8]
	if groups[1].SellerName != want {
		t.Fatalf("expected fallback name %q, got %q", want, groups[1].SellerName)
	}
}
