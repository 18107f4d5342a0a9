package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/akinleyeOJ/culturer-backend/internal/cart"
	"github.com/akinleyeOJ/culturer-backend/pkg/db/models"
	"github.com/akinleyeOJ/culturer-backend/pkg/enums"
	pkgerrors "github.com/akinleyeOJ/culturer-backend/pkg/errors"
	"github.com/akinleyeOJ/culturer-backend/pkg/logger"
	"github.com/akinleyeOJ/culturer-backend/pkg/money"
)

// Service is the checkout stub: it freezes the cart into a pending order.
// Payment capture is out of scope, and the cart rows are deliberately left
// in place so the client keeps showing them until fulfillment exists.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*OrderDTO, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
}

// Store is the order persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	GetByID(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
}

type cartLoader interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
}

type orderNotifier interface {
	OrderCreated(ctx context.Context, buyerID, orderID uuid.UUID, totalCents, itemCount int)
}

// ServiceParams wires the order service dependencies.
type ServiceParams struct {
	Repo    Store
	Cart    cartLoader
	Events  orderNotifier
	TaxRate decimal.Decimal
	Logger  *logger.Logger
}

type service struct {
	repo    Store
	cart    cartLoader
	events  orderNotifier
	taxRate decimal.Decimal
	logg    *logger.Logger
}

// NewService validates dependencies and returns the checkout service.
// Events is optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order service requires a store")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order service requires a cart loader")
	}
	return &service{
		repo:    params.Repo,
		cart:    params.Cart,
		events:  params.Events,
		taxRate: params.TaxRate,
		logg:    params.Logger,
	}, nil
}

func (s *service) Checkout(ctx context.Context, userID uuid.UUID) (*OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user is required")
	}

	rows, err := s.cart.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load cart")
	}

	items := make([]models.CartItem, 0, len(rows))
	for _, row := range rows {
		if row.Product != nil {
			items = append(items, row)
		}
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart is empty")
	}

	groups := cart.GroupBySeller(items)
	totals := cart.CalculateTotals(groups, s.taxRate)

	order := &models.Order{
		UserID:        userID,
		Status:        enums.OrderStatusPending,
		SubtotalCents: money.Cents(totals.Subtotal),
		ShippingCents: money.Cents(totals.Shipping),
		TaxCents:      money.Cents(totals.Tax),
		TotalCents:    money.Cents(totals.Total),
		ItemCount:     totals.ItemCount,
		LineItems:     lineItems(items),
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create order")
	}

	if s.events != nil {
		s.events.OrderCreated(ctx, userID, created.ID, created.TotalCents, created.ItemCount)
	}

	dto := newOrderDTO(*created)
	return &dto, nil
}

func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.GetByID(ctx, userID, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	dto := newOrderDTO(*order)
	return &dto, nil
}

func (s *service) ListOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load orders")
	}

	dtos := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, newOrderDTO(row))
	}
	return dtos, nil
}

func lineItems(items []models.CartItem) []models.OrderLineItem {
	out := make([]models.OrderLineItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.OrderLineItem{
			ProductID:      item.ProductID,
			SellerID:       item.Product.SellerID,
			ProductName:    item.Product.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: item.Product.PriceCents,
		})
	}
	return out
}
