package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/akinleyeOJ/culturer-backend/pkg/db"
	"github.com/akinleyeOJ/culturer-backend/pkg/db/models"
	pkgerrors "github.com/akinleyeOJ/culturer-backend/pkg/errors"
)

// uniqueCartItemConstraint is the (user_id, product_id) unique index on
// cart_items; hitting it means a concurrent add won the insert race.
const uniqueCartItemConstraint = "cart_items_user_product_key"

// Store defines the persistence surface required by the cart service.
type Store interface {
	WithTx(tx *gorm.DB) Store
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	GetByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) error
	SumQuantities(ctx context.Context, userID uuid.UUID) (int, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type badgeNotifier interface {
	BeginCartRefresh(userID uuid.UUID) uint64
	SetCartCount(ctx context.Context, userID uuid.UUID, ticket uint64, count int) bool
}

// Service exposes cart operations.
type Service interface {
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	GetCart(ctx context.Context, userID uuid.UUID) (*GroupedCartDTO, error)
	Count(ctx context.Context, userID uuid.UUID) (int, error)
}

type service struct {
	repo     Store
	tx       txRunner
	products productLoader
	badges   badgeNotifier
	taxRate  decimal.Decimal
}

// NewService builds a cart service backed by the provided stack. The badge
// notifier is optional; every other dependency is required.
func NewService(repo Store, tx txRunner, products productLoader, badges badgeNotifier, taxRate decimal.Decimal) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if taxRate.IsNegative() {
		return nil, fmt.Errorf("tax rate must be non-negative")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		products: products,
		badges:   badges,
		taxRate:  taxRate,
	}, nil
}

// AddItem puts a product in the user's cart. Adding a product already in the
// cart bumps its quantity instead of creating a second row.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if product.OutOfStock {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product is out of stock")
	}

	result, err := s.upsertItem(ctx, userID, productID, quantity)
	if err != nil && db.IsUniqueViolation(err, uniqueCartItemConstraint) {
		// A concurrent add created the row between our read and insert.
		// The transaction is already rolled back, so retry once; the row
		// exists now and the bump path takes over.
		result, err = s.upsertItem(ctx, userID, productID, quantity)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding cart item")
	}

	s.notifyBadge(ctx, userID)
	result.Product = product
	return result, nil
}

// upsertItem performs one get-then-write pass: bump the existing row's
// quantity, or insert a fresh one.
func (s *service) upsertItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	var result *models.CartItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.GetByUserAndProduct(ctx, userID, productID)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.Quantity += quantity
			if err := repo.UpdateQuantity(ctx, existing.ID, existing.Quantity); err != nil {
				return err
			}
			result = existing
			return nil
		}
		item := &models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := repo.Create(ctx, item); err != nil {
			return err
		}
		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateQuantity sets the quantity for a cart row. A quantity of zero or
// below removes the row entirely.
func (s *service) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and product id are required")
	}

	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	existing, err := s.repo.GetByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}
	if existing == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	if err := s.repo.UpdateQuantity(ctx, existing.ID, quantity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart quantity")
	}

	s.notifyBadge(ctx, userID)
	return nil
}

// RemoveItem deletes the cart row for the product if present.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and product id are required")
	}

	if err := s.repo.DeleteByUserAndProduct(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart item")
	}

	s.notifyBadge(ctx, userID)
	return nil
}

// GetCart returns the cart grouped by seller with aggregate totals.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*GroupedCartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	items, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}

	groups := GroupBySeller(items)
	totals := CalculateTotals(groups, s.taxRate)
	return newGroupedCartDTO(groups, totals), nil
}

// Count returns the total quantity across the user's cart.
func (s *service) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	count, err := s.repo.SumQuantities(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting cart items")
	}
	return count, nil
}

// notifyBadge recounts the cart and pushes the result to the badge store.
// The ticket is taken before the recount so that when two mutations
// interleave, the recount that started first can never overwrite the later
// one with its older total.
func (s *service) notifyBadge(ctx context.Context, userID uuid.UUID) {
	if s.badges == nil {
		return
	}
	ticket := s.badges.BeginCartRefresh(userID)
	count, err := s.repo.SumQuantities(ctx, userID)
	if err != nil {
		return
	}
	s.badges.SetCartCount(ctx, userID, ticket, count)
}
