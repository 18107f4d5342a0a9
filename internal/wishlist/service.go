package wishlist

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/akinleyeOJ/culturer-backend/internal/optimistic"
	product "github.com/akinleyeOJ/culturer-backend/internal/products"
	"github.com/akinleyeOJ/culturer-backend/pkg/db/models"
	pkgerrors "github.com/akinleyeOJ/culturer-backend/pkg/errors"
)

// Store defines the persistence surface required by the wishlist service.
type Store interface {
	AddItem(ctx context.Context, userID, productID uuid.UUID) error
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) error
	Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error)
	IDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Count(ctx context.Context, userID uuid.UUID) (int, error)
}

type productLister interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

type cartAdder interface {
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error)
}

type badgeAdjuster interface {
	AdjustWishlistCount(ctx context.Context, userID uuid.UUID, delta int) (undo func())
}

// Service exposes business rules for wishlist management.
type Service interface {
	Toggle(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	GetWishlist(ctx context.Context, userID uuid.UUID) (*ListDTO, error)
	GetIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Count(ctx context.Context, userID uuid.UUID) (int, error)
	BulkRemove(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) (*BulkRemoveResult, error)
	BulkAddToCart(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID, confirmed bool) (*BulkAddResult, error)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Repo     Store
	Products productLister
	Cart     cartAdder
	Runner   *optimistic.Runner
	Badges   badgeAdjuster
}

type service struct {
	repo     Store
	products productLister
	cart     cartAdder
	runner   *optimistic.Runner
	badges   badgeAdjuster
}

// NewService builds a wishlist service. Badges are optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("wishlist store required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product lister required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart adder required")
	}
	if params.Runner == nil {
		return nil, fmt.Errorf("mutation runner required")
	}
	return &service{
		repo:     params.Repo,
		products: params.Products,
		cart:     params.Cart,
		runner:   params.Runner,
		badges:   params.Badges,
	}, nil
}

// Toggle flips the favorite state for the pair and returns the new state.
// Toggling twice always lands back where it started.
func (s *service) Toggle(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || productID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "user id and product id are required")
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if p == nil {
		return false, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	favorited, err := s.repo.Exists(ctx, userID, productID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading favorite state")
	}
	target := !favorited

	delta := 1
	if !target {
		delta = -1
	}

	_, err = s.runner.Run(ctx, optimistic.Mutation{
		Name: "wishlist-toggle",
		Apply: func() func() {
			return s.adjustBadge(ctx, userID, delta)
		},
		Persist: func(ctx context.Context) error {
			if target {
				return s.repo.AddItem(ctx, userID, productID)
			}
			return s.repo.RemoveItem(ctx, userID, productID)
		},
	})
	if err != nil {
		return favorited, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "toggling favorite")
	}
	return target, nil
}

// GetWishlist returns the user's favorites with product snapshots.
func (s *service) GetWishlist(ctx context.Context, userID uuid.UUID) (*ListDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading wishlist")
	}

	dto := &ListDTO{Items: make([]ItemDTO, 0, len(rows))}
	for _, row := range rows {
		if row.Product == nil {
			continue
		}
		dto.Items = append(dto.Items, ItemDTO{
			Product:   product.NewProductDTO(*row.Product, true),
			CreatedAt: row.CreatedAt,
		})
	}
	dto.Count = len(dto.Items)
	return dto, nil
}

// GetIDs returns the favorited product ids.
func (s *service) GetIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	ids, err := s.repo.IDsForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading wishlist ids")
	}
	return ids, nil
}

// Count returns the badge count.
func (s *service) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	count, err := s.repo.Count(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting wishlist")
	}
	return count, nil
}

// BulkRemove deletes the selected favorites with concurrent writes. A
// partial failure rolls the local state back and asks the caller to reload.
func (s *service) BulkRemove(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID) (*BulkRemoveResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if len(productIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one product id is required")
	}

	persists := make([]func(ctx context.Context) error, 0, len(productIDs))
	for _, id := range productIDs {
		id := id
		persists = append(persists, func(ctx context.Context) error {
			return s.repo.RemoveItem(ctx, userID, id)
		})
	}

	result, err := s.runner.RunBulk(ctx, "wishlist-bulk-remove", func() func() {
		return s.adjustBadge(ctx, userID, -len(productIDs))
	}, persists)
	if err != nil {
		return &BulkRemoveResult{
			Removed:        result.Succeeded,
			ReloadRequired: result.ReloadRequired,
		}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "bulk removing favorites")
	}

	return &BulkRemoveResult{Removed: result.Succeeded}, nil
}

// BulkAddToCart moves the selected favorites into the cart. Out-of-stock
// products are partitioned out first: if everything is out of stock the call
// is refused, and if only some are, nothing is written until the caller
// confirms adding the rest.
func (s *service) BulkAddToCart(ctx context.Context, userID uuid.UUID, productIDs []uuid.UUID, confirmed bool) (*BulkAddResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if len(productIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one product id is required")
	}

	rows, err := s.products.ListByIDs(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading products")
	}
	byID := make(map[uuid.UUID]models.Product, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	var inStock []models.Product
	var skipped []SkippedItem
	for _, id := range productIDs {
		row, ok := byID[id]
		if !ok {
			skipped = append(skipped, SkippedItem{ProductID: id.String(), Name: "Unavailable product"})
			continue
		}
		if row.OutOfStock {
			skipped = append(skipped, SkippedItem{ProductID: id.String(), Name: row.Name})
			continue
		}
		inStock = append(inStock, row)
	}

	if len(inStock) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "all selected items are out of stock")
	}
	if len(skipped) > 0 && !confirmed {
		return &BulkAddResult{Skipped: skipped, NeedsConfirmation: true}, nil
	}

	persists := make([]func(ctx context.Context) error, 0, len(inStock))
	for _, row := range inStock {
		id := row.ID
		persists = append(persists, func(ctx context.Context) error {
			_, err := s.cart.AddItem(ctx, userID, id, 1)
			return err
		})
	}

	result, err := s.runner.RunBulk(ctx, "wishlist-bulk-add-to-cart", func() func() { return nil }, persists)
	if err != nil {
		return &BulkAddResult{
			Added:          result.Succeeded,
			Skipped:        skipped,
			ReloadRequired: result.ReloadRequired,
		}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "bulk adding to cart")
	}

	return &BulkAddResult{Added: result.Succeeded, Skipped: skipped}, nil
}

func (s *service) adjustBadge(ctx context.Context, userID uuid.UUID, delta int) func() {
	if s.badges == nil {
		return nil
	}
	return s.badges.AdjustWishlistCount(ctx, userID, delta)
}
