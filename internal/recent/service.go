package recent

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/akinleyeOJ/culturer-backend/internal/products"
	"github.com/akinleyeOJ/culturer-backend/pkg/db/models"
	pkgerrors "github.com/akinleyeOJ/culturer-backend/pkg/errors"
)

// Service exposes the recently-viewed history.
type Service interface {
	RecordView(ctx context.Context, userID, productID uuid.UUID) error
	ListRecent(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error)
}

// Store is the persistence surface the service needs.
type Store interface {
	Upsert(ctx context.Context, userID, productID uuid.UUID, viewedAt time.Time) error
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.RecentlyViewedItem, error)
}

type favoriteLoader interface {
	IDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// ItemDTO is one entry in the history, newest first.
type ItemDTO struct {
	Product  product.ProductDTO `json:"product"`
	ViewedAt time.Time          `json:"viewed_at"`
}

type service struct {
	repo      Store
	favorites favoriteLoader
	limit     int
	now       func() time.Time
}

// NewService wires the recently-viewed service. favorites is optional;
// limit caps how many entries ListRecent returns.
func NewService(repo Store, favorites favoriteLoader, limit int) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "recent service requires a store")
	}
	if limit <= 0 {
		limit = 20
	}
	return &service{
		repo:      repo,
		favorites: favorites,
		limit:     limit,
		now:       time.Now,
	}, nil
}

// RecordView bumps the (user, product) row to now.
func (s *service) RecordView(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user and product are required")
	}
	if err := s.repo.Upsert(ctx, userID, productID, s.now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to record view")
	}
	return nil
}

// ListRecent returns the user's history with product snapshots. Rows whose
// product has since been deleted are dropped.
func (s *service) ListRecent(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error) {
	rows, err := s.repo.ListForUser(ctx, userID, s.limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load recently viewed")
	}

	favoriteSet := make(map[uuid.UUID]bool)
	if s.favorites != nil {
		ids, err := s.favorites.IDsForUser(ctx, userID)
		if err == nil {
			for _, id := range ids {
				favoriteSet[id] = true
			}
		}
	}

	items := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		if row.Product == nil {
			continue
		}
		items = append(items, ItemDTO{
			Product:  product.NewProductDTO(*row.Product, favoriteSet[row.ProductID]),
			ViewedAt: row.ViewedAt,
		})
	}
	return items, nil
}
