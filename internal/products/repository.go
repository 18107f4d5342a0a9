package product

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akinleyeOJ/culturer-backend/pkg/db/models"
	"github.com/akinleyeOJ/culturer-backend/pkg/enums"
	"github.com/akinleyeOJ/culturer-backend/pkg/pagination"
	"github.com/akinleyeOJ/culturer-backend/pkg/query"
)

// Repository wires together product persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// GetByID loads a product, or nil when it does not exist.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByIDs loads products for the given ids, skipping ids that no longer
// resolve to a row.
func (r *Repository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// List runs the filter spec against the products table and returns one page
// plus the exact total count of matching rows.
func (r *Repository) List(ctx context.Context, spec *query.Spec, page pagination.Params) ([]models.Product, pagination.Page, error) {
	limit := pagination.NormalizeLimit(page.Limit)
	offset := pagination.NormalizeOffset(page.Offset)

	counter, err := query.ApplyPredicates(r.db.WithContext(ctx).Model(&models.Product{}), spec)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	var total int64
	if err := counter.Count(&total).Error; err != nil {
		return nil, pagination.Page{}, err
	}

	qb, err := query.Apply(r.db.WithContext(ctx).Model(&models.Product{}), spec.Range(limit, offset))
	if err != nil {
		return nil, pagination.Page{}, err
	}
	var rows []models.Product
	if err := qb.Find(&rows).Error; err != nil {
		return nil, pagination.Page{}, err
	}

	return rows, pagination.NewPage(limit, offset, total), nil
}

// ListBySeller lists the seller's own products, newest first, regardless of
// listing status.
func (r *Repository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Update saves an existing product row.
func (r *Repository) Update(ctx context.Context, p *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a product by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// DeleteStaleDrafts removes draft listings untouched since the cutoff.
func (r *Repository) DeleteStaleDrafts(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", enums.ListingStatusDraft, cutoff).
		Delete(&models.Product{})
	return res.RowsAffected, res.Error
}

// IncrementViewCount bumps the popularity counter for a product.
func (r *Repository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error
}
