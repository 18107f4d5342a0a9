package recent

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akinleyeOJ/culturer-backend/pkg/db/models"
)

// Repository encapsulates recently-viewed persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert records a view, bumping viewed_at when the row already exists.
func (r *Repository) Upsert(ctx context.Context, userID, productID uuid.UUID, viewedAt time.Time) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).
		Exec(`INSERT INTO recently_viewed_items (user_id, product_id, viewed_at) VALUES (?, ?, ?)
			ON CONFLICT (user_id, product_id) DO UPDATE SET viewed_at = EXCLUDED.viewed_at`,
			userID, productID, viewedAt).
		Error
}

// ListForUser returns the user's most recent views with product snapshots,
// newest first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.RecentlyViewedItem, error) {
	var rows []models.RecentlyViewedItem
	q := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("viewed_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteOlderThan removes views last bumped before the cutoff across all
// users. Returns the number of rows removed.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("viewed_at < ?", cutoff).
		Delete(&models.RecentlyViewedItem{})
	return res.RowsAffected, res.Error
}

// TrimForUser keeps only the newest max rows for a user.
func (r *Repository) TrimForUser(ctx context.Context, userID uuid.UUID, max int) (int64, error) {
	if max <= 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Exec(`DELETE FROM recently_viewed_items WHERE user_id = ? AND id NOT IN (
			SELECT id FROM recently_viewed_items WHERE user_id = ? ORDER BY viewed_at DESC LIMIT ?
		)`, userID, userID, max)
	return res.RowsAffected, res.Error
}

// UserIDsWithHistory returns the distinct users holding recently-viewed rows.
func (r *Repository) UserIDsWithHistory(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.RecentlyViewedItem{}).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
