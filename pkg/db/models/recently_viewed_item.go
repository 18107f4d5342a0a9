package models

import (
	"time"

	"github.com/google/uuid"
)

// RecentlyViewedItem records the last time a user opened a product detail.
// One row per (user, product); repeat views bump ViewedAt.
type RecentlyViewedItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:recently_viewed_user_id_idx;uniqueIndex:recently_viewed_user_product_key"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:recently_viewed_user_product_key"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	ViewedAt  time.Time `gorm:"column:viewed_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
