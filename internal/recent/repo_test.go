package recent

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/akinleyeOJ/culturer-backend/pkg/db/models"
)

func setupRecentTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  seller_name TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT,
  price_label TEXT NOT NULL,
  price_cents INTEGER NOT NULL,
  shipping_cost TEXT NOT NULL DEFAULT 'Free',
  image_emoji TEXT,
  image_url TEXT,
  images TEXT NOT NULL DEFAULT '{}',
  category TEXT,
  condition TEXT NOT NULL DEFAULT 'good',
  cultural_origin TEXT,
  stock_quantity INTEGER NOT NULL DEFAULT 0,
  out_of_stock INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'active',
  view_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	recentlyViewed := `
CREATE TABLE IF NOT EXISTS recently_viewed_items (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  viewed_at DATETIME NOT NULL,
  created_at DATETIME,
  UNIQUE(user_id, product_id)
);`

	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(recentlyViewed).Error)
	require.NoError(t, db.Exec("DELETE FROM recently_viewed_items").Error)
	require.NoError(t, db.Exec("DELETE FROM products").Error)

	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string) *models.Product {
	t.Helper()

	p := &models.Product{
		ID:         uuid.New(),
		SellerID:   uuid.New(),
		SellerName: "Ayo's Atelier",
		Name:       name,
		PriceLabel: "$45.00",
		PriceCents: 4500,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestUpsertBumpsViewedAtForRepeatViews(t *testing.T) {
	db := setupRecentTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	p := seedProduct(t, db, "Kente Scarf")

	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(2 * time.Hour)

	require.NoError(t, repo.Upsert(ctx, userID, p.ID, first))
	require.NoError(t, repo.Upsert(ctx, userID, p.ID, second))

	rows, err := repo.ListForUser(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, p.ID, rows[0].ProductID)
	assert.True(t, rows[0].ViewedAt.Equal(second))
}

func TestListForUserOrdersNewestFirstAndPreloadsProduct(t *testing.T) {
	db := setupRecentTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	older := seedProduct(t, db, "Adire Tote")
	newer := seedProduct(t, db, "Shea Butter Set")

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, userID, older.ID, base))
	require.NoError(t, repo.Upsert(ctx, userID, newer.ID, base.Add(time.Minute)))

	rows, err := repo.ListForUser(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ProductID)
	assert.Equal(t, older.ID, rows[1].ProductID)
	require.NotNil(t, rows[0].Product)
	assert.Equal(t, "Shea Butter Set", rows[0].Product.Name)
}

func TestListForUserHonorsLimit(t *testing.T) {
	db := setupRecentTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		p := seedProduct(t, db, "Item")
		require.NoError(t, repo.Upsert(ctx, userID, p.ID, base.Add(time.Duration(i) * time.Minute)))
	}

	rows, err := repo.ListForUser(ctx, userID, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestDeleteOlderThanRemovesExpiredRows(t *testing.T) {
	db := setupRecentTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	stale := seedProduct(t, db, "Old Mask")
	fresh := seedProduct(t, db, "New Mask")

	cutoff := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, userID, stale.ID, cutoff.Add(-time.Hour)))
	require.NoError(t, repo.Upsert(ctx, userID, fresh.ID, cutoff.Add(time.Hour)))

	removed, err := repo.DeleteOlderThan(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	rows, err := repo.ListForUser(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, fresh.ID, rows[0].ProductID)
}

func TestTrimForUserKeepsNewestRows(t *testing.T) {
	db := setupRecentTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	var newest uuid.UUID
	for i := 0; i < 4; i++ {
		p := seedProduct(t, db, "Item")
		require.NoError(t, repo.Upsert(ctx, userID, p.ID, base.Add(time.Duration(i) * time.Minute)))
		newest = p.ID
	}

	trimmed, err := repo.TrimForUser(ctx, userID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), trimmed)

	rows, err := repo.ListForUser(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newest, rows[0].ProductID)
}

func TestUserIDsWithHistoryReturnsDistinctUsers(t *testing.T) {
	db := setupRecentTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	p := seedProduct(t, db, "Beaded Necklace")
	q := seedProduct(t, db, "Clay Pot")

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert(ctx, alice, p.ID, at))
	require.NoError(t, repo.Upsert(ctx, alice, q.ID, at))
	require.NoError(t, repo.Upsert(ctx, bob, p.ID, at))

	ids, err := repo.UserIDsWithHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Contains(t, ids, alice)
	assert.Contains(t, ids, bob)
}
