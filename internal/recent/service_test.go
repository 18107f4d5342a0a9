package recent

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/akinleyeOJ/culturer-backend/pkg/db/models"
	"github.com/akinleyeOJ/culturer-backend/pkg/enums"
	pkgerrors "github.com/akinleyeOJ/culturer-backend/pkg/errors"
)

type stubStore struct {
	rows      []models.RecentlyViewedItem
	upserts   map[uuid.UUID]time.Time
	lastLimit int
}

func newStubStore() *stubStore {
	return &stubStore{upserts: make(map[uuid.UUID]time.Time)}
}

func (s *stubStore) Upsert(_ context.Context, _, productID uuid.UUID, viewedAt time.Time) error {
	s.upserts[productID] = viewedAt
	return nil
}

func (s *stubStore) ListForUser(_ context.Context, _ uuid.UUID, limit int) ([]models.RecentlyViewedItem, error) {
	s.lastLimit = limit
	return s.rows, nil
}

type stubFavorites struct {
	ids []uuid.UUID
}

func (s *stubFavorites) IDsForUser(context.Context, uuid.UUID) ([]uuid.UUID, error) {
	return s.ids, nil
}

func testProduct(id uuid.UUID, name string) *models.Product {
	return &models.Product{
		ID:         id,
		Name:       name,
		PriceLabel: "$10.00",
		Status:     enums.ListingStatusActive,
	}
}

func TestRecordViewUpsertsNow(t *testing.T) {
	t.Parallel()

	repo := newStubStore()
	svc, err := NewService(repo, nil, 10)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.(*service).now = func() time.Time { return fixed }

	productID := uuid.New()
	if err := svc.RecordView(context.Background(), uuid.New(), productID); err != nil {
		t.Fatalf("RecordView returned error: %v", err)
	}
	if got := repo.upserts[productID]; !got.Equal(fixed) {
		t.Fatalf("expected viewed_at %v, got %v", fixed, got)
	}
}

func TestRecordViewRejectsNilIDs(t *testing.T) {
	t.Parallel()

	svc, err := NewService(newStubStore(), nil, 10)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	err = svc.RecordView(context.Background(), uuid.Nil, uuid.New())
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListRecentSkipsDeletedProductsAndMarksFavorites(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	keptID := uuid.New()
	favID := uuid.New()

	repo := newStubStore()
	repo.rows = []models.RecentlyViewedItem{
		{UserID: userID, ProductID: favID, Product: testProduct(favID, "Mud cloth"), ViewedAt: time.Now()},
		{UserID: userID, ProductID: uuid.New(), Product: nil, ViewedAt: time.Now()},
		{UserID: userID, ProductID: keptID, Product: testProduct(keptID, "Djembe"), ViewedAt: time.Now()},
	}

	svc, err := NewService(repo, &stubFavorites{ids: []uuid.UUID{favID}}, 15)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	items, err := svc.ListRecent(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListRecent returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if !items[0].Product.IsFavorite {
		t.Fatal("expected favorited product to be marked")
	}
	if items[1].Product.IsFavorite {
		t.Fatal("expected non-favorited product to stay unmarked")
	}
	if repo.lastLimit != 15 {
		t.Fatalf("expected list limit 15, got %d", repo.lastLimit)
	}
}
