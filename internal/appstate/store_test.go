package appstate

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type stubMirror struct {
	mu     sync.Mutex
	values map[string]string
}

func newStubMirror() *stubMirror {
	return &stubMirror{values: make(map[string]string)}
}

func (m *stubMirror) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := value.(string); ok {
		m.values[key] = s
	}
	return nil
}

func (m *stubMirror) CounterKey(scope, userID string) string {
	return "culturer:counter:" + scope + ":" + userID
}

func (m *stubMirror) get(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}

func setCartCount(t *testing.T, store *Store, userID uuid.UUID, count int) {
	t.Helper()
	ticket := store.BeginCartRefresh(userID)
	if !store.SetCartCount(context.Background(), userID, ticket, count) {
		t.Fatalf("cart count %d rejected as stale", count)
	}
}

func TestSetCartCountNotifiesSubscribers(t *testing.T) {
	t.Parallel()

	store := NewStore(nil, nil)
	userID := uuid.New()

	var got []Badges
	unsubscribe := store.Subscribe(func(id uuid.UUID, badges Badges) {
		if id == userID {
			got = append(got, badges)
		}
	})
	defer unsubscribe()

	setCartCount(t, store, userID, 3)
	store.SetWishlistCount(context.Background(), userID, 5)

	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[1].CartCount != 3 || got[1].WishlistCount != 5 {
		t.Fatalf("unexpected final badges %+v", got[1])
	}
	if badges := store.Badges(userID); badges.CartCount != 3 {
		t.Fatalf("expected cart count 3, got %d", badges.CartCount)
	}
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	t.Parallel()

	store := NewStore(nil, nil)
	userID := uuid.New()

	calls := 0
	unsubscribe := store.Subscribe(func(uuid.UUID, Badges) { calls++ })

	setCartCount(t, store, userID, 1)
	unsubscribe()
	setCartCount(t, store, userID, 2)

	if calls != 1 {
		t.Fatalf("expected 1 notification after unsubscribe, got %d", calls)
	}
}

func TestAdjustWishlistCountUndoRestoresPrevious(t *testing.T) {
	t.Parallel()

	store := NewStore(nil, nil)
	userID := uuid.New()
	store.SetWishlistCount(context.Background(), userID, 4)

	undo := store.AdjustWishlistCount(context.Background(), userID, 1)
	if badges := store.Badges(userID); badges.WishlistCount != 5 {
		t.Fatalf("expected wishlist count 5 after adjust, got %d", badges.WishlistCount)
	}

	undo()
	if badges := store.Badges(userID); badges.WishlistCount != 4 {
		t.Fatalf("expected wishlist count 4 after undo, got %d", badges.WishlistCount)
	}
}

func TestAdjustWishlistCountClampsAtZero(t *testing.T) {
	t.Parallel()

	store := NewStore(nil, nil)
	userID := uuid.New()

	undo := store.AdjustWishlistCount(context.Background(), userID, -3)
	if badges := store.Badges(userID); badges.WishlistCount != 0 {
		t.Fatalf("expected wishlist count clamped to 0, got %d", badges.WishlistCount)
	}
	undo()
}

func TestStaleCartRecountIsDiscarded(t *testing.T) {
	t.Parallel()

	store := NewStore(nil, nil)
	userID := uuid.New()

	older := store.BeginCartRefresh(userID)
	newer := store.BeginCartRefresh(userID)

	if !store.SetCartCount(context.Background(), userID, newer, 3) {
		t.Fatal("expected latest recount to land")
	}
	if store.SetCartCount(context.Background(), userID, older, 2) {
		t.Fatal("expected older recount to be discarded")
	}
	if badges := store.Badges(userID); badges.CartCount != 3 {
		t.Fatalf("expected cart count 3 to survive, got %d", badges.CartCount)
	}

	// Tickets are scoped per user; another user's refresh is unaffected.
	other := uuid.New()
	ticket := store.BeginCartRefresh(other)
	if !store.SetCartCount(context.Background(), other, ticket, 1) {
		t.Fatal("expected other user's recount to land")
	}
}

func TestCountsMirroredToRedis(t *testing.T) {
	t.Parallel()

	mirror := newStubMirror()
	store := NewStore(mirror, nil)
	userID := uuid.New()

	setCartCount(t, store, userID, 7)

	key := mirror.CounterKey(scopeCart, userID.String())
	if got := mirror.get(key); got != "7" {
		t.Fatalf("expected mirrored cart count %q, got %q", "7", got)
	}
}
