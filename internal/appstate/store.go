package appstate

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/akinleyeOJ/culturer-backend/pkg/logger"
)

const (
	scopeCart     = "cart"
	scopeWishlist = "wishlist"

	mirrorTTL = 24 * time.Hour
)

// Badges holds the per-user counters surfaced in the app chrome.
type Badges struct {
	CartCount     int
	WishlistCount int
}

// Subscriber receives the latest badge snapshot after every change.
type Subscriber func(userID uuid.UUID, badges Badges)

// counterMirror persists badge counters so other instances can read them.
type counterMirror interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CounterKey(scope, userID string) string
}

// Store keeps per-user badge counts in memory and fans changes out to
// subscribers. Counters are mirrored to redis on a best-effort basis.
type Store struct {
	mu       sync.RWMutex
	badges   map[uuid.UUID]Badges
	subs     map[int]Subscriber
	nextSub  int
	cartGens map[uuid.UUID]*Generation

	mirror counterMirror
	logg   *logger.Logger
}

// NewStore builds an empty store. The mirror is optional.
func NewStore(mirror counterMirror, logg *logger.Logger) *Store {
	return &Store{
		badges:   make(map[uuid.UUID]Badges),
		subs:     make(map[int]Subscriber),
		cartGens: make(map[uuid.UUID]*Generation),
		mirror:   mirror,
		logg:     logg,
	}
}

// Subscribe registers a listener for badge changes and returns a function
// that removes it again.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Badges returns the current snapshot for a user.
func (s *Store) Badges(userID uuid.UUID) Badges {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.badges[userID]
}

// BeginCartRefresh marks the start of an authoritative cart recount and
// returns the ticket SetCartCount must be called with. Any recount that
// begins afterwards invalidates the ticket.
func (s *Store) BeginCartRefresh(userID uuid.UUID) uint64 {
	return s.cartGen(userID).Begin()
}

// SetCartCount replaces the cart badge with an authoritative count. A stale
// ticket means a newer recount started while this one was reading, so the
// older result is discarded; the return reports whether the count landed.
func (s *Store) SetCartCount(ctx context.Context, userID uuid.UUID, ticket uint64, count int) bool {
	if !s.cartGen(userID).Commit(ticket) {
		return false
	}
	if count < 0 {
		count = 0
	}
	s.update(ctx, userID, func(b *Badges) {
		b.CartCount = count
	})
	return true
}

func (s *Store) cartGen(userID uuid.UUID) *Generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	gen, ok := s.cartGens[userID]
	if !ok {
		gen = NewGeneration()
		s.cartGens[userID] = gen
	}
	return gen
}

// SetWishlistCount replaces the wishlist badge with an authoritative count.
func (s *Store) SetWishlistCount(ctx context.Context, userID uuid.UUID, count int) {
	if count < 0 {
		count = 0
	}
	s.update(ctx, userID, func(b *Badges) {
		b.WishlistCount = count
	})
}

// AdjustWishlistCount shifts the wishlist badge by delta ahead of a remote
// write and returns an undo that restores the previous value.
func (s *Store) AdjustWishlistCount(ctx context.Context, userID uuid.UUID, delta int) (undo func()) {
	var previous int
	s.update(ctx, userID, func(b *Badges) {
		previous = b.WishlistCount
		next := b.WishlistCount + delta
		if next < 0 {
			next = 0
		}
		b.WishlistCount = next
	})

	return func() {
		s.SetWishlistCount(ctx, userID, previous)
	}
}

func (s *Store) update(ctx context.Context, userID uuid.UUID, apply func(*Badges)) {
	s.mu.Lock()
	badges := s.badges[userID]
	apply(&badges)
	s.badges[userID] = badges

	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(userID, badges)
	}

	s.mirrorCounts(ctx, userID, badges)
}

func (s *Store) mirrorCounts(ctx context.Context, userID uuid.UUID, badges Badges) {
	if s.mirror == nil {
		return
	}
	counts := map[string]int{
		scopeCart:     badges.CartCount,
		scopeWishlist: badges.WishlistCount,
	}
	for scope, count := range counts {
		key := s.mirror.CounterKey(scope, userID.String())
		if err := s.mirror.Set(ctx, key, strconv.Itoa(count), mirrorTTL); err != nil && s.logg != nil {
			lctx := s.logg.WithFields(ctx, map[string]any{
				"scope":   scope,
				"user_id": userID.String(),
				"error":   err.Error(),
			})
			s.logg.Warn(lctx, "failed to mirror badge counter")
		}
	}
}
