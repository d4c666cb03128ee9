// Package wishlist implements the favorited-products state container.
// The wishlist has set semantics keyed by product id and keeps insertion order.
package wishlist

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/Humphrey-He/vanya/pkg/catalog"
	"github.com/Humphrey-He/vanya/pkg/persist"
)

// SlotName is the default persisted slot for the wishlist.
const SlotName = "vanya-wishlist"

// State is the persisted form of the wishlist.
type State struct {
	Items []catalog.Product `json:"items"`
}

// Option configures a Store.
type Option func(*Store)

// WithSlot persists the wishlist to slot after every mutation.
func WithSlot(slot *persist.Slot[State]) Option {
	return func(s *Store) {
		s.slot = slot
	}
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Store owns the wishlist entries. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	items  []catalog.Product
	slot   *persist.Slot[State]
	logger *zap.Logger
}

// New creates an empty wishlist.
func New(opts ...Option) *Store {
	s := &Store{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads the persisted snapshot, reporting false when there is none.
func (s *Store) Restore(ctx context.Context) (bool, error) {
	state, ok, err := s.slot.Load(ctx)
	if err != nil || !ok {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = state.Items
	return true, nil
}

// Reset empties the wishlist and deletes its snapshot.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if err := s.slot.Clear(ctx); err != nil {
		return fmt.Errorf("reset wishlist: %w", err)
	}
	return nil
}

// AddItem adds product unless its id is already present.
func (s *Store) AddItem(ctx context.Context, product catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(product.ID) >= 0 {
		return nil
	}
	s.items = append(s.items, product.Clone())
	return s.commit(ctx)
}

// RemoveItem removes the product with productID, if present.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return nil
	}
	s.items = slices.Delete(slices.Clone(s.items), i, i+1)
	return s.commit(ctx)
}

// Toggle removes product when present and adds it otherwise.
// It returns whether the product is in the wishlist afterwards.
func (s *Store) Toggle(ctx context.Context, product catalog.Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(product.ID); i >= 0 {
		s.items = slices.Delete(slices.Clone(s.items), i, i+1)
		return false, s.commit(ctx)
	}
	s.items = append(s.items, product.Clone())
	return true, s.commit(ctx)
}

// IsInWishlist reports whether productID is present.
func (s *Store) IsInWishlist(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(productID) >= 0
}

// Clear empties the wishlist.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.commit(ctx)
}

// Items returns copies of the entries in insertion order.
func (s *Store) Items() []catalog.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]catalog.Product, len(s.items))
	for i, p := range s.items {
		out[i] = p.Clone()
	}
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) indexOf(productID string) int {
	return slices.IndexFunc(s.items, func(p catalog.Product) bool { return p.ID == productID })
}

func (s *Store) commit(ctx context.Context) error {
	if err := s.slot.Save(ctx, State{Items: slices.Clone(s.items)}); err != nil {
		s.logger.Warn("Failed to persist wishlist",
			zap.String("slot", s.slot.Name()),
			zap.Error(err))
		return fmt.Errorf("persist wishlist: %w", err)
	}
	return nil
}
