// Package cart implements the shopping cart state container.
//
// A cart is an ordered list of line items. At most one line item exists per
// (product id, size, color); adding the same combination again increases the
// existing quantity. Every mutation is written to the cart's persisted slot
// before the call returns.
//
// Package cart 实现购物车状态容器。
// 每个（商品ID、尺码、颜色）组合最多只有一个条目；再次添加相同组合会增加已有数量。
// 每次变更都会在调用返回前写入购物车的持久化槽。
package cart

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Humphrey-He/vanya/pkg/catalog"
	verrors "github.com/Humphrey-He/vanya/pkg/errors"
	"github.com/Humphrey-He/vanya/pkg/persist"
)

// SlotName is the default persisted slot for the cart.
const SlotName = "vanya-cart"

// LineItem is one cart row. Product is a copy taken when the item was added.
type LineItem struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
	Size     string          `json:"size"`
	Color    string          `json:"color"`
}

// Key identifies a line item.
type Key struct {
	ProductID string
	Size      string
	Color     string
}

// Key returns the identity key of the item.
func (i LineItem) Key() Key {
	return Key{ProductID: i.Product.ID, Size: i.Size, Color: i.Color}
}

// Subtotal is unit price times quantity.
func (i LineItem) Subtotal() int {
	return i.Product.Price * i.Quantity
}

func (i LineItem) clone() LineItem {
	i.Product = i.Product.Clone()
	return i
}

// State is the persisted form of the cart.
type State struct {
	Items []LineItem `json:"items"`
}

// Option configures a Store.
type Option func(*Store)

// WithSlot persists the cart to slot after every mutation.
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

// Store owns the cart line items. It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	items  []LineItem
	slot   *persist.Slot[State]
	logger *zap.Logger
}

// New creates an empty cart.
func New(opts ...Option) *Store {
	s := &Store{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore replaces the in-memory items with the persisted snapshot.
// It reports false, leaving the cart empty, when no snapshot exists.
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

// Reset empties the cart and deletes its snapshot, so a later Restore
// finds nothing.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	if err := s.slot.Clear(ctx); err != nil {
		return fmt.Errorf("reset cart: %w", err)
	}
	return nil
}

// AddItem merges item into the cart. When an item with the same key exists
// its quantity grows by item.Quantity; otherwise item is appended.
// The size and color must be offered by the product.
func (s *Store) AddItem(ctx context.Context, item LineItem) error {
	if item.Quantity < 1 {
		return verrors.ErrInvalidQuantity
	}
	if !item.Product.HasSize(item.Size) {
		return fmt.Errorf("%w: %q for product %s", verrors.ErrInvalidSize, item.Size, item.Product.ID)
	}
	if !item.Product.HasColor(item.Color) {
		return fmt.Errorf("%w: %q for product %s", verrors.ErrInvalidColor, item.Color, item.Product.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(item.Key()); i >= 0 {
		s.items[i].Quantity += item.Quantity
	} else {
		s.items = append(s.items, item.clone())
	}
	return s.commit(ctx)
}

// RemoveItem deletes the matching line item. Removing an absent item is a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID, size, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(Key{ProductID: productID, Size: size, Color: color})
	if i < 0 {
		return nil
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	return s.commit(ctx)
}

// UpdateQuantity sets the quantity of the matching line item. Quantities
// below one are raised to one; use RemoveItem to drop a line.
// Updating an absent item is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID, size, color string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(Key{ProductID: productID, Size: size, Color: color})
	if i < 0 {
		return nil
	}
	s.items[i].Quantity = quantity
	return s.commit(ctx)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.commit(ctx)
}

// Deduct removes the quantities of lines from the cart, matching by key.
// A line whose quantity drops to zero or below is removed; lines not in
// lines are left alone. Nothing is written when no line matches.
func (s *Store) Deduct(ctx context.Context, lines []LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, line := range lines {
		i := s.indexOf(line.Key())
		if i < 0 {
			continue
		}
		changed = true
		if s.items[i].Quantity > line.Quantity {
			s.items[i].Quantity -= line.Quantity
			continue
		}
		s.items = append(s.items[:i:i], s.items[i+1:]...)
	}
	if !changed {
		return nil
	}
	return s.commit(ctx)
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]LineItem, len(s.items))
	for i, item := range s.items {
		out[i] = item.clone()
	}
	return out
}

// Len returns the number of line items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// TotalItems returns the sum of all quantities.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TotalItems(s.items)
}

// TotalPrice returns the sum of unit price times quantity.
func (s *Store) TotalPrice() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TotalPrice(s.items)
}

// TotalItems sums the quantities of items.
func TotalItems(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums unit price times quantity over items.
func TotalPrice(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}

func (s *Store) indexOf(key Key) int {
	for i, item := range s.items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

// commit writes the current items to the slot. Callers hold s.mu.
func (s *Store) commit(ctx context.Context) error {
	state := State{Items: make([]LineItem, len(s.items))}
	copy(state.Items, s.items)

	if err := s.slot.Save(ctx, state); err != nil {
		s.logger.Warn("Failed to persist cart",
			zap.String("slot", s.slot.Name()),
			zap.Int("items", len(state.Items)),
			zap.Error(err))
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}
