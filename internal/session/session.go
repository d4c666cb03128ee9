// Package session wires the storefront stores to one shared storage.
//
// A Session owns the catalog and one cart, wishlist and auth store. Each
// store persists to its own slot, so a failure in one never blocks the
// others, and the stores never call each other.
package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Humphrey-He/vanya/configs"
	"github.com/Humphrey-He/vanya/internal/metrics"
	"github.com/Humphrey-He/vanya/pkg/auth"
	"github.com/Humphrey-He/vanya/pkg/cart"
	"github.com/Humphrey-He/vanya/pkg/catalog"
	"github.com/Humphrey-He/vanya/pkg/codec"
	"github.com/Humphrey-He/vanya/pkg/persist"
	"github.com/Humphrey-He/vanya/pkg/wishlist"
)

// Slots names the persisted slot of each store.
type Slots struct {
	Cart     string
	Wishlist string
	Auth     string
}

// DefaultSlots returns the standard slot names.
func DefaultSlots() Slots {
	return Slots{Cart: cart.SlotName, Wishlist: wishlist.SlotName, Auth: auth.SlotName}
}

type options struct {
	codec     codec.Codec
	slots     Slots
	catalog   *catalog.Catalog
	logger    *zap.Logger
	metrics   *metrics.Metrics
	authDelay time.Duration
}

// Option configures a Session.
type Option func(*options)

// WithCodec sets the snapshot encoding. The default is compact JSON.
func WithCodec(c codec.Codec) Option {
	return func(o *options) { o.codec = c }
}

// WithSlots overrides the slot names.
func WithSlots(s Slots) Option {
	return func(o *options) { o.slots = s }
}

// WithCatalog replaces the built-in product list.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithLogger sets the logger shared by every store.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics counts storage traffic, restores and resets in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithAuthDelay sets the simulated login and signup delay.
func WithAuthDelay(d time.Duration) Option {
	return func(o *options) { o.authDelay = d }
}

// Session is the process-wide storefront state.
type Session struct {
	Catalog  *catalog.Catalog
	Cart     *cart.Store
	Wishlist *wishlist.Store
	Auth     *auth.Store

	storage persist.Storage
	slots   Slots
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Restored reports which stores found a snapshot.
type Restored struct {
	Cart     bool `json:"cart"`
	Wishlist bool `json:"wishlist"`
	Auth     bool `json:"auth"`
}

// New wires fresh stores to storage. Nothing is loaded until Restore.
func New(storage persist.Storage, opts ...Option) *Session {
	o := options{
		codec:     codec.DefaultCodec(),
		slots:     DefaultSlots(),
		logger:    zap.NewNop(),
		authDelay: auth.DefaultDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.catalog == nil {
		o.catalog = catalog.Default()
	}
	if o.metrics != nil {
		storage = metrics.Instrument(storage, o.metrics)
	}

	return &Session{
		Catalog: o.catalog,
		Cart: cart.New(
			cart.WithSlot(persist.NewSlot[cart.State](storage, o.codec, o.slots.Cart)),
			cart.WithLogger(o.logger.Named("cart")),
		),
		Wishlist: wishlist.New(
			wishlist.WithSlot(persist.NewSlot[wishlist.State](storage, o.codec, o.slots.Wishlist)),
			wishlist.WithLogger(o.logger.Named("wishlist")),
		),
		Auth: auth.New(
			auth.WithSlot(persist.NewSlot[auth.State](storage, o.codec, o.slots.Auth)),
			auth.WithLogger(o.logger.Named("auth")),
			auth.WithDelay(o.authDelay),
		),
		storage: storage,
		slots:   o.slots,
		logger:  o.logger,
		metrics: o.metrics,
	}
}

// Open opens the storage engine named by cfg and wires a Session to it.
// The caller owns the returned Session and must Close it.
func Open(cfg *configs.Config, logger *zap.Logger, m *metrics.Metrics) (*Session, error) {
	c, err := codec.GetCodec(cfg.Store.Codec)
	if err != nil {
		return nil, err
	}
	storage, err := persist.Open(cfg.Store.Engine, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Store.Engine, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return New(storage,
		WithCodec(c),
		WithSlots(Slots{Cart: cfg.Store.CartSlot, Wishlist: cfg.Store.WishlistSlot, Auth: cfg.Store.AuthSlot}),
		WithLogger(logger),
		WithMetrics(m),
		WithAuthDelay(cfg.Auth.SimulatedDelay),
	), nil
}

// Slots returns the slot names in use.
func (s *Session) Slots() Slots {
	return s.slots
}

// Restore loads the three snapshots concurrently. A missing snapshot leaves
// its store empty; the first load error cancels the others and is returned.
func (s *Session) Restore(ctx context.Context) (Restored, error) {
	var r Restored
	g, gctx := errgroup.WithContext(ctx)

	restore := func(name string, fn func(context.Context) (bool, error), found *bool) {
		g.Go(func() error {
			ok, err := fn(gctx)
			if err != nil {
				return fmt.Errorf("restore %s: %w", name, err)
			}
			*found = ok
			if ok {
				s.metrics.RecordRestore()
			}
			return nil
		})
	}
	restore("cart", s.Cart.Restore, &r.Cart)
	restore("wishlist", s.Wishlist.Restore, &r.Wishlist)
	restore("auth", s.Auth.Restore, &r.Auth)

	if err := g.Wait(); err != nil {
		s.logger.Warn("Failed to restore session", zap.Error(err))
		return r, err
	}
	s.logger.Info("Session restored",
		zap.Bool("cart", r.Cart),
		zap.Bool("wishlist", r.Wishlist),
		zap.Bool("auth", r.Auth))
	return r, nil
}

// Reset returns every store to its initial state and deletes every slot.
// All stores are reset even when one fails; the first error is returned.
func (s *Session) Reset(ctx context.Context) error {
	var first error
	for _, fn := range []func(context.Context) error{s.Cart.Reset, s.Wishlist.Reset, s.Auth.Reset} {
		if err := fn(ctx); err != nil && first == nil {
			first = err
		}
	}
	if first != nil {
		s.logger.Warn("Failed to reset session", zap.Error(first))
		return first
	}
	s.metrics.RecordReset()
	s.logger.Info("Session reset")
	return nil
}

// Close releases the underlying storage.
func (s *Session) Close() error {
	return s.storage.Close()
}
