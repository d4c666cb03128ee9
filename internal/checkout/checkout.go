// Package checkout implements the mock order placement flow.
//
// Placing an order validates the shipping form, waits a simulated payment
// delay, snapshots the cart into an Order and empties the cart. Payment
// always succeeds.
package checkout

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Humphrey-He/vanya/configs"
	"github.com/Humphrey-He/vanya/internal/metrics"
	"github.com/Humphrey-He/vanya/pkg/auth"
	"github.com/Humphrey-He/vanya/pkg/cart"
	verrors "github.com/Humphrey-He/vanya/pkg/errors"
)

// PaymentMethod is how the shopper pays.
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
	PaymentCOD  PaymentMethod = "cod"
)

// ParsePaymentMethod accepts card, upi or cod in any case.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case PaymentCard, PaymentUPI, PaymentCOD:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", verrors.ErrInvalidPaymentMethod, s)
}

// ShippingInfo is the delivery form. Every field is required.
type ShippingInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`
}

// Validate reports the first blank field.
func (s ShippingInfo) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"firstName", s.FirstName},
		{"lastName", s.LastName},
		{"email", s.Email},
		{"phone", s.Phone},
		{"address", s.Address},
		{"city", s.City},
		{"state", s.State},
		{"pincode", s.Pincode},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", verrors.ErrMissingShippingField, f.name)
		}
	}
	return nil
}

// ShippingInfoFrom prefills the form from the signed-in user and a saved address.
func ShippingInfoFrom(u auth.User, a auth.Address) ShippingInfo {
	first, last := u.FirstName, u.LastName
	if first == "" && last == "" {
		first, last, _ = strings.Cut(a.Name, " ")
	}
	phone := a.Phone
	if phone == "" {
		phone = u.Phone
	}
	return ShippingInfo{
		FirstName: first,
		LastName:  last,
		Email:     u.Email,
		Phone:     phone,
		Address:   a.Address,
		City:      a.City,
		State:     a.State,
		Pincode:   a.Pincode,
	}
}

// Order is a placed order.
type Order struct {
	ID       string          `json:"orderId"`
	Items    []cart.LineItem `json:"items"`
	Summary  cart.Summary    `json:"summary"`
	Shipping ShippingInfo    `json:"shippingInfo"`
	Payment  PaymentMethod   `json:"paymentMethod"`
	PlacedAt time.Time       `json:"placedAt"`
}

// Settings are the tunables of the flow. They can be replaced while serving.
type Settings struct {
	Delay       time.Duration
	Rules       cart.ShippingRules
	OrderPrefix string
}

// DefaultSettings mirror the storefront: two-second processing, free
// shipping above ₹50,000, "VAN" order numbers.
func DefaultSettings() Settings {
	return Settings{
		Delay:       2 * time.Second,
		Rules:       cart.DefaultShippingRules(),
		OrderPrefix: "VAN",
	}
}

// SettingsFrom converts the checkout config section.
func SettingsFrom(cfg configs.CheckoutConfig) Settings {
	return Settings{
		Delay:       cfg.ProcessingDelay,
		Rules:       cart.ShippingRules{FreeAbove: cfg.FreeShippingAbove, Fee: cfg.ShippingFee},
		OrderPrefix: cfg.OrderPrefix,
	}
}

// Option configures a Service.
type Option func(*Service)

// WithSettings replaces the default settings.
func WithSettings(s Settings) Option {
	return func(svc *Service) { svc.settings = s }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(svc *Service) { svc.logger = l }
}

// WithMetrics counts placed orders in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(svc *Service) { svc.metrics = m }
}

// WithClock overrides the time source used for order ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) { svc.now = now }
}

// Service places orders against one cart.
type Service struct {
	cart *cart.Store

	mu       sync.RWMutex
	settings Settings

	// placing admits one order at a time, from snapshot to cart deduction.
	placing chan struct{}

	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// New creates a Service for c.
func New(c *cart.Store, opts ...Option) *Service {
	svc := &Service{
		cart:     c,
		settings: DefaultSettings(),
		placing:  make(chan struct{}, 1),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Settings returns the active settings.
func (svc *Service) Settings() Settings {
	svc.mu.RLock()
	defer svc.mu.RUnlock()
	return svc.settings
}

// UpdateSettings swaps the settings used by later orders.
func (svc *Service) UpdateSettings(s Settings) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.settings = s
}

// Quote summarizes the current cart under the active shipping rules.
func (svc *Service) Quote() cart.Summary {
	return svc.cart.Summary(svc.Settings().Rules)
}

// PlaceOrder validates the form and payment method, waits the processing
// delay and turns the cart into an Order. The ordered lines are then taken
// out of the cart; anything added during the delay stays for a later order.
// Orders are placed one at a time, so a second concurrent call waits and
// then sees only what the first left behind.
// A cancelled ctx aborts the wait and leaves the cart untouched.
//
// If emptying the cart cannot be persisted the order is still returned,
// together with the error.
func (svc *Service) PlaceOrder(ctx context.Context, info ShippingInfo, method PaymentMethod) (Order, error) {
	if _, err := ParsePaymentMethod(string(method)); err != nil {
		return Order{}, err
	}
	if err := info.Validate(); err != nil {
		return Order{}, err
	}

	select {
	case svc.placing <- struct{}{}:
	case <-ctx.Done():
		return Order{}, ctx.Err()
	}
	defer func() { <-svc.placing }()

	items := svc.cart.Items()
	if len(items) == 0 {
		return Order{}, verrors.ErrEmptyCart
	}

	settings := svc.Settings()
	if err := wait(ctx, settings.Delay); err != nil {
		return Order{}, err
	}

	placedAt := svc.now()
	order := Order{
		ID:       settings.OrderPrefix + strconv.FormatInt(placedAt.UnixMilli(), 10),
		Items:    items,
		Summary:  cart.Summarize(items, settings.Rules),
		Shipping: info,
		Payment:  method,
		PlacedAt: placedAt,
	}
	svc.metrics.RecordOrder(order.Summary.Total)
	svc.logger.Info("Order placed",
		zap.String("order", order.ID),
		zap.Int("items", order.Summary.Items),
		zap.Int("total", order.Summary.Total),
		zap.String("payment", string(method)))

	if err := svc.cart.Deduct(ctx, items); err != nil {
		return order, fmt.Errorf("order %s placed: %w", order.ID, err)
	}
	return order, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
