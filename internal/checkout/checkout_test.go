package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Humphrey-He/vanya/configs"
	"github.com/Humphrey-He/vanya/internal/metrics"
	"github.com/Humphrey-He/vanya/pkg/auth"
	"github.com/Humphrey-He/vanya/pkg/cart"
	"github.com/Humphrey-He/vanya/pkg/catalog"
	verrors "github.com/Humphrey-He/vanya/pkg/errors"
	"github.com/Humphrey-He/vanya/pkg/persist"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.UnixMilli(1_717_000_000_000)

func validInfo() ShippingInfo {
	return ShippingInfo{
		FirstName: "Priya", LastName: "Sharma", Email: "priya@example.com", Phone: "9876543210",
		Address: "12 MG Road", City: "Jaipur", State: "Rajasthan", Pincode: "302001",
	}
}

func filledCart(t *testing.T, opts ...cart.Option) *cart.Store {
	t.Helper()
	c := cart.New(opts...)
	p, err := catalog.Default().Find("6")
	require.NoError(t, err)
	require.NoError(t, c.AddItem(context.Background(), cart.LineItem{Product: p, Quantity: 1, Size: p.Sizes[0], Color: p.Colors[0]}))
	return c
}

func newService(c *cart.Store, opts ...Option) *Service {
	s := DefaultSettings()
	s.Delay = 0
	return New(c, append([]Option{WithSettings(s), WithClock(func() time.Time { return fixedNow })}, opts...)...)
}

func TestPlaceOrder(t *testing.T) {
	m := metrics.New(nil)
	c := filledCart(t)
	svc := newService(c, WithMetrics(m))

	order, err := svc.PlaceOrder(context.Background(), validInfo(), PaymentUPI)
	require.NoError(t, err)

	assert.Equal(t, "VAN1717000000000", order.ID)
	assert.Equal(t, fixedNow, order.PlacedAt)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "6", order.Items[0].Product.ID)
	assert.Equal(t, 38999, order.Summary.Subtotal)
	assert.Equal(t, 500, order.Summary.Shipping)
	assert.Equal(t, 39499, order.Summary.Total)
	assert.Equal(t, PaymentUPI, order.Payment)
	assert.Zero(t, c.Len(), "cart is emptied")

	snap := m.GetSnapshot()
	assert.EqualValues(t, 1, snap.Orders)
	assert.EqualValues(t, 39499, snap.OrderValue)
}

func TestPlaceOrderRejections(t *testing.T) {
	ctx := context.Background()

	_, err := newService(cart.New()).PlaceOrder(ctx, validInfo(), PaymentCard)
	assert.ErrorIs(t, err, verrors.ErrEmptyCart)

	c := filledCart(t)
	svc := newService(c)

	_, err = svc.PlaceOrder(ctx, validInfo(), PaymentMethod("crypto"))
	assert.ErrorIs(t, err, verrors.ErrInvalidPaymentMethod)

	info := validInfo()
	info.Pincode = "  "
	_, err = svc.PlaceOrder(ctx, info, PaymentCOD)
	assert.ErrorIs(t, err, verrors.ErrMissingShippingField)
	assert.Contains(t, err.Error(), "pincode")

	assert.Equal(t, 1, c.Len(), "rejected orders leave the cart alone")
}

func TestPlaceOrderWaitsAndHonoursCancel(t *testing.T) {
	c := filledCart(t)
	svc := New(c, WithSettings(Settings{Delay: time.Hour, Rules: cart.DefaultShippingRules(), OrderPrefix: "VAN"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := svc.PlaceOrder(ctx, validInfo(), PaymentCard)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, 1, c.Len())

	svc.UpdateSettings(Settings{Delay: 30 * time.Millisecond, Rules: cart.DefaultShippingRules(), OrderPrefix: "VAN"})
	start := time.Now()
	_, err = svc.PlaceOrder(context.Background(), validInfo(), PaymentCard)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestItemsAddedDuringDelayStayInCart(t *testing.T) {
	ctx := context.Background()
	c := filledCart(t)
	s := DefaultSettings()
	s.Delay = 50 * time.Millisecond
	svc := New(c, WithSettings(s))

	rose, err := catalog.Default().Find("1")
	require.NoError(t, err)
	added := make(chan error, 1)
	go func() {
		time.Sleep(10 * time.Millisecond)
		added <- c.AddItem(ctx, cart.LineItem{Product: rose, Quantity: 1, Size: "M", Color: "Pink"})
	}()

	order, err := svc.PlaceOrder(ctx, validInfo(), PaymentCard)
	require.NoError(t, err)
	require.NoError(t, <-added)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "6", order.Items[0].Product.ID)
	left := c.Items()
	require.Len(t, left, 1, "the late line is kept for the next order")
	assert.Equal(t, "1", left[0].Product.ID)
}

func TestConcurrentOrdersShareOneCart(t *testing.T) {
	c := filledCart(t)
	s := DefaultSettings()
	s.Delay = 20 * time.Millisecond
	svc := New(c, WithSettings(s))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		placed int
		empty  int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.PlaceOrder(context.Background(), validInfo(), PaymentCOD)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				placed++
			case errors.Is(err, verrors.ErrEmptyCart):
				empty++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, placed, "one cart yields one order")
	assert.Equal(t, 1, empty)
	assert.Zero(t, c.Len())
}

func TestUpdateSettingsChangesRules(t *testing.T) {
	c := filledCart(t)
	svc := newService(c)
	assert.Equal(t, 500, svc.Quote().Shipping)

	svc.UpdateSettings(SettingsFrom(configs.CheckoutConfig{FreeShippingAbove: 30000, ShippingFee: 250, OrderPrefix: "ORD"}))
	assert.Zero(t, svc.Quote().Shipping)

	order, err := svc.PlaceOrder(context.Background(), validInfo(), PaymentCard)
	require.NoError(t, err)
	assert.Regexp(t, `^ORD\d+$`, order.ID)
	assert.Equal(t, 38999, order.Summary.Total)
}

func TestPlaceOrderReportsPersistFailure(t *testing.T) {
	mem := persist.NewMemoryStorage()
	c := filledCart(t, cart.WithSlot(persist.NewSlot[cart.State](mem, nil, cart.SlotName)))
	require.NoError(t, mem.Close())

	order, err := newService(c).PlaceOrder(context.Background(), validInfo(), PaymentCard)
	require.Error(t, err)
	assert.True(t, verrors.IsClosed(err))
	assert.NotEmpty(t, order.ID, "the order is still returned")
}

func TestParsePaymentMethod(t *testing.T) {
	for in, want := range map[string]PaymentMethod{"card": PaymentCard, "UPI": PaymentUPI, " cod ": PaymentCOD} {
		got, err := ParsePaymentMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParsePaymentMethod("")
	assert.True(t, verrors.IsValidation(err))
}

func TestShippingInfoFrom(t *testing.T) {
	u := auth.User{Email: "priya@example.com", FirstName: "Priya", LastName: "Sharma", Phone: "111"}
	a := auth.Address{Name: "Priya S", Address: "12 MG Road", City: "Jaipur", State: "Rajasthan", Pincode: "302001"}

	info := ShippingInfoFrom(u, a)
	assert.NoError(t, info.Validate())
	assert.Equal(t, "Priya", info.FirstName)
	assert.Equal(t, "111", info.Phone, "falls back to the account phone")

	info = ShippingInfoFrom(auth.User{Email: "x@y.z"}, auth.Address{Name: "Meera Iyer", Phone: "222"})
	assert.Equal(t, "Meera", info.FirstName)
	assert.Equal(t, "Iyer", info.LastName)
	assert.Equal(t, "222", info.Phone)
}
