package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Humphrey-He/vanya/configs"
	"github.com/Humphrey-He/vanya/internal/metrics"
	"github.com/Humphrey-He/vanya/pkg/auth"
	"github.com/Humphrey-He/vanya/pkg/cart"
	verrors "github.com/Humphrey-He/vanya/pkg/errors"
	"github.com/Humphrey-He/vanya/pkg/persist"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fill puts one entry in every store.
func fill(t *testing.T, s *Session) {
	t.Helper()
	ctx := context.Background()

	p, err := s.Catalog.Find("2")
	require.NoError(t, err)
	require.NoError(t, s.Cart.AddItem(ctx, cart.LineItem{Product: p, Quantity: 2, Size: p.Sizes[0], Color: p.Colors[0]}))
	require.NoError(t, s.Wishlist.AddItem(ctx, p))
	ok, err := s.Auth.Login(ctx, "priya@example.com", "pw")
	require.NoError(t, err)
	require.True(t, ok)
	_, err = s.Auth.AddAddress(ctx, auth.Address{Name: "Home", City: "Jaipur", IsDefault: true})
	require.NoError(t, err)
}

func TestRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemoryStorage()
	m := metrics.New(nil)

	fill(t, New(mem, WithAuthDelay(0)))
	assert.Equal(t, []string{"vanya-auth", "vanya-cart", "vanya-wishlist"}, mem.Names())

	s := New(mem, WithAuthDelay(0), WithMetrics(m))
	r, err := s.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, Restored{Cart: true, Wishlist: true, Auth: true}, r)

	assert.Equal(t, 2, s.Cart.TotalItems())
	assert.True(t, s.Wishlist.IsInWishlist("2"))
	assert.True(t, s.Auth.IsAuthenticated())
	def, ok := s.Auth.DefaultAddress()
	require.True(t, ok)
	assert.Equal(t, "Jaipur", def.City)

	snap := m.GetSnapshot()
	assert.EqualValues(t, 3, snap.Restores)
	assert.EqualValues(t, 3, snap.SlotReads)
}

func TestRestoreEmptyStorage(t *testing.T) {
	s := New(persist.NewMemoryStorage(), WithAuthDelay(0))
	r, err := s.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Restored{}, r)
	assert.Zero(t, s.Cart.Len())
}

func TestRestoreIsPartialWhenOneSlotIsCorrupt(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemoryStorage()
	fill(t, New(mem, WithAuthDelay(0)))
	require.NoError(t, mem.Set(ctx, "vanya-wishlist", []byte("{not json")))

	s := New(mem, WithAuthDelay(0))
	_, err := s.Restore(ctx)
	require.Error(t, err)
	assert.True(t, verrors.IsSerializationError(err))
	assert.Contains(t, err.Error(), "restore wishlist")
}

func TestCustomSlotsAreIndependent(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemoryStorage()
	slots := Slots{Cart: "a-cart", Wishlist: "a-wish", Auth: "a-auth"}

	fill(t, New(mem, WithAuthDelay(0), WithSlots(slots)))
	other := New(mem, WithAuthDelay(0))
	r, err := other.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, Restored{}, r, "default slots are untouched")
	assert.Equal(t, slots, New(mem, WithSlots(slots)).Slots())
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	mem := persist.NewMemoryStorage()
	m := metrics.New(nil)
	s := New(mem, WithAuthDelay(0), WithMetrics(m))
	fill(t, s)

	require.NoError(t, s.Reset(ctx))
	assert.Zero(t, s.Cart.Len())
	assert.Zero(t, s.Wishlist.Len())
	assert.False(t, s.Auth.IsAuthenticated())
	assert.Empty(t, s.Auth.Addresses())
	assert.Empty(t, mem.Names())
	assert.EqualValues(t, 1, m.GetSnapshot().SessionResets)
}

func TestResetAfterCloseFails(t *testing.T) {
	s := New(persist.NewMemoryStorage(), WithAuthDelay(0))
	require.NoError(t, s.Close())
	err := s.Reset(context.Background())
	assert.True(t, verrors.IsClosed(err))
}

func TestOpenFromConfig(t *testing.T) {
	ctx := context.Background()
	cfg := configs.DefaultConfig()
	cfg.Store.Path = t.TempDir()
	cfg.Store.Codec = "json-pretty"
	cfg.Auth.SimulatedDelay = 0

	s, err := Open(cfg, nil, nil)
	require.NoError(t, err)
	fill(t, s)
	require.NoError(t, s.Close())

	s, err = Open(cfg, nil, nil)
	require.NoError(t, err)
	defer s.Close()
	r, err := s.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, r.Cart && r.Wishlist && r.Auth)

	cfg.Store.Codec = "xml"
	_, err = Open(cfg, nil, nil)
	assert.Error(t, err)
}
